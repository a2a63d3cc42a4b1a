package main

import (
	"context"
	"fmt"
	"os"

	"github.com/doeshing/calc-go/internal/infrastructure/cli"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "calc:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	root, err := cli.NewRootCmd(ctx, cli.Options{Verbose: debugEnabled()})
	if err != nil {
		return err
	}
	return root.ExecuteContext(ctx)
}

// CALC_DEBUG=1 (or true) turns on debug logging without touching the config file.
func debugEnabled() bool {
	switch os.Getenv("CALC_DEBUG") {
	case "1", "true", "TRUE", "True":
		return true
	}
	return false
}
