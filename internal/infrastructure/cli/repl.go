package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/kballard/go-shellquote"
	"golang.org/x/term"

	"github.com/doeshing/calc-go/internal/app"
	"github.com/doeshing/calc-go/internal/domain"
	"github.com/doeshing/calc-go/internal/infrastructure/cli/helpers"
)

// REPL is the interactive calculator shell. It reads one command per line,
// dispatches it against the engine, prints the outcome, and keeps looping:
// every error here is recoverable.
type REPL struct {
	container *app.Container
	in        io.Reader
	out       io.Writer
}

// NewREPL constructs a REPL referencing stdio when in/out are nil.
func NewREPL(container *app.Container, in io.Reader, out io.Writer) *REPL {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &REPL{container: container, in: in, out: out}
}

// Run executes the read-eval-print loop until quit or EOF.
func (r *REPL) Run(ctx context.Context) error {
	interactive := isTerminal(r.in)
	if interactive {
		r.printBanner()
	}

	reader := bufio.NewReader(r.in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if interactive {
			fmt.Fprint(r.out, r.prompt())
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				if strings.TrimSpace(line) != "" {
					r.dispatch(line)
				}
				fmt.Fprintln(r.out, "Goodbye!")
				return nil
			}
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if quit := r.dispatch(line); quit {
			fmt.Fprintln(r.out, "Goodbye!")
			return nil
		}
	}
}

// dispatch runs a single line and reports whether the loop should stop.
func (r *REPL) dispatch(line string) bool {
	words, err := shellquote.Split(strings.TrimSpace(line))
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return false
	}
	if len(words) == 0 {
		return false
	}

	cmd, args := strings.ToLower(words[0]), words[1:]
	switch cmd {
	case "quit", "exit":
		return true
	case "help", "?":
		r.printHelp()
	case "undo":
		r.printOutcome(r.container.Engine.Undo())
	case "redo":
		r.printOutcome(r.container.Engine.Redo())
	case "operations":
		fmt.Fprintln(r.out, strings.Join(r.container.Registry.List(), ", "))
	case "history":
		r.showHistory(args)
	case "stats":
		r.showStats()
	case "clear":
		if err := r.container.HistoryStore.Clear(); err != nil {
			fmt.Fprintf(r.out, "Error: %v\n", err)
			return false
		}
		fmt.Fprintln(r.out, "History cleared")
	case "save-history":
		r.saveHistory(args)
	case "load-history":
		r.loadHistory(args)
	case "load-plugin":
		r.loadPlugin(args)
	case "reload-plugins":
		app.LoadPlugins(r.container.Registry, r.container.PluginLoader,
			r.container.Config.Plugins.Directory, r.container.Logger)
		fmt.Fprintln(r.out, strings.Join(r.container.Registry.List(), ", "))
	default:
		r.execute(cmd, args)
	}
	return false
}

// execute treats the command word as an operation name. A single operand is
// allowed for unary plugin operations (sqrt and friends); the second operand
// defaults to zero.
func (r *REPL) execute(name string, args []string) {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintf(r.out, "Usage: %s <number1> [<number2>]\n", name)
		return
	}

	a, err := helpers.ParseOperand(args[0])
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}
	var b float64
	if len(args) == 2 {
		b, err = helpers.ParseOperand(args[1])
		if err != nil {
			fmt.Fprintf(r.out, "Error: %v\n", err)
			return
		}
	}

	r.printOutcome(r.container.Engine.Execute(name, a, b))
}

func (r *REPL) printOutcome(result float64, err error) {
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(r.out, "Result: %s\n", helpers.FormatResult(result))
}

func (r *REPL) showHistory(args []string) {
	filter := domain.HistoryFilter{Limit: r.container.Config.History.DisplayLimit}
	if len(args) == 1 {
		n, err := helpers.ParseOperand(args[0])
		if err != nil || n < 1 {
			fmt.Fprintln(r.out, "Usage: history [<limit>]")
			return
		}
		filter.Limit = int(n)
	}

	records, err := r.container.HistoryStore.Records(filter)
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}
	if len(records) == 0 {
		fmt.Fprintln(r.out, "No calculations found")
		return
	}
	for _, rec := range records {
		fmt.Fprintln(r.out, helpers.FormatRecord(rec))
	}
}

func (r *REPL) showStats() {
	records, err := r.container.HistoryStore.Records(domain.HistoryFilter{
		Limit: domain.MaxHistoryAnalysisRecords,
	})
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}
	if len(records) == 0 {
		fmt.Fprintln(r.out, "No calculations found")
		return
	}

	stats := helpers.AnalyzeRecords(records)
	fmt.Fprintf(r.out, "Total calculations: %d\n", stats.Total)
	fmt.Fprintf(r.out, "Most used operation: %s\n", stats.MostUsed)
	fmt.Fprintf(r.out, "Average result: %.2f\n", stats.AverageResult)
	fmt.Fprintln(r.out, "Operations breakdown:")
	ops := make([]string, 0, len(stats.OperationCounts))
	for op := range stats.OperationCounts {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	for _, op := range ops {
		fmt.Fprintf(r.out, "  %s: %d\n", op, stats.OperationCounts[op])
	}
	fmt.Fprintf(r.out, "Last calculation: %s\n", stats.LastCalculation.Format(domain.DisplayTimestampFormat))
	fmt.Fprintf(r.out, "Unique operations used: %d\n", stats.UniqueOperations)
}

func (r *REPL) saveHistory(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "Usage: save-history <file>")
		return
	}
	if err := r.container.HistoryStore.ExportCSV(args[0]); err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(r.out, "History saved to %s\n", args[0])
}

func (r *REPL) loadHistory(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "Usage: load-history <file>")
		return
	}
	if err := r.container.HistoryStore.ImportCSV(args[0]); err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(r.out, "History loaded from %s\n", args[0])
}

func (r *REPL) loadPlugin(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "Usage: load-plugin <name>")
		return
	}

	p, err := r.container.PluginLoader.Load(args[0])
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}
	if err := r.container.PluginLoader.RegisterInto(r.container.Registry, p); err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}

	names := make([]string, 0, len(p.Operations))
	for name := range p.Operations {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintf(r.out, "Loaded plugin %s: %s\n", p.Name, strings.Join(names, ", "))
}

func (r *REPL) prompt() string {
	if p := r.container.Config.REPL.Prompt; p != "" {
		return p
	}
	return domain.DefaultPrompt
}

func (r *REPL) printBanner() {
	fmt.Fprintln(r.out, "Calc interactive shell. Type help to list commands, quit to exit.")
	fmt.Fprintf(r.out, "Operations: %s\n", strings.Join(r.container.Registry.List(), ", "))
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.out, "Available commands:")
	fmt.Fprintln(r.out, "  Operations:")
	for _, name := range r.container.Registry.List() {
		fmt.Fprintf(r.out, "    %s <num1> [<num2>]\n", name)
	}
	fmt.Fprintln(r.out, "  Stacks:")
	fmt.Fprintln(r.out, "    undo                   - Undo the last operation")
	fmt.Fprintln(r.out, "    redo                   - Redo the last undone operation")
	fmt.Fprintln(r.out, "  History:")
	fmt.Fprintln(r.out, "    history [<limit>]      - Show recent calculations")
	fmt.Fprintln(r.out, "    stats                  - Show history statistics")
	fmt.Fprintln(r.out, "    clear                  - Clear persisted history")
	fmt.Fprintln(r.out, "    save-history <file>    - Export history to a CSV file")
	fmt.Fprintln(r.out, "    load-history <file>    - Replace history from a CSV file")
	fmt.Fprintln(r.out, "  Plugins:")
	fmt.Fprintln(r.out, "    operations             - List registered operations")
	fmt.Fprintln(r.out, "    load-plugin <name>     - Load a plugin by name")
	fmt.Fprintln(r.out, "    reload-plugins         - Re-scan the plugin directory")
	fmt.Fprintln(r.out, "  Other:")
	fmt.Fprintln(r.out, "    help                   - Show this help")
	fmt.Fprintln(r.out, "    quit (or exit)         - Exit the calculator")
}

func isTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
