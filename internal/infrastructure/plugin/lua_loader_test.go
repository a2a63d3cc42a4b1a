package plugin

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/calc-go/internal/application/registry"
	"github.com/doeshing/calc-go/internal/domain"
	"github.com/doeshing/calc-go/internal/pkg/logger"
)

const scientificPlugin = `
plugin_name = "scientific"

operations = {
    power = function(a, b)
        return a ^ b
    end,
    sqrt = function(a, b)
        if a < 0 then
            error("cannot take square root of a negative number")
        end
        return math.sqrt(a)
    end,
}
`

const brokenPlugin = `
plugin_name = "broken
`

const emptyPlugin = `
plugin_name = "empty"
operations = {}
`

func writePlugin(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("writing plugin fixture: %v", err)
	}
}

func newTestLoader(dir string) *LuaLoader {
	return NewLuaLoader(dir, logger.NewStd(logger.LevelError))
}

func TestDiscoverFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "zeta.lua", scientificPlugin)
	writePlugin(t, dir, "alpha.lua", scientificPlugin)
	writePlugin(t, dir, "_draft.lua", scientificPlugin)
	writePlugin(t, dir, "notes.txt", "not a plugin")

	ids, err := newTestLoader(dir).Discover(dir)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if diff := cmp.Diff([]string{"alpha", "zeta"}, ids); diff != "" {
		t.Fatalf("Discover() mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscoverMissingDirectory(t *testing.T) {
	_, err := newTestLoader("").Discover(filepath.Join(t.TempDir(), "absent"))
	if err == nil {
		t.Fatal("Discover() on a missing directory succeeded")
	}
}

func TestLoadValidPlugin(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "scientific.lua", scientificPlugin)

	p, err := newTestLoader(dir).Load("scientific")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if p.Name != "scientific" {
		t.Fatalf("plugin name = %q, want scientific", p.Name)
	}
	if len(p.Operations) != 2 {
		t.Fatalf("plugin exposes %d operations, want 2", len(p.Operations))
	}

	got, err := p.Operations["power"](2, 10)
	if err != nil {
		t.Fatalf("power error = %v", err)
	}
	if got != 1024 {
		t.Fatalf("power(2, 10) = %v, want 1024", got)
	}

	got, err = p.Operations["sqrt"](9, 0)
	if err != nil {
		t.Fatalf("sqrt error = %v", err)
	}
	if got != 3 {
		t.Fatalf("sqrt(9) = %v, want 3", got)
	}
}

func TestLoadMissingPlugin(t *testing.T) {
	_, err := newTestLoader(t.TempDir()).Load("absent")

	var notFound *domain.PluginNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Load() error = %T (%v), want *domain.PluginNotFoundError", err, err)
	}
	if notFound.Name != "absent" {
		t.Fatalf("error names plugin %q, want absent", notFound.Name)
	}
}

func TestLoadBrokenPlugin(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "broken.lua", brokenPlugin)

	_, err := newTestLoader(dir).Load("broken")

	var loadErr *domain.PluginLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Load() error = %T (%v), want *domain.PluginLoadError", err, err)
	}
	if loadErr.Unwrap() == nil {
		t.Fatal("PluginLoadError does not wrap the underlying cause")
	}
}

func TestLoadPluginWithoutContract(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing plugin_name", body: `operations = { double = function(a, b) return a * 2 end }`},
		{name: "missing operations table", body: `plugin_name = "nameless"`},
		{name: "non-function operation", body: `plugin_name = "odd"` + "\n" + `operations = { power = 5 }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writePlugin(t, dir, "p.lua", tt.body)

			_, err := newTestLoader(dir).Load("p")
			if !errors.Is(err, domain.ErrInvalidPlugin) {
				t.Fatalf("Load() error = %v, want ErrInvalidPlugin", err)
			}
		})
	}
}

func TestOperationErrorSurfacesAsInvalidOperation(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "scientific.lua", scientificPlugin)

	p, err := newTestLoader(dir).Load("scientific")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	_, err = p.Operations["sqrt"](-4, 0)
	if !errors.Is(err, domain.ErrInvalidOperation) {
		t.Fatalf("sqrt(-4) error = %v, want ErrInvalidOperation", err)
	}
}

func TestLoadAllIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "scientific.lua", scientificPlugin)
	writePlugin(t, dir, "broken.lua", brokenPlugin)

	results := newTestLoader(dir).LoadAll(dir)
	if len(results) != 2 {
		t.Fatalf("LoadAll() returned %d results, want 2", len(results))
	}

	var loaded, failed int
	for _, res := range results {
		if res.Err != nil {
			failed++
			continue
		}
		loaded++
	}
	if loaded != 1 || failed != 1 {
		t.Fatalf("LoadAll() loaded=%d failed=%d, want 1 and 1", loaded, failed)
	}
}

func TestRegisterIntoMergesOperations(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "scientific.lua", scientificPlugin)

	loader := newTestLoader(dir)
	p, err := loader.Load("scientific")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	reg := registry.NewWithBuiltins()
	if err := loader.RegisterInto(reg, p); err != nil {
		t.Fatalf("RegisterInto() error = %v", err)
	}

	op, err := reg.Resolve("power")
	if err != nil {
		t.Fatalf("Resolve(power) error = %v", err)
	}
	got, err := op.Apply(3, 4)
	if err != nil {
		t.Fatalf("power error = %v", err)
	}
	if got != 81 {
		t.Fatalf("power(3, 4) = %v, want 81", got)
	}
}

func TestRegisterIntoRejectsEmptyPlugin(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "empty.lua", emptyPlugin)

	loader := newTestLoader(dir)
	p, err := loader.Load("empty")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	err = loader.RegisterInto(registry.NewWithBuiltins(), p)
	if !errors.Is(err, domain.ErrInvalidPlugin) {
		t.Fatalf("RegisterInto() error = %v, want ErrInvalidPlugin", err)
	}
}

func TestRegisterIntoOverridesBuiltin(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "override.lua", `
plugin_name = "override"
operations = {
    add = function(a, b) return a + b + 100 end,
}
`)

	loader := newTestLoader(dir)
	p, err := loader.Load("override")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	reg := registry.NewWithBuiltins()
	if err := loader.RegisterInto(reg, p); err != nil {
		t.Fatalf("RegisterInto() error = %v", err)
	}

	op, err := reg.Resolve("add")
	if err != nil {
		t.Fatalf("Resolve(add) error = %v", err)
	}
	if got, _ := op.Apply(1, 1); got != 102 {
		t.Fatalf("overridden add(1, 1) = %v, want 102", got)
	}
}

func TestRegisterIntoDetectsPluginCollision(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "first.lua", `
plugin_name = "first"
operations = { power = function(a, b) return a ^ b end }
`)
	writePlugin(t, dir, "second.lua", `
plugin_name = "second"
operations = { power = function(a, b) return 0 end }
`)

	loader := newTestLoader(dir)
	reg := registry.NewWithBuiltins()

	first, err := loader.Load("first")
	if err != nil {
		t.Fatalf("Load(first) error = %v", err)
	}
	if err := loader.RegisterInto(reg, first); err != nil {
		t.Fatalf("RegisterInto(first) error = %v", err)
	}

	second, err := loader.Load("second")
	if err != nil {
		t.Fatalf("Load(second) error = %v", err)
	}
	err = loader.RegisterInto(reg, second)
	if !errors.Is(err, domain.ErrInvalidPlugin) {
		t.Fatalf("RegisterInto(second) error = %v, want ErrInvalidPlugin", err)
	}
	if !errors.Is(err, domain.ErrDuplicateOperation) {
		t.Fatalf("RegisterInto(second) error = %v, want ErrDuplicateOperation in chain", err)
	}
}

func TestPluginMathLibraryAvailable(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "log.lua", `
plugin_name = "log"
operations = {
    log = function(a, b)
        if a <= 0 then
            error("cannot take logarithm of a non-positive number")
        end
        if b <= 0 or b == 1 then
            return math.log(a)
        end
        return math.log(a) / math.log(b)
    end,
}
`)

	p, err := newTestLoader(dir).Load("log")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	got, err := p.Operations["log"](math.E, 0)
	if err != nil {
		t.Fatalf("log error = %v", err)
	}
	if math.Abs(got-1) > 1e-12 {
		t.Fatalf("log(e) = %v, want 1", got)
	}
}
