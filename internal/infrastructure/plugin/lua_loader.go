// Package plugin loads calculator plugins written as Lua scripts.
//
// A plugin is a single .lua file in the configured plugin directory. The
// script must set two globals:
//
//	plugin_name = "scientific"
//	operations = {
//	    power = function(a, b) return a ^ b end,
//	}
//
// Each operation receives two numbers and returns one. Calling error(...)
// inside an operation surfaces as an invalid-operation failure, matching the
// built-ins' precondition errors.
package plugin

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/doeshing/calc-go/internal/domain"
	"github.com/doeshing/calc-go/internal/ports"
)

// LuaLoader discovers and loads Lua plugins from a directory.
type LuaLoader struct {
	// Directory resolves bare plugin identifiers passed to Load.
	Directory string
	Logger    ports.Logger
}

// NewLuaLoader builds a loader rooted at dir.
func NewLuaLoader(dir string, log ports.Logger) *LuaLoader {
	return &LuaLoader{Directory: dir, Logger: log}
}

// Discover scans dir for candidate plugin identifiers. Every call re-scans;
// results are sorted for deterministic load order. Files starting with an
// underscore are skipped, mirroring the directory's role as a workspace.
func (l *LuaLoader) Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("plugin directory %s: %w", dir, err)
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "_") || !strings.HasSuffix(name, ".lua") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".lua"))
	}
	sort.Strings(ids)
	return ids, nil
}

// Load loads a single plugin by identifier. The identifier is either a bare
// name resolved against the loader's directory or an explicit .lua path.
func (l *LuaLoader) Load(identifier string) (domain.Plugin, error) {
	path := l.resolve(identifier)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Plugin{}, &domain.PluginNotFoundError{Name: identifier}
		}
		return domain.Plugin{}, &domain.PluginLoadError{Name: identifier, Err: err}
	}

	state := newSandboxedState()
	if err := state.L.DoFile(path); err != nil {
		state.L.Close()
		return domain.Plugin{}, &domain.PluginLoadError{Name: identifier, Err: err}
	}

	p, err := extractPlugin(state, path)
	if err != nil {
		state.L.Close()
		return domain.Plugin{}, fmt.Errorf("plugin %s: %w", identifier, err)
	}
	return p, nil
}

// LoadAll discovers then loads every candidate in dir. A single plugin's
// failure is recorded and logged but never aborts the batch.
func (l *LuaLoader) LoadAll(dir string) []ports.PluginLoadResult {
	ids, err := l.Discover(dir)
	if err != nil {
		l.Logger.Warn("plugin discovery failed", map[string]interface{}{
			"directory": dir,
			"error":     err.Error(),
		})
		return nil
	}

	results := make([]ports.PluginLoadResult, 0, len(ids))
	for _, id := range ids {
		p, err := l.Load(id)
		if err != nil {
			l.Logger.Error("failed to load plugin", err, map[string]interface{}{
				"plugin": id,
			})
		}
		results = append(results, ports.PluginLoadResult{Identifier: id, Plugin: p, Err: err})
	}
	return results
}

// RegisterInto validates the plugin exposes at least one operation, then
// registers each one. A zero-operation plugin or a name collision under the
// registry policy fails with an ErrInvalidPlugin-wrapped error.
func (l *LuaLoader) RegisterInto(registry ports.OperationRegistry, p domain.Plugin) error {
	if len(p.Operations) == 0 {
		return fmt.Errorf("plugin %q exposes no operations: %w", p.Name, domain.ErrInvalidPlugin)
	}

	names := make([]string, 0, len(p.Operations))
	for name := range p.Operations {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		op := domain.Operation{
			Name:   name,
			Source: domain.SourcePlugin,
			Apply:  p.Operations[name],
		}
		if err := registry.Register(op); err != nil {
			return fmt.Errorf("plugin %q: %w", p.Name, errors.Join(domain.ErrInvalidPlugin, err))
		}
		l.Logger.Info("registered plugin operation", map[string]interface{}{
			"plugin":    p.Name,
			"operation": name,
		})
	}
	return nil
}

func (l *LuaLoader) resolve(identifier string) string {
	if strings.HasSuffix(identifier, ".lua") || strings.ContainsRune(identifier, os.PathSeparator) {
		return identifier
	}
	return filepath.Join(l.Directory, identifier+".lua")
}

// luaState pairs an LState with the mutex guarding it. gopher-lua states are
// not goroutine-safe, so every operation call from a loaded plugin takes the
// plugin's lock.
type luaState struct {
	L  *lua.LState
	mu sync.Mutex
}

// newSandboxedState creates a Lua state with only safe standard libraries:
// base, table, string, and math. io, os, debug, and package stay closed.
func newSandboxedState() *luaState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	return &luaState{L: L}
}

// extractPlugin validates the script's globals against the plugin contract
// and wraps each Lua operation as a domain.OperationFunc. The LState stays
// alive for the process lifetime; the returned closures own it.
func extractPlugin(state *luaState, path string) (domain.Plugin, error) {
	nameVal := state.L.GetGlobal("plugin_name")
	name, ok := nameVal.(lua.LString)
	if !ok || string(name) == "" {
		return domain.Plugin{}, fmt.Errorf("missing plugin_name global: %w", domain.ErrInvalidPlugin)
	}

	opsVal := state.L.GetGlobal("operations")
	table, ok := opsVal.(*lua.LTable)
	if !ok {
		return domain.Plugin{}, fmt.Errorf("missing operations table: %w", domain.ErrInvalidPlugin)
	}

	ops := make(map[string]domain.OperationFunc)
	var invalid error
	table.ForEach(func(k, v lua.LValue) {
		if invalid != nil {
			return
		}
		key, ok := k.(lua.LString)
		if !ok {
			invalid = fmt.Errorf("operations table has a non-string key %q: %w", k.String(), domain.ErrInvalidPlugin)
			return
		}
		fn, ok := v.(*lua.LFunction)
		if !ok {
			invalid = fmt.Errorf("operation %q is not a function: %w", key, domain.ErrInvalidPlugin)
			return
		}
		opName := strings.ToLower(string(key))
		ops[opName] = wrapLuaFunction(state, opName, fn)
	})
	if invalid != nil {
		return domain.Plugin{}, invalid
	}

	return domain.Plugin{
		Name:       string(name),
		Path:       path,
		Operations: ops,
	}, nil
}

func wrapLuaFunction(state *luaState, opName string, fn *lua.LFunction) domain.OperationFunc {
	return func(a, b float64) (float64, error) {
		state.mu.Lock()
		defer state.mu.Unlock()

		err := state.L.CallByParam(lua.P{
			Fn:      fn,
			NRet:    1,
			Protect: true,
		}, lua.LNumber(a), lua.LNumber(b))
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %s", domain.ErrInvalidOperation, opName, luaErrorMessage(err))
		}

		ret := state.L.Get(-1)
		state.L.Pop(1)
		n, ok := ret.(lua.LNumber)
		if !ok {
			return 0, fmt.Errorf("%w: %s returned %s, want number", domain.ErrInvalidOperation, opName, ret.Type())
		}
		return float64(n), nil
	}
}

// luaErrorMessage strips gopher-lua's stack traceback, keeping the message.
func luaErrorMessage(err error) string {
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) {
		msg := apiErr.Object.String()
		if i := strings.Index(msg, "\nstack traceback"); i >= 0 {
			msg = msg[:i]
		}
		return msg
	}
	return err.Error()
}

var _ ports.PluginLoader = (*LuaLoader)(nil)
