// Package script is the embedding facade: an Engine owning the module
// registry and engine-wide options, handing out Script values that
// compile one source buffer each through the full front-end pipeline
// (lex → parse → declare → compile) and expose the accumulated
// diagnostics and the resulting typed IR.
package script

import (
	"os"

	"github.com/strandscript/libscript/internal/source"
	"github.com/strandscript/libscript/pkg/host"
)

// EngineOptions configures an Engine at construction time.
type EngineOptions struct {
	// Modules resolves `import` directives. A nil registry makes every
	// import a compile error.
	Modules *host.ModuleRegistry

	// Natives is the host callback registry native function bindings
	// resolve through. The front end only stores identities into it.
	Natives *host.NativeRegistry
}

// Option mutates EngineOptions during NewEngine.
type Option func(*EngineOptions)

// WithModules installs a module registry.
func WithModules(m *host.ModuleRegistry) Option {
	return func(o *EngineOptions) { o.Modules = m }
}

// WithNatives installs a native callback registry.
func WithNatives(n *host.NativeRegistry) Option {
	return func(o *EngineOptions) { o.Natives = n }
}

// Engine is the single-owned root value everything hangs off — there is
// no process-wide state.
type Engine struct {
	opts EngineOptions
}

// NewEngine builds an Engine with defaults: an empty module registry and
// an empty native registry.
func NewEngine(opts ...Option) *Engine {
	o := EngineOptions{
		Modules: host.NewModuleRegistry(),
		Natives: host.NewNativeRegistry(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Engine{opts: o}
}

// Modules exposes the engine's module registry for host registration.
func (e *Engine) Modules() *host.ModuleRegistry { return e.opts.Modules }

// Natives exposes the engine's native callback registry.
func (e *Engine) Natives() *host.NativeRegistry { return e.opts.Natives }

// NewScript wraps an already-decoded source string as a compilable
// Script.
func (e *Engine) NewScript(name, text string) *Script {
	return &Script{engine: e, file: source.NewFromString(name, text)}
}

// NewScriptFromBytes decodes raw bytes (sniffing a UTF-8/UTF-16 BOM) into
// a Script — the shape a host reading files on the embedder's behalf
// uses.
func (e *Engine) NewScriptFromBytes(name string, raw []byte) *Script {
	return &Script{engine: e, file: source.New(name, raw)}
}

// LoadScript reads path from disk and decodes it as NewScriptFromBytes
// does.
func (e *Engine) LoadScript(path string) (*Script, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return e.NewScriptFromBytes(path, raw), nil
}

// Cleanup tears down every loaded module.
func (e *Engine) Cleanup() {
	if e.opts.Modules != nil {
		e.opts.Modules.Cleanup()
	}
}
