package script

import (
	"fmt"

	"github.com/strandscript/libscript/internal/compiler"
	"github.com/strandscript/libscript/internal/diag"
	"github.com/strandscript/libscript/internal/ir"
	"github.com/strandscript/libscript/internal/parser"
	"github.com/strandscript/libscript/internal/source"
	"github.com/strandscript/libscript/internal/symbols"
	"github.com/strandscript/libscript/internal/types"
)

// CommandContext holds the host's runtime-bound variables a command
// compiles against.
type CommandContext struct {
	bindings []symbols.ContextBinding
}

// NewCommandContext creates an empty context.
func NewCommandContext() *CommandContext { return &CommandContext{} }

func (c *CommandContext) bind(name string, t types.Type, index int) {
	c.bindings = append(c.bindings, symbols.ContextBinding{Name: name, Type: t, Index: index})
}

// BindBool, BindInt, BindDouble and BindString expose one host variable
// of the given primitive type at the given runtime slot.
func (c *CommandContext) BindBool(name string, index int) {
	c.bind(name, types.FromPrimitive(types.Bool), index)
}

func (c *CommandContext) BindInt(name string, index int) {
	c.bind(name, types.FromPrimitive(types.Int), index)
}

func (c *CommandContext) BindDouble(name string, index int) {
	c.bind(name, types.FromPrimitive(types.Double), index)
}

func (c *CommandContext) BindString(name string, index int) {
	c.bind(name, types.FromPrimitive(types.String), index)
}

// Command is one compiled command statement plus the diagnostics its
// compilation produced.
type Command struct {
	stmt ir.Stmt
	sess *compiler.Session
	ok   bool
}

// Ok reports whether the command compiled without errors.
func (c *Command) Ok() bool { return c.ok }

// Stmt returns the lowered statement, nil when compilation failed.
func (c *Command) Stmt() ir.Stmt { return c.stmt }

// Messages returns the diagnostics the compilation accumulated.
func (c *Command) Messages() []diag.Message { return c.sess.Sink.Messages() }

// CompileCommand parses and compiles one statement against ctx's
// bindings — the `compile(command, context)` entry point. A
// nil ctx compiles against an empty context.
func (e *Engine) CompileCommand(src string, ctx *CommandContext) *Command {
	comp := compiler.NewCompiler()
	if e != nil && e.opts.Modules != nil {
		comp.Modules = e.opts.Modules
	}

	file := source.NewFromString("<command>", src)
	stmt, serr := parser.New(file).ParseCommand()
	if serr != nil {
		comp.Session.Sink.Add(diag.New(diag.Error).At(serr.Span).Write(serr.Message).Finish())
		return &Command{sess: comp.Session}
	}

	var bindings []symbols.ContextBinding
	if ctx != nil {
		bindings = ctx.bindings
	}
	lowered, ok := comp.CompileCommand(stmt, bindings)
	if !ok && comp.Session.Sink.Len() == 0 {
		comp.Session.Sink.Add(diag.New(diag.Error).Write(fmt.Sprintf("command %q failed to compile", src)).Finish())
	}
	return &Command{stmt: lowered, sess: comp.Session, ok: ok}
}
