package compiler

import (
	"github.com/strandscript/libscript/internal/ast"
	"github.com/strandscript/libscript/internal/ir"
	"github.com/strandscript/libscript/internal/symbols"
)

// CompileCommand is the `compile(command, context)` entry:
// lower a single statement against the global scope with a host-provided
// context frame inserted between the command's own function frame and the
// namespace above, so the host's runtime-bound variables resolve like
// globals. Lambdas inside a command must
// be captureless.
func (c *Compiler) CompileCommand(stmt ast.Statement, bindings []symbols.ContextBinding) (ir.Stmt, bool) {
	scope := c.GlobalScope().Push(symbols.ContextFrame(bindings))
	frame := symbols.FunctionFrame(nil)
	fc := &funcCompiler{c: c, frame: frame, scope: scope.Push(frame)}

	c.commandMode = true
	defer func() { c.commandMode = false }()

	c.Session.State = CompilingFunctions
	lowered, err := fc.lowerStmt(stmt)
	c.drainQueues()
	c.Session.State = Finished
	if err != nil {
		return nil, false
	}
	return lowered, !c.Session.Sink.HasError()
}
