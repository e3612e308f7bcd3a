package script

import (
	"github.com/strandscript/libscript/internal/ast"
	"github.com/strandscript/libscript/internal/compiler"
	"github.com/strandscript/libscript/internal/diag"
	"github.com/strandscript/libscript/internal/ir"
	"github.com/strandscript/libscript/internal/parser"
	"github.com/strandscript/libscript/internal/source"
)

// Script is one compilable source buffer plus everything its compilation
// produced: the AST, the compiler session (symbols, types, IR), and the
// accumulated diagnostics. Compile() == false with the messages exposed
// is the whole user-visible failure surface.
type Script struct {
	engine *Engine
	file   *source.File

	tu       *ast.TranslationUnit
	compiler *compiler.Compiler
	compiled bool
	ok       bool
}

// File returns the script's decoded source buffer.
func (s *Script) File() *source.File { return s.file }

// Parse lexes and parses the script without compiling it, for tooling
// that only wants the AST.
func (s *Script) Parse() (*ast.TranslationUnit, error) {
	if s.tu != nil {
		return s.tu, nil
	}
	tu, serr := parser.New(s.file).Parse()
	if serr != nil {
		return nil, serr
	}
	s.tu = tu
	return tu, nil
}

// Compile runs the full pipeline. It is idempotent: recompiling a script
// returns the first compilation's verdict.
func (s *Script) Compile() bool {
	if s.compiled {
		return s.ok
	}
	s.compiled = true

	s.compiler = compiler.NewCompiler()
	if s.engine != nil && s.engine.opts.Modules != nil {
		s.compiler.Modules = s.engine.opts.Modules
	}

	tu, err := s.Parse()
	if err != nil {
		if serr, ok := err.(*parser.SyntaxError); ok {
			s.compiler.Session.Sink.Add(diag.New(diag.Error).At(serr.Span).Write(serr.Message).Finish())
		} else {
			s.compiler.Session.Sink.Add(diag.New(diag.Error).Write(err.Error()).Finish())
		}
		s.ok = false
		return false
	}

	s.ok = s.compiler.Compile(tu)
	return s.ok
}

// Messages returns every diagnostic the compilation accumulated, in
// emission order.
func (s *Script) Messages() []diag.Message {
	if s.compiler == nil {
		return nil
	}
	return s.compiler.Session.Sink.Messages()
}

// MessagesJSON renders the diagnostics as pretty-printed JSON for host
// tooling.
func (s *Script) MessagesJSON() ([]byte, error) {
	if s.compiler == nil {
		return []byte("[]"), nil
	}
	return diag.ToJSON(s.compiler.Session.Sink)
}

// Session exposes the compile session — the symbol tree, type system,
// global initializers, and top-level statements — for the interpreter and
// for tests.
func (s *Script) Session() *compiler.Session {
	if s.compiler == nil {
		return nil
	}
	return s.compiler.Session
}

// GlobalInits returns the compiled global initializers in declaration
// order.
func (s *Script) GlobalInits() []compiler.GlobalInit {
	if s.compiler == nil {
		return nil
	}
	return s.compiler.Session.GlobalInits
}

// RootStatements returns the lowered top-level statements run after the
// globals are initialized.
func (s *Script) RootStatements() []ir.Stmt {
	if s.compiler == nil {
		return nil
	}
	return s.compiler.Session.RootStatements
}
