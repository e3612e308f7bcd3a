package compiler

import (
	"github.com/strandscript/libscript/internal/ast"
	"github.com/strandscript/libscript/internal/diag"
	"github.com/strandscript/libscript/internal/ir"
	"github.com/strandscript/libscript/internal/symbols"
	"github.com/strandscript/libscript/internal/types"
)

// SessionState is the compile session's three-state machine: a
// compilation starts out
// declaring symbol shells, moves on to compiling queued function bodies
// once every top-level declaration has a shell, and finishes once nothing
// is left queued.
type SessionState int

const (
	ProcessingDeclarations SessionState = iota
	CompilingFunctions
	Finished
)

// pendingFunction is a function body queued for Pass 2: bodies are
// compiled only after every declaration has a shell, so mutually
// recursive functions and forward references within a translation unit
// resolve correctly.
type pendingFunction struct {
	fn    *symbols.Function
	def   ast.Node
	scope *symbols.Scope
}

// rollbackEntry undoes one piece of namespace/class mutation, used when a
// nested session (a template instantiation triggered mid-compile, or a
// default-argument re-attempt) needs to unwind partial state on failure.
type rollbackEntry func()

// Session is one compilation's mutable state: the shared type/symbol
// registries, the diagnostic sink, the declaration re-attempt queue, the
// function-body work queue, and a rollback log a nested session can pop
// back to. Parent and child sessions share Types/Global/Sink (a nested
// session never gets its own copy of the symbol tree) but each session
// gets its own pending queues and state, so a child's unfinished Pass 2
// never bleeds into a parent still in Pass 1.
type Session struct {
	State SessionState

	Types  *types.System
	Global *symbols.Namespace
	Sink   *diag.Sink

	Parent *Session

	pendingFunctions []pendingFunction
	pendingClasses   []pendingClassBody
	pendingVariables []pendingVariable
	declRetries      []pendingDecl
	rollback         []rollbackEntry

	// GlobalInits accumulates compiled global initializers in declaration
	// order; RootStatements holds the lowered top-level statements run
	// after them. Both are the compiled unit's executable surface beyond
	// its function bodies.
	GlobalInits    []GlobalInit
	RootStatements []ir.Stmt
	RootLocalCount int

	nextGlobal int
}

type pendingClassBody struct {
	class *symbols.Class
	decl  *ast.ClassDeclaration
	scope *symbols.Scope
}

// pendingVariable is a global (or static data member) whose initializer is
// compiled after every function body, in declaration order.
type pendingVariable struct {
	variable *symbols.Variable
	decl     *ast.VariableDeclaration
	scope    *symbols.Scope
}

// pendingDecl is a declaration whose types failed to resolve on the first
// attempt (a data member or function signature referencing a class that is
// declared later); it is re-attempted until all succeed or a pass makes no
// progress.
type pendingDecl struct {
	decl  ast.Declaration
	scope *symbols.Scope
}

// GlobalInit pairs a global variable with its compiled initializer
// expression, handed to the interpreter to run in declaration order.
type GlobalInit struct {
	Variable *symbols.Variable
	Init     ir.Expr
}

// NewSession creates a root session with fresh registries.
func NewSession() *Session {
	sys := types.NewSystem()
	return &Session{
		Types:  sys,
		Global: symbols.NewNamespace("", nil),
		Sink:   &diag.Sink{},
	}
}

// NewNestedSession creates a child session sharing s's registries and
// sink, starting back in ProcessingDeclarations, for a separate
// declare-then-compile pass that must not disturb the parent's queues.
func (s *Session) NewNestedSession() *Session {
	return &Session{
		State:  ProcessingDeclarations,
		Types:  s.Types,
		Global: s.Global,
		Sink:   s.Sink,
		Parent: s,
	}
}

func (s *Session) queueFunctionBody(fn *symbols.Function, def ast.Node, scope *symbols.Scope) {
	s.pendingFunctions = append(s.pendingFunctions, pendingFunction{fn: fn, def: def, scope: scope})
}

func (s *Session) queueVariable(v *symbols.Variable, decl *ast.VariableDeclaration, scope *symbols.Scope) {
	s.pendingVariables = append(s.pendingVariables, pendingVariable{variable: v, decl: decl, scope: scope})
}

func (s *Session) queueDeclRetry(decl ast.Declaration, scope *symbols.Scope) {
	s.declRetries = append(s.declRetries, pendingDecl{decl: decl, scope: scope})
}

// nextGlobalIndex hands out FetchGlobal slot indices in declaration order.
func (s *Session) nextGlobalIndex() int {
	idx := s.nextGlobal
	s.nextGlobal++
	return idx
}

func (s *Session) queueClassBody(class *symbols.Class, decl *ast.ClassDeclaration, scope *symbols.Scope) {
	s.pendingClasses = append(s.pendingClasses, pendingClassBody{class: class, decl: decl, scope: scope})
}

func (s *Session) addRollback(fn rollbackEntry) {
	s.rollback = append(s.rollback, fn)
}

// Rollback undoes every mutation recorded since mark (the rollback log's
// length at some earlier point), in reverse order.
func (s *Session) Rollback(mark int) {
	for i := len(s.rollback) - 1; i >= mark; i-- {
		s.rollback[i]()
	}
	s.rollback = s.rollback[:mark]
}

// RollbackGenerated discards everything a failed compilation registered:
// the global namespace's contents (template instance tables go with their
// templates), the compiled initializers, and the script body. Messages
// survive — they are the failure's user-visible surface.
func (s *Session) RollbackGenerated() {
	g := s.Global
	g.Namespaces = map[string]*symbols.Namespace{}
	g.Classes = map[string]*symbols.Class{}
	g.Enums = map[string]*symbols.Enum{}
	g.Variables = map[string]*symbols.Variable{}
	g.Functions = map[string][]*symbols.Function{}
	g.Operators = map[string][]*symbols.Function{}
	g.LiteralOperators = map[string]*symbols.Function{}
	g.Templates = map[string]*symbols.Template{}
	g.Aliases = map[string]*symbols.TypeAlias{}
	g.NamespaceAliases = map[string]*symbols.NamespaceAlias{}
	s.GlobalInits = nil
	s.RootStatements = nil
	s.RootLocalCount = 0
	s.pendingClasses = nil
	s.pendingFunctions = nil
	s.pendingVariables = nil
	s.declRetries = nil
	s.Rollback(0)
}

// RollbackMark returns the current rollback-log length.
func (s *Session) RollbackMark() int { return len(s.rollback) }
