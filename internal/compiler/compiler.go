package compiler

import (
	"github.com/strandscript/libscript/internal/ast"
	"github.com/strandscript/libscript/internal/symbols"
	"github.com/strandscript/libscript/internal/template"
)

// ModuleRegistry is the host-provided registry `import` directives
// consult: a name maps to a load callback, and an unknown name is a
// compile error.
type ModuleRegistry interface {
	// LoadModule loads the named module into the engine's global scope,
	// returning an error for an unknown name or a failed load.
	LoadModule(name string) error
}

// Compiler ties the session, the symbol tree, name lookup and the
// template engine together into the two-pass semantic
// compiler. It implements internal/template.Resolver so on-demand
// template instantiation can resolve types, evaluate constant
// expressions, and compile bodies without internal/template importing
// this package back.
type Compiler struct {
	Session *Session
	Engine  *template.Engine
	Modules ModuleRegistry

	arrayTemplate           *symbols.Template
	initializerListTemplate *symbols.Template

	// closureCount numbers lambda-synthesized closure classes so two
	// lambdas in the same translation unit never collide on name.
	closureCount int

	// commandMode is set during CompileCommand: lambdas there must be
	// captureless.
	commandMode bool
}

// NewCompiler creates a fresh root Compiler with the Array<T> and
// InitializerList<T> built-in templates registered.
func NewCompiler() *Compiler {
	sess := NewSession()
	c := &Compiler{Session: sess}
	c.Engine = template.NewEngine(sess.Types, sess.Global, c)
	c.arrayTemplate = template.RegisterArrayTemplate(sess.Global)
	c.initializerListTemplate = template.RegisterInitializerListTemplate(sess.Global)
	return c
}

// GlobalScope returns the root scope rooted at the global namespace.
func (c *Compiler) GlobalScope() *symbols.Scope {
	return symbols.NewScope(symbols.NamespaceFrame(c.Session.Global))
}

// Compile runs both passes over a translation unit: declare every
// top-level name (queuing class and function bodies as it goes, and
// re-attempting declarations whose types are not yet resolvable), then
// compile every queued body and initializer, then lower the unit's
// top-level statements. Diagnostics accumulate in c.Session.Sink; Compile
// returns false once any Error-severity message was recorded, matching
// the top-level compile() contract.
func (c *Compiler) Compile(tu *ast.TranslationUnit) bool {
	scope := c.GlobalScope()

	c.Session.State = ProcessingDeclarations
	var topStatements []*ast.TopLevelStatement
	for _, decl := range tu.Declarations {
		if tls, ok := decl.(*ast.TopLevelStatement); ok {
			topStatements = append(topStatements, tls)
			continue
		}
		scope = c.declareTopLevel(scope, decl)
	}
	c.retryPendingDeclarations()

	c.Session.State = CompilingFunctions
	c.drainQueues()

	c.compileTopLevelStatements(topStatements, scope)

	c.Session.State = Finished
	if c.Session.Sink.HasError() {
		c.Session.RollbackGenerated()
		return false
	}
	return true
}

// retryPendingDeclarations re-attempts declarations queued because a type
// they reference was not declared yet, looping until every one succeeds or
// a whole pass makes no progress — at which point the remaining ones
// re-declare, reporting their resolution failures for real.
func (c *Compiler) retryPendingDeclarations() {
	for len(c.Session.declRetries) > 0 {
		retries := c.Session.declRetries
		c.Session.declRetries = nil
		for _, r := range retries {
			c.declareTopLevel(r.scope, r.decl)
		}
		if len(c.Session.declRetries) == len(retries) {
			// No progress: declare once more with reporting enabled.
			stuck := c.Session.declRetries
			c.Session.declRetries = nil
			for _, r := range stuck {
				c.declareTopLevelReporting(r.scope, r.decl)
			}
			return
		}
	}
}

// drainQueues compiles every queued class and function body, then every
// queued variable initializer, allowing work compiled later to queue
// still more (an implicitly instantiated template discovered while
// compiling an earlier body, a variable whose initializer instantiates a
// class), until all three queues are empty.
func (c *Compiler) drainQueues() {
	for {
		switch {
		case len(c.Session.pendingClasses) > 0:
			classes := c.Session.pendingClasses
			c.Session.pendingClasses = nil
			for _, pc := range classes {
				c.compileClassMembers(pc.class, pc.decl, pc.scope)
			}
		case len(c.Session.pendingFunctions) > 0:
			fns := c.Session.pendingFunctions
			c.Session.pendingFunctions = nil
			for _, pf := range fns {
				c.compileQueuedFunction(pf.fn, pf.def, pf.scope)
			}
		case len(c.Session.pendingVariables) > 0:
			vars := c.Session.pendingVariables
			c.Session.pendingVariables = nil
			for _, pv := range vars {
				c.compileVariableInitializer(pv.variable, pv.decl, pv.scope)
			}
		default:
			return
		}
	}
}

// compileTopLevelStatements lowers the unit's script-scope statements into
// Session.RootStatements, in a synthetic function scope whose locals are
// the script body's own declarations.
func (c *Compiler) compileTopLevelStatements(stmts []*ast.TopLevelStatement, scope *symbols.Scope) {
	if len(stmts) == 0 {
		return
	}
	frame := symbols.FunctionFrame(nil)
	fc := &funcCompiler{c: c, frame: frame, scope: scope.Push(frame)}
	for _, tls := range stmts {
		if lowered, err := fc.lowerStmt(tls.Stmt); err == nil && lowered != nil {
			c.Session.RootStatements = append(c.Session.RootStatements, lowered)
		}
	}
	c.Session.RootLocalCount = frame.Locals.Count()
}
