package compiler

import (
	"fmt"

	"github.com/strandscript/libscript/internal/ast"
	"github.com/strandscript/libscript/internal/diag"
	"github.com/strandscript/libscript/internal/ir"
	"github.com/strandscript/libscript/internal/symbols"
	"github.com/strandscript/libscript/internal/types"
)

// funcCompiler carries the per-function state statement lowering needs: the
// local-variable frame, the loop-entry marks break/continue unwind to, and
// the return-type deduction state a lambda body uses.
type funcCompiler struct {
	c     *Compiler
	fn    *symbols.Function // nil for the top-level script body
	frame *symbols.Frame
	scope *symbols.Scope

	loopMarks []int

	deduceReturn   bool
	deducedReturn  types.Type
	sawValueReturn bool
}

func (fc *funcCompiler) returnType() types.Type {
	if fc.fn == nil {
		return types.FromPrimitive(types.Void)
	}
	return fc.fn.Prototype.Return
}

// functionParts extracts the declared parameter list and body shared by
// every function-like declaration form.
func functionParts(def ast.Node) (params []*ast.ParameterDeclaration, body *ast.CompoundStatement) {
	switch d := def.(type) {
	case *ast.FunctionDeclaration:
		return d.Parameters, d.Body
	case *ast.ConstructorDeclaration:
		return d.Parameters, d.Body
	case *ast.DestructorDeclaration:
		return nil, d.Body
	case *ast.OperatorOverloadDeclaration:
		return d.Parameters, d.Body
	case *ast.ConversionOperatorDeclaration:
		return nil, d.Body
	case *ast.LiteralOperatorDeclaration:
		return d.Parameters, d.Body
	default:
		return nil, nil
	}
}

// compileQueuedFunction compiles one queued body: a function frame is
// built with the implicit `this` at slot 0 for non-static members, the
// declared parameters in their prototype slots, then the body statements
// lower inside it. Constructors additionally lower their member-
// initializer list first; destructors append the reverse-order data-member
// teardown.
func (c *Compiler) compileQueuedFunction(fn *symbols.Function, def ast.Node, scope *symbols.Scope) {
	if fn.Flags.Deleted || fn.Body != nil || fn.Native != nil {
		return
	}
	declParams, body := functionParts(def)

	frame := symbols.FunctionFrame(fn)
	thisOffset := 0
	if len(fn.Prototype.Params) > 0 && fn.Prototype.Params[0].IsThisParameter() {
		frame.Locals.Declare("this", fn.Prototype.Params[0])
		thisOffset = 1
	}
	for i, p := range declParams {
		name := ""
		if p.Name != nil {
			name = simpleName(p.Name)
		}
		if i+thisOffset < len(fn.Prototype.Params) {
			frame.Locals.Declare(name, fn.Prototype.Params[i+thisOffset])
		}
	}

	fc := &funcCompiler{c: c, fn: fn, frame: frame, scope: scope.Push(frame)}

	var stmts []ir.Stmt
	if ctor, ok := def.(*ast.ConstructorDeclaration); ok {
		stmts = append(stmts, c.lowerMemberInitializers(fn, ctor, fc)...)
	}
	if body != nil {
		for _, s := range body.Statements {
			lowered, err := fc.lowerStmt(s)
			if err != nil {
				continue
			}
			if lowered != nil {
				stmts = append(stmts, lowered)
			}
		}
	}
	if _, isDtor := def.(*ast.DestructorDeclaration); isDtor {
		if class, ok := fn.Parent.(*symbols.Class); ok {
			this := ir.NewStackValue(fn.Prototype.Params[0], 0)
			all := class.AllDataMembers()
			for i := len(all) - 1; i >= 0; i-- {
				stmts = append(stmts, ir.NewPopDataMemberStmt(this, i))
			}
		}
	}

	fn.Body = &ir.FunctionBody{
		ParameterTypes: fn.Prototype.Params,
		LocalCount:     frame.Locals.Count(),
		Statements:     stmts,
	}
}

// lowerMemberInitializers lowers a constructor's `: member(args), ...`
// list: each entry names an own data member (an inherited one is an
// error) or the base class, and lowers to an initialization of that slot
// evaluated before the body runs.
func (c *Compiler) lowerMemberInitializers(fn *symbols.Function, ctor *ast.ConstructorDeclaration, fc *funcCompiler) []ir.Stmt {
	class, ok := fn.Parent.(*symbols.Class)
	if !ok {
		return nil
	}
	this := ir.NewStackValue(fn.Prototype.Params[0], 0)

	var stmts []ir.Stmt
	for _, init := range ctor.MemberInits {
		name := simpleName(init.Member)

		if class.Base != nil && name == class.Base.Name {
			var args []ir.Expr
			for _, a := range init.Arguments {
				if v, err := c.lowerExpr(a, fc.scope); err == nil {
					args = append(args, v)
				}
			}
			stmts = append(stmts, ir.NewExpressionStmt(c.callConstructor(class.Base, args, init.Member.Span(), fc.scope)))
			continue
		}

		idx, own := class.OwnDataMemberIndex(name)
		if !own {
			if _, inherited := class.DataMemberIndex(name); inherited {
				c.Session.report(NotDataMember, init.Member.Span(), "cannot initialize inherited data member %q", name)
			} else {
				c.Session.report(NotDataMember, init.Member.Span(), "%q is not a data member of %q", name, class.Name)
			}
			continue
		}
		offset := idx
		if class.Base != nil {
			offset += len(class.Base.AllDataMembers())
		}
		member := class.DataMembers[idx]

		var value ir.Expr
		switch len(init.Arguments) {
		case 0:
			value = c.lowerDefaultInit(member.Type, &ast.DefaultInitialization{}, fc.scope)
		case 1:
			if v, err := c.lowerExpr(init.Arguments[0], fc.scope); err == nil {
				value = c.convertTo(member.Type, v, init.Member.Span(), fc.scope, false)
			}
		default:
			direct := &ast.DirectInitialization{Arguments: init.Arguments}
			value = c.lowerDirectInit(member.Type, direct, fc.scope, true)
		}
		if value == nil {
			continue
		}
		target := ir.NewMemberAccess(member.Type, this, class, offset)
		stmts = append(stmts, ir.NewExpressionStmt(ir.NewBinaryOp(member.Type, "=", target, value)))
	}
	return stmts
}

// lowerStmt dispatches one statement. A nil, nil return means the
// statement lowered to nothing (a
// bare `;`).
func (fc *funcCompiler) lowerStmt(s ast.Statement) (ir.Stmt, error) {
	c := fc.c
	switch n := s.(type) {
	case *ast.NullStatement:
		return nil, nil

	case *ast.ExpressionStatement:
		expr, err := c.lowerExpr(n.Expr, fc.scope)
		if err != nil {
			return nil, err
		}
		return ir.NewExpressionStmt(expr), nil

	case *ast.DeclarationStatement:
		return fc.lowerLocalDeclaration(n)

	case *ast.CompoundStatement:
		return fc.lowerBlock(n), nil

	case *ast.IfStatement:
		cond, err := c.lowerExpr(n.Condition, fc.scope)
		if err != nil {
			return nil, err
		}
		cond = c.convertTo(types.FromPrimitive(types.Bool), cond, n.Condition.Span(), fc.scope, false)
		thenStmt, err := fc.lowerStmt(n.Then)
		if err != nil {
			return nil, err
		}
		var elseStmt ir.Stmt
		if n.Else != nil {
			elseStmt, err = fc.lowerStmt(n.Else)
			if err != nil {
				return nil, err
			}
		}
		return ir.NewIfStmt(cond, thenStmt, elseStmt), nil

	case *ast.WhileStatement:
		cond, err := c.lowerExpr(n.Condition, fc.scope)
		if err != nil {
			return nil, err
		}
		cond = c.convertTo(types.FromPrimitive(types.Bool), cond, n.Condition.Span(), fc.scope, false)
		body, err := fc.lowerLoopBody(n.Body, fc.frame.Locals.Mark())
		if err != nil {
			return nil, err
		}
		return ir.NewWhileStmt(cond, body), nil

	case *ast.ForStatement:
		return fc.lowerFor(n)

	case *ast.ReturnStatement:
		return fc.lowerReturn(n)

	case *ast.BreakStatement:
		if len(fc.loopMarks) == 0 {
			return nil, c.Session.report(BreakOutsideLoop, n.Span(), "'break' outside of a loop")
		}
		return ir.NewBreakStmt(fc.destructorExprs(fc.loopMarks[len(fc.loopMarks)-1])), nil

	case *ast.ContinueStatement:
		if len(fc.loopMarks) == 0 {
			return nil, c.Session.report(ContinueOutsideLoop, n.Span(), "'continue' outside of a loop")
		}
		return ir.NewContinueStmt(fc.destructorExprs(fc.loopMarks[len(fc.loopMarks)-1])), nil

	default:
		return nil, c.Session.report(CannotResolveAutoType, s.Span(), "unsupported statement form %T", s)
	}
}

// lowerBlock establishes a nested local-variable scope; exiting it emits
// destructor calls for the block's locals in reverse declaration order.
func (fc *funcCompiler) lowerBlock(block *ast.CompoundStatement) ir.Stmt {
	mark := fc.frame.Locals.Mark()
	var stmts []ir.Stmt
	for _, s := range block.Statements {
		lowered, err := fc.lowerStmt(s)
		if err != nil {
			continue
		}
		if lowered != nil {
			stmts = append(stmts, lowered)
		}
	}
	dtors := fc.destructorExprs(mark)
	fc.frame.Locals.PopTo(mark)
	return ir.NewCompoundStmt(stmts, dtors)
}

// lowerLoopBody lowers a loop's body with the loop-entry mark pushed so
// break/continue inside it know how far to unwind.
func (fc *funcCompiler) lowerLoopBody(body ast.Statement, mark int) (ir.Stmt, error) {
	fc.loopMarks = append(fc.loopMarks, mark)
	defer func() { fc.loopMarks = fc.loopMarks[:len(fc.loopMarks)-1] }()
	return fc.lowerStmt(body)
}

// lowerFor scopes the init-statement's declaration to the loop alone,
// wrapping the lowered loop in a compound when the init declared a local
// that needs destruction on exit.
func (fc *funcCompiler) lowerFor(n *ast.ForStatement) (ir.Stmt, error) {
	c := fc.c
	mark := fc.frame.Locals.Mark()

	var initStmt ir.Stmt
	if n.Init != nil {
		var err error
		initStmt, err = fc.lowerStmt(n.Init)
		if err != nil {
			return nil, err
		}
	}
	var cond ir.Expr
	if n.Cond != nil {
		v, err := c.lowerExpr(n.Cond, fc.scope)
		if err != nil {
			return nil, err
		}
		cond = c.convertTo(types.FromPrimitive(types.Bool), v, n.Cond.Span(), fc.scope, false)
	}
	var post ir.Expr
	if n.Post != nil {
		v, err := c.lowerExpr(n.Post, fc.scope)
		if err != nil {
			return nil, err
		}
		post = v
	}
	body, err := fc.lowerLoopBody(n.Body, fc.frame.Locals.Mark())
	if err != nil {
		return nil, err
	}

	forStmt := ir.NewForStmt(initStmt, cond, post, body)
	dtors := fc.destructorExprs(mark)
	fc.frame.Locals.PopTo(mark)
	if len(dtors) > 0 {
		return ir.NewCompoundStmt([]ir.Stmt{forStmt}, dtors), nil
	}
	return forStmt, nil
}

// lowerReturn checks the value against the declared (or deduced) return
// type and emits destructor calls for every enclosing scope.
func (fc *funcCompiler) lowerReturn(n *ast.ReturnStatement) (ir.Stmt, error) {
	c := fc.c
	dtors := fc.destructorExprs(0)

	if n.Value == nil {
		if !fc.deduceReturn && !fc.returnType().IsVoid() {
			return nil, c.Session.report(ReturnTypeMismatch, n.Span(), "non-void function must return a value")
		}
		return ir.NewReturnStmt(nil, dtors), nil
	}

	value, err := c.lowerExpr(n.Value, fc.scope)
	if err != nil {
		return nil, err
	}

	if fc.deduceReturn {
		vt := value.ExprType().Decayed()
		if !fc.sawValueReturn {
			fc.deducedReturn = vt
			fc.sawValueReturn = true
		} else if !types.Equal(fc.deducedReturn, vt) {
			conv := c.computeConversion(vt, fc.deducedReturn, fc.scope)
			if !conv.ok() {
				return nil, c.Session.report(CannotResolveAutoType, n.Span(), "inconsistent deduced return types %s and %s",
					c.Session.Types.TypeName(fc.deducedReturn), c.Session.Types.TypeName(vt))
			}
			value = c.applyConversion(value, conv, fc.deducedReturn)
		}
		return ir.NewReturnStmt(value, dtors), nil
	}

	if fc.returnType().IsVoid() {
		return nil, c.Session.report(ReturnTypeMismatch, n.Span(), "void function must not return a value")
	}
	value = c.convertTo(fc.returnType(), value, n.Value.Span(), fc.scope, false)
	return ir.NewReturnStmt(value, dtors), nil
}

// lowerLocalDeclaration declares a block-scope variable: `auto` deduces
// from the initializer's base type, references must be initialized (the
// shared initialization lowering enforces it), and the slot's initial
// value lowers to an expression statement in declaration position.
func (fc *funcCompiler) lowerLocalDeclaration(n *ast.DeclarationStatement) (ir.Stmt, error) {
	c := fc.c
	d, ok := n.Decl.(*ast.VariableDeclaration)
	if !ok {
		return nil, c.Session.report(CannotResolveAutoType, n.Span(), "only variable declarations may appear in statement position")
	}
	name := simpleName(d.Name)

	if at, isAuto := d.Type.(*ast.AutoType); isAuto {
		copyInit, cok := d.Init.(*ast.CopyInitialization)
		if !cok {
			return nil, c.Session.report(CannotResolveAutoType, d.Span(), "cannot deduce the type of %q without an '= expression' initializer", name)
		}
		value, err := c.lowerExpr(copyInit.Value, fc.scope)
		if err != nil {
			return nil, err
		}
		t := value.ExprType().Decayed()
		if at.Const {
			t = t.WithConst(true)
		}
		if at.Ref == ast.LValueRef {
			t = t.WithReference(true)
		}
		init := c.convertTo(t, value, copyInit.Span(), fc.scope, false)
		fc.frame.Locals.Declare(name, t)
		return ir.NewExpressionStmt(init), nil
	}

	t := c.resolveTypeOrReport(d.Type, fc.scope)
	init := c.lowerInitialization(t, d.Init, fc.scope)
	fc.frame.Locals.Declare(name, t)
	return ir.NewExpressionStmt(init), nil
}

// destructorExprs builds the destructor calls for every local declared
// since mark, innermost (latest) first, skipping the implicit-object slot
// and locals of non-class type.
func (fc *funcCompiler) destructorExprs(mark int) []ir.Expr {
	entries := fc.frame.Locals.SinceMark(mark)
	var out []ir.Expr
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.Type.IsThisParameter() || e.Type.IsAnyReference() {
			continue
		}
		class, ok := fc.c.Session.Types.ClassPayload(e.Type.Decayed()).(*symbols.Class)
		if !ok || class.Destructor == nil {
			continue
		}
		out = append(out, ir.NewFunctionCall(types.FromPrimitive(types.Void), class.Destructor,
			ir.NewStackValue(e.Type, e.Index), nil))
	}
	return out
}

// errorCount counts Error-severity messages, the delta check the Resolver
// entry points use to decide whether a nested compile succeeded.
func (c *Compiler) errorCount() int {
	n := 0
	for _, m := range c.Session.Sink.Messages() {
		if m.Severity == diag.Error {
			n++
		}
	}
	return n
}

// CompileFunctionBody implements internal/template.Resolver: compile a
// shelled function-template instance's body in the instantiation scope.
func (c *Compiler) CompileFunctionBody(fn *symbols.Function, def ast.Node, scope *symbols.Scope) error {
	before := c.errorCount()
	c.compileQueuedFunction(fn, def, scope)
	if c.errorCount() > before {
		return fmt.Errorf("compilation of %q failed", fn.Name)
	}
	return nil
}

// CompileClassBody implements internal/template.Resolver: compile a
// shelled class-template instance's members in the instantiation scope.
func (c *Compiler) CompileClassBody(class *symbols.Class, def ast.Node, scope *symbols.Scope) error {
	d, ok := def.(*ast.ClassDeclaration)
	if !ok {
		return fmt.Errorf("class template definition is %T, not a class declaration", def)
	}
	before := c.errorCount()
	c.compileClassMembers(class, d, scope)
	if c.errorCount() > before {
		return fmt.Errorf("compilation of %q failed", class.Name)
	}
	return nil
}

// EvalConstInt implements internal/template.Resolver: evaluate a
// constant-expression template argument (or enumerator value) to an
// integer. Anything that does not fold to a literal is rejected as a
// non-constant expression.
func (c *Compiler) EvalConstInt(node ast.Node, scope *symbols.Scope) (int64, error) {
	expr, ok := node.(ast.Expression)
	if !ok {
		return 0, fmt.Errorf("expected a constant expression, got %T", node)
	}
	mark := c.Session.Sink.Len()
	lowered, err := c.lowerExpr(expr, scope)
	if err != nil {
		c.Session.Sink.Truncate(mark)
		return 0, err
	}
	v, ok := foldConst(lowered)
	if !ok {
		return 0, fmt.Errorf("%q is not a constant expression", expr.String())
	}
	switch value := v.(type) {
	case int64:
		return value, nil
	case rune:
		return int64(value), nil
	case bool:
		if value {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("%q is not an integral constant", expr.String())
	}
}

// EvalConstBool implements internal/template.Resolver.
func (c *Compiler) EvalConstBool(node ast.Node, scope *symbols.Scope) (bool, error) {
	expr, ok := node.(ast.Expression)
	if !ok {
		return false, fmt.Errorf("expected a constant expression, got %T", node)
	}
	mark := c.Session.Sink.Len()
	lowered, err := c.lowerExpr(expr, scope)
	if err != nil {
		c.Session.Sink.Truncate(mark)
		return false, err
	}
	v, ok := foldConst(lowered)
	if !ok {
		return false, fmt.Errorf("%q is not a constant expression", expr.String())
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%q is not a boolean constant", expr.String())
	}
	return b, nil
}

// foldConst extracts the compile-time value of an already-lowered
// expression, folding the arithmetic the enumerator/template-argument
// grammar permits over literals.
func foldConst(e ir.Expr) (any, bool) {
	switch n := e.(type) {
	case *ir.Literal:
		return n.Value, true
	case *ir.FundamentalConversion:
		return foldConst(n.Inner)
	case *ir.Copy:
		return foldConst(n.Inner)
	case *ir.UnaryOp:
		v, ok := foldConst(n.Operand)
		if !ok {
			return nil, false
		}
		switch n.Operator {
		case "-":
			if i, ok := v.(int64); ok {
				return -i, true
			}
			if f, ok := v.(float64); ok {
				return -f, true
			}
		case "!":
			if b, ok := v.(bool); ok {
				return !b, true
			}
		}
		return nil, false
	case *ir.BinaryOp:
		l, lok := foldConst(n.Left)
		r, rok := foldConst(n.Right)
		if !lok || !rok {
			return nil, false
		}
		li, lInt := l.(int64)
		ri, rInt := r.(int64)
		if !lInt || !rInt {
			return nil, false
		}
		switch n.Operator {
		case "+":
			return li + ri, true
		case "-":
			return li - ri, true
		case "*":
			return li * ri, true
		case "/":
			if ri == 0 {
				return nil, false
			}
			return li / ri, true
		case "%":
			if ri == 0 {
				return nil, false
			}
			return li % ri, true
		case "<<":
			return li << uint(ri), true
		case ">>":
			return li >> uint(ri), true
		case "&":
			return li & ri, true
		case "|":
			return li | ri, true
		case "^":
			return li ^ ri, true
		case "==":
			return li == ri, true
		case "!=":
			return li != ri, true
		case "<":
			return li < ri, true
		case ">":
			return li > ri, true
		case "<=":
			return li <= ri, true
		case ">=":
			return li >= ri, true
		}
		return nil, false
	default:
		return nil, false
	}
}
