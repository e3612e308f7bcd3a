package compiler

import (
	"github.com/strandscript/libscript/internal/ast"
	"github.com/strandscript/libscript/internal/ir"
	"github.com/strandscript/libscript/internal/lookup"
	"github.com/strandscript/libscript/internal/source"
	"github.com/strandscript/libscript/internal/symbols"
	"github.com/strandscript/libscript/internal/template"
	"github.com/strandscript/libscript/internal/types"
)

// lowerExpr implements the expression lowering: dispatch on the
// AST node's concrete shape, producing a typed IR expression. Every error
// path reports through c.Session before returning, so callers that choose
// to keep walking past a bad sub-expression (lowerDirectInit's "skip the
// argument" convention) never lose the diagnostic.
func (c *Compiler) lowerExpr(e ast.Expression, scope *symbols.Scope) (ir.Expr, error) {
	switch n := e.(type) {
	case *ast.IntLiteral, *ast.FloatLiteral, *ast.StringLiteral, *ast.CharLiteral, *ast.BoolLiteral, *ast.NullptrLiteral:
		return c.lowerLiteral(n, scope)
	case *ast.ThisExpression:
		return c.lowerThisAt(n.Span(), scope)
	case *ast.BinaryExpression:
		return c.lowerBinary(n, scope)
	case *ast.UnaryExpression:
		return c.lowerUnary(n, scope)
	case *ast.PostfixExpression:
		return c.lowerPostfix(n, scope)
	case *ast.GroupedExpression:
		return c.lowerExpr(n.Inner, scope)
	case *ast.ConditionalExpression:
		return c.lowerConditional(n, scope)
	case *ast.CallExpression:
		return c.lowerCall(n, scope)
	case *ast.SubscriptExpression:
		return c.lowerSubscript(n, scope)
	case *ast.MemberExpression:
		return c.lowerMemberAccess(n, scope)
	case *ast.PointerToMemberExpression:
		return nil, c.Session.report(InvalidLValue, n.Span(), "pointer-to-member expressions are not supported")
	case *ast.BraceConstructionExpression:
		return c.lowerBraceConstruction(n, scope)
	case *ast.ArrayExpression:
		return c.lowerArrayExpr(n, scope)
	case *ast.ListExpression:
		return c.lowerListExpr(n, scope)
	case *ast.LambdaExpression:
		return c.lowerLambdaExpr(n, scope)
	default:
		if id, ok := e.(ast.Identifier); ok {
			return c.lowerIdentifierExpr(id, scope)
		}
		return nil, c.Session.report(CannotResolveAutoType, e.Span(), "unsupported expression form %T", e)
	}
}

// lowerThisAt resolves the `this` keyword: compileQueuedFunction
// (functions.go) and lambda.go declare a local literally named "this" at slot 0 of every non-static member
// function frame (and of a lambda's synthesized operator() frame), so
// `this` lowers through ordinary unqualified local lookup rather than a
// separate mechanism.
func (c *Compiler) lowerThisAt(sp source.Span, scope *symbols.Scope) (ir.Expr, error) {
	res := lookup.Unqualified(scope, "this", lookup.Policy{})
	if res.Kind != lookup.LocalName {
		return nil, c.Session.report(InvalidLValue, sp, "'this' is only valid inside a non-static member function")
	}
	return ir.NewStackValue(res.LocalType, res.LocalIndex), nil
}

// lowerLiteral decodes a literal AST node into its IR value, dispatching
// to a matching literal operator when a user-defined suffix is present
//.
func (c *Compiler) lowerLiteral(n ast.Expression, scope *symbols.Scope) (ir.Expr, error) {
	switch lit := n.(type) {
	case *ast.IntLiteral:
		return c.applyLiteralSuffix(types.FromPrimitive(types.Int), lit.Value, lit.Suffix, lit.Span(), scope)
	case *ast.FloatLiteral:
		return c.applyLiteralSuffix(types.FromPrimitive(types.Double), lit.Value, lit.Suffix, lit.Span(), scope)
	case *ast.StringLiteral:
		return c.applyLiteralSuffix(types.FromPrimitive(types.String), lit.Value, lit.Suffix, lit.Span(), scope)
	case *ast.CharLiteral:
		return c.applyLiteralSuffix(types.FromPrimitive(types.Char), lit.Value, lit.Suffix, lit.Span(), scope)
	case *ast.BoolLiteral:
		return ir.NewLiteral(types.FromPrimitive(types.Bool), lit.Value), nil
	case *ast.NullptrLiteral:
		return ir.NewLiteral(types.FromPrimitive(types.Null), nil), nil
	}
	return nil, c.Session.report(CannotResolveAutoType, n.Span(), "unknown literal form %T", n)
}

// applyLiteralSuffix dispatches a suffixed literal to its literal operator,
// requiring exactly one match. A suffix-free literal passes
// the raw value straight through.
func (c *Compiler) applyLiteralSuffix(raw types.Type, value any, suffix string, sp source.Span, scope *symbols.Scope) (ir.Expr, error) {
	if suffix == "" {
		return ir.NewLiteral(raw, value), nil
	}
	res, err := lookup.Resolve(scope, c.Session.Types, c.Engine, &ast.LiteralOperatorName{Suffix: suffix}, lookup.Policy{})
	if err != nil {
		if e, ok := err.(*Error); ok {
			return nil, e
		}
		return nil, c.Session.report(UnknownIdentifier, sp, "%s", err)
	}
	if res.Kind != lookup.FunctionName || len(res.Functions) != 1 {
		return nil, c.Session.report(UnknownIdentifier, sp, "no matching literal operator for suffix %q", suffix)
	}
	fn := res.Functions[0]
	return ir.NewFunctionCall(fn.Prototype.Return, fn, nil, []ir.Expr{ir.NewLiteral(raw, value)}), nil
}

// lowerIdentifierExpr resolves id against scope and promotes the result
// into a value expression.
func (c *Compiler) lowerIdentifierExpr(id ast.Identifier, scope *symbols.Scope) (ir.Expr, error) {
	res, err := lookup.Resolve(scope, c.Session.Types, c.Engine, id, lookup.Policy{})
	if err != nil {
		if e, ok := err.(*Error); ok {
			return nil, e
		}
		return nil, c.Session.report(UnknownIdentifier, id.Span(), "%s", err)
	}
	if !res.Found() {
		return nil, c.Session.report(UnknownIdentifier, id.Span(), "use of undeclared identifier %q", id.String())
	}
	return c.lowerLookupResult(res, id, scope)
}

// lowerLookupResult applies the promotion rules to a resolved
// name: a compile-time-constant variable becomes a Literal, an ordinary
// global or static data member a FetchGlobal, a local a StackValue, a
// capture a CaptureAccess, an own-or-inherited data member a MemberAccess
// against the implicit `this`, an enumerator a Literal of the enum's type,
// and a single-overload function name a bound function-pointer Literal.
func (c *Compiler) lowerLookupResult(res lookup.Result, id ast.Identifier, scope *symbols.Scope) (ir.Expr, error) {
	switch res.Kind {
	case lookup.GlobalName:
		if res.Variable != nil && res.Variable.IsConst {
			return ir.NewLiteral(res.Variable.Type, res.Variable.ConstValue), nil
		}
		return ir.NewFetchGlobal(res.Variable.Type, res.Variable.Index), nil
	case lookup.StaticDataMemberName:
		if res.Variable != nil && res.Variable.IsConst {
			return ir.NewLiteral(res.Variable.Type, res.Variable.ConstValue), nil
		}
		return ir.NewFetchGlobal(res.Variable.Type, res.MemberIndex), nil
	case lookup.LocalName:
		return ir.NewStackValue(res.LocalType, res.LocalIndex), nil
	case lookup.CaptureName:
		return ir.NewCaptureAccess(res.CaptureType, res.CaptureIndex), nil
	case lookup.DataMemberName:
		this, err := c.lowerThisAt(id.Span(), scope)
		if err != nil {
			return nil, err
		}
		memberType := res.Class.AllDataMembers()[res.MemberIndex].Type
		return ir.NewMemberAccess(memberType, this, res.Class, res.MemberIndex), nil
	case lookup.EnumValueName:
		return ir.NewLiteral(res.Enum.SelfType, res.EnumValue), nil
	case lookup.FunctionName:
		if len(res.Functions) != 1 {
			return nil, c.Session.report(AmbiguousIdentifier, id.Span(), "%q names an overload set; call it, or take the address of one overload explicitly", id.String())
		}
		fn := res.Functions[0]
		ft := c.Session.Types.GetFunctionType(fn.Prototype)
		return ir.NewLiteral(ft, fn), nil
	default:
		return nil, c.Session.report(UnknownIdentifier, id.Span(), "%q does not name a value", id.String())
	}
}

// lowerArgList lowers a positional call-argument list, returning the
// already-lowered expressions alongside their types for overload viability
// checks. An individual argument that fails to lower aborts the whole
// list, matching resolveOverload's need for a complete argTypes vector.
func (c *Compiler) lowerArgList(nodes []ast.Expression, scope *symbols.Scope) ([]ir.Expr, []types.Type, error) {
	exprs := make([]ir.Expr, 0, len(nodes))
	argTypes := make([]types.Type, 0, len(nodes))
	for _, n := range nodes {
		v, err := c.lowerExpr(n, scope)
		if err != nil {
			return nil, nil, err
		}
		exprs = append(exprs, v)
		argTypes = append(argTypes, v.ExprType())
	}
	return exprs, argTypes, nil
}

// lowerCall implements the three call-lowering shapes: (a) a
// bare name callee resolves by name lookup/overload resolution; (b)
// `o.m(args)` resolves against o's own overload set with true implicit-
// object overload resolution; (c) any other callee expression lowers to a
// value first and falls back to a functor call.
func (c *Compiler) lowerCall(n *ast.CallExpression, scope *symbols.Scope) (ir.Expr, error) {
	if id, ok := n.Callee.(ast.Identifier); ok {
		return c.lowerCallByName(id, n.Arguments, scope, n.Span())
	}
	if mem, ok := n.Callee.(*ast.MemberExpression); ok {
		return c.lowerMemberCall(mem, n.Arguments, scope, n.Span())
	}
	callee, err := c.lowerExpr(n.Callee, scope)
	if err != nil {
		return nil, err
	}
	return c.lowerFunctorCall(callee, n.Arguments, scope, n.Span())
}

// lowerCallByName implements call shape (a). When the resolved overload
// set is entirely non-static member functions, an unqualified call from
// inside a member context is treated as an implicit `this->name(args)`,
// eligible for virtual dispatch, matching how a qualified call
// (`Base::name()`) stays direct.
func (c *Compiler) lowerCallByName(id ast.Identifier, argNodes []ast.Expression, scope *symbols.Scope, sp source.Span) (ir.Expr, error) {
	res, err := lookup.Resolve(scope, c.Session.Types, c.Engine, id, lookup.Policy{})
	if err != nil {
		if e, ok := err.(*Error); ok {
			return nil, e
		}
		return nil, c.Session.report(UnknownIdentifier, sp, "%s", err)
	}

	switch res.Kind {
	case lookup.FunctionName:
		argExprs, argTypes, aerr := c.lowerArgList(argNodes, scope)
		if aerr != nil {
			return nil, aerr
		}
		if isImplicitMemberGroup(res.Functions) {
			this, terr := c.lowerThisAt(sp, scope)
			if terr != nil {
				return nil, terr
			}
			fullTypes := append([]types.Type{this.ExprType()}, argTypes...)
			fullArgs := append([]ir.Expr{this}, argExprs...)
			fn, convs, oerr := c.resolveOverload(res.Functions, nil, fullTypes, scope, sp)
			if oerr != nil {
				return ir.NewLiteral(types.FromPrimitive(types.Void), nil), nil
			}
			converted := c.applyCallConversions(fullArgs, fn, convs)
			_, qualified := id.(*ast.ScopedIdentifier)
			return c.finishMemberCall(fn, converted[0], converted[1:], !qualified, scope), nil
		}
		fn, convs, oerr := c.resolveOverload(res.Functions, nil, argTypes, scope, sp)
		if oerr != nil {
			return ir.NewLiteral(types.FromPrimitive(types.Void), nil), nil
		}
		return ir.NewFunctionCall(fn.Prototype.Return, fn, nil, c.convertArgs(fn, argExprs, convs)), nil

	case lookup.TemplateName:
		if res.Template.Kind != symbols.FunctionTemplateKind {
			return nil, c.Session.report(NotATemplate, sp, "%q names a class template; use an explicit %s<...> argument list", id.String(), id.String())
		}
		argExprs, argTypes, aerr := c.lowerArgList(argNodes, scope)
		if aerr != nil {
			return nil, aerr
		}
		fn, terr := c.instantiateCallTemplate(res.Template, argTypes, scope, sp)
		if terr != nil {
			return nil, terr
		}
		rfn, convs, oerr := c.resolveOverload([]*symbols.Function{fn}, nil, argTypes, scope, sp)
		if oerr != nil {
			return ir.NewLiteral(types.FromPrimitive(types.Void), nil), nil
		}
		return ir.NewFunctionCall(rfn.Prototype.Return, rfn, nil, c.convertArgs(rfn, argExprs, convs)), nil

	case lookup.TypeName:
		return c.lowerConstructionCall(res.Type, argNodes, scope, sp), nil

	case lookup.Unknown:
		return nil, c.Session.report(UnknownIdentifier, sp, "use of undeclared identifier %q", id.String())

	default:
		callee, verr := c.lowerLookupResult(res, id, scope)
		if verr != nil {
			return nil, verr
		}
		return c.lowerFunctorCall(callee, argNodes, scope, sp)
	}
}

// isImplicitMemberGroup reports whether every candidate in an overload set
// found via unqualified lookup is a non-static member function, the
// shape lowerCallByName treats as an implicit `this->name(...)` call.
func isImplicitMemberGroup(fns []*symbols.Function) bool {
	if len(fns) == 0 {
		return false
	}
	for _, fn := range fns {
		if fn.Flags.Static || len(fn.Prototype.Params) == 0 || !fn.Prototype.Params[0].IsThisParameter() {
			return false
		}
	}
	return true
}

// instantiateCallTemplate deduces tmpl's template arguments from a call
// site's argument types and instantiates it. Every template parameter
// must be deduced from the call arguments: one that deduction leaves
// unbound is reported as an error, and its declared default, if any, is
// not used at this call site.
func (c *Compiler) instantiateCallTemplate(tmpl *symbols.Template, argTypes []types.Type, scope *symbols.Scope, sp source.Span) (*symbols.Function, *Error) {
	def, ok := tmpl.Definition.(*ast.FunctionDeclaration)
	if !ok {
		return nil, c.Session.report(NotATemplate, sp, "%q does not name a function template", tmpl.Name)
	}
	deduced, ok := template.DeduceFunctionArguments(tmpl, def.Parameters, argTypes, c.Session.Types)
	if !ok {
		return nil, c.Session.report(NoViableOverload, sp, "could not deduce template arguments for %q", tmpl.Name)
	}
	args := make([]symbols.TemplateArgument, len(tmpl.Parameters))
	for i, p := range tmpl.Parameters {
		v, ok := deduced[p.Name]
		if !ok {
			return nil, c.Session.report(NoViableOverload, sp, "template parameter %q of %q could not be deduced from the call arguments", p.Name, tmpl.Name)
		}
		args[i] = v
	}
	fn, err := c.Engine.InstantiateFunctionTemplateWithArgs(tmpl, args, scope)
	if err != nil {
		return nil, c.Session.report(NoViableOverload, sp, "%s", err)
	}
	return fn, nil
}

// lowerMemberCall implements call shape (b): `o.m(args)`, resolving m
// against o's concrete class (own members, then base chain), with
// implicit-object overload resolution and virtual dispatch for an
// unqualified member name.
func (c *Compiler) lowerMemberCall(mem *ast.MemberExpression, argNodes []ast.Expression, scope *symbols.Scope, sp source.Span) (ir.Expr, error) {
	object, err := c.lowerExpr(mem.Target, scope)
	if err != nil {
		return nil, err
	}
	oType := object.ExprType()
	class, ok := c.Session.Types.ClassPayload(oType.Decayed()).(*symbols.Class)
	if !ok {
		return nil, c.Session.report(NotAClass, sp, "%s is not a class type", c.Session.Types.TypeName(oType))
	}
	name := memberSimpleName(mem.Member)
	res, ok := lookup.MemberOf(class, name)
	if !ok {
		return nil, c.Session.report(NotDataMember, mem.Member.Span(), "%s has no member %q", c.Session.Types.TypeName(oType), name)
	}
	switch res.Kind {
	case lookup.FunctionName:
		argExprs, argTypes, aerr := c.lowerArgList(argNodes, scope)
		if aerr != nil {
			return nil, aerr
		}
		fn, convs, oerr := c.resolveOverload(res.Functions, &oType, argTypes, scope, sp)
		if oerr != nil {
			return ir.NewLiteral(types.FromPrimitive(types.Void), nil), nil
		}
		converted := c.convertArgs(fn, argExprs, convs)
		_, scoped := mem.Member.(*ast.ScopedIdentifier)
		return c.finishMemberCall(fn, object, converted, !scoped, scope), nil
	case lookup.DataMemberName:
		memberType := class.AllDataMembers()[res.MemberIndex].Type
		member := ir.NewMemberAccess(memberType, object, class, res.MemberIndex)
		return c.lowerFunctorCall(member, argNodes, scope, sp)
	default:
		return nil, c.Session.report(NotDataMember, mem.Member.Span(), "%q does not name a callable member", name)
	}
}

// memberSimpleName extracts the plain name a member-access expression's
// right-hand identifier names, for base-chain member lookup.
func memberSimpleName(id ast.Identifier) string {
	switch n := id.(type) {
	case *ast.SimpleIdentifier:
		return n.Name
	case *ast.OperatorName:
		return "operator" + n.Symbol
	case *ast.ScopedIdentifier:
		return memberSimpleName(n.Right)
	default:
		return ""
	}
}

// lowerMemberAccess lowers a member-access expression used outside call
// position: a data member reads directly, a single-overload function
// member binds into a BindExpression (a callable value closing over its
// receiver), matching the function-name promotion rule applied
// to the member case.
func (c *Compiler) lowerMemberAccess(n *ast.MemberExpression, scope *symbols.Scope) (ir.Expr, error) {
	object, err := c.lowerExpr(n.Target, scope)
	if err != nil {
		return nil, err
	}
	oType := object.ExprType()
	class, ok := c.Session.Types.ClassPayload(oType.Decayed()).(*symbols.Class)
	if !ok {
		return nil, c.Session.report(NotAClass, n.Span(), "%s is not a class type", c.Session.Types.TypeName(oType))
	}
	name := memberSimpleName(n.Member)
	res, ok := lookup.MemberOf(class, name)
	if !ok {
		return nil, c.Session.report(NotDataMember, n.Member.Span(), "%s has no member %q", c.Session.Types.TypeName(oType), name)
	}
	switch res.Kind {
	case lookup.DataMemberName:
		memberType := class.AllDataMembers()[res.MemberIndex].Type
		return ir.NewMemberAccess(memberType, object, class, res.MemberIndex), nil
	case lookup.FunctionName:
		if len(res.Functions) != 1 {
			return nil, c.Session.report(AmbiguousIdentifier, n.Member.Span(), "%q names an overload set; call it directly", name)
		}
		fn := res.Functions[0]
		ft := c.Session.Types.GetFunctionType(fn.Prototype)
		return ir.NewBindExpression(ft, object, fn), nil
	default:
		return nil, c.Session.report(NotDataMember, n.Member.Span(), "%q does not name a value", name)
	}
}

// finishMemberCall wraps a resolved member-function call, dispatching
// through object's vtable when fn is virtual and the call was written
// unqualified; a
// qualified call (`Base::method()`) always calls the named override
// directly.
func (c *Compiler) finishMemberCall(fn *symbols.Function, object ir.Expr, args []ir.Expr, unqualified bool, scope *symbols.Scope) ir.Expr {
	if fn.Flags.Virtual && unqualified {
		if class, ok := c.Session.Types.ClassPayload(object.ExprType().Decayed()).(*symbols.Class); ok {
			if idx, ok := class.VTableIndex(fn); ok {
				return ir.NewVirtualCall(fn.Prototype.Return, object, fn, idx, args)
			}
		}
	}
	return ir.NewFunctionCall(fn.Prototype.Return, fn, object, args)
}

// lowerFunctorCall implements call shape (c): calling a function-typed
// value directly, or falling back to the callee's operator() overload set
// when it is class-typed.
func (c *Compiler) lowerFunctorCall(callee ir.Expr, argNodes []ast.Expression, scope *symbols.Scope, sp source.Span) (ir.Expr, error) {
	argExprs, argTypes, err := c.lowerArgList(argNodes, scope)
	if err != nil {
		return nil, err
	}
	ct := callee.ExprType()
	if ct.Decayed().Kind == types.KindFunctionType {
		proto, _ := c.Session.Types.FunctionPrototype(ct.Decayed())
		converted := make([]ir.Expr, len(argExprs))
		for i, a := range argExprs {
			if i < len(proto.Params) {
				converted[i] = c.convertTo(proto.Params[i], a, sp, scope, false)
				continue
			}
			converted[i] = a
		}
		return ir.NewFunctionVariableCall(proto.Return, callee, converted), nil
	}

	candidates := lookup.FunctorCandidates(c.Session.Types, ct.Decayed())
	if len(candidates) == 0 {
		return nil, c.Session.report(NoViableOverload, sp, "%s is not callable", c.Session.Types.TypeName(ct))
	}
	fn, convs, oerr := c.resolveOverload(candidates, &ct, argTypes, scope, sp)
	if oerr != nil {
		return ir.NewLiteral(types.FromPrimitive(types.Void), nil), nil
	}
	converted := c.convertArgs(fn, argExprs, convs)
	return c.finishMemberCall(fn, callee, converted, true, scope), nil
}

// lowerConstructionCall handles a type-name callee: `Type(args...)`
// construction (shape (a) with a TypeName lookup result) either
// constructs a class value or performs a fundamental-type cast-call.
func (c *Compiler) lowerConstructionCall(target types.Type, argNodes []ast.Expression, scope *symbols.Scope, sp source.Span) ir.Expr {
	if target.Kind == types.KindClass {
		class, ok := c.Session.Types.ClassPayload(target).(*symbols.Class)
		if !ok {
			c.Session.report(NotAClass, sp, "%s is not a class", c.Session.Types.TypeName(target))
			return ir.NewLiteral(target, nil)
		}
		args := make([]ir.Expr, 0, len(argNodes))
		for _, a := range argNodes {
			v, err := c.lowerExpr(a, scope)
			if err == nil {
				args = append(args, v)
			}
		}
		return c.callConstructor(class, args, sp, scope)
	}
	if len(argNodes) == 0 {
		return ir.NewLiteral(target, zeroValue(target))
	}
	if len(argNodes) == 1 {
		v, err := c.lowerExpr(argNodes[0], scope)
		if err != nil {
			return ir.NewLiteral(target, nil)
		}
		return c.convertTo(target, v, sp, scope, false)
	}
	c.Session.report(CouldNotConvert, sp, "too many arguments to construct %s", c.Session.Types.TypeName(target))
	return ir.NewLiteral(target, nil)
}

// lowerSubscript lowers `a[i]` via operator[] overload resolution against
// a's own class scope.
func (c *Compiler) lowerSubscript(n *ast.SubscriptExpression, scope *symbols.Scope) (ir.Expr, error) {
	array, err := c.lowerExpr(n.Array, scope)
	if err != nil {
		return nil, err
	}
	index, err := c.lowerExpr(n.Index, scope)
	if err != nil {
		return nil, err
	}
	at := array.ExprType()
	candidates := lookup.MemberOperatorCandidates(c.Session.Types, at.Decayed(), "[]")
	if len(candidates) == 0 {
		return nil, c.Session.report(NoViableOverload, n.Span(), "%s has no operator[]", c.Session.Types.TypeName(at))
	}
	fn, convs, oerr := c.resolveOverload(candidates, &at, []types.Type{index.ExprType()}, scope, n.Span())
	if oerr != nil {
		return ir.NewLiteral(types.FromPrimitive(types.Void), nil), nil
	}
	converted := c.convertArgs(fn, []ir.Expr{index}, convs)
	return ir.NewArraySubscript(fn.Prototype.Return, fn, array, converted[0]), nil
}

// lowerConditional lowers `cond ? then : else`, converting both branches
// to their common type.
func (c *Compiler) lowerConditional(n *ast.ConditionalExpression, scope *symbols.Scope) (ir.Expr, error) {
	cond, err := c.lowerExpr(n.Condition, scope)
	if err != nil {
		return nil, err
	}
	cond = c.convertTo(types.FromPrimitive(types.Bool), cond, n.Condition.Span(), scope, false)

	thenExpr, err := c.lowerExpr(n.Then, scope)
	if err != nil {
		return nil, err
	}
	elseExpr, err := c.lowerExpr(n.Else, scope)
	if err != nil {
		return nil, err
	}

	common, ok := c.commonType(thenExpr.ExprType(), elseExpr.ExprType(), scope)
	if !ok {
		return nil, c.Session.report(CouldNotConvert, n.Span(), "no common type between %s and %s",
			c.Session.Types.TypeName(thenExpr.ExprType()), c.Session.Types.TypeName(elseExpr.ExprType()))
	}
	thenExpr = c.convertTo(common, thenExpr, n.Then.Span(), scope, false)
	elseExpr = c.convertTo(common, elseExpr, n.Else.Span(), scope, false)
	return ir.NewConditionalExpression(common, cond, thenExpr, elseExpr), nil
}

// commonType picks the type both branches of a conditional expression
// convert to: identity when they already agree, otherwise whichever side
// the other converts to.
func (c *Compiler) commonType(a, b types.Type, scope *symbols.Scope) (types.Type, bool) {
	if types.Equal(a.Decayed(), b.Decayed()) {
		return a.Decayed(), true
	}
	if c.computeConversion(a, b, scope).ok() {
		return b.Decayed(), true
	}
	if c.computeConversion(b, a, scope).ok() {
		return a.Decayed(), true
	}
	return types.Type{}, false
}

// lowerBraceConstruction lowers `Type{args...}` / `Type(args...)` used as
// an expression, dispatching to the shared initialization lowering so a
// braced form gets the same List-initialization rules a brace-initialized
// variable declarator would.
func (c *Compiler) lowerBraceConstruction(n *ast.BraceConstructionExpression, scope *symbols.Scope) (ir.Expr, error) {
	target := c.resolveTypeOrReport(n.Type, scope)
	if n.Braced {
		return c.lowerListInit(target, n.Arguments, n.Span(), scope), nil
	}
	direct := &ast.DirectInitialization{Arguments: n.Arguments}
	return c.lowerDirectInit(target, direct, scope, true), nil
}

// lowerArrayExpr lowers the bracketed array-literal form `[e1, e2, ...]`
// by instantiating Array<T> with T deduced from the first element and
// every element converted to it.
func (c *Compiler) lowerArrayExpr(n *ast.ArrayExpression, scope *symbols.Scope) (ir.Expr, error) {
	if len(n.Elements) == 0 {
		return nil, c.Session.report(CannotResolveAutoType, n.Span(), "cannot deduce the element type of an empty array expression")
	}
	elems := make([]ir.Expr, len(n.Elements))
	for i, e := range n.Elements {
		v, err := c.lowerExpr(e, scope)
		if err != nil {
			return nil, err
		}
		elems[i] = v
	}
	elemType := elems[0].ExprType().Decayed()
	for i, e := range elems {
		elems[i] = c.convertTo(elemType, e, n.Elements[i].Span(), scope, false)
	}
	args := []symbols.TemplateArgument{symbols.TypeArgument(elemType)}
	class, err := c.Engine.InstantiateClassTemplateWithArgs(c.arrayTemplate, args, scope)
	if err != nil {
		return nil, c.Session.report(NotATemplate, n.Span(), "%s", err)
	}
	return ir.NewArrayExpression(class.SelfType, elems), nil
}

// lowerListExpr lowers a brace-list used directly in expression position
// (not as an initializer): each element lowers independently and the
// whole list carries the initializer-list marker type until a surrounding
// context (a call argument, a return value) resolves it against a real
// target type.
func (c *Compiler) lowerListExpr(n *ast.ListExpression, scope *symbols.Scope) (ir.Expr, error) {
	elems := make([]ir.Expr, len(n.Elements))
	for i, e := range n.Elements {
		v, err := c.lowerExpr(e, scope)
		if err != nil {
			return nil, err
		}
		elems[i] = v
	}
	return ir.NewInitializerList(types.FromPrimitive(types.InitializerListMarker), elems), nil
}
