package compiler

import (
	"github.com/strandscript/libscript/internal/ast"
	"github.com/strandscript/libscript/internal/ir"
	"github.com/strandscript/libscript/internal/source"
	"github.com/strandscript/libscript/internal/symbols"
	"github.com/strandscript/libscript/internal/types"
)

// lowerInitialization selects an initialization form: given a
// target type and an ast.Initialization node, select the initialization
// category (Default, Copy, Direct, List, Aggregate, Reference) and
// produce the IR expression that materializes it.
func (c *Compiler) lowerInitialization(target types.Type, init ast.Initialization, scope *symbols.Scope) ir.Expr {
	switch n := init.(type) {
	case *ast.DefaultInitialization:
		return c.lowerDefaultInit(target, n, scope)
	case *ast.CopyInitialization:
		return c.lowerCopyInit(target, n, scope)
	case *ast.DirectInitialization:
		return c.lowerDirectInit(target, n, scope, true)
	case *ast.ListInitialization:
		return c.lowerListInit(target, n.Elements, n.Span(), scope)
	case nil:
		return c.lowerDefaultInit(target, &ast.DefaultInitialization{}, scope)
	default:
		c.Session.report(CannotResolveAutoType, init.Span(), "unknown initialization form %T", init)
		return ir.NewLiteral(types.FromPrimitive(types.Void), nil)
	}
}

func (c *Compiler) lowerDefaultInit(target types.Type, n *ast.DefaultInitialization, scope *symbols.Scope) ir.Expr {
	if target.IsAnyReference() {
		c.Session.report(CouldNotConvert, n.Span(), "references must be initialized")
		return ir.NewLiteral(target, nil)
	}
	if target.Kind == types.KindFunctionType {
		c.Session.report(CouldNotConvert, n.Span(), "function variables must be initialized")
		return ir.NewLiteral(target, nil)
	}
	if target.Kind == types.KindEnum {
		c.Session.report(CouldNotConvert, n.Span(), "enumerations must be initialized")
		return ir.NewLiteral(target, nil)
	}
	if target.Kind == types.KindClass {
		if class, ok := c.Session.Types.ClassPayload(target).(*symbols.Class); ok {
			return c.callConstructor(class, nil, n.Span(), scope)
		}
	}
	return ir.NewLiteral(target, zeroValue(target))
}

func (c *Compiler) lowerCopyInit(target types.Type, n *ast.CopyInitialization, scope *symbols.Scope) ir.Expr {
	value, err := c.lowerExpr(n.Value, scope)
	if err != nil {
		return ir.NewLiteral(target, nil)
	}
	return c.convertTo(target, value, n.Value.Span(), scope, false)
}

func (c *Compiler) lowerDirectInit(target types.Type, n *ast.DirectInitialization, scope *symbols.Scope, allowExplicit bool) ir.Expr {
	args := make([]ir.Expr, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		v, err := c.lowerExpr(a, scope)
		if err == nil {
			args = append(args, v)
		}
	}
	if len(args) == 1 && target.Kind != types.KindClass {
		return c.convertTo(target, args[0], n.Span(), scope, false)
	}
	if target.Kind == types.KindClass {
		if class, ok := c.Session.Types.ClassPayload(target).(*symbols.Class); ok {
			return c.callConstructor(class, args, n.Span(), scope)
		}
	}
	if len(args) == 1 {
		return c.convertTo(target, args[0], n.Span(), scope, false)
	}
	c.Session.report(CouldNotConvert, n.Span(), "cannot initialize %s from %d argument(s)", c.Session.Types.TypeName(target), len(args))
	return ir.NewLiteral(target, nil)
}

// lowerListInit implements the List initialization category: prefer a
// single-parameter initializer-list constructor, then fall back to
// positional constructor overload resolution, then aggregate
// initialization, rejecting narrowing conversions throughout.
func (c *Compiler) lowerListInit(target types.Type, elemNodes []ast.Expression, sp source.Span, scope *symbols.Scope) ir.Expr {
	elems := make([]ir.Expr, 0, len(elemNodes))
	for _, e := range elemNodes {
		v, err := c.lowerExpr(e, scope)
		if err == nil {
			elems = append(elems, v)
		}
	}

	if target.Kind == types.KindClass {
		class, _ := c.Session.Types.ClassPayload(target).(*symbols.Class)
		if class == nil {
			c.Session.report(NotAClass, sp, "%s is not a class", c.Session.Types.TypeName(target))
			return ir.NewLiteral(target, nil)
		}
		if len(elems) == 0 {
			return c.callConstructor(class, nil, sp, scope)
		}
		// Prefer a single initializer-list constructor when exactly one
		// constructor takes an InitializerList<T> whose element type every
		// entry converts to.
		if ctor, elemType, ok := singleInitListConstructor(class, c.Session.Types); ok {
			converted := make([]ir.Expr, len(elems))
			ok := true
			for i, e := range elems {
				conv := c.computeConversion(e.ExprType(), elemType, scope)
				if !conv.ok() || conv.Narrowing {
					ok = false
					break
				}
				converted[i] = c.applyConversion(e, conv, elemType)
			}
			if ok {
				list := ir.NewInitializerList(types.FromPrimitive(types.InitializerListMarker), converted)
				return ir.NewConstructorCall(target, class, ctor, []ir.Expr{list})
			}
		}
		argTypes := make([]types.Type, len(elems))
		for i, e := range elems {
			argTypes[i] = e.ExprType()
		}
		mark := c.Session.Sink.Len()
		if fn, convs, err := c.resolveConstructor(class, argTypes, scope, sp); err == nil {
			for _, conv := range convs {
				if conv.Narrowing {
					c.Session.report(CouldNotConvertNarrowing, sp, "narrowing conversion in brace initialization")
					break
				}
			}
			return ir.NewConstructorCall(target, class, fn, c.convertArgs(fn, elems, convs))
		}
		c.Session.Sink.Truncate(mark)
		// Aggregate initialization: no constructor matched, target has a
		// trivial (defaulted-or-absent) constructor, and the source is a
		// positional brace list.
		trivial := true
		for _, ctor := range class.Constructors {
			if !ctor.Flags.Defaulted {
				trivial = false
				break
			}
		}
		if trivial && len(elems) <= len(class.AllDataMembers()) {
			all := class.AllDataMembers()
			converted := make([]ir.Expr, len(elems))
			for i, e := range elems {
				converted[i] = c.convertTo(all[i].Type, e, sp, scope, true)
			}
			return ir.NewInitializerList(target, converted)
		}
		c.Session.report(NoViableOverload, sp, "could not find valid constructor for %s", c.Session.Types.TypeName(target))
		return ir.NewLiteral(target, nil)
	}

	if len(elems) == 0 {
		return ir.NewLiteral(target, zeroValue(target))
	}
	if len(elems) == 1 {
		conv := c.computeConversion(elems[0].ExprType(), target, scope)
		if !conv.ok() {
			c.Session.report(CouldNotConvert, sp, "cannot convert to %s", c.Session.Types.TypeName(target))
			return ir.NewLiteral(target, nil)
		}
		if conv.Narrowing {
			c.Session.report(CouldNotConvertNarrowing, sp, "narrowing conversion in brace initialization")
		}
		return c.applyConversion(elems[0], conv, target)
	}
	c.Session.report(CouldNotConvert, sp, "too many initializers for %s", c.Session.Types.TypeName(target))
	return ir.NewLiteral(target, nil)
}

// singleInitListConstructor reports the class's sole constructor (if
// exactly one exists) whose single declared parameter is an
// InitializerList<T>, and T.
func singleInitListConstructor(class *symbols.Class, sys *types.System) (*symbols.Function, types.Type, bool) {
	var found *symbols.Function
	var elemType types.Type
	for _, ctor := range class.Constructors {
		if len(ctor.Prototype.Params) != 2 {
			continue
		}
		param := ctor.Prototype.Params[1].Decayed()
		list, isClass := sys.ClassPayload(param).(*symbols.Class)
		if !isClass || !sys.IsInitializerList(param) || list.Instance == nil || len(list.Instance.Arguments) != 1 {
			continue
		}
		if found != nil {
			return nil, types.Type{}, false
		}
		found = ctor
		elemType = list.Instance.Arguments[0].Type
	}
	return found, elemType, found != nil
}

// resolveConstructor resolves class's constructor overload set against
// already-lowered argument types. The freshly-constructed object itself
// fills the implicit-object slot, so the caller's argument list never
// includes it.
func (c *Compiler) resolveConstructor(class *symbols.Class, argTypes []types.Type, scope *symbols.Scope, sp source.Span) (*symbols.Function, []Conversion, *Error) {
	objType := class.SelfType
	return c.resolveOverload(class.Constructors, &objType, argTypes, scope, sp)
}

// callConstructor resolves and invokes the best-matching constructor of
// class for the given already-lowered arguments.
func (c *Compiler) callConstructor(class *symbols.Class, args []ir.Expr, sp source.Span, scope *symbols.Scope) ir.Expr {
	if class.IsAbstract() {
		c.Session.report(AbstractClassInstantiation, sp, "cannot instantiate abstract class %q", class.Name)
		return ir.NewLiteral(class.SelfType, nil)
	}
	if len(class.Constructors) == 0 && len(args) == 0 {
		return ir.NewConstructorCall(class.SelfType, class, syntheticDefaultCtor(class), nil)
	}
	argTypes := make([]types.Type, len(args))
	for i, a := range args {
		argTypes[i] = a.ExprType()
	}
	fn, convs, err := c.resolveConstructor(class, argTypes, scope, sp)
	if err != nil {
		return ir.NewLiteral(class.SelfType, nil)
	}
	return ir.NewConstructorCall(class.SelfType, class, fn, c.convertArgs(fn, args, convs))
}

// syntheticDefaultCtor returns a compiler-synthesized defaulted default
// constructor for a class declared with no constructors at all (an
// aggregate/POD type), used so default-construction always has a
// callable shell for the IR even though no explicit ctor was ever
// declared or generated.
func syntheticDefaultCtor(class *symbols.Class) *symbols.Function {
	fn := symbols.NewFunction(class.Name, types.Prototype{
		Return: types.FromPrimitive(types.Void),
		Params: []types.Type{class.SelfType.WithThisParameter(true).WithReference(true)},
	})
	fn.Flags.Defaulted = true
	fn.Parent = class
	return fn
}

// calleeParamTypes returns fn's parameter types with any leading
// implicit-object slot stripped.
func calleeParamTypes(fn *symbols.Function) []types.Type {
	params := fn.Prototype.Params
	if len(params) > 0 && params[0].IsThisParameter() {
		return params[1:]
	}
	return params
}

// convertArgs applies each slot's chosen conversion sequence to an
// already-lowered argument list, converting to fn's declared parameter
// types (excluding the implicit-object slot).
func (c *Compiler) convertArgs(fn *symbols.Function, args []ir.Expr, convs []Conversion) []ir.Expr {
	params := calleeParamTypes(fn)
	out := make([]ir.Expr, len(args))
	for i, a := range args {
		if i < len(convs) && i < len(params) {
			out[i] = c.applyConversion(a, convs[i], params[i])
			continue
		}
		out[i] = a
	}
	return out
}

// convertTo converts an already-lowered expression to target, reporting
// a diagnostic (and, when listForm is set, treating narrowing as an
// error) on failure.
func (c *Compiler) convertTo(target types.Type, value ir.Expr, sp source.Span, scope *symbols.Scope, listForm bool) ir.Expr {
	conv := c.computeConversion(value.ExprType(), target, scope)
	if !conv.ok() {
		c.Session.report(CouldNotConvert, sp, "could not convert from %s to %s",
			c.Session.Types.TypeName(value.ExprType()), c.Session.Types.TypeName(target))
		return ir.NewLiteral(target, nil)
	}
	if listForm && conv.Narrowing {
		c.Session.report(CouldNotConvertNarrowing, sp, "narrowing conversion in brace initialization")
	}
	return c.applyConversion(value, conv, target)
}

// zeroValue returns the default-constructed value for a fundamental
// target type
// type yields the zero value of that type".
func zeroValue(t types.Type) any {
	if t.Kind != types.KindPrimitive {
		return nil
	}
	switch types.Primitive(t.Code) {
	case types.Bool:
		return false
	case types.Char:
		return rune(0)
	case types.Int:
		return int64(0)
	case types.Float:
		return float32(0)
	case types.Double:
		return float64(0)
	case types.String:
		return ""
	default:
		return nil
	}
}
