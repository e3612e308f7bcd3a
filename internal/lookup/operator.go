package lookup

import (
	"github.com/strandscript/libscript/internal/symbols"
	"github.com/strandscript/libscript/internal/types"
)

// OperatorCandidates computes the candidate set for operator overload
// resolution: operators declared in the argument types'
// own scopes, the current scope chain, and built-in operators the engine
// synthesizes for enums and function-typed values.
func OperatorCandidates(scope *symbols.Scope, sys *types.System, symbol string, argTypes []types.Type) []*symbols.Function {
	name := "operator" + symbol
	var out []*symbols.Function
	seen := map[*symbols.Function]bool{}
	add := func(fs []*symbols.Function) {
		for _, f := range fs {
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}

	for cur := scope; cur != nil; cur = cur.Parent() {
		f := cur.Frame()
		switch f.Kind {
		case symbols.ClassFrameKind:
			add(f.Class.MethodsNamed(name))
		case symbols.NamespaceFrameKind:
			add(f.Namespace.Operators[name])
		case symbols.InjectionFrameKind:
			if f.Injection.Kind == symbols.UsingNamespaceInjection {
				add(f.Injection.Namespace.Operators[name])
			}
		}
	}

	for _, t := range argTypes {
		if class, ok := sys.ClassPayload(t).(*symbols.Class); ok {
			for cur := class; cur != nil; cur = cur.Base {
				add(cur.MethodsNamed(name))
			}
		}
		if symbol == "=" {
			if enum, ok := sys.EnumPayload(t).(*symbols.Enum); ok && enum.AssignOperator != nil {
				add([]*symbols.Function{enum.AssignOperator})
			}
			if t.Kind == types.KindFunctionType {
				add([]*symbols.Function{synthesizeFunctionTypeAssign(t)})
			}
		}
	}
	return out
}

// synthesizeFunctionTypeAssign builds the implicit `T& operator=(T, T)`
// the engine provides for function-typed values.
func synthesizeFunctionTypeAssign(t types.Type) *symbols.Function {
	proto := types.Prototype{Return: t.WithReference(true), Params: []types.Type{t.WithThisParameter(true), t}}
	fn := symbols.NewFunction("operator=", proto)
	fn.Flags.Defaulted = true
	return fn
}

// MemberOperatorCandidates returns the named operator's overload set
// declared on t's class or its base chain, used where the candidate set is
// limited to one object's own class scope rather than the broader
// OperatorCandidates search — the "a must be object-typed"
// subscript rule.
func MemberOperatorCandidates(sys *types.System, t types.Type, symbol string) []*symbols.Function {
	class, ok := sys.ClassPayload(t).(*symbols.Class)
	if !ok {
		return nil
	}
	name := "operator" + symbol
	var out []*symbols.Function
	for cur := class; cur != nil; cur = cur.Base {
		out = append(out, cur.MethodsNamed(name)...)
	}
	return out
}

// MemberOf looks up name among c's own and inherited members, the same
// base-chain search Unqualified performs for a class frame, exposed here
// so call-expression lowering can resolve `o.m` against o's concrete class
// without duplicating the search.
func MemberOf(c *symbols.Class, name string) (Result, bool) {
	return lookupInClassChain(c, name)
}

// FunctorCandidates returns the `operator()` overload set declared on a
// class value's type, for the functor-call fallback: any other callee
// expression becomes a functor call.
func FunctorCandidates(sys *types.System, t types.Type) []*symbols.Function {
	class, ok := sys.ClassPayload(t).(*symbols.Class)
	if !ok {
		return nil
	}
	var out []*symbols.Function
	for cur := class; cur != nil; cur = cur.Base {
		out = append(out, cur.MethodsNamed("operator()")...)
	}
	return out
}
