// Package template is the template engine: parameters/arguments,
// pattern matching and deduction, partial ordering, and instantiation of
// function and class templates, including partial-specialization
// selection.
package template

import (
	"github.com/strandscript/libscript/internal/ast"
	"github.com/strandscript/libscript/internal/symbols"
	"github.com/strandscript/libscript/internal/types"
)

// deduction accumulates parameter-name -> argument bindings during a
// deduction walk, rejecting a pattern the moment two positions disagree
// on the same parameter.
type deduction struct {
	values map[string]symbols.TemplateArgument
}

func newDeduction() *deduction { return &deduction{values: map[string]symbols.TemplateArgument{}} }

func (d *deduction) record(name string, arg symbols.TemplateArgument) bool {
	if existing, ok := d.values[name]; ok {
		return existing.Equal(arg)
	}
	d.values[name] = arg
	return true
}

// DeduceFunctionArguments walks a function template's parameter patterns
// against concrete call-site argument types, returning the deduced
// arguments keyed by template parameter name. A parameter that no pattern
// binds is absent from the map; ok is false when a pattern does not match
// its argument or two patterns bind one parameter differently.
func DeduceFunctionArguments(tmpl *symbols.Template, paramDecls []*ast.ParameterDeclaration, argTypes []types.Type, sys *types.System) (map[string]symbols.TemplateArgument, bool) {
	names := paramNames(tmpl.Parameters)
	d := newDeduction()
	for i, p := range paramDecls {
		if i >= len(argTypes) {
			break
		}
		if !deduceParameterType(p.Type, argTypes[i], names, d, sys) {
			return nil, false
		}
	}
	return d.values, true
}

func paramNames(params []symbols.TemplateParameter) map[string]bool {
	m := make(map[string]bool, len(params))
	for _, p := range params {
		m[p.Name] = true
	}
	return m
}

// deduceParameterType implements the five-step deduction walk.
func deduceParameterType(pattern ast.TypeNode, input types.Type, tmplParams map[string]bool, d *deduction, sys *types.System) bool {
	switch p := pattern.(type) {
	case *ast.AutoType:
		return true
	case *ast.NamedType:
		return deduceNamedType(p, input, tmplParams, d, sys)
	case *ast.FunctionType:
		proto, ok := sys.FunctionPrototype(input.Decayed())
		if !ok {
			return false
		}
		if !deduceParameterType(p.ReturnType, proto.Return, tmplParams, d, sys) {
			return false
		}
		if len(p.Parameters) != len(proto.Params) {
			return false
		}
		for i, pp := range p.Parameters {
			if !deduceParameterType(pp, proto.Params[i], tmplParams, d, sys) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func deduceNamedType(p *ast.NamedType, input types.Type, tmplParams map[string]bool, d *deduction, sys *types.System) bool {
	// Step 1: strip top-level const/ref qualifiers consistent with the
	// input's qualifiers -- a `T&` pattern binds to the l-value input's
	// referent, a `T` pattern binds to the decayed input.
	var bound types.Type
	switch p.Ref {
	case ast.LValueRef, ast.RValueRef:
		if !input.IsAnyReference() {
			return false
		}
		bound = input.WithReference(false).WithForwardingReference(false)
	default:
		bound = input.Decayed()
	}
	if p.Const {
		bound = bound.WithConst(false)
	}

	// Step 2: a bare template-parameter name records a deduction.
	if simple, ok := p.Name.(*ast.SimpleIdentifier); ok && tmplParams[simple.Name] {
		return d.record(simple.Name, symbols.TypeArgument(bound))
	}

	// Step 3: a class-template-id pattern recurses into the input's own
	// instantiation arguments, when the input is an instance of the same
	// origin template.
	if tid, ok := p.Name.(*ast.TemplateIdentifier); ok {
		return deduceClassTemplateID(tid, bound, tmplParams, d, sys)
	}

	// A non-parameter, non-template-id name is a concrete type reference;
	// deduction neither records nor rejects on it (substitution failure
	// for outright mismatches is caught later by the completed
	// substitution's own type-check
	// is not an error").
	return true
}

func deduceClassTemplateID(tid *ast.TemplateIdentifier, input types.Type, tmplParams map[string]bool, d *deduction, sys *types.System) bool {
	class, ok := sys.ClassPayload(input).(*symbols.Class)
	if !ok || class.Instance == nil {
		return false
	}
	baseName, ok := tid.Name.(*ast.SimpleIdentifier)
	if !ok || class.Instance.Origin.Name != baseName.Name {
		return false
	}
	if len(tid.Arguments) != len(class.Instance.Arguments) {
		return false
	}
	for i, argNode := range tid.Arguments {
		if !deduceArgNode(argNode, class.Instance.Arguments[i], tmplParams, d, sys) {
			return false
		}
	}
	return true
}

func deduceArgNode(node ast.Node, actual symbols.TemplateArgument, tmplParams map[string]bool, d *deduction, sys *types.System) bool {
	switch n := node.(type) {
	case ast.TypeNode:
		if actual.Kind != symbols.ArgType {
			return false
		}
		return deduceParameterType(n, actual.Type, tmplParams, d, sys)
	case *ast.SimpleIdentifier:
		if tmplParams[n.Name] {
			return d.record(n.Name, actual)
		}
		return true
	default:
		return true
	}
}
