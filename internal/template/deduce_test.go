package template

import (
	"testing"

	"github.com/strandscript/libscript/internal/ast"
	"github.com/strandscript/libscript/internal/symbols"
	"github.com/strandscript/libscript/internal/types"
)

func namedType(name string, ref ast.RefKind, isConst bool) *ast.NamedType {
	return &ast.NamedType{Name: &ast.SimpleIdentifier{Name: name}, Ref: ref, Const: isConst}
}

func TestDeduceFunctionArgumentsSimpleParameter(t *testing.T) {
	tmpl := symbols.NewTemplate("identity", symbols.FunctionTemplateKind)
	tmpl.Parameters = []symbols.TemplateParameter{{Name: "T", IsType: true}}

	params := []*ast.ParameterDeclaration{{Type: namedType("T", ast.NoRef, false)}}
	argTypes := []types.Type{types.FromPrimitive(types.Int)}

	got, ok := DeduceFunctionArguments(tmpl, params, argTypes, types.NewSystem())
	if !ok {
		t.Fatalf("expected deduction to succeed")
	}
	arg, ok := got["T"]
	if !ok || arg.Kind != symbols.ArgType || !types.Equal(arg.Type, types.FromPrimitive(types.Int)) {
		t.Fatalf("expected T bound to int, got %+v", got)
	}
}

func TestDeduceFunctionArgumentsReferenceParameter(t *testing.T) {
	tmpl := symbols.NewTemplate("ref", symbols.FunctionTemplateKind)
	tmpl.Parameters = []symbols.TemplateParameter{{Name: "T", IsType: true}}

	params := []*ast.ParameterDeclaration{{Type: namedType("T", ast.LValueRef, false)}}
	argTypes := []types.Type{types.FromPrimitive(types.Double).WithReference(true)}

	got, ok := DeduceFunctionArguments(tmpl, params, argTypes, types.NewSystem())
	if !ok {
		t.Fatalf("expected deduction to succeed")
	}
	if !types.Equal(got["T"].Type, types.FromPrimitive(types.Double)) {
		t.Fatalf("expected T bound to double, got %+v", got["T"])
	}
}

func TestDeduceFunctionArgumentsByValueRejectsNonReferenceMismatch(t *testing.T) {
	tmpl := symbols.NewTemplate("takeref", symbols.FunctionTemplateKind)
	tmpl.Parameters = []symbols.TemplateParameter{{Name: "T", IsType: true}}

	params := []*ast.ParameterDeclaration{{Type: namedType("T", ast.LValueRef, false)}}
	argTypes := []types.Type{types.FromPrimitive(types.Int)} // not a reference

	if _, ok := DeduceFunctionArguments(tmpl, params, argTypes, types.NewSystem()); ok {
		t.Fatalf("expected deduction to fail: pattern requires a reference input")
	}
}

// stubResolver resolves a fixed set of built-in type names for tests that
// need to instantiate a native class template without a real compiler.
type stubResolver struct{}

func (stubResolver) ResolveType(node ast.Node, scope *symbols.Scope) (types.Type, error) {
	named := node.(*ast.NamedType)
	simple := named.Name.(*ast.SimpleIdentifier)
	switch simple.Name {
	case "int":
		return types.FromPrimitive(types.Int), nil
	case "bool":
		return types.FromPrimitive(types.Bool), nil
	case "double":
		return types.FromPrimitive(types.Double), nil
	default:
		return types.Type{}, nil
	}
}

func (stubResolver) EvalConstInt(node ast.Node, scope *symbols.Scope) (int64, error)  { return 0, nil }
func (stubResolver) EvalConstBool(node ast.Node, scope *symbols.Scope) (bool, error)  { return false, nil }
func (stubResolver) CompileFunctionBody(fn *symbols.Function, def ast.Node, scope *symbols.Scope) error {
	return nil
}
func (stubResolver) CompileClassBody(class *symbols.Class, def ast.Node, scope *symbols.Scope) error {
	return nil
}

func TestDeduceClassTemplateIDRecursesIntoArguments(t *testing.T) {
	sys := types.NewSystem()
	global := symbols.NewNamespace("", nil)
	arrTmpl := RegisterArrayTemplate(global)
	eng := NewEngine(sys, global, stubResolver{})

	inst, err := eng.InstantiateClassTemplate(arrTmpl, []ast.Node{namedType("int", ast.NoRef, false)}, nil)
	if err != nil {
		t.Fatalf("unexpected error instantiating Array<int>: %v", err)
	}
	_ = inst

	// Deduction never consults the Resolver: match the Array<U> pattern
	// directly against the instance produced above, exercising the
	// class-template-id deduction path.
	tmpl := symbols.NewTemplate("wrap", symbols.FunctionTemplateKind)
	tmpl.Parameters = []symbols.TemplateParameter{{Name: "U", IsType: true}}
	pattern := &ast.NamedType{Name: &ast.TemplateIdentifier{
		Name:      &ast.SimpleIdentifier{Name: "Array"},
		Arguments: []ast.Node{&ast.SimpleIdentifier{Name: "U"}},
	}}
	params := []*ast.ParameterDeclaration{{Type: pattern}}
	argTypes := []types.Type{inst.SelfType}

	got, ok := DeduceFunctionArguments(tmpl, params, argTypes, sys)
	if !ok {
		t.Fatalf("expected deduction through Array<U> to succeed")
	}
	if got["U"].Kind != symbols.ArgType || !types.Equal(got["U"].Type, types.FromPrimitive(types.Int)) {
		t.Fatalf("expected U bound to int, got %+v", got["U"])
	}
}
