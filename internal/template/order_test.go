package template

import (
	"testing"

	"github.com/strandscript/libscript/internal/ast"
	"github.com/strandscript/libscript/internal/symbols"
	"github.com/strandscript/libscript/internal/types"
)

// TestCompareFunctionTemplatesMoreSpecializedWins exercises the classic
// case: `f(T)` vs `f(T&)` — the reference overload is more specialized
// because it accepts everything the by-value one does plus more
// qualification information, while the by-value one accepts a strict
// superset of inputs (references decay to it too).
func TestCompareFunctionTemplatesMoreSpecializedWins(t *testing.T) {
	sys := types.NewSystem()
	global := symbols.NewNamespace("", nil)
	eng := NewEngine(sys, global, stubResolver{})

	byValue := symbols.NewTemplate("f", symbols.FunctionTemplateKind)
	byValue.Parameters = []symbols.TemplateParameter{{Name: "T", IsType: true}}
	byValueParams := []*ast.ParameterDeclaration{{Type: namedType("T", ast.NoRef, false)}}

	byRef := symbols.NewTemplate("f", symbols.FunctionTemplateKind)
	byRef.Parameters = []symbols.TemplateParameter{{Name: "T", IsType: true}}
	byRefParams := []*ast.ParameterDeclaration{{Type: namedType("T", ast.LValueRef, false)}}

	got := eng.CompareFunctionTemplates(byValue, byValueParams, byRef, byRefParams)
	if got != SecondMoreSpecialized {
		t.Fatalf("expected the by-reference template to be more specialized, got %v", got)
	}
}

func TestCompareFunctionTemplatesIdentical(t *testing.T) {
	sys := types.NewSystem()
	global := symbols.NewNamespace("", nil)
	eng := NewEngine(sys, global, stubResolver{})

	a := symbols.NewTemplate("f", symbols.FunctionTemplateKind)
	a.Parameters = []symbols.TemplateParameter{{Name: "T", IsType: true}}
	aParams := []*ast.ParameterDeclaration{{Type: namedType("T", ast.NoRef, false)}}

	b := symbols.NewTemplate("f", symbols.FunctionTemplateKind)
	b.Parameters = []symbols.TemplateParameter{{Name: "U", IsType: true}}
	bParams := []*ast.ParameterDeclaration{{Type: namedType("U", ast.NoRef, false)}}

	got := eng.CompareFunctionTemplates(a, aParams, b, bParams)
	if got != Indistinguishable {
		t.Fatalf("expected two identical-shape templates to be indistinguishable, got %v", got)
	}
}
