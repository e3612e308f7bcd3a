package template

import (
	"testing"

	"github.com/strandscript/libscript/internal/ast"
	"github.com/strandscript/libscript/internal/symbols"
	"github.com/strandscript/libscript/internal/types"
)

func TestInstantiateClassTemplateCachesByArgs(t *testing.T) {
	sys := types.NewSystem()
	global := symbols.NewNamespace("", nil)
	arrTmpl := RegisterArrayTemplate(global)
	eng := NewEngine(sys, global, stubResolver{})

	first, err := eng.InstantiateClassTemplate(arrTmpl, []ast.Node{namedType("int", ast.NoRef, false)}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := eng.InstantiateClassTemplate(arrTmpl, []ast.Node{namedType("int", ast.NoRef, false)}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical cached instance for Array<int>, got distinct classes")
	}

	third, err := eng.InstantiateClassTemplate(arrTmpl, []ast.Node{namedType("double", ast.NoRef, false)}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if third == first {
		t.Fatalf("expected Array<double> to be a distinct instance from Array<int>")
	}
}

func TestArrayTemplateMembers(t *testing.T) {
	sys := types.NewSystem()
	global := symbols.NewNamespace("", nil)
	arrTmpl := RegisterArrayTemplate(global)
	eng := NewEngine(sys, global, stubResolver{})

	class, err := eng.InstantiateClassTemplate(arrTmpl, []ast.Node{namedType("int", ast.NoRef, false)}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(class.MethodsNamed("size")) != 1 {
		t.Fatalf("expected a size() method")
	}
	if len(class.MethodsNamed("operator[]")) != 2 {
		t.Fatalf("expected const and non-const operator[] overloads, got %d", len(class.MethodsNamed("operator[]")))
	}
	if len(class.MethodsNamed("push_back")) != 1 {
		t.Fatalf("expected a push_back() method")
	}
}

func TestInitializerListTemplateIteratorNested(t *testing.T) {
	sys := types.NewSystem()
	global := symbols.NewNamespace("", nil)
	ilTmpl := RegisterInitializerListTemplate(global)
	eng := NewEngine(sys, global, stubResolver{})

	class, err := eng.InstantiateClassTemplate(ilTmpl, []ast.Node{namedType("int", ast.NoRef, false)}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	iterSym, ok := class.Nested["iterator"]
	if !ok {
		t.Fatalf("expected a nested iterator class")
	}
	iterator := iterSym.(*symbols.Class)
	if len(iterator.MethodsNamed("operator*")) != 1 || len(iterator.MethodsNamed("operator++")) != 1 || len(iterator.MethodsNamed("operator!=")) != 1 {
		t.Fatalf("expected iterator protocol methods, got %+v", iterator.Methods)
	}
	if len(class.MethodsNamed("begin")) != 1 || len(class.MethodsNamed("end")) != 1 {
		t.Fatalf("expected begin()/end() on InitializerList<T>")
	}
}
