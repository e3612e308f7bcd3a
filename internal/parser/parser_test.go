package parser

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/strandscript/libscript/internal/ast"
	"github.com/strandscript/libscript/internal/source"
)

func parseUnit(t *testing.T, src string) *ast.TranslationUnit {
	t.Helper()
	f := source.NewFromString("test.lsc", src)
	tu, err := New(f).Parse()
	if err != nil {
		t.Fatalf("unexpected syntax error: %v", err)
	}
	return tu
}

func TestParseVariableDeclaration(t *testing.T) {
	tu := parseUnit(t, "int a = 5;")
	if len(tu.Declarations) != 1 {
		t.Fatalf("got %d declarations, want 1", len(tu.Declarations))
	}
	vd, ok := tu.Declarations[0].(*ast.VariableDeclaration)
	if !ok {
		t.Fatalf("declaration is %T, want *ast.VariableDeclaration", tu.Declarations[0])
	}
	if vd.Name.String() != "a" {
		t.Errorf("name = %q, want %q", vd.Name.String(), "a")
	}
	if _, ok := vd.Init.(*ast.CopyInitialization); !ok {
		t.Errorf("initializer is %T, want *ast.CopyInitialization", vd.Init)
	}
}

func TestParseFunctionWithDefaultArgument(t *testing.T) {
	tu := parseUnit(t, "int add(int a, int b = 1) { return a + b; }")
	fd, ok := tu.Declarations[0].(*ast.FunctionDeclaration)
	if !ok {
		t.Fatalf("declaration is %T, want *ast.FunctionDeclaration", tu.Declarations[0])
	}
	if len(fd.Parameters) != 2 {
		t.Fatalf("got %d parameters, want 2", len(fd.Parameters))
	}
	if fd.Parameters[0].Default != nil {
		t.Errorf("parameter a should have no default")
	}
	if fd.Parameters[1].Default == nil {
		t.Errorf("parameter b should have a default")
	}
	if fd.Body == nil {
		t.Errorf("expected a parsed body")
	}
}

func TestParseClassBody(t *testing.T) {
	src := `class Point : public Base {
public:
	Point(int x, int y) : x_(x), y_(y) { }
	~Point() { }
	int x() const { return x_; }
	virtual void draw() = 0;
	Point operator+(const Point& other) { return other; }
	operator bool() const { return true; }
private:
	int x_;
	int y_;
	static int count;
};`
	tu := parseUnit(t, src)
	cd, ok := tu.Declarations[0].(*ast.ClassDeclaration)
	if !ok {
		t.Fatalf("declaration is %T, want *ast.ClassDeclaration", tu.Declarations[0])
	}
	if cd.Base == nil || cd.Base.String() != "Base" {
		t.Fatalf("expected base class Base, got %v", cd.Base)
	}

	var ctors, dtors, funcs, ops, casts, vars int
	var statics int
	for _, m := range cd.Members {
		switch d := m.Decl.(type) {
		case *ast.ConstructorDeclaration:
			ctors++
			if len(d.MemberInits) != 2 {
				t.Errorf("constructor has %d member inits, want 2", len(d.MemberInits))
			}
		case *ast.DestructorDeclaration:
			dtors++
		case *ast.FunctionDeclaration:
			funcs++
			if d.Name.String() == "draw" && !d.Flags.PureVirtual {
				t.Errorf("draw should be pure virtual")
			}
		case *ast.OperatorOverloadDeclaration:
			ops++
			if d.Operator != "+" {
				t.Errorf("operator = %q, want +", d.Operator)
			}
		case *ast.ConversionOperatorDeclaration:
			casts++
			if !d.Const {
				t.Errorf("conversion operator should be const")
			}
		case *ast.VariableDeclaration:
			vars++
			if d.Static {
				statics++
			}
		}
	}
	if ctors != 1 || dtors != 1 || funcs != 2 || ops != 1 || casts != 1 || vars != 3 || statics != 1 {
		t.Fatalf("member counts: ctors=%d dtors=%d funcs=%d ops=%d casts=%d vars=%d statics=%d",
			ctors, dtors, funcs, ops, casts, vars, statics)
	}

	// Access runs: first block public, members after `private:` private.
	if cd.Members[0].Access != ast.Public {
		t.Errorf("first member access = %v, want public", cd.Members[0].Access)
	}
	last := cd.Members[len(cd.Members)-1]
	if last.Access != ast.Private {
		t.Errorf("last member access = %v, want private", last.Access)
	}
}

func TestParseEnumSkipsEmptyEntries(t *testing.T) {
	tu := parseUnit(t, "enum E { X, Y, , Z };")
	ed, ok := tu.Declarations[0].(*ast.EnumDeclaration)
	if !ok {
		t.Fatalf("declaration is %T, want *ast.EnumDeclaration", tu.Declarations[0])
	}
	if len(ed.Enumerators) != 3 {
		t.Fatalf("got %d enumerators, want 3", len(ed.Enumerators))
	}
	for i, want := range []string{"X", "Y", "Z"} {
		if ed.Enumerators[i].Name.String() != want {
			t.Errorf("enumerator %d = %q, want %q", i, ed.Enumerators[i].Name.String(), want)
		}
	}
}

func TestParseTemplateDeclarations(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"class template", "template<typename T> class Box { T v; };"},
		{"function template", "template<typename T> T id(T x) { return x; }"},
		{"non-type parameter", "template<int N> class Fixed { };"},
		{"parameter pack", "template<typename ... Args> class Tuple { };"},
		{"defaulted parameter", "template<typename T = int> class Def { };"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tu := parseUnit(t, tc.src)
			if _, ok := tu.Declarations[0].(*ast.TemplateDeclaration); !ok {
				t.Fatalf("declaration is %T, want *ast.TemplateDeclaration", tu.Declarations[0])
			}
		})
	}
}

func TestParsePartialSpecialization(t *testing.T) {
	src := `template<typename T> class Box { T v; };
template<typename T> class Box<T&> { };`
	tu := parseUnit(t, src)
	if len(tu.Declarations) != 2 {
		t.Fatalf("got %d declarations, want 2", len(tu.Declarations))
	}
	spec, ok := tu.Declarations[1].(*ast.TemplateSpecializationDeclaration)
	if !ok {
		t.Fatalf("declaration is %T, want *ast.TemplateSpecializationDeclaration", tu.Declarations[1])
	}
	if !spec.Partial {
		t.Errorf("expected a partial specialization")
	}
	if len(spec.Arguments) != 1 {
		t.Errorf("got %d pattern arguments, want 1", len(spec.Arguments))
	}
}

func TestParseFullSpecialization(t *testing.T) {
	src := `template<typename T> class Box { T v; };
template<> class Box<int> { };`
	tu := parseUnit(t, src)
	spec, ok := tu.Declarations[1].(*ast.TemplateSpecializationDeclaration)
	if !ok {
		t.Fatalf("declaration is %T, want *ast.TemplateSpecializationDeclaration", tu.Declarations[1])
	}
	if spec.Partial {
		t.Errorf("expected a full specialization")
	}
}

func TestParseLambdaExpression(t *testing.T) {
	tu := parseUnit(t, "auto f = [x, &y](int n) { return n; };")
	vd := tu.Declarations[0].(*ast.VariableDeclaration)
	ci := vd.Init.(*ast.CopyInitialization)
	lam, ok := ci.Value.(*ast.LambdaExpression)
	if !ok {
		t.Fatalf("initializer is %T, want *ast.LambdaExpression", ci.Value)
	}
	if len(lam.Captures) != 2 {
		t.Fatalf("got %d captures, want 2", len(lam.Captures))
	}
	if lam.Captures[0].ByReference || !lam.Captures[1].ByReference {
		t.Errorf("capture modes wrong: %+v", lam.Captures)
	}
	if len(lam.Parameters) != 1 {
		t.Errorf("got %d parameters, want 1", len(lam.Parameters))
	}
}

func TestParseArrayLiteralIsNotLambda(t *testing.T) {
	tu := parseUnit(t, "auto v = [a, b];")
	vd := tu.Declarations[0].(*ast.VariableDeclaration)
	ci := vd.Init.(*ast.CopyInitialization)
	if _, ok := ci.Value.(*ast.ArrayExpression); !ok {
		t.Fatalf("initializer is %T, want *ast.ArrayExpression", ci.Value)
	}
}

func TestParseTopLevelStatement(t *testing.T) {
	tu := parseUnit(t, "int a = 2; a = a + 1;")
	if len(tu.Declarations) != 2 {
		t.Fatalf("got %d declarations, want 2", len(tu.Declarations))
	}
	if _, ok := tu.Declarations[1].(*ast.TopLevelStatement); !ok {
		t.Fatalf("second declaration is %T, want *ast.TopLevelStatement", tu.Declarations[1])
	}
}

func TestParseNestedTemplateArguments(t *testing.T) {
	tu := parseUnit(t, "Box<Box<int>> b;")
	vd, ok := tu.Declarations[0].(*ast.VariableDeclaration)
	if !ok {
		t.Fatalf("declaration is %T, want *ast.VariableDeclaration", tu.Declarations[0])
	}
	nt := vd.Type.(*ast.NamedType)
	outer, ok := nt.Name.(*ast.TemplateIdentifier)
	if !ok {
		t.Fatalf("type name is %T, want *ast.TemplateIdentifier", nt.Name)
	}
	innerType, ok := outer.Arguments[0].(*ast.NamedType)
	if !ok {
		t.Fatalf("argument is %T, want *ast.NamedType", outer.Arguments[0])
	}
	if _, ok := innerType.Name.(*ast.TemplateIdentifier); !ok {
		t.Fatalf("inner type name is %T, want *ast.TemplateIdentifier", innerType.Name)
	}
}

func TestParseSyntaxErrorHasLocation(t *testing.T) {
	f := source.NewFromString("bad.lsc", "class { };")
	_, err := New(f).Parse()
	if err == nil {
		t.Fatalf("expected a syntax error")
	}
	if err.Span.Start.Line != 1 {
		t.Errorf("error line = %d, want 1", err.Span.Start.Line)
	}
}

func TestParseSnapshotMixedUnit(t *testing.T) {
	src := `namespace geo {
	enum Axis { X, Y };
	class Point {
	public:
		Point(int x) : x_(x) { }
		int x() const { return x_; }
	private:
		int x_;
	};
}
using namespace geo;
int origin() { return 0; }`
	tu := parseUnit(t, src)
	out := tu.String() + "\n"
	for _, d := range tu.Declarations {
		out += d.String() + "\n"
	}
	snaps.MatchSnapshot(t, out)
}
