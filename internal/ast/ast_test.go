package ast

import (
	"testing"

	"github.com/strandscript/libscript/internal/source"
)

func fakeSpan() span {
	f := source.NewFromString("t.sc", "x")
	return span{Location: source.Span{File: f, Start: source.Position{Line: 1, Column: 1}, End: source.Position{Line: 1, Column: 2}}}
}

func TestBinaryExpressionString(t *testing.T) {
	left := &SimpleIdentifier{span: fakeSpan(), Name: "a"}
	right := &IntLiteral{span: fakeSpan(), Lexeme: "1", Value: 1}
	be := &BinaryExpression{span: fakeSpan(), Left: left, Operator: "+", Right: right}
	if got, want := be.String(), "(a + 1)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestScopedIdentifierString(t *testing.T) {
	id := &ScopedIdentifier{
		span:  fakeSpan(),
		Left:  &SimpleIdentifier{span: fakeSpan(), Name: "std"},
		Right: &SimpleIdentifier{span: fakeSpan(), Name: "vector"},
	}
	if got, want := id.String(), "std::vector"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestTemplateIdentifierString(t *testing.T) {
	id := &TemplateIdentifier{
		span: fakeSpan(),
		Name: &SimpleIdentifier{span: fakeSpan(), Name: "Vector"},
		Arguments: []Node{
			&NamedType{span: fakeSpan(), Name: &SimpleIdentifier{span: fakeSpan(), Name: "int"}},
		},
	}
	if got, want := id.String(), "Vector<int>"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestNamedTypeStringWithConstAndRef(t *testing.T) {
	ty := &NamedType{
		span:  fakeSpan(),
		Const: true,
		Name:  &SimpleIdentifier{span: fakeSpan(), Name: "T"},
		Ref:   LValueRef,
	}
	if got, want := ty.String(), "const T&"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestClassDeclarationWithBase(t *testing.T) {
	cd := &ClassDeclaration{
		span:       fakeSpan(),
		Name:       &SimpleIdentifier{span: fakeSpan(), Name: "Derived"},
		Base:       &SimpleIdentifier{span: fakeSpan(), Name: "Base"},
		BaseAccess: Public,
	}
	if got, want := cd.String(), "class Derived : public Base { ... }"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestIfStatementWithElse(t *testing.T) {
	ifs := &IfStatement{
		span:      fakeSpan(),
		Condition: &BoolLiteral{span: fakeSpan(), Value: true},
		Then:      &BreakStatement{span: fakeSpan()},
		Else:      &ContinueStatement{span: fakeSpan()},
	}
	if got, want := ifs.String(), "if (true) break; else continue;"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestLambdaExpressionCaptureRendering(t *testing.T) {
	lam := &LambdaExpression{
		span: fakeSpan(),
		Captures: []LambdaCapture{
			{Name: "x"},
			{Name: "y", ByReference: true},
			{IsThis: true},
		},
		Body: &CompoundStatement{span: fakeSpan()},
	}
	if got, want := lam.String(), "[x, &y, this](...)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestEnumDeclarationString(t *testing.T) {
	ed := &EnumDeclaration{
		span:        fakeSpan(),
		Name:        &SimpleIdentifier{span: fakeSpan(), Name: "Color"},
		IsEnumClass: true,
		Enumerators: []*EnumeratorDeclaration{
			{span: fakeSpan(), Name: &SimpleIdentifier{span: fakeSpan(), Name: "Red"}},
			{span: fakeSpan(), Name: &SimpleIdentifier{span: fakeSpan(), Name: "Green"},
				Value: &IntLiteral{span: fakeSpan(), Lexeme: "5", Value: 5}},
		},
	}
	want := "enum class Color { Red, Green = 5 }"
	if got := ed.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestImportDeclarationString(t *testing.T) {
	imp := &ImportDeclaration{span: fakeSpan(), Path: []string{"a", "b", "c"}, Export: true}
	if got, want := imp.String(), "import export a.b.c;"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestTranslationUnitCountsDeclarations(t *testing.T) {
	tu := &TranslationUnit{
		span: fakeSpan(),
		Declarations: []Declaration{
			&TypedefDeclaration{span: fakeSpan(), Type: &NamedType{span: fakeSpan(), Name: &SimpleIdentifier{span: fakeSpan(), Name: "int"}}, Name: &SimpleIdentifier{span: fakeSpan(), Name: "Integer"}},
		},
	}
	if got, want := tu.String(), "TranslationUnit(1 decls)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
