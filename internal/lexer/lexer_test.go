package lexer

import (
	"testing"

	"github.com/strandscript/libscript/internal/source"
)

func tokenize(t *testing.T, src string) []Token {
	t.Helper()
	f := source.NewFromString("test.sc", src)
	l := New(f)
	toks := TokenizeAll(l)
	if len(l.Errors()) != 0 {
		t.Fatalf("unexpected lexer errors: %v", l.Errors())
	}
	return toks
}

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestNextToken_KeywordsAndIdentifiers(t *testing.T) {
	toks := tokenize(t, "class Foo : public Bar { };")
	got := kinds(toks)
	want := []Kind{CLASS, IDENT, COLON, PUBLIC, IDENT, LBRACE, RBRACE, SEMICOLON, EOF}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestNextToken_IntegerLiteralBases(t *testing.T) {
	cases := []struct {
		name   string
		src    string
		lexeme string
	}{
		{"decimal", "123", "123"},
		{"hex", "0x1F", "0x1F"},
		{"binary", "0b1010", "0b1010"},
		{"octal", "0755", "0755"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			toks := tokenize(t, tc.src)
			if len(toks) != 2 {
				t.Fatalf("got %d tokens, want 2 (literal + EOF): %v", len(toks), toks)
			}
			if toks[0].Kind != INT_LITERAL {
				t.Fatalf("kind = %s, want INT_LITERAL", toks[0].Kind)
			}
			if toks[0].Lexeme != tc.lexeme {
				t.Fatalf("lexeme = %q, want %q", toks[0].Lexeme, tc.lexeme)
			}
		})
	}
}

func TestNextToken_FloatLiteral(t *testing.T) {
	toks := tokenize(t, "3.14 2.5e10 1e-3f")
	for i, want := range []string{"3.14", "2.5e10", "1e-3f"} {
		if toks[i].Kind != FLOAT_LITERAL {
			t.Fatalf("token %d: kind = %s, want FLOAT_LITERAL", i, toks[i].Kind)
		}
		if toks[i].Lexeme != want {
			t.Fatalf("token %d: lexeme = %q, want %q", i, toks[i].Lexeme, want)
		}
	}
}

func TestNextToken_UserDefinedLiteralSuffix(t *testing.T) {
	toks := tokenize(t, `10s "hello"_json`)
	if toks[0].Kind != INT_LITERAL || toks[0].Suffix != "s" {
		t.Fatalf("got kind=%s suffix=%q, want INT_LITERAL suffix=s", toks[0].Kind, toks[0].Suffix)
	}
	if toks[1].Kind != STRING_LITERAL || toks[1].Suffix != "_json" {
		t.Fatalf("got kind=%s suffix=%q, want STRING_LITERAL suffix=_json", toks[1].Kind, toks[1].Suffix)
	}
}

func TestNextToken_StringEscapes(t *testing.T) {
	toks := tokenize(t, `"a\nb\t\\c"`)
	if toks[0].Lexeme != "a\nb\t\\c" {
		t.Fatalf("got %q", toks[0].Lexeme)
	}
}

func TestNextToken_CharLiteral(t *testing.T) {
	toks := tokenize(t, `'a' '\n'`)
	if toks[0].Kind != CHAR_LITERAL || toks[0].Lexeme != "a" {
		t.Fatalf("got kind=%s lexeme=%q", toks[0].Kind, toks[0].Lexeme)
	}
	if toks[1].Kind != CHAR_LITERAL || toks[1].Lexeme != "\n" {
		t.Fatalf("got kind=%s lexeme=%q", toks[1].Kind, toks[1].Lexeme)
	}
}

func TestNextToken_ComparisonAndShift(t *testing.T) {
	toks := tokenize(t, "a >> b >= c << d <= e")
	got := kinds(toks)
	want := []Kind{IDENT, SHR, IDENT, GE, IDENT, SHL, IDENT, LE, IDENT, EOF}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestNextToken_TemplateClosingAngleBrackets(t *testing.T) {
	// The lexer emits ">>" as one token; splitting it back into two ">"
	// tokens to close nested template argument lists is the parser's job.
	toks := tokenize(t, "Vector<Vector<int>>")
	got := kinds(toks)
	want := []Kind{IDENT, LESS, IDENT, LESS, INT, SHR, EOF}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestNextToken_ScopeResolutionOperator(t *testing.T) {
	toks := tokenize(t, "std::vector")
	got := kinds(toks)
	want := []Kind{IDENT, COLONCOLON, IDENT, EOF}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestNextToken_ArrowAndArrowStar(t *testing.T) {
	toks := tokenize(t, "p->x p->*m")
	got := kinds(toks)
	want := []Kind{IDENT, ARROW, IDENT, IDENT, ARROW_STAR, IDENT, EOF}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestNextToken_CommentsAreSkipped(t *testing.T) {
	toks := tokenize(t, "a // line comment\n/* block\ncomment */ b")
	got := kinds(toks)
	want := []Kind{IDENT, IDENT, EOF}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestNextToken_LineAndColumnTracking(t *testing.T) {
	toks := tokenize(t, "a\nbb c")
	if toks[0].Pos.Line != 1 || toks[0].Pos.Column != 1 {
		t.Errorf("token 0 pos = %+v", toks[0].Pos)
	}
	if toks[1].Pos.Line != 2 || toks[1].Pos.Column != 1 {
		t.Errorf("token 1 pos = %+v", toks[1].Pos)
	}
	if toks[2].Pos.Line != 2 || toks[2].Pos.Column != 4 {
		t.Errorf("token 2 pos = %+v", toks[2].Pos)
	}
}

func TestLexer_UnterminatedStringReportsError(t *testing.T) {
	f := source.NewFromString("test.sc", `"abc`)
	l := New(f)
	TokenizeAll(l)
	if len(l.Errors()) == 0 {
		t.Fatal("expected an unterminated string error")
	}
}

func TestLexer_UnterminatedBlockCommentReportsError(t *testing.T) {
	f := source.NewFromString("test.sc", `/* never closed`)
	l := New(f)
	TokenizeAll(l)
	if len(l.Errors()) == 0 {
		t.Fatal("expected an unterminated comment error")
	}
}

func TestLexer_IllegalCharacterReportsErrorButContinues(t *testing.T) {
	f := source.NewFromString("test.sc", "a $ b")
	l := New(f)
	toks := TokenizeAll(l)
	if len(l.Errors()) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(l.Errors()), l.Errors())
	}
	got := kinds(toks)
	want := []Kind{IDENT, ILLEGAL, IDENT, EOF}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestSpan_TextRoundTrip(t *testing.T) {
	src := "int x = 42;"
	f := source.NewFromString("test.sc", src)
	l := New(f)
	toks := TokenizeAll(l)
	for _, tok := range toks {
		if tok.Kind == EOF {
			continue
		}
		sp := source.Span{File: f, Start: tok.Pos, End: tok.End()}
		if sp.Text() != tok.Lexeme && tok.Kind != STRING_LITERAL && tok.Kind != CHAR_LITERAL {
			t.Errorf("span text %q does not match lexeme %q for kind %s", sp.Text(), tok.Lexeme, tok.Kind)
		}
	}
}
