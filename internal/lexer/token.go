package lexer

import (
	"fmt"

	"github.com/strandscript/libscript/internal/source"
)

// Kind is a token's numeric id: a small per-category index OR-ed with one
// or more of five orthogonal flag bits (punctuator, literal, operator,
// identifier, keyword).
type Kind uint32

const (
	flagPunctuator Kind = 1 << 24
	flagLiteral    Kind = 1 << 25
	flagOperator   Kind = 1 << 26
	flagIdentifier Kind = 1 << 27
	flagKeyword    Kind = 1 << 28

	flagMask = flagPunctuator | flagLiteral | flagOperator | flagIdentifier | flagKeyword
)

// IsPunctuator, IsLiteral, IsOperator, IsIdentifier and IsKeyword test the
// orthogonal flag bits independently of the base id.
func (k Kind) IsPunctuator() bool { return k&flagPunctuator != 0 }
func (k Kind) IsLiteral() bool    { return k&flagLiteral != 0 }
func (k Kind) IsOperator() bool   { return k&flagOperator != 0 }
func (k Kind) IsIdentifier() bool { return k&flagIdentifier != 0 }
func (k Kind) IsKeyword() bool    { return k&flagKeyword != 0 }

// Base strips the flag bits, leaving the per-category small id — useful as
// a map/array index distinct from the flags.
func (k Kind) Base() Kind { return k &^ flagMask }

const (
	ILLEGAL Kind = iota
	EOF

	// Identifiers.
	IDENT = iota + 0 | flagIdentifier

	// Literals.
	INT_LITERAL = iota + 0 | flagLiteral
	FLOAT_LITERAL
	STRING_LITERAL
	CHAR_LITERAL

	// Keywords.
	BOOL = iota + 0 | flagKeyword
	CHAR
	INT
	FLOAT
	DOUBLE
	VOID
	AUTO
	CONST
	CLASS
	ENUM
	NAMESPACE
	TYPEDEF
	USING
	TEMPLATE
	TYPENAME
	OPERATOR
	VIRTUAL
	STATIC
	EXPLICIT
	PUBLIC
	PROTECTED
	PRIVATE
	FRIEND
	IMPORT
	EXPORT
	THIS
	TRUE
	FALSE
	NULLPTR
	RETURN
	IF
	ELSE
	WHILE
	FOR
	BREAK
	CONTINUE
	DEFAULT
	DELETE
	FINAL

	// Punctuators.
	LPAREN = iota + 0 | flagPunctuator
	RPAREN
	LBRACE
	RBRACE
	LBRACK
	RBRACK
	SEMICOLON
	COMMA
	DOT
	COLONCOLON
	QUESTION
	COLON

	// Operators.
	ASSIGN = iota + 0 | flagOperator
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	CARET
	AMP
	PIPE
	TILDE
	BANG
	LESS
	GREATER
	PLUS_ASSIGN
	MINUS_ASSIGN
	STAR_ASSIGN
	SLASH_ASSIGN
	PERCENT_ASSIGN
	CARET_ASSIGN
	AMP_ASSIGN
	PIPE_ASSIGN
	SHL_ASSIGN
	SHR_ASSIGN
	SHL
	SHR
	EQ
	NEQ
	LE
	GE
	AND_AND
	OR_OR
	INC
	DEC
	ARROW
	ARROW_STAR
	DOT_STAR
)

var keywords = map[string]Kind{
	"bool": BOOL, "char": CHAR, "int": INT, "float": FLOAT, "double": DOUBLE,
	"void": VOID, "auto": AUTO, "const": CONST, "class": CLASS, "enum": ENUM,
	"namespace": NAMESPACE, "typedef": TYPEDEF, "using": USING,
	"template": TEMPLATE, "typename": TYPENAME, "operator": OPERATOR,
	"virtual": VIRTUAL, "static": STATIC, "explicit": EXPLICIT,
	"public": PUBLIC, "protected": PROTECTED, "private": PRIVATE,
	"friend": FRIEND, "import": IMPORT, "export": EXPORT, "this": THIS,
	"true": TRUE, "false": FALSE, "nullptr": NULLPTR, "return": RETURN,
	"if": IF, "else": ELSE, "while": WHILE, "for": FOR, "break": BREAK,
	"continue": CONTINUE, "default": DEFAULT, "delete": DELETE, "final": FINAL,
}

// LookupIdent classifies a scanned identifier as a keyword or as IDENT.
func LookupIdent(lit string) Kind {
	if kind, ok := keywords[lit]; ok {
		return kind
	}
	return IDENT
}

var kindNames = map[Kind]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF", IDENT: "IDENT",
	INT_LITERAL: "INT_LITERAL", FLOAT_LITERAL: "FLOAT_LITERAL",
	STRING_LITERAL: "STRING_LITERAL", CHAR_LITERAL: "CHAR_LITERAL",
	BOOL: "bool", CHAR: "char", INT: "int", FLOAT: "float", DOUBLE: "double",
	VOID: "void", AUTO: "auto", CONST: "const", CLASS: "class", ENUM: "enum",
	NAMESPACE: "namespace", TYPEDEF: "typedef", USING: "using",
	TEMPLATE: "template", TYPENAME: "typename", OPERATOR: "operator",
	VIRTUAL: "virtual", STATIC: "static", EXPLICIT: "explicit",
	PUBLIC: "public", PROTECTED: "protected", PRIVATE: "private",
	FRIEND: "friend", IMPORT: "import", EXPORT: "export", THIS: "this",
	TRUE: "true", FALSE: "false", NULLPTR: "nullptr", RETURN: "return",
	IF: "if", ELSE: "else", WHILE: "while", FOR: "for", BREAK: "break",
	CONTINUE: "continue", DEFAULT: "default", DELETE: "delete", FINAL: "final",
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}", LBRACK: "[", RBRACK: "]",
	SEMICOLON: ";", COMMA: ",", DOT: ".", COLONCOLON: "::", QUESTION: "?", COLON: ":",
	ASSIGN: "=", PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%",
	CARET: "^", AMP: "&", PIPE: "|", TILDE: "~", BANG: "!", LESS: "<", GREATER: ">",
	PLUS_ASSIGN: "+=", MINUS_ASSIGN: "-=", STAR_ASSIGN: "*=", SLASH_ASSIGN: "/=",
	PERCENT_ASSIGN: "%=", CARET_ASSIGN: "^=", AMP_ASSIGN: "&=", PIPE_ASSIGN: "|=",
	SHL_ASSIGN: "<<=", SHR_ASSIGN: ">>=", SHL: "<<", SHR: ">>", EQ: "==", NEQ: "!=",
	LE: "<=", GE: ">=", AND_AND: "&&", OR_OR: "||", INC: "++", DEC: "--",
	ARROW: "->", ARROW_STAR: "->*", DOT_STAR: ".*",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", uint32(k))
}

// Token is a single lexeme with its kind, text, location and length.
// Suffix carries a user-defined literal suffix (e.g. "s" in 10s) attached
// immediately after a numeric or string literal.
type Token struct {
	Kind   Kind
	Lexeme string
	Pos    source.Position
	Suffix string
}

// Length returns the token's length in bytes, used to reconstruct spans.
func (t Token) Length() int { return len(t.Lexeme) }

// End returns the position one past the token's last byte.
func (t Token) End() source.Position {
	return source.Position{Line: t.Pos.Line, Column: t.Pos.Column + len([]rune(t.Lexeme)), Offset: t.Pos.Offset + len(t.Lexeme)}
}
