package parser

import (
	"fmt"

	"github.com/strandscript/libscript/internal/lexer"
	"github.com/strandscript/libscript/internal/source"
)

// ErrorKind classifies a SyntaxError within the "Syntax:
// unexpected token, unmatched delimiter, malformed literal" family.
type ErrorKind string

const (
	ErrUnexpectedToken     ErrorKind = "unexpected-token"
	ErrUnmatchedDelimiter  ErrorKind = "unmatched-delimiter"
	ErrMalformedLiteral    ErrorKind = "malformed-literal"
	ErrExpectedIdentifier  ErrorKind = "expected-identifier"
	ErrExpectedType        ErrorKind = "expected-type"
	ErrExpectedDeclarator  ErrorKind = "expected-declarator"
	ErrExpectedExpression  ErrorKind = "expected-expression"
	ErrInvalidTemplateArgs ErrorKind = "invalid-template-arguments"
)

// SyntaxError is the parser's only error type: the offending token's span,
// a stable kind, and a human message. The parser does not attempt to
// continue past one of these — recovery is a non-goal.
type SyntaxError struct {
	Kind    ErrorKind
	Span    source.Span
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("[%s][%d:%d]: %s", e.Kind, e.Span.Start.Line, e.Span.Start.Column, e.Message)
}

func syntaxErrorAt(file *source.File, tok lexer.Token, kind ErrorKind, message string) *SyntaxError {
	return &SyntaxError{
		Kind:    kind,
		Span:    source.Span{File: file, Start: tok.Pos, End: tok.End()},
		Message: message,
	}
}

func unexpectedToken(file *source.File, tok lexer.Token, expected string) *SyntaxError {
	return syntaxErrorAt(file, tok, ErrUnexpectedToken,
		fmt.Sprintf("unexpected token %q, expected %s", tok.Lexeme, expected))
}
