// Package compiler is the semantic compiler tying
// together source, lexer, parser, types, symbols, lookup and template into
// a typed IR. It owns the compile session state machine, the declaration
// passes, expression/statement lowering, overload resolution, conversions,
// and initialization-category analysis.
package compiler

import (
	"fmt"

	"github.com/strandscript/libscript/internal/diag"
	"github.com/strandscript/libscript/internal/source"
)

// ErrorKind is the stable error-kind enumeration, used so host tooling and
// tests can match on "what kind of failure" rather than parsing message
// text.
type ErrorKind int

const (
	UnknownIdentifier ErrorKind = iota
	AmbiguousIdentifier
	NotDataMember
	DataMemberIsNotAccessible
	FunctionIsNotAccessible
	NoViableOverload
	AmbiguousOverloadCall
	AmbiguousTemplateSpecialization
	TooManyArgumentInFunctionCall
	TooFewArgumentInFunctionCall
	CouldNotConvert
	CouldNotConvertNarrowing
	NotConstExpression
	CannotResolveAutoType
	InvalidUseOfVoid
	NotAClass
	NotATemplate
	TemplateArgumentCountMismatch
	AbstractClassInstantiation
	PureVirtualNotOverridden
	DuplicateSymbol
	RedefinitionWithDifferentSignature
	DeletedFunctionCalled
	BreakOutsideLoop
	ContinueOutsideLoop
	ReturnTypeMismatch
	InvalidLValue
	MissingDefaultConstructor
	CyclicBaseClass
)

func (k ErrorKind) String() string {
	switch k {
	case UnknownIdentifier:
		return "UnknownIdentifier"
	case AmbiguousIdentifier:
		return "AmbiguousIdentifier"
	case NotDataMember:
		return "NotDataMember"
	case DataMemberIsNotAccessible:
		return "DataMemberIsNotAccessible"
	case FunctionIsNotAccessible:
		return "FunctionIsNotAccessible"
	case NoViableOverload:
		return "NoViableOverload"
	case AmbiguousOverloadCall:
		return "AmbiguousOverloadCall"
	case AmbiguousTemplateSpecialization:
		return "AmbiguousTemplateSpecialization"
	case TooManyArgumentInFunctionCall:
		return "TooManyArgumentInFunctionCall"
	case TooFewArgumentInFunctionCall:
		return "TooFewArgumentInFunctionCall"
	case CouldNotConvert:
		return "CouldNotConvert"
	case CouldNotConvertNarrowing:
		return "CouldNotConvertNarrowing"
	case NotConstExpression:
		return "NotConstExpression"
	case CannotResolveAutoType:
		return "CannotResolveAutoType"
	case InvalidUseOfVoid:
		return "InvalidUseOfVoid"
	case NotAClass:
		return "NotAClass"
	case NotATemplate:
		return "NotATemplate"
	case TemplateArgumentCountMismatch:
		return "TemplateArgumentCountMismatch"
	case AbstractClassInstantiation:
		return "AbstractClassInstantiation"
	case PureVirtualNotOverridden:
		return "PureVirtualNotOverridden"
	case DuplicateSymbol:
		return "DuplicateSymbol"
	case RedefinitionWithDifferentSignature:
		return "RedefinitionWithDifferentSignature"
	case DeletedFunctionCalled:
		return "DeletedFunctionCalled"
	case BreakOutsideLoop:
		return "BreakOutsideLoop"
	case ContinueOutsideLoop:
		return "ContinueOutsideLoop"
	case ReturnTypeMismatch:
		return "ReturnTypeMismatch"
	case InvalidLValue:
		return "InvalidLValue"
	case MissingDefaultConstructor:
		return "MissingDefaultConstructor"
	case CyclicBaseClass:
		return "CyclicBaseClass"
	default:
		return "UnknownError"
	}
}

// Error is a compiler failure: a stable kind plus the rendered message
// (kind + location + payload, the payload already folded into Text by
// the caller).
type Error struct {
	Kind ErrorKind
	Span source.Span
	Text string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Text) }

// report builds and records a diag.Message for err, returning err itself so
// call sites can both record and return/propagate in one expression.
func (s *Session) report(kind ErrorKind, sp source.Span, format string, args ...any) *Error {
	err := &Error{Kind: kind, Span: sp, Text: fmt.Sprintf(format, args...)}
	s.Sink.Add(diag.New(diag.Error).At(sp).Write(err.Error()).Finish())
	return err
}
