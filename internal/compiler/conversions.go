package compiler

import (
	"github.com/strandscript/libscript/internal/ir"
	"github.com/strandscript/libscript/internal/symbols"
	"github.com/strandscript/libscript/internal/types"
)

// ConversionKind is the Conversions sum: identity, derived-to-
// base, fundamental, user-defined, reference binding, qualification
// adjustment, or not-convertible.
type ConversionKind int

const (
	ConvIdentity ConversionKind = iota
	ConvQualification
	ConvReferenceBinding
	ConvDerivedToBase
	ConvFundamental
	ConvUserDefined
	ConvNotConvertible
)

// Conversion is one slot's resolved conversion sequence: a kind, a
// narrowing flag (meaningful only for ConvFundamental), and the
// user-defined conversion's function when Kind is ConvUserDefined.
type Conversion struct {
	Kind         ConversionKind
	Narrowing    bool
	Constructor  *symbols.Function // converting constructor, when chosen
	CastOperator *symbols.Function // conversion operator, when chosen
}

func (c Conversion) ok() bool { return c.Kind != ConvNotConvertible }

// rank orders conversion kinds from "best" to "worst" for overload
// comparison: no worse in any argument, strictly better in at least
// one.
func (c Conversion) rank() int {
	switch c.Kind {
	case ConvIdentity:
		return 0
	case ConvQualification, ConvReferenceBinding:
		return 1
	case ConvDerivedToBase:
		return 2
	case ConvFundamental:
		return 3
	case ConvUserDefined:
		return 4
	default:
		return 99
	}
}

// isFundamental reports whether t (ignoring cv/ref) is one of the
// built-in arithmetic/bool/char primitives that participate in numeric
// promotion.
func isFundamental(t types.Type) bool {
	if t.Kind != types.KindPrimitive {
		return false
	}
	switch types.Primitive(t.Code) {
	case types.Bool, types.Char, types.Int, types.Float, types.Double:
		return true
	default:
		return false
	}
}

// fundamentalRank orders the fundamental types for promotion purposes:
// bool < char < int < float < double.
func fundamentalRank(t types.Type) int {
	switch types.Primitive(t.Code) {
	case types.Bool:
		return 0
	case types.Char:
		return 1
	case types.Int:
		return 2
	case types.Float:
		return 3
	case types.Double:
		return 4
	default:
		return -1
	}
}

// isNarrowing reports whether converting from -> to loses information,
// (double→int, int→bool, …).
func isNarrowing(from, to types.Type) bool {
	if fundamentalRank(to) < fundamentalRank(from) {
		return true
	}
	// int -> float/double : int magnitude can lose precision, but this
	// engine treats only explicitly-downward rank changes and bool as
	// narrowing; no IEEE precision analysis.
	return false
}

// computeConversion resolves the single best conversion sequence needed
// to use a value of type `from` where `to` is expected
// to use a value of type `from` where `to` is expected. scope
// supplies the class context user-defined
// conversions are looked up against.
func (c *Compiler) computeConversion(from, to types.Type, scope *symbols.Scope) Conversion {
	sys := c.Session.Types

	if to.IsAnyReference() {
		return c.computeReferenceConversion(from, to, scope)
	}

	fromDec := from.Decayed()
	toDec := to.Decayed()

	if types.Equal(fromDec, toDec) {
		return Conversion{Kind: ConvIdentity}
	}

	if fc, ok := sys.ClassPayload(fromDec).(*symbols.Class); ok {
		if tc, ok2 := sys.ClassPayload(toDec).(*symbols.Class); ok2 && fc != tc && fc.IsDerivedFrom(tc) {
			return Conversion{Kind: ConvDerivedToBase}
		}
	}

	if isFundamental(fromDec) && isFundamental(toDec) {
		return Conversion{Kind: ConvFundamental, Narrowing: isNarrowing(fromDec, toDec)}
	}

	if conv, ok := c.userDefinedConversion(fromDec, toDec, scope); ok {
		return conv
	}

	return Conversion{Kind: ConvNotConvertible}
}

// computeReferenceConversion handles a reference-typed target: binding an
// lvalue of the same (or derived) type directly, or materializing a
// temporary for a const reference bound to a convertible rvalue.
func (c *Compiler) computeReferenceConversion(from, to types.Type, scope *symbols.Scope) Conversion {
	sys := c.Session.Types
	fromBase := from.Decayed()
	toBase := to.Decayed()

	if types.Equal(fromBase, toBase) {
		if !to.IsConst() && from.IsConst() {
			return Conversion{Kind: ConvNotConvertible}
		}
		if from.IsAnyReference() {
			return Conversion{Kind: ConvIdentity}
		}
		if to.IsConst() {
			return Conversion{Kind: ConvReferenceBinding}
		}
		return Conversion{Kind: ConvIdentity}
	}

	if fc, ok := sys.ClassPayload(fromBase).(*symbols.Class); ok {
		if tc, ok2 := sys.ClassPayload(toBase).(*symbols.Class); ok2 && fc != tc && fc.IsDerivedFrom(tc) {
			if !to.IsConst() && from.IsConst() {
				return Conversion{Kind: ConvNotConvertible}
			}
			return Conversion{Kind: ConvDerivedToBase}
		}
	}

	if !to.IsConst() {
		return Conversion{Kind: ConvNotConvertible}
	}
	// const T& binding to a convertible rvalue materializes a temporary.
	if isFundamental(fromBase) && isFundamental(toBase) {
		return Conversion{Kind: ConvFundamental, Narrowing: isNarrowing(fromBase, toBase)}
	}
	if conv, ok := c.userDefinedConversion(fromBase, toBase, scope); ok {
		return conv
	}
	return Conversion{Kind: ConvNotConvertible}
}

// userDefinedConversion looks for a one-argument converting constructor
// on the target class, or a conversion operator on the source class.
func (c *Compiler) userDefinedConversion(from, to types.Type, scope *symbols.Scope) (Conversion, bool) {
	sys := c.Session.Types
	if tc, ok := sys.ClassPayload(to).(*symbols.Class); ok {
		for _, ctor := range tc.Constructors {
			// Explicit constructors never participate in an implicit
			// (copy-form) conversion sequence.
			if ctor.Flags.Deleted || ctor.Flags.Explicit || len(ctor.Prototype.Params) != 2 {
				continue
			}
			param := ctor.Prototype.Params[1]
			sub := c.computeConversion(from, param, scope)
			if sub.ok() && sub.Kind != ConvUserDefined {
				return Conversion{Kind: ConvUserDefined, Constructor: ctor}, true
			}
		}
	}
	if fc, ok := sys.ClassPayload(from).(*symbols.Class); ok {
		for _, cast := range fc.Casts {
			if cast.Flags.Deleted {
				continue
			}
			if types.Equal(cast.Prototype.Return.Decayed(), to) {
				return Conversion{Kind: ConvUserDefined, CastOperator: cast}, true
			}
		}
	}
	return Conversion{}, false
}

// applyCallConversions applies each slot's chosen conversion sequence to an
// already-lowered expression list against fn's full declared parameter
// list (including any leading implicit-object slot), used by operator and
// member-function call lowering where the object, when present, is just
// the first element of both exprs and fn.Prototype.Params.
func (c *Compiler) applyCallConversions(exprs []ir.Expr, fn *symbols.Function, convs []Conversion) []ir.Expr {
	params := fn.Prototype.Params
	out := make([]ir.Expr, len(exprs))
	for i, e := range exprs {
		if i < len(convs) && i < len(params) {
			out[i] = c.applyConversion(e, convs[i], params[i])
			continue
		}
		out[i] = e
	}
	return out
}

// applyConversion lowers a conversion sequence onto an already-lowered
// expression, producing the IR node the conversion implies.
func (c *Compiler) applyConversion(expr ir.Expr, conv Conversion, to types.Type) ir.Expr {
	switch conv.Kind {
	case ConvIdentity, ConvQualification, ConvReferenceBinding, ConvDerivedToBase:
		return expr
	case ConvFundamental:
		return ir.NewFundamentalConversion(to, expr, conv.Narrowing)
	case ConvUserDefined:
		if conv.Constructor != nil {
			class, _ := conv.Constructor.Parent.(ir.ClassRef)
			return ir.NewConstructorCall(to, class, conv.Constructor, []ir.Expr{expr})
		}
		if conv.CastOperator != nil {
			return ir.NewFunctionCall(to, conv.CastOperator, expr, nil)
		}
	}
	return expr
}
