// Package types owns type identity: canonical type ids with
// const/reference flags, function-prototype interning, and the opaque
// class/enum/closure registries that give a type id somewhere to point.
package types

// Kind discriminates what a Type's numeric code means.
type Kind uint8

const (
	KindPrimitive Kind = iota
	KindClass
	KindEnum
	KindClosure
	KindFunctionType
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindClass:
		return "class"
	case KindEnum:
		return "enum"
	case KindClosure:
		return "closure"
	case KindFunctionType:
		return "function-type"
	default:
		return "unknown"
	}
}

// Primitive codes, valid when Kind == KindPrimitive.
type Primitive uint16

const (
	Void Primitive = iota
	Bool
	Char
	Int
	Float
	Double
	String
	Auto
	Null
	InitializerListMarker
)

var primitiveNames = map[Primitive]string{
	Void: "void", Bool: "bool", Char: "char", Int: "int", Float: "float",
	Double: "double", String: "string", Auto: "auto", Null: "null",
	InitializerListMarker: "<initializer-list>",
}

// Flags are the orthogonal modifier bits a Type carries alongside its
// category.
type Flags uint16

const (
	Const Flags = 1 << iota
	Reference
	ForwardingReference
	ThisParameter
)

// Type is a compact 32-bit-style tag: a numeric category
// (primitive code, or index into the class/enum/closure/function-type
// tables) plus flag bits. It is a plain value — comparable, copyable, safe
// as a map key once normalized by Equal's rule.
type Type struct {
	Kind  Kind
	Code  uint16
	Flags Flags
}

// FromPrimitive constructs a primitive Type with no flags.
func FromPrimitive(p Primitive) Type { return Type{Kind: KindPrimitive, Code: uint16(p)} }

// WithConst returns t with the const flag set or cleared.
func (t Type) WithConst(c bool) Type { return t.withFlag(Const, c) }

// WithReference returns t with the (non-forwarding) reference flag set or cleared.
func (t Type) WithReference(r bool) Type { return t.withFlag(Reference, r) }

// WithForwardingReference returns t with the forwarding-reference flag set or cleared.
func (t Type) WithForwardingReference(r bool) Type { return t.withFlag(ForwardingReference, r) }

// WithThisParameter returns t marked (or unmarked) as an implicit-object
// parameter type; this bit is ignored by Equal.
func (t Type) WithThisParameter(v bool) Type { return t.withFlag(ThisParameter, v) }

func (t Type) withFlag(f Flags, set bool) Type {
	if set {
		t.Flags |= f
	} else {
		t.Flags &^= f
	}
	return t
}

func (t Type) IsConst() bool               { return t.Flags&Const != 0 }
func (t Type) IsReference() bool           { return t.Flags&Reference != 0 }
func (t Type) IsForwardingReference() bool { return t.Flags&ForwardingReference != 0 }
func (t Type) IsThisParameter() bool       { return t.Flags&ThisParameter != 0 }
func (t Type) IsAnyReference() bool        { return t.IsReference() || t.IsForwardingReference() }

func (t Type) IsPrimitive(p Primitive) bool { return t.Kind == KindPrimitive && t.Code == uint16(p) }
func (t Type) IsVoid() bool                  { return t.IsPrimitive(Void) }
func (t Type) IsAuto() bool                  { return t.IsPrimitive(Auto) }
func (t Type) IsNull() bool                  { return t.IsPrimitive(Null) }

// Decayed strips reference and top-level const, matching the "decayed
// input" rule used by template argument deduction.
func (t Type) Decayed() Type {
	t.Flags &^= Reference | ForwardingReference | Const
	return t
}

// withoutThis clears the this-parameter bit, used by Equal.
func (t Type) withoutThis() Type { return t.withFlag(ThisParameter, false) }

// Equal implements the "equality ignores the this-parameter bit".
func Equal(a, b Type) bool {
	return a.withoutThis() == b.withoutThis()
}

// Compare implements a total order over (category, flags). Category
// orders by Kind then Code; flags then compare as one number, the
// this-parameter bit included (ignored by Equal, but still needed for a
// *total* order; as the highest flag bit it outweighs the others).
func Compare(a, b Type) int {
	if a.Kind != b.Kind {
		return int(a.Kind) - int(b.Kind)
	}
	if a.Code != b.Code {
		return int(a.Code) - int(b.Code)
	}
	return int(a.Flags) - int(b.Flags)
}
