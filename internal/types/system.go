package types

import "strings"

// Named is the shape System's opaque tables hold and ClassPayload,
// EnumPayload and ClosurePayload hand back to callers. It is satisfied by
// internal/symbols.Class, internal/symbols.Enum and internal/symbols.Class
// (closures are themselves classes with a single operator())
// respectively; System itself only needs a Name
// for typeName rendering, so it depends on this minimal interface rather
// than importing internal/symbols (which would import types back).
type Named interface {
	TypeName() string
}

// System is the engine's type registry: pre-registered primitives, plus
// growable class/enum/closure tables and an interned function-prototype
// table. One System is shared by the whole compilation.
type System struct {
	classes   []Named
	enums     []Named
	closures  []Named
	protos    []Prototype
	protoKeys map[string]int
}

// NewSystem creates an empty System. Primitive types need no table entry:
// FromPrimitive constructs them directly.
func NewSystem() *System {
	return &System{protoKeys: make(map[string]int)}
}

// RegisterClass assigns a fresh class-table index and returns its Type.
func (s *System) RegisterClass(c Named) Type {
	s.classes = append(s.classes, c)
	return Type{Kind: KindClass, Code: uint16(len(s.classes) - 1)}
}

// RegisterEnum assigns a fresh enum-table index and returns its Type.
func (s *System) RegisterEnum(e Named) Type {
	s.enums = append(s.enums, e)
	return Type{Kind: KindEnum, Code: uint16(len(s.enums) - 1)}
}

// RegisterClosure assigns a fresh closure-table index and returns its Type.
func (s *System) RegisterClosure(c Named) Type {
	s.closures = append(s.closures, c)
	return Type{Kind: KindClosure, Code: uint16(len(s.closures) - 1)}
}

// ClassPayload returns the opaque value registered for a KindClass Type.
func (s *System) ClassPayload(t Type) Named {
	if t.Kind != KindClass || int(t.Code) >= len(s.classes) {
		return nil
	}
	return s.classes[t.Code]
}

// EnumPayload returns the opaque value registered for a KindEnum Type.
func (s *System) EnumPayload(t Type) Named {
	if t.Kind != KindEnum || int(t.Code) >= len(s.enums) {
		return nil
	}
	return s.enums[t.Code]
}

// ClosurePayload returns the opaque value registered for a KindClosure Type.
func (s *System) ClosurePayload(t Type) Named {
	if t.Kind != KindClosure || int(t.Code) >= len(s.closures) {
		return nil
	}
	return s.closures[t.Code]
}

// GetFunctionType interns proto, returning the same Type for any two
// structurally-equal prototypes.
func (s *System) GetFunctionType(proto Prototype) Type {
	key := proto.key()
	if idx, ok := s.protoKeys[key]; ok {
		return Type{Kind: KindFunctionType, Code: uint16(idx)}
	}
	s.protos = append(s.protos, proto)
	idx := len(s.protos) - 1
	s.protoKeys[key] = idx
	return Type{Kind: KindFunctionType, Code: uint16(idx)}
}

// FunctionPrototype returns the prototype behind a KindFunctionType Type.
func (s *System) FunctionPrototype(t Type) (Prototype, bool) {
	if t.Kind != KindFunctionType || int(t.Code) >= len(s.protos) {
		return Prototype{}, false
	}
	return s.protos[t.Code], true
}

// IsInitializerList reports whether t is an instantiation of the built-in
// InitializerList<T> class template, or the InitializerListMarker
// primitive of a not-yet-consumed list expression. The InitializerList
// origin template name is fixed and recognized by name since System has no
// dependency on internal/template's instance bookkeeping.
func (s *System) IsInitializerList(t Type) bool {
	if t.IsPrimitive(InitializerListMarker) {
		return true
	}
	payload := s.ClassPayload(t)
	if payload == nil {
		return false
	}
	return strings.HasPrefix(payload.TypeName(), "InitializerList<")
}

// TypeName produces the canonical printable form of t ("const T &", etc.),
// Two-pass.
func (s *System) TypeName(t Type) string {
	var b strings.Builder
	if t.IsConst() {
		b.WriteString("const ")
	}
	b.WriteString(s.baseName(t))
	if t.IsReference() {
		b.WriteString(" &")
	} else if t.IsForwardingReference() {
		b.WriteString(" &&")
	}
	return b.String()
}

func (s *System) baseName(t Type) string {
	switch t.Kind {
	case KindPrimitive:
		if name, ok := primitiveNames[Primitive(t.Code)]; ok {
			return name
		}
		return "<unknown-primitive>"
	case KindClass:
		if p := s.ClassPayload(t); p != nil {
			return p.TypeName()
		}
	case KindEnum:
		if p := s.EnumPayload(t); p != nil {
			return p.TypeName()
		}
	case KindClosure:
		if p := s.ClosurePayload(t); p != nil {
			return p.TypeName()
		}
	case KindFunctionType:
		if proto, ok := s.FunctionPrototype(t); ok {
			var fb strings.Builder
			fb.WriteString(s.TypeName(proto.Return))
			fb.WriteByte('(')
			for i, param := range proto.Params {
				if i > 0 {
					fb.WriteString(", ")
				}
				fb.WriteString(s.TypeName(param))
			}
			fb.WriteByte(')')
			return fb.String()
		}
	}
	return "<invalid-type>"
}
