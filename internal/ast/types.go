package ast

// RefKind is the `&`/`&&` suffix of a qualified type-id.
type RefKind int

const (
	NoRef RefKind = iota
	LValueRef
	RValueRef
)

func (r RefKind) String() string {
	switch r {
	case LValueRef:
		return "&"
	case RValueRef:
		return "&&"
	default:
		return ""
	}
}

// NamedType is `[const] name [& | &&]`, where name may be a simple,
// scoped, or template-id Identifier (e.g. `const std::vector<int> &`).
type NamedType struct {
	span
	Const bool
	Name  Identifier
	Ref   RefKind
}

func (*NamedType) typeNode() {}
func (t *NamedType) String() string {
	s := ""
	if t.Const {
		s += "const "
	}
	s += t.Name.String()
	return s + t.Ref.String()
}

// AutoType is the `auto` placeholder type.
type AutoType struct {
	span
	Const bool
	Ref   RefKind
}

func (*AutoType) typeNode() {}
func (t *AutoType) String() string {
	s := ""
	if t.Const {
		s += "const "
	}
	return s + "auto" + t.Ref.String()
}

// FunctionType is a function-pointer/function-variable type-id:
// `[const] <ret>(<params...>) [& | &&]`.
type FunctionType struct {
	span
	Const      bool
	ReturnType TypeNode
	Parameters []TypeNode
	Ref        RefKind
}

func (*FunctionType) typeNode() {}
func (f *FunctionType) String() string {
	s := ""
	if f.Const {
		s += "const "
	}
	s += f.ReturnType.String() + "("
	for i, p := range f.Parameters {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	return s + ")" + f.Ref.String()
}
