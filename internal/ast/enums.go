package ast

// EnumeratorDeclaration is one enumerator, with an optional explicit value.
type EnumeratorDeclaration struct {
	span
	Name  Identifier
	Value Expression // nil when implicitly assigned
}

func (*EnumeratorDeclaration) declarationNode() {}
func (e *EnumeratorDeclaration) String() string {
	if e.Value == nil {
		return e.Name.String()
	}
	return e.Name.String() + " = " + e.Value.String()
}

// EnumDeclaration is `enum [class] Name { enumerators... };`.
type EnumDeclaration struct {
	span
	Name        Identifier
	IsEnumClass bool
	Enumerators []*EnumeratorDeclaration
}

func (*EnumDeclaration) declarationNode() {}
func (e *EnumDeclaration) String() string {
	s := "enum "
	if e.IsEnumClass {
		s += "class "
	}
	s += e.Name.String() + " { "
	for i, v := range e.Enumerators {
		if i > 0 {
			s += ", "
		}
		s += v.String()
	}
	return s + " }"
}
