package ast

// TemplateParameter is one entry of a template's parameter list: a type
// parameter (`typename T`) or a non-type parameter (`int N`), either
// possibly a parameter pack and either possibly carrying a default.
type TemplateParameter interface {
	Node
	templateParameterNode()
}

// TypeTemplateParameter is `typename T`, `typename T = Default`, or
// `typename... T` when Pack is set.
type TypeTemplateParameter struct {
	span
	Name    Identifier
	Default TypeNode // nil when absent
	Pack    bool
}

func (*TypeTemplateParameter) templateParameterNode() {}
func (t *TypeTemplateParameter) String() string {
	s := "typename "
	if t.Pack {
		s += "... "
	}
	return s + t.Name.String()
}

// NonTypeTemplateParameter is `T N`, `T N = Default`, or `T... N` when Pack
// is set.
type NonTypeTemplateParameter struct {
	span
	Type    TypeNode
	Name    Identifier
	Default Expression // nil when absent
	Pack    bool
}

func (*NonTypeTemplateParameter) templateParameterNode() {}
func (n *NonTypeTemplateParameter) String() string {
	s := n.Type.String() + " "
	if n.Pack {
		s += "... "
	}
	return s + n.Name.String()
}

// TemplateDeclaration is `template<parameters> decl`, wrapping a function
// or class declaration.
type TemplateDeclaration struct {
	span
	Parameters  []TemplateParameter
	Declaration Declaration
}

func (*TemplateDeclaration) declarationNode() {}
func (t *TemplateDeclaration) String() string {
	s := "template<"
	for i, p := range t.Parameters {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	return s + "> " + t.Declaration.String()
}

// TemplateSpecializationDeclaration is a full (`template<> Name<Args> ...`)
// or partial (`template<params> Name<Args-using-params> ...`) class or
// function template specialization.
type TemplateSpecializationDeclaration struct {
	span
	Parameters  []TemplateParameter // empty for a full specialization
	Name        Identifier
	Arguments   []Node
	Partial     bool
	Declaration Declaration
}

func (*TemplateSpecializationDeclaration) declarationNode() {}
func (t *TemplateSpecializationDeclaration) String() string {
	s := "template<"
	for i, p := range t.Parameters {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	s += "> " + t.Name.String() + "<"
	for i, a := range t.Arguments {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ">"
}
