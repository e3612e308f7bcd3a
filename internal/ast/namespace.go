package ast

// NamespaceDeclaration is `namespace [Name] { members... }`. Name is nil
// for an anonymous namespace.
type NamespaceDeclaration struct {
	span
	Name    Identifier
	Members []Declaration
}

func (*NamespaceDeclaration) declarationNode() {}
func (n *NamespaceDeclaration) String() string {
	name := "<anonymous>"
	if n.Name != nil {
		name = n.Name.String()
	}
	return "namespace " + name + " { " + itoa(len(n.Members)) + " members }"
}
