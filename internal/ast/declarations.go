package ast

// ParameterDeclaration is one function parameter, with an optional default
// argument expression (trailing positions only
// invariant).
type ParameterDeclaration struct {
	span
	Type    TypeNode
	Name    Identifier // nil for an unnamed parameter
	Default Expression // nil when absent
}

func (*ParameterDeclaration) declarationNode() {}
func (p *ParameterDeclaration) String() string {
	s := p.Type.String()
	if p.Name != nil {
		s += " " + p.Name.String()
	}
	if p.Default != nil {
		s += " = " + p.Default.String()
	}
	return s
}

// FunctionFlags are the orthogonal modifiers a function declaration may
// carry, mirroring the symbol table's Function flag set.
type FunctionFlags struct {
	Static      bool
	Const       bool
	Virtual     bool
	PureVirtual bool
	Deleted     bool
	Defaulted   bool
	Explicit    bool
}

// FunctionDeclaration is a free, member, or template function declaration
// or definition. Body is nil for a declaration with no definition.
type FunctionDeclaration struct {
	span
	ReturnType TypeNode
	Name       Identifier
	Parameters []*ParameterDeclaration
	Body       *CompoundStatement
	Flags      FunctionFlags
}

func (*FunctionDeclaration) declarationNode() {}
func (f *FunctionDeclaration) String() string {
	s := f.ReturnType.String() + " " + f.Name.String() + "("
	for i, p := range f.Parameters {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	s += ")"
	if f.Flags.Const {
		s += " const"
	}
	return s
}

// VariableDeclaration is `type name initializer;`, a global, member, or
// local variable (member declarations carry accessibility via the
// enclosing ClassMember, not here).
type VariableDeclaration struct {
	span
	Type   TypeNode
	Name   Identifier
	Init   Initialization
	Static bool // a static data member, when declared inside a class
}

func (*VariableDeclaration) declarationNode() {}
func (v *VariableDeclaration) String() string {
	return v.Type.String() + " " + v.Name.String() + v.Init.String() + ";"
}

// TypedefDeclaration is `typedef type name;`.
type TypedefDeclaration struct {
	span
	Type TypeNode
	Name Identifier
}

func (*TypedefDeclaration) declarationNode() {}
func (t *TypedefDeclaration) String() string {
	return "typedef " + t.Type.String() + " " + t.Name.String() + ";"
}

// UsingTypeAlias is `using name = type;`.
type UsingTypeAlias struct {
	span
	Name Identifier
	Type TypeNode
}

func (*UsingTypeAlias) declarationNode() {}
func (u *UsingTypeAlias) String() string {
	return "using " + u.Name.String() + " = " + u.Type.String() + ";"
}

// UsingDeclaration is `using X::Y;`, bringing a single qualified name into
// scope.
type UsingDeclaration struct {
	span
	Name Identifier // a ScopedIdentifier
}

func (*UsingDeclaration) declarationNode() {}
func (u *UsingDeclaration) String() string { return "using " + u.Name.String() + ";" }

// UsingDirective is `using namespace N;`.
type UsingDirective struct {
	span
	Namespace Identifier
}

func (*UsingDirective) declarationNode() {}
func (u *UsingDirective) String() string { return "using namespace " + u.Namespace.String() + ";" }

// NamespaceAliasDeclaration is `namespace A = X::Y::Z;`.
type NamespaceAliasDeclaration struct {
	span
	Name   Identifier
	Target Identifier
}

func (*NamespaceAliasDeclaration) declarationNode() {}
func (n *NamespaceAliasDeclaration) String() string {
	return "namespace " + n.Name.String() + " = " + n.Target.String() + ";"
}

// ImportDeclaration is `import [export] a.b.c;`.
type ImportDeclaration struct {
	span
	Path   []string
	Export bool
}

func (*ImportDeclaration) declarationNode() {}
func (i *ImportDeclaration) String() string {
	s := "import "
	if i.Export {
		s += "export "
	}
	for idx, part := range i.Path {
		if idx > 0 {
			s += "."
		}
		s += part
	}
	return s + ";"
}

// FriendDeclaration is `friend <decl>;` inside a class body, granting the
// named function or class access to private/protected members.
type FriendDeclaration struct {
	span
	Target Declaration
}

func (*FriendDeclaration) declarationNode() {}
func (f *FriendDeclaration) String() string { return "friend " + f.Target.String() }
