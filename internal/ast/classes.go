package ast

// AccessSpecifier is a class member's visibility.
type AccessSpecifier int

const (
	Public AccessSpecifier = iota
	Protected
	Private
)

func (a AccessSpecifier) String() string {
	switch a {
	case Public:
		return "public"
	case Protected:
		return "protected"
	default:
		return "private"
	}
}

// ClassMember pairs a member declaration with the access specifier in
// effect at the point it was parsed.
type ClassMember struct {
	Access AccessSpecifier
	Decl   Declaration
}

// ClassDeclaration is `class Name [: access Base] { members... };`.
// Single inheritance only.
type ClassDeclaration struct {
	span
	Name       Identifier
	Base       Identifier // nil when there is no base class
	BaseAccess AccessSpecifier
	Final      bool
	Members    []ClassMember
}

func (*ClassDeclaration) declarationNode() {}
func (c *ClassDeclaration) String() string {
	s := "class " + c.Name.String()
	if c.Base != nil {
		s += " : " + c.BaseAccess.String() + " " + c.Base.String()
	}
	if c.Final {
		s += " final"
	}
	return s + " { ... }"
}

// MemberInitializer is one entry of a constructor's member-initializer
// list: `Member(args...)`.
type MemberInitializer struct {
	Member    Identifier
	Arguments []Expression
}

// ConstructorDeclaration is `Name(params) : inits... { body }`.
type ConstructorDeclaration struct {
	span
	Name           Identifier
	Parameters     []*ParameterDeclaration
	MemberInits    []MemberInitializer
	Body        *CompoundStatement
	Explicit    bool
	Deleted     bool
	Defaulted   bool
}

func (*ConstructorDeclaration) declarationNode() {}
func (c *ConstructorDeclaration) String() string {
	s := c.Name.String() + "("
	for i, p := range c.Parameters {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	return s + ")"
}

// DestructorDeclaration is `~Name() { body }`.
type DestructorDeclaration struct {
	span
	Name      Identifier
	Body      *CompoundStatement
	Virtual   bool
	Deleted   bool
	Defaulted bool
}

func (*DestructorDeclaration) declarationNode() {}
func (d *DestructorDeclaration) String() string { return "~" + d.Name.String() + "()" }

// ConversionOperatorDeclaration is `[explicit] operator TargetType() { body }`.
type ConversionOperatorDeclaration struct {
	span
	TargetType TypeNode
	Body       *CompoundStatement
	Explicit   bool
	Const      bool
}

func (*ConversionOperatorDeclaration) declarationNode() {}
func (c *ConversionOperatorDeclaration) String() string {
	return "operator " + c.TargetType.String() + "()"
}

// OperatorOverloadDeclaration is `<ret> operator<symbol>(params) { body }`
// for infix, prefix, postfix, call, subscript, and assignment operators.
type OperatorOverloadDeclaration struct {
	span
	ReturnType TypeNode
	Operator   string
	Parameters []*ParameterDeclaration
	Body       *CompoundStatement
	Flags      FunctionFlags
}

func (*OperatorOverloadDeclaration) declarationNode() {}
func (o *OperatorOverloadDeclaration) String() string {
	return o.ReturnType.String() + " operator" + o.Operator + "(...)"
}

// LiteralOperatorDeclaration is `<ret> operator"" _suffix(params) { body }`.
type LiteralOperatorDeclaration struct {
	span
	ReturnType TypeNode
	Suffix     string
	Parameters []*ParameterDeclaration
	Body       *CompoundStatement
}

func (*LiteralOperatorDeclaration) declarationNode() {}
func (l *LiteralOperatorDeclaration) String() string {
	return l.ReturnType.String() + ` operator"" ` + l.Suffix + "(...)"
}
