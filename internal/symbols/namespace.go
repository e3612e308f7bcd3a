package symbols

import "github.com/strandscript/libscript/internal/types"

// Variable is a global variable or a static data member — anything a
// namespace or class exposes by value rather than by member-function
// group. Locals live on a function frame's LocalStack instead.
type Variable struct {
	Name       string
	Type       types.Type
	Index      int // GlobalName/StaticDataMemberName slot index
	IsConst    bool
	ConstValue any // compile-time constant payload, when IsConst
}

// Namespace is a namespace frame's backing symbol: a name holding
// nested namespaces, classes, enums, variables, grouped functions,
// grouped operators, literal operators and templates.
type Namespace struct {
	Name             string
	Parent           Symbol
	Namespaces       map[string]*Namespace
	Classes          map[string]*Class
	Enums            map[string]*Enum
	Variables        map[string]*Variable
	Functions        map[string][]*Function
	Operators        map[string][]*Function
	LiteralOperators map[string]*Function
	Templates        map[string]*Template
	Aliases          map[string]*TypeAlias
	NamespaceAliases map[string]*NamespaceAlias
}

// TypeAlias is a `using Name = Type;` injection target.
type TypeAlias struct {
	Name string
	Type types.Type
}

// NamespaceAlias is a `namespace A = X::Y::Z;` rewriting rule, resolved
// during qualified lookup.
type NamespaceAlias struct {
	Name   string
	Target *Namespace
}

func NewNamespace(name string, parent Symbol) *Namespace {
	return &Namespace{
		Name:             name,
		Parent:           parent,
		Namespaces:       map[string]*Namespace{},
		Classes:          map[string]*Class{},
		Enums:            map[string]*Enum{},
		Variables:        map[string]*Variable{},
		Functions:        map[string][]*Function{},
		Operators:        map[string][]*Function{},
		LiteralOperators: map[string]*Function{},
		Templates:        map[string]*Template{},
		Aliases:          map[string]*TypeAlias{},
		NamespaceAliases: map[string]*NamespaceAlias{},
	}
}

func (n *Namespace) SymbolName() string   { return n.Name }
func (n *Namespace) SymbolParent() Symbol { return n.Parent }

// AddNamespace registers (or returns the existing) nested namespace --
// C++ allows reopening a namespace across declarations.
func (n *Namespace) AddNamespace(name string) *Namespace {
	if existing, ok := n.Namespaces[name]; ok {
		return existing
	}
	child := NewNamespace(name, n)
	n.Namespaces[name] = child
	return child
}

func (n *Namespace) AddClass(c *Class) {
	c.Parent = n
	n.Classes[c.Name] = c
}

func (n *Namespace) AddEnum(e *Enum) {
	e.Parent = n
	n.Enums[e.Name] = e
}

func (n *Namespace) AddVariable(v *Variable) {
	n.Variables[v.Name] = v
}

func (n *Namespace) AddFunction(f *Function) {
	f.Parent = n
	n.Functions[f.Name] = append(n.Functions[f.Name], f)
}

func (n *Namespace) AddOperator(f *Function) {
	f.Parent = n
	n.Operators[f.Name] = append(n.Operators[f.Name], f)
}

// AddLiteralOperator registers a literal operator keyed by its suffix,
// the lookup key the literal-lowering rule uses.
func (n *Namespace) AddLiteralOperator(suffix string, f *Function) {
	f.Parent = n
	n.LiteralOperators[suffix] = f
}

func (n *Namespace) AddTemplate(t *Template) {
	t.Parent = n
	n.Templates[t.Name] = t
}
