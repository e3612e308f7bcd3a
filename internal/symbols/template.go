package symbols

import (
	"github.com/strandscript/libscript/internal/ast"
	"github.com/strandscript/libscript/internal/types"
)

// TemplateKind discriminates a function template from a class template
//.
type TemplateKind int

const (
	FunctionTemplateKind TemplateKind = iota
	ClassTemplateKind
)

// TemplateParameter is one template parameter: a type parameter or a
// non-type parameter "of Type T", either possibly a pack, either possibly
// carrying a default AST node.
type TemplateParameter struct {
	Name        string
	IsType      bool
	NonTypeType types.Type // meaningful when !IsType
	Default     ast.Node   // ast.TypeNode for a type parameter, ast.Expression otherwise; nil if absent
	Pack        bool
}

// NativeFunctionTemplate is a host-registered backend for a native
// function template: given canonicalized arguments it can produce a
// complete function shell and, later, bind it to a callback.
type NativeFunctionTemplate interface {
	Substitute(args []TemplateArgument) types.Prototype
	Instantiate(fn *Function, args []TemplateArgument) error
}

// NativeClassTemplate is a host-registered backend for a native class
// template (e.g. the built-in Array<T>/InitializerList<T> backends in
// internal/template): given canonicalized arguments it populates class's
// members directly.
type NativeClassTemplate interface {
	Build(sys *types.System, class *Class, args []TemplateArgument) error
}

// PartialSpecialization is one partial specialization of a class template:
// its own parameter list plus the argument pattern it matches against
//.
type PartialSpecialization struct {
	Parameters []TemplateParameter
	Pattern    []ast.Node // same shape as ast.TemplateIdentifier.Arguments
	Definition ast.Node   // *ast.ClassDeclaration body for this specialization
}

// Template is a template symbol: kind, parameters, a native or source
// definition, and an instance table keyed by canonical argument vector.
// Class templates additionally hold partial specializations.
type Template struct {
	Name       string
	Parent     Symbol
	Kind       TemplateKind
	Parameters []TemplateParameter

	NativeFunction NativeFunctionTemplate
	NativeClass    NativeClassTemplate
	Definition     ast.Node // *ast.FunctionDeclaration or *ast.ClassDeclaration; nil if native

	instances    map[string]Symbol
	instanceArgs map[string][]TemplateArgument

	PartialSpecializations []*PartialSpecialization
}

func NewTemplate(name string, kind TemplateKind) *Template {
	return &Template{
		Name:         name,
		Kind:         kind,
		instances:    map[string]Symbol{},
		instanceArgs: map[string][]TemplateArgument{},
	}
}

func (t *Template) SymbolName() string   { return t.Name }
func (t *Template) SymbolParent() Symbol { return t.Parent }

// HasInstance reports whether an instance keyed by key already exists,
//
func (t *Template) HasInstance(key string) bool {
	_, ok := t.instances[key]
	return ok
}

// GetInstance returns the instance keyed by key, if any.
func (t *Template) GetInstance(key string) (Symbol, bool) {
	s, ok := t.instances[key]
	return s, ok
}

// SetInstance records a newly-produced instance under key, along with the
// argument vector it was produced from (for rollback/enumeration).
func (t *Template) SetInstance(key string, args []TemplateArgument, sym Symbol) {
	t.instances[key] = sym
	t.instanceArgs[key] = args
}

// RemoveInstance deletes an instance, used by session rollback.
func (t *Template) RemoveInstance(key string) {
	delete(t.instances, key)
	delete(t.instanceArgs, key)
}

// Instances returns every (key, symbol) pair currently cached, for
// diagnostics and rollback enumeration.
func (t *Template) Instances() map[string]Symbol { return t.instances }
