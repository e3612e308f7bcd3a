package lookup

import (
	"github.com/strandscript/libscript/internal/ast"
	"github.com/strandscript/libscript/internal/symbols"
	"github.com/strandscript/libscript/internal/types"
)

// Instantiator is the narrow seam into internal/template's on-demand
// instantiation, kept as an interface here so this package never imports
// internal/template (which itself needs lookup to resolve qualified
// prefixes during deduction — importing it back would cycle).
type Instantiator interface {
	InstantiateClassTemplate(tmpl *symbols.Template, argNodes []ast.Node, scope *symbols.Scope) (*symbols.Class, error)
	InstantiateFunctionTemplate(tmpl *symbols.Template, argNodes []ast.Node, scope *symbols.Scope) (*symbols.Function, error)
}

// Resolve dispatches on id's concrete identifier form and resolves it
// against scope.
func Resolve(scope *symbols.Scope, sys *types.System, inst Instantiator, id ast.Identifier, policy Policy) (Result, error) {
	switch n := id.(type) {
	case *ast.SimpleIdentifier:
		return Unqualified(scope, n.Name, policy), nil
	case *ast.OperatorName:
		return unqualifiedOperatorName(scope, n.Symbol), nil
	case *ast.LiteralOperatorName:
		return unqualifiedLiteralOperatorName(scope, n.Suffix), nil
	case *ast.TemplateIdentifier:
		return resolveTemplateIdentifier(scope, sys, inst, n, policy)
	case *ast.ScopedIdentifier:
		return resolveScoped(scope, sys, inst, n, policy)
	default:
		return Result{}, nil
	}
}

// Unqualified performs the unqualified lookup: innermost frame
// first, each class frame automatically continuing into its base classes,
// injections consulted after a frame's own members but before continuing
// to the parent.
func Unqualified(scope *symbols.Scope, name string, policy Policy) Result {
	for cur := scope; cur != nil; cur = cur.Parent() {
		if r, ok := lookupInFrame(cur.Frame(), name, policy); ok {
			return r
		}
	}
	return Result{}
}

func lookupInFrame(f *symbols.Frame, name string, policy Policy) (Result, bool) {
	switch f.Kind {
	case symbols.FunctionFrameKind:
		if entry, ok := f.Locals.Lookup(name); ok {
			return Result{Kind: LocalName, LocalIndex: entry.Index, LocalType: entry.Type}, true
		}
		for _, cap := range f.Captures {
			if cap.Name == name {
				return Result{Kind: CaptureName, CaptureIndex: cap.Index, CaptureType: cap.Type}, true
			}
		}
	case symbols.ClassFrameKind:
		if r, ok := lookupInClassChain(f.Class, name); ok {
			return r, true
		}
	case symbols.EnumFrameKind:
		if v, ok := f.Enum.ValueOf(name); ok {
			return Result{Kind: EnumValueName, Enum: f.Enum, EnumValue: v}, true
		}
	case symbols.TemplateParameterFrameKind:
		for i, p := range f.Template.Parameters {
			if p.Name == name {
				return Result{Kind: TemplateParameterName, TemplateParamIndex: i, TemplateParamIsType: p.IsType}, true
			}
		}
	case symbols.TemplateArgumentFrameKind:
		if arg, ok := f.TemplateArgs[name]; ok {
			if arg.Kind == symbols.ArgType {
				return Result{Kind: TypeName, Type: arg.Type, TemplateArgValue: arg}, true
			}
			return Result{Kind: TemplateParameterName, TemplateArgValue: arg}, true
		}
	case symbols.ContextFrameKind:
		for _, b := range f.Context {
			if b.Name == name {
				return Result{Kind: GlobalName, FromContext: true, Variable: &symbols.Variable{Name: b.Name, Type: b.Type, Index: b.Index}}, true
			}
		}
	case symbols.NamespaceFrameKind:
		if r, ok := lookupInNamespace(f.Namespace, name, policy); ok {
			return r, true
		}
	case symbols.InjectionFrameKind:
		if r, ok := lookupInInjection(f.Injection, name, policy); ok {
			return r, true
		}
	}
	return Result{}, false
}

// lookupInClassChain implements the member lookup: walk the
// base chain, the first class containing the name wins, regardless of
// whether that name is a data member, a method group, or a nested type.
func lookupInClassChain(c *symbols.Class, name string) (Result, bool) {
	for cur := c; cur != nil; cur = cur.Base {
		if _, ok := cur.OwnDataMemberIndex(name); ok {
			idx, _ := c.DataMemberIndex(name) // offset within the most-derived class's full layout
			return Result{Kind: DataMemberName, Class: c, MemberIndex: idx}, true
		}
		if funcs := cur.MethodsNamed(name); len(funcs) > 0 {
			return Result{Kind: FunctionName, Functions: funcs}, true
		}
		if v, ok := cur.Statics[name]; ok {
			return Result{Kind: StaticDataMemberName, Class: c, Variable: v, MemberIndex: v.Index}, true
		}
		if nested, ok := cur.Nested[name]; ok {
			return nestedSymbolResult(nested), true
		}
	}
	return Result{}, false
}

func nestedSymbolResult(s symbols.Symbol) Result {
	switch v := s.(type) {
	case *symbols.Class:
		return Result{Kind: TypeName, Type: v.SelfType}
	case *symbols.Enum:
		return Result{Kind: TypeName, Type: v.SelfType}
	case *symbols.Template:
		return Result{Kind: TemplateName, Template: v}
	default:
		return Result{}
	}
}

func lookupInNamespace(n *symbols.Namespace, name string, policy Policy) (Result, bool) {
	if child, ok := n.Namespaces[name]; ok {
		return Result{Kind: NamespaceName, Namespace: child}, true
	}
	if c, ok := n.Classes[name]; ok {
		return Result{Kind: TypeName, Type: c.SelfType}, true
	}
	if e, ok := n.Enums[name]; ok {
		return Result{Kind: TypeName, Type: e.SelfType}, true
	}
	if v, ok := n.Variables[name]; ok {
		return Result{Kind: GlobalName, Variable: v, MemberIndex: v.Index}, true
	}
	if funcs, ok := n.Functions[name]; ok && len(funcs) > 0 {
		return Result{Kind: FunctionName, Functions: funcs}, true
	}
	if t, ok := n.Templates[name]; ok {
		return Result{Kind: TemplateName, Template: t}, true
	}
	if alias, ok := n.Aliases[name]; ok {
		return Result{Kind: TypeName, Type: alias.Type}, true
	}
	if nalias, ok := n.NamespaceAliases[name]; ok {
		return Result{Kind: NamespaceName, Namespace: nalias.Target}, true
	}
	return Result{}, false
}

func lookupInInjection(inj *symbols.Injection, name string, policy Policy) (Result, bool) {
	switch inj.Kind {
	case symbols.UsingNamespaceInjection:
		return lookupInNamespace(inj.Namespace, name, policy)
	case symbols.UsingDeclarationInjection:
		if lastSegment(inj.DeclQualifiedName) != name {
			return Result{}, false
		}
		return lookupInNamespace(inj.DeclNamespace, name, policy)
	case symbols.TypeAliasInjection:
		if inj.AliasName == name {
			return Result{Kind: TypeName, Type: inj.AliasType}, true
		}
	case symbols.NamespaceAliasInjection:
		if inj.AliasName == name {
			return Result{Kind: NamespaceName, Namespace: inj.AliasTarget}, true
		}
	}
	return Result{}, false
}

func lastSegment(qualified string) string {
	last := qualified
	for i := len(qualified) - 1; i >= 1; i-- {
		if qualified[i] == ':' && qualified[i-1] == ':' {
			last = qualified[i+1:]
			break
		}
	}
	return last
}

// resolveScoped implements qualified lookup `A::B`: resolve A unqualified
// (or recursively qualified), then B as a member of A's scope.
func resolveScoped(scope *symbols.Scope, sys *types.System, inst Instantiator, id *ast.ScopedIdentifier, policy Policy) (Result, error) {
	left, err := Resolve(scope, sys, inst, id.Left, policy)
	if err != nil {
		return Result{}, err
	}
	switch left.Kind {
	case NamespaceName:
		return resolveMemberOfNamespace(scope, left.Namespace, sys, inst, id.Right, policy)
	case TypeName:
		if c := sys.ClassPayload(left.Type); c != nil {
			if class, ok := c.(*symbols.Class); ok {
				return resolveMemberOfClass(scope, class, sys, inst, id.Right, policy)
			}
		}
		if e := sys.EnumPayload(left.Type); e != nil {
			if enum, ok := e.(*symbols.Enum); ok {
				if simple, ok := id.Right.(*ast.SimpleIdentifier); ok {
					if v, ok := enum.ValueOf(simple.Name); ok {
						return Result{Kind: EnumValueName, Enum: enum, EnumValue: v}, nil
					}
				}
			}
		}
		return Result{}, nil
	default:
		return Result{}, nil
	}
}

func resolveMemberOfNamespace(scope *symbols.Scope, n *symbols.Namespace, sys *types.System, inst Instantiator, right ast.Identifier, policy Policy) (Result, error) {
	switch r := right.(type) {
	case *ast.SimpleIdentifier:
		if res, ok := lookupInNamespace(n, r.Name, policy); ok {
			return res, nil
		}
		return Result{}, nil
	case *ast.TemplateIdentifier:
		baseName, ok := r.Name.(*ast.SimpleIdentifier)
		if !ok {
			return Result{}, nil
		}
		res, ok := lookupInNamespace(n, baseName.Name, policy)
		if !ok {
			return Result{}, nil
		}
		return instantiateIfTemplate(scope, res, sys, inst, r, policy)
	case *ast.ScopedIdentifier:
		left, ok := lookupInNamespace(n, identBaseName(r.Left), policy)
		if !ok || left.Kind != NamespaceName {
			return Result{}, nil
		}
		return resolveMemberOfNamespace(scope, left.Namespace, sys, inst, r.Right, policy)
	default:
		return Result{}, nil
	}
}

func resolveMemberOfClass(scope *symbols.Scope, c *symbols.Class, sys *types.System, inst Instantiator, right ast.Identifier, policy Policy) (Result, error) {
	switch r := right.(type) {
	case *ast.SimpleIdentifier:
		if res, ok := lookupInClassChain(c, r.Name); ok {
			return res, nil
		}
		return Result{}, nil
	case *ast.TemplateIdentifier:
		baseName, ok := r.Name.(*ast.SimpleIdentifier)
		if !ok {
			return Result{}, nil
		}
		res, ok := lookupInClassChain(c, baseName.Name)
		if !ok {
			return Result{}, nil
		}
		return instantiateIfTemplate(scope, res, sys, inst, r, policy)
	default:
		return Result{}, nil
	}
}

func identBaseName(id ast.Identifier) string {
	if s, ok := id.(*ast.SimpleIdentifier); ok {
		return s.Name
	}
	return ""
}

// resolveTemplateIdentifier resolves `name<args>`: first resolve name
// (ignoring the argument list, per the IgnoreTemplateArguments policy),
// then, if it names a template, instantiate it with the given arguments.
func resolveTemplateIdentifier(scope *symbols.Scope, sys *types.System, inst Instantiator, id *ast.TemplateIdentifier, policy Policy) (Result, error) {
	base, err := Resolve(scope, sys, inst, id.Name, Policy{IgnoreTemplateArguments: true})
	if err != nil {
		return Result{}, err
	}
	if base.Kind != TemplateName {
		return base, nil
	}
	if policy.IgnoreTemplateArguments {
		return base, nil
	}
	return instantiateIfTemplate(scope, base, sys, inst, id, policy)
}

func instantiateIfTemplate(scope *symbols.Scope, res Result, sys *types.System, inst Instantiator, id *ast.TemplateIdentifier, policy Policy) (Result, error) {
	if res.Kind != TemplateName || inst == nil {
		return res, nil
	}
	switch res.Template.Kind {
	case symbols.ClassTemplateKind:
		class, err := inst.InstantiateClassTemplate(res.Template, id.Arguments, scope)
		if err != nil {
			return Result{}, err
		}
		return Result{Kind: TypeName, Type: class.SelfType}, nil
	case symbols.FunctionTemplateKind:
		fn, err := inst.InstantiateFunctionTemplate(res.Template, id.Arguments, scope)
		if err != nil {
			return Result{}, err
		}
		return Result{Kind: FunctionName, Functions: []*symbols.Function{fn}}, nil
	default:
		return res, nil
	}
}

func unqualifiedOperatorName(scope *symbols.Scope, symbol string) Result {
	name := "operator" + symbol
	for cur := scope; cur != nil; cur = cur.Parent() {
		f := cur.Frame()
		switch f.Kind {
		case symbols.ClassFrameKind:
			if funcs := f.Class.MethodsNamed(name); len(funcs) > 0 {
				return Result{Kind: FunctionName, Functions: funcs}
			}
		case symbols.NamespaceFrameKind:
			if funcs, ok := f.Namespace.Operators[name]; ok && len(funcs) > 0 {
				return Result{Kind: FunctionName, Functions: funcs}
			}
		}
	}
	return Result{}
}

func unqualifiedLiteralOperatorName(scope *symbols.Scope, suffix string) Result {
	for cur := scope; cur != nil; cur = cur.Parent() {
		f := cur.Frame()
		if f.Kind == symbols.NamespaceFrameKind {
			if fn, ok := f.Namespace.LiteralOperators[suffix]; ok {
				return Result{Kind: FunctionName, Functions: []*symbols.Function{fn}}
			}
		}
	}
	return Result{}
}
