package compiler

import (
	"github.com/strandscript/libscript/internal/ast"
	"github.com/strandscript/libscript/internal/ir"
	"github.com/strandscript/libscript/internal/lookup"
	"github.com/strandscript/libscript/internal/symbols"
	"github.com/strandscript/libscript/internal/types"
)

// declareTopLevel is Pass 1 for one declaration: create the symbol shell,
// register it in its enclosing scope, and queue whatever needs Pass 2
// (class members, function bodies, variable initializers). A declaration
// whose types cannot be resolved yet is queued for re-attempt rather than
// reported. Returns the scope
// subsequent declarations see, which grows an injection frame for each
// using-directive/-declaration.
func (c *Compiler) declareTopLevel(scope *symbols.Scope, decl ast.Declaration) *symbols.Scope {
	return c.declare(scope, decl, true)
}

// declareTopLevelReporting is the final re-attempt: resolution failures
// report for real instead of re-queueing.
func (c *Compiler) declareTopLevelReporting(scope *symbols.Scope, decl ast.Declaration) {
	c.declare(scope, decl, false)
}

func (c *Compiler) declare(scope *symbols.Scope, decl ast.Declaration, quiet bool) *symbols.Scope {
	ns := scope.EnclosingNamespace()
	switch d := decl.(type) {
	case *ast.NamespaceDeclaration:
		name := "<anonymous>"
		if d.Name != nil {
			name = simpleName(d.Name)
		}
		child := ns.AddNamespace(name)
		inner := scope.Push(symbols.NamespaceFrame(child))
		for _, m := range d.Members {
			inner = c.declare(inner, m, quiet)
		}
		return scope

	case *ast.ClassDeclaration:
		c.declareClass(scope, ns, d)
		return scope

	case *ast.EnumDeclaration:
		c.declareEnum(scope, ns, d)
		return scope

	case *ast.FunctionDeclaration:
		c.declareFunction(scope, ns, d, quiet)
		return scope

	case *ast.VariableDeclaration:
		c.declareGlobal(scope, ns, d, quiet)
		return scope

	case *ast.TypedefDeclaration:
		c.declareAlias(scope, ns, d.Name, d.Type, d, quiet)
		return scope

	case *ast.UsingTypeAlias:
		c.declareAlias(scope, ns, d.Name, d.Type, d, quiet)
		return scope

	case *ast.UsingDirective:
		target, ok := c.resolveNamespaceName(scope, d.Namespace)
		if !ok {
			c.Session.report(UnknownIdentifier, d.Span(), "%q does not name a namespace", d.Namespace.String())
			return scope
		}
		return scope.Push(symbols.InjectionFrame(&symbols.Injection{
			Kind:      symbols.UsingNamespaceInjection,
			Namespace: target,
		}))

	case *ast.UsingDeclaration:
		scoped, ok := d.Name.(*ast.ScopedIdentifier)
		if !ok {
			c.Session.report(UnknownIdentifier, d.Span(), "a using-declaration requires a qualified name")
			return scope
		}
		target, ok := c.resolveNamespaceName(scope, scoped.Left)
		if !ok {
			c.Session.report(UnknownIdentifier, d.Span(), "%q does not name a namespace", scoped.Left.String())
			return scope
		}
		return scope.Push(symbols.InjectionFrame(&symbols.Injection{
			Kind:              symbols.UsingDeclarationInjection,
			DeclNamespace:     target,
			DeclQualifiedName: d.Name.String(),
		}))

	case *ast.NamespaceAliasDeclaration:
		target, ok := c.resolveNamespaceName(scope, d.Target)
		if !ok {
			c.Session.report(UnknownIdentifier, d.Span(), "%q does not name a namespace", d.Target.String())
			return scope
		}
		ns.NamespaceAliases[simpleName(d.Name)] = &symbols.NamespaceAlias{Name: simpleName(d.Name), Target: target}
		return scope

	case *ast.ImportDeclaration:
		name := ""
		for i, part := range d.Path {
			if i > 0 {
				name += "."
			}
			name += part
		}
		if c.Modules == nil {
			c.Session.report(UnknownIdentifier, d.Span(), "unknown module %q", name)
			return scope
		}
		if err := c.Modules.LoadModule(name); err != nil {
			c.Session.report(UnknownIdentifier, d.Span(), "%s", err)
		}
		return scope

	case *ast.TemplateDeclaration:
		c.declareTemplate(scope, ns, d)
		return scope

	case *ast.TemplateSpecializationDeclaration:
		c.declareSpecialization(scope, ns, d)
		return scope

	case *ast.FriendDeclaration:
		c.Session.report(UnknownIdentifier, d.Span(), "friend declarations are only valid inside a class")
		return scope

	default:
		c.Session.report(UnknownIdentifier, decl.Span(), "unsupported declaration form %T", decl)
		return scope
	}
}

// tryResolveType resolves a type-id without leaving diagnostics behind on
// failure, the probe declaration re-attempts rely on.
func (c *Compiler) tryResolveType(node ast.TypeNode, scope *symbols.Scope) (types.Type, bool) {
	mark := c.Session.Sink.Len()
	t, err := c.ResolveType(node, scope)
	if err != nil {
		c.Session.Sink.Truncate(mark)
		return types.Type{}, false
	}
	return t, true
}

func (c *Compiler) resolveNamespaceName(scope *symbols.Scope, id ast.Identifier) (*symbols.Namespace, bool) {
	res, err := lookup.Resolve(scope, c.Session.Types, c.Engine, id, lookup.Policy{})
	if err != nil || res.Kind != lookup.NamespaceName {
		return nil, false
	}
	return res.Namespace, true
}

func simpleName(id ast.Identifier) string {
	switch n := id.(type) {
	case *ast.SimpleIdentifier:
		return n.Name
	case *ast.ScopedIdentifier:
		return simpleName(n.Right)
	case *ast.TemplateIdentifier:
		return simpleName(n.Name)
	default:
		return id.String()
	}
}

// functionDisplayName maps a declared function's identifier to the lookup
// name the symbol carries: plain for ordinary names, "operator<sym>" for
// operator overloads.
func functionDisplayName(id ast.Identifier) string {
	switch n := id.(type) {
	case *ast.OperatorName:
		return "operator" + n.Symbol
	case *ast.LiteralOperatorName:
		return `operator"" ` + n.Suffix
	default:
		return simpleName(id)
	}
}

// declareClass registers a class shell and queues its body for Pass 2.
// Base resolution is deferred to the body pass so a base declared later in
// the unit still resolves.
func (c *Compiler) declareClass(scope *symbols.Scope, ns *symbols.Namespace, d *ast.ClassDeclaration) *symbols.Class {
	name := simpleName(d.Name)
	if _, exists := ns.Classes[name]; exists {
		c.Session.report(DuplicateSymbol, d.Span(), "redefinition of class %q", name)
		return nil
	}
	class := symbols.NewClass(name, ns)
	class.Final = d.Final
	class.SelfType = c.Session.Types.RegisterClass(class)
	ns.AddClass(class)
	c.Session.queueClassBody(class, d, scope)
	return class
}

// declareEnum registers an enum, assigning enumerator values with the
// auto-increment-from-previous rule and synthesizing the enum's assignment
// operator.
func (c *Compiler) declareEnum(scope *symbols.Scope, ns *symbols.Namespace, d *ast.EnumDeclaration) *symbols.Enum {
	name := simpleName(d.Name)
	if _, exists := ns.Enums[name]; exists {
		c.Session.report(DuplicateSymbol, d.Span(), "redefinition of enum %q", name)
		return nil
	}
	enum := symbols.NewEnum(name, ns, d.IsEnumClass)
	enum.SelfType = c.Session.Types.RegisterEnum(enum)

	for _, e := range d.Enumerators {
		enumName := simpleName(e.Name)
		if _, dup := enum.ValueOf(enumName); dup {
			c.Session.report(DuplicateSymbol, e.Span(), "duplicate enumerator %q", enumName)
			continue
		}
		value := enum.NextValue()
		if e.Value != nil {
			v, err := c.EvalConstInt(e.Value, scope)
			if err != nil {
				c.Session.report(NotConstExpression, e.Value.Span(), "enumerator value must be a constant expression")
			} else {
				value = v
			}
		}
		enum.AddEnumerator(enumName, value)
	}

	assign := symbols.NewFunction("operator=", types.Prototype{
		Return: enum.SelfType.WithReference(true),
		Params: []types.Type{enum.SelfType.WithThisParameter(true).WithReference(true), enum.SelfType},
	})
	assign.Flags.Defaulted = true
	assign.Parent = enum
	enum.AssignOperator = assign

	ns.AddEnum(enum)
	return enum
}

// declareFunction registers a namespace-scope function (or free operator,
// or literal operator) shell, compiles its default arguments, and queues
// its body. Returns false when a parameter or return type is not yet
// resolvable and the declaration was queued for re-attempt.
func (c *Compiler) declareFunction(scope *symbols.Scope, ns *symbols.Namespace, d *ast.FunctionDeclaration, quiet bool) bool {
	ret, ok := c.tryResolveType(d.ReturnType, scope)
	if !ok {
		if quiet {
			c.Session.queueDeclRetry(d, scope)
			return false
		}
		ret = c.resolveTypeOrReport(d.ReturnType, scope)
	}
	params := make([]types.Type, len(d.Parameters))
	for i, p := range d.Parameters {
		pt, pok := c.tryResolveType(p.Type, scope)
		if !pok {
			if quiet {
				c.Session.queueDeclRetry(d, scope)
				return false
			}
			pt = c.resolveTypeOrReport(p.Type, scope)
		}
		params[i] = pt
	}

	if d.Flags.Const || d.Flags.Virtual || d.Flags.PureVirtual {
		c.Session.report(InvalidLValue, d.Span(), "'const' and 'virtual' are only valid on non-static member functions")
	}
	if d.Flags.Explicit {
		c.Session.report(InvalidLValue, d.Span(), "'explicit' is only valid on a constructor")
	}

	name := functionDisplayName(d.Name)
	fn := symbols.NewFunction(name, types.Prototype{Return: ret, Params: params})
	fn.Flags.Static = d.Flags.Static
	fn.Flags.Deleted = d.Flags.Deleted
	fn.Flags.Defaulted = d.Flags.Defaulted

	switch n := d.Name.(type) {
	case *ast.LiteralOperatorName:
		ns.AddLiteralOperator(n.Suffix, fn)
	case *ast.OperatorName:
		ns.AddOperator(fn)
	default:
		for _, existing := range ns.Functions[name] {
			if symbols.SignatureEquals(existing.Prototype, fn.Prototype) {
				c.Session.report(DuplicateSymbol, d.Span(), "redefinition of %q with the same signature", name)
				return true
			}
		}
		ns.AddFunction(fn)
	}

	c.compileDefaultArguments(fn, d.Parameters, 0, scope)
	if d.Body != nil {
		c.Session.queueFunctionBody(fn, d, scope)
	}
	return true
}

// compileDefaultArguments compiles trailing default-argument expressions
// with access to preceding parameters, storing the resulting IR on the
// function. thisOffset is 1 for member
// functions whose prototype carries an implicit-object slot.
func (c *Compiler) compileDefaultArguments(fn *symbols.Function, params []*ast.ParameterDeclaration, thisOffset int, scope *symbols.Scope) {
	frame := symbols.FunctionFrame(fn)
	if thisOffset > 0 {
		frame.Locals.Declare("this", fn.Prototype.Params[0])
	}
	fscope := scope.Push(frame)

	var defaults []ir.Expr
	for i, p := range params {
		paramType := fn.Prototype.Params[i+thisOffset]
		if p.Default == nil {
			if len(defaults) > 0 {
				c.Session.report(InvalidLValue, p.Span(), "a parameter without a default argument may not follow one with a default")
			}
		} else {
			value, err := c.lowerExpr(p.Default, fscope)
			if err == nil {
				defaults = append(defaults, c.convertTo(paramType, value, p.Default.Span(), fscope, false))
			}
		}
		if p.Name != nil {
			frame.Locals.Declare(simpleName(p.Name), paramType)
		}
	}
	fn.Defaults = defaults
}

// declareGlobal registers a global variable placeholder and queues its
// initializer for the variable phase (run after every function body is
// compiled, in declaration order).
func (c *Compiler) declareGlobal(scope *symbols.Scope, ns *symbols.Namespace, d *ast.VariableDeclaration, quiet bool) {
	var t types.Type
	if _, isAuto := d.Type.(*ast.AutoType); isAuto {
		at, _ := c.ResolveType(d.Type, scope)
		t = at
	} else {
		resolved, ok := c.tryResolveType(d.Type, scope)
		if !ok {
			if quiet {
				c.Session.queueDeclRetry(d, scope)
				return
			}
			resolved = c.resolveTypeOrReport(d.Type, scope)
		}
		t = resolved
	}
	name := simpleName(d.Name)
	if _, exists := ns.Variables[name]; exists {
		c.Session.report(DuplicateSymbol, d.Span(), "redefinition of %q", name)
		return
	}
	v := &symbols.Variable{Name: name, Type: t, Index: c.Session.nextGlobalIndex()}
	ns.AddVariable(v)
	c.Session.queueVariable(v, d, scope)
}

// compileVariableInitializer lowers a queued global's initializer,
// deducing an `auto` declared type from the initializer's base type, and
// promoting a const-qualified literal initializer into a compile-time
// constant.
func (c *Compiler) compileVariableInitializer(v *symbols.Variable, d *ast.VariableDeclaration, scope *symbols.Scope) {
	var init ir.Expr
	if v.Type.IsAuto() {
		copyInit, ok := d.Init.(*ast.CopyInitialization)
		if !ok {
			c.Session.report(CannotResolveAutoType, d.Span(), "cannot deduce the type of %q without an '= expression' initializer", v.Name)
			return
		}
		value, err := c.lowerExpr(copyInit.Value, scope)
		if err != nil {
			return
		}
		deduced := value.ExprType().Decayed()
		if v.Type.IsConst() {
			deduced = deduced.WithConst(true)
		}
		if v.Type.IsReference() {
			deduced = deduced.WithReference(true)
		}
		v.Type = deduced
		init = c.convertTo(deduced, value, copyInit.Span(), scope, false)
	} else {
		init = c.lowerInitialization(v.Type, d.Init, scope)
	}

	if v.Type.IsConst() {
		if lit, ok := init.(*ir.Literal); ok {
			v.IsConst = true
			v.ConstValue = lit.Value
		}
	}
	c.Session.GlobalInits = append(c.Session.GlobalInits, GlobalInit{Variable: v, Init: init})
}

// declareAlias resolves and registers a typedef or `using name = type`
// binding on the enclosing namespace.
func (c *Compiler) declareAlias(scope *symbols.Scope, ns *symbols.Namespace, name ast.Identifier, ty ast.TypeNode, decl ast.Declaration, quiet bool) {
	t, ok := c.tryResolveType(ty, scope)
	if !ok {
		if quiet {
			c.Session.queueDeclRetry(decl, scope)
			return
		}
		t = c.resolveTypeOrReport(ty, scope)
	}
	ns.Aliases[simpleName(name)] = &symbols.TypeAlias{Name: simpleName(name), Type: t}
}

// declareTemplate records a class or function template's header and
// definition AST; instantiation is deferred until a use site demands it
//.
func (c *Compiler) declareTemplate(scope *symbols.Scope, ns *symbols.Namespace, d *ast.TemplateDeclaration) {
	params, ok := c.resolveTemplateParameters(d.Parameters, scope)
	if !ok {
		return
	}

	var name string
	var kind symbols.TemplateKind
	switch inner := d.Declaration.(type) {
	case *ast.ClassDeclaration:
		name = simpleName(inner.Name)
		kind = symbols.ClassTemplateKind
	case *ast.FunctionDeclaration:
		name = simpleName(inner.Name)
		kind = symbols.FunctionTemplateKind
	default:
		c.Session.report(NotATemplate, d.Span(), "a template must declare a class or a function")
		return
	}

	if _, exists := ns.Templates[name]; exists {
		c.Session.report(DuplicateSymbol, d.Span(), "redefinition of template %q", name)
		return
	}
	tmpl := symbols.NewTemplate(name, kind)
	tmpl.Parameters = params
	tmpl.Definition = d.Declaration
	ns.AddTemplate(tmpl)
}

func (c *Compiler) resolveTemplateParameters(decls []ast.TemplateParameter, scope *symbols.Scope) ([]symbols.TemplateParameter, bool) {
	params := make([]symbols.TemplateParameter, 0, len(decls))
	for _, p := range decls {
		switch tp := p.(type) {
		case *ast.TypeTemplateParameter:
			var def ast.Node
			if tp.Default != nil {
				def = tp.Default
			}
			params = append(params, symbols.TemplateParameter{
				Name: simpleName(tp.Name), IsType: true, Default: def, Pack: tp.Pack,
			})
		case *ast.NonTypeTemplateParameter:
			t := c.resolveTypeOrReport(tp.Type, scope)
			var def ast.Node
			if tp.Default != nil {
				def = tp.Default
			}
			params = append(params, symbols.TemplateParameter{
				Name: simpleName(tp.Name), IsType: false, NonTypeType: t, Default: def, Pack: tp.Pack,
			})
		default:
			c.Session.report(NotATemplate, p.Span(), "unsupported template parameter form %T", p)
			return nil, false
		}
	}
	return params, true
}

// declareSpecialization attaches a partial specialization to its primary
// template, or registers a full specialization's shell directly in the
// primary's instance table (keyed by its canonicalized argument vector)
// with its body queued like any other class.
func (c *Compiler) declareSpecialization(scope *symbols.Scope, ns *symbols.Namespace, d *ast.TemplateSpecializationDeclaration) {
	name := simpleName(d.Name)
	primary, ok := ns.Templates[name]
	if !ok {
		res := lookup.Unqualified(scope, name, lookup.Policy{IgnoreTemplateArguments: true})
		if res.Kind != lookup.TemplateName {
			c.Session.report(NotATemplate, d.Span(), "%q does not name a template", name)
			return
		}
		primary = res.Template
	}

	if d.Partial {
		params, pok := c.resolveTemplateParameters(d.Parameters, scope)
		if !pok {
			return
		}
		classDecl, cok := d.Declaration.(*ast.ClassDeclaration)
		if !cok {
			c.Session.report(NotATemplate, d.Span(), "partial specialization requires a class definition")
			return
		}
		primary.PartialSpecializations = append(primary.PartialSpecializations, &symbols.PartialSpecialization{
			Parameters: params,
			Pattern:    d.Arguments,
			Definition: classDecl,
		})
		return
	}

	args, err := c.Engine.CanonicalizeArguments(primary, d.Arguments, scope)
	if err != nil {
		c.Session.report(NotATemplate, d.Span(), "%s", err)
		return
	}
	key := symbols.CanonicalArgsKey(c.Session.Types, args)
	if primary.HasInstance(key) {
		c.Session.report(DuplicateSymbol, d.Span(), "%q is already specialized for these arguments", name)
		return
	}

	switch inner := d.Declaration.(type) {
	case *ast.ClassDeclaration:
		instName := name + "<"
		for i, a := range args {
			if i > 0 {
				instName += ", "
			}
			instName += a.Key(c.Session.Types)
		}
		instName += ">"
		class := symbols.NewClass(instName, primary.SymbolParent())
		class.Instance = &symbols.TemplateInstanceInfo{Origin: primary, Arguments: args}
		class.SelfType = c.Session.Types.RegisterClass(class)
		primary.SetInstance(key, args, class)
		c.Session.queueClassBody(class, inner, scope)
	case *ast.FunctionDeclaration:
		ret := c.resolveTypeOrReport(inner.ReturnType, scope)
		params := make([]types.Type, len(inner.Parameters))
		for i, p := range inner.Parameters {
			params[i] = c.resolveTypeOrReport(p.Type, scope)
		}
		fn := symbols.NewFunction(name, types.Prototype{Return: ret, Params: params})
		fn.TemplateOrigin = &symbols.TemplateInstanceInfo{Origin: primary, Arguments: args}
		fn.Parent = primary.SymbolParent()
		primary.SetInstance(key, args, fn)
		if inner.Body != nil {
			c.Session.queueFunctionBody(fn, inner, scope)
		}
	default:
		c.Session.report(NotATemplate, d.Span(), "unsupported specialization form %T", d.Declaration)
	}
}
