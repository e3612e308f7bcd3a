package compiler

import (
	"github.com/strandscript/libscript/internal/ast"
	"github.com/strandscript/libscript/internal/lookup"
	"github.com/strandscript/libscript/internal/symbols"
	"github.com/strandscript/libscript/internal/types"
)

func toAccess(a ast.AccessSpecifier) symbols.Access {
	switch a {
	case ast.Public:
		return symbols.Public
	case ast.Protected:
		return symbols.Protected
	default:
		return symbols.Private
	}
}

// thisParam builds the implicit-object parameter type for a member of
// class: a (possibly const) reference flagged with the this-parameter bit.
func thisParam(class *symbols.Class, isConst bool) types.Type {
	t := class.SelfType.WithThisParameter(true).WithReference(true)
	if isConst {
		t = t.WithConst(true)
	}
	return t
}

// compileClassMembers is Pass 2 for one class: resolve the base clause,
// declare every member (data members with a fixed-point re-attempt for
// types that depend on classes compiled later in this same pass), build
// the vtable, generate the defaulted special members, and queue member
// bodies for the function phase. Also the Resolver path class-template
// instantiation lands on, via CompileClassBody.
func (c *Compiler) compileClassMembers(class *symbols.Class, d *ast.ClassDeclaration, scope *symbols.Scope) {
	if d.Base != nil && class.Base == nil {
		res, err := lookup.Resolve(scope, c.Session.Types, c.Engine, d.Base, lookup.Policy{})
		base, _ := c.Session.Types.ClassPayload(res.Type).(*symbols.Class)
		switch {
		case err != nil || res.Kind != lookup.TypeName || base == nil:
			c.Session.report(NotAClass, d.Base.Span(), "invalid base class %q", d.Base.String())
		case base.Final:
			c.Session.report(NotAClass, d.Base.Span(), "base class %q is final", base.Name)
		case base == class || base.IsDerivedFrom(class):
			c.Session.report(CyclicBaseClass, d.Base.Span(), "cyclic base class %q", base.Name)
		default:
			class.Base = base
			class.BaseAccess = toAccess(d.BaseAccess)
		}
	}

	classScope := scope.Push(symbols.ClassFrame(class))

	// Data members first, re-attempted to a fixed point so a member whose
	// type is a class queued later in this pass still resolves; the final
	// add preserves declaration order for stable offsets.
	type memberDecl struct {
		access ast.AccessSpecifier
		decl   *ast.VariableDeclaration
	}
	var fields []memberDecl
	for _, m := range d.Members {
		if vd, ok := m.Decl.(*ast.VariableDeclaration); ok && !vd.Static {
			fields = append(fields, memberDecl{access: m.Access, decl: vd})
		}
	}
	resolved := make(map[*ast.VariableDeclaration]types.Type, len(fields))
	pending := fields
	for len(pending) > 0 {
		var stillPending []memberDecl
		for _, f := range pending {
			if _, isAuto := f.decl.Type.(*ast.AutoType); isAuto {
				c.Session.report(CannotResolveAutoType, f.decl.Span(), "a data member cannot be declared 'auto'")
				resolved[f.decl] = types.FromPrimitive(types.Void)
				continue
			}
			if t, ok := c.tryResolveType(f.decl.Type, classScope); ok {
				resolved[f.decl] = t
				continue
			}
			stillPending = append(stillPending, f)
		}
		if len(stillPending) == len(pending) {
			for _, f := range stillPending {
				resolved[f.decl] = c.resolveTypeOrReport(f.decl.Type, classScope)
			}
			break
		}
		pending = stillPending
	}
	for _, f := range fields {
		_, hasInit := f.decl.Init.(*ast.DefaultInitialization)
		class.AddDataMember(&symbols.DataMember{
			Name:           simpleName(f.decl.Name),
			Type:           resolved[f.decl],
			Access:         toAccess(f.access),
			HasInitializer: f.decl.Init != nil && !hasInit,
		})
	}

	for _, m := range d.Members {
		classScope = c.declareClassMember(class, classScope, m)
	}

	symbols.BuildVTable(class)
	c.generateSpecialMembers(class, classScope)
}

// declareClassMember handles every non-data-member member form: methods,
// constructors, the destructor, operator overloads, conversion operators,
// nested types, static data members, friends, aliases, and nested
// templates. Returns the scope later members see — a typedef or alias
// member extends it with an injection frame.
func (c *Compiler) declareClassMember(class *symbols.Class, classScope *symbols.Scope, m ast.ClassMember) *symbols.Scope {
	access := toAccess(m.Access)
	switch d := m.Decl.(type) {
	case *ast.VariableDeclaration:
		if !d.Static {
			return classScope // handled by the data-member pass
		}
		t := c.resolveTypeOrReport(d.Type, classScope)
		v := &symbols.Variable{Name: simpleName(d.Name), Type: t, Index: c.Session.nextGlobalIndex()}
		class.AddStatic(v)
		c.Session.queueVariable(v, d, classScope)

	case *ast.FunctionDeclaration:
		c.declareMethod(class, classScope, d, access)

	case *ast.ConstructorDeclaration:
		params := []types.Type{thisParam(class, false)}
		for _, p := range d.Parameters {
			params = append(params, c.resolveTypeOrReport(p.Type, classScope))
		}
		fn := symbols.NewFunction(class.Name, types.Prototype{Return: types.FromPrimitive(types.Void), Params: params})
		fn.Flags.Explicit = d.Explicit
		fn.Flags.Deleted = d.Deleted
		fn.Flags.Defaulted = d.Defaulted
		fn.Access = access
		class.AddConstructor(fn)
		c.compileDefaultArguments(fn, d.Parameters, 1, classScope)
		if d.Body != nil || len(d.MemberInits) > 0 {
			c.Session.queueFunctionBody(fn, d, classScope)
		}

	case *ast.DestructorDeclaration:
		fn := symbols.NewFunction("~"+class.Name, types.Prototype{
			Return: types.FromPrimitive(types.Void),
			Params: []types.Type{thisParam(class, false)},
		})
		fn.Flags.Virtual = d.Virtual
		fn.Flags.Deleted = d.Deleted
		fn.Flags.Defaulted = d.Defaulted
		fn.Access = access
		class.SetDestructor(fn)
		if d.Body != nil {
			c.Session.queueFunctionBody(fn, d, classScope)
		}

	case *ast.OperatorOverloadDeclaration:
		ret := c.resolveTypeOrReport(d.ReturnType, classScope)
		params := []types.Type{thisParam(class, d.Flags.Const)}
		for _, p := range d.Parameters {
			params = append(params, c.resolveTypeOrReport(p.Type, classScope))
		}
		fn := symbols.NewFunction("operator"+d.Operator, types.Prototype{Return: ret, Params: params})
		fn.Flags.Const = d.Flags.Const
		fn.Flags.Virtual = d.Flags.Virtual
		fn.Flags.Deleted = d.Flags.Deleted
		fn.Flags.Defaulted = d.Flags.Defaulted
		fn.Access = access
		class.AddMethod(fn)
		c.compileDefaultArguments(fn, d.Parameters, 1, classScope)
		if d.Body != nil {
			c.Session.queueFunctionBody(fn, d, classScope)
		}

	case *ast.ConversionOperatorDeclaration:
		target := c.resolveTypeOrReport(d.TargetType, classScope)
		fn := symbols.NewFunction("operator "+c.Session.Types.TypeName(target), types.Prototype{
			Return: target,
			Params: []types.Type{thisParam(class, d.Const)},
		})
		fn.Flags.Const = d.Const
		fn.Flags.Explicit = d.Explicit
		fn.Access = access
		class.AddCast(fn)
		if d.Body != nil {
			c.Session.queueFunctionBody(fn, d, classScope)
		}

	case *ast.LiteralOperatorDeclaration:
		c.Session.report(InvalidLValue, d.Span(), "a literal operator must be declared at namespace scope")

	case *ast.ClassDeclaration:
		name := simpleName(d.Name)
		nested := symbols.NewClass(name, class)
		nested.Final = d.Final
		nested.SelfType = c.Session.Types.RegisterClass(nested)
		class.AddNested(nested)
		c.Session.queueClassBody(nested, d, classScope)

	case *ast.EnumDeclaration:
		name := simpleName(d.Name)
		enum := symbols.NewEnum(name, class, d.IsEnumClass)
		enum.SelfType = c.Session.Types.RegisterEnum(enum)
		for _, e := range d.Enumerators {
			value := enum.NextValue()
			if e.Value != nil {
				if v, err := c.EvalConstInt(e.Value, classScope); err == nil {
					value = v
				}
			}
			enum.AddEnumerator(simpleName(e.Name), value)
		}
		class.AddNested(enum)

	case *ast.TypedefDeclaration:
		t := c.resolveTypeOrReport(d.Type, classScope)
		return classScope.Push(symbols.InjectionFrame(&symbols.Injection{
			Kind: symbols.TypeAliasInjection, AliasName: simpleName(d.Name), AliasType: t,
		}))

	case *ast.UsingTypeAlias:
		t := c.resolveTypeOrReport(d.Type, classScope)
		return classScope.Push(symbols.InjectionFrame(&symbols.Injection{
			Kind: symbols.TypeAliasInjection, AliasName: simpleName(d.Name), AliasType: t,
		}))

	case *ast.FriendDeclaration:
		switch target := d.Target.(type) {
		case *ast.ClassDeclaration:
			class.AddFriend(simpleName(target.Name))
		case *ast.FunctionDeclaration:
			class.AddFriend(simpleName(target.Name))
		}

	case *ast.TemplateDeclaration:
		params, ok := c.resolveTemplateParameters(d.Parameters, classScope)
		if !ok {
			return classScope
		}
		switch inner := d.Declaration.(type) {
		case *ast.ClassDeclaration:
			tmpl := symbols.NewTemplate(simpleName(inner.Name), symbols.ClassTemplateKind)
			tmpl.Parameters = params
			tmpl.Definition = inner
			tmpl.Parent = class
			class.AddNested(tmpl)
		case *ast.FunctionDeclaration:
			tmpl := symbols.NewTemplate(simpleName(inner.Name), symbols.FunctionTemplateKind)
			tmpl.Parameters = params
			tmpl.Definition = inner
			tmpl.Parent = class
			class.AddNested(tmpl)
		}
	}
	return classScope
}

// declareMethod registers an ordinary member function shell and queues its
// body, enforcing the Function flag invariants.
func (c *Compiler) declareMethod(class *symbols.Class, classScope *symbols.Scope, d *ast.FunctionDeclaration, access symbols.Access) {
	if d.Flags.Static && (d.Flags.Virtual || d.Flags.PureVirtual || d.Flags.Const) {
		c.Session.report(InvalidLValue, d.Span(), "a static member function cannot be 'virtual' or 'const'")
	}
	if d.Flags.Explicit {
		c.Session.report(InvalidLValue, d.Span(), "'explicit' is only valid on a constructor")
	}

	ret := c.resolveTypeOrReport(d.ReturnType, classScope)
	var params []types.Type
	if !d.Flags.Static {
		params = append(params, thisParam(class, d.Flags.Const))
	}
	for _, p := range d.Parameters {
		params = append(params, c.resolveTypeOrReport(p.Type, classScope))
	}

	fn := symbols.NewFunction(functionDisplayName(d.Name), types.Prototype{Return: ret, Params: params})
	fn.Flags = symbols.FunctionFlags{
		Static:      d.Flags.Static,
		Const:       d.Flags.Const,
		Virtual:     d.Flags.Virtual || d.Flags.PureVirtual,
		PureVirtual: d.Flags.PureVirtual,
		Deleted:     d.Flags.Deleted,
		Defaulted:   d.Flags.Defaulted,
	}
	fn.Access = access

	for _, existing := range class.MethodsNamed(fn.Name) {
		if symbols.SignatureEquals(existing.Prototype, fn.Prototype) {
			c.Session.report(DuplicateSymbol, d.Span(), "redefinition of member %q with the same signature", fn.Name)
			return
		}
	}
	class.AddMethod(fn)

	thisOffset := 0
	if !d.Flags.Static {
		thisOffset = 1
	}
	c.compileDefaultArguments(fn, d.Parameters, thisOffset, classScope)
	if d.Body != nil {
		c.Session.queueFunctionBody(fn, d, classScope)
	}
}

// generateSpecialMembers emits the defaulted destructor, copy
// constructor, and copy-assignment operator a class is still missing,
// when every base and data member supports the operation; a class for
// which generation is impossible simply does not receive the member, and
// the failure surfaces at any use site.
func (c *Compiler) generateSpecialMembers(class *symbols.Class, classScope *symbols.Scope) {
	if class.Destructor == nil {
		dtor := symbols.NewFunction("~"+class.Name, types.Prototype{
			Return: types.FromPrimitive(types.Void),
			Params: []types.Type{thisParam(class, false)},
		})
		dtor.Flags.Defaulted = true
		if class.Base != nil && class.Base.Destructor != nil {
			dtor.Flags.Virtual = class.Base.Destructor.Flags.Virtual
		}
		class.SetDestructor(dtor)
	}

	if len(class.Constructors) == 0 {
		defaultCtor := symbols.NewFunction(class.Name, types.Prototype{
			Return: types.FromPrimitive(types.Void),
			Params: []types.Type{thisParam(class, false)},
		})
		defaultCtor.Flags.Defaulted = true
		class.AddConstructor(defaultCtor)
	}

	if c.classCopyable(class) {
		constRef := class.SelfType.WithConst(true).WithReference(true)
		hasCopyCtor := false
		for _, ctor := range class.Constructors {
			if len(ctor.Prototype.Params) == 2 && types.Equal(ctor.Prototype.Params[1].Decayed(), class.SelfType) {
				hasCopyCtor = true
				break
			}
		}
		if !hasCopyCtor {
			copyCtor := symbols.NewFunction(class.Name, types.Prototype{
				Return: types.FromPrimitive(types.Void),
				Params: []types.Type{thisParam(class, false), constRef},
			})
			copyCtor.Flags.Defaulted = true
			class.AddConstructor(copyCtor)
		}

		if len(class.MethodsNamed("operator=")) == 0 && c.classAssignable(class) {
			assign := symbols.NewFunction("operator=", types.Prototype{
				Return: class.SelfType.WithReference(true),
				Params: []types.Type{thisParam(class, false), constRef},
			})
			assign.Flags.Defaulted = true
			class.AddMethod(assign)
		}
	}
}

// classCopyable approximates "every parent and data member has a usable
// copy": a class-typed member or base must itself carry a non-deleted
// copy constructor (or no declared constructors at all).
func (c *Compiler) classCopyable(class *symbols.Class) bool {
	var parts []*symbols.Class
	if class.Base != nil {
		if !c.classCopyable(class.Base) {
			return false
		}
		parts = append(parts, class.Base)
	}
	for _, m := range class.DataMembers {
		if member, ok := c.Session.Types.ClassPayload(m.Type.Decayed()).(*symbols.Class); ok {
			parts = append(parts, member)
		}
	}
	for _, member := range parts {
		if len(member.Constructors) == 0 {
			continue
		}
		usable := false
		for _, ctor := range member.Constructors {
			if ctor.Flags.Deleted {
				continue
			}
			if len(ctor.Prototype.Params) == 2 && types.Equal(ctor.Prototype.Params[1].Decayed(), member.SelfType) {
				usable = true
				break
			}
		}
		if !usable {
			return false
		}
	}
	return true
}

// classAssignable rejects generation when a data member is a reference —
// the "data member is a reference and cannot be assigned".
func (c *Compiler) classAssignable(class *symbols.Class) bool {
	if class.Base != nil && !c.classAssignable(class.Base) {
		return false
	}
	for _, m := range class.DataMembers {
		if m.Type.IsAnyReference() {
			return false
		}
	}
	return true
}
