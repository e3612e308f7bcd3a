package template

import (
	"fmt"
	"strings"

	"github.com/strandscript/libscript/internal/ast"
	"github.com/strandscript/libscript/internal/symbols"
	"github.com/strandscript/libscript/internal/types"
)

// Resolver is the seam internal/compiler implements so this package can
// ask for genuine type resolution and body compilation without importing
// internal/compiler back (compiler depends on template, not vice versa).
type Resolver interface {
	// ResolveType turns a type-id AST node into a concrete types.Type in
	// scope, the same resolution the compiler performs for an ordinary
	// variable declaration's type-id.
	ResolveType(node ast.Node, scope *symbols.Scope) (types.Type, error)

	// EvalConstInt evaluates a constant-expression non-type template
	// argument to an integer.
	EvalConstInt(node ast.Node, scope *symbols.Scope) (int64, error)

	// EvalConstBool evaluates a constant-expression non-type template
	// argument to a bool.
	EvalConstBool(node ast.Node, scope *symbols.Scope) (bool, error)

	// CompileFunctionBody compiles def's body for the already-shelled
	// function fn, in scope (the instantiation's template-argument frame
	// pushed over the template's declaring scope).
	CompileFunctionBody(fn *symbols.Function, def ast.Node, scope *symbols.Scope) error

	// CompileClassBody compiles def's member declarations into the
	// already-shelled class, in scope.
	CompileClassBody(class *symbols.Class, def ast.Node, scope *symbols.Scope) error
}

// Engine instantiates function and class templates, implementing
// internal/lookup.Instantiator so name lookup can trigger instantiation
// on demand for a `name<args>` identifier.
type Engine struct {
	Types    *types.System
	Global   *symbols.Namespace
	Resolver Resolver
}

func NewEngine(sys *types.System, global *symbols.Namespace, resolver Resolver) *Engine {
	return &Engine{Types: sys, Global: global, Resolver: resolver}
}

func (e *Engine) templateProbeScope() *symbols.Scope {
	return symbols.NewScope(symbols.NamespaceFrame(e.Global))
}

// canonicalizeArgs resolves a mixed type/expression argument node list
// against tmpl.Parameters, applying defaults for any trailing omitted
// parameters and expanding a trailing pack parameter over the remaining
// argument nodes.
func (e *Engine) canonicalizeArgs(tmpl *symbols.Template, argNodes []ast.Node, scope *symbols.Scope) ([]symbols.TemplateArgument, error) {
	var out []symbols.TemplateArgument
	ai := 0
	for pi, p := range tmpl.Parameters {
		if p.Pack {
			var pack []symbols.TemplateArgument
			for ; ai < len(argNodes); ai++ {
				arg, err := e.resolveArgNode(p, argNodes[ai], scope)
				if err != nil {
					return nil, err
				}
				pack = append(pack, arg)
			}
			out = append(out, symbols.PackArgument(pack))
			continue
		}
		if ai >= len(argNodes) {
			if p.Default == nil {
				return nil, fmt.Errorf("template %s: missing argument for parameter %q", tmpl.Name, p.Name)
			}
			arg, err := e.resolveArgNode(p, p.Default, scope)
			if err != nil {
				return nil, err
			}
			out = append(out, arg)
			continue
		}
		arg, err := e.resolveArgNode(p, argNodes[ai], scope)
		if err != nil {
			return nil, err
		}
		out = append(out, arg)
		ai++
		_ = pi
	}
	if ai < len(argNodes) {
		return nil, fmt.Errorf("template %s: too many arguments", tmpl.Name)
	}
	return out, nil
}

// CanonicalizeArguments resolves an explicit argument node list against
// tmpl's parameters into the canonical vector instance tables are keyed by,
// without instantiating anything — the path declaration processing uses to
// key a full specialization before its body is compiled.
func (e *Engine) CanonicalizeArguments(tmpl *symbols.Template, argNodes []ast.Node, scope *symbols.Scope) ([]symbols.TemplateArgument, error) {
	return e.canonicalizeArgs(tmpl, argNodes, scope)
}

func (e *Engine) resolveArgNode(p symbols.TemplateParameter, node ast.Node, scope *symbols.Scope) (symbols.TemplateArgument, error) {
	if p.IsType {
		typeNode, ok := node.(ast.TypeNode)
		if !ok {
			return symbols.TemplateArgument{}, fmt.Errorf("template parameter %q expects a type argument", p.Name)
		}
		t, err := e.Resolver.ResolveType(typeNode, scope)
		if err != nil {
			return symbols.TemplateArgument{}, err
		}
		return symbols.TypeArgument(t), nil
	}
	if p.NonTypeType.IsPrimitive(types.Bool) {
		v, err := e.Resolver.EvalConstBool(node, scope)
		if err != nil {
			return symbols.TemplateArgument{}, err
		}
		return symbols.BoolArgument(v), nil
	}
	v, err := e.Resolver.EvalConstInt(node, scope)
	if err != nil {
		return symbols.TemplateArgument{}, err
	}
	return symbols.IntArgument(v), nil
}

// buildArgFrame maps each (non-pack) parameter name to its argument for a
// TemplateArgumentFrame; pack parameters are recorded under their own name
// too, carrying the whole ArgPack, so a lookup of the pack's name resolves
// via the TemplateParameterName/TemplateArgValue path.
func buildArgFrame(params []symbols.TemplateParameter, args []symbols.TemplateArgument) map[string]symbols.TemplateArgument {
	m := make(map[string]symbols.TemplateArgument, len(params))
	for i, p := range params {
		if i < len(args) {
			m[p.Name] = args[i]
		}
	}
	return m
}

func instanceName(base string, args []symbols.TemplateArgument, sys *types.System) string {
	parts := make([]string, len(args))
	for i, a := range args {
		switch a.Kind {
		case symbols.ArgType:
			parts[i] = sys.TypeName(a.Type)
		case symbols.ArgInteger:
			parts[i] = fmt.Sprint(a.Integer)
		case symbols.ArgBool:
			parts[i] = fmt.Sprint(a.Bool)
		default:
			parts[i] = "..."
		}
	}
	return base + "<" + strings.Join(parts, ", ") + ">"
}

// selectClassSpecialization picks the single partial specialization whose
// pattern matches args: deduction runs against each candidate pattern,
// and more than one surviving match is ambiguous. Returns nil, nil for "use the primary
// template" when no specialization matches.
func (e *Engine) selectClassSpecialization(tmpl *symbols.Template, args []symbols.TemplateArgument) (*symbols.PartialSpecialization, error) {
	var matches []*symbols.PartialSpecialization
	for _, spec := range tmpl.PartialSpecializations {
		if matchesPattern(spec.Pattern, spec.Parameters, args, e.Types) {
			matches = append(matches, spec)
		}
	}
	if len(matches) == 0 {
		return nil, nil
	}
	if len(matches) == 1 {
		return matches[0], nil
	}
	return nil, fmt.Errorf("template %s: ambiguous partial specialization for %s", tmpl.Name, instanceName(tmpl.Name, args, e.Types))
}

// matchesPattern deduces spec's own parameters from args against pattern,
// succeeding only if every one of spec's parameters gets bound.
func matchesPattern(pattern []ast.Node, specParams []symbols.TemplateParameter, args []symbols.TemplateArgument, sys *types.System) bool {
	if len(pattern) != len(args) {
		return false
	}
	names := paramNames(specParams)
	d := newDeduction()
	for i, node := range pattern {
		if !deduceArgNode(node, args[i], names, d, sys) {
			return false
		}
	}
	return len(d.values) == len(specParams)
}

// InstantiateClassTemplate implements internal/lookup.Instantiator.
func (e *Engine) InstantiateClassTemplate(tmpl *symbols.Template, argNodes []ast.Node, scope *symbols.Scope) (*symbols.Class, error) {
	args, err := e.canonicalizeArgs(tmpl, argNodes, scope)
	if err != nil {
		return nil, err
	}
	return e.instantiateClassWithArgs(tmpl, args, scope)
}

// InstantiateClassTemplateWithArgs instantiates tmpl with an already-
// canonicalized argument vector, the path expression lowering uses for the
// two built-in containers (Array<T>, InitializerList<T>) where the element
// type is already a resolved types.Type rather than an AST node.
func (e *Engine) InstantiateClassTemplateWithArgs(tmpl *symbols.Template, args []symbols.TemplateArgument, scope *symbols.Scope) (*symbols.Class, error) {
	return e.instantiateClassWithArgs(tmpl, args, scope)
}

func (e *Engine) instantiateClassWithArgs(tmpl *symbols.Template, args []symbols.TemplateArgument, scope *symbols.Scope) (*symbols.Class, error) {
	key := symbols.CanonicalArgsKey(e.Types, args)
	if existing, ok := tmpl.GetInstance(key); ok {
		return existing.(*symbols.Class), nil
	}

	class := symbols.NewClass(instanceName(tmpl.Name, args, e.Types), tmpl.Parent)
	class.Instance = &symbols.TemplateInstanceInfo{Origin: tmpl, Arguments: args}
	// Register before building members: member signatures reference the
	// class's own SelfType (e.g. operator= 's parameter), and a template
	// that mentions its own instantiation (a recursive container) needs
	// both the registry entry and the instance-cache entry to already
	// exist to terminate.
	class.SelfType = e.Types.RegisterClass(class)
	tmpl.SetInstance(key, args, class)

	argFrame := buildArgFrame(tmpl.Parameters, args)
	instScope := symbols.NewScope(symbols.NamespaceFrame(e.Global)).
		Push(symbols.TemplateArgumentFrame(argFrame))

	var buildErr error
	switch {
	case tmpl.NativeClass != nil:
		buildErr = tmpl.NativeClass.Build(e.Types, class, args)
	default:
		spec, selErr := e.selectClassSpecialization(tmpl, args)
		if selErr != nil {
			buildErr = selErr
			break
		}
		def := tmpl.Definition
		if spec != nil {
			def = spec.Definition
		}
		if def == nil {
			buildErr = fmt.Errorf("template %s has no definition to instantiate", tmpl.Name)
			break
		}
		buildErr = e.Resolver.CompileClassBody(class, def, instScope)
	}
	if buildErr != nil {
		tmpl.RemoveInstance(key)
		return nil, buildErr
	}

	symbols.BuildVTable(class)
	return class, nil
}

// InstantiateFunctionTemplate implements internal/lookup.Instantiator,
// resolving explicit argNodes against tmpl's parameters; callers that
// already hold deduced arguments use InstantiateFunctionTemplateWithArgs.
func (e *Engine) InstantiateFunctionTemplate(tmpl *symbols.Template, argNodes []ast.Node, scope *symbols.Scope) (*symbols.Function, error) {
	args, err := e.canonicalizeArgs(tmpl, argNodes, scope)
	if err != nil {
		return nil, err
	}
	return e.instantiateFunctionWithArgs(tmpl, args, scope)
}

// InstantiateFunctionTemplateWithArgs instantiates tmpl with an already-
// deduced argument vector, the path overload resolution uses after a
// successful DeduceFunctionArguments call.
func (e *Engine) InstantiateFunctionTemplateWithArgs(tmpl *symbols.Template, args []symbols.TemplateArgument, scope *symbols.Scope) (*symbols.Function, error) {
	return e.instantiateFunctionWithArgs(tmpl, args, scope)
}

func (e *Engine) instantiateFunctionWithArgs(tmpl *symbols.Template, args []symbols.TemplateArgument, scope *symbols.Scope) (*symbols.Function, error) {
	key := symbols.CanonicalArgsKey(e.Types, args)
	if existing, ok := tmpl.GetInstance(key); ok {
		return existing.(*symbols.Function), nil
	}

	argFrame := buildArgFrame(tmpl.Parameters, args)
	instScope := scope.Push(symbols.TemplateArgumentFrame(argFrame))

	var fn *symbols.Function
	var buildErr error
	switch {
	case tmpl.NativeFunction != nil:
		proto := tmpl.NativeFunction.Substitute(args)
		fn = symbols.NewFunction(tmpl.Name, proto)
		fn.Parent = tmpl.Parent
		fn.TemplateOrigin = &symbols.TemplateInstanceInfo{Origin: tmpl, Arguments: args}
		tmpl.SetInstance(key, args, fn)
		buildErr = tmpl.NativeFunction.Instantiate(fn, args)
	default:
		def, ok := tmpl.Definition.(*ast.FunctionDeclaration)
		if !ok {
			return nil, fmt.Errorf("template %s has no function definition", tmpl.Name)
		}
		proto, perr := e.resolveFunctionPrototype(def, instScope)
		if perr != nil {
			return nil, perr
		}
		fn = symbols.NewFunction(tmpl.Name, proto)
		fn.Parent = tmpl.Parent
		fn.TemplateOrigin = &symbols.TemplateInstanceInfo{Origin: tmpl, Arguments: args}
		tmpl.SetInstance(key, args, fn)
		buildErr = e.Resolver.CompileFunctionBody(fn, def, instScope)
	}
	if buildErr != nil {
		tmpl.RemoveInstance(key)
		return nil, buildErr
	}
	return fn, nil
}

func (e *Engine) resolveFunctionPrototype(def *ast.FunctionDeclaration, scope *symbols.Scope) (types.Prototype, error) {
	ret, err := e.Resolver.ResolveType(def.ReturnType, scope)
	if err != nil {
		return types.Prototype{}, err
	}
	params := make([]types.Type, len(def.Parameters))
	for i, p := range def.Parameters {
		t, err := e.Resolver.ResolveType(p.Type, scope)
		if err != nil {
			return types.Prototype{}, err
		}
		params[i] = t
	}
	return types.Prototype{Return: ret, Params: params}, nil
}
