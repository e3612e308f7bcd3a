package compiler

import (
	"github.com/strandscript/libscript/internal/ast"
	"github.com/strandscript/libscript/internal/lookup"
	"github.com/strandscript/libscript/internal/symbols"
	"github.com/strandscript/libscript/internal/types"
)

// ResolveType implements internal/template.Resolver: it is the same
// type-id resolution an ordinary variable declaration's type-id goes
// through, exposed so on-demand template instantiation can resolve a
// template argument's type without this package importing back into
// internal/template.
func (c *Compiler) ResolveType(node ast.Node, scope *symbols.Scope) (types.Type, error) {
	switch n := node.(type) {
	case *ast.NamedType:
		return c.resolveNamedType(n, scope)
	case *ast.AutoType:
		return types.FromPrimitive(types.Auto).WithConst(n.Const).WithReference(n.Ref == ast.LValueRef).
			WithForwardingReference(n.Ref == ast.RValueRef), nil
	case *ast.FunctionType:
		return c.resolveFunctionType(n, scope)
	default:
		return types.Type{}, c.Session.report(CannotResolveAutoType, node.Span(), "expected a type-id, got %T", node)
	}
}

func (c *Compiler) resolveNamedType(n *ast.NamedType, scope *symbols.Scope) (types.Type, error) {
	res, err := lookup.Resolve(scope, c.Session.Types, c.Engine, n.Name, lookup.Policy{})
	if err != nil {
		return types.Type{}, err
	}
	var base types.Type
	switch res.Kind {
	case lookup.TypeName:
		base = res.Type
	case lookup.TemplateParameterName:
		if res.TemplateArgValue.Kind == symbols.ArgType {
			base = res.TemplateArgValue.Type
		} else {
			return types.Type{}, c.Session.report(UnknownIdentifier, n.Span(), "%q does not name a type", n.Name.String())
		}
	default:
		return types.Type{}, c.Session.report(UnknownIdentifier, n.Span(), "%q does not name a type", n.Name.String())
	}
	base = base.WithConst(n.Const || base.IsConst())
	switch n.Ref {
	case ast.LValueRef:
		base = base.WithReference(true)
	case ast.RValueRef:
		base = base.WithForwardingReference(true)
	}
	return base, nil
}

func (c *Compiler) resolveFunctionType(n *ast.FunctionType, scope *symbols.Scope) (types.Type, error) {
	ret, err := c.ResolveType(n.ReturnType, scope)
	if err != nil {
		return types.Type{}, err
	}
	params := make([]types.Type, len(n.Parameters))
	for i, p := range n.Parameters {
		pt, err := c.ResolveType(p, scope)
		if err != nil {
			return types.Type{}, err
		}
		params[i] = pt
	}
	t := c.Session.Types.GetFunctionType(types.Prototype{Return: ret, Params: params})
	t = t.WithConst(n.Const)
	switch n.Ref {
	case ast.LValueRef:
		t = t.WithReference(true)
	case ast.RValueRef:
		t = t.WithForwardingReference(true)
	}
	return t, nil
}

// resolveTypeOrReport is a convenience used throughout declaration/
// expression lowering: resolve node's type, recording a diagnostic and
// returning the void type on failure so callers can keep walking the
// rest of a declaration instead of aborting the whole pass.
func (c *Compiler) resolveTypeOrReport(node ast.TypeNode, scope *symbols.Scope) types.Type {
	t, err := c.ResolveType(node, scope)
	if err != nil {
		if _, ok := err.(*Error); !ok {
			c.Session.report(UnknownIdentifier, node.Span(), "%s", err)
		}
		return types.FromPrimitive(types.Void)
	}
	return t
}
