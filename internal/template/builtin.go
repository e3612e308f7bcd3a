package template

import (
	"fmt"

	"github.com/strandscript/libscript/internal/symbols"
	"github.com/strandscript/libscript/internal/types"
)

// Built-in native class templates: Array<T> and InitializerList<T>,
// recognized by the engine without a source definition.
//
// Both are native templates (symbols.NativeClassTemplate): the compiler
// front end only needs their member signatures to type-check expressions
// against (subscript, push_back, begin/end, iterator dereference); their
// actual storage and iteration live in the runtime, out of this module's
// scope.

// arrayTemplate backs the built-in Array<T>.
type arrayTemplate struct{}

// RegisterArrayTemplate installs the Array<T> native template under
// global.
func RegisterArrayTemplate(global *symbols.Namespace) *symbols.Template {
	tmpl := symbols.NewTemplate("Array", symbols.ClassTemplateKind)
	tmpl.Parameters = []symbols.TemplateParameter{{Name: "T", IsType: true}}
	tmpl.NativeClass = arrayTemplate{}
	global.AddTemplate(tmpl)
	return tmpl
}

func (arrayTemplate) Build(sys *types.System, class *symbols.Class, args []symbols.TemplateArgument) error {
	elem, err := elementType(args)
	if err != nil {
		return err
	}

	intT := types.FromPrimitive(types.Int)
	voidT := types.FromPrimitive(types.Void)
	elemRef := elem.WithReference(true)
	constElemRef := elem.WithConst(true).WithReference(true)
	thisT := class.SelfType.WithThisParameter(true).WithReference(true)
	constThisT := class.SelfType.WithConst(true).WithThisParameter(true).WithReference(true)

	size := symbols.NewFunction("size", types.Prototype{Return: intT, Params: []types.Type{constThisT}})
	size.Flags.Const = true
	class.AddMethod(size)

	subscript := symbols.NewFunction("operator[]", types.Prototype{Return: elemRef, Params: []types.Type{thisT, intT}})
	class.AddMethod(subscript)

	subscriptConst := symbols.NewFunction("operator[]", types.Prototype{Return: constElemRef, Params: []types.Type{constThisT, intT}})
	subscriptConst.Flags.Const = true
	class.AddMethod(subscriptConst)

	pushBack := symbols.NewFunction("push_back", types.Prototype{Return: voidT, Params: []types.Type{thisT, elem}})
	class.AddMethod(pushBack)

	popBack := symbols.NewFunction("pop_back", types.Prototype{Return: voidT, Params: []types.Type{thisT}})
	class.AddMethod(popBack)

	assign := symbols.NewFunction("operator=", types.Prototype{
		Return: class.SelfType.WithReference(true),
		Params: []types.Type{thisT, class.SelfType.WithConst(true).WithReference(true)},
	})
	assign.Flags.Defaulted = true
	class.AddMethod(assign)

	_ = sys
	return nil
}

// initializerListTemplate backs the built-in InitializerList<T>: an
// immutable, iterable view produced by brace-init-list expressions,
// with a nested iterator class
// exposing the minimal `*`/`++`/`!=` protocol range-based consumption
// needs.
type initializerListTemplate struct{}

func RegisterInitializerListTemplate(global *symbols.Namespace) *symbols.Template {
	tmpl := symbols.NewTemplate("InitializerList", symbols.ClassTemplateKind)
	tmpl.Parameters = []symbols.TemplateParameter{{Name: "T", IsType: true}}
	tmpl.NativeClass = initializerListTemplate{}
	global.AddTemplate(tmpl)
	return tmpl
}

func (initializerListTemplate) Build(sys *types.System, class *symbols.Class, args []symbols.TemplateArgument) error {
	elem, err := elementType(args)
	if err != nil {
		return err
	}

	intT := types.FromPrimitive(types.Int)
	boolT := types.FromPrimitive(types.Bool)
	constElemRef := elem.WithConst(true).WithReference(true)
	constThisT := class.SelfType.WithConst(true).WithThisParameter(true).WithReference(true)

	iterator := symbols.NewClass("iterator", class)
	iterator.SelfType = sys.RegisterClass(iterator)
	constIterThis := iterator.SelfType.WithConst(true).WithThisParameter(true).WithReference(true)
	iterThis := iterator.SelfType.WithThisParameter(true).WithReference(true)

	deref := symbols.NewFunction("operator*", types.Prototype{Return: constElemRef, Params: []types.Type{constIterThis}})
	deref.Flags.Const = true
	iterator.AddMethod(deref)

	incr := symbols.NewFunction("operator++", types.Prototype{Return: iterator.SelfType.WithReference(true), Params: []types.Type{iterThis}})
	iterator.AddMethod(incr)

	neq := symbols.NewFunction("operator!=", types.Prototype{
		Return: boolT,
		Params: []types.Type{constIterThis, iterator.SelfType.WithConst(true).WithReference(true)},
	})
	neq.Flags.Const = true
	iterator.AddMethod(neq)

	class.AddNested(iterator)

	size := symbols.NewFunction("size", types.Prototype{Return: intT, Params: []types.Type{constThisT}})
	size.Flags.Const = true
	class.AddMethod(size)

	begin := symbols.NewFunction("begin", types.Prototype{Return: iterator.SelfType, Params: []types.Type{constThisT}})
	begin.Flags.Const = true
	class.AddMethod(begin)

	end := symbols.NewFunction("end", types.Prototype{Return: iterator.SelfType, Params: []types.Type{constThisT}})
	end.Flags.Const = true
	class.AddMethod(end)

	return nil
}

func elementType(args []symbols.TemplateArgument) (types.Type, error) {
	if len(args) != 1 || args[0].Kind != symbols.ArgType {
		return types.Type{}, fmt.Errorf("expects exactly one type argument")
	}
	return args[0].Type, nil
}
