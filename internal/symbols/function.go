package symbols

import (
	"github.com/strandscript/libscript/internal/ir"
	"github.com/strandscript/libscript/internal/types"
)

// FunctionFlags are a function's orthogonal modifiers.
type FunctionFlags struct {
	Static      bool
	Const       bool
	Virtual     bool
	PureVirtual bool
	Deleted     bool
	Defaulted   bool
	Explicit    bool
}

// Function is a callable symbol: a name-or-operator-kind, prototype,
// flags, accessibility, trailing default arguments, and a binding to
// either a native host callback or a compiled IR body.
//
// Name holds the display form used for lookup: a plain identifier for
// ordinary functions, "operator<symbol>" for operator overloads (matching
// ast.OperatorName.String()), or "operator \"\" <suffix>" for literal
// operators.
type Function struct {
	Name     string
	Prototype types.Prototype
	Flags    FunctionFlags
	Access   Access
	Parent   Symbol

	// Defaults holds trailing default-argument IR expressions, one per
	// parameter counted from the END of Prototype.Params backward to the
	// first parameter that has one; default arguments may occupy only a
	// suffix of the parameter list, so
	// len(Defaults) == 0 means "no defaults" and otherwise Defaults[i]
	// belongs to parameter index len(Prototype.Params)-len(Defaults)+i.
	Defaults []ir.Expr

	// Native is set for a function bound to a host-registered
	// callback; Body is set for a function
	// compiled from a source AST. Exactly one is non-nil once the
	// function is usable; neither is set while only its signature shell
	// exists.
	Native NativeCallback
	Body   *ir.FunctionBody

	TemplateOrigin *TemplateInstanceInfo
}

// NativeCallback is the host-binding seam: a registry mapping
// host-declared native functions to
// function identities. The compiler never calls it; it only stores the
// reference so the (out-of-scope) interpreter can dispatch through it.
type NativeCallback interface {
	CallableID() string
}

func NewFunction(name string, proto types.Prototype) *Function {
	return &Function{Name: name, Prototype: proto}
}

func (f *Function) SymbolName() string   { return f.Name }
func (f *Function) SymbolParent() Symbol { return f.Parent }

// FuncName and FuncPrototype implement internal/ir.FunctionRef.
func (f *Function) FuncName() string                { return f.Name }
func (f *Function) FuncPrototype() types.Prototype   { return f.Prototype }

// DefaultFor returns the default-argument expression for parameter index
// i, if any.
func (f *Function) DefaultFor(i int) (ir.Expr, bool) {
	n := len(f.Prototype.Params)
	start := n - len(f.Defaults)
	if i < start || i >= n {
		return nil, false
	}
	return f.Defaults[i-start], true
}

// MinArgs is the fewest arguments a call needs to supply (every parameter
// before the first defaulted one).
func (f *Function) MinArgs() int {
	return len(f.Prototype.Params) - len(f.Defaults)
}

// SignatureEquals compares prototypes for the "exact duplicate signature"
// check used when registering overloads.
func SignatureEquals(a, b types.Prototype) bool {
	if len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if !types.Equal(a.Params[i], b.Params[i]) {
			return false
		}
	}
	return true
}
