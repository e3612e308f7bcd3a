package symbols

import "github.com/strandscript/libscript/internal/types"

// FrameKind discriminates the scope-frame kinds.
type FrameKind int

const (
	NamespaceFrameKind FrameKind = iota
	ClassFrameKind
	EnumFrameKind
	FunctionFrameKind
	TemplateParameterFrameKind
	TemplateArgumentFrameKind
	ContextFrameKind
	InjectionFrameKind
)

// ContextBinding is one host-provided runtime variable exposed to a
// command-style compilation.
type ContextBinding struct {
	Name  string
	Type  types.Type
	Index int
}

// CaptureBinding is one lambda capture visible inside the closure's
// operator() body, resolved by lookup into a CaptureName result.
type CaptureBinding struct {
	Name  string
	Type  types.Type
	Index int
}

// InjectionKind discriminates the four injection forms.
type InjectionKind int

const (
	UsingNamespaceInjection InjectionKind = iota
	UsingDeclarationInjection
	TypeAliasInjection
	NamespaceAliasInjection
)

// Injection is one entry introduced by a using-directive, using-
// declaration, type alias, or namespace alias.
type Injection struct {
	Kind InjectionKind

	// UsingNamespaceInjection: the whole namespace made visible.
	Namespace *Namespace

	// UsingDeclarationInjection: DeclNamespace is where DeclQualifiedName
	// is looked up (brings in one overload set/class/enum/variable, bound
	// locally as DeclQualifiedName's simple name).
	DeclNamespace     *Namespace
	DeclQualifiedName string

	// TypeAliasInjection: AliasName bound to AliasType.
	AliasName string
	AliasType types.Type

	// NamespaceAliasInjection: AliasName bound to AliasTarget.
	AliasTarget *Namespace
}

// Frame is a scope-frame tagged union, modeled as a struct with one
// populated field-group per Kind rather than an interface hierarchy, so
// internal/lookup can pattern-match exhaustively.
type Frame struct {
	Kind FrameKind

	Namespace *Namespace // NamespaceFrameKind
	Class     *Class     // ClassFrameKind
	Enum      *Enum      // EnumFrameKind

	Function *Function        // FunctionFrameKind: the function being compiled
	Locals   *LocalStack      // FunctionFrameKind
	Captures []CaptureBinding // FunctionFrameKind: set for a lambda's operator() body

	Template *Template // TemplateParameterFrameKind: supplies Parameters

	TemplateArgs map[string]TemplateArgument // TemplateArgumentFrameKind: deduced/supplied args by parameter name

	Context []ContextBinding // ContextFrameKind

	Injection *Injection // InjectionFrameKind
}

func NamespaceFrame(n *Namespace) *Frame { return &Frame{Kind: NamespaceFrameKind, Namespace: n} }
func ClassFrame(c *Class) *Frame         { return &Frame{Kind: ClassFrameKind, Class: c} }
func EnumFrame(e *Enum) *Frame           { return &Frame{Kind: EnumFrameKind, Enum: e} }

func FunctionFrame(f *Function) *Frame {
	return &Frame{Kind: FunctionFrameKind, Function: f, Locals: &LocalStack{}}
}

func TemplateParameterFrame(t *Template) *Frame {
	return &Frame{Kind: TemplateParameterFrameKind, Template: t}
}

func TemplateArgumentFrame(args map[string]TemplateArgument) *Frame {
	return &Frame{Kind: TemplateArgumentFrameKind, TemplateArgs: args}
}

func ContextFrame(bindings []ContextBinding) *Frame {
	return &Frame{Kind: ContextFrameKind, Context: bindings}
}

func InjectionFrame(inj *Injection) *Frame {
	return &Frame{Kind: InjectionFrameKind, Injection: inj}
}
