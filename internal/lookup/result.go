// Package lookup resolves a (possibly qualified, possibly templated)
// identifier against a symbols.Scope into exactly one NameLookup result
// kind.
package lookup

import (
	"github.com/strandscript/libscript/internal/symbols"
	"github.com/strandscript/libscript/internal/types"
)

// Kind is exactly one of the fixed result kinds.
type Kind int

const (
	Unknown Kind = iota
	FunctionName
	TemplateName
	TypeName
	VariableName
	DataMemberName
	StaticDataMemberName
	GlobalName
	LocalName
	EnumValueName
	NamespaceName
	CaptureName
	TemplateParameterName
)

func (k Kind) String() string {
	switch k {
	case FunctionName:
		return "FunctionName"
	case TemplateName:
		return "TemplateName"
	case TypeName:
		return "TypeName"
	case VariableName:
		return "VariableName"
	case DataMemberName:
		return "DataMemberName"
	case StaticDataMemberName:
		return "StaticDataMemberName"
	case GlobalName:
		return "GlobalName"
	case LocalName:
		return "LocalName"
	case EnumValueName:
		return "EnumValueName"
	case NamespaceName:
		return "NamespaceName"
	case CaptureName:
		return "CaptureName"
	case TemplateParameterName:
		return "TemplateParameterName"
	default:
		return "Unknown"
	}
}

// Result is the tagged union of everything a lookup can produce. Only the
// fields relevant to Kind are populated; callers switch on Kind first.
type Result struct {
	Kind Kind

	Functions []*symbols.Function // FunctionName
	Template  *symbols.Template   // TemplateName

	Type types.Type // TypeName

	Variable   *symbols.Variable // VariableName / GlobalName / StaticDataMemberName
	FromContext bool             // GlobalName sourced from a host context frame

	Class       *symbols.Class // DataMemberName: owning class
	MemberIndex int            // DataMemberName / StaticDataMemberName

	LocalIndex int        // LocalName
	LocalType  types.Type // LocalName

	CaptureIndex int        // CaptureName
	CaptureType  types.Type // CaptureName

	Enum      *symbols.Enum // EnumValueName
	EnumValue int64         // EnumValueName

	Namespace *symbols.Namespace // NamespaceName

	TemplateParamIndex  int  // TemplateParameterName
	TemplateParamIsType bool // TemplateParameterName

	// TemplateArgValue carries a template-argument-frame substitution: for
	// a type parameter this duplicates Type/Kind==TypeName; for a non-type
	// parameter it is the constant value substituted in.
	TemplateArgValue symbols.TemplateArgument
}

// Found reports whether the lookup produced anything.
func (r Result) Found() bool { return r.Kind != Unknown }

// Policy carries the lookup policies.
type Policy struct {
	// IgnoreTemplateArguments treats a `name<...>` identifier as `name`
	// for the purposes of finding templates, used during template
	// selection.
	IgnoreTemplateArguments bool
}
