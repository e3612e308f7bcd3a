package symbols

import (
	"strconv"
	"strings"

	"github.com/strandscript/libscript/internal/types"
)

// TemplateArgumentKind discriminates TemplateArgument's sum
// argument: a type, an integer, a bool, or a pack of arguments.
type TemplateArgumentKind int

const (
	ArgType TemplateArgumentKind = iota
	ArgInteger
	ArgBool
	ArgPack
)

// TemplateArgument is one deduced or explicitly-supplied template
// argument.
type TemplateArgument struct {
	Kind    TemplateArgumentKind
	Type    types.Type
	Integer int64
	Bool    bool
	Pack    []TemplateArgument
}

func TypeArgument(t types.Type) TemplateArgument { return TemplateArgument{Kind: ArgType, Type: t} }
func IntArgument(v int64) TemplateArgument        { return TemplateArgument{Kind: ArgInteger, Integer: v} }
func BoolArgument(v bool) TemplateArgument         { return TemplateArgument{Kind: ArgBool, Bool: v} }
func PackArgument(args []TemplateArgument) TemplateArgument {
	return TemplateArgument{Kind: ArgPack, Pack: args}
}

// Equal compares two arguments for the purposes of instance-map keying and
// deduction agreement.
func (a TemplateArgument) Equal(b TemplateArgument) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ArgType:
		return types.Equal(a.Type, b.Type)
	case ArgInteger:
		return a.Integer == b.Integer
	case ArgBool:
		return a.Bool == b.Bool
	case ArgPack:
		if len(a.Pack) != len(b.Pack) {
			return false
		}
		for i := range a.Pack {
			if !a.Pack[i].Equal(b.Pack[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// rank implements the ordering "bool < integer < type" (packs
// sort after all three, arbitrarily but consistently).
func (k TemplateArgumentKind) rank() int {
	switch k {
	case ArgBool:
		return 0
	case ArgInteger:
		return 1
	case ArgType:
		return 2
	default:
		return 3
	}
}

// CompareTemplateArgument is a total order: by kind rank, then by
// value/id within a kind.
func CompareTemplateArgument(a, b TemplateArgument) int {
	if ra, rb := a.Kind.rank(), b.Kind.rank(); ra != rb {
		return ra - rb
	}
	switch a.Kind {
	case ArgBool:
		if a.Bool == b.Bool {
			return 0
		}
		if !a.Bool {
			return -1
		}
		return 1
	case ArgInteger:
		switch {
		case a.Integer < b.Integer:
			return -1
		case a.Integer > b.Integer:
			return 1
		default:
			return 0
		}
	case ArgType:
		return types.Compare(a.Type, b.Type)
	default:
		for i := 0; i < len(a.Pack) && i < len(b.Pack); i++ {
			if c := CompareTemplateArgument(a.Pack[i], b.Pack[i]); c != 0 {
				return c
			}
		}
		return len(a.Pack) - len(b.Pack)
	}
}

// Key renders a canonical string for a, used to build the instance-map
// key for a whole argument vector (CanonicalArgsKey).
func (a TemplateArgument) Key(sys *types.System) string {
	switch a.Kind {
	case ArgType:
		return "T:" + sys.TypeName(a.Type)
	case ArgInteger:
		return "I:" + strconv.FormatInt(a.Integer, 10)
	case ArgBool:
		return "B:" + strconv.FormatBool(a.Bool)
	default:
		parts := make([]string, len(a.Pack))
		for i, p := range a.Pack {
			parts[i] = p.Key(sys)
		}
		return "P:[" + strings.Join(parts, ",") + "]"
	}
}

// CanonicalArgsKey canonicalizes a whole argument vector into the string
// key Template.Instances is keyed by.
func CanonicalArgsKey(sys *types.System, args []TemplateArgument) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Key(sys)
	}
	return strings.Join(parts, "|")
}
