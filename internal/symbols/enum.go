package symbols

import "github.com/strandscript/libscript/internal/types"

// Enumerator is one enum member: name plus its assigned integer value.
type Enumerator struct {
	Name  string
	Value int64
}

// Enum is an enum symbol: name, ordered enumerators with unique names,
// an `enum class` flag, and the auto-generated assignment operator.
type Enum struct {
	Name           string
	SelfType       types.Type // see Class.SelfType
	Parent         Symbol
	Enumerators    []Enumerator
	IsEnumClass    bool
	AssignOperator *Function
}

func NewEnum(name string, parent Symbol, isEnumClass bool) *Enum {
	return &Enum{Name: name, Parent: parent, IsEnumClass: isEnumClass}
}

func (e *Enum) SymbolName() string   { return e.Name }
func (e *Enum) SymbolParent() Symbol { return e.Parent }
func (e *Enum) TypeName() string     { return e.Name }

// AddEnumerator appends name=value; callers are responsible for the
// auto-increment-from-previous rule.
func (e *Enum) AddEnumerator(name string, value int64) {
	e.Enumerators = append(e.Enumerators, Enumerator{Name: name, Value: value})
}

// ValueOf looks up an enumerator's integer value by name.
func (e *Enum) ValueOf(name string) (int64, bool) {
	for _, en := range e.Enumerators {
		if en.Name == name {
			return en.Value, true
		}
	}
	return 0, false
}

// NextValue returns the value the next auto-assigned enumerator should
// take: one past the last enumerator's value, or 0 for the first.
func (e *Enum) NextValue() int64 {
	if len(e.Enumerators) == 0 {
		return 0
	}
	return e.Enumerators[len(e.Enumerators)-1].Value + 1
}
