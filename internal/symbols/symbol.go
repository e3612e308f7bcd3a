// Package symbols is the symbol tree and scope machinery:
// namespaces, classes, enums, functions and templates, each carrying a
// back-pointer to its enclosing symbol, plus the scope-frame chain that
// name lookup (internal/lookup) walks.
package symbols

// Access is a class member's visibility, mirroring ast.AccessSpecifier at
// the symbol-table level.
type Access int

const (
	Public Access = iota
	Protected
	Private
)

func (a Access) String() string {
	switch a {
	case Public:
		return "public"
	case Protected:
		return "protected"
	default:
		return "private"
	}
}

// Symbol is the symbol sum: every namespace, class, enum,
// function and template symbol implements it.
type Symbol interface {
	SymbolName() string
	SymbolParent() Symbol
}
