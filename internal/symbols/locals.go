package symbols

import "github.com/strandscript/libscript/internal/types"

// LocalEntry is one declared local variable's binding: its name, type and
// stack-slot index.
type LocalEntry struct {
	Name  string
	Type  types.Type
	Index int
}

// LocalStack is a function frame's local-variable stack: shadowing by
// innermost binding, with Mark/PopTo giving block scopes a
// cheap way to push and pop a run of declarations without losing the
// monotonically-increasing slot indices IR emission needs.
type LocalStack struct {
	entries   []LocalEntry
	nextIndex int
}

// Declare adds a new local binding, shadowing any existing one with the
// same name, and returns its slot index.
func (l *LocalStack) Declare(name string, t types.Type) int {
	idx := l.nextIndex
	l.nextIndex++
	l.entries = append(l.entries, LocalEntry{Name: name, Type: t, Index: idx})
	return idx
}

// Lookup scans innermost-first for name.
func (l *LocalStack) Lookup(name string) (LocalEntry, bool) {
	for i := len(l.entries) - 1; i >= 0; i-- {
		if l.entries[i].Name == name {
			return l.entries[i], true
		}
	}
	return LocalEntry{}, false
}

// Mark returns a position in the declaration history a nested block can
// later PopTo when it exits.
func (l *LocalStack) Mark() int { return len(l.entries) }

// PopTo discards every declaration made since mark, without rewinding
// nextIndex — slot indices are never reused within one function, so the
// emitted body's layout stays stable.
func (l *LocalStack) PopTo(mark int) {
	l.entries = l.entries[:mark]
}

// Count returns the number of local slots a function body will need.
func (l *LocalStack) Count() int { return l.nextIndex }

// SinceMark returns the entries declared after mark, in declaration
// order — used to emit destructor calls in reverse when a block exits.
func (l *LocalStack) SinceMark(mark int) []LocalEntry {
	return l.entries[mark:]
}
