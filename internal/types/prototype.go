package types

import "strings"

// Prototype is a function's return type plus ordered parameter types — the
// identity key for interned function types.
type Prototype struct {
	Return Type
	Params []Type
}

// Equal compares two prototypes structurally, per-slot, ignoring the
// this-parameter bit on every slot (matching Type's own Equal rule).
func (p Prototype) Equal(o Prototype) bool {
	if !Equal(p.Return, o.Return) || len(p.Params) != len(o.Params) {
		return false
	}
	for i := range p.Params {
		if !Equal(p.Params[i], o.Params[i]) {
			return false
		}
	}
	return true
}

// key produces a canonical string used to intern prototypes in System.
func (p Prototype) key() string {
	var b strings.Builder
	writeTypeKey(&b, p.Return)
	for _, param := range p.Params {
		b.WriteByte(',')
		writeTypeKey(&b, param)
	}
	return b.String()
}

func writeTypeKey(b *strings.Builder, t Type) {
	b.WriteByte(byte('0' + t.Kind))
	b.WriteByte(':')
	writeUint(b, uint64(t.Code))
	b.WriteByte(':')
	writeUint(b, uint64(t.Flags&^ThisParameter))
}

func writeUint(b *strings.Builder, n uint64) {
	if n == 0 {
		b.WriteByte('0')
		return
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	b.Write(buf[i:])
}
