package symbols

import "github.com/strandscript/libscript/internal/types"

// DataMember is one class field: type, name, accessibility. Offsets are
// derived, not stored: AllDataMembers walks the base chain first, then a
// class's own members in declaration order, matching the
// "inherited first, then own" invariant.
type DataMember struct {
	Name           string
	Type           types.Type
	Access         Access
	HasInitializer bool
}

// TemplateInstanceInfo records the origin template and canonical argument
// vector a class or function instance was produced from.
type TemplateInstanceInfo struct {
	Origin    *Template
	Arguments []TemplateArgument
}

// Class is a class symbol: name, optional single base, data
// members, member-function groups, operators, casts, constructors,
// destructor, nested types, a computed vtable, and optional template-
// instance metadata.
type Class struct {
	Name string
	// SelfType is the types.Type this class was registered under in the
	// engine's types.System (set once, at registration time), so frames
	// and lookup results can report a TypeName without a second registry
	// round-trip.
	SelfType types.Type
	Parent   Symbol
	Base          *Class
	BaseAccess    Access
	DataMembers   []*DataMember
	Methods       []*Function // member functions and operator overloads, declaration order
	methodsByName map[string][]*Function
	Casts         []*Function // conversion operators
	Constructors  []*Function
	Destructor    *Function
	Nested        map[string]Symbol
	Statics       map[string]*Variable
	Friends       []string
	VTable        []*Function
	Final         bool
	Instance      *TemplateInstanceInfo
}

func NewClass(name string, parent Symbol) *Class {
	return &Class{
		Name:          name,
		Parent:        parent,
		methodsByName: map[string][]*Function{},
		Nested:        map[string]Symbol{},
		Statics:       map[string]*Variable{},
	}
}

func (c *Class) SymbolName() string   { return c.Name }
func (c *Class) SymbolParent() Symbol { return c.Parent }

// TypeName implements types.Named so *Class can back a types.System class
// table entry (and a closure-type entry — lambdas are just classes with a
// single operator()).
func (c *Class) TypeName() string { return c.Name }

// ClassName implements internal/ir's ClassRef interface.
func (c *Class) ClassName() string { return c.Name }

func (c *Class) AddDataMember(m *DataMember) {
	c.DataMembers = append(c.DataMembers, m)
}

func (c *Class) AddMethod(f *Function) {
	f.Parent = c
	c.Methods = append(c.Methods, f)
	c.methodsByName[f.Name] = append(c.methodsByName[f.Name], f)
}

func (c *Class) AddCast(f *Function) {
	f.Parent = c
	c.Casts = append(c.Casts, f)
}

func (c *Class) AddConstructor(f *Function) {
	f.Parent = c
	c.Constructors = append(c.Constructors, f)
}

func (c *Class) SetDestructor(f *Function) {
	f.Parent = c
	c.Destructor = f
}

func (c *Class) AddNested(s Symbol) {
	c.Nested[s.SymbolName()] = s
}

// AddStatic registers a static data member, exposed to lookup as a
// StaticDataMemberName.
func (c *Class) AddStatic(v *Variable) {
	c.Statics[v.Name] = v
}

// AddFriend grants the named function or class access to this class's
// non-public members.
func (c *Class) AddFriend(name string) {
	c.Friends = append(c.Friends, name)
}

// MethodsNamed returns the declared methods/operators sharing name, in
// declaration order (an overload set), without walking the base chain —
// base-chain member lookup is internal/lookup's job.
func (c *Class) MethodsNamed(name string) []*Function {
	return c.methodsByName[name]
}

// OwnDataMemberIndex looks up name among c's own (non-inherited) data
// members.
func (c *Class) OwnDataMemberIndex(name string) (int, bool) {
	for i, m := range c.DataMembers {
		if m.Name == name {
			return i, true
		}
	}
	return 0, false
}

// AllDataMembers returns every data member visible on c, inherited members
// first (recursively through Base), then c's own, matching the
// stable-offset invariant. The returned index equals the member's storage
// offset.
func (c *Class) AllDataMembers() []*DataMember {
	var all []*DataMember
	if c.Base != nil {
		all = append(all, c.Base.AllDataMembers()...)
	}
	return append(all, c.DataMembers...)
}

// DataMemberIndex looks up name across the full inherited-then-own member
// list, returning its storage offset.
func (c *Class) DataMemberIndex(name string) (int, bool) {
	all := c.AllDataMembers()
	for i, m := range all {
		if m.Name == name {
			return i, true
		}
	}
	return 0, false
}

// IsAbstract reports whether c's vtable retains any pure-virtual entry
//.
func (c *Class) IsAbstract() bool {
	for _, f := range c.VTable {
		if f.Flags.PureVirtual {
			return true
		}
	}
	return false
}

// IsDerivedFrom reports whether c is base or a (possibly transitive)
// descendant of base.
func (c *Class) IsDerivedFrom(base *Class) bool {
	for cur := c; cur != nil; cur = cur.Base {
		if cur == base {
			return true
		}
	}
	return false
}

// CanAccess checks member's accessibility when referenced from code whose
// enclosing class is accessor (nil for free/namespace-scope code);
// access control is checked at the use site.
func (c *Class) CanAccess(member Access, accessor *Class) bool {
	switch member {
	case Public:
		return true
	case Protected:
		return accessor != nil && (accessor == c || accessor.IsDerivedFrom(c) || c.IsDerivedFrom(accessor))
	default: // Private
		return accessor == c
	}
}

// BuildVTable recomputes c.VTable from c.Base's vtable plus c's own
// virtual/pure-virtual methods, in declaration order: the derived vtable
// begins with the base's entries, with same-signature overrides replacing
// them in place and new virtuals appended.
func BuildVTable(c *Class) {
	var vt []*Function
	if c.Base != nil {
		vt = append(vt, c.Base.VTable...)
	}
	for _, f := range c.Methods {
		if !f.Flags.Virtual && !f.Flags.PureVirtual {
			continue
		}
		replaced := false
		for i, existing := range vt {
			if existing.Name == f.Name && overrideSignatureMatches(existing, f) {
				vt[i] = f
				replaced = true
				break
			}
		}
		if !replaced {
			vt = append(vt, f)
		}
	}
	c.VTable = vt
}

// overrideSignatureMatches compares two member signatures with the
// implicit-object slot stripped: a derived override's `this` names the
// derived class, so the full prototypes never compare equal.
func overrideSignatureMatches(a, b *Function) bool {
	ap, bp := a.Prototype.Params, b.Prototype.Params
	if len(ap) > 0 && ap[0].IsThisParameter() {
		ap = ap[1:]
	}
	if len(bp) > 0 && bp[0].IsThisParameter() {
		bp = bp[1:]
	}
	if !types.Equal(a.Prototype.Return, b.Prototype.Return) || len(ap) != len(bp) {
		return false
	}
	for i := range ap {
		if !types.Equal(ap[i], bp[i]) {
			return false
		}
	}
	return true
}

// VTableIndex returns f's slot in c.VTable, for VirtualCall lowering.
func (c *Class) VTableIndex(f *Function) (int, bool) {
	for i, entry := range c.VTable {
		if entry == f {
			return i, true
		}
	}
	return 0, false
}
