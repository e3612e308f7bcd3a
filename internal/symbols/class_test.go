package symbols

import (
	"testing"

	"github.com/strandscript/libscript/internal/types"
)

func TestBuildVTableOverridesInPlace(t *testing.T) {
	base := NewClass("Base", nil)
	baseProto := types.Prototype{Return: types.FromPrimitive(types.Void)}
	speak := NewFunction("speak", baseProto)
	speak.Flags.Virtual = true
	base.AddMethod(speak)
	BuildVTable(base)

	derived := NewClass("Derived", nil)
	derived.Base = base
	override := NewFunction("speak", baseProto)
	override.Flags.Virtual = true
	derived.AddMethod(override)
	extra := NewFunction("fly", baseProto)
	extra.Flags.Virtual = true
	derived.AddMethod(extra)
	BuildVTable(derived)

	if len(derived.VTable) != 2 {
		t.Fatalf("expected 2 vtable entries, got %d", len(derived.VTable))
	}
	if derived.VTable[0] != override {
		t.Fatalf("expected base slot to be overridden in place")
	}
	if derived.VTable[1] != extra {
		t.Fatalf("expected new virtual appended after inherited entries")
	}
}

func TestDataMemberIndexInheritedFirst(t *testing.T) {
	base := NewClass("Base", nil)
	base.AddDataMember(&DataMember{Name: "x", Type: types.FromPrimitive(types.Int)})
	derived := NewClass("Derived", nil)
	derived.Base = base
	derived.AddDataMember(&DataMember{Name: "y", Type: types.FromPrimitive(types.Int)})

	if idx, ok := derived.DataMemberIndex("x"); !ok || idx != 0 {
		t.Fatalf("expected inherited member x at index 0, got %d, %v", idx, ok)
	}
	if idx, ok := derived.DataMemberIndex("y"); !ok || idx != 1 {
		t.Fatalf("expected own member y at index 1, got %d, %v", idx, ok)
	}
}

func TestIsAbstractFromPureVirtual(t *testing.T) {
	c := NewClass("Shape", nil)
	draw := NewFunction("draw", types.Prototype{Return: types.FromPrimitive(types.Void)})
	draw.Flags.Virtual = true
	draw.Flags.PureVirtual = true
	c.AddMethod(draw)
	BuildVTable(c)
	if !c.IsAbstract() {
		t.Fatalf("expected class with a pure-virtual member to be abstract")
	}
}
