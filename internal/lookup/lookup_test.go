package lookup

import (
	"testing"

	"github.com/strandscript/libscript/internal/symbols"
	"github.com/strandscript/libscript/internal/types"
)

func TestUnqualifiedLocalShadowsGlobal(t *testing.T) {
	global := symbols.NewNamespace("", nil)
	global.AddVariable(&symbols.Variable{Name: "x", Type: types.FromPrimitive(types.Int), Index: 0})

	frame := symbols.FunctionFrame(nil)
	idx := frame.Locals.Declare("x", types.FromPrimitive(types.Double))
	scope := symbols.NewScope(symbols.NamespaceFrame(global)).Push(frame)

	res := Unqualified(scope, "x", Policy{})
	if res.Kind != LocalName {
		t.Fatalf("kind = %s, want LocalName", res.Kind)
	}
	if res.LocalIndex != idx {
		t.Errorf("index = %d, want %d", res.LocalIndex, idx)
	}
	if !types.Equal(res.LocalType, types.FromPrimitive(types.Double)) {
		t.Errorf("type = %v, want double", res.LocalType)
	}
}

func TestUnqualifiedFallsThroughToNamespace(t *testing.T) {
	global := symbols.NewNamespace("", nil)
	global.AddVariable(&symbols.Variable{Name: "g", Type: types.FromPrimitive(types.Int), Index: 3})

	frame := symbols.FunctionFrame(nil)
	scope := symbols.NewScope(symbols.NamespaceFrame(global)).Push(frame)

	res := Unqualified(scope, "g", Policy{})
	if res.Kind != GlobalName {
		t.Fatalf("kind = %s, want GlobalName", res.Kind)
	}
	if res.Variable.Index != 3 {
		t.Errorf("index = %d, want 3", res.Variable.Index)
	}
}

func TestClassChainMemberLookup(t *testing.T) {
	sys := types.NewSystem()
	base := symbols.NewClass("Base", nil)
	base.SelfType = sys.RegisterClass(base)
	base.AddDataMember(&symbols.DataMember{Name: "x", Type: types.FromPrimitive(types.Int)})

	derived := symbols.NewClass("Derived", nil)
	derived.SelfType = sys.RegisterClass(derived)
	derived.Base = base
	derived.AddDataMember(&symbols.DataMember{Name: "y", Type: types.FromPrimitive(types.Int)})

	res, ok := MemberOf(derived, "x")
	if !ok || res.Kind != DataMemberName {
		t.Fatalf("x: kind = %s, want DataMemberName", res.Kind)
	}
	if res.MemberIndex != 0 {
		t.Errorf("x offset = %d, want 0 (inherited first)", res.MemberIndex)
	}
	res, ok = MemberOf(derived, "y")
	if !ok || res.MemberIndex != 1 {
		t.Errorf("y offset = %d, want 1", res.MemberIndex)
	}
}

func TestEnumFrameLookup(t *testing.T) {
	enum := symbols.NewEnum("Color", nil, false)
	enum.AddEnumerator("Red", 0)
	enum.AddEnumerator("Green", 1)

	scope := symbols.NewScope(symbols.EnumFrame(enum))
	res := Unqualified(scope, "Green", Policy{})
	if res.Kind != EnumValueName || res.EnumValue != 1 {
		t.Fatalf("Green = %s/%d, want EnumValueName/1", res.Kind, res.EnumValue)
	}
}

func TestInjectionTypeAlias(t *testing.T) {
	global := symbols.NewNamespace("", nil)
	scope := symbols.NewScope(symbols.NamespaceFrame(global)).
		Push(symbols.InjectionFrame(&symbols.Injection{
			Kind:      symbols.TypeAliasInjection,
			AliasName: "id",
			AliasType: types.FromPrimitive(types.Int),
		}))

	res := Unqualified(scope, "id", Policy{})
	if res.Kind != TypeName || !types.Equal(res.Type, types.FromPrimitive(types.Int)) {
		t.Fatalf("alias lookup = %s/%v, want TypeName/int", res.Kind, res.Type)
	}
}

func TestUsingNamespaceInjection(t *testing.T) {
	global := symbols.NewNamespace("", nil)
	inner := global.AddNamespace("util")
	inner.AddVariable(&symbols.Variable{Name: "v", Type: types.FromPrimitive(types.Int), Index: 0})

	scope := symbols.NewScope(symbols.NamespaceFrame(global)).
		Push(symbols.InjectionFrame(&symbols.Injection{
			Kind:      symbols.UsingNamespaceInjection,
			Namespace: inner,
		}))

	res := Unqualified(scope, "v", Policy{})
	if res.Kind != GlobalName {
		t.Fatalf("kind = %s, want GlobalName via using-directive", res.Kind)
	}
}

func TestCaptureLookup(t *testing.T) {
	frame := symbols.FunctionFrame(nil)
	frame.Captures = []symbols.CaptureBinding{{Name: "c", Type: types.FromPrimitive(types.Int), Index: 0}}
	scope := symbols.NewScope(frame)

	res := Unqualified(scope, "c", Policy{})
	if res.Kind != CaptureName || res.CaptureIndex != 0 {
		t.Fatalf("capture lookup = %s/%d, want CaptureName/0", res.Kind, res.CaptureIndex)
	}
}

func TestStaticDataMemberLookup(t *testing.T) {
	sys := types.NewSystem()
	class := symbols.NewClass("Counter", nil)
	class.SelfType = sys.RegisterClass(class)
	class.AddStatic(&symbols.Variable{Name: "count", Type: types.FromPrimitive(types.Int), Index: 7})

	res, ok := MemberOf(class, "count")
	if !ok || res.Kind != StaticDataMemberName {
		t.Fatalf("kind = %s, want StaticDataMemberName", res.Kind)
	}
	if res.MemberIndex != 7 {
		t.Errorf("index = %d, want 7", res.MemberIndex)
	}
}
