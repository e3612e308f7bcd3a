package types

import "testing"

func TestEqualIgnoresThisParameter(t *testing.T) {
	a := FromPrimitive(Int).WithThisParameter(true)
	b := FromPrimitive(Int)
	if !Equal(a, b) {
		t.Fatalf("expected Equal to ignore the this-parameter bit")
	}
}

func TestFunctionTypeInterning(t *testing.T) {
	sys := NewSystem()
	proto := Prototype{Return: FromPrimitive(Int), Params: []Type{FromPrimitive(Bool)}}
	t1 := sys.GetFunctionType(proto)
	t2 := sys.GetFunctionType(proto)
	if t1 != t2 {
		t.Fatalf("expected repeated GetFunctionType calls to return the same Type, got %+v and %+v", t1, t2)
	}
}

func TestTypeNameRendersConstReference(t *testing.T) {
	sys := NewSystem()
	ty := FromPrimitive(Int).WithConst(true).WithReference(true)
	if got, want := sys.TypeName(ty), "const int &"; got != want {
		t.Fatalf("TypeName() = %q, want %q", got, want)
	}
}

func TestCompareIsTotalOrder(t *testing.T) {
	a := FromPrimitive(Bool)
	b := FromPrimitive(Int)
	if Compare(a, b) >= 0 {
		t.Fatalf("expected bool < int in category order")
	}
	if Compare(a, a) != 0 {
		t.Fatalf("expected Compare(a, a) == 0")
	}
}
