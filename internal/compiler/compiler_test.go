package compiler

import (
	"testing"

	"github.com/strandscript/libscript/internal/ir"
	"github.com/strandscript/libscript/internal/parser"
	"github.com/strandscript/libscript/internal/source"
	"github.com/strandscript/libscript/internal/symbols"
	"github.com/strandscript/libscript/internal/types"
)

func compileSource(t *testing.T, src string) (*Compiler, bool) {
	t.Helper()
	f := source.NewFromString("test.lsc", src)
	tu, perr := parser.New(f).Parse()
	if perr != nil {
		t.Fatalf("parse error: %v", perr)
	}
	c := NewCompiler()
	ok := c.Compile(tu)
	return c, ok
}

func mustCompile(t *testing.T, src string) *Compiler {
	t.Helper()
	c, ok := compileSource(t, src)
	if !ok {
		for _, m := range c.Session.Sink.Messages() {
			t.Logf("diagnostic: %s", m)
		}
		t.Fatalf("compilation failed")
	}
	return c
}

func TestCompileGlobalAndTopLevelStatement(t *testing.T) {
	c := mustCompile(t, "int a = 2; a = a + 1;")

	if len(c.Session.GlobalInits) != 1 {
		t.Fatalf("got %d global inits, want 1", len(c.Session.GlobalInits))
	}
	init := c.Session.GlobalInits[0]
	if init.Variable.Name != "a" || init.Variable.Index != 0 {
		t.Errorf("global = %+v", init.Variable)
	}
	lit, ok := init.Init.(*ir.Literal)
	if !ok || lit.Value != int64(2) {
		t.Errorf("initializer = %#v, want Literal 2", init.Init)
	}

	if len(c.Session.RootStatements) != 1 {
		t.Fatalf("got %d root statements, want 1", len(c.Session.RootStatements))
	}
	es, ok := c.Session.RootStatements[0].(*ir.ExpressionStmt)
	if !ok {
		t.Fatalf("root statement is %T", c.Session.RootStatements[0])
	}
	assign, ok := es.Expr.(*ir.BinaryOp)
	if !ok || assign.Operator != "=" {
		t.Fatalf("root expression = %#v, want assignment", es.Expr)
	}
	if _, ok := assign.Left.(*ir.FetchGlobal); !ok {
		t.Errorf("assignment target is %T, want *ir.FetchGlobal", assign.Left)
	}
}

func TestCompileFunctionCall(t *testing.T) {
	c := mustCompile(t, "int incr(int n){ return n+1; } int b = incr(4);")

	fns := c.Session.Global.Functions["incr"]
	if len(fns) != 1 {
		t.Fatalf("got %d overloads of incr, want 1", len(fns))
	}
	if fns[0].Body == nil {
		t.Fatalf("incr has no compiled body")
	}
	if fns[0].Body.LocalCount != 1 {
		t.Errorf("incr local count = %d, want 1", fns[0].Body.LocalCount)
	}

	if len(c.Session.GlobalInits) != 1 {
		t.Fatalf("got %d global inits, want 1", len(c.Session.GlobalInits))
	}
	call, ok := c.Session.GlobalInits[0].Init.(*ir.FunctionCall)
	if !ok {
		t.Fatalf("initializer = %#v, want *ir.FunctionCall", c.Session.GlobalInits[0].Init)
	}
	if call.Callee.FuncName() != "incr" {
		t.Errorf("callee = %q, want incr", call.Callee.FuncName())
	}
}

func TestCompileClassInheritance(t *testing.T) {
	c := mustCompile(t, "class A{}; class B : A{}; B x;")

	a := c.Session.Global.Classes["A"]
	b := c.Session.Global.Classes["B"]
	if a == nil || b == nil {
		t.Fatalf("classes not registered: A=%v B=%v", a, b)
	}
	if b.Base != a {
		t.Fatalf("B.Base = %v, want A", b.Base)
	}

	x := c.Session.Global.Variables["x"]
	if x == nil {
		t.Fatalf("global x not registered")
	}
	got, ok := c.Session.Types.ClassPayload(x.Type).(*symbols.Class)
	if !ok || got != b {
		t.Fatalf("type of x = %v, want class B", got)
	}
}

func TestCompileClassTemplateInstance(t *testing.T) {
	c := mustCompile(t, "template<typename T> class Box { T v; }; Box<int> b;")

	b := c.Session.Global.Variables["b"]
	if b == nil {
		t.Fatalf("global b not registered")
	}
	inst, ok := c.Session.Types.ClassPayload(b.Type).(*symbols.Class)
	if !ok {
		t.Fatalf("type of b is not a class")
	}
	if inst.Instance == nil || inst.Instance.Origin.Name != "Box" {
		t.Fatalf("instance metadata = %+v, want origin Box", inst.Instance)
	}
	if len(inst.DataMembers) != 1 {
		t.Fatalf("got %d data members, want 1", len(inst.DataMembers))
	}
	if !types.Equal(inst.DataMembers[0].Type, types.FromPrimitive(types.Int)) {
		t.Errorf("member type = %v, want int", inst.DataMembers[0].Type)
	}

	// Repeated instantiation returns the cached instance.
	tmpl := c.Session.Global.Templates["Box"]
	args := []symbols.TemplateArgument{symbols.TypeArgument(types.FromPrimitive(types.Int))}
	key := symbols.CanonicalArgsKey(c.Session.Types, args)
	cached, ok := tmpl.GetInstance(key)
	if !ok || cached.(*symbols.Class) != inst {
		t.Errorf("instance table does not return the same class")
	}
}

func TestCompileEnumSkipsEmptyEntries(t *testing.T) {
	c := mustCompile(t, "enum E { X, Y, , Z };")

	e := c.Session.Global.Enums["E"]
	if e == nil {
		t.Fatalf("enum E not registered")
	}
	if len(e.Enumerators) != 3 {
		t.Fatalf("got %d enumerators, want 3", len(e.Enumerators))
	}
	for i, want := range []struct {
		name  string
		value int64
	}{{"X", 0}, {"Y", 1}, {"Z", 2}} {
		if e.Enumerators[i].Name != want.name || e.Enumerators[i].Value != want.value {
			t.Errorf("enumerator %d = %+v, want %s=%d", i, e.Enumerators[i], want.name, want.value)
		}
	}
	if e.AssignOperator == nil {
		t.Errorf("expected an auto-generated assignment operator")
	}
}

func TestCompileFunctionTemplateDeduction(t *testing.T) {
	c := mustCompile(t, "template<typename T> T id(T x) { return x; } int v = id(3);")

	call, ok := c.Session.GlobalInits[0].Init.(*ir.FunctionCall)
	if !ok {
		t.Fatalf("initializer = %#v, want *ir.FunctionCall", c.Session.GlobalInits[0].Init)
	}
	if !types.Equal(call.ExprType(), types.FromPrimitive(types.Int)) {
		t.Errorf("call type = %v, want int", call.ExprType())
	}

	tmpl := c.Session.Global.Templates["id"]
	args := []symbols.TemplateArgument{symbols.TypeArgument(types.FromPrimitive(types.Int))}
	key := symbols.CanonicalArgsKey(c.Session.Types, args)
	inst, ok := tmpl.GetInstance(key)
	if !ok {
		t.Fatalf("id<int> not cached")
	}
	if inst.(*symbols.Function).Body == nil {
		t.Errorf("instantiated function has no body")
	}
}

func TestCompileVirtualCall(t *testing.T) {
	src := `class Animal {
public:
	virtual int speak() { return 1; }
};
class Dog : public Animal {
public:
	virtual int speak() { return 2; }
};
int talk(Animal& a) { return a.speak(); }`
	c := mustCompile(t, src)

	animal := c.Session.Global.Classes["Animal"]
	dog := c.Session.Global.Classes["Dog"]
	if len(animal.VTable) != 1 || len(dog.VTable) != 1 {
		t.Fatalf("vtable sizes: Animal=%d Dog=%d, want 1/1", len(animal.VTable), len(dog.VTable))
	}
	if dog.VTable[0] == animal.VTable[0] {
		t.Errorf("Dog's vtable slot should hold the override")
	}

	talk := c.Session.Global.Functions["talk"][0]
	ret, ok := talk.Body.Statements[len(talk.Body.Statements)-1].(*ir.ReturnStmt)
	if !ok {
		t.Fatalf("last statement is %T, want *ir.ReturnStmt", talk.Body.Statements[len(talk.Body.Statements)-1])
	}
	vc, ok := ret.Value.(*ir.VirtualCall)
	if !ok {
		t.Fatalf("return value is %T, want *ir.VirtualCall", ret.Value)
	}
	if vc.VTableIndex != 0 {
		t.Errorf("vtable index = %d, want 0", vc.VTableIndex)
	}
}

func TestCompileOverloadResolutionPrefersExact(t *testing.T) {
	src := `int pick(int x) { return 1; }
int pick(double x) { return 2; }
int r = pick(3);`
	c := mustCompile(t, src)

	call := c.Session.GlobalInits[0].Init.(*ir.FunctionCall)
	fn := call.Callee.(*symbols.Function)
	if !types.Equal(fn.Prototype.Params[0], types.FromPrimitive(types.Int)) {
		t.Errorf("selected overload takes %v, want int", fn.Prototype.Params[0])
	}
}

func TestCompileDefaultArguments(t *testing.T) {
	c := mustCompile(t, "int add(int a, int b = 10) { return a + b; } int r = add(1);")

	fn := c.Session.Global.Functions["add"][0]
	if len(fn.Defaults) != 1 {
		t.Fatalf("got %d defaults, want 1", len(fn.Defaults))
	}
	if fn.MinArgs() != 1 {
		t.Errorf("MinArgs = %d, want 1", fn.MinArgs())
	}
}

func TestCompileNarrowingBraceInitFails(t *testing.T) {
	c, ok := compileSource(t, "double d = 1.5; int n{2.5};")
	if ok {
		t.Fatalf("expected narrowing brace initialization to fail")
	}
	found := false
	for _, m := range c.Session.Sink.Messages() {
		if m.Severity.String() == "error" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected at least one error diagnostic")
	}
}

func TestCompileBraceZeroInit(t *testing.T) {
	c := mustCompile(t, "int z{};")
	lit, ok := c.Session.GlobalInits[0].Init.(*ir.Literal)
	if !ok || lit.Value != int64(0) {
		t.Fatalf("initializer = %#v, want Literal 0", c.Session.GlobalInits[0].Init)
	}
}

func TestCompileReferenceMustBeInitialized(t *testing.T) {
	_, ok := compileSource(t, "int a = 1; int& r;")
	if ok {
		t.Fatalf("expected an uninitialized reference to fail")
	}
}

func TestCompileUnknownImportFails(t *testing.T) {
	_, ok := compileSource(t, "import does.not.exist;")
	if ok {
		t.Fatalf("expected an unknown module import to fail")
	}
}

func TestCompileLambda(t *testing.T) {
	src := `int run() {
	int base = 10;
	auto f = [base](int n) { return base + n; };
	return f(5);
}`
	c := mustCompile(t, src)

	run := c.Session.Global.Functions["run"][0]
	if run.Body == nil {
		t.Fatalf("run has no body")
	}
	var lam *ir.LambdaExpression
	var walkExpr func(e ir.Expr)
	var walkStmt func(s ir.Stmt)
	walkExpr = func(e ir.Expr) {
		switch n := e.(type) {
		case *ir.LambdaExpression:
			lam = n
		case *ir.FunctionVariableCall:
			walkExpr(n.Target)
		case *ir.FunctionCall:
			for _, a := range n.Arguments {
				walkExpr(a)
			}
		}
	}
	walkStmt = func(s ir.Stmt) {
		switch n := s.(type) {
		case *ir.ExpressionStmt:
			walkExpr(n.Expr)
		case *ir.CompoundStmt:
			for _, inner := range n.Statements {
				walkStmt(inner)
			}
		case *ir.ReturnStmt:
			walkExpr(n.Value)
		}
	}
	for _, s := range run.Body.Statements {
		walkStmt(s)
	}
	if lam == nil {
		t.Fatalf("no lambda expression found in run's body")
	}
	if len(lam.Captures) != 1 {
		t.Fatalf("got %d captures, want 1", len(lam.Captures))
	}
	closure := lam.Closure.(*symbols.Class)
	callOps := closure.MethodsNamed("operator()")
	if len(callOps) != 1 {
		t.Fatalf("closure has %d operator() overloads, want 1", len(callOps))
	}
	if !types.Equal(callOps[0].Prototype.Return, types.FromPrimitive(types.Int)) {
		t.Errorf("deduced return type = %v, want int", callOps[0].Prototype.Return)
	}
}

func TestCompileArrayExpression(t *testing.T) {
	c := mustCompile(t, "auto v = [1, 2, 3];")

	arr, ok := c.Session.GlobalInits[0].Init.(*ir.ArrayExpression)
	if !ok {
		t.Fatalf("initializer = %#v, want *ir.ArrayExpression", c.Session.GlobalInits[0].Init)
	}
	if len(arr.Elements) != 3 {
		t.Errorf("got %d elements, want 3", len(arr.Elements))
	}
	class, ok := c.Session.Types.ClassPayload(arr.ExprType()).(*symbols.Class)
	if !ok || class.Instance == nil || class.Instance.Origin.Name != "Array" {
		t.Errorf("array expression type should be an Array<T> instance, got %v", arr.ExprType())
	}
}

func TestCompileUserDefinedLiteral(t *testing.T) {
	src := `int operator"" _doubled(int v) { return v + v; }
int r = 21_doubled;`
	c := mustCompile(t, src)

	call, ok := c.Session.GlobalInits[0].Init.(*ir.FunctionCall)
	if !ok {
		t.Fatalf("initializer = %#v, want a literal operator call", c.Session.GlobalInits[0].Init)
	}
	if call.Callee.FuncName() != `operator"" _doubled` {
		t.Errorf("callee = %q", call.Callee.FuncName())
	}
}

func TestCompileConstGlobalFoldsToLiteral(t *testing.T) {
	c := mustCompile(t, "const int N = 4; int m = N;")

	if len(c.Session.GlobalInits) != 2 {
		t.Fatalf("got %d global inits, want 2", len(c.Session.GlobalInits))
	}
	lit, ok := c.Session.GlobalInits[1].Init.(*ir.Literal)
	if !ok || lit.Value != int64(4) {
		t.Errorf("const reference should fold to Literal 4, got %#v", c.Session.GlobalInits[1].Init)
	}
}

func TestCompileDeletedFunctionCallFails(t *testing.T) {
	_, ok := compileSource(t, "int gone(int x) = delete; int r = gone(1);")
	if ok {
		t.Fatalf("expected a call to a deleted function to fail")
	}
}

func TestRetriesResolveForwardReferences(t *testing.T) {
	// g's parameter type is declared after g itself.
	c := mustCompile(t, "Late g(Late x) { return x; } class Late { };")
	if len(c.Session.Global.Functions["g"]) != 1 {
		t.Fatalf("g not declared after retry")
	}
}

func TestNestedSessionSharesState(t *testing.T) {
	sess := NewSession()
	child := sess.NewNestedSession()
	if child.Types != sess.Types || child.Global != sess.Global || child.Sink != sess.Sink {
		t.Fatalf("nested session must share registries and sink")
	}
	if child.Parent != sess {
		t.Fatalf("nested session parent not set")
	}
}

// declaration-order check: globals initialize in declaration order even
// when queued across classes and functions.
func TestGlobalInitializerOrder(t *testing.T) {
	c := mustCompile(t, "int a = 1; int b = 2; int f() { return 0; } int d = 3;")
	var names []string
	for _, g := range c.Session.GlobalInits {
		names = append(names, g.Variable.Name)
	}
	want := []string{"a", "b", "d"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v, want %v", names, want)
		}
	}
}

func TestFailedCompileRollsBackSymbols(t *testing.T) {
	c, ok := compileSource(t, "class Good { }; int bad = undeclared;")
	if ok {
		t.Fatalf("expected compilation to fail")
	}
	if len(c.Session.Global.Classes) != 0 {
		t.Errorf("partial class symbols survived rollback: %v", c.Session.Global.Classes)
	}
	if len(c.Session.Global.Variables) != 0 {
		t.Errorf("partial variable symbols survived rollback: %v", c.Session.Global.Variables)
	}
	if len(c.Session.GlobalInits) != 0 {
		t.Errorf("compiled initializers survived rollback")
	}
	if len(c.Session.Sink.Messages()) == 0 {
		t.Errorf("diagnostics must survive rollback")
	}
}
