package script

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/tidwall/gjson"

	"github.com/strandscript/libscript/internal/ir"
	"github.com/strandscript/libscript/pkg/host"
)

func TestCompileSuccess(t *testing.T) {
	e := NewEngine()
	s := e.NewScript("ok.lsc", "int a = 2; a = a + 1;")
	if !s.Compile() {
		for _, m := range s.Messages() {
			t.Logf("diagnostic: %s", m)
		}
		t.Fatalf("expected compilation to succeed")
	}
	if len(s.GlobalInits()) != 1 {
		t.Errorf("got %d global inits, want 1", len(s.GlobalInits()))
	}
	if len(s.RootStatements()) != 1 {
		t.Errorf("got %d root statements, want 1", len(s.RootStatements()))
	}
}

func TestCompileFailureExposesMessages(t *testing.T) {
	e := NewEngine()
	s := e.NewScript("bad.lsc", "int a = undeclared;")
	if s.Compile() {
		t.Fatalf("expected compilation to fail")
	}
	if len(s.Messages()) == 0 {
		t.Fatalf("expected accumulated messages")
	}

	blob, err := s.MessagesJSON()
	if err != nil {
		t.Fatalf("MessagesJSON: %v", err)
	}
	doc := gjson.ParseBytes(blob)
	if len(doc.Array()) == 0 {
		t.Fatalf("expected JSON diagnostics, got %s", blob)
	}
}

func TestCompileSyntaxErrorIsDiagnostic(t *testing.T) {
	e := NewEngine()
	s := e.NewScript("syntax.lsc", "class { };")
	if s.Compile() {
		t.Fatalf("expected a syntax error to fail the compile")
	}
	if len(s.Messages()) != 1 {
		t.Fatalf("got %d messages, want 1", len(s.Messages()))
	}
}

func TestCompileIsIdempotent(t *testing.T) {
	e := NewEngine()
	s := e.NewScript("twice.lsc", "int a = 1;")
	first := s.Compile()
	second := s.Compile()
	if first != second {
		t.Fatalf("recompiling must return the first verdict")
	}
}

func TestImportThroughRegisteredModule(t *testing.T) {
	e := NewEngine()
	loaded := false
	e.Modules().Register("math.linear", host.Module{Load: func() error {
		loaded = true
		return nil
	}})

	s := e.NewScript("imp.lsc", "import math.linear; int a = 1;")
	if !s.Compile() {
		for _, m := range s.Messages() {
			t.Logf("diagnostic: %s", m)
		}
		t.Fatalf("expected import of a registered module to succeed")
	}
	if !loaded {
		t.Errorf("module load callback never ran")
	}
}

func TestImportUnknownModuleFails(t *testing.T) {
	e := NewEngine()
	s := e.NewScript("imp.lsc", "import no.such.module;")
	if s.Compile() {
		t.Fatalf("expected unknown module import to fail")
	}
}

func TestParseManifest(t *testing.T) {
	raw := []byte(`modules:
  math.linear:
    path: modules/linear.lsc
    exports: [Vector, Matrix]
`)
	m, err := ParseManifest(raw)
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	mod, ok := m.Modules["math.linear"]
	if !ok {
		t.Fatalf("module math.linear missing: %+v", m.Modules)
	}
	if mod.Path != "modules/linear.lsc" || len(mod.Exports) != 2 {
		t.Errorf("module = %+v", mod)
	}
}

func TestIRSnapshot(t *testing.T) {
	e := NewEngine()
	s := e.NewScript("snap.lsc", `int square(int n) { return n * n; }
int nine = square(3);`)
	if !s.Compile() {
		for _, m := range s.Messages() {
			t.Logf("diagnostic: %s", m)
		}
		t.Fatalf("expected compilation to succeed")
	}
	sess := s.Session()
	out := ""
	for _, fn := range sess.Global.Functions["square"] {
		for _, stmt := range fn.Body.Statements {
			out += ir.DumpStmt(stmt, sess.Types)
		}
	}
	for _, g := range sess.GlobalInits {
		out += ir.DumpExpr(g.Init, sess.Types)
	}
	snaps.MatchSnapshot(t, out)
}

func TestCompileCommandWithContext(t *testing.T) {
	e := NewEngine()
	ctx := NewCommandContext()
	ctx.BindInt("hp", 0)

	cmd := e.CompileCommand("hp = hp + 5;", ctx)
	if !cmd.Ok() {
		for _, m := range cmd.Messages() {
			t.Logf("diagnostic: %s", m)
		}
		t.Fatalf("expected the command to compile")
	}
	if cmd.Stmt() == nil {
		t.Fatalf("expected a lowered statement")
	}
}

func TestCompileCommandUnknownBindingFails(t *testing.T) {
	e := NewEngine()
	cmd := e.CompileCommand("mana = 3;", NewCommandContext())
	if cmd.Ok() {
		t.Fatalf("expected an unbound name to fail")
	}
}

func TestCommandLambdaMustBeCaptureless(t *testing.T) {
	e := NewEngine()
	ctx := NewCommandContext()
	ctx.BindInt("hp", 0)
	cmd := e.CompileCommand("{ int n = 1; auto f = [n]() { return n; }; }", ctx)
	if cmd.Ok() {
		t.Fatalf("expected a capturing lambda in command mode to fail")
	}
}
