package source

import "testing"

func TestDecodeBOMs(t *testing.T) {
	cases := []struct {
		name string
		raw  []byte
		want string
	}{
		{"plain utf8", []byte("int a;"), "int a;"},
		{"utf8 bom", []byte{0xEF, 0xBB, 0xBF, 'i', 'n', 't'}, "int"},
		{"utf16 le", []byte{0xFF, 0xFE, 'a', 0x00, 'b', 0x00}, "ab"},
		{"utf16 be", []byte{0xFE, 0xFF, 0x00, 'a', 0x00, 'b'}, "ab"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := New("t.lsc", tc.raw)
			if f.Text != tc.want {
				t.Errorf("Text = %q, want %q", f.Text, tc.want)
			}
		})
	}
}

func TestPositionAt(t *testing.T) {
	f := NewFromString("t.lsc", "ab\ncd\nef")
	cases := []struct {
		offset, line, col int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{3, 2, 1},
		{4, 2, 2},
		{6, 3, 1},
	}
	for _, tc := range cases {
		p := f.PositionAt(tc.offset)
		if p.Line != tc.line || p.Column != tc.col {
			t.Errorf("PositionAt(%d) = %d:%d, want %d:%d", tc.offset, p.Line, p.Column, tc.line, tc.col)
		}
	}
}

func TestLineStripsTerminator(t *testing.T) {
	f := NewFromString("t.lsc", "first\r\nsecond\nthird")
	if got := f.Line(1); got != "first" {
		t.Errorf("Line(1) = %q, want %q", got, "first")
	}
	if got := f.Line(2); got != "second" {
		t.Errorf("Line(2) = %q, want %q", got, "second")
	}
	if got := f.Line(3); got != "third" {
		t.Errorf("Line(3) = %q, want %q", got, "third")
	}
}

func TestSpanText(t *testing.T) {
	f := NewFromString("t.lsc", "int a = 5;")
	sp := Span{File: f, Start: f.PositionAt(4), End: f.PositionAt(5)}
	if sp.Text() != "a" {
		t.Errorf("Text() = %q, want %q", sp.Text(), "a")
	}
	whole := Span{File: f, Start: f.PositionAt(0), End: f.PositionAt(len(f.Text))}
	if whole.Text() != f.Text {
		t.Errorf("whole-span Text() should reproduce the buffer")
	}
}
