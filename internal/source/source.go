// Package source holds source buffers and the (file, offset, line, col)
// locations used to anchor diagnostics to the text the compiler read.
package source

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// Position is a single point in a source buffer.
type Position struct {
	Line   int // 1-based
	Column int // 1-based, counted in runes
	Offset int // 0-based byte offset
}

// Less orders positions by offset; used to keep diagnostics in textual order.
func (p Position) Less(o Position) bool { return p.Offset < o.Offset }

// Span is a half-open [Start, End) range inside a File.
type Span struct {
	File  *File
	Start Position
	End   Position
}

// File is an immutable named source buffer.
//
// New decodes the buffer the way a host embedding this engine typically
// receives it: UTF-8 already, UTF-8 with a BOM, or UTF-16 with a BOM. A
// buffer with no BOM is assumed to already be UTF-8; the decoder also
// accepts UTF-16, which hosts on Windows commonly hand over.
type File struct {
	Name string
	Text string

	lineOffsets []int // byte offset of the start of each line
}

// New creates a File from raw bytes, decoding a BOM if present.
func New(name string, raw []byte) *File {
	text := decode(raw)
	f := &File{Name: name, Text: text}
	f.indexLines()
	return f
}

// NewFromString creates a File directly from already-decoded text.
func NewFromString(name, text string) *File {
	f := &File{Name: name, Text: text}
	f.indexLines()
	return f
}

func decode(raw []byte) string {
	switch {
	case bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}):
		return string(raw[3:])
	case bytes.HasPrefix(raw, []byte{0xFF, 0xFE}):
		out, err := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder().Bytes(raw)
		if err == nil {
			return string(out)
		}
	case bytes.HasPrefix(raw, []byte{0xFE, 0xFF}):
		out, err := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().Bytes(raw)
		if err == nil {
			return string(out)
		}
	}
	return string(raw)
}

func (f *File) indexLines() {
	f.lineOffsets = append(f.lineOffsets[:0], 0)
	for i, b := range []byte(f.Text) {
		if b == '\n' {
			f.lineOffsets = append(f.lineOffsets, i+1)
		}
	}
}

// PositionAt converts a byte offset into a (line, column) Position.
// Column is a rune count from the start of the line, matching the
// lexer's rune-counted column convention.
func (f *File) PositionAt(offset int) Position {
	line := 1
	for i := len(f.lineOffsets) - 1; i >= 0; i-- {
		if f.lineOffsets[i] <= offset {
			line = i + 1
			col := utf8.RuneCountInString(f.Text[f.lineOffsets[i]:offset]) + 1
			return Position{Line: line, Column: col, Offset: offset}
		}
	}
	return Position{Line: line, Column: offset + 1, Offset: offset}
}

// Line returns the text of a 1-based line number, without its terminator.
func (f *File) Line(n int) string {
	if n < 1 || n > len(f.lineOffsets) {
		return ""
	}
	start := f.lineOffsets[n-1]
	end := len(f.Text)
	if n < len(f.lineOffsets) {
		end = f.lineOffsets[n] - 1
		if end > start && f.Text[end-1] == '\r' {
			end--
		}
	}
	return f.Text[start:end]
}

// Text returns the source text spanned by sp, for round-trip reconstruction
// (lex-then-concatenate-spans laws live on top of this).
func (sp Span) Text() string {
	if sp.File == nil {
		return ""
	}
	if sp.Start.Offset < 0 || sp.End.Offset > len(sp.File.Text) || sp.Start.Offset > sp.End.Offset {
		return ""
	}
	return sp.File.Text[sp.Start.Offset:sp.End.Offset]
}
