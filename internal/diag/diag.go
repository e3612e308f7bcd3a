// Package diag accumulates severity-tagged compiler messages and renders
// them both as human-readable text ("[severity][line:col]: text") and as
// structured JSON for host tooling. It is the compiler's only form of
// logging: there is no separate trace/log facility — messages are built
// once, with source context, rather than streamed to a logger.
package diag

import (
	"fmt"
	"strings"

	"github.com/strandscript/libscript/internal/source"
)

// Severity ranks a Message.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Message is a single, immutable, severity-tagged diagnostic. Location is
// optional: a Message built without a Span still renders, just without a
// "[line:col]" segment — location may be absent.
type Message struct {
	Severity Severity
	Span     source.Span
	HasSpan  bool
	Text     string
}

// String renders "[severity][line:col]: text" or "[severity]: text" when
// no location is attached.
func (m Message) String() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(m.Severity.String())
	b.WriteByte(']')
	if m.HasSpan {
		fmt.Fprintf(&b, "[%d:%d]", m.Span.Start.Line, m.Span.Start.Column)
	}
	b.WriteString(": ")
	b.WriteString(m.Text)
	return b.String()
}

// FormatWithContext renders the message together with the offending source
// line and a caret pointing at the column, the way a
// CompilerError.Format does.
func (m Message) FormatWithContext() string {
	if !m.HasSpan || m.Span.File == nil {
		return m.String()
	}
	var b strings.Builder
	b.WriteString(m.String())
	b.WriteByte('\n')
	line := m.Span.File.Line(m.Span.Start.Line)
	lineNum := fmt.Sprintf("%4d | ", m.Span.Start.Line)
	b.WriteString(lineNum)
	b.WriteString(line)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", len(lineNum)+m.Span.Start.Column-1))
	b.WriteByte('^')
	return b.String()
}

// Builder concatenates fragments and finalizes to an immutable Message,
// so a message is assembled from fragments and finalized once.
type Builder struct {
	severity Severity
	span     source.Span
	hasSpan  bool
	parts    []string
}

// New starts a new message at the given severity.
func New(sev Severity) *Builder {
	return &Builder{severity: sev}
}

// At attaches a location to the message being built.
func (b *Builder) At(sp source.Span) *Builder {
	b.span = sp
	b.hasSpan = true
	return b
}

// Write appends a text fragment.
func (b *Builder) Write(s string) *Builder {
	b.parts = append(b.parts, s)
	return b
}

// Writef appends a formatted text fragment.
func (b *Builder) Writef(format string, args ...any) *Builder {
	return b.Write(fmt.Sprintf(format, args...))
}

// Finish finalizes the builder into an immutable Message.
func (b *Builder) Finish() Message {
	return Message{
		Severity: b.severity,
		Span:     b.span,
		HasSpan:  b.hasSpan,
		Text:     strings.Join(b.parts, ""),
	}
}

// Sink accumulates messages for a script or a compile session.
type Sink struct {
	messages []Message
	hasError bool
}

// Add records a message, tracking whether any Error-severity message was
// ever seen (used to decide compile() == false).
func (s *Sink) Add(m Message) {
	s.messages = append(s.messages, m)
	if m.Severity == Error {
		s.hasError = true
	}
}

// Errorf is a convenience for Add(New(Error).Writef(...).Finish()).
func (s *Sink) Errorf(sp source.Span, format string, args ...any) {
	s.Add(New(Error).At(sp).Writef(format, args...).Finish())
}

// Messages returns all accumulated messages in emission order.
func (s *Sink) Messages() []Message { return s.messages }

// Len returns the number of accumulated messages, pairing with Truncate
// for speculative compilation (a declaration re-attempt or a template
// substitution probe records nothing if it is rolled back).
func (s *Sink) Len() int { return len(s.messages) }

// Truncate discards every message recorded since Len() returned n,
// recomputing the error flag from what remains.
func (s *Sink) Truncate(n int) {
	if n < 0 || n >= len(s.messages) {
		return
	}
	s.messages = s.messages[:n]
	s.hasError = false
	for _, m := range s.messages {
		if m.Severity == Error {
			s.hasError = true
			break
		}
	}
}

// HasError reports whether any Error-severity message was recorded.
func (s *Sink) HasError() bool { return s.hasError }

// Reset clears the sink, used when a session rolls back and restarts.
func (s *Sink) Reset() {
	s.messages = s.messages[:0]
	s.hasError = false
}

// Merge appends another sink's messages into this one (nested sessions
// share the outermost session's sink rather than merging, but tooling that
// wants to combine independent compiles uses this).
func (s *Sink) Merge(other *Sink) {
	for _, m := range other.messages {
		s.Add(m)
	}
}
