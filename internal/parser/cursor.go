// Package parser builds an AST from a token stream: recursive descent for
// declarations/statements/types, a Pratt-style subparser for expressions,
// and fragment-bounded sub-parsing for brackets/braces/parens.
package parser

import (
	"github.com/strandscript/libscript/internal/lexer"
)

// TokenCursor is an immutable cursor over a buffered token stream.
// Every navigation operation returns a new cursor rather than mutating
// state in place, so a parsing function can save a Mark, try a production
// speculatively, and cheaply rewind if it turns out to be the wrong one —
// exactly the shape needed for disambiguating
// `name<...>` as a template-id versus an expression.
type TokenCursor struct {
	lex     *lexer.Lexer
	current lexer.Token
	tokens  []lexer.Token
	index   int
}

// NewTokenCursor creates a cursor positioned at the first token of l. The
// whole stream is lexed up front, through EOF, so every cursor derived from
// this one shares one complete token buffer.
func NewTokenCursor(l *lexer.Lexer) *TokenCursor {
	tokens := []lexer.Token{l.NextToken()}
	for tokens[len(tokens)-1].Kind != lexer.EOF {
		tokens = append(tokens, l.NextToken())
	}
	return &TokenCursor{lex: l, current: tokens[0], tokens: tokens}
}

// Current returns the token at the cursor's position.
func (c *TokenCursor) Current() lexer.Token { return c.current }

// Peek returns the token n positions ahead, buffering as needed.
// Peek(0) is equivalent to Current().
func (c *TokenCursor) Peek(n int) lexer.Token {
	if n < 0 {
		return c.current
	}
	target := c.index + n
	if target >= len(c.tokens) {
		needed := target - len(c.tokens) + 1
		if target >= cap(c.tokens) {
			newCap := target + 16
			if grown := cap(c.tokens) * 3 / 2; grown > newCap {
				newCap = grown
			}
			grownTokens := make([]lexer.Token, len(c.tokens), newCap)
			copy(grownTokens, c.tokens)
			c.tokens = grownTokens
		}
		for i := 0; i < needed; i++ {
			tok := c.lex.NextToken()
			c.tokens = append(c.tokens, tok)
			if tok.Kind == lexer.EOF {
				break
			}
		}
	}
	if target < len(c.tokens) {
		return c.tokens[target]
	}
	return c.tokens[len(c.tokens)-1]
}

// Advance returns a cursor positioned one token ahead.
func (c *TokenCursor) Advance() *TokenCursor { return c.AdvanceN(1) }

// AdvanceN returns a cursor positioned n tokens ahead. n <= 0 returns c.
func (c *TokenCursor) AdvanceN(n int) *TokenCursor {
	if n <= 0 {
		return c
	}
	c.Peek(n)
	newIndex := c.index + n
	if newIndex >= len(c.tokens) {
		newIndex = len(c.tokens) - 1
	}
	return &TokenCursor{lex: c.lex, current: c.tokens[newIndex], tokens: c.tokens, index: newIndex}
}

// Skip advances past the current token if it matches k.
func (c *TokenCursor) Skip(k lexer.Kind) (*TokenCursor, bool) {
	if c.current.Kind == k {
		return c.Advance(), true
	}
	return c, false
}

// SkipAny advances past the current token if it matches any of kinds.
func (c *TokenCursor) SkipAny(kinds ...lexer.Kind) (*TokenCursor, bool, lexer.Kind) {
	for _, k := range kinds {
		if c.current.Kind == k {
			return c.Advance(), true, k
		}
	}
	return c, false, lexer.ILLEGAL
}

// Is reports whether the current token matches k.
func (c *TokenCursor) Is(k lexer.Kind) bool { return c.current.Kind == k }

// IsAny reports whether the current token matches any of kinds.
func (c *TokenCursor) IsAny(kinds ...lexer.Kind) (bool, lexer.Kind) {
	for _, k := range kinds {
		if c.current.Kind == k {
			return true, k
		}
	}
	return false, lexer.ILLEGAL
}

// PeekIs reports whether the token n ahead matches k.
func (c *TokenCursor) PeekIs(n int, k lexer.Kind) bool { return c.Peek(n).Kind == k }

// Expect is an alias for Skip, read at call sites as "require this token".
func (c *TokenCursor) Expect(k lexer.Kind) (*TokenCursor, bool) { return c.Skip(k) }

// ExpectAny is an alias for SkipAny.
func (c *TokenCursor) ExpectAny(kinds ...lexer.Kind) (*TokenCursor, bool, lexer.Kind) {
	return c.SkipAny(kinds...)
}

// Mark is a lightweight saved cursor position for backtracking.
type Mark struct{ index int }

// Mark saves the current position.
func (c *TokenCursor) Mark() Mark { return Mark{index: c.index} }

// ResetTo rewinds to a previously saved Mark.
func (c *TokenCursor) ResetTo(m Mark) *TokenCursor {
	if m.index < 0 || m.index >= len(c.tokens) {
		return c
	}
	return &TokenCursor{lex: c.lex, current: c.tokens[m.index], tokens: c.tokens, index: m.index}
}

// IsEOF reports whether the cursor has reached the end of the stream.
func (c *TokenCursor) IsEOF() bool { return c.current.Kind == lexer.EOF }

// Index returns the cursor's position within the shared token buffer. Two
// cursors produced from the same lexer can be compared by Index to tell
// which one is further along, which is how Fragment bounds a sub-range.
func (c *TokenCursor) Index() int { return c.index }

// LookAhead scans forward (bounded) for a token matching predicate,
// returning it along with its distance from the current position.
func (c *TokenCursor) LookAhead(predicate func(lexer.Token) bool) (lexer.Token, int, bool) {
	const maxLookahead = 256
	for distance := 0; distance < maxLookahead; distance++ {
		tok := c.Peek(distance)
		if tok.Kind == lexer.EOF {
			return lexer.Token{}, 0, false
		}
		if predicate(tok) {
			return tok, distance, true
		}
	}
	return lexer.Token{}, 0, false
}

// ScanUntil collects tokens from the current position until stop matches,
// not including the stopping token.
func (c *TokenCursor) ScanUntil(stop func(lexer.Token) bool) []lexer.Token {
	const maxScan = 256
	collected := make([]lexer.Token, 0, 16)
	for i := 0; i < maxScan; i++ {
		tok := c.Peek(i)
		if tok.Kind == lexer.EOF || stop(tok) {
			break
		}
		collected = append(collected, tok)
	}
	return collected
}

// FindNext is a LookAhead convenience for a single token kind.
func (c *TokenCursor) FindNext(k lexer.Kind) (int, bool) {
	_, distance, found := c.LookAhead(func(t lexer.Token) bool { return t.Kind == k })
	return distance, found
}
