package parser

import "github.com/strandscript/libscript/internal/lexer"

// Fragment is a bounded token range with a sentinel predicate: every
// recursive-descent production parses within a
// Fragment rather than an unbounded cursor, so a parser for, say, a
// parameter list can never accidentally read past its closing paren even
// on malformed input.
type Fragment struct {
	Cursor   *TokenCursor
	boundIdx int // index, one past the fragment's last token; -1 means unbounded (drive to EOF)
}

// NewFragment wraps a cursor as an unbounded fragment (bounded only by
// EOF) — the shape used for a whole translation unit.
func NewFragment(c *TokenCursor) *Fragment {
	return &Fragment{Cursor: c, boundIdx: -1}
}

// AtEnd reports whether the fragment has been fully consumed.
func (f *Fragment) AtEnd() bool {
	if f.Cursor.IsEOF() {
		return true
	}
	return f.boundIdx >= 0 && f.Cursor.Index() >= f.boundIdx
}

// Advance returns a fragment positioned one token further within the same
// bound.
func (f *Fragment) Advance() *Fragment {
	return &Fragment{Cursor: f.Cursor.Advance(), boundIdx: f.boundIdx}
}

// WithCursor returns a fragment over the same bound but at cursor c
// (used after a sub-parse returns its resulting cursor).
func (f *Fragment) WithCursor(c *TokenCursor) *Fragment {
	return &Fragment{Cursor: c, boundIdx: f.boundIdx}
}

var bracketPairs = map[lexer.Kind]lexer.Kind{
	lexer.LPAREN: lexer.RPAREN,
	lexer.LBRACE: lexer.RBRACE,
	lexer.LBRACK: lexer.RBRACK,
}

// SubFragment descends into the token range delimited by matched
// brackets/braces/parens. The cursor must be positioned at the opening
// token. It returns a child Fragment bounded to the matching close token
// (exclusive), and a cursor positioned just past that close token for the
// caller to continue from.
func SubFragment(c *TokenCursor, open lexer.Kind) (child *Fragment, after *TokenCursor, ok bool) {
	closeKind, known := bracketPairs[open]
	if !known || !c.Is(open) {
		return nil, c, false
	}
	inner := c.Advance()
	depth := 1
	matchOffset := -1
	for i := 0; ; i++ {
		tok := inner.Peek(i)
		if tok.Kind == lexer.EOF {
			break
		}
		switch tok.Kind {
		case open:
			depth++
		case closeKind:
			depth--
			if depth == 0 {
				matchOffset = i
			}
		}
		if matchOffset >= 0 {
			break
		}
	}
	if matchOffset < 0 {
		return nil, c, false
	}
	closeCursor := inner.AdvanceN(matchOffset)
	return &Fragment{Cursor: inner, boundIdx: closeCursor.Index()}, closeCursor.Advance(), true
}

// FragmentUntil bounds a fragment at the first depth-0 occurrence of a
// token matching stop (depth tracked over parens/braces/brackets so a
// delimiter nested inside a call or initializer list is not mistaken for
// the boundary). It does not consume the stopping token.
func FragmentUntil(c *TokenCursor, stop func(lexer.Token) bool) (child *Fragment, atStop *TokenCursor) {
	depth := 0
	for i := 0; ; i++ {
		tok := c.Peek(i)
		if tok.Kind == lexer.EOF {
			return &Fragment{Cursor: c, boundIdx: c.AdvanceN(i).Index()}, c.AdvanceN(i)
		}
		if depth == 0 && stop(tok) {
			stopCursor := c.AdvanceN(i)
			return &Fragment{Cursor: c, boundIdx: stopCursor.Index()}, stopCursor
		}
		switch tok.Kind {
		case lexer.LPAREN, lexer.LBRACE, lexer.LBRACK:
			depth++
		case lexer.RPAREN, lexer.RBRACE, lexer.RBRACK:
			depth--
		}
	}
}
