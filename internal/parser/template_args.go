package parser

import (
	"github.com/strandscript/libscript/internal/ast"
	"github.com/strandscript/libscript/internal/lexer"
)

// tryParseTemplateArguments speculatively parses `< arg, arg, ... >` as a
// template argument list, backtracking to c (returning ok=false) if the
// contents don't read as one. This is the parser's disambiguation of
// `name<...>` against a less-than expression.
func (p *Parser) tryParseTemplateArguments(c *TokenCursor) (args []ast.Node, next *TokenCursor, pendingClose bool, ok bool) {
	mark := c.Mark()
	if !c.Is(lexer.LESS) {
		return nil, c, false, false
	}
	cur := c.Advance()

	if cur.Is(lexer.GREATER) {
		return nil, cur.Advance(), false, true
	}

	var result []ast.Node
	argPending := false
	for {
		arg, afterArg, pending, err := p.parseTemplateArgument(cur)
		if err != nil {
			return nil, c.ResetTo(mark), false, false
		}
		result = append(result, arg)
		cur = afterArg
		argPending = pending

		if !argPending && cur.Is(lexer.COMMA) {
			cur = cur.Advance()
			continue
		}
		break
	}

	closeCursor, stillPending, closed := consumeAngleClose(cur, argPending)
	if !closed {
		return nil, c.ResetTo(mark), false, false
	}
	return result, closeCursor, stillPending, true
}

// parseTemplateArgument parses one template argument: a type-id (the
// common case for class template arguments) or, failing that, a constant
// expression (for non-type template arguments). Named types parse through
// the identifier path directly so a nested template-id's split `>>` close
// (pendingClose) survives to this level — parseTypeId would swallow it.
func (p *Parser) parseTemplateArgument(c *TokenCursor) (ast.Node, *TokenCursor, bool, *SyntaxError) {
	mark := c.Mark()

	if ty, after, pending, ok := p.tryParseNamedTypeArgument(c); ok {
		return ty, after, pending, nil
	}
	c = c.ResetTo(mark)

	if ty, after, terr := p.parseTypeId(c); terr == nil {
		return ty, after, false, nil
	}
	c = c.ResetTo(mark)
	expr, after, pending, eerr := p.parseTemplateArgumentExpression(c)
	if eerr != nil {
		return nil, after, false, eerr
	}
	return expr, after, pending, nil
}

// tryParseNamedTypeArgument speculatively parses `[const] name [& | &&]`
// where name may itself carry a template argument list, reporting whether
// that list's close split a `>>` token.
func (p *Parser) tryParseNamedTypeArgument(c *TokenCursor) (ast.TypeNode, *TokenCursor, bool, bool) {
	start := c.Current().Pos
	constFlag := false
	if c.Is(lexer.CONST) {
		constFlag = true
		c = c.Advance()
	}

	var name ast.Identifier
	var next *TokenCursor
	pending := false
	if primitiveTypeKeywords[c.Current().Kind] {
		id := &ast.SimpleIdentifier{Name: c.Current().Lexeme}
		id.SetSpan(p.span(c.Current().Pos, c.Current().End()))
		name, next = id, c.Advance()
	} else if c.Is(lexer.IDENT) {
		var err *SyntaxError
		name, next, pending, err = p.parseIdentifier(c)
		if err != nil {
			return nil, c, false, false
		}
	} else {
		return nil, c, false, false
	}

	ref := ast.NoRef
	if !pending {
		ref, next = parseRefSuffix(next)
	}

	// Only accept when the argument genuinely ends here: at a separator,
	// at this level's close, or with the close already owed via `>>`.
	if !pending {
		switch next.Current().Kind {
		case lexer.COMMA, lexer.GREATER, lexer.SHR:
		default:
			return nil, c, false, false
		}
	}
	nt := &ast.NamedType{Const: constFlag, Name: name, Ref: ref}
	nt.SetSpan(p.span(start, next.Current().Pos))
	return nt, next, pending, true
}

// parseTemplateArgumentExpression parses an assignment-level expression as
// a non-type template argument. Its pending result is always false: it
// never reports a split `>>`.
func (p *Parser) parseTemplateArgumentExpression(c *TokenCursor) (ast.Expression, *TokenCursor, bool, *SyntaxError) {
	expr, after, err := p.parseAssignmentExpression(c)
	if err != nil {
		return nil, after, false, err
	}
	return expr, after, false, nil
}

// consumeAngleClose consumes the `>` (or the `>` half of a split `>>`)
// that closes one level of template argument list.
//
// havePending is true when the immediately preceding argument already
// reported that a `>>` token was split to close one nested level; in that
// case this level's close is satisfied for free, with no token consumed.
// Otherwise a literal `>` consumes and closes this level, while a `>>`
// consumes the whole token, closes this level, and reports stillPending so
// the caller (one angle-bracket list further out) treats its own close as
// already satisfied.
func consumeAngleClose(c *TokenCursor, havePending bool) (next *TokenCursor, stillPending bool, ok bool) {
	if havePending {
		return c, false, true
	}
	switch c.Current().Kind {
	case lexer.GREATER:
		return c.Advance(), false, true
	case lexer.SHR:
		return c.Advance(), true, true
	default:
		return c, false, false
	}
}
