package parser

import (
	"github.com/strandscript/libscript/internal/ast"
	"github.com/strandscript/libscript/internal/lexer"
)

// parseIdentifier parses one of SimpleIdentifier, OperatorName,
// LiteralOperatorName, TemplateIdentifier, or ScopedIdentifier.
// pendingClose reports whether a
// trailing `>>` token was split to close this identifier's own template
// argument list, leaving one `>` owed to an enclosing angle-bracket list
// (see template_args.go).
func (p *Parser) parseIdentifier(c *TokenCursor) (id ast.Identifier, next *TokenCursor, pendingClose bool, err *SyntaxError) {
	id, next, pendingClose, err = p.parseIdentifierPrimary(c)
	if err != nil {
		return nil, next, false, err
	}
	for !pendingClose && next.Is(lexer.COLONCOLON) {
		start := id.Span().Start
		next = next.Advance()
		rhs, after, rhsPending, rerr := p.parseIdentifierPrimary(next)
		if rerr != nil {
			return nil, after, false, rerr
		}
		scoped := &ast.ScopedIdentifier{Left: id, Right: rhs}
		scoped.SetSpan(p.span(start, after.Current().Pos))
		id = scoped
		next = after
		pendingClose = rhsPending
	}
	return id, next, pendingClose, nil
}

// parseIdentifierPrimary parses a single (unqualified) identifier segment:
// a plain name, `operator<symbol>`, `operator"" suffix`, or that segment
// followed by a template argument list.
func (p *Parser) parseIdentifierPrimary(c *TokenCursor) (ast.Identifier, *TokenCursor, bool, *SyntaxError) {
	start := c.Current().Pos

	var base ast.Identifier
	var next *TokenCursor

	switch {
	case c.Is(lexer.IDENT):
		base = &ast.SimpleIdentifier{Name: c.Current().Lexeme}
		base.(*ast.SimpleIdentifier).SetSpan(p.span(start, c.Current().End()))
		next = c.Advance()
	case c.Is(lexer.OPERATOR):
		opNext := c.Advance()
		if opNext.Is(lexer.STRING_LITERAL) && opNext.Current().Lexeme == "" {
			suffix := opNext.Current().Suffix
			litEnd := opNext.Advance()
			if suffix == "" && litEnd.Is(lexer.IDENT) {
				// `operator "" _x`: a space detaches the suffix from the
				// empty string literal, so it arrives as its own token.
				suffix = litEnd.Current().Lexeme
				litEnd = litEnd.Advance()
			}
			lit := &ast.LiteralOperatorName{Suffix: suffix}
			lit.SetSpan(p.span(start, litEnd.Current().Pos))
			return lit, litEnd, false, nil
		}
		sym, symNext, serr := p.parseOperatorSymbol(opNext)
		if serr != nil {
			return nil, symNext, false, serr
		}
		opName := &ast.OperatorName{Symbol: sym}
		opName.SetSpan(p.span(start, symNext.Current().Pos))
		return opName, symNext, false, nil
	default:
		return nil, c, false, unexpectedToken(p.file, c.Current(), "an identifier")
	}

	if next.Is(lexer.LESS) {
		if args, after, pending, ok := p.tryParseTemplateArguments(next); ok {
			tmpl := &ast.TemplateIdentifier{Name: base, Arguments: args}
			tmpl.SetSpan(p.span(start, after.Current().Pos))
			return tmpl, after, pending, nil
		}
	}
	return base, next, false, nil
}

// parseOperatorSymbol consumes the operator-symbol tokens following
// `operator` (e.g. `+`, `[]`, `()`, `==`).
func (p *Parser) parseOperatorSymbol(c *TokenCursor) (string, *TokenCursor, *SyntaxError) {
	switch c.Current().Kind {
	case lexer.LBRACK:
		after, ok := expectSeq(c, lexer.LBRACK, lexer.RBRACK)
		if !ok {
			return "", c, unexpectedToken(p.file, c.Current(), "']' to close operator[]")
		}
		return "[]", after, nil
	case lexer.LPAREN:
		after, ok := expectSeq(c, lexer.LPAREN, lexer.RPAREN)
		if !ok {
			return "", c, unexpectedToken(p.file, c.Current(), "')' to close operator()")
		}
		return "()", after, nil
	default:
		if c.Current().Kind.IsOperator() || c.Current().Kind.IsPunctuator() {
			return c.Current().Lexeme, c.Advance(), nil
		}
		return "", c, unexpectedToken(p.file, c.Current(), "an operator symbol")
	}
}

func expectSeq(c *TokenCursor, a, b lexer.Kind) (*TokenCursor, bool) {
	if !c.Is(a) {
		return c, false
	}
	c = c.Advance()
	if !c.Is(b) {
		return c, false
	}
	return c.Advance(), true
}
