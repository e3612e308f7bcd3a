package parser

import (
	"strconv"

	"github.com/strandscript/libscript/internal/ast"
	"github.com/strandscript/libscript/internal/lexer"
	"github.com/strandscript/libscript/internal/source"
)

// precedence levels for the Pratt operator-precedence subparser,
// following the C-family table. Higher binds tighter.
const (
	precNone = iota
	precAssignment
	precConditional
	precLogicalOr
	precLogicalAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
)

var binaryPrecedence = map[lexer.Kind]int{
	lexer.OR_OR: precLogicalOr, lexer.AND_AND: precLogicalAnd,
	lexer.PIPE: precBitOr, lexer.CARET: precBitXor, lexer.AMP: precBitAnd,
	lexer.EQ: precEquality, lexer.NEQ: precEquality,
	lexer.LESS: precRelational, lexer.GREATER: precRelational, lexer.LE: precRelational, lexer.GE: precRelational,
	lexer.SHL: precShift, lexer.SHR: precShift,
	lexer.PLUS: precAdditive, lexer.MINUS: precAdditive,
	lexer.STAR: precMultiplicative, lexer.SLASH: precMultiplicative, lexer.PERCENT: precMultiplicative,
}

var assignmentOperators = map[lexer.Kind]bool{
	lexer.ASSIGN: true, lexer.PLUS_ASSIGN: true, lexer.MINUS_ASSIGN: true,
	lexer.STAR_ASSIGN: true, lexer.SLASH_ASSIGN: true, lexer.PERCENT_ASSIGN: true,
	lexer.CARET_ASSIGN: true, lexer.AMP_ASSIGN: true, lexer.PIPE_ASSIGN: true,
	lexer.SHL_ASSIGN: true, lexer.SHR_ASSIGN: true,
}

// parseExpression parses a full expression at assignment precedence, the
// entry point used by statement and initializer productions.
func (p *Parser) parseExpression(c *TokenCursor) (ast.Expression, *TokenCursor, *SyntaxError) {
	return p.parseAssignmentExpression(c)
}

func (p *Parser) parseAssignmentExpression(c *TokenCursor) (ast.Expression, *TokenCursor, *SyntaxError) {
	start := c.Current().Pos
	left, next, err := p.parseConditionalExpression(c)
	if err != nil {
		return nil, next, err
	}
	if assignmentOperators[next.Current().Kind] {
		op := next.Current().Lexeme
		next = next.Advance()
		right, after, rerr := p.parseAssignmentExpression(next)
		if rerr != nil {
			return nil, after, rerr
		}
		be := &ast.BinaryExpression{Left: left, Operator: op, Right: right}
		be.SetSpan(p.span(start, after.Current().Pos))
		return be, after, nil
	}
	return left, next, nil
}

func (p *Parser) parseConditionalExpression(c *TokenCursor) (ast.Expression, *TokenCursor, *SyntaxError) {
	start := c.Current().Pos
	cond, next, err := p.parseBinaryExpression(c, precLogicalOr)
	if err != nil {
		return nil, next, err
	}
	if next.Is(lexer.QUESTION) {
		next = next.Advance()
		thenExpr, afterThen, terr := p.parseAssignmentExpression(next)
		if terr != nil {
			return nil, afterThen, terr
		}
		afterThen, ok := afterThen.Expect(lexer.COLON)
		if !ok {
			return nil, afterThen, unexpectedToken(p.file, afterThen.Current(), "':' in conditional expression")
		}
		elseExpr, afterElse, eerr := p.parseAssignmentExpression(afterThen)
		if eerr != nil {
			return nil, afterElse, eerr
		}
		ce := &ast.ConditionalExpression{Condition: cond, Then: thenExpr, Else: elseExpr}
		ce.SetSpan(p.span(start, afterElse.Current().Pos))
		return ce, afterElse, nil
	}
	return cond, next, nil
}

// parseBinaryExpression implements precedence climbing: min is the lowest
// precedence this call is willing to consume.
func (p *Parser) parseBinaryExpression(c *TokenCursor, min int) (ast.Expression, *TokenCursor, *SyntaxError) {
	start := c.Current().Pos
	left, next, err := p.parseUnaryExpression(c)
	if err != nil {
		return nil, next, err
	}
	for {
		prec, isBinary := binaryPrecedence[next.Current().Kind]
		if !isBinary || prec < min {
			return left, next, nil
		}
		op := next.Current().Lexeme
		rhsCursor := next.Advance()
		right, after, rerr := p.parseBinaryExpression(rhsCursor, prec+1)
		if rerr != nil {
			return nil, after, rerr
		}
		be := &ast.BinaryExpression{Left: left, Operator: op, Right: right}
		be.SetSpan(p.span(start, after.Current().Pos))
		left = be
		next = after
	}
}

var prefixOperators = map[lexer.Kind]bool{
	lexer.MINUS: true, lexer.PLUS: true, lexer.BANG: true, lexer.TILDE: true,
	lexer.STAR: true, lexer.AMP: true, lexer.INC: true, lexer.DEC: true,
}

func (p *Parser) parseUnaryExpression(c *TokenCursor) (ast.Expression, *TokenCursor, *SyntaxError) {
	start := c.Current().Pos
	if prefixOperators[c.Current().Kind] {
		op := c.Current().Lexeme
		operand, next, err := p.parseUnaryExpression(c.Advance())
		if err != nil {
			return nil, next, err
		}
		ue := &ast.UnaryExpression{Operator: op, Operand: operand}
		ue.SetSpan(p.span(start, next.Current().Pos))
		return ue, next, nil
	}
	return p.parsePostfixExpression(c)
}

func (p *Parser) parsePostfixExpression(c *TokenCursor) (ast.Expression, *TokenCursor, *SyntaxError) {
	start := c.Current().Pos
	expr, next, err := p.parsePrimaryExpression(c)
	if err != nil {
		return nil, next, err
	}
	for {
		switch {
		case next.Is(lexer.LPAREN):
			child, after, ok := SubFragment(next, lexer.LPAREN)
			if !ok {
				return nil, next, unexpectedToken(p.file, next.Current(), "')'")
			}
			args, aerr := p.parseArgumentList(child)
			if aerr != nil {
				return nil, next, aerr
			}
			call := &ast.CallExpression{Callee: expr, Arguments: args}
			call.SetSpan(p.span(start, after.Current().Pos))
			expr, next = call, after
		case next.Is(lexer.LBRACK):
			child, after, ok := SubFragment(next, lexer.LBRACK)
			if !ok {
				return nil, next, unexpectedToken(p.file, next.Current(), "']'")
			}
			index, ierr := p.parseExpressionInFragment(child)
			if ierr != nil {
				return nil, next, ierr
			}
			sub := &ast.SubscriptExpression{Array: expr, Index: index}
			sub.SetSpan(p.span(start, after.Current().Pos))
			expr, next = sub, after
		case next.Is(lexer.DOT), next.Is(lexer.ARROW):
			arrow := next.Is(lexer.ARROW)
			next = next.Advance()
			member, after, _, merr := p.parseIdentifierPrimary(next)
			if merr != nil {
				return nil, after, merr
			}
			me := &ast.MemberExpression{Target: expr, Member: member, Arrow: arrow}
			me.SetSpan(p.span(start, after.Current().Pos))
			expr, next = me, after
		case next.Is(lexer.ARROW_STAR):
			next = next.Advance()
			ptr, after, perr := p.parseUnaryExpression(next)
			if perr != nil {
				return nil, after, perr
			}
			pe := &ast.PointerToMemberExpression{Target: expr, MemberPointer: ptr}
			pe.SetSpan(p.span(start, after.Current().Pos))
			expr, next = pe, after
		case next.Is(lexer.INC), next.Is(lexer.DEC):
			op := next.Current().Lexeme
			after := next.Advance()
			pf := &ast.PostfixExpression{Operand: expr, Operator: op}
			pf.SetSpan(p.span(start, after.Current().Pos))
			expr, next = pf, after
		default:
			return expr, next, nil
		}
	}
}

func (p *Parser) parseArgumentList(f *Fragment) ([]ast.Expression, *SyntaxError) {
	var args []ast.Expression
	for !f.AtEnd() {
		arg, next, err := p.parseAssignmentExpression(f.Cursor)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		f = f.WithCursor(next)
		if f.Cursor.Is(lexer.COMMA) {
			f = f.WithCursor(f.Cursor.Advance())
			continue
		}
		break
	}
	return args, nil
}

func (p *Parser) parseExpressionInFragment(f *Fragment) (ast.Expression, *SyntaxError) {
	expr, _, err := p.parseAssignmentExpression(f.Cursor)
	return expr, err
}

func (p *Parser) parsePrimaryExpression(c *TokenCursor) (ast.Expression, *TokenCursor, *SyntaxError) {
	start := c.Current().Pos
	tok := c.Current()
	switch tok.Kind {
	case lexer.INT_LITERAL:
		v, _ := strconv.ParseInt(trimDigitSeparators(tok.Lexeme), 0, 64)
		lit := &ast.IntLiteral{Lexeme: tok.Lexeme, Value: v, Suffix: tok.Suffix}
		lit.SetSpan(p.span(start, tok.End()))
		return lit, c.Advance(), nil
	case lexer.FLOAT_LITERAL:
		v, _ := strconv.ParseFloat(trimDigitSeparators(tok.Lexeme), 64)
		lit := &ast.FloatLiteral{Lexeme: tok.Lexeme, Value: v, Suffix: tok.Suffix}
		lit.SetSpan(p.span(start, tok.End()))
		return lit, c.Advance(), nil
	case lexer.STRING_LITERAL:
		lit := &ast.StringLiteral{Value: tok.Lexeme, Suffix: tok.Suffix}
		lit.SetSpan(p.span(start, tok.End()))
		return lit, c.Advance(), nil
	case lexer.CHAR_LITERAL:
		r := rune(0)
		if len(tok.Lexeme) > 0 {
			r = []rune(tok.Lexeme)[0]
		}
		lit := &ast.CharLiteral{Value: r, Suffix: tok.Suffix}
		lit.SetSpan(p.span(start, tok.End()))
		return lit, c.Advance(), nil
	case lexer.TRUE, lexer.FALSE:
		lit := &ast.BoolLiteral{Value: tok.Kind == lexer.TRUE}
		lit.SetSpan(p.span(start, tok.End()))
		return lit, c.Advance(), nil
	case lexer.NULLPTR:
		lit := &ast.NullptrLiteral{}
		lit.SetSpan(p.span(start, tok.End()))
		return lit, c.Advance(), nil
	case lexer.THIS:
		lit := &ast.ThisExpression{}
		lit.SetSpan(p.span(start, tok.End()))
		return lit, c.Advance(), nil
	case lexer.LPAREN:
		child, after, ok := SubFragment(c, lexer.LPAREN)
		if !ok {
			return nil, c, unexpectedToken(p.file, c.Current(), "')'")
		}
		inner, err := p.parseExpressionInFragment(child)
		if err != nil {
			return nil, after, err
		}
		g := &ast.GroupedExpression{Inner: inner}
		g.SetSpan(p.span(start, after.Current().Pos))
		return g, after, nil
	case lexer.LBRACK:
		return p.parseArrayOrLambdaExpression(c)
	case lexer.LBRACE:
		return p.parseListExpression(c)
	case lexer.IDENT, lexer.OPERATOR:
		id, next, _, err := p.parseIdentifier(c)
		if err != nil {
			return nil, next, err
		}
		if next.Is(lexer.LBRACE) {
			return p.parseBraceConstruction(next, nameToType(id), start, true)
		}
		return id, next, nil
	default:
		return nil, c, unexpectedToken(p.file, c.Current(), "an expression")
	}
}

func (p *Parser) parseListExpression(c *TokenCursor) (ast.Expression, *TokenCursor, *SyntaxError) {
	start := c.Current().Pos
	child, after, ok := SubFragment(c, lexer.LBRACE)
	if !ok {
		return nil, c, unexpectedToken(p.file, c.Current(), "'}'")
	}
	elements, err := p.parseExpressionElementList(child)
	if err != nil {
		return nil, after, err
	}
	le := &ast.ListExpression{Elements: elements}
	le.SetSpan(p.span(start, after.Current().Pos))
	return le, after, nil
}

// parseBraceConstruction parses `Type{args...}`, an explicit construction
// expression following a parsed type name.
func (p *Parser) parseBraceConstruction(c *TokenCursor, ty ast.TypeNode, start source.Position, braced bool) (ast.Expression, *TokenCursor, *SyntaxError) {
	child, after, ok := SubFragment(c, lexer.LBRACE)
	if !ok {
		return nil, c, unexpectedToken(p.file, c.Current(), "'}'")
	}
	args, err := p.parseExpressionElementList(child)
	if err != nil {
		return nil, after, err
	}
	bc := &ast.BraceConstructionExpression{Type: ty, Arguments: args, Braced: braced}
	bc.SetSpan(p.span(start, after.Current().Pos))
	return bc, after, nil
}

func (p *Parser) parseExpressionElementList(f *Fragment) ([]ast.Expression, *SyntaxError) {
	var elems []ast.Expression
	for !f.AtEnd() {
		e, next, err := p.parseAssignmentExpression(f.Cursor)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		f = f.WithCursor(next)
		if f.Cursor.Is(lexer.COMMA) {
			f = f.WithCursor(f.Cursor.Advance())
			continue
		}
		break
	}
	return elems, nil
}

func (p *Parser) parseArrayOrLambdaExpression(c *TokenCursor) (ast.Expression, *TokenCursor, *SyntaxError) {
	if looksLikeLambda(c) {
		return p.parseLambdaExpression(c)
	}
	start := c.Current().Pos
	child, after, ok := SubFragment(c, lexer.LBRACK)
	if !ok {
		return nil, c, unexpectedToken(p.file, c.Current(), "']'")
	}
	elements, err := p.parseExpressionElementList(child)
	if err != nil {
		return nil, after, err
	}
	ae := &ast.ArrayExpression{Elements: elements}
	ae.SetSpan(p.span(start, after.Current().Pos))
	return ae, after, nil
}

// looksLikeLambda distinguishes `[captures](...)` from an array-literal
// `[e1, e2]`: a lambda's bracket contents are either empty, `=`, `&`, or a
// comma-separated list of (possibly `&`-prefixed, possibly `this`) bare
// names — never a full expression.
func looksLikeLambda(c *TokenCursor) bool {
	child, after, ok := SubFragment(c, lexer.LBRACK)
	if !ok {
		return false
	}
	// `[a, b]` is an array of variables, not a capture list: only the
	// parameter list or body following the bracket settles it.
	if !after.Is(lexer.LPAREN) && !after.Is(lexer.LBRACE) && !after.Is(lexer.ARROW) {
		return false
	}
	for !child.AtEnd() {
		tok := child.Cursor.Current()
		switch tok.Kind {
		case lexer.ASSIGN, lexer.AMP, lexer.COMMA, lexer.THIS, lexer.IDENT:
			child = child.Advance()
		default:
			return false
		}
	}
	return true
}

func trimDigitSeparators(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '_' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
