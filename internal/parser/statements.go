package parser

import (
	"github.com/strandscript/libscript/internal/ast"
	"github.com/strandscript/libscript/internal/lexer"
)

// parseCompoundStatement parses `{ stmt... }`. The cursor must be
// positioned at the opening brace.
func (p *Parser) parseCompoundStatement(c *TokenCursor) (*ast.CompoundStatement, *TokenCursor, *SyntaxError) {
	start := c.Current().Pos
	child, after, ok := SubFragment(c, lexer.LBRACE)
	if !ok {
		return nil, c, unexpectedToken(p.file, c.Current(), "'}'")
	}
	var stmts []ast.Statement
	for !child.AtEnd() {
		stmt, next, err := p.parseStatement(child.Cursor)
		if err != nil {
			return nil, next, err
		}
		stmts = append(stmts, stmt)
		child = child.WithCursor(next)
	}
	cs := &ast.CompoundStatement{Statements: stmts}
	cs.SetSpan(p.span(start, after.Current().Pos))
	return cs, after, nil
}

// parseStatement dispatches on the leading keyword: null, expression,
// compound, if/else, while, for, return, break, continue, or a local
// declaration.
func (p *Parser) parseStatement(c *TokenCursor) (ast.Statement, *TokenCursor, *SyntaxError) {
	start := c.Current().Pos
	switch c.Current().Kind {
	case lexer.SEMICOLON:
		ns := &ast.NullStatement{}
		ns.SetSpan(p.span(start, c.Advance().Current().Pos))
		return ns, c.Advance(), nil
	case lexer.LBRACE:
		return p.parseCompoundStatement(c)
	case lexer.IF:
		return p.parseIfStatement(c)
	case lexer.WHILE:
		return p.parseWhileStatement(c)
	case lexer.FOR:
		return p.parseForStatement(c)
	case lexer.RETURN:
		return p.parseReturnStatement(c)
	case lexer.BREAK:
		after := c.Advance()
		after, ok := after.Expect(lexer.SEMICOLON)
		if !ok {
			return nil, after, unexpectedToken(p.file, after.Current(), "';'")
		}
		bs := &ast.BreakStatement{}
		bs.SetSpan(p.span(start, after.Current().Pos))
		return bs, after, nil
	case lexer.CONTINUE:
		after := c.Advance()
		after, ok := after.Expect(lexer.SEMICOLON)
		if !ok {
			return nil, after, unexpectedToken(p.file, after.Current(), "';'")
		}
		cs := &ast.ContinueStatement{}
		cs.SetSpan(p.span(start, after.Current().Pos))
		return cs, after, nil
	default:
		if p.looksLikeLocalDeclaration(c) {
			decl, next, err := p.parseVariableOrFunctionDeclaration(c)
			if err != nil {
				return nil, next, err
			}
			ds := &ast.DeclarationStatement{Decl: decl}
			ds.SetSpan(p.span(start, next.Current().Pos))
			return ds, next, nil
		}
		expr, next, err := p.parseExpression(c)
		if err != nil {
			return nil, next, err
		}
		next, ok := next.Expect(lexer.SEMICOLON)
		if !ok {
			return nil, next, unexpectedToken(p.file, next.Current(), "';'")
		}
		es := &ast.ExpressionStatement{Expr: expr}
		es.SetSpan(p.span(start, next.Current().Pos))
		return es, next, nil
	}
}

func (p *Parser) parseIfStatement(c *TokenCursor) (ast.Statement, *TokenCursor, *SyntaxError) {
	start := c.Current().Pos
	c = c.Advance() // 'if'
	child, after, ok := SubFragment(c, lexer.LPAREN)
	if !ok {
		return nil, c, unexpectedToken(p.file, c.Current(), "'(' after 'if'")
	}
	cond, cerr := p.parseExpressionInFragment(child)
	if cerr != nil {
		return nil, after, cerr
	}
	thenStmt, next, terr := p.parseStatement(after)
	if terr != nil {
		return nil, next, terr
	}
	var elseStmt ast.Statement
	if next.Is(lexer.ELSE) {
		var eerr *SyntaxError
		elseStmt, next, eerr = p.parseStatement(next.Advance())
		if eerr != nil {
			return nil, next, eerr
		}
	}
	is := &ast.IfStatement{Condition: cond, Then: thenStmt, Else: elseStmt}
	is.SetSpan(p.span(start, next.Current().Pos))
	return is, next, nil
}

func (p *Parser) parseWhileStatement(c *TokenCursor) (ast.Statement, *TokenCursor, *SyntaxError) {
	start := c.Current().Pos
	c = c.Advance() // 'while'
	child, after, ok := SubFragment(c, lexer.LPAREN)
	if !ok {
		return nil, c, unexpectedToken(p.file, c.Current(), "'(' after 'while'")
	}
	cond, cerr := p.parseExpressionInFragment(child)
	if cerr != nil {
		return nil, after, cerr
	}
	body, next, berr := p.parseStatement(after)
	if berr != nil {
		return nil, next, berr
	}
	ws := &ast.WhileStatement{Condition: cond, Body: body}
	ws.SetSpan(p.span(start, next.Current().Pos))
	return ws, next, nil
}

func (p *Parser) parseForStatement(c *TokenCursor) (ast.Statement, *TokenCursor, *SyntaxError) {
	start := c.Current().Pos
	c = c.Advance() // 'for'
	child, after, ok := SubFragment(c, lexer.LPAREN)
	if !ok {
		return nil, c, unexpectedToken(p.file, c.Current(), "'(' after 'for'")
	}

	var initStmt ast.Statement
	if child.Cursor.Is(lexer.SEMICOLON) {
		ns := &ast.NullStatement{}
		child = child.WithCursor(child.Cursor.Advance())
		initStmt = ns
	} else if p.looksLikeLocalDeclaration(child.Cursor) {
		decl, next, derr := p.parseVariableOrFunctionDeclaration(child.Cursor)
		if derr != nil {
			return nil, next, derr
		}
		initStmt = &ast.DeclarationStatement{Decl: decl}
		child = child.WithCursor(next)
	} else {
		expr, next, eerr := p.parseExpression(child.Cursor)
		if eerr != nil {
			return nil, next, eerr
		}
		next, ok := next.Expect(lexer.SEMICOLON)
		if !ok {
			return nil, next, unexpectedToken(p.file, next.Current(), "';'")
		}
		initStmt = &ast.ExpressionStatement{Expr: expr}
		child = child.WithCursor(next)
	}

	var cond ast.Expression
	if !child.Cursor.Is(lexer.SEMICOLON) {
		var cerr *SyntaxError
		cond, _, cerr = p.parseExpression(child.Cursor)
		if cerr != nil {
			return nil, child.Cursor, cerr
		}
		var skErr error
		_ = skErr
		next, cerr2 := p.advancePastExpression(child.Cursor)
		if cerr2 != nil {
			return nil, next, cerr2
		}
		child = child.WithCursor(next)
	}
	child = child.WithCursor(mustSkip(child.Cursor, lexer.SEMICOLON))

	var post ast.Expression
	if !child.AtEnd() {
		var perr *SyntaxError
		var next *TokenCursor
		post, next, perr = p.parseExpression(child.Cursor)
		if perr != nil {
			return nil, next, perr
		}
		child = child.WithCursor(next)
	}

	body, next, berr := p.parseStatement(after)
	if berr != nil {
		return nil, next, berr
	}
	fs := &ast.ForStatement{Init: initStmt, Cond: cond, Post: post, Body: body}
	fs.SetSpan(p.span(start, next.Current().Pos))
	return fs, next, nil
}

func (p *Parser) advancePastExpression(c *TokenCursor) (*TokenCursor, *SyntaxError) {
	_, next, err := p.parseExpression(c)
	return next, err
}

func mustSkip(c *TokenCursor, k lexer.Kind) *TokenCursor {
	next, ok := c.Skip(k)
	if !ok {
		return c
	}
	return next
}

func (p *Parser) parseReturnStatement(c *TokenCursor) (ast.Statement, *TokenCursor, *SyntaxError) {
	start := c.Current().Pos
	c = c.Advance() // 'return'
	if c.Is(lexer.SEMICOLON) {
		rs := &ast.ReturnStatement{}
		rs.SetSpan(p.span(start, c.Advance().Current().Pos))
		return rs, c.Advance(), nil
	}
	value, next, err := p.parseExpression(c)
	if err != nil {
		return nil, next, err
	}
	next, ok := next.Expect(lexer.SEMICOLON)
	if !ok {
		return nil, next, unexpectedToken(p.file, next.Current(), "';'")
	}
	rs := &ast.ReturnStatement{Value: value}
	rs.SetSpan(p.span(start, next.Current().Pos))
	return rs, next, nil
}

// looksLikeLocalDeclaration reports whether the upcoming tokens read as a
// type-id followed by a declarator-introducing token (name then
// `;`/`=`/`(`/`{`).
func (p *Parser) looksLikeLocalDeclaration(c *TokenCursor) bool {
	switch c.Current().Kind {
	case lexer.CONST, lexer.AUTO:
		return true
	}
	if !primitiveTypeKeywords[c.Current().Kind] && !c.Is(lexer.IDENT) {
		return false
	}
	mark := c.Mark()
	_, next, err := p.parseTypeId(c)
	if err == nil && next.Is(lexer.OPERATOR) {
		// `<ret> operator...` introduces a free operator or literal
		// operator declaration.
		return true
	}
	ok := err == nil && next.Is(lexer.IDENT)
	_ = mark
	if !ok {
		return false
	}
	afterName := next.Advance()
	switch afterName.Current().Kind {
	case lexer.SEMICOLON, lexer.ASSIGN, lexer.LPAREN, lexer.LBRACE:
		return true
	default:
		return false
	}
}
