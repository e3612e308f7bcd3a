package parser

import (
	"github.com/strandscript/libscript/internal/ast"
	"github.com/strandscript/libscript/internal/lexer"
	"github.com/strandscript/libscript/internal/source"
)

// parseParameterList parses the comma-separated contents of a parameter
// list fragment: `type [name] [= default]` entries.
func (p *Parser) parseParameterList(f *Fragment) ([]*ast.ParameterDeclaration, *SyntaxError) {
	var params []*ast.ParameterDeclaration
	for !f.AtEnd() {
		start := f.Cursor.Current().Pos
		ty, next, err := p.parseTypeId(f.Cursor)
		if err != nil {
			return nil, err
		}
		var name ast.Identifier
		if next.Is(lexer.IDENT) {
			var nerr *SyntaxError
			name, next, _, nerr = p.parseIdentifier(next)
			if nerr != nil {
				return nil, nerr
			}
		}
		var def ast.Expression
		if next.Is(lexer.ASSIGN) {
			var derr *SyntaxError
			def, next, derr = p.parseAssignmentExpression(next.Advance())
			if derr != nil {
				return nil, derr
			}
		}
		param := &ast.ParameterDeclaration{Type: ty, Name: name, Default: def}
		param.SetSpan(p.span(start, next.Current().Pos))
		params = append(params, param)
		f = f.WithCursor(next)
		if f.Cursor.Is(lexer.COMMA) {
			f = f.WithCursor(f.Cursor.Advance())
			continue
		}
		break
	}
	return params, nil
}

// parseVariableOrFunctionDeclaration parses `[modifiers] type name ...`,
// disambiguating a variable from a function declaration by whether `(`
// follows the name.
func (p *Parser) parseVariableOrFunctionDeclaration(c *TokenCursor) (ast.Declaration, *TokenCursor, *SyntaxError) {
	start := c.Current().Pos
	var flags ast.FunctionFlags
	for {
		switch c.Current().Kind {
		case lexer.STATIC:
			flags.Static = true
			c = c.Advance()
		case lexer.VIRTUAL:
			flags.Virtual = true
			c = c.Advance()
		case lexer.EXPLICIT:
			flags.Explicit = true
			c = c.Advance()
		default:
			goto modifiersDone
		}
	}
modifiersDone:

	ty, next, terr := p.parseTypeId(c)
	if terr != nil {
		return nil, next, terr
	}
	name, next, _, nerr := p.parseIdentifier(next)
	if nerr != nil {
		return nil, next, nerr
	}

	if next.Is(lexer.LPAREN) {
		return p.parseFunctionDeclarationTail(start, ty, name, flags, next)
	}

	init, next, ierr := p.parseInitialization(next)
	if ierr != nil {
		return nil, next, ierr
	}
	next, ok := next.Expect(lexer.SEMICOLON)
	if !ok {
		return nil, next, unexpectedToken(p.file, next.Current(), "';'")
	}
	vd := &ast.VariableDeclaration{Type: ty, Name: name, Init: init}
	vd.SetSpan(p.span(start, next.Current().Pos))
	return vd, next, nil
}

// parseFunctionDeclarationTail parses `(params) [const] <body>;` following
// an already-parsed return type and name.
func (p *Parser) parseFunctionDeclarationTail(start source.Position, ty ast.TypeNode, name ast.Identifier, flags ast.FunctionFlags, c *TokenCursor) (ast.Declaration, *TokenCursor, *SyntaxError) {
	paramFragment, after, ok := SubFragment(c, lexer.LPAREN)
	if !ok {
		return nil, c, unexpectedToken(p.file, c.Current(), "')'")
	}
	params, perr := p.parseParameterList(paramFragment)
	if perr != nil {
		return nil, after, perr
	}
	if after.Is(lexer.CONST) {
		flags.Const = true
		after = after.Advance()
	}
	body, next, flags2, berr := p.parseFunctionBodyOrSpecifier(after)
	if berr != nil {
		return nil, next, berr
	}
	flags.Deleted = flags.Deleted || flags2.Deleted
	flags.Defaulted = flags.Defaulted || flags2.Defaulted
	flags.PureVirtual = flags.PureVirtual || flags2.PureVirtual
	fd := &ast.FunctionDeclaration{ReturnType: ty, Name: name, Parameters: params, Body: body, Flags: flags}
	fd.SetSpan(p.span(start, next.Current().Pos))
	return fd, next, nil
}

// parseFunctionBodyOrSpecifier parses either `{ body }`, `= 0;`,
// `= delete;`, `= default;`, or a bare `;` declaration.
func (p *Parser) parseFunctionBodyOrSpecifier(c *TokenCursor) (*ast.CompoundStatement, *TokenCursor, ast.FunctionFlags, *SyntaxError) {
	var flags ast.FunctionFlags
	switch {
	case c.Is(lexer.SEMICOLON):
		return nil, c.Advance(), flags, nil
	case c.Is(lexer.ASSIGN):
		c = c.Advance()
		switch {
		case c.Is(lexer.INT_LITERAL) && c.Current().Lexeme == "0":
			flags.PureVirtual = true
			c = c.Advance()
		case c.Is(lexer.DELETE):
			flags.Deleted = true
			c = c.Advance()
		case c.Is(lexer.DEFAULT):
			flags.Defaulted = true
			c = c.Advance()
		default:
			return nil, c, flags, unexpectedToken(p.file, c.Current(), "'0', 'delete', or 'default'")
		}
		c, ok := c.Expect(lexer.SEMICOLON)
		if !ok {
			return nil, c, flags, unexpectedToken(p.file, c.Current(), "';'")
		}
		return nil, c, flags, nil
	case c.Is(lexer.LBRACE):
		body, next, err := p.parseCompoundStatement(c)
		return body, next, flags, err
	default:
		return nil, c, flags, unexpectedToken(p.file, c.Current(), "a function body")
	}
}

// parseInitialization parses the optional initializer following a
// variable's declarator.
func (p *Parser) parseInitialization(c *TokenCursor) (ast.Initialization, *TokenCursor, *SyntaxError) {
	start := c.Current().Pos
	switch {
	case c.Is(lexer.ASSIGN):
		c = c.Advance()
		value, next, err := p.parseAssignmentExpression(c)
		if err != nil {
			return nil, next, err
		}
		ci := &ast.CopyInitialization{Value: value}
		ci.SetSpan(p.span(start, next.Current().Pos))
		return ci, next, nil
	case c.Is(lexer.LPAREN):
		child, after, ok := SubFragment(c, lexer.LPAREN)
		if !ok {
			return nil, c, unexpectedToken(p.file, c.Current(), "')'")
		}
		args, err := p.parseArgumentList(child)
		if err != nil {
			return nil, after, err
		}
		di := &ast.DirectInitialization{Arguments: args}
		di.SetSpan(p.span(start, after.Current().Pos))
		return di, after, nil
	case c.Is(lexer.LBRACE):
		child, after, ok := SubFragment(c, lexer.LBRACE)
		if !ok {
			return nil, c, unexpectedToken(p.file, c.Current(), "'}'")
		}
		elems, err := p.parseExpressionElementList(child)
		if err != nil {
			return nil, after, err
		}
		li := &ast.ListInitialization{Elements: elems}
		li.SetSpan(p.span(start, after.Current().Pos))
		return li, after, nil
	default:
		di := &ast.DefaultInitialization{}
		di.SetSpan(p.span(start, start))
		return di, c, nil
	}
}

// parseTypedef parses `typedef type name;`.
func (p *Parser) parseTypedef(c *TokenCursor) (ast.Declaration, *TokenCursor, *SyntaxError) {
	start := c.Current().Pos
	c = c.Advance() // 'typedef'
	ty, next, terr := p.parseTypeId(c)
	if terr != nil {
		return nil, next, terr
	}
	name, next, _, nerr := p.parseIdentifier(next)
	if nerr != nil {
		return nil, next, nerr
	}
	next, ok := next.Expect(lexer.SEMICOLON)
	if !ok {
		return nil, next, unexpectedToken(p.file, next.Current(), "';'")
	}
	td := &ast.TypedefDeclaration{Type: ty, Name: name}
	td.SetSpan(p.span(start, next.Current().Pos))
	return td, next, nil
}

// parseUsing dispatches among `using namespace N;`, `using Name = Type;`,
// and `using X::Y;`.
func (p *Parser) parseUsing(c *TokenCursor) (ast.Declaration, *TokenCursor, *SyntaxError) {
	start := c.Current().Pos
	c = c.Advance() // 'using'

	if c.Current().Kind == lexer.NAMESPACE {
		c = c.Advance()
		ns, next, _, err := p.parseIdentifier(c)
		if err != nil {
			return nil, next, err
		}
		next, ok := next.Expect(lexer.SEMICOLON)
		if !ok {
			return nil, next, unexpectedToken(p.file, next.Current(), "';'")
		}
		ud := &ast.UsingDirective{Namespace: ns}
		ud.SetSpan(p.span(start, next.Current().Pos))
		return ud, next, nil
	}

	name, next, _, err := p.parseIdentifier(c)
	if err != nil {
		return nil, next, err
	}

	if next.Is(lexer.ASSIGN) {
		next = next.Advance()
		ty, after, terr := p.parseTypeId(next)
		if terr != nil {
			return nil, after, terr
		}
		after, ok := after.Expect(lexer.SEMICOLON)
		if !ok {
			return nil, after, unexpectedToken(p.file, after.Current(), "';'")
		}
		alias := &ast.UsingTypeAlias{Name: name, Type: ty}
		alias.SetSpan(p.span(start, after.Current().Pos))
		return alias, after, nil
	}

	next, ok := next.Expect(lexer.SEMICOLON)
	if !ok {
		return nil, next, unexpectedToken(p.file, next.Current(), "';'")
	}
	decl := &ast.UsingDeclaration{Name: name}
	decl.SetSpan(p.span(start, next.Current().Pos))
	return decl, next, nil
}

// parseNamespaceOrAlias dispatches between a namespace definition and a
// namespace alias.
func (p *Parser) parseNamespaceOrAlias(c *TokenCursor) (ast.Declaration, *TokenCursor, *SyntaxError) {
	start := c.Current().Pos
	c = c.Advance() // 'namespace'

	var name ast.Identifier
	if c.Is(lexer.IDENT) {
		var err *SyntaxError
		var nameNext *TokenCursor
		name, nameNext, _, err = p.parseIdentifier(c)
		if err != nil {
			return nil, nameNext, err
		}
		c = nameNext
	}

	if c.Is(lexer.ASSIGN) {
		c = c.Advance()
		target, next, _, err := p.parseIdentifier(c)
		if err != nil {
			return nil, next, err
		}
		next, ok := next.Expect(lexer.SEMICOLON)
		if !ok {
			return nil, next, unexpectedToken(p.file, next.Current(), "';'")
		}
		alias := &ast.NamespaceAliasDeclaration{Name: name, Target: target}
		alias.SetSpan(p.span(start, next.Current().Pos))
		return alias, next, nil
	}

	child, after, ok := SubFragment(c, lexer.LBRACE)
	if !ok {
		return nil, c, unexpectedToken(p.file, c.Current(), "'{' opening a namespace body")
	}
	var members []ast.Declaration
	for !child.AtEnd() {
		decl, next, derr := p.parseTopLevelDeclaration(child.Cursor)
		if derr != nil {
			return nil, next, derr
		}
		members = append(members, decl)
		child = child.WithCursor(next)
	}
	nd := &ast.NamespaceDeclaration{Name: name, Members: members}
	nd.SetSpan(p.span(start, after.Current().Pos))
	return nd, after, nil
}
