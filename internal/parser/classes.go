package parser

import (
	"github.com/strandscript/libscript/internal/ast"
	"github.com/strandscript/libscript/internal/lexer"
	"github.com/strandscript/libscript/internal/source"
)

// parseClassDeclaration parses `class Name [final] [: [access] Base]
// { members... };`.
func (p *Parser) parseClassDeclaration(c *TokenCursor) (ast.Declaration, *TokenCursor, *SyntaxError) {
	start := c.Current().Pos
	c = c.Advance() // 'class'
	name, next, _, err := p.parseIdentifier(c)
	if err != nil {
		return nil, next, err
	}
	decl, after, terr := p.parseClassTail(start, name, next)
	if terr != nil {
		return nil, after, terr
	}
	return decl, after, nil
}

// parseClassTail parses everything after the class's name: the optional
// final specifier and base clause, the member body, and the trailing
// semicolon. Split out from parseClassDeclaration so template
// specializations (whose name is a TemplateIdentifier) share it.
func (p *Parser) parseClassTail(start source.Position, name ast.Identifier, c *TokenCursor) (*ast.ClassDeclaration, *TokenCursor, *SyntaxError) {
	final := false
	if c.Is(lexer.FINAL) {
		final = true
		c = c.Advance()
	}

	var base ast.Identifier
	baseAccess := ast.Public
	if c.Is(lexer.COLON) {
		c = c.Advance()
		switch c.Current().Kind {
		case lexer.PUBLIC:
			baseAccess = ast.Public
			c = c.Advance()
		case lexer.PROTECTED:
			baseAccess = ast.Protected
			c = c.Advance()
		case lexer.PRIVATE:
			baseAccess = ast.Private
			c = c.Advance()
		}
		var berr *SyntaxError
		base, c, _, berr = p.parseIdentifier(c)
		if berr != nil {
			return nil, c, berr
		}
	}

	child, after, ok := SubFragment(c, lexer.LBRACE)
	if !ok {
		return nil, c, unexpectedToken(p.file, c.Current(), "'{' opening a class body")
	}

	className := ""
	switch n := name.(type) {
	case *ast.SimpleIdentifier:
		className = n.Name
	case *ast.TemplateIdentifier:
		if simple, ok := n.Name.(*ast.SimpleIdentifier); ok {
			className = simple.Name
		}
	}

	members, merr := p.parseClassMembers(child, className)
	if merr != nil {
		return nil, after, merr
	}

	after, ok = after.Expect(lexer.SEMICOLON)
	if !ok {
		return nil, after, unexpectedToken(p.file, after.Current(), "';' after a class body")
	}

	decl := &ast.ClassDeclaration{Name: name, Base: base, BaseAccess: baseAccess, Final: final, Members: members}
	decl.SetSpan(p.span(start, after.Current().Pos))
	return decl, after, nil
}

// parseClassMembers parses the inside of a class body: access specifiers
// changing the running accessibility, then constructors, the destructor,
// conversion operators, operator overloads, nested types, friends, and
// ordinary data members and member functions.
func (p *Parser) parseClassMembers(f *Fragment, className string) ([]ast.ClassMember, *SyntaxError) {
	var members []ast.ClassMember
	access := ast.Private

	for !f.AtEnd() {
		c := f.Cursor
		switch c.Current().Kind {
		case lexer.PUBLIC, lexer.PROTECTED, lexer.PRIVATE:
			switch c.Current().Kind {
			case lexer.PUBLIC:
				access = ast.Public
			case lexer.PROTECTED:
				access = ast.Protected
			default:
				access = ast.Private
			}
			next, ok := c.Advance().Expect(lexer.COLON)
			if !ok {
				return nil, unexpectedToken(p.file, next.Current(), "':' after an access specifier")
			}
			f = f.WithCursor(next)
			continue

		case lexer.FRIEND:
			decl, next, err := p.parseFriendDeclaration(c)
			if err != nil {
				return nil, err
			}
			members = append(members, ast.ClassMember{Access: access, Decl: decl})
			f = f.WithCursor(next)
			continue

		case lexer.CLASS:
			decl, next, err := p.parseClassDeclaration(c)
			if err != nil {
				return nil, err
			}
			members = append(members, ast.ClassMember{Access: access, Decl: decl})
			f = f.WithCursor(next)
			continue

		case lexer.ENUM:
			decl, next, err := p.parseEnumDeclaration(c)
			if err != nil {
				return nil, err
			}
			members = append(members, ast.ClassMember{Access: access, Decl: decl})
			f = f.WithCursor(next)
			continue

		case lexer.TYPEDEF:
			decl, next, err := p.parseTypedef(c)
			if err != nil {
				return nil, err
			}
			members = append(members, ast.ClassMember{Access: access, Decl: decl})
			f = f.WithCursor(next)
			continue

		case lexer.USING:
			decl, next, err := p.parseUsing(c)
			if err != nil {
				return nil, err
			}
			members = append(members, ast.ClassMember{Access: access, Decl: decl})
			f = f.WithCursor(next)
			continue

		case lexer.TEMPLATE:
			decl, next, err := p.parseTemplateDeclaration(c)
			if err != nil {
				return nil, err
			}
			members = append(members, ast.ClassMember{Access: access, Decl: decl})
			f = f.WithCursor(next)
			continue
		}

		decl, next, err := p.parseMemberDeclaration(c, className)
		if err != nil {
			return nil, err
		}
		members = append(members, ast.ClassMember{Access: access, Decl: decl})
		f = f.WithCursor(next)
	}
	return members, nil
}

// parseFriendDeclaration parses `friend class X;` or a friend function
// declaration.
func (p *Parser) parseFriendDeclaration(c *TokenCursor) (ast.Declaration, *TokenCursor, *SyntaxError) {
	start := c.Current().Pos
	c = c.Advance() // 'friend'

	var target ast.Declaration
	if c.Is(lexer.CLASS) {
		nameStart := c.Advance()
		name, next, _, err := p.parseIdentifier(nameStart)
		if err != nil {
			return nil, next, err
		}
		next, ok := next.Expect(lexer.SEMICOLON)
		if !ok {
			return nil, next, unexpectedToken(p.file, next.Current(), "';'")
		}
		cd := &ast.ClassDeclaration{Name: name}
		cd.SetSpan(p.span(nameStart.Current().Pos, next.Current().Pos))
		target = cd
		fd := &ast.FriendDeclaration{Target: target}
		fd.SetSpan(p.span(start, next.Current().Pos))
		return fd, next, nil
	}

	target, next, err := p.parseVariableOrFunctionDeclaration(c)
	if err != nil {
		return nil, next, err
	}
	fd := &ast.FriendDeclaration{Target: target}
	fd.SetSpan(p.span(start, next.Current().Pos))
	return fd, next, nil
}

// parseMemberDeclaration parses one non-keyword-introduced class member:
// a constructor (name matches the class), a destructor (`~Name`), a
// conversion operator (`operator T()`), an operator overload, a literal
// operator, a member function, or a data member.
func (p *Parser) parseMemberDeclaration(c *TokenCursor, className string) (ast.Declaration, *TokenCursor, *SyntaxError) {
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

	switch {
	case c.Is(lexer.TILDE):
		return p.parseDestructor(start, flags, c)
	case c.Is(lexer.IDENT) && c.Current().Lexeme == className && c.PeekIs(1, lexer.LPAREN):
		return p.parseConstructor(start, flags, c)
	case c.Is(lexer.OPERATOR):
		return p.parseConversionOperator(start, flags, c)
	}

	ty, next, terr := p.parseTypeId(c)
	if terr != nil {
		return nil, next, terr
	}

	if next.Is(lexer.OPERATOR) {
		return p.parseOperatorOverload(start, flags, ty, next)
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
	vd := &ast.VariableDeclaration{Type: ty, Name: name, Init: init, Static: flags.Static}
	vd.SetSpan(p.span(start, next.Current().Pos))
	return vd, next, nil
}

// parseConstructor parses `Name(params) [: member(args), ...] <body>`.
func (p *Parser) parseConstructor(start source.Position, flags ast.FunctionFlags, c *TokenCursor) (ast.Declaration, *TokenCursor, *SyntaxError) {
	name, next, _, nerr := p.parseIdentifier(c)
	if nerr != nil {
		return nil, next, nerr
	}
	paramFragment, after, ok := SubFragment(next, lexer.LPAREN)
	if !ok {
		return nil, next, unexpectedToken(p.file, next.Current(), "')'")
	}
	params, perr := p.parseParameterList(paramFragment)
	if perr != nil {
		return nil, after, perr
	}

	var inits []ast.MemberInitializer
	if after.Is(lexer.COLON) {
		after = after.Advance()
		for {
			member, mNext, _, merr := p.parseIdentifier(after)
			if merr != nil {
				return nil, mNext, merr
			}
			open := lexer.LPAREN
			if mNext.Is(lexer.LBRACE) {
				open = lexer.LBRACE
			}
			argFragment, argNext, aok := SubFragment(mNext, open)
			if !aok {
				return nil, mNext, unexpectedToken(p.file, mNext.Current(), "'(' or '{' in a member initializer")
			}
			args, aerr := p.parseArgumentList(argFragment)
			if aerr != nil {
				return nil, argNext, aerr
			}
			inits = append(inits, ast.MemberInitializer{Member: member, Arguments: args})
			after = argNext
			if after.Is(lexer.COMMA) {
				after = after.Advance()
				continue
			}
			break
		}
	}

	body, next2, flags2, berr := p.parseFunctionBodyOrSpecifier(after)
	if berr != nil {
		return nil, next2, berr
	}
	cd := &ast.ConstructorDeclaration{
		Name:        name,
		Parameters:  params,
		MemberInits: inits,
		Body:        body,
		Explicit:    flags.Explicit,
		Deleted:     flags2.Deleted,
		Defaulted:   flags2.Defaulted,
	}
	cd.SetSpan(p.span(start, next2.Current().Pos))
	return cd, next2, nil
}

// parseDestructor parses `~Name() <body>`.
func (p *Parser) parseDestructor(start source.Position, flags ast.FunctionFlags, c *TokenCursor) (ast.Declaration, *TokenCursor, *SyntaxError) {
	c = c.Advance() // '~'
	name, next, _, nerr := p.parseIdentifier(c)
	if nerr != nil {
		return nil, next, nerr
	}
	_, after, ok := SubFragment(next, lexer.LPAREN)
	if !ok {
		return nil, next, unexpectedToken(p.file, next.Current(), "'()' after a destructor name")
	}
	body, next2, flags2, berr := p.parseFunctionBodyOrSpecifier(after)
	if berr != nil {
		return nil, next2, berr
	}
	dd := &ast.DestructorDeclaration{
		Name:      name,
		Body:      body,
		Virtual:   flags.Virtual,
		Deleted:   flags2.Deleted,
		Defaulted: flags2.Defaulted,
	}
	dd.SetSpan(p.span(start, next2.Current().Pos))
	return dd, next2, nil
}

// parseConversionOperator parses `[explicit] operator <type-id>() [const]
// <body>`.
func (p *Parser) parseConversionOperator(start source.Position, flags ast.FunctionFlags, c *TokenCursor) (ast.Declaration, *TokenCursor, *SyntaxError) {
	c = c.Advance() // 'operator'
	// The target is a bare type name: parseTypeId would read the `()`
	// that follows as a function-type parameter list.
	constFlag := false
	if c.Is(lexer.CONST) {
		constFlag = true
		c = c.Advance()
	}
	name, next, terr := p.parseTypeName(c)
	if terr != nil {
		return nil, next, terr
	}
	ref, next := parseRefSuffix(next)
	ty := &ast.NamedType{Const: constFlag, Name: name, Ref: ref}
	ty.SetSpan(name.Span())
	_, after, ok := SubFragment(next, lexer.LPAREN)
	if !ok {
		return nil, next, unexpectedToken(p.file, next.Current(), "'()' after a conversion operator's target type")
	}
	isConst := false
	if after.Is(lexer.CONST) {
		isConst = true
		after = after.Advance()
	}
	body, next2, _, berr := p.parseFunctionBodyOrSpecifier(after)
	if berr != nil {
		return nil, next2, berr
	}
	cod := &ast.ConversionOperatorDeclaration{TargetType: ty, Body: body, Explicit: flags.Explicit, Const: isConst}
	cod.SetSpan(p.span(start, next2.Current().Pos))
	return cod, next2, nil
}

// parseOperatorOverload parses `<ret> operator<symbol>(params) [const]
// <body>` or `<ret> operator"" _suffix(params) <body>`, the cursor
// positioned at `operator`.
func (p *Parser) parseOperatorOverload(start source.Position, flags ast.FunctionFlags, ret ast.TypeNode, c *TokenCursor) (ast.Declaration, *TokenCursor, *SyntaxError) {
	name, next, _, nerr := p.parseIdentifier(c)
	if nerr != nil {
		return nil, next, nerr
	}
	paramFragment, after, ok := SubFragment(next, lexer.LPAREN)
	if !ok {
		return nil, next, unexpectedToken(p.file, next.Current(), "')'")
	}
	params, perr := p.parseParameterList(paramFragment)
	if perr != nil {
		return nil, after, perr
	}
	if after.Is(lexer.CONST) {
		flags.Const = true
		after = after.Advance()
	}
	body, next2, flags2, berr := p.parseFunctionBodyOrSpecifier(after)
	if berr != nil {
		return nil, next2, berr
	}
	flags.Deleted = flags.Deleted || flags2.Deleted
	flags.Defaulted = flags.Defaulted || flags2.Defaulted

	switch n := name.(type) {
	case *ast.LiteralOperatorName:
		lod := &ast.LiteralOperatorDeclaration{ReturnType: ret, Suffix: n.Suffix, Parameters: params, Body: body}
		lod.SetSpan(p.span(start, next2.Current().Pos))
		return lod, next2, nil
	case *ast.OperatorName:
		ood := &ast.OperatorOverloadDeclaration{ReturnType: ret, Operator: n.Symbol, Parameters: params, Body: body, Flags: flags}
		ood.SetSpan(p.span(start, next2.Current().Pos))
		return ood, next2, nil
	default:
		return nil, next2, unexpectedToken(p.file, c.Current(), "an operator symbol")
	}
}
