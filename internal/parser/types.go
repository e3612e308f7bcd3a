package parser

import (
	"github.com/strandscript/libscript/internal/ast"
	"github.com/strandscript/libscript/internal/lexer"
)

var primitiveTypeKeywords = map[lexer.Kind]bool{
	lexer.BOOL: true, lexer.CHAR: true, lexer.INT: true,
	lexer.FLOAT: true, lexer.DOUBLE: true, lexer.VOID: true,
}

// parseTypeId parses a qualified type-id: `[const] <type-id> [& | &&]`, or
// a function type `[const] <ret>(<params...>) [& | &&]`.
func (p *Parser) parseTypeId(c *TokenCursor) (ast.TypeNode, *TokenCursor, *SyntaxError) {
	start := c.Current().Pos
	constFlag := false
	if c.Is(lexer.CONST) {
		constFlag = true
		c = c.Advance()
	}

	if c.Is(lexer.AUTO) {
		c = c.Advance()
		ref, next := parseRefSuffix(c)
		a := &ast.AutoType{Const: constFlag, Ref: ref}
		a.SetSpan(p.span(start, next.Current().Pos))
		return a, next, nil
	}

	name, next, err := p.parseTypeName(c)
	if err != nil {
		return nil, next, err
	}

	if next.Is(lexer.LPAREN) {
		fn, after, ferr := p.parseFunctionTypeTail(next, constFlag, nameToType(name))
		if ferr == nil {
			fn.(*ast.FunctionType).SetSpan(p.span(start, after.Current().Pos))
			return fn, after, nil
		}
	}

	ref, after := parseRefSuffix(next)
	nt := &ast.NamedType{Const: constFlag, Name: name, Ref: ref}
	nt.SetSpan(p.span(start, after.Current().Pos))
	return nt, after, nil
}

func nameToType(id ast.Identifier) ast.TypeNode {
	nt := &ast.NamedType{Name: id}
	nt.SetSpan(id.Span())
	return nt
}

// parseTypeName parses the bare name portion of a type-id: a primitive
// keyword, or a (possibly scoped/template) identifier.
func (p *Parser) parseTypeName(c *TokenCursor) (ast.Identifier, *TokenCursor, *SyntaxError) {
	if primitiveTypeKeywords[c.Current().Kind] {
		id := &ast.SimpleIdentifier{Name: c.Current().Lexeme}
		id.SetSpan(p.span(c.Current().Pos, c.Current().End()))
		return id, c.Advance(), nil
	}
	id, next, _, err := p.parseIdentifier(c)
	return id, next, err
}

func parseRefSuffix(c *TokenCursor) (ast.RefKind, *TokenCursor) {
	if c.Is(lexer.AND_AND) {
		return ast.RValueRef, c.Advance()
	}
	if c.Is(lexer.AMP) {
		return ast.LValueRef, c.Advance()
	}
	return ast.NoRef, c
}

// parseFunctionTypeTail parses `(<params...>) [& | &&]` following a
// already-parsed return type, for function-pointer/function-variable
// type-ids like `int(int, int)`.
func (p *Parser) parseFunctionTypeTail(c *TokenCursor, constFlag bool, ret ast.TypeNode) (ast.TypeNode, *TokenCursor, *SyntaxError) {
	child, after, ok := SubFragment(c, lexer.LPAREN)
	if !ok {
		return nil, c, unexpectedToken(p.file, c.Current(), "')'")
	}
	var params []ast.TypeNode
	for !child.AtEnd() {
		ty, next, err := p.parseTypeId(child.Cursor)
		if err != nil {
			return nil, next, err
		}
		params = append(params, ty)
		child = child.WithCursor(next)
		if child.Cursor.Is(lexer.COMMA) {
			child = child.WithCursor(child.Cursor.Advance())
			continue
		}
		break
	}
	ref, afterRef := parseRefSuffix(after)
	return &ast.FunctionType{Const: constFlag, ReturnType: ret, Parameters: params, Ref: ref}, afterRef, nil
}
