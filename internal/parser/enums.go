package parser

import (
	"github.com/strandscript/libscript/internal/ast"
	"github.com/strandscript/libscript/internal/lexer"
)

// parseEnumDeclaration parses `enum [class] Name { enumerators... };`.
func (p *Parser) parseEnumDeclaration(c *TokenCursor) (ast.Declaration, *TokenCursor, *SyntaxError) {
	start := c.Current().Pos
	c = c.Advance() // 'enum'
	isClass := false
	if c.Is(lexer.CLASS) {
		isClass = true
		c = c.Advance()
	}
	name, next, _, err := p.parseIdentifier(c)
	if err != nil {
		return nil, next, err
	}

	child, after, ok := SubFragment(next, lexer.LBRACE)
	if !ok {
		return nil, next, unexpectedToken(p.file, next.Current(), "'{' opening an enum body")
	}
	var enumerators []*ast.EnumeratorDeclaration
	for !child.AtEnd() {
		// Empty entries between commas are skipped, not errors.
		if child.Cursor.Is(lexer.COMMA) {
			child = child.WithCursor(child.Cursor.Advance())
			continue
		}
		enumStart := child.Cursor.Current().Pos
		enumName, afterName, _, nerr := p.parseIdentifier(child.Cursor)
		if nerr != nil {
			return nil, afterName, nerr
		}
		var value ast.Expression
		if afterName.Is(lexer.ASSIGN) {
			var verr *SyntaxError
			value, afterName, verr = p.parseAssignmentExpression(afterName.Advance())
			if verr != nil {
				return nil, afterName, verr
			}
		}
		ed := &ast.EnumeratorDeclaration{Name: enumName, Value: value}
		ed.SetSpan(p.span(enumStart, afterName.Current().Pos))
		enumerators = append(enumerators, ed)
		child = child.WithCursor(afterName)
		if child.Cursor.Is(lexer.COMMA) {
			child = child.WithCursor(child.Cursor.Advance())
			continue
		}
		break
	}

	after, ok = after.Expect(lexer.SEMICOLON)
	if !ok {
		return nil, after, unexpectedToken(p.file, after.Current(), "';'")
	}
	decl := &ast.EnumDeclaration{Name: name, IsEnumClass: isClass, Enumerators: enumerators}
	decl.SetSpan(p.span(start, after.Current().Pos))
	return decl, after, nil
}
