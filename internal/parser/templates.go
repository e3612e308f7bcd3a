package parser

import (
	"github.com/strandscript/libscript/internal/ast"
	"github.com/strandscript/libscript/internal/lexer"
)

// parseTemplateDeclaration parses `template<parameters> <decl>`, where
// <decl> is a class declaration, a function declaration, or a full or
// partial specialization of a class template.
func (p *Parser) parseTemplateDeclaration(c *TokenCursor) (ast.Declaration, *TokenCursor, *SyntaxError) {
	start := c.Current().Pos
	c = c.Advance() // 'template'
	if !c.Is(lexer.LESS) {
		return nil, c, unexpectedToken(p.file, c.Current(), "'<' opening a template parameter list")
	}
	params, next, perr := p.parseTemplateParameterList(c.Advance())
	if perr != nil {
		return nil, next, perr
	}

	if next.Is(lexer.CLASS) {
		nameCursor := next.Advance()
		name, after, _, nerr := p.parseIdentifier(nameCursor)
		if nerr != nil {
			return nil, after, nerr
		}
		if tid, ok := name.(*ast.TemplateIdentifier); ok {
			// `template<...> class Name<Args> { ... };` is a full (empty
			// parameter list) or partial specialization.
			classDecl, next2, cerr := p.parseClassTail(start, name, after)
			if cerr != nil {
				return nil, next2, cerr
			}
			spec := &ast.TemplateSpecializationDeclaration{
				Parameters:  params,
				Name:        tid.Name,
				Arguments:   tid.Arguments,
				Partial:     len(params) > 0,
				Declaration: classDecl,
			}
			spec.SetSpan(p.span(start, next2.Current().Pos))
			return spec, next2, nil
		}
		classDecl, next2, cerr := p.parseClassTail(start, name, after)
		if cerr != nil {
			return nil, next2, cerr
		}
		td := &ast.TemplateDeclaration{Parameters: params, Declaration: classDecl}
		td.SetSpan(p.span(start, next2.Current().Pos))
		return td, next2, nil
	}

	decl, next2, derr := p.parseVariableOrFunctionDeclaration(next)
	if derr != nil {
		return nil, next2, derr
	}
	td := &ast.TemplateDeclaration{Parameters: params, Declaration: decl}
	td.SetSpan(p.span(start, next2.Current().Pos))
	return td, next2, nil
}

// parseTemplateParameterList parses `typename [...] T [= type]` and
// `<type> [...] N [= expr]` entries up to the closing `>`, the cursor
// positioned just past the opening `<`.
func (p *Parser) parseTemplateParameterList(c *TokenCursor) ([]ast.TemplateParameter, *TokenCursor, *SyntaxError) {
	var params []ast.TemplateParameter
	for {
		if c.Is(lexer.GREATER) {
			return params, c.Advance(), nil
		}

		start := c.Current().Pos
		if c.Is(lexer.TYPENAME) || c.Is(lexer.CLASS) {
			c2 := c.Advance()
			pack, afterPack := skipEllipsis(c2)
			name, next, _, nerr := p.parseIdentifier(afterPack)
			if nerr != nil {
				return nil, next, nerr
			}
			var def ast.TypeNode
			if next.Is(lexer.ASSIGN) {
				var derr *SyntaxError
				def, next, derr = p.parseTypeId(next.Advance())
				if derr != nil {
					return nil, next, derr
				}
			}
			tp := &ast.TypeTemplateParameter{Name: name, Default: def, Pack: pack}
			tp.SetSpan(p.span(start, next.Current().Pos))
			params = append(params, tp)
			c = next
		} else {
			ty, next, terr := p.parseTypeId(c)
			if terr != nil {
				return nil, next, terr
			}
			pack, afterPack := skipEllipsis(next)
			name, next2, _, nerr := p.parseIdentifier(afterPack)
			if nerr != nil {
				return nil, next2, nerr
			}
			var def ast.Expression
			if next2.Is(lexer.ASSIGN) {
				var derr *SyntaxError
				def, next2, derr = p.parseAssignmentExpression(next2.Advance())
				if derr != nil {
					return nil, next2, derr
				}
			}
			ntp := &ast.NonTypeTemplateParameter{Type: ty, Name: name, Default: def, Pack: pack}
			ntp.SetSpan(p.span(start, next2.Current().Pos))
			params = append(params, ntp)
			c = next2
		}

		if c.Is(lexer.COMMA) {
			c = c.Advance()
			continue
		}
		if c.Is(lexer.GREATER) {
			return params, c.Advance(), nil
		}
		return nil, c, unexpectedToken(p.file, c.Current(), "',' or '>' in a template parameter list")
	}
}

// skipEllipsis consumes a `...` pack marker (lexed as three adjacent dot
// punctuators) if present.
func skipEllipsis(c *TokenCursor) (bool, *TokenCursor) {
	if c.Is(lexer.DOT) && c.PeekIs(1, lexer.DOT) && c.PeekIs(2, lexer.DOT) {
		return true, c.AdvanceN(3)
	}
	return false, c
}
