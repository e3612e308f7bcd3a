package parser

import (
	"github.com/strandscript/libscript/internal/ast"
	"github.com/strandscript/libscript/internal/lexer"
)

// parseLambdaExpression parses `[captures](params) [-> ret] { body }`.
func (p *Parser) parseLambdaExpression(c *TokenCursor) (ast.Expression, *TokenCursor, *SyntaxError) {
	start := c.Current().Pos
	captureFragment, next, ok := SubFragment(c, lexer.LBRACK)
	if !ok {
		return nil, c, unexpectedToken(p.file, c.Current(), "']' closing a lambda capture list")
	}
	captures, cerr := p.parseCaptureList(captureFragment)
	if cerr != nil {
		return nil, next, cerr
	}

	var params []*ast.ParameterDeclaration
	if next.Is(lexer.LPAREN) {
		paramFragment, afterParams, pok := SubFragment(next, lexer.LPAREN)
		if !pok {
			return nil, next, unexpectedToken(p.file, next.Current(), "')' closing a lambda parameter list")
		}
		var perr *SyntaxError
		params, perr = p.parseParameterList(paramFragment)
		if perr != nil {
			return nil, afterParams, perr
		}
		next = afterParams
	}

	var retType ast.TypeNode
	if next.Is(lexer.ARROW) {
		next = next.Advance()
		var terr *SyntaxError
		retType, next, terr = p.parseTypeId(next)
		if terr != nil {
			return nil, next, terr
		}
	}

	if !next.Is(lexer.LBRACE) {
		return nil, next, unexpectedToken(p.file, next.Current(), "'{' opening a lambda body")
	}
	body, after, berr := p.parseCompoundStatement(next)
	if berr != nil {
		return nil, after, berr
	}

	lam := &ast.LambdaExpression{Captures: captures, Parameters: params, ReturnType: retType, Body: body}
	lam.SetSpan(p.span(start, after.Current().Pos))
	return lam, after, nil
}

func (p *Parser) parseCaptureList(f *Fragment) ([]ast.LambdaCapture, *SyntaxError) {
	var captures []ast.LambdaCapture
	for !f.AtEnd() {
		cur := f.Cursor
		switch cur.Current().Kind {
		case lexer.ASSIGN:
			captures = append(captures, ast.LambdaCapture{Name: "=", IsDefault: true})
			f = f.WithCursor(cur.Advance())
		case lexer.AMP:
			if cur.PeekIs(1, lexer.COMMA) || cur.PeekIs(1, lexer.RBRACK) {
				captures = append(captures, ast.LambdaCapture{Name: "&", IsDefault: true})
				f = f.WithCursor(cur.Advance())
			} else {
				next := cur.Advance()
				if !next.Is(lexer.IDENT) {
					return nil, unexpectedToken(p.file, next.Current(), "a capture name")
				}
				captures = append(captures, ast.LambdaCapture{Name: next.Current().Lexeme, ByReference: true})
				f = f.WithCursor(next.Advance())
			}
		case lexer.THIS:
			captures = append(captures, ast.LambdaCapture{IsThis: true})
			f = f.WithCursor(cur.Advance())
		case lexer.IDENT:
			captures = append(captures, ast.LambdaCapture{Name: cur.Current().Lexeme})
			f = f.WithCursor(cur.Advance())
		default:
			return nil, unexpectedToken(p.file, cur.Current(), "a lambda capture")
		}
		if f.Cursor.Is(lexer.COMMA) {
			f = f.WithCursor(f.Cursor.Advance())
		}
	}
	return captures, nil
}
