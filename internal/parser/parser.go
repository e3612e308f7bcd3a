package parser

import (
	"github.com/strandscript/libscript/internal/ast"
	"github.com/strandscript/libscript/internal/lexer"
	"github.com/strandscript/libscript/internal/source"
)

// Parser drives recursive-descent parsing of one source.File into an
// ast.TranslationUnit. It holds no mutable lookahead state of its own —
// all position tracking lives in the TokenCursor/Fragment it threads
// through each production.
type Parser struct {
	file *source.File
}

// New creates a Parser for file.
func New(file *source.File) *Parser {
	return &Parser{file: file}
}

// Parse lexes and parses the whole file into a translation unit. The
// parser stops at the first SyntaxError: recovery is a non-goal.
func (p *Parser) Parse() (*ast.TranslationUnit, *SyntaxError) {
	l := lexer.New(p.file)
	c := NewTokenCursor(l)
	if len(l.Errors()) > 0 {
		e := l.Errors()[0]
		return nil, &SyntaxError{
			Kind:    ErrMalformedLiteral,
			Span:    source.Span{File: p.file, Start: e.Pos, End: e.Pos},
			Message: e.Message,
		}
	}

	start := c.Current().Pos
	var decls []ast.Declaration
	for !c.IsEOF() {
		decl, next, err := p.parseTopLevelDeclaration(c)
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
		c = next
	}

	tu := &ast.TranslationUnit{Declarations: decls}
	tu.SetSpan(p.span(start, c.Current().Pos))
	return tu, nil
}

// ParseCommand parses a single statement, the command-style entry an
// embedding host compiles against a context of its own runtime bindings.
func (p *Parser) ParseCommand() (ast.Statement, *SyntaxError) {
	l := lexer.New(p.file)
	c := NewTokenCursor(l)
	if len(l.Errors()) > 0 {
		e := l.Errors()[0]
		return nil, &SyntaxError{
			Kind:    ErrMalformedLiteral,
			Span:    source.Span{File: p.file, Start: e.Pos, End: e.Pos},
			Message: e.Message,
		}
	}
	stmt, next, err := p.parseStatement(c)
	if err != nil {
		return nil, err
	}
	if !next.IsEOF() {
		return nil, unexpectedToken(p.file, next.Current(), "end of command")
	}
	return stmt, nil
}

func (p *Parser) span(start, end source.Position) source.Span {
	return source.Span{File: p.file, Start: start, End: end}
}

// parseTopLevelDeclaration dispatches on the leading keyword.
func (p *Parser) parseTopLevelDeclaration(c *TokenCursor) (ast.Declaration, *TokenCursor, *SyntaxError) {
	switch c.Current().Kind {
	case lexer.NAMESPACE:
		return p.parseNamespaceOrAlias(c)
	case lexer.CLASS:
		return p.parseClassDeclaration(c)
	case lexer.ENUM:
		return p.parseEnumDeclaration(c)
	case lexer.TYPEDEF:
		return p.parseTypedef(c)
	case lexer.USING:
		return p.parseUsing(c)
	case lexer.TEMPLATE:
		return p.parseTemplateDeclaration(c)
	case lexer.IMPORT:
		return p.parseImport(c)
	case lexer.EXPORT:
		return p.parseExportImport(c)
	default:
		switch c.Current().Kind {
		case lexer.STATIC, lexer.VIRTUAL, lexer.EXPLICIT:
			return p.parseVariableOrFunctionDeclaration(c)
		}
		if p.looksLikeLocalDeclaration(c) {
			return p.parseVariableOrFunctionDeclaration(c)
		}
		// A bare statement at script scope (`a = a + 1;`) compiles as a
		// top-level statement run after every declaration, command-style.
		start := c.Current().Pos
		stmt, next, err := p.parseStatement(c)
		if err != nil {
			return nil, next, err
		}
		tls := &ast.TopLevelStatement{Stmt: stmt}
		tls.SetSpan(p.span(start, next.Current().Pos))
		return tls, next, nil
	}
}

func (p *Parser) parseExportImport(c *TokenCursor) (ast.Declaration, *TokenCursor, *SyntaxError) {
	c = c.Advance() // 'export'
	if !c.Is(lexer.IMPORT) {
		return nil, c, unexpectedToken(p.file, c.Current(), "'import' after 'export'")
	}
	decl, next, err := p.parseImport(c)
	if err != nil {
		return nil, next, err
	}
	imp := decl.(*ast.ImportDeclaration)
	imp.Export = true
	return imp, next, nil
}

func (p *Parser) parseImport(c *TokenCursor) (ast.Declaration, *TokenCursor, *SyntaxError) {
	start := c.Current().Pos
	c = c.Advance() // 'import'
	var path []string
	for {
		if !c.Is(lexer.IDENT) {
			return nil, c, unexpectedToken(p.file, c.Current(), "identifier in import path")
		}
		path = append(path, c.Current().Lexeme)
		c = c.Advance()
		if c.Is(lexer.DOT) {
			c = c.Advance()
			continue
		}
		break
	}
	end := c.Current().Pos
	c, ok := c.Expect(lexer.SEMICOLON)
	if !ok {
		return nil, c, unexpectedToken(p.file, c.Current(), "';'")
	}
	imp := &ast.ImportDeclaration{Path: path}
	imp.SetSpan(p.span(start, end))
	return imp, c, nil
}
