package parser

import (
	"go/token"
	"log/slog"
	"strconv"

	"github.com/gusakk/fluxsem/frontend/ast"
	"github.com/gusakk/fluxsem/frontend/fluxerr"
)

type parser struct {
	file  *token.File
	name  string
	items []item
	i     int
	errs  *fluxerr.Errors

	*slog.Logger
}

func (p *parser) cur() item { return p.items[p.i] }

func (p *parser) peek(n int) item {
	if p.i+n >= len(p.items) {
		return p.items[len(p.items)-1]
	}
	return p.items[p.i+n]
}

func (p *parser) advance() item {
	it := p.items[p.i]
	if it.kind != tEOF {
		p.i++
	}
	return it
}

func (p *parser) at(kind tokenKind) bool { return p.cur().kind == kind }

func (p *parser) accept(kind tokenKind) bool {
	if p.at(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expect(kind tokenKind) item {
	if !p.at(kind) {
		p.fail(p.cur(), "expected %v, found %v", kind, p.cur())
	}
	return p.advance()
}

func (p *parser) ident() *ast.Identifier {
	it := p.expect(tIdent)
	return &ast.Identifier{Range: ast.RangeOf(it), Name: it.lit}
}

func (p *parser) tooManyErrors() bool {
	return len(p.errs.Errors()) >= maxErrors
}

func (p *parser) parseFile() *ast.File {
	f := &ast.File{
		Range:  ast.Range{PosStart: p.file.Pos(0), PosEnd: p.file.Pos(p.file.Size())},
		Name:   p.name,
		Tokens: p.file,
	}
	if p.at(tPackage) {
		p.protect(func() { f.Package = p.parsePackageClause() })
	}
	for p.at(tImport) && !p.tooManyErrors() {
		p.protect(func() { f.Imports = append(f.Imports, p.parseImport()) })
	}
	for !p.at(tEOF) && !p.tooManyErrors() {
		p.protect(func() { f.Body = append(f.Body, p.parseStatement()) })
	}
	return f
}

func (p *parser) parsePackageClause() *ast.PackageClause {
	kw := p.expect(tPackage)
	name := p.ident()
	return &ast.PackageClause{
		Range:    ast.RangeBetween(kw, name),
		Name:     name,
		Comments: kw.comments,
	}
}

func (p *parser) parseImport() *ast.ImportDeclaration {
	kw := p.expect(tImport)
	decl := &ast.ImportDeclaration{Comments: kw.comments}
	if p.at(tIdent) {
		decl.As = p.ident()
	}
	path := p.expect(tString)
	decl.Path = &ast.StringLiteral{Range: ast.RangeOf(path), Value: path.lit}
	decl.Range = ast.RangeBetween(kw, path)
	return decl
}

func (p *parser) parseStatement() ast.Stmt {
	switch first := p.cur(); first.kind {
	case tOption:
		return p.parseOption()
	case tBuiltin:
		return p.parseBuiltin()
	case tTestcase:
		p.advance()
		id := p.ident()
		block := p.parseBlock()
		return &ast.TestCaseStatement{Range: ast.RangeBetween(first, block), ID: id, Block: block}
	case tReturn:
		p.fail(first, "return is only allowed at the end of a function block")
	case tImport:
		p.fail(first, "imports must precede every other statement")
	case tPackage:
		p.fail(first, "package clause must be the first statement of a file")
	case tIdent:
		if p.peek(1).kind == tAssign {
			return p.parseVariableAssignment()
		}
	}
	expr := p.parseExpr()
	return &ast.ExpressionStatement{Range: ast.RangeOf(expr), Expression: expr}
}

func (p *parser) parseVariableAssignment() *ast.VariableAssignment {
	comments := p.cur().comments
	id := p.ident()
	p.expect(tAssign)
	init := p.parseExpr()
	return &ast.VariableAssignment{
		Range:    ast.RangeBetween(id, init),
		ID:       id,
		Init:     init,
		Comments: comments,
	}
}

func (p *parser) parseOption() *ast.OptionStatement {
	kw := p.expect(tOption)
	id := p.ident()
	stmt := &ast.OptionStatement{Comments: kw.comments}
	if p.accept(tDot) {
		prop := p.ident()
		p.expect(tAssign)
		init := p.parseExpr()
		stmt.Assignment = &ast.MemberAssignment{
			Range: ast.RangeBetween(id, init),
			Member: &ast.MemberExpression{
				Range:    ast.RangeBetween(id, prop),
				Object:   id,
				Property: prop.Name,
			},
			Init: init,
		}
	} else {
		p.expect(tAssign)
		init := p.parseExpr()
		stmt.Assignment = &ast.VariableAssignment{Range: ast.RangeBetween(id, init), ID: id, Init: init}
	}
	stmt.Range = ast.RangeBetween(kw, stmt.Assignment)
	return stmt
}

func (p *parser) parseBuiltin() *ast.BuiltinStatement {
	kw := p.expect(tBuiltin)
	id := p.ident()
	p.expect(tColon)
	ty := p.parseTypeExpression()
	return &ast.BuiltinStatement{
		Range:    ast.RangeBetween(kw, ty),
		ID:       id,
		Type:     ty,
		Comments: kw.comments,
	}
}

func (p *parser) parseBlock() *ast.Block {
	open := p.expect(tLBrace)
	block := &ast.Block{}
	for !p.at(tRBrace) {
		if p.at(tEOF) {
			p.fail(p.cur(), "expected }, found %v", p.cur())
		}
		block.Body = append(block.Body, p.parseBlockStatement())
	}
	closing := p.expect(tRBrace)
	block.Range = ast.RangeBetween(open, closing)
	return block
}

func (p *parser) parseBlockStatement() ast.Stmt {
	switch first := p.cur(); first.kind {
	case tReturn:
		p.advance()
		arg := p.parseExpr()
		return &ast.ReturnStatement{Range: ast.RangeBetween(first, arg), Argument: arg}
	case tIdent:
		if p.peek(1).kind == tAssign {
			return p.parseVariableAssignment()
		}
	}
	expr := p.parseExpr()
	return &ast.ExpressionStatement{Range: ast.RangeOf(expr), Expression: expr}
}

func (p *parser) parseInt(it item) int64 {
	v, err := strconv.ParseInt(it.lit, 10, 64)
	if err != nil {
		p.fail(it, "invalid integer literal %s", it.lit)
	}
	return v
}
