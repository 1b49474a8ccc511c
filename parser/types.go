package parser

import (
	"unicode"
	"unicode/utf8"

	"github.com/gusakk/fluxsem/frontend/ast"
)

func isTvarName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

func (p *parser) parseTypeExpression() *ast.TypeExpression {
	ty := p.parseMonoType()
	expr := &ast.TypeExpression{Range: ast.RangeOf(ty), Ty: ty}
	if !(p.at(tIdent) && p.cur().lit == "where") {
		return expr
	}
	p.advance()
	for {
		tv := p.ident()
		p.expect(tColon)
		constraint := &ast.TypeConstraint{Tvar: tv}
		constraint.Kinds = append(constraint.Kinds, p.ident())
		for p.accept(tAdd) {
			constraint.Kinds = append(constraint.Kinds, p.ident())
		}
		constraint.Range = ast.RangeBetween(tv, constraint.Kinds[len(constraint.Kinds)-1])
		expr.Constraints = append(expr.Constraints, constraint)
		expr.Range = ast.RangeBetween(expr, constraint)
		if !p.accept(tComma) {
			return expr
		}
	}
}

func (p *parser) parseMonoType() ast.MonoTypeExpr {
	it := p.cur()
	switch it.kind {
	case tIdent:
		id := p.ident()
		if isTvarName(id.Name) {
			return &ast.TvarType{Range: id.Range, Name: id}
		}
		return &ast.NamedType{Range: id.Range, Name: id}
	case tLBrack:
		p.advance()
		elem := p.parseMonoType()
		closing := p.expect(tRBrack)
		return &ast.ArrayType{Range: ast.RangeBetween(it, closing), Element: elem}
	case tLBrace:
		return p.parseRecordType()
	case tLParen:
		return p.parseFunctionType()
	}
	p.fail(it, "expected type, found %v", it)
	return nil
}

func (p *parser) parseRecordType() *ast.RecordType {
	open := p.expect(tLBrace)
	rec := &ast.RecordType{}
	if p.at(tIdent) && p.peek(1).kind == tIdent && p.peek(1).lit == "with" {
		rec.Tvar = p.ident()
		p.advance()
	}
	for !p.at(tRBrace) {
		name := p.ident()
		p.expect(tColon)
		ty := p.parseMonoType()
		rec.Properties = append(rec.Properties, &ast.PropertyType{Range: ast.RangeBetween(name, ty), Name: name, Ty: ty})
		if !p.accept(tComma) {
			break
		}
	}
	closing := p.expect(tRBrace)
	rec.Range = ast.RangeBetween(open, closing)
	return rec
}

func (p *parser) parseFunctionType() *ast.FunctionType {
	open := p.expect(tLParen)
	fn := &ast.FunctionType{}
	for !p.at(tRParen) {
		start := p.cur()
		param := &ast.ParameterType{Kind: ast.RequiredParameter}
		switch {
		case p.accept(tPipeReceive):
			param.Kind = ast.PipeParameter
			if p.at(tIdent) {
				param.Name = p.ident()
			}
		case p.accept(tQuestion):
			param.Kind = ast.OptionalParameter
			param.Name = p.ident()
		default:
			param.Name = p.ident()
		}
		p.expect(tColon)
		param.Ty = p.parseMonoType()
		param.Range = ast.RangeBetween(start, param.Ty)
		fn.Parameters = append(fn.Parameters, param)
		if !p.accept(tComma) {
			break
		}
	}
	p.expect(tRParen)
	p.expect(tArrow)
	fn.Return = p.parseMonoType()
	fn.Range = ast.RangeBetween(open, fn.Return)
	return fn
}
