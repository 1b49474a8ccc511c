package parser

import (
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/gusakk/fluxsem/frontend/ast"
)

var comparisonOperators = map[tokenKind]ast.Operator{
	tEq:       ast.EqualOperator,
	tNeq:      ast.NotEqualOperator,
	tLt:       ast.LessThanOperator,
	tLte:      ast.LessThanEqualOperator,
	tGt:       ast.GreaterThanOperator,
	tGte:      ast.GreaterThanEqualOperator,
	tRegexEq:  ast.RegexpMatchOperator,
	tRegexNeq: ast.NotRegexpMatchOperator,
}

var additiveOperators = map[tokenKind]ast.Operator{
	tAdd: ast.AdditionOperator,
	tSub: ast.SubtractionOperator,
}

var multiplicativeOperators = map[tokenKind]ast.Operator{
	tMul: ast.MultiplicationOperator,
	tDiv: ast.DivisionOperator,
	tMod: ast.ModuloOperator,
}

var powerOperators = map[tokenKind]ast.Operator{
	tPow: ast.PowerOperator,
}

func (p *parser) parseExpr() ast.Expr {
	return p.parseOr()
}

func (p *parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for p.at(tOr) {
		p.advance()
		right := p.parseAnd()
		left = &ast.LogicalExpression{Range: ast.RangeBetween(left, right), Operator: ast.OrOperator, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseAnd() ast.Expr {
	left := p.parseNot()
	for p.at(tAnd) {
		p.advance()
		right := p.parseNot()
		left = &ast.LogicalExpression{Range: ast.RangeBetween(left, right), Operator: ast.AndOperator, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseNot() ast.Expr {
	op := p.cur()
	switch op.kind {
	case tNot, tExists:
		p.advance()
		arg := p.parseNot()
		operator := ast.NotOperator
		if op.kind == tExists {
			operator = ast.ExistsOperator
		}
		return &ast.UnaryExpression{Range: ast.RangeBetween(op, arg), Operator: operator, Argument: arg}
	}
	return p.parseBinary(comparisonOperators, func() ast.Expr {
		return p.parseBinary(additiveOperators, func() ast.Expr {
			return p.parseBinary(multiplicativeOperators, func() ast.Expr {
				return p.parseBinary(powerOperators, p.parseUnary)
			})
		})
	})
}

// parseBinary parses a left-associative chain of the given operators.
func (p *parser) parseBinary(operators map[tokenKind]ast.Operator, operand func() ast.Expr) ast.Expr {
	left := operand()
	for {
		op, ok := operators[p.cur().kind]
		if !ok {
			return left
		}
		p.advance()
		right := operand()
		left = &ast.BinaryExpression{Range: ast.RangeBetween(left, right), Operator: op, Left: left, Right: right}
	}
}

func (p *parser) parseUnary() ast.Expr {
	op := p.cur()
	switch op.kind {
	case tSub:
		p.advance()
		arg := p.parseUnary()
		return &ast.UnaryExpression{Range: ast.RangeBetween(op, arg), Operator: ast.SubtractionOperator, Argument: arg}
	case tAdd:
		p.advance()
		return p.parseUnary()
	}
	return p.parsePipe()
}

func (p *parser) parsePipe() ast.Expr {
	left := p.parsePostfix()
	for p.at(tPipeForward) {
		pipe := p.advance()
		rhs := p.parsePostfix()
		call, ok := rhs.(*ast.CallExpression)
		if !ok {
			p.fail(pipe, "right hand side of |> must be a function call")
		}
		left = &ast.PipeExpression{Range: ast.RangeBetween(left, call), Argument: left, Call: call}
	}
	return left
}

func (p *parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()
	for {
		switch p.cur().kind {
		case tDot:
			p.advance()
			prop := p.ident()
			expr = &ast.MemberExpression{Range: ast.RangeBetween(expr, prop), Object: expr, Property: prop.Name}
		case tLBrack:
			p.advance()
			index := p.parseExpr()
			closing := p.expect(tRBrack)
			if key, ok := index.(*ast.StringLiteral); ok {
				expr = &ast.MemberExpression{Range: ast.RangeBetween(expr, closing), Object: expr, Property: key.Value}
			} else {
				expr = &ast.IndexExpression{Range: ast.RangeBetween(expr, closing), Array: expr, Index: index}
			}
		case tLParen:
			p.advance()
			args := p.parseProperties(tRParen)
			closing := p.expect(tRParen)
			expr = &ast.CallExpression{Range: ast.RangeBetween(expr, closing), Callee: expr, Arguments: args}
		default:
			return expr
		}
	}
}

func (p *parser) parsePrimary() ast.Expr {
	it := p.cur()
	switch it.kind {
	case tIdent:
		p.advance()
		switch it.lit {
		case "true", "false":
			return &ast.BooleanLiteral{Range: ast.RangeOf(it), Value: it.lit == "true"}
		}
		return &ast.Identifier{Range: ast.RangeOf(it), Name: it.lit}
	case tInt:
		p.advance()
		return &ast.IntegerLiteral{Range: ast.RangeOf(it), Value: p.parseInt(it)}
	case tFloat:
		p.advance()
		v, err := strconv.ParseFloat(it.lit, 64)
		if err != nil {
			p.fail(it, "invalid float literal %s", it.lit)
		}
		return &ast.FloatLiteral{Range: ast.RangeOf(it), Value: v}
	case tString:
		p.advance()
		return &ast.StringLiteral{Range: ast.RangeOf(it), Value: it.lit}
	case tDuration:
		p.advance()
		return &ast.DurationLiteral{Range: ast.RangeOf(it), Values: p.parseDurations(it)}
	case tLParen:
		if p.isFunctionStart() {
			return p.parseFunction()
		}
		p.advance()
		expr := p.parseExpr()
		p.expect(tRParen)
		return expr
	case tLBrack:
		return p.parseArray()
	case tLBrace:
		return p.parseObject()
	case tIf:
		p.advance()
		test := p.parseExpr()
		p.expect(tThen)
		consequent := p.parseExpr()
		p.expect(tElse)
		alternate := p.parseExpr()
		return &ast.ConditionalExpression{
			Range:      ast.RangeBetween(it, alternate),
			Test:       test,
			Consequent: consequent,
			Alternate:  alternate,
		}
	}
	p.fail(it, "unexpected %v", it)
	return nil
}

func (p *parser) parseDurations(it item) []ast.Duration {
	var values []ast.Duration
	lit := it.lit
	for len(lit) > 0 {
		i := 0
		for i < len(lit) && '0' <= lit[i] && lit[i] <= '9' {
			i++
		}
		j := i
		for j < len(lit) {
			r, w := utf8.DecodeRuneInString(lit[j:])
			if !unicode.IsLetter(r) {
				break
			}
			j += w
		}
		magnitude, err := strconv.ParseInt(lit[:i], 10, 64)
		if err != nil {
			p.fail(it, "invalid duration literal %s", it.lit)
		}
		values = append(values, ast.Duration{Magnitude: magnitude, Unit: lit[i:j]})
		lit = lit[j:]
	}
	return values
}

// isFunctionStart reports whether the parenthesis at the current position
// opens the parameter list of a function literal, i.e. its matching closing
// parenthesis is followed by `=>`.
func (p *parser) isFunctionStart() bool {
	depth := 0
	for n := 0; ; n++ {
		switch p.peek(n).kind {
		case tLParen, tLBrack, tLBrace:
			depth++
		case tRParen, tRBrack, tRBrace:
			depth--
			if depth == 0 {
				return p.peek(n+1).kind == tArrow
			}
		case tEOF:
			return false
		}
	}
}

func (p *parser) parseFunction() *ast.FunctionExpression {
	open := p.expect(tLParen)
	fn := &ast.FunctionExpression{}
	for !p.at(tRParen) {
		param := &ast.Parameter{}
		start := p.cur()
		param.Pipe = p.accept(tPipeReceive)
		param.Key = p.ident()
		var end ast.Positioner = param.Key
		if p.accept(tAssign) {
			param.Default = p.parseExpr()
			end = param.Default
		}
		param.Range = ast.RangeBetween(start, end)
		fn.Params = append(fn.Params, param)
		if !p.accept(tComma) {
			break
		}
	}
	p.expect(tRParen)
	p.expect(tArrow)
	if p.at(tLBrace) {
		block := p.parseBlock()
		fn.Body = block
		fn.Range = ast.RangeBetween(open, block)
	} else {
		body := p.parseExpr()
		fn.Body = body
		fn.Range = ast.RangeBetween(open, body)
	}
	return fn
}

func (p *parser) parseArray() *ast.ArrayExpression {
	open := p.expect(tLBrack)
	arr := &ast.ArrayExpression{}
	for !p.at(tRBrack) {
		arr.Elements = append(arr.Elements, p.parseExpr())
		if !p.accept(tComma) {
			break
		}
	}
	closing := p.expect(tRBrack)
	arr.Range = ast.RangeBetween(open, closing)
	return arr
}

func (p *parser) parseObject() *ast.ObjectExpression {
	open := p.expect(tLBrace)
	obj := &ast.ObjectExpression{}
	if p.at(tIdent) && p.peek(1).kind == tIdent && p.peek(1).lit == "with" {
		obj.With = p.ident()
		p.advance()
	}
	obj.Properties = p.parseProperties(tRBrace)
	closing := p.expect(tRBrace)
	obj.Range = ast.RangeBetween(open, closing)
	return obj
}

// parseProperties parses `key: value` pairs up to, but not including, the
// closing token.
func (p *parser) parseProperties(closing tokenKind) []*ast.Property {
	var props []*ast.Property
	for !p.at(closing) {
		key := p.ident()
		prop := &ast.Property{Range: ast.RangeOf(key), Key: key}
		if p.accept(tColon) {
			prop.Value = p.parseExpr()
			prop.Range = ast.RangeBetween(key, prop.Value)
		}
		props = append(props, prop)
		if !p.accept(tComma) {
			break
		}
	}
	return props
}
