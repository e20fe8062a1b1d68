package parser

import (
	"fmt"
	"math"

	"csgcore/internal/errors"
	"csgcore/internal/lexer"
	"csgcore/internal/vecmath"
)

// precedence mirrors the internal/parser precedence map,
// generalized to the scene language's operator set (// "operator precedence via Pratt-style precedence climbing").
var precedence = map[lexer.TokenType]int{
	lexer.TokenOr: 1,
	lexer.TokenAnd: 2,
	lexer.TokenEqualEqual: 3,
	lexer.TokenNotEqual: 3,
	lexer.TokenLAngle: 3,
	lexer.TokenRAngle: 3,
	lexer.TokenLE: 3,
	lexer.TokenGE: 3,
	lexer.TokenPlus: 4,
	lexer.TokenMinus: 4,
	lexer.TokenStar: 5,
	lexer.TokenSlash: 5,
	lexer.TokenPercent: 5,
}

// expression is the entry point for scalar/vector/boolean expressions,
// evaluated immediately against the symbol table rather than building a
// separate AST: the scene language has no runtime distinct from parse
// time, so direct eval-as-you-parse is the faithful rendering of it.
func (p *Parser) expression() Value {
	return p.parseBinary(1)
}

func (p *Parser) parseBinary(minPrec int) Value {
	left := p.parseUnary()
	for {
		op := p.peek().Type
		prec, ok := precedence[op]
		if !ok || prec < minPrec {
			return left
		}
		p.advance()
		right := p.parseBinary(prec + 1)
		left = applyBinary(op, left, right, p)
	}
}

func applyBinary(op lexer.TokenType, l, r Value, p *Parser) Value {
	if l.IsVector || r.IsVector {
		lv, rv := l.AsVec3(), r.AsVec3()
		switch op {
		case lexer.TokenPlus:
			return vector3(lv.Add(rv))
		case lexer.TokenMinus:
			return vector3(lv.Sub(rv))
		case lexer.TokenStar:
			if l.IsVector && r.IsVector {
				return vector3(vecmath.Vec3{lv.X() * rv.X(), lv.Y() * rv.Y(), lv.Z() * rv.Z()})
			}
			s := r.Num
			if r.IsVector {
				s = l.Num
				return vector3(rv.Mul(s))
			}
			return vector3(lv.Mul(s))
		case lexer.TokenSlash:
			return vector3(vecmath.Vec3{lv.X() / rv.X(), lv.Y() / rv.Y(), lv.Z() / rv.Z()})
		default:
			p.fatalf("vectors do not support operator %q", op)
		}
	}
	switch op {
	case lexer.TokenPlus:
		return scalar(l.Num + r.Num)
	case lexer.TokenMinus:
		return scalar(l.Num - r.Num)
	case lexer.TokenStar:
		return scalar(l.Num * r.Num)
	case lexer.TokenSlash:
		return scalar(l.Num / r.Num)
	case lexer.TokenPercent:
		return scalar(math.Mod(l.Num, r.Num))
	case lexer.TokenLAngle:
		return boolVal(l.Num < r.Num)
	case lexer.TokenRAngle:
		return boolVal(l.Num > r.Num)
	case lexer.TokenLE:
		return boolVal(l.Num <= r.Num)
	case lexer.TokenGE:
		return boolVal(l.Num >= r.Num)
	case lexer.TokenEqualEqual:
		return boolVal(l.Num == r.Num)
	case lexer.TokenNotEqual:
		return boolVal(l.Num != r.Num)
	case lexer.TokenAnd:
		return boolVal(l.Num != 0 && r.Num != 0)
	case lexer.TokenOr:
		return boolVal(l.Num != 0 || r.Num != 0)
	}
	p.fatalf("unsupported operator %q", op)
	return Value{}
}

func boolVal(b bool) Value {
	if b {
		return scalar(1)
	}
	return scalar(0)
}

func (p *Parser) parseUnary() Value {
	if p.match(lexer.TokenMinus) {
		v := p.parseUnary()
		if v.IsVector {
			return vector3(v.AsVec3().Mul(-1))
		}
		return scalar(-v.Num)
	}
	if p.match(lexer.TokenNot) {
		v := p.parseUnary()
		return boolVal(v.AsFloat() == 0)
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() Value {
	tok := p.peek()
	switch tok.Type {
	case lexer.TokenNumber:
		p.advance()
		return scalar(parseFloatLexeme(tok.Lexeme))
	case lexer.TokenString:
		p.advance()
		return Value{Str: tok.Lexeme, IsString: true}
	case lexer.TokenLAngle:
		return p.vectorLiteral()
	case lexer.TokenLParen:
		p.advance()
		v := p.expression()
		p.consume(lexer.TokenRParen, "expected ')'")
		return v
	case lexer.TokenIdent:
		return p.identifierExpr()
	}
	p.fatalf("unexpected token %q in expression", tok.Lexeme)
	return Value{}
}

// vectorLiteral parses `<a, b, c>` or `<a, b, c, w>`, disambiguated from
// the comparison operators by always being attempted first in primary
// position ("vector literals disambiguated from </> by
// grammar position").
func (p *Parser) vectorLiteral() Value {
	p.consume(lexer.TokenLAngle, "expected '<'")
	comps := []float64{p.parseBinary(precedence[lexer.TokenPlus]).AsFloat()}
	for p.match(lexer.TokenComma) {
		comps = append(comps, p.parseBinary(precedence[lexer.TokenPlus]).AsFloat())
	}
	p.consume(lexer.TokenRAngle, "expected '>'")
	switch len(comps) {
	case 2:
		// A 2-component literal is a cross-section point <u,v>; stored as
		// (u, 0, v) so .X/.Z recover it the way Pt2 does.
		return vector3(vecmath.Vec3{comps[0], 0, comps[1]})
	case 3:
		return vector3(vecmath.Vec3{comps[0], comps[1], comps[2]})
	case 4:
		return vector4([4]float64{comps[0], comps[1], comps[2], comps[3]})
	default:
		p.fatalf("vector literal must have 2-4 components, got %d", len(comps))
	}
	return Value{}
}

func (p *Parser) identifierExpr() Value {
	name := p.advance().Lexeme
	if fn, ok := builtinFuncs[name]; ok && p.check(lexer.TokenLParen) {
		p.advance()
		var args []Value
		if !p.check(lexer.TokenRParen) {
			args = append(args, p.expression())
			for p.match(lexer.TokenComma) {
				args = append(args, p.expression())
			}
		}
		p.consume(lexer.TokenRParen, "expected ')' after function arguments")
		return fn(args)
	}
	if m, ok := p.macros[name]; ok && p.check(lexer.TokenLParen) {
		return p.invokeMacroExpr(m)
	}
	entry, ok := p.syms.Lookup(name)
	if !ok {
		p.fatalf("undeclared identifier %q", name)
	}
	switch v := entry.Value.(type) {
	case float64:
		return scalar(v)
	case vecmath.Vec3:
		return vector3(v)
	case [4]float64:
		return vector4(v)
	case string:
		return Value{Str: v, IsString: true}
	}
	p.fatalf("identifier %q is not a usable expression value", name)
	return Value{}
}

var builtinFuncs = map[string]func([]Value) Value{
	"sin": func(a []Value) Value { return scalar(math.Sin(a[0].AsFloat())) },
	"cos": func(a []Value) Value { return scalar(math.Cos(a[0].AsFloat())) },
	"sqrt": func(a []Value) Value { return scalar(math.Sqrt(a[0].AsFloat())) },
	"abs": func(a []Value) Value { return scalar(math.Abs(a[0].AsFloat())) },
	"floor": func(a []Value) Value { return scalar(math.Floor(a[0].AsFloat())) },
	"ceil": func(a []Value) Value { return scalar(math.Ceil(a[0].AsFloat())) },
	"int": func(a []Value) Value { return scalar(math.Trunc(a[0].AsFloat())) },
	"mod": func(a []Value) Value { return scalar(math.Mod(a[0].AsFloat(), a[1].AsFloat())) },
	"pow": func(a []Value) Value { return scalar(math.Pow(a[0].AsFloat(), a[1].AsFloat())) },
	"min": func(a []Value) Value {
		m := a[0].AsFloat()
		for _, v := range a[1:] {
			m = math.Min(m, v.AsFloat())
		}
		return scalar(m)
	},
	"max": func(a []Value) Value {
		m := a[0].AsFloat()
		for _, v := range a[1:] {
			m = math.Max(m, v.AsFloat())
		}
		return scalar(m)
	},
	"vlength": func(a []Value) Value { return scalar(a[0].AsVec3().Len()) },
	"vnormalize": func(a []Value) Value { return vector3(vecmath.SafeNormalize(a[0].AsVec3())) },
	"vdot": func(a []Value) Value { return scalar(a[0].AsVec3().Dot(a[1].AsVec3())) },
	"vcross": func(a []Value) Value { return vector3(a[0].AsVec3().Cross(a[1].AsVec3())) },
}

func parseFloatLexeme(s string) float64 {
	var f float64
	if _, err := fmt.Sscan(s, &f); err != nil {
		return 0
	}
	return f
}

func (p *Parser) fatalf(format string, args ...interface{}) {
	panic(errors.New(errors.Syntax, fmt.Sprintf(format, args...), p.file, p.peek().Line, p.peek().Column))
}
