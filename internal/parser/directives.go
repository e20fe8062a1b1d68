package parser

import (
	"csgcore/internal/lexer"
	"csgcore/internal/symtab"
)

// directive dispatches a single `#keyword` token to its handler:
// #declare/#local/#include/#if/#else/#while/#macro/#version and friends.
func (p *Parser) directive() {
	kw := p.advance().Lexeme
	switch kw {
	case "declare":
		p.declareDirective(p.syms.Declare)
	case "local":
		p.declareDirective(p.syms.Local)
	case "include":
		p.includeDirective()
	case "if":
		p.ifDirective()
	case "while":
		p.whileDirective()
	case "macro":
		p.macroDirective()
	case "version":
		p.expression() // version number is parsed and discarded; no
		// behavioral version-gating in this core .
	case "error":
		msg := p.consume(lexer.TokenString, "expected string after #error").Lexeme
		p.fatalf("%s", msg)
	case "warning":
		msg := p.consume(lexer.TokenString, "expected string after #warning").Lexeme
		p.warn("%s", msg)
	case "undef":
		p.consume(lexer.TokenIdent, "expected identifier after #undef")
	case "debug":
		p.consume(lexer.TokenString, "expected string after #debug")
	case "end", "else":
		// Reaching a bare #end/#else outside an open #if/#while/#macro is
		// a structural error; the owning directive consumes its own #end.
		p.fatalf("unmatched #%s", kw)
	default:
		p.fatalf("unsupported directive #%s", kw)
	}
}

func (p *Parser) declareDirective(bind func(string, symtab.Kind, interface{}) error) {
	name := p.consume(lexer.TokenIdent, "expected identifier after #declare/#local").Lexeme
	p.consume(lexer.TokenEqual, "expected '=' in declaration")

	if s := p.tryParseObject(); s != nil {
		if err := bind(name, symtab.KindObject, s); err != nil {
			p.fatalf("%s", err.Error())
		}
		return
	}
	if blk, kind, ok := p.tryParseOpaqueNamed(); ok {
		if err := bind(name, kind, blk); err != nil {
			p.fatalf("%s", err.Error())
		}
		return
	}

	v := p.expression()
	p.match(lexer.TokenSemicolon)
	var kind symtab.Kind
	var value interface{}
	switch {
	case v.IsString:
		kind, value = symtab.KindString, v.Str
	case v.IsVector && v.Dim == 4:
		kind, value = symtab.KindVector4D, v.Vec
	case v.IsVector:
		kind, value = symtab.KindVector, v.AsVec3()
	default:
		kind, value = symtab.KindFloat, v.Num
	}
	if err := bind(name, kind, value); err != nil {
		p.fatalf("%s", err.Error())
	}
}

func (p *Parser) includeDirective() {
	tok := p.consume(lexer.TokenString, "expected filename string after #include")
	if p.includer == nil {
		p.fatalf("#include %q requires a configured Includer", tok.Lexeme)
	}
	src, err := p.includer.ReadInclude(tok.Lexeme)
	if err != nil {
		p.fatalf("#include %q: %v", tok.Lexeme, err)
	}
	toks := lexer.NewScanner(src).ScanTokens()
	p.withTokens(toks, tok.Lexeme, func() {
		for !p.isAtEnd() {
			p.topLevel()
		}
	})
}

// ifDirective implements #if/#else/#end by capturing the full token span
// of each branch and only replaying the taken one, respecting nested
// #if/#while/#macro via brace-less directive-depth counting.
func (p *Parser) ifDirective() {
	cond := p.expression().AsFloat() != 0
	thenStart := p.current
	thenEnd, elseStart, elseEnd := p.scanIfBranches()

	if cond {
		p.replaySpan(thenStart, thenEnd)
	} else if elseStart >= 0 {
		p.replaySpan(elseStart, elseEnd)
	}
}

// scanIfBranches walks forward from the current position (just after the
// #if condition) counting nested #if/#while/#macro opens against #end,
// and returns (thenEnd, elseStart, elseEnd) token indices; elseStart is
// -1 if there is no #else. Position is restored to just past the
// directive's own #end before returning.
func (p *Parser) scanIfBranches() (thenEnd, elseStart, elseEnd int) {
	depth := 0
	elseStart = -1
	for {
		if p.isAtEnd() {
			p.fatalf("unterminated #if: missing #end")
		}
		tok := p.peek()
		if tok.Type == lexer.TokenDirective {
			switch tok.Lexeme {
			case "if", "while", "macro":
				depth++
			case "end":
				if depth == 0 {
					if elseStart < 0 {
						thenEnd = p.current
					}
					elseEnd = p.current
					p.advance()
					return
				}
				depth--
			case "else":
				if depth == 0 {
					thenEnd = p.current
					p.advance()
					elseStart = p.current
					continue
				}
			}
		}
		p.advance()
	}
}

func (p *Parser) replaySpan(from, to int) {
	span := append([]lexer.Token{}, p.tokens[from:to]...)
	span = append(span, lexer.Token{Type: lexer.TokenEOF})
	p.withTokens(span, p.file, func() {
		for !p.isAtEnd() {
			p.topLevel()
		}
	})
}

// whileDirective replays its body while the condition holds; the
// condition expression itself is re-parsed each iteration since it may
// reference a loop variable mutated inside the body via #declare.
func (p *Parser) whileDirective() {
	condStart := p.current
	// Locate the body span once: condition re-evaluation below rewinds
	// to condStart but the #end position never moves.
	p.expression()
	bodyStart := p.current
	bodyEnd := p.scanMatchingEnd()

	for {
		p.current = condStart
		if p.expression().AsFloat() == 0 {
			break
		}
		p.replaySpan(bodyStart, bodyEnd)
	}
	p.current = bodyEnd + 1
}

// scanMatchingEnd returns the index of the #end directive matching the
// current nesting level (one past any nested #if/#while/#macro), without
// advancing current.
func (p *Parser) scanMatchingEnd() int {
	depth := 0
	i := p.current
	for {
		if i >= len(p.tokens) || p.tokens[i].Type == lexer.TokenEOF {
			p.fatalf("unterminated block: missing #end")
		}
		tok := p.tokens[i]
		if tok.Type == lexer.TokenDirective {
			switch tok.Lexeme {
			case "if", "while", "macro":
				depth++
			case "end":
				if depth == 0 {
					return i
				}
				depth--
			}
		}
		i++
	}
}

func (p *Parser) macroDirective() {
	name := p.consume(lexer.TokenIdent, "expected macro name").Lexeme
	var params []string
	if p.match(lexer.TokenLParen) {
		if !p.check(lexer.TokenRParen) {
			params = append(params, p.consume(lexer.TokenIdent, "expected parameter name").Lexeme)
			for p.match(lexer.TokenComma) {
				params = append(params, p.consume(lexer.TokenIdent, "expected parameter name").Lexeme)
			}
		}
		p.consume(lexer.TokenRParen, "expected ')' after macro parameters")
	}
	bodyStart := p.current
	bodyEnd := p.scanMatchingEnd()
	body := append([]lexer.Token{}, p.tokens[bodyStart:bodyEnd]...)
	body = append(body, lexer.Token{Type: lexer.TokenEOF})
	p.current = bodyEnd + 1
	p.macros[name] = &macro{name: name, params: params, body: body, defFile: p.file}
}

// invokeMacroExpr invokes a macro from expression position: arguments
// are evaluated and bound, the body is replayed as top-level statements
// ( macros overwhelmingly emit objects/declarations rather
// than returning a value; a macro invoked for its expression value
// always yields 0, a documented simplification).
func (p *Parser) invokeMacroExpr(m *macro) Value {
	p.invokeMacro(m)
	return scalar(0)
}

func (p *Parser) invokeMacro(m *macro) {
	p.consume(lexer.TokenLParen, "expected '(' invoking macro")
	var args []Value
	if !p.check(lexer.TokenRParen) {
		args = append(args, p.expression())
		for p.match(lexer.TokenComma) {
			args = append(args, p.expression())
		}
	}
	p.consume(lexer.TokenRParen, "expected ')' after macro arguments")
	if len(args) != len(m.params) {
		p.fatalf("macro %q expects %d arguments, got %d", m.name, len(m.params), len(args))
	}

	p.syms.PushScope()
	for i, name := range m.params {
		v := args[i]
		switch {
		case v.IsString:
			p.syms.Local(name, symtab.KindString, v.Str)
		case v.IsVector:
			p.syms.Local(name, symtab.KindVector, v.AsVec3())
		default:
			p.syms.Local(name, symtab.KindFloat, v.Num)
		}
	}
	p.withTokens(m.body, m.defFile, func() {
		for !p.isAtEnd() {
			p.topLevel()
		}
	})
	p.syms.PopScope()
}
