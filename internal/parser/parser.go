// Package parser is the scene-description language front end:
// recursive descent in the Parser struct and match/check/consume/
// advance/peek utility-method style, generalized from statement/
// expression grammar to global settings, camera, light sources, the
// full shape catalog, and the directive/macro layer.
package parser

import (
	"fmt"

	"csgcore/internal/errors"
	"csgcore/internal/lexer"
	"csgcore/internal/scene"
	"csgcore/internal/symtab"
)

// Includer resolves a #include file name to its source text. Parser
// treats a nil Includer as "includes unsupported" and raises a fatal
// error if one is ever encountered.
type Includer interface {
	ReadInclude(name string) (string, error)
}

type macro struct {
	name string
	params []string
	body []lexer.Token
	defFile string
}

// Parser drives one scene file to a *scene.Scene, panicking with an
// *errors.CoreError on any fatal condition: a parse error aborts
// construction of the partial object tree. Parse recovers that panic
// and returns it as a normal error.
type Parser struct {
	tokens []lexer.Token
	current int
	file string

	syms *symtab.Table
	includer Includer
	macros map[string]*macro

	Warnings []errors.Warning

	sc *scene.Scene
}

func New(tokens []lexer.Token, file string, includer Includer) *Parser {
	return &Parser{
		tokens: tokens,
		file: file,
		syms: symtab.New(),
		includer: includer,
		macros: make(map[string]*macro),
		sc: scene.New(),
	}
}

// Parse runs the parser to completion, returning the built scene or the
// first fatal error encountered.
func (p *Parser) Parse() (result *scene.Scene, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(*errors.CoreError); ok {
				err = ce
				return
			}
			panic(r)
		}
	}()
	for !p.isAtEnd() {
		p.topLevel()
	}
	scene.Postprocess(p.sc)
	return p.sc, nil
}

func (p *Parser) topLevel() {
	tok := p.peek()
	switch tok.Type {
	case lexer.TokenDirective:
		p.directive()
	case lexer.TokenIdent:
		switch tok.Lexeme {
		case "global_settings":
			p.advance()
			p.globalSettingsBlock()
			return
		case "camera":
			p.advance()
			p.cameraBlock()
			return
		case "light_source":
			p.advance()
			p.sc.Lights = append(p.sc.Lights, p.lightBlock())
			return
		case "fog", "rainbow", "sky_sphere":
			blk, _, _ := p.tryParseOpaqueNamed()
			ob := *blk.(*scene.OpaqueBlock)
			switch tok.Lexeme {
			case "fog":
				p.sc.Fog = append(p.sc.Fog, ob)
			case "rainbow":
				p.sc.Rainbow = append(p.sc.Rainbow, ob)
			default:
				p.sc.SkySphere = append(p.sc.SkySphere, ob)
			}
			return
		}
		if m, ok := p.macros[tok.Lexeme]; ok && p.checkNext(lexer.TokenLParen) {
			p.advance()
			p.invokeMacro(m)
			return
		}
		if s := p.tryParseObject(); s != nil {
			p.sc.Root = append(p.sc.Root, s)
			return
		}
		p.fatalf("unexpected identifier %q at top level", tok.Lexeme)
	default:
		p.fatalf("unexpected token %q at top level", tok.Lexeme)
	}
}

// --- token utilities, grounded in the Parser methods ---

func (p *Parser) peek() lexer.Token { return p.tokens[p.current] }
func (p *Parser) previous() lexer.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) isAtEnd() bool { return p.peek().Type == lexer.TokenEOF }

func (p *Parser) advance() lexer.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(t lexer.TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == t
}

func (p *Parser) checkIdent(lexeme string) bool {
	return p.check(lexer.TokenIdent) && p.peek().Lexeme == lexeme
}

func (p *Parser) checkNext(t lexer.TokenType) bool {
	if p.current+1 >= len(p.tokens) {
		return false
	}
	return p.tokens[p.current+1].Type == t
}

func (p *Parser) match(types ...lexer.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) matchIdent(lexeme string) bool {
	if p.checkIdent(lexeme) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) consume(t lexer.TokenType, msg string) lexer.Token {
	if p.check(t) {
		return p.advance()
	}
	tok := p.peek()
	panic(errors.New(errors.Syntax, fmt.Sprintf("%s (got %q)", msg, tok.Lexeme), p.file, tok.Line, tok.Column))
}

func (p *Parser) consumeIdent(lexeme string) {
	if !p.matchIdent(lexeme) {
		tok := p.peek()
		panic(errors.New(errors.Syntax, fmt.Sprintf("expected %q (got %q)", lexeme, tok.Lexeme), p.file, tok.Line, tok.Column))
	}
}

// warn records a non-fatal diagnostic (geometry warnings and
// version-compatibility notices are collected, not returned).
func (p *Parser) warn(format string, args ...interface{}) {
	tok := p.peek()
	p.Warnings = append(p.Warnings, errors.Warning{
		Message: fmt.Sprintf(format, args...),
		Location: errors.Location{File: p.file, Line: tok.Line, Column: tok.Column},
	})
}

// withTokens temporarily swaps the token stream (used for #include and
// macro-body expansion), running fn before restoring the saved state.
func (p *Parser) withTokens(tokens []lexer.Token, file string, fn func()) {
	savedTokens, savedCurrent, savedFile := p.tokens, p.current, p.file
	p.tokens, p.current, p.file = tokens, 0, file
	fn()
	p.tokens, p.current, p.file = savedTokens, savedCurrent, savedFile
}
