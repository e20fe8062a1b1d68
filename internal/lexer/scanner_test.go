package lexer

import "testing"

func tokenTypes(toks []Token) []TokenType {
	var out []TokenType
	for _, t := range toks {
		out = append(out, t.Type)
	}
	return out
}

func TestScanVectorLiteral(t *testing.T) {
	toks := NewScanner("<1, 2.5, -3>").ScanTokens()
	want := []TokenType{TokenLAngle, TokenNumber, TokenComma, TokenNumber, TokenComma, TokenMinus, TokenNumber, TokenRAngle, TokenEOF}
	got := tokenTypes(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestScanDirectiveCarriesBareKeyword(t *testing.T) {
	toks := NewScanner("#declare Foo = 1").ScanTokens()
	if toks[0].Type != TokenDirective || toks[0].Lexeme != "declare" {
		t.Fatalf("expected DIRECTIVE %q, got %s %q", "declare", toks[0].Type, toks[0].Lexeme)
	}
}

func TestScanLineAndBlockComments(t *testing.T) {
	toks := NewScanner("1 // a comment\n2 /* block\ncomment */ 3").ScanTokens()
	var nums []string
	for _, tok := range toks {
		if tok.Type == TokenNumber {
			nums = append(nums, tok.Lexeme)
		}
	}
	if len(nums) != 3 || nums[0] != "1" || nums[1] != "2" || nums[2] != "3" {
		t.Fatalf("expected numbers [1 2 3], got %v", nums)
	}
}

func TestScanString(t *testing.T) {
	toks := NewScanner(`"hello world"`).ScanTokens()
	if toks[0].Type != TokenString || toks[0].Lexeme != "hello world" {
		t.Fatalf("expected STRING %q, got %s %q", "hello world", toks[0].Type, toks[0].Lexeme)
	}
}

func TestScanComparisonVsVectorDisambiguation(t *testing.T) {
	// '<=' and '>=' are two-character operators; '<'/'>' alone are the
	// vector-literal delimiters, disambiguated purely by the next byte.
	toks := NewScanner("a <= b").ScanTokens()
	if toks[1].Type != TokenLE {
		t.Fatalf("expected LE, got %s", toks[1].Type)
	}
}
