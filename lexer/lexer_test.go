package lexer

import (
	"testing"

	"github.com/navionguy/c64basic/token"
	"github.com/stretchr/testify/assert"
)

func TestNextToken(t *testing.T) {

	input := `let five = 5 : print "Hello there!";a$,b1 <> c <= 10 >= 9 < 1 > 2 ^ (3*4/2-1)+x`

	tests := []struct {
		expectedType    token.TokenType
		expectedLiteral string
	}{
		{token.LET, "LET"},
		{token.IDENT, "FIVE"},
		{token.ASSIGN, "="},
		{token.NUMBER, "5"},
		{token.COLON, ":"},
		{token.PRINT, "PRINT"},
		{token.STRING, "Hello there!"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "A$"},
		{token.COMMA, ","},
		{token.IDENT, "B1"},
		{token.NOT_EQ, "<>"},
		{token.IDENT, "C"},
		{token.LTE, "<="},
		{token.NUMBER, "10"},
		{token.GTE, ">="},
		{token.NUMBER, "9"},
		{token.LT, "<"},
		{token.NUMBER, "1"},
		{token.GT, ">"},
		{token.NUMBER, "2"},
		{token.CARET, "^"},
		{token.LPAREN, "("},
		{token.NUMBER, "3"},
		{token.ASTERISK, "*"},
		{token.NUMBER, "4"},
		{token.SLASH, "/"},
		{token.NUMBER, "2"},
		{token.MINUS, "-"},
		{token.NUMBER, "1"},
		{token.RPAREN, ")"},
		{token.PLUS, "+"},
		{token.IDENT, "X"},
		{token.EOF, "EOF"},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		assert.Equalf(t, tt.expectedType, tok.Type, "tests[%d] - tokentype wrong", i)
		assert.Equalf(t, tt.expectedLiteral, tok.Literal, "tests[%d] - literal wrong", i)
	}
}

func TestReadNumber(t *testing.T) {
	tests := []struct {
		inp string
		tp  token.TokenType
		lit string
	}{
		{inp: "123", tp: token.NUMBER, lit: "123"},
		{inp: "3.25", tp: token.NUMBER, lit: "3.25"},
		{inp: ".5", tp: token.NUMBER, lit: ".5"},
		{inp: "1E3", tp: token.NUMBER, lit: "1E3"},
		{inp: "2.5e-4", tp: token.NUMBER, lit: "2.5e-4"},
		{inp: "7E+2", tp: token.NUMBER, lit: "7E+2"},
		{inp: "1.2.3", tp: token.ILLEGAL, lit: "malformed number 1.2.3"},
	}

	for _, tt := range tests {
		l := New(tt.inp)
		tok := l.NextToken()

		assert.Equalf(t, tt.tp, tok.Type, "%s gave wrong type", tt.inp)
		assert.Equalf(t, tt.lit, tok.Literal, "%s gave wrong literal", tt.inp)
	}
}

func TestExponentNeedsDigits(t *testing.T) {
	toks := Tokenize("5E")

	assert.Equal(t, token.NUMBER, string(toks[0].Type))
	assert.Equal(t, "5", toks[0].Literal)
	assert.Equal(t, token.IDENT, string(toks[1].Type))
}

func TestUnterminatedString(t *testing.T) {
	toks := Tokenize(`PRINT "oops`)

	assert.Len(t, toks, 2)
	assert.EqualValues(t, token.ILLEGAL, toks[1].Type)
}

func TestRemark(t *testing.T) {
	toks := Tokenize(`REM  this "isn't : parsed`)

	assert.Len(t, toks, 3)
	assert.EqualValues(t, token.REM, toks[0].Type)
	assert.EqualValues(t, token.COMMENT, toks[1].Type)
	assert.Equal(t, `this "isn't : parsed`, toks[1].Literal)
	assert.EqualValues(t, token.EOF, toks[2].Type)
}

func TestPrintShorthand(t *testing.T) {
	toks := Tokenize(`?"HI"`)

	assert.EqualValues(t, token.PRINT, toks[0].Type)
	assert.EqualValues(t, token.STRING, toks[1].Type)
}

func TestIllegalCharacter(t *testing.T) {
	toks := Tokenize("A = 5 # 2")

	last := toks[len(toks)-1]
	assert.EqualValues(t, token.ILLEGAL, last.Type)
	assert.Equal(t, "#", last.Literal)
}
