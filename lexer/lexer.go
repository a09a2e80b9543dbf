package lexer

import (
	"strings"

	"github.com/navionguy/c64basic/token"
)

//Lexer a lexical analyzer instance, he works on a single line of source
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	remark       bool // last token was REM, the rest of the line is a comment
}

//New create a new lexer object
func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

//NextToken scans for the next token
func (l *Lexer) NextToken() token.Token {
	var tok token.Token

	if l.remark {
		return l.readRemark()
	}

	l.skipWhitespace()

	switch l.ch {
	case '=':
		tok = newToken(token.ASSIGN, l.ch)
	case ':':
		tok = newToken(token.COLON, l.ch)
	case ';':
		tok = newToken(token.SEMICOLON, l.ch)
	case '(':
		tok = newToken(token.LPAREN, l.ch)
	case ')':
		tok = newToken(token.RPAREN, l.ch)
	case ',':
		tok = newToken(token.COMMA, l.ch)
	case '+':
		tok = newToken(token.PLUS, l.ch)
	case '-':
		tok = newToken(token.MINUS, l.ch)
	case '/':
		tok = newToken(token.SLASH, l.ch)
	case '*':
		tok = newToken(token.ASTERISK, l.ch)
	case '^':
		tok = newToken(token.CARET, l.ch)
	case '?':
		// the classic shorthand for PRINT
		tok = token.Token{Type: token.PRINT, Literal: "?"}
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.LTE, Literal: "<="}
		} else if l.peekChar() == '>' {
			l.readChar()
			tok = token.Token{Type: token.NOT_EQ, Literal: "<>"}
		} else {
			tok = newToken(token.LT, l.ch)
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.GTE, Literal: ">="}
		} else {
			tok = newToken(token.GT, l.ch)
		}
	case '"':
		literal, ok := l.readString()
		if !ok {
			return token.Token{Type: token.ILLEGAL, Literal: "unterminated string"}
		}
		tok = token.Token{Type: token.STRING, Literal: literal}
	case 0:
		tok.Literal = token.EOF
		tok.Type = token.EOF
		return tok
	default:
		if isLetter(l.ch) {
			tok.Literal = token.Fold(l.readIdentifier())
			tok.Type = token.LookupIdent(tok.Literal)
			if tok.Type == token.REM {
				l.remark = true
			}
			return tok
		} else if isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())) {
			return l.readNumber()
		} else {
			tok = newToken(token.ILLEGAL, l.ch)
		}
	}

	l.readChar()
	return tok
}

// Tokenize lexes the whole line, stopping at the first ILLEGAL token.
// The returned slice always ends with EOF or ILLEGAL.
func Tokenize(input string) []token.Token {
	var toks []token.Token
	l := New(input)

	for {
		tok := l.NextToken()
		toks = append(toks, tok)

		if tok.Type == token.EOF || tok.Type == token.ILLEGAL {
			return toks
		}
	}
}

// letters, then letters or digits, then an optional '$'
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '$' {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

// reads up to the closing quote, returns false if there isn't one
func (l *Lexer) readString() (string, bool) {
	position := l.position + 1
	for {
		l.readChar()
		if l.ch == '"' {
			return l.input[position:l.position], true
		}
		if l.ch == 0 {
			return l.input[position:l.position], false
		}
	}
}

// after a REM the rest of the line is the comment, whatever it holds
func (l *Lexer) readRemark() token.Token {
	l.remark = false
	rest := ""
	if l.position < len(l.input) {
		rest = l.input[l.position:]
	}
	l.position = len(l.input)
	l.readPosition = len(l.input) + 1
	l.ch = 0

	return token.Token{Type: token.COMMENT, Literal: strings.TrimLeft(rest, " \t")}
}

// reads a numeric constant, digits with at most one decimal point
// and an optional exponent
func (l *Lexer) readNumber() token.Token {
	position := l.position
	dots := 0

	for isDigit(l.ch) || l.ch == '.' {
		if l.ch == '.' {
			dots++
		}
		l.readChar()
	}

	if dots > 1 {
		return token.Token{Type: token.ILLEGAL, Literal: "malformed number " + l.input[position:l.position]}
	}

	// exponent only counts if digits follow
	if l.ch == 'E' || l.ch == 'e' {
		off := 1
		if c := l.peekAt(off); c == '+' || c == '-' {
			off++
		}
		if isDigit(l.peekAt(off)) {
			for i := 0; i < off; i++ {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}

	return token.Token{Type: token.NUMBER, Literal: l.input[position:l.position]}
}

//peekChar - take a look at, but don't consume the next character
func (l *Lexer) peekChar() byte {
	return l.peekAt(1)
}

func (l *Lexer) peekAt(off int) byte {
	pos := l.position + off
	if pos >= len(l.input) {
		return 0
	}

	return l.input[pos]
}

func newToken(tokenType token.TokenType, ch byte) token.Token {
	return token.Token{Type: tokenType, Literal: string(ch)}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
		l.readChar()
	}
}
