package token

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type TokenType string

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Identifiers + literals
	IDENT   = "IDENT"   // A, B1, NAME$
	NUMBER  = "NUMBER"  // 10, 3.25, .5, 1E3
	STRING  = "STRING"  // "A string literal"
	COMMENT = "COMMENT" // everything after REM

	// Operators
	ASSIGN   = "="
	PLUS     = "+"
	MINUS    = "-"
	ASTERISK = "*"
	SLASH    = "/"
	CARET    = "^"

	LT = "<"
	GT = ">"

	EQ     = "="
	NOT_EQ = "<>"
	GTE    = ">="
	LTE    = "<="

	// Delimiters
	COMMA     = ","
	SEMICOLON = ";"
	COLON     = ":"

	LPAREN = "("
	RPAREN = ")"

	// Keywords
	AND    = "AND"
	BYE    = "BYE"
	CLS    = "CLS"
	COLOR  = "COLOR"
	END    = "END"
	FOR    = "FOR"
	GOSUB  = "GOSUB"
	GOTO   = "GOTO"
	IF     = "IF"
	INPUT  = "INPUT"
	LET    = "LET"
	LIST   = "LIST"
	LOAD   = "LOAD"
	NEW    = "NEW"
	NEXT   = "NEXT"
	NOT    = "NOT"
	OR     = "OR"
	PRINT  = "PRINT"
	REM    = "REM"
	RETURN = "RETURN"
	RUN    = "RUN"
	SAVE   = "SAVE"
	SCREEN = "SCREEN"
	STEP   = "STEP"
	STOP   = "STOP"
	THEN   = "THEN"
	TO     = "TO"
	WAIT   = "WAIT"
)

type Token struct {
	Type    TokenType
	Literal string
}

var keywords = map[string]TokenType{
	"AND":    AND,
	"BYE":    BYE,
	"CLS":    CLS,
	"COLOR":  COLOR,
	"END":    END,
	"FOR":    FOR,
	"GOSUB":  GOSUB,
	"GOTO":   GOTO,
	"IF":     IF,
	"INPUT":  INPUT,
	"LET":    LET,
	"LIST":   LIST,
	"LOAD":   LOAD,
	"NEW":    NEW,
	"NEXT":   NEXT,
	"NOT":    NOT,
	"OR":     OR,
	"PRINT":  PRINT,
	"REM":    REM,
	"RETURN": RETURN,
	"RUN":    RUN,
	"SAVE":   SAVE,
	"SCREEN": SCREEN,
	"STEP":   STEP,
	"STOP":   STOP,
	"THEN":   THEN,
	"TO":     TO,
	"WAIT":   WAIT,
}

var upper = cases.Upper(language.Und)

// Fold returns the canonical (upper case) spelling of an identifier,
// BASIC does not care how you type it
func Fold(ident string) string {
	return upper.String(ident)
}

// LookupIdent returns the keyword type for ident, or IDENT
func LookupIdent(ident string) TokenType {

	if tok, ok := keywords[Fold(ident)]; ok {
		return tok
	}
	return IDENT
}
