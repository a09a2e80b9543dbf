package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/navionguy/c64basic/ast"
	"github.com/navionguy/c64basic/berrors"
	"github.com/navionguy/c64basic/builtins"
	"github.com/navionguy/c64basic/lexer"
	"github.com/navionguy/c64basic/token"
)

const (
	_ int = iota
	// LOWEST defines the bottom of the priority stack
	LOWEST
	LOGICALOR   // OR
	LOGICALAND  // AND
	LOGICALNOT  // NOT X
	RELATIONAL  // = <> < > <= >=
	SUM         // +
	PRODUCT     // *
	PREFIX      // -X
	POWER       // X ^ Y
	CALL        // LEN(X)
)

var precedences = map[token.TokenType]int{
	token.OR:       LOGICALOR,
	token.AND:      LOGICALAND,
	token.EQ:       RELATIONAL,
	token.NOT_EQ:   RELATIONAL,
	token.LT:       RELATIONAL,
	token.GT:       RELATIONAL,
	token.GTE:      RELATIONAL,
	token.LTE:      RELATIONAL,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.SLASH:    PRODUCT,
	token.ASTERISK: PRODUCT,
	token.CARET:    POWER,
}

// Parser an instance
type Parser struct {
	l      *lexer.Lexer
	errors []string

	curToken  token.Token
	peekToken token.Token
	seen      []string // literals consumed so far, for trash statements

	failed bool   // an error was reported in the current statement
	code   int    // berrors code of that error
	detail string // and any detail that goes with it

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// New create and return a Parser instance
func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l:      l,
		errors: []string{},
	}

	// create map parsers for prefix elements
	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.NUMBER, p.parseNumberLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.PLUS, p.parsePrefixExpression)
	p.registerPrefix(token.NOT, p.parsePrefixExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)

	// and infix elements
	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	for tt := range precedences {
		p.registerInfix(tt, p.parseInfixExpression)
	}

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()
	return p
}

// ParseLine is a convenience, lex and parse one line of text
func ParseLine(text string) []ast.Statement {
	return New(lexer.New(text)).ParseLine()
}

// Errors returns list of errors seen while parsing
func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) nextToken() {
	if len(p.curToken.Literal) > 0 && p.curToken.Type != token.EOF {
		p.seen = append(p.seen, p.curToken.Literal)
	}
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

// ParseLine builds the statements for one line of code
// a statement that won't parse becomes a TrashStatement holding the error,
// and nothing after it on the line is kept
func (p *Parser) ParseLine() []ast.Statement {
	defer untrace(trace("ParseLine"))
	stmts := []ast.Statement{}

	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.COLON) {
			p.nextToken()
			continue
		}

		start := p.curToken
		p.seen = nil
		stmt := p.parseStatement()

		if !p.failed && !p.chkEndOfStatement() {
			if ifs, ok := stmt.(*ast.IfStatement); ok && ifs.Goto == 0 {
				// THEN runs straight into the next statement
				stmts = append(stmts, stmt)
				p.nextToken()
				continue
			}
			p.reportError(berrors.Syntax, "")
		}

		if p.failed {
			return append(stmts, p.parseTrash(start))
		}

		stmts = append(stmts, stmt)
		p.nextToken()
	}

	return stmts
}

func (p *Parser) parseStatement() ast.Statement {
	defer untrace(trace("parseStatement"))
	switch p.curToken.Type {
	case token.BYE:
		return &ast.ByeCommand{Token: p.curToken}
	case token.CLS:
		return &ast.ClsStatement{Token: p.curToken}
	case token.COLOR:
		return p.parseColorStatement()
	case token.END:
		return &ast.EndStatement{Token: p.curToken}
	case token.FOR:
		return p.parseForStatement()
	case token.GOSUB:
		return p.parseGosubStatement()
	case token.GOTO:
		return p.parseGotoStatement()
	case token.IDENT:
		return p.parseImpliedLetStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.INPUT:
		return p.parseInputStatement()
	case token.LET:
		return p.parseLetStatement()
	case token.LIST:
		return p.parseListStatement()
	case token.LOAD:
		return p.parseLoadCommand()
	case token.NEW:
		return &ast.NewCommand{Token: p.curToken}
	case token.NEXT:
		return p.parseNextStatement()
	case token.PRINT:
		return p.parsePrintStatement()
	case token.REM:
		return p.parseRemStatement()
	case token.RETURN:
		return &ast.ReturnStatement{Token: p.curToken}
	case token.RUN:
		return p.parseRunCommand()
	case token.SAVE:
		return p.parseSaveCommand()
	case token.SCREEN:
		return p.parseScreenStatement()
	case token.STOP:
		return &ast.StopStatement{Token: p.curToken}
	case token.WAIT:
		return p.parseWaitStatement()
	}

	p.reportError(berrors.Syntax, "")
	return nil
}

// COLOR fg, bg
func (p *Parser) parseColorStatement() *ast.ColorStatement {
	defer untrace(trace("parseColorStatement"))
	stmt := &ast.ColorStatement{Token: p.curToken}
	stmt.Params = p.parseParams(2)

	return stmt
}

// SCREEN bg
func (p *Parser) parseScreenStatement() *ast.ScreenStatement {
	defer untrace(trace("parseScreenStatement"))
	stmt := &ast.ScreenStatement{Token: p.curToken}
	stmt.Params = p.parseParams(1)

	return stmt
}

// WAIT seconds
func (p *Parser) parseWaitStatement() *ast.WaitStatement {
	defer untrace(trace("parseWaitStatement"))
	stmt := &ast.WaitStatement{Token: p.curToken}
	params := p.parseParams(1)
	if len(params) == 1 {
		stmt.Duration = params[0]
	}

	return stmt
}

func (p *Parser) parseLoadCommand() *ast.LoadCommand {
	defer untrace(trace("parseLoadCommand"))
	stmt := &ast.LoadCommand{Token: p.curToken}
	params := p.parseParams(1)
	if len(params) == 1 {
		stmt.Path = params[0]
	}

	return stmt
}

func (p *Parser) parseSaveCommand() *ast.SaveCommand {
	defer untrace(trace("parseSaveCommand"))
	stmt := &ast.SaveCommand{Token: p.curToken}
	params := p.parseParams(1)
	if len(params) == 1 {
		stmt.Path = params[0]
	}

	return stmt
}

// FOR I = start TO limit [STEP step]
func (p *Parser) parseForStatement() *ast.ForStatement {
	defer untrace(trace("parseForStatement"))
	stmt := &ast.ForStatement{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Var = p.innerParseIdentifier()
	if stmt.Var.IsString() {
		p.reportError(berrors.TypeMismatch, "")
		return nil
	}

	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	stmt.Start = p.parseExpression(LOWEST)

	if !p.expectPeek(token.TO) {
		return nil
	}
	p.nextToken()
	stmt.Limit = p.parseExpression(LOWEST)

	if p.peekTokenIs(token.STEP) {
		p.nextToken()
		p.nextToken()
		stmt.Step = p.parseExpression(LOWEST)
	}

	return stmt
}

// NEXT [I[,J...]]
func (p *Parser) parseNextStatement() *ast.NextStatement {
	defer untrace(trace("parseNextStatement"))
	stmt := &ast.NextStatement{Token: p.curToken}

	if p.chkEndOfStatement() {
		return stmt
	}

	stmt.Vars = p.parseIdentifierList()
	return stmt
}

func (p *Parser) parseGotoStatement() *ast.GotoStatement {
	defer untrace(trace("parseGotoStatement"))
	stmt := &ast.GotoStatement{Token: p.curToken}
	stmt.Goto = p.parseLineRef()

	return stmt
}

func (p *Parser) parseGosubStatement() *ast.GosubStatement {
	defer untrace(trace("parseGosubStatement"))
	stmt := &ast.GosubStatement{Token: p.curToken}
	stmt.Gosub = p.parseLineRef()

	return stmt
}

// the target of GOTO, GOSUB and THEN, must be a plain line number
func (p *Parser) parseLineRef() int {
	if !p.expectPeek(token.NUMBER) {
		return 0
	}

	ln, err := strconv.Atoi(p.curToken.Literal)
	if err != nil || !ast.ValidLineNum(ln) {
		p.reportError(berrors.Syntax, "")
		return 0
	}

	return ln
}

// IF cond THEN line | IF cond GOTO line | IF cond THEN statement[:statement...]
func (p *Parser) parseIfStatement() *ast.IfStatement {
	defer untrace(trace("parseIfStatement"))
	stmt := &ast.IfStatement{Token: p.curToken}

	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)

	switch {
	case p.peekTokenIs(token.GOTO):
		p.nextToken()
		stmt.Goto = p.parseLineRef()
	case p.peekTokenIs(token.THEN):
		p.nextToken()
		if p.peekTokenIs(token.NUMBER) {
			stmt.Goto = p.parseLineRef()
		}
	default:
		p.reportError(berrors.Syntax, "")
		return nil
	}

	return stmt
}

// INPUT ["prompt";] var[,var...]
func (p *Parser) parseInputStatement() *ast.InputStatement {
	defer untrace(trace("parseInputStatement"))
	stmt := &ast.InputStatement{Token: p.curToken}

	if p.peekTokenIs(token.STRING) {
		p.nextToken()
		stmt.Prompt = p.curToken.Literal

		if !p.expectPeek(token.SEMICOLON) {
			return nil
		}
	}

	stmt.Vars = p.parseIdentifierList()
	return stmt
}

// user wants to list part or all of the program
func (p *Parser) parseListStatement() *ast.ListStatement {
	defer untrace(trace("parseListStatement"))
	stmt := &ast.ListStatement{Token: p.curToken, Start: "", Lrange: "", Stop: ""}

	if p.peekTokenIs(token.NUMBER) {
		p.nextToken()
		stmt.Start = p.curToken.Literal
	}

	if !p.peekTokenIs(token.MINUS) {
		return stmt
	}

	p.nextToken()
	stmt.Lrange = p.curToken.Literal

	if p.peekTokenIs(token.NUMBER) {
		p.nextToken()
		stmt.Stop = p.curToken.Literal
	}

	return stmt
}

func (p *Parser) parsePrintStatement() *ast.PrintStatement {
	defer untrace(trace("parsePrintStatement"))
	stmt := &ast.PrintStatement{Token: p.curToken}

	for !p.chkEndOfStatement() {
		p.nextToken()

		// a separator with nothing in front of it
		if p.curTokenIs(token.COMMA) || p.curTokenIs(token.SEMICOLON) {
			stmt.Items = append(stmt.Items, nil)
			stmt.Seperators = append(stmt.Seperators, p.curToken.Literal)
			continue
		}

		stmt.Items = append(stmt.Items, p.parseExpression(LOWEST))
		if p.failed {
			return nil
		}

		if p.peekTokenIs(token.COMMA) || p.peekTokenIs(token.SEMICOLON) {
			p.nextToken()
			stmt.Seperators = append(stmt.Seperators, p.curToken.Literal)
		} else {
			stmt.Seperators = append(stmt.Seperators, "")
		}
	}

	return stmt
}

func (p *Parser) chkEndOfStatement() bool {
	return p.peekTokenIs(token.COLON) || p.peekTokenIs(token.EOF)
}

func (p *Parser) parseLetStatement() *ast.LetStatement {
	defer untrace(trace("parseLetStatement"))

	stmt := &ast.LetStatement{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = p.innerParseIdentifier()

	return p.finishParseLetStatment(stmt)
}

// a statement starting with a name has to be an assignment
func (p *Parser) parseImpliedLetStatement() *ast.LetStatement {
	defer untrace(trace("parseImpliedLetStatement"))

	if !p.peekTokenIs(token.ASSIGN) {
		p.reportError(berrors.UnknownCommand, p.curToken.Literal)
		return nil
	}

	stmt := &ast.LetStatement{Token: p.curToken}
	stmt.Name = p.innerParseIdentifier()

	return p.finishParseLetStatment(stmt)
}

func (p *Parser) finishParseLetStatment(stmt *ast.LetStatement) *ast.LetStatement {
	if _, ok := builtins.Lookup(stmt.Name.Value); ok {
		// can't assign to a function name
		p.reportError(berrors.Syntax, "")
		return nil
	}

	if !p.expectPeek(token.ASSIGN) {
		return nil
	}

	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)

	return stmt
}

func (p *Parser) parseRemStatement() *ast.RemStatement {
	defer untrace(trace("parseRemStatement"))
	stmt := &ast.RemStatement{Token: p.curToken}

	if p.peekTokenIs(token.COMMENT) {
		p.nextToken()
		stmt.Comment = p.curToken.Literal
	}

	return stmt
}

// RUN [line]
func (p *Parser) parseRunCommand() *ast.RunCommand {
	defer untrace(trace("parseRunCommand"))
	stmt := &ast.RunCommand{Token: p.curToken}

	if p.peekTokenIs(token.NUMBER) {
		stmt.StartLine = p.parseLineRef()
	}

	return stmt
}

// exactly count comma separated expressions
func (p *Parser) parseParams(count int) []ast.Expression {
	var params []ast.Expression

	for !p.chkEndOfStatement() {
		p.nextToken()
		params = append(params, p.parseExpression(LOWEST))
		if p.failed {
			return nil
		}

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}

	if len(params) != count {
		p.reportError(berrors.Syntax, "")
		return nil
	}

	return params
}

// one or more comma separated variable names
func (p *Parser) parseIdentifierList() []*ast.Identifier {
	var ids []*ast.Identifier

	for {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		ids = append(ids, p.innerParseIdentifier())

		if !p.peekTokenIs(token.COMMA) {
			return ids
		}
		p.nextToken()
	}
}

func (p *Parser) parseIdentifier() ast.Expression {
	defer untrace(trace("parseIdentifier"))

	if p.peekTokenIs(token.LPAREN) {
		return p.parseCallExpression()
	}

	return p.innerParseIdentifier()
}

func (p *Parser) innerParseIdentifier() *ast.Identifier {
	return &ast.Identifier{Token: p.curToken, Value: token.Fold(p.curToken.Literal)}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	defer untrace(trace("parseNumberLiteral"))
	lit := &ast.NumberLiteral{Token: p.curToken}

	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil || math.IsInf(value, 0) {
		p.reportError(berrors.Overflow, "")
		return nil
	}

	lit.Value = value
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	exp := &ast.GroupedExpression{Token: p.curToken}

	p.nextToken()

	exp.Exp = p.parseExpression(LOWEST)

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	return exp
}

// only the built in functions can be called
func (p *Parser) parseCallExpression() ast.Expression {
	defer untrace(trace("parseCallExpression"))
	name := token.Fold(p.curToken.Literal)
	exp := &ast.CallExpression{Token: p.curToken, Function: name}

	if _, ok := builtins.Lookup(name); !ok {
		p.reportError(berrors.UndefinedFunction, name)
		return nil
	}

	p.nextToken()
	exp.Arguments = p.parseCallArguments()
	return exp
}

// curToken is the '('
func (p *Parser) parseCallArguments() []ast.Expression {
	args := []ast.Expression{}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return args
	}

	p.nextToken()
	args = append(args, p.parseExpression(LOWEST))

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		args = append(args, p.parseExpression(LOWEST))
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	return args
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	defer untrace(trace("parseExpression"))
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken.Type)
		return nil
	}
	leftExp := prefix()
	for !p.failed && !p.peekTokenIs(token.COLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
	}
	return leftExp
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	defer untrace(trace("parsePrefixExpression"))
	expression := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
	}

	// NOT binds looser than the comparisons it usually applies to
	prec := PREFIX
	if p.curTokenIs(token.NOT) {
		prec = LOGICALNOT
	}

	p.nextToken()
	expression.Right = p.parseExpression(prec)
	return expression
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	defer untrace(trace("parseInfixExpression"))
	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
		Left:     left,
	}
	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	return expression
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.TokenType) {
	msg := fmt.Sprintf("expected next token to be %s, got %s instead", t, p.peekToken.Type)
	p.errors = append(p.errors, msg)
	p.fail(berrors.Syntax, "")
}

func (p *Parser) noPrefixParseFnError(t token.TokenType) {
	msg := fmt.Sprintf("no prefix parse function for %s found", t)
	p.errors = append(p.errors, msg)
	p.fail(berrors.Syntax, "")
}

// reportError records a problem with the current statement
func (p *Parser) reportError(code int, detail string) {
	msg := berrors.TextForError(code)
	if len(detail) > 0 {
		msg = msg + " (" + detail + ")"
	}
	p.errors = append(p.errors, msg)
	p.fail(code, detail)
}

// only the first error in a statement counts
func (p *Parser) fail(code int, detail string) {
	if p.failed {
		return
	}
	p.failed = true
	p.code = code
	p.detail = detail
}

// parser can't make sense of the input
// just soak up all the tokens to the end of the line
func (p *Parser) parseTrash(start token.Token) *ast.TrashStatement {
	for !p.curTokenIs(token.EOF) {
		p.nextToken()
	}

	return &ast.TrashStatement{
		Token:  start,
		Code:   p.code,
		Detail: p.detail,
		Text:   strings.Join(p.seen, " "),
	}
}

func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}
	return LOWEST
}
