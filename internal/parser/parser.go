package parser

import (
	"errors"
	"fmt"
	"hexi/internal/ast"
	"hexi/internal/lexer"
	"hexi/internal/token"
	"hexi/internal/util"
	"strconv"
)

// SyntaxError is returned for any structural mismatch in the source.
type SyntaxError struct {
	Line     int
	Column   int
	Position int
	Message  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("[%3d:%2d] %s", e.Line, e.Column, e.Message)
}

// Parser is a recursive-descent parser with precedence climbing for binary
// operators. curToken is always the next unconsumed token; peekToken is the
// one after it.
type Parser struct {
	l   *lexer.Lexer
	src string // source code here

	curToken  token.Token
	peekToken token.Token
}

func New(l *lexer.Lexer, source string) *Parser {
	p := &Parser{
		l:   l,
		src: source,
	}

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) newError(message string, args ...interface{}) *SyntaxError {
	line, col := util.GetLineAndColumn(p.src, p.curToken.Position)
	return &SyntaxError{
		Line:     line,
		Column:   col,
		Position: p.curToken.Position,
		Message:  fmt.Sprintf(message, args...),
	}
}

func (p *Parser) unexpected() *SyntaxError {
	if p.curTokenIs(token.EOF) {
		return p.newError("unexpected end of input")
	}
	return p.newError("unexpected token %s %q", p.curToken.Type, p.curToken.Literal)
}

// expect consumes the current token if it has type t.
func (p *Parser) expect(t token.TokenType) (token.Token, error) {
	tok := p.curToken
	if !p.curTokenIs(t) {
		if p.curTokenIs(token.EOF) {
			return tok, p.newError("expected %s but found end of input", t)
		}
		return tok, p.newError("expected %s but found %s %q", t, p.curToken.Type, p.curToken.Literal)
	}
	p.nextToken()
	return tok, nil
}

func (p *Parser) skipSemicolons() {
	for p.curTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
}

// ParseProgram returns every top-level expression of the source in order.
// Semicolons between expressions are optional.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	program := &ast.Program{Expressions: []ast.Expression{}}

	for {
		p.skipSemicolons()
		if p.curTokenIs(token.EOF) {
			return program, nil
		}
		exp, err := p.parseExpression(token.LOWEST)
		if err != nil {
			return nil, err
		}
		program.Expressions = append(program.Expressions, exp)
	}
}

func (p *Parser) parseExpression(precedence int) (ast.Expression, error) {
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	for {
		prec := token.Precedence(p.curToken.Type)
		if prec == token.NONE || prec < precedence {
			return left, nil
		}

		op := p.curToken
		p.nextToken()

		right, err := p.parseExpression(prec + 1)
		if err != nil {
			return nil, err
		}

		left = &ast.InfixExpression{Token: op, Left: left, Operator: op.Type, Right: right}
	}
}

// parseOperand parses a primary expression and any chain of index, field
// and method suffixes that follows it.
func (p *Parser) parseOperand() (ast.Expression, error) {
	exp, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return p.parsePostfix(exp)
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	switch p.curToken.Type {
	case token.INCLUDE:
		return p.parseIncludeExpression()
	case token.MINUS:
		return p.parsePrefixExpression()
	case token.VAL:
		return p.parseVarExpression()
	case token.IDENT:
		return p.parseIdentifier()
	case token.STRING:
		lit := &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
		p.nextToken()
		return lit, nil
	case token.NUMBER:
		return p.parseNumberLiteral()
	case token.LPAREN:
		return p.parseGroupedExpression()
	case token.LBRACKET:
		return p.parseCollectionLiteral()
	case token.LBRACE:
		return p.parseBlockExpression()
	case token.IF:
		return p.parseIfExpression()
	default:
		return nil, p.unexpected()
	}
}

func (p *Parser) parsePostfix(left ast.Expression) (ast.Expression, error) {
	for {
		switch p.curToken.Type {
		case token.LBRACKET:
			tok := p.curToken
			p.nextToken()
			index, err := p.parseExpression(token.LOWEST)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACKET); err != nil {
				return nil, err
			}
			left = &ast.IndexExpression{Token: tok, Left: left, Index: index}

		case token.PERIOD:
			p.nextToken()
			name, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			if p.curTokenIs(token.LPAREN) {
				args, err := p.parseCallArguments()
				if err != nil {
					return nil, err
				}
				left = &ast.MethodCallExpression{Token: name, Object: left, Method: name.Literal, Arguments: args}
			} else {
				left = &ast.FieldAccessExpression{Token: name, Object: left, Field: name.Literal}
			}

		default:
			return left, nil
		}
	}
}

func (p *Parser) parseIncludeExpression() (ast.Expression, error) {
	tok := p.curToken
	p.nextToken()

	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}

	return &ast.IncludeExpression{Token: tok, Module: name.Literal}, nil
}

func (p *Parser) parsePrefixExpression() (ast.Expression, error) {
	tok := p.curToken
	p.nextToken()

	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	return &ast.PrefixExpression{Token: tok, Operator: tok.Type, Right: right}, nil
}

func (p *Parser) parseVarExpression() (ast.Expression, error) {
	tok := p.curToken
	p.nextToken()

	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}

	value, err := p.parseExpression(token.LOWEST)
	if err != nil {
		return nil, err
	}

	return &ast.VarExpression{Token: tok, Name: name.Literal, Value: value}, nil
}

// parseIdentifier decides between a call, a module qualified call or
// reference, an assignment and a plain variable reference by looking at the
// token after the name.
func (p *Parser) parseIdentifier() (ast.Expression, error) {
	tok := p.curToken
	p.nextToken()

	switch p.curToken.Type {
	case token.LPAREN:
		args, err := p.parseCallArguments()
		if err != nil {
			return nil, err
		}
		return &ast.CallExpression{Token: tok, Name: tok.Literal, Arguments: args}, nil

	case token.DOUBLE_COLON:
		p.nextToken()
		member, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		if p.curTokenIs(token.LPAREN) {
			args, err := p.parseCallArguments()
			if err != nil {
				return nil, err
			}
			return &ast.CallExpression{Token: member, Module: tok.Literal, Name: member.Literal, Arguments: args}, nil
		}
		return &ast.Identifier{Token: tok, Value: tok.Literal + "::" + member.Literal}, nil

	case token.ASSIGN:
		p.nextToken()
		value, err := p.parseExpression(token.LOWEST)
		if err != nil {
			return nil, err
		}
		return &ast.AssignmentExpression{Token: tok, Name: tok.Literal, Value: value}, nil

	default:
		return &ast.Identifier{Token: tok, Value: tok.Literal}, nil
	}
}

func (p *Parser) parseNumberLiteral() (ast.Expression, error) {
	lit := &ast.NumberLiteral{Token: p.curToken}

	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil, p.newError("could not parse %q as number", p.curToken.Literal)
	}
	lit.Value = value

	p.nextToken()
	return lit, nil
}

func (p *Parser) parseGroupedExpression() (ast.Expression, error) {
	p.nextToken()

	exp, err := p.parseExpression(token.LOWEST)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}

	return exp, nil
}

func (p *Parser) parseCollectionLiteral() (ast.Expression, error) {
	collection := &ast.CollectionLiteral{Token: p.curToken, Entries: []*ast.CollectionEntry{}}
	p.nextToken()

	for !p.curTokenIs(token.RBRACKET) {
		entry, err := p.parseCollectionEntry()
		if err != nil {
			return nil, err
		}
		collection.Entries = append(collection.Entries, entry)

		if !p.curTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}

	if _, err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}

	return collection, nil
}

func (p *Parser) parseCollectionEntry() (*ast.CollectionEntry, error) {
	// name = value
	if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.ASSIGN) {
		key := p.curToken.Literal
		p.nextToken()
		p.nextToken()
		value, err := p.parseExpression(token.LOWEST)
		if err != nil {
			return nil, err
		}
		return &ast.CollectionEntry{Kind: ast.StringKeyEntry, StringKey: key, Value: value}, nil
	}

	exp, err := p.parseExpression(token.LOWEST)
	if err != nil {
		return nil, err
	}

	if !p.curTokenIs(token.ASSIGN) {
		return &ast.CollectionEntry{Kind: ast.PositionalEntry, Value: exp}, nil
	}

	entry := &ast.CollectionEntry{}
	switch key := exp.(type) {
	case *ast.StringLiteral:
		entry.Kind = ast.StringKeyEntry
		entry.StringKey = key.Value
	case *ast.NumberLiteral:
		entry.Kind = ast.NumberKeyEntry
		entry.NumberKey = key.Value
	default:
		return nil, p.newError("invalid collection key %s", exp.String())
	}
	p.nextToken()

	value, err := p.parseExpression(token.LOWEST)
	if err != nil {
		return nil, err
	}
	entry.Value = value

	return entry, nil
}

func (p *Parser) parseBlockExpression() (*ast.BlockExpression, error) {
	tok, err := p.expect(token.LBRACE)
	if err != nil {
		return nil, err
	}
	block := &ast.BlockExpression{Token: tok, Expressions: []ast.Expression{}}

	for {
		p.skipSemicolons()
		if p.curTokenIs(token.RBRACE) {
			break
		}
		if p.curTokenIs(token.EOF) {
			return nil, p.newError("expected %s but found end of input", token.RBRACE)
		}
		exp, err := p.parseExpression(token.LOWEST)
		if err != nil {
			return nil, err
		}
		block.Expressions = append(block.Expressions, exp)
	}
	p.nextToken()

	return block, nil
}

func (p *Parser) parseIfExpression() (ast.Expression, error) {
	expression := &ast.IfExpression{Token: p.curToken}
	p.nextToken()

	cond, err := p.parseExpression(token.LOWEST)
	if err != nil {
		return nil, err
	}
	expression.Condition = cond

	if expression.ThenBranch, err = p.parseBlockExpression(); err != nil {
		return nil, err
	}

	if !p.curTokenIs(token.ELSE) {
		return expression, nil
	}
	p.nextToken()

	if p.curTokenIs(token.IF) {
		// else if: the nested conditional becomes a one-expression block
		nested, err := p.parseIfExpression()
		if err != nil {
			return nil, err
		}
		expression.ElseBranch = &ast.BlockExpression{
			Token:       nested.(*ast.IfExpression).Token,
			Expressions: []ast.Expression{nested},
		}
		return expression, nil
	}

	if expression.ElseBranch, err = p.parseBlockExpression(); err != nil {
		return nil, err
	}

	return expression, nil
}

func (p *Parser) parseCallArguments() ([]ast.Expression, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}

	args := []ast.Expression{}
	for !p.curTokenIs(token.RPAREN) {
		arg, err := p.parseExpression(token.LOWEST)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		if !p.curTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}

	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}

	return args, nil
}
