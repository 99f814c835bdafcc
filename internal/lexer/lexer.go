package lexer

import (
	"hexi/internal/token"
	"unicode"
	"unicode/utf8"
)

// Lexer turns source text into tokens on demand. It never reports errors:
// characters that cannot start a token are dropped.
type Lexer struct {
	input        string
	position     int  // current byte position in input (points to start of current rune)
	readPosition int  // next byte position in input (start of next rune)
	ch           rune // current rune under examination
}

func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) NextToken() token.Token {
	for {
		l.skipWhitespace()

		startPosition := l.position

		if l.atEOF() {
			return token.Token{Type: token.EOF, Literal: "", Position: startPosition}
		}

		switch l.ch {
		case '=':
			return l.handleCompoundToken(token.ASSIGN, '=', token.EQ)
		case '<':
			return l.handleCompoundToken(token.LT, '=', token.LT_EQ)
		case '>':
			return l.handleCompoundToken(token.GT, '=', token.GT_EQ)
		case ':':
			return l.handleCompoundToken(token.COLON, ':', token.DOUBLE_COLON)
		case '!':
			if l.peekChar() == '=' {
				l.readChar()
				l.readChar()
				return token.Token{Type: token.NOT_EQ, Literal: "!=", Position: startPosition}
			}
			// a lone '!' has no meaning
			l.readChar()
			continue
		case '+':
			return l.single(token.PLUS)
		case '-':
			return l.single(token.MINUS)
		case '*':
			return l.single(token.ASTERISK)
		case '/':
			return l.single(token.SLASH)
		case '%':
			return l.single(token.PERCENT)
		case '.':
			return l.single(token.PERIOD)
		case ',':
			return l.single(token.COMMA)
		case ';':
			return l.single(token.SEMICOLON)
		case '(':
			return l.single(token.LPAREN)
		case ')':
			return l.single(token.RPAREN)
		case '{':
			return l.single(token.LBRACE)
		case '}':
			return l.single(token.RBRACE)
		case '[':
			return l.single(token.LBRACKET)
		case ']':
			return l.single(token.RBRACKET)
		case '"', '\'':
			literal := l.readString()
			return token.Token{Type: token.STRING, Literal: literal, Position: startPosition}
		default:
			if isLetter(l.ch) {
				literal := l.readIdentifier()
				return token.Token{Type: token.LookupIdent(literal), Literal: literal, Position: startPosition}
			}
			if isDigit(l.ch) {
				literal := l.readNumber()
				return token.Token{Type: token.NUMBER, Literal: literal, Position: startPosition}
			}
			l.readChar()
		}
	}
}

func (l *Lexer) single(t token.TokenType) token.Token {
	tok := newToken(t, l.ch, l.position)
	l.readChar()
	return tok
}

// handleCompoundToken emits t1 when the current rune is followed by ch1,
// otherwise the single rune token t.
func (l *Lexer) handleCompoundToken(
	t token.TokenType,
	ch1 rune,
	t1 token.TokenType,
) token.Token {
	startPosition := l.position
	if l.peekChar() == ch1 {
		first := l.ch
		l.readChar()
		literal := string(first) + string(l.ch)
		l.readChar()
		return token.Token{Type: t1, Literal: literal, Position: startPosition}
	}
	tok := newToken(t, l.ch, startPosition)
	l.readChar()
	return tok
}

func (l *Lexer) skipWhitespace() {
	for !l.atEOF() && unicode.IsSpace(l.ch) {
		l.readChar()
	}
}

// readChar advances by one UTF-8 rune, updating byte positions
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = len(l.input)
		l.readPosition = len(l.input)
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += size
}

// atEOF is decided by position, a NUL rune in the source is not the end.
func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

// peekChar returns the next rune without advancing; returns 0 at EOF
func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readNumber reads digits with at most one fractional part. A '.' that is not
// followed by a digit is left for the next token.
func (l *Lexer) readNumber() string {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[start:l.position]
}

// readString consumes a quoted string. The opening quote picks the closing
// one; content is taken verbatim. An unterminated string runs to the end of
// the input.
func (l *Lexer) readString() string {
	quote := l.ch
	l.readChar() // consume the opening quote
	start := l.position
	for !l.atEOF() && l.ch != quote {
		l.readChar()
	}
	literal := l.input[start:l.position]
	if !l.atEOF() {
		l.readChar() // consume the closing quote
	}
	return literal
}

func isLetter(ch rune) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func newToken(tokenType token.TokenType, ch rune, position int) token.Token {
	return token.Token{Type: tokenType, Literal: string(ch), Position: position}
}
