package token

type TokenType string

const (
	EOF = "EOF"

	// Identifiers + literals
	IDENT  = "IDENT"  // add, foobar, x, y, ...
	NUMBER = "NUMBER" // 1343456, 3.14
	STRING = "STRING" // "foobar" or 'foobar'

	// Operators
	ASSIGN   = "="
	PLUS     = "+"
	MINUS    = "-"
	ASTERISK = "*"
	SLASH    = "/"
	PERCENT  = "%"

	LT     = "<"
	LT_EQ  = "<="
	GT     = ">"
	GT_EQ  = ">="
	EQ     = "=="
	NOT_EQ = "!="

	// Delimiters
	PERIOD       = "."
	COMMA        = ","
	SEMICOLON    = ";"
	COLON        = ":"
	DOUBLE_COLON = "::"

	LPAREN   = "("
	RPAREN   = ")"
	LBRACE   = "{"
	RBRACE   = "}"
	LBRACKET = "["
	RBRACKET = "]"

	// Keywords
	VAL     = "VAL"
	IF      = "IF"
	ELSE    = "ELSE"
	INCLUDE = "INCLUDE"
)

type Token struct {
	Type     TokenType
	Literal  string
	Position int // the src index of the token
}

var keywords = map[string]TokenType{
	"val":     VAL,
	"if":      IF,
	"else":    ELSE,
	"include": INCLUDE,
}

func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Binary operator precedence tiers, lowest first. NONE marks a token that
// never continues a binary expression.
const (
	NONE int = iota
	COMPARISON
	SUM
	PRODUCT
)

// LOWEST is the threshold used for full expressions and call arguments.
const LOWEST = COMPARISON

var precedences = map[TokenType]int{
	EQ:       COMPARISON,
	NOT_EQ:   COMPARISON,
	LT:       COMPARISON,
	LT_EQ:    COMPARISON,
	GT:       COMPARISON,
	GT_EQ:    COMPARISON,
	PLUS:     SUM,
	MINUS:    SUM,
	ASTERISK: PRODUCT,
	SLASH:    PRODUCT,
	PERCENT:  PRODUCT,
}

// Precedence returns the binary precedence tier of t, or NONE.
func Precedence(t TokenType) int {
	if p, ok := precedences[t]; ok {
		return p
	}
	return NONE
}
