package ast

import (
	"bytes"
	"hexi/internal/token"
	"strconv"
	"strings"
)

// The base Node interface
type Node interface {
	TokenLiteral() string
	String() string
}

// Every construct in hexi is an expression, including declarations,
// assignments, blocks and conditionals.
type Expression interface {
	Node
	expressionNode()
}

type Program struct {
	Expressions []Expression
}

func (p *Program) TokenLiteral() string {
	if len(p.Expressions) > 0 {
		return p.Expressions[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer

	for i, e := range p.Expressions {
		if i > 0 {
			out.WriteString("; ")
		}
		out.WriteString(e.String())
	}

	return out.String()
}

type Identifier struct {
	Token token.Token // the token.IDENT token
	Value string      // "name" or "module::name"
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }

type NumberLiteral struct {
	Token token.Token
	Value float64
}

func (n *NumberLiteral) expressionNode()      {}
func (n *NumberLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NumberLiteral) String() string       { return n.Token.Literal }

type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) String() string       { return strconv.Quote(sl.Value) }

// CallExpression invokes a native function, optionally qualified by a
// module name (math::pow).
type CallExpression struct {
	Token     token.Token // the function name token
	Module    string      // empty when unqualified
	Name      string
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CallExpression) String() string {
	var out bytes.Buffer

	if ce.Module != "" {
		out.WriteString(ce.Module)
		out.WriteString("::")
	}
	out.WriteString(ce.Name)
	out.WriteString("(")
	out.WriteString(joinExpressions(ce.Arguments))
	out.WriteString(")")

	return out.String()
}

// Signature is the registry key of the call: module_name when qualified,
// else the bare name.
func (ce *CallExpression) Signature() string {
	if ce.Module != "" {
		return ce.Module + "_" + ce.Name
	}
	return ce.Name
}

type VarExpression struct {
	Token token.Token // the token.VAL token
	Name  string
	Value Expression
}

func (ve *VarExpression) expressionNode()      {}
func (ve *VarExpression) TokenLiteral() string { return ve.Token.Literal }
func (ve *VarExpression) String() string {
	return "val " + ve.Name + " = " + ve.Value.String()
}

type AssignmentExpression struct {
	Token token.Token // the identifier token
	Name  string
	Value Expression
}

func (ae *AssignmentExpression) expressionNode()      {}
func (ae *AssignmentExpression) TokenLiteral() string { return ae.Token.Literal }
func (ae *AssignmentExpression) String() string {
	return ae.Name + " = " + ae.Value.String()
}

type InfixExpression struct {
	Token    token.Token // The operator token, e.g. +
	Left     Expression
	Operator token.TokenType
	Right    Expression
}

func (ie *InfixExpression) expressionNode()      {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *InfixExpression) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(ie.Left.String())
	out.WriteString(" " + ie.Token.Literal + " ")
	out.WriteString(ie.Right.String())
	out.WriteString(")")

	return out.String()
}

type PrefixExpression struct {
	Token    token.Token // The prefix token, e.g. -
	Operator token.TokenType
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PrefixExpression) String() string {
	return "(" + pe.Token.Literal + pe.Right.String() + ")"
}

type BlockExpression struct {
	Token       token.Token // the { token
	Expressions []Expression
}

func (bs *BlockExpression) expressionNode()      {}
func (bs *BlockExpression) TokenLiteral() string { return bs.Token.Literal }
func (bs *BlockExpression) String() string {
	var out bytes.Buffer

	out.WriteString("{ ")
	for i, e := range bs.Expressions {
		if i > 0 {
			out.WriteString("; ")
		}
		out.WriteString(e.String())
	}
	out.WriteString(" }")

	return out.String()
}

type IfExpression struct {
	Token      token.Token // The 'if' token
	Condition  Expression
	ThenBranch *BlockExpression
	ElseBranch *BlockExpression // nil when there is no else
}

func (ie *IfExpression) expressionNode()      {}
func (ie *IfExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *IfExpression) String() string {
	var out bytes.Buffer

	out.WriteString("if ")
	out.WriteString(ie.Condition.String())
	out.WriteString(" ")
	out.WriteString(ie.ThenBranch.String())

	if ie.ElseBranch != nil {
		out.WriteString(" else ")
		out.WriteString(ie.ElseBranch.String())
	}

	return out.String()
}

type EntryKind int

const (
	// PositionalEntry takes the next free integer index.
	PositionalEntry EntryKind = iota
	// StringKeyEntry is written `name = v` or `"name" = v`.
	StringKeyEntry
	// NumberKeyEntry is written `1.5 = v`; the key is kept apart from positional indexes.
	NumberKeyEntry
)

type CollectionEntry struct {
	Kind      EntryKind
	StringKey string
	NumberKey float64
	Value     Expression
}

func (ce *CollectionEntry) String() string {
	switch ce.Kind {
	case StringKeyEntry:
		return ce.StringKey + " = " + ce.Value.String()
	case NumberKeyEntry:
		return strconv.FormatFloat(ce.NumberKey, 'f', -1, 64) + " = " + ce.Value.String()
	default:
		return ce.Value.String()
	}
}

type CollectionLiteral struct {
	Token   token.Token // the '[' token
	Entries []*CollectionEntry
}

func (cl *CollectionLiteral) expressionNode()      {}
func (cl *CollectionLiteral) TokenLiteral() string { return cl.Token.Literal }
func (cl *CollectionLiteral) String() string {
	entries := make([]string, 0, len(cl.Entries))
	for _, e := range cl.Entries {
		entries = append(entries, e.String())
	}
	return "[" + strings.Join(entries, ", ") + "]"
}

type IndexExpression struct {
	Token token.Token // The [ token
	Left  Expression
	Index Expression
}

func (ie *IndexExpression) expressionNode()      {}
func (ie *IndexExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *IndexExpression) String() string {
	return "(" + ie.Left.String() + "[" + ie.Index.String() + "])"
}

type MethodCallExpression struct {
	Token     token.Token // the method name token
	Object    Expression
	Method    string
	Arguments []Expression
}

func (mc *MethodCallExpression) expressionNode()      {}
func (mc *MethodCallExpression) TokenLiteral() string { return mc.Token.Literal }
func (mc *MethodCallExpression) String() string {
	return mc.Object.String() + "." + mc.Method + "(" + joinExpressions(mc.Arguments) + ")"
}

type FieldAccessExpression struct {
	Token  token.Token // the field name token
	Object Expression
	Field  string
}

func (fa *FieldAccessExpression) expressionNode()      {}
func (fa *FieldAccessExpression) TokenLiteral() string { return fa.Token.Literal }
func (fa *FieldAccessExpression) String() string {
	return fa.Object.String() + "." + fa.Field
}

type IncludeExpression struct {
	Token  token.Token // the 'include' token
	Module string
}

func (ie *IncludeExpression) expressionNode()      {}
func (ie *IncludeExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *IncludeExpression) String() string       { return "include " + ie.Module }

func joinExpressions(exps []Expression) string {
	parts := make([]string, 0, len(exps))
	for _, e := range exps {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, ", ")
}
