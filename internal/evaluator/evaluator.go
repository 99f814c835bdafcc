package evaluator

import (
	"bufio"
	"io"
	"math"
	"os"
	"strings"

	"hexi/internal/ast"
	"hexi/internal/object"
	"hexi/internal/token"
)

// Evaluator walks expressions against one flat environment and the native
// registry. It is not safe for concurrent use.
type Evaluator struct {
	env       *object.Environment
	natives   map[string]*object.Foreign
	constants map[string]object.Object // keyed "module::name"
	loaded    map[string]bool

	out io.Writer
	in  *bufio.Reader

	handles    map[int64]io.Closer
	nextHandle int64
}

type Option func(*Evaluator)

// WithOutput sets where io::print and io::input prompts write.
func WithOutput(w io.Writer) Option {
	return func(e *Evaluator) { e.out = w }
}

// WithInput sets where io::input reads lines from.
func WithInput(r io.Reader) Option {
	return func(e *Evaluator) { e.in = bufio.NewReader(r) }
}

func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		env:       object.NewEnvironment(),
		natives:   make(map[string]*object.Foreign),
		constants: make(map[string]object.Object),
		loaded:    make(map[string]bool),
		out:       os.Stdout,
		handles:   make(map[int64]io.Closer),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.in == nil {
		e.in = bufio.NewReader(os.Stdin)
	}
	e.loadStandard()
	return e
}

func (e *Evaluator) Eval(node ast.Node) (object.Object, error) {
	switch node := node.(type) {

	case *ast.Program:
		var result object.Object = object.NIL
		for _, expr := range node.Expressions {
			val, err := e.Eval(expr)
			if err != nil {
				return nil, err
			}
			result = val
		}
		return result, nil

	case *ast.NumberLiteral:
		return &object.Number{Value: node.Value}, nil

	case *ast.StringLiteral:
		return &object.String{Value: node.Value}, nil

	case *ast.Identifier:
		return e.evalIdentifier(node)

	case *ast.CallExpression:
		return e.evalCallExpression(node)

	case *ast.VarExpression:
		return e.evalVarExpression(node)

	case *ast.AssignmentExpression:
		return e.evalAssignmentExpression(node)

	case *ast.InfixExpression:
		left, err := e.Eval(node.Left)
		if err != nil {
			return nil, err
		}
		right, err := e.Eval(node.Right)
		if err != nil {
			return nil, err
		}
		return evalInfixExpression(node.Operator, left, right)

	case *ast.PrefixExpression:
		right, err := e.Eval(node.Right)
		if err != nil {
			return nil, err
		}
		return evalPrefixExpression(node.Operator, right)

	case *ast.BlockExpression:
		return e.evalBlockExpression(node)

	case *ast.IfExpression:
		return e.evalIfExpression(node)

	case *ast.CollectionLiteral:
		return e.evalCollectionLiteral(node)

	case *ast.IndexExpression:
		return e.evalIndexExpression(node)

	case *ast.FieldAccessExpression:
		return e.evalFieldAccessExpression(node)

	case *ast.MethodCallExpression:
		return e.evalMethodCallExpression(node)

	case *ast.IncludeExpression:
		if err := e.Include(node.Module); err != nil {
			return nil, err
		}
		return object.NIL, nil
	}

	return nil, object.NewError("unknown expression %T", node)
}

// evalIdentifier yields a copy of the bound value. Qualified names that
// are not variables fall back to module constants such as math::pi.
func (e *Evaluator) evalIdentifier(node *ast.Identifier) (object.Object, error) {
	if val, ok := e.env.Get(node.Value); ok {
		return object.Copy(val), nil
	}
	if strings.Contains(node.Value, "::") {
		if val, ok := e.constants[node.Value]; ok {
			return val, nil
		}
	}
	return nil, object.NewError("undefined variable or reference '%s'", node.Value)
}

func (e *Evaluator) evalExpressions(exps []ast.Expression) ([]object.Object, error) {
	result := make([]object.Object, 0, len(exps))
	for _, exp := range exps {
		val, err := e.Eval(exp)
		if err != nil {
			return nil, err
		}
		result = append(result, val)
	}
	return result, nil
}

func (e *Evaluator) evalCallExpression(node *ast.CallExpression) (object.Object, error) {
	args, err := e.evalExpressions(node.Arguments)
	if err != nil {
		return nil, err
	}

	fn, ok := e.natives[node.Signature()]
	if !ok {
		fn, ok = e.natives[node.Name]
	}
	if !ok {
		return nil, object.NewError("undefined function '%s'", node.Name)
	}
	return fn.Fn(e, args...)
}

// evalVarExpression checks for redeclaration before the value is evaluated.
func (e *Evaluator) evalVarExpression(node *ast.VarExpression) (object.Object, error) {
	if e.env.Has(node.Name) {
		return nil, object.NewError("variable '%s' already defined!", node.Name)
	}
	val, err := e.Eval(node.Value)
	if err != nil {
		return nil, err
	}
	// a declaration of the same name inside the value is overwritten
	e.env.Set(node.Name, val)
	return object.NIL, nil
}

func (e *Evaluator) evalAssignmentExpression(node *ast.AssignmentExpression) (object.Object, error) {
	if !e.env.Has(node.Name) {
		return nil, object.NewError("variable '%s' not defined!", node.Name)
	}
	val, err := e.Eval(node.Value)
	if err != nil {
		return nil, err
	}
	if err := e.env.Assign(node.Name, val); err != nil {
		return nil, err
	}
	return object.NIL, nil
}

func evalInfixExpression(operator token.TokenType, left, right object.Object) (object.Object, error) {
	switch operator {
	case token.EQ:
		return object.NativeBoolToBooleanObject(object.Equal(left, right)), nil
	case token.NOT_EQ:
		return object.NativeBoolToBooleanObject(!object.Equal(left, right)), nil
	case token.LT, token.GT, token.LT_EQ, token.GT_EQ:
		return evalComparison(operator, left, right), nil
	case token.PLUS, token.MINUS, token.ASTERISK, token.SLASH, token.PERCENT:
		return evalArithmetic(operator, left, right)
	}
	return nil, object.NewError("unsupported binary operator %s", operator)
}

// evalComparison is false for every unordered pair.
func evalComparison(operator token.TokenType, left, right object.Object) object.Object {
	cmp, ok := object.Compare(left, right)
	if !ok {
		return object.FALSE
	}
	switch operator {
	case token.LT:
		return object.NativeBoolToBooleanObject(cmp < 0)
	case token.GT:
		return object.NativeBoolToBooleanObject(cmp > 0)
	case token.LT_EQ:
		return object.NativeBoolToBooleanObject(cmp <= 0)
	}
	return object.NativeBoolToBooleanObject(cmp >= 0)
}

func evalArithmetic(operator token.TokenType, left, right object.Object) (object.Object, error) {
	l, okL := left.(*object.Number)
	r, okR := right.(*object.Number)
	if !okL || !okR {
		return nil, object.NewError("arithmetic operations can only be performed on numbers")
	}

	var result float64
	switch operator {
	case token.PLUS:
		result = l.Value + r.Value
	case token.MINUS:
		result = l.Value - r.Value
	case token.ASTERISK:
		result = l.Value * r.Value
	case token.SLASH:
		if r.Value == 0 {
			return nil, object.NewError("division by zero")
		}
		result = l.Value / r.Value
	case token.PERCENT:
		if r.Value == 0 {
			return nil, object.NewError("modulo by zero")
		}
		result = math.Mod(l.Value, r.Value)
	}
	return &object.Number{Value: result}, nil
}

func evalPrefixExpression(operator token.TokenType, right object.Object) (object.Object, error) {
	if operator != token.MINUS {
		return nil, object.NewError("unsupported unary operator %s", operator)
	}
	n, ok := right.(*object.Number)
	if !ok {
		return nil, object.NewError("negate unary operator only supported on numbers")
	}
	return &object.Number{Value: -n.Value}, nil
}

func (e *Evaluator) evalBlockExpression(block *ast.BlockExpression) (object.Object, error) {
	var result object.Object = object.NIL
	for _, expr := range block.Expressions {
		val, err := e.Eval(expr)
		if err != nil {
			return nil, err
		}
		result = val
	}
	return result, nil
}

func (e *Evaluator) evalIfExpression(ie *ast.IfExpression) (object.Object, error) {
	condition, err := e.Eval(ie.Condition)
	if err != nil {
		return nil, err
	}

	if object.IsTruthy(condition) {
		return e.evalBlockExpression(ie.ThenBranch)
	} else if ie.ElseBranch != nil {
		return e.evalBlockExpression(ie.ElseBranch)
	}
	return object.NIL, nil
}

// evalCollectionLiteral numbers positional entries from 0 regardless of
// interleaved keyed entries.
func (e *Evaluator) evalCollectionLiteral(node *ast.CollectionLiteral) (object.Object, error) {
	c := object.NewCollection()
	idx := 0

	for _, entry := range node.Entries {
		val, err := e.Eval(entry.Value)
		if err != nil {
			return nil, err
		}
		switch entry.Kind {
		case ast.PositionalEntry:
			c.Insert(object.IndexKeyOf(idx), val)
			idx++
		case ast.StringKeyEntry:
			c.Insert(object.StringKeyOf(entry.StringKey), val)
		case ast.NumberKeyEntry:
			c.Insert(object.NumberKeyOf(entry.NumberKey), val)
		}
	}

	if idx > 0 {
		c.Size = idx
	}
	return c, nil
}

// evalIndexExpression reads a missing key as nil.
func (e *Evaluator) evalIndexExpression(node *ast.IndexExpression) (object.Object, error) {
	left, err := e.Eval(node.Left)
	if err != nil {
		return nil, err
	}
	index, err := e.Eval(node.Index)
	if err != nil {
		return nil, err
	}

	c, ok := left.(*object.Collection)
	if !ok {
		return nil, object.NewError("cannot index into %s", left.Type())
	}
	key, err := collectionKey(index, "collection index must be a number or string")
	if err != nil {
		return nil, err
	}
	if val, ok := c.Get(key); ok {
		return val, nil
	}
	return object.NIL, nil
}

// evalFieldAccessExpression fails on a missing field.
func (e *Evaluator) evalFieldAccessExpression(node *ast.FieldAccessExpression) (object.Object, error) {
	obj, err := e.Eval(node.Object)
	if err != nil {
		return nil, err
	}

	c, ok := obj.(*object.Collection)
	if !ok {
		return nil, object.NewError("cannot access field '%s' on non object", node.Field)
	}
	val, ok := c.GetString(node.Field)
	if !ok {
		return nil, object.NewError("undefined field '%s'", node.Field)
	}
	return val, nil
}

// evalMethodCallExpression writes the receiver back when it is a variable,
// so mutating methods update it. Any other receiver is a temporary.
func (e *Evaluator) evalMethodCallExpression(node *ast.MethodCallExpression) (object.Object, error) {
	args, err := e.evalExpressions(node.Arguments)
	if err != nil {
		return nil, err
	}

	if ident, ok := node.Object.(*ast.Identifier); ok {
		stored, ok := e.env.Get(ident.Value)
		if !ok {
			return nil, object.NewError("undefined variable '%s'", ident.Value)
		}
		receiver := object.Copy(stored)
		result, err := callMethod(receiver, node.Method, args)
		if err != nil {
			return nil, err
		}
		if err := e.env.Assign(ident.Value, receiver); err != nil {
			return nil, err
		}
		return object.Copy(result), nil
	}

	receiver, err := e.Eval(node.Object)
	if err != nil {
		return nil, err
	}
	return callMethod(receiver, node.Method, args)
}

// Variables lists every binding as "name = value", sorted by name.
func (e *Evaluator) Variables() []string {
	names := e.env.Names()
	out := make([]string, 0, len(names))
	for _, name := range names {
		val, _ := e.env.Get(name)
		out = append(out, name+" = "+val.Inspect())
	}
	return out
}
