package object

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
)

const (
	NIL_OBJ        = "nil"
	BOOLEAN_OBJ    = "bool"
	NUMBER_OBJ     = "number"
	STRING_OBJ     = "string"
	COLLECTION_OBJ = "collection"
)

var (
	NIL   = &Nil{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

// EvaluatorContext is what a native function sees of the running
// interpreter: its standard streams and the table of open resource handles.
type EvaluatorContext interface {
	Stdout() io.Writer
	Stdin() *bufio.Reader
	StoreHandle(resource io.Closer) int64
	Handle(id int64) (io.Closer, bool)
	ReleaseHandle(id int64) error
}

// ForeignFunction validates its own arguments; the evaluator never checks
// argument counts.
type ForeignFunction func(ctx EvaluatorContext, args ...Object) (Object, error)

type Foreign struct {
	Name string
	Fn   ForeignFunction
}

type ObjectType string

type Object interface {
	Type() ObjectType
	Inspect() string
}

type Number struct {
	Value float64
}

func (n *Number) Type() ObjectType { return NUMBER_OBJ }
func (n *Number) Inspect() string  { return FormatNumber(n.Value) }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return fmt.Sprintf("%t", b.Value) }

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

type Nil struct{}

func (n *Nil) Type() ObjectType { return NIL_OBJ }
func (n *Nil) Inspect() string  { return "nil" }

// Error is the single runtime failure type: a descriptive message and
// nothing else.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

func NewError(format string, a ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, a...)}
}

func NativeBoolToBooleanObject(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// FormatNumber renders a float the shortest way that reads back to the same
// value, without a trailing ".0" on integral values.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// IsTruthy reports whether obj satisfies a condition. false, nil and the
// empty collection are falsy; 0 and "" are truthy.
func IsTruthy(obj Object) bool {
	switch o := obj.(type) {
	case *Boolean:
		return o.Value
	case *Nil:
		return false
	case *Collection:
		return len(o.Entries) > 0
	default:
		return true
	}
}

// Equal is structural equality. Values of different types are never equal.
func Equal(a, b Object) bool {
	switch x := a.(type) {
	case *Number:
		y, ok := b.(*Number)
		return ok && x.Value == y.Value
	case *String:
		y, ok := b.(*String)
		return ok && x.Value == y.Value
	case *Boolean:
		y, ok := b.(*Boolean)
		return ok && x.Value == y.Value
	case *Nil:
		_, ok := b.(*Nil)
		return ok
	case *Collection:
		y, ok := b.(*Collection)
		if !ok || x.Size != y.Size || len(x.Entries) != len(y.Entries) {
			return false
		}
		for k, v := range x.Entries {
			w, ok := y.Entries[k]
			if !ok || !Equal(v, w) {
				return false
			}
		}
		return true
	}
	return false
}

// Compare orders two numbers, strings or booleans. ok is false when the
// pair is unordered: mixed types, other types, or NaN.
func Compare(a, b Object) (cmp int, ok bool) {
	switch x := a.(type) {
	case *Number:
		y, isNum := b.(*Number)
		if !isNum || math.IsNaN(x.Value) || math.IsNaN(y.Value) {
			return 0, false
		}
		return compareOrdered(x.Value, y.Value), true
	case *String:
		y, isStr := b.(*String)
		if !isStr {
			return 0, false
		}
		return compareOrdered(x.Value, y.Value), true
	case *Boolean:
		y, isBool := b.(*Boolean)
		if !isBool {
			return 0, false
		}
		return compareOrdered(boolRank(x.Value), boolRank(y.Value)), true
	}
	return 0, false
}

func compareOrdered[T int | float64 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Copy returns obj with value semantics: collections are copied deeply,
// scalars are immutable and shared.
func Copy(obj Object) Object {
	if c, ok := obj.(*Collection); ok {
		return c.Copy()
	}
	return obj
}
