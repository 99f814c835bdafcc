package foreign

import (
	"math"

	"hexi/internal/object"
)

func fnMathUnary(name string, fn func(float64) float64) *object.Foreign {
	return &object.Foreign{
		Name: name,
		Fn: func(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
			if len(args) != 1 {
				return nil, object.NewError("too many arguments for function math::%s, got %d", name, len(args))
			}

			n, ok := args[0].(*object.Number)
			if !ok {
				return nil, object.NewError("not a number in math::%s, got %s", name, args[0].Inspect())
			}
			return &object.Number{Value: fn(n.Value)}, nil
		},
	}
}

func fnMathBinary(name string, fn func(float64, float64) float64) *object.Foreign {
	return &object.Foreign{
		Name: name,
		Fn: func(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
			if len(args) != 2 {
				return nil, object.NewError("too many arguments or too little for function math::%s, got %d", name, len(args))
			}

			a, okA := args[0].(*object.Number)
			b, okB := args[1].(*object.Number)
			if !okA || !okB {
				return nil, object.NewError("not a number in math::%s, got %s", name, args[0].Inspect())
			}
			return &object.Number{Value: fn(a.Value, b.Value)}, nil
		},
	}
}

// maxNumber and minNumber ignore a NaN operand and return the other one.
func maxNumber(a, b float64) float64 {
	if math.IsNaN(a) {
		return b
	}
	if math.IsNaN(b) {
		return a
	}
	return math.Max(a, b)
}

func minNumber(a, b float64) float64 {
	if math.IsNaN(a) {
		return b
	}
	if math.IsNaN(b) {
		return a
	}
	return math.Min(a, b)
}
