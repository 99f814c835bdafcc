package foreign

import (
	"strings"
	"unicode"

	"hexi/internal/object"
)

// stringArgs checks the argument count and that every argument is a string.
func stringArgs(name string, args []object.Object, want int) ([]string, error) {
	if len(args) != want {
		return nil, object.NewError("too many arguments for function string::%s, got %d", name, len(args))
	}
	out := make([]string, want)
	for i, arg := range args {
		s, ok := arg.(*object.String)
		if !ok {
			return nil, object.NewError("not a string in string::%s, got %s", name, arg.Inspect())
		}
		out[i] = s.Value
	}
	return out, nil
}

// fnStringLen counts bytes, not runes.
func fnStringLen() *object.Foreign {
	return &object.Foreign{Name: "len", Fn: func(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
		s, err := stringArgs("len", args, 1)
		if err != nil {
			return nil, err
		}
		return &object.Number{Value: float64(len(s[0]))}, nil
	}}
}

func fnStringUpper() *object.Foreign {
	return &object.Foreign{Name: "upper", Fn: func(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
		s, err := stringArgs("upper", args, 1)
		if err != nil {
			return nil, err
		}
		return &object.String{Value: strings.ToUpper(s[0])}, nil
	}}
}

func fnStringLower() *object.Foreign {
	return &object.Foreign{Name: "lower", Fn: func(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
		s, err := stringArgs("lower", args, 1)
		if err != nil {
			return nil, err
		}
		return &object.String{Value: strings.ToLower(s[0])}, nil
	}}
}

func fnStringTrim() *object.Foreign {
	return &object.Foreign{Name: "trim", Fn: func(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
		s, err := stringArgs("trim", args, 1)
		if err != nil {
			return nil, err
		}
		return &object.String{Value: strings.TrimFunc(s[0], unicode.IsSpace)}, nil
	}}
}

func fnStringContains() *object.Foreign {
	return &object.Foreign{Name: "contains", Fn: func(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
		s, err := stringArgs("contains", args, 2)
		if err != nil {
			return nil, err
		}
		return object.NativeBoolToBooleanObject(strings.Contains(s[0], s[1])), nil
	}}
}

func fnStringSplit() *object.Foreign {
	return &object.Foreign{Name: "split", Fn: func(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
		s, err := stringArgs("split", args, 2)
		if err != nil {
			return nil, err
		}
		parts := strings.Split(s[0], s[1])
		values := make([]object.Object, len(parts))
		for i, p := range parts {
			values[i] = &object.String{Value: p}
		}
		return object.NewArray(values...), nil
	}}
}

func fnStringReplace() *object.Foreign {
	return &object.Foreign{Name: "replace", Fn: func(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
		s, err := stringArgs("replace", args, 3)
		if err != nil {
			return nil, err
		}
		return &object.String{Value: strings.ReplaceAll(s[0], s[1], s[2])}, nil
	}}
}
