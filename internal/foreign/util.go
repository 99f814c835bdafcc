package foreign

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"hexi/internal/object"
)

func unpackString(arg object.Object, argName string) (string, error) {
	value, ok := arg.(*object.String)
	if !ok {
		return "", object.NewError("argument to `%s` must be a string, got=%s", argName, arg.Type())
	}
	return value.Value, nil
}

func unpackNumber(arg object.Object, argName string) (float64, error) {
	value, ok := arg.(*object.Number)
	if !ok {
		return 0, object.NewError("argument to `%s` must be a number, got=%s", argName, arg.Type())
	}
	return value.Value, nil
}

func checkArgs(signature string, args []object.Object, want int) error {
	if len(args) != want {
		return object.NewError("wrong number of arguments to `%s`, got=%d, want=%d", signature, len(args), want)
	}
	return nil
}

// unpackHandle resolves a handle number produced by StoreHandle.
func unpackHandle(ctx object.EvaluatorContext, arg object.Object) (int64, io.Closer, error) {
	n, err := unpackNumber(arg, "handle")
	if err != nil {
		return 0, nil, err
	}
	id := int64(n)
	res, ok := ctx.Handle(id)
	if !ok {
		return 0, nil, object.NewError("invalid handle %s", object.FormatNumber(n))
	}
	return id, res, nil
}

// toNative converts a value into plain Go data for the encoders and
// database drivers. Array-like collections become slices, others maps keyed
// by the key text.
func toNative(obj object.Object) interface{} {
	switch o := obj.(type) {
	case *object.Number:
		return o.Value
	case *object.String:
		return o.Value
	case *object.Boolean:
		return o.Value
	case *object.Collection:
		if o.IsArrayLike() {
			out := make([]interface{}, o.Size)
			for i := range out {
				if v, ok := o.GetIndex(i); ok {
					out[i] = toNative(v)
				}
			}
			return out
		}
		out := make(map[string]interface{}, len(o.Entries))
		for k, v := range o.Entries {
			out[k.String()] = toNative(v)
		}
		return out
	}
	return nil
}

// fromNative is the inverse of toNative for decoded documents and scanned
// rows. Sequences become positional collections with size equal to their
// length, mappings become string-keyed collections.
func fromNative(v interface{}) object.Object {
	switch x := v.(type) {
	case nil:
		return object.NIL
	case bool:
		return object.NativeBoolToBooleanObject(x)
	case string:
		return &object.String{Value: x}
	case []byte:
		return &object.String{Value: string(x)}
	case float64:
		return &object.Number{Value: x}
	case float32:
		return &object.Number{Value: float64(x)}
	case int:
		return &object.Number{Value: float64(x)}
	case int64:
		return &object.Number{Value: float64(x)}
	case uint64:
		return &object.Number{Value: float64(x)}
	case time.Time:
		return &object.String{Value: x.Format(time.RFC3339)}
	case []interface{}:
		values := make([]object.Object, len(x))
		for i, e := range x {
			values[i] = fromNative(e)
		}
		return object.NewArray(values...)
	case map[string]interface{}:
		c := object.NewCollection()
		for k, e := range x {
			c.Insert(object.StringKeyOf(k), fromNative(e))
		}
		return c
	case map[interface{}]interface{}:
		c := object.NewCollection()
		for k, e := range x {
			c.Insert(object.StringKeyOf(fmt.Sprint(k)), fromNative(e))
		}
		return c
	}
	return &object.String{Value: fmt.Sprint(v)}
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
