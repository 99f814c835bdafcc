package evaluator

import (
	"hexi/internal/object"
)

// callMethod dispatches on the receiver type, then the method name.
// Collections are mutated in place; the caller decides whether the
// mutation is kept.
func callMethod(receiver object.Object, method string, args []object.Object) (object.Object, error) {
	switch r := receiver.(type) {
	case *object.Collection:
		return callCollectionMethod(r, method, args)
	case *object.String:
		return callStringMethod(r, method, args)
	}
	return nil, object.NewError("cannot call method '%s' on %q", method, receiver.Type())
}

func callCollectionMethod(c *object.Collection, method string, args []object.Object) (object.Object, error) {
	switch method {
	case "push":
		if len(args) != 1 {
			return nil, object.NewError("push method on array expects 1 argument, got %d", len(args))
		}
		c.Push(args[0])
		return object.NIL, nil

	case "pop":
		if len(args) != 0 {
			return nil, object.NewError("pop method on array expects no argument, got %d", len(args))
		}
		if val, ok := c.Pop(); ok {
			return val, nil
		}
		return object.NIL, nil

	case "size":
		if len(args) != 0 {
			return nil, object.NewError("size method on array expects no argument, got %d", len(args))
		}
		return &object.Number{Value: float64(c.Len())}, nil

	case "get":
		if len(args) != 1 {
			return nil, object.NewError("get method expects 1 argument, got %d", len(args))
		}
		key, err := collectionKey(args[0], "collection key must be a number or string")
		if err != nil {
			return nil, err
		}
		if val, ok := c.Get(key); ok {
			return val, nil
		}
		return object.NIL, nil

	case "insert":
		if len(args) != 2 {
			return nil, object.NewError("insert method expects 2 arguments, got %d", len(args))
		}
		key, err := collectionKey(args[0], "insert key must be a number or string")
		if err != nil {
			return nil, err
		}
		if key.IsIndex() && c.IsArrayLike() && key.Index > c.Size {
			return nil, object.NewError("index %d is out of bounds", key.Index)
		}
		c.Insert(key, args[1])
		return object.NIL, nil
	}

	return nil, object.NewError("unknown method '%s' for array.", method)
}

func callStringMethod(s *object.String, method string, args []object.Object) (object.Object, error) {
	switch method {
	case "len":
		if len(args) != 0 {
			return nil, object.NewError("len method on string expects no arguments, got %d", len(args))
		}
		return &object.Number{Value: float64(len(s.Value))}, nil
	}

	return nil, object.NewError("unknown method '%s' for string.", method)
}

// collectionKey maps a number to a positional key and a string to a string
// key.
func collectionKey(index object.Object, message string) (object.Key, error) {
	switch i := index.(type) {
	case *object.Number:
		return object.IndexKeyOf(object.ToIndex(i.Value)), nil
	case *object.String:
		return object.StringKeyOf(i.Value), nil
	}
	return object.Key{}, object.NewError("%s", message)
}
