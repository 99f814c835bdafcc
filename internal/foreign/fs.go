package foreign

import (
	"errors"
	"os"

	"github.com/gofrs/flock"

	"hexi/internal/object"
)

// fnFsRead returns nil when called without a path.
func fnFsRead() *object.Foreign {
	return &object.Foreign{
		Name: "read",
		Fn: func(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
			if len(args) > 1 {
				return nil, object.NewError("too many arguments for fs::read, got %d", len(args))
			}
			if len(args) == 0 {
				return object.NIL, nil
			}

			path, ok := args[0].(*object.String)
			if !ok {
				return nil, object.NewError("expected a string value for path argument, got %s", args[0].Inspect())
			}

			data, err := os.ReadFile(path.Value)
			if err != nil {
				return nil, object.NewError("fs::read failed to read input: %s", err)
			}
			return &object.String{Value: string(data)}, nil
		},
	}
}

func fnFsWrite() *object.Foreign {
	return &object.Foreign{
		Name: "write",
		Fn: func(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
			path, content, err := pathAndContent("write", args)
			if err != nil {
				return nil, err
			}
			if err := writeLocked(path, content, os.O_CREATE|os.O_WRONLY|os.O_TRUNC); err != nil {
				return nil, object.NewError("fs::write failed to write input: %s", err)
			}
			return object.TRUE, nil
		},
	}
}

func fnFsAppend() *object.Foreign {
	return &object.Foreign{
		Name: "append",
		Fn: func(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
			path, content, err := pathAndContent("append", args)
			if err != nil {
				return nil, err
			}
			if err := writeLocked(path, content, os.O_CREATE|os.O_WRONLY|os.O_APPEND); err != nil {
				return nil, object.NewError("fs::append failed to write input: %s", err)
			}
			return object.TRUE, nil
		},
	}
}

func fnFsExists() *object.Foreign {
	return &object.Foreign{
		Name: "exists",
		Fn: func(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
			if err := checkArgs("fs::exists", args, 1); err != nil {
				return nil, err
			}
			path, err := unpackString(args[0], "path")
			if err != nil {
				return nil, err
			}

			_, err = os.Stat(path)
			switch {
			case err == nil:
				return object.TRUE, nil
			case errors.Is(err, os.ErrNotExist):
				return object.FALSE, nil
			}
			return nil, object.NewError("fs::exists failed: %s", err)
		},
	}
}

func pathAndContent(name string, args []object.Object) (string, string, error) {
	if len(args) > 2 {
		return "", "", object.NewError("too many arguments for fs::%s, got %d", name, len(args))
	}
	if len(args) < 2 {
		return "", "", object.NewError("fs::%s expects a path and content, got %d arguments", name, len(args))
	}
	path, ok := args[0].(*object.String)
	if !ok {
		return "", "", object.NewError("%s is not a string", args[0].Inspect())
	}
	content, ok := args[1].(*object.String)
	if !ok {
		return "", "", object.NewError("%s is not a string", args[1].Inspect())
	}
	return path.Value, content.Value, nil
}

// writeLocked holds an advisory lock on the target file itself for the
// duration of the write so concurrent interpreters do not interleave output.
// Truncation waits until the lock is held.
func writeLocked(path, content string, flag int) error {
	f, err := os.OpenFile(path, flag&^os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	lock := flock.New(path)
	if err := lock.Lock(); err != nil {
		return err
	}
	defer func() {
		_ = lock.Unlock()
	}()

	if flag&os.O_TRUNC != 0 {
		if err := f.Truncate(0); err != nil {
			return err
		}
	}
	if _, err := f.WriteString(content); err != nil {
		return err
	}
	return f.Sync()
}
