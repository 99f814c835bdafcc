package foreign

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"hexi/internal/object"
)

// fnIoPrint writes its arguments separated by a space and ends the line.
// print and println behave the same.
func fnIoPrint(name string) *object.Foreign {
	return &object.Foreign{
		Name: name,
		Fn: func(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
			parts := make([]string, len(args))
			for i, arg := range args {
				parts[i] = arg.Inspect()
			}
			if _, err := fmt.Fprintln(ctx.Stdout(), strings.Join(parts, " ")); err != nil {
				return nil, object.NewError("io::%s failed to write output: %s", name, err)
			}
			return object.NIL, nil
		},
	}
}

func fnIoInput() *object.Foreign {
	return &object.Foreign{
		Name: "input",
		Fn: func(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
			if len(args) > 1 {
				return nil, object.NewError("too many arguments for function io::input, got %d", len(args))
			}

			if len(args) == 1 {
				fmt.Fprint(ctx.Stdout(), args[0].Inspect())
			}

			line, err := ctx.Stdin().ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return nil, object.NewError("io::input[error] failed to read input: %s", err)
			}

			line = strings.TrimSuffix(line, "\n")
			line = strings.TrimSuffix(line, "\r")
			return &object.String{Value: line}, nil
		},
	}
}
