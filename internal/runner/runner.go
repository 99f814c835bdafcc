package runner

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"hexi/internal/ast"
	"hexi/internal/lexer"
	"hexi/internal/object"
	"hexi/internal/parser"
	"hexi/internal/util"
)

// Evaluator is the part of the interpreter the runner drives.
type Evaluator interface {
	Eval(node ast.Node) (object.Object, error)
}

func Parse(src string) (*ast.Program, error) {
	l := lexer.New(src)
	p := parser.New(l, src)
	return p.ParseProgram()
}

// Execute parses src and runs it. A syntax error prints and nothing runs.
func Execute(ev Evaluator, src string, out io.Writer) error {
	program, err := Parse(src)
	if err != nil {
		var se *parser.SyntaxError
		if errors.As(err, &se) {
			slog.Warn("syntax error", slog.Int("line", se.Line), slog.Int("column", se.Column),
				slog.String("context", util.GetContextLines(src, se.Line, se.Column)))
		}
		fmt.Fprintf(out, "parser error: %s\n", err)
		return err
	}
	return Run(ev, program, out)
}

// Run evaluates each top-level expression in order and prints every
// non-nil result. The first runtime error is printed and stops the run.
func Run(ev Evaluator, program *ast.Program, out io.Writer) error {
	for i, expr := range program.Expressions {
		slog.Debug("evaluating expression", slog.Int("index", i), slog.String("expression", expr.String()))

		result, err := ev.Eval(expr)
		if err != nil {
			slog.Warn("runtime error", slog.Int("index", i), slog.Any("error", err))
			fmt.Fprintf(out, "runtime error: %s\n", err)
			return err
		}
		if result.Type() != object.NIL_OBJ {
			fmt.Fprintln(out, result.Inspect())
		}
	}
	return nil
}
