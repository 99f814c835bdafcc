package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/peterh/liner"

	"hexi/internal/runner"
	"hexi/internal/util"
)

// LineReader yields one line of input per call and io.EOF when input ends.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

type scannerReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func (r *scannerReader) ReadLine(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

// Start runs the REPL over plain streams. It returns when input ends or the
// user enters exit or quit.
func Start(in io.Reader, out io.Writer, ev runner.Evaluator, config util.Configuration) error {
	r := &scannerReader{scanner: bufio.NewScanner(in), out: out}
	return Loop(r, out, ev, config, nil)
}

// StartInteractive runs the REPL on the terminal with line editing. History
// is read from and written back to the configured history file.
func StartInteractive(out io.Writer, ev runner.Evaluator, config util.Configuration) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := config.HistoryPath()
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			f, err := os.Create(histPath)
			if err != nil {
				slog.Warn("could not write history", slog.String("path", histPath), slog.Any("error", err))
				return
			}
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}()
	}

	return Loop(&linerReader{state: ln}, out, ev, config, ln.AppendHistory)
}

type linerReader struct {
	state *liner.State
}

// ReadLine treats Ctrl-C as an empty line.
func (r *linerReader) ReadLine(prompt string) (string, error) {
	line, err := r.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", nil
	}
	return line, err
}

// VariableLister is implemented by evaluators that can dump their bindings
// for the vars command.
type VariableLister interface {
	Variables() []string
}

// Loop reads lines until EOF or exit/quit and runs each non-blank line
// against the shared evaluator. Errors inside a line are reported and the
// loop continues. remember, when set, receives every executed line.
func Loop(r LineReader, out io.Writer, ev runner.Evaluator, config util.Configuration, remember func(string)) error {
	prompt := config.Prompt
	if prompt == "" {
		prompt = util.DefaultPrompt
	}
	fmt.Fprintf(out, "hexi %s. enter 'exit' or 'quit' to leave, 'vars' to list variables.\n", config.Version)

	for {
		line, err := r.ReadLine(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return err
		}

		input := strings.TrimSpace(line)
		if input == "exit" || input == "quit" {
			fmt.Fprintln(out, "bye :3")
			return nil
		}
		if input == "" {
			continue
		}
		if lister, ok := ev.(VariableLister); ok && input == "vars" {
			for _, binding := range lister.Variables() {
				fmt.Fprintln(out, binding)
			}
			continue
		}

		if remember != nil {
			remember(input)
		}
		_ = runner.Execute(ev, input, out)
	}
}
