package evaluator

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"sort"

	"hexi/internal/object"
)

func (e *Evaluator) Stdout() io.Writer { return e.out }

func (e *Evaluator) Stdin() *bufio.Reader { return e.in }

// StoreHandle keeps an open resource and returns the number scripts use to
// refer to it.
func (e *Evaluator) StoreHandle(resource io.Closer) int64 {
	e.nextHandle++
	id := e.nextHandle
	e.handles[id] = resource
	slog.Debug("handle stored", slog.Int64("handle", id))
	return id
}

func (e *Evaluator) Handle(id int64) (io.Closer, bool) {
	res, ok := e.handles[id]
	return res, ok
}

// ReleaseHandle closes the resource and forgets the handle.
func (e *Evaluator) ReleaseHandle(id int64) error {
	res, ok := e.handles[id]
	if !ok {
		return object.NewError("invalid handle %d", id)
	}
	delete(e.handles, id)
	slog.Debug("handle released", slog.Int64("handle", id))
	return res.Close()
}

// Close releases every handle still open, oldest first.
func (e *Evaluator) Close() error {
	ids := make([]int64, 0, len(e.handles))
	for id := range e.handles {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var errs []error
	for _, id := range ids {
		if err := e.ReleaseHandle(id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
