package evaluator

import (
	"log/slog"

	"hexi/internal/foreign"
	"hexi/internal/object"
)

// loadStandard registers every always-loaded function under module_name
// and under its bare name. The first module to claim a bare name keeps it.
func (e *Evaluator) loadStandard() {
	for _, m := range foreign.Standard {
		e.register(m)
		for _, fn := range m.Functions {
			if _, exists := e.natives[fn.Name]; !exists {
				e.natives[fn.Name] = fn
			}
		}
	}
	slog.Debug("standard modules loaded", slog.Int("natives", len(e.natives)))
}

func (e *Evaluator) register(m *foreign.Module) {
	for _, fn := range m.Functions {
		e.natives[foreign.Signature(m.Name, fn.Name)] = fn
	}
	for name, val := range m.Constants {
		e.constants[m.Name+"::"+name] = val
	}
}

// Include loads an optional module. Loading a module twice is a no-op.
func (e *Evaluator) Include(name string) error {
	if e.loaded[name] {
		return nil
	}

	m, ok := foreign.FindOptional(name)
	if !ok {
		return object.NewError("module '%s' not found", name)
	}

	e.register(m)
	e.loaded[name] = true
	slog.Debug("module included", slog.String("module", name), slog.Int("functions", len(m.Functions)))
	return nil
}
