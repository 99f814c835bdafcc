package object

import "sort"

// Environment is the single flat variable table of an interpreter run.
// Blocks and if-branches share it; there are no nested scopes, so a name
// declared inside a block stays visible after the block ends.
type Environment struct {
	store map[string]Object
}

func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]Object)}
}

func (e *Environment) Get(name string) (Object, bool) {
	v, ok := e.store[name]
	return v, ok
}

func (e *Environment) Has(name string) bool {
	_, ok := e.store[name]
	return ok
}

// Set binds name unconditionally. Redeclaration checks belong to the caller.
func (e *Environment) Set(name string, val Object) {
	e.store[name] = val
}

// Assign rebinds an existing name. Assigning an undeclared name is an error.
func (e *Environment) Assign(name string, val Object) error {
	if !e.Has(name) {
		return NewError("variable '%s' not defined!", name)
	}
	e.store[name] = val
	return nil
}

// Names returns the bound names in sorted order.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.store))
	for name := range e.store {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
