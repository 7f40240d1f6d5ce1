package transform

import (
	"fmt"
	"sort"
)

var registry = make(map[string]Transformation)

// Register adds t to the global registry. Transformation packages call it
// from init; registering a name twice panics.
func Register(t Transformation) {
	if _, dup := registry[t.Name()]; dup {
		panic(fmt.Sprintf("transform: %s registered twice", t.Name()))
	}
	registry[t.Name()] = t
}

// Get returns a registered transformation by name.
func Get(name string) (Transformation, bool) {
	t, ok := registry[name]
	return t, ok
}

// Names returns sorted names of all registered transformations.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
