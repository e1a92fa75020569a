package testresult

import (
	"fmt"
	"io"
	"sort"
)

// Adapter converts one test runner's native output into a Result. Adapters
// own every framework-specific mapping; nothing past this boundary knows
// which runner produced a result.
type Adapter interface {
	Name() string
	Convert(r io.Reader) (*Result, error)
}

var adapters = map[string]Adapter{}

// Register makes an adapter available to AdapterFor.
func Register(a Adapter) {
	adapters[a.Name()] = a
}

// AdapterFor returns the adapter registered under name.
func AdapterFor(name string) (Adapter, error) {
	a, ok := adapters[name]
	if !ok {
		return nil, fmt.Errorf("no test result adapter named %q", name)
	}
	return a, nil
}

// AdapterNames lists registered adapters in sorted order.
func AdapterNames() []string {
	names := make([]string, 0, len(adapters))
	for name := range adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register(GoTestAdapter{})
}
