package integrators

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/san-kum/drivetrain/internal/sim"
)

var constructors = map[string]func() sim.Integrator{
	"euler": func() sim.Integrator { return NewEuler() },
	"rk4":   func() sim.Integrator { return NewRK4() },
}

// ByName returns a fresh integrator for the given name.
func ByName(name string) (sim.Integrator, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, errors.Errorf("unknown integrator %q (available: %v)", name, Names())
	}
	return ctor(), nil
}

func Names() []string {
	names := make([]string, 0, len(constructors))
	for n := range constructors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
