// Package routine names autonomous routines so they can be selected at
// run time. A routine is any sequence of motion primitives run against a
// chassis; routines run one primitive at a time and stop at the first
// error unless they say otherwise.
package routine

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/san-kum/drivetrain/internal/motion"
)

type Routine interface {
	Run(ctx context.Context, c *motion.Chassis) error
}

type RoutineFunc func(ctx context.Context, c *motion.Chassis) error

func (f RoutineFunc) Run(ctx context.Context, c *motion.Chassis) error { return f(ctx, c) }

type Info struct {
	Name        string
	Description string
	Default     bool
}

type entry struct {
	routine     Routine
	description string
}

type Registry struct {
	routines    map[string]entry
	defaultName string
}

func NewRegistry() *Registry {
	return &Registry{routines: make(map[string]entry)}
}

// Register adds a routine. The first routine registered becomes the
// default.
func (r *Registry) Register(name, description string, rt Routine) error {
	if name == "" {
		return errors.New("routine name must not be empty")
	}
	if _, ok := r.routines[name]; ok {
		return errors.Errorf("routine %q already registered", name)
	}
	r.routines[name] = entry{routine: rt, description: description}
	if r.defaultName == "" {
		r.defaultName = name
	}
	return nil
}

func (r *Registry) Get(name string) (Routine, error) {
	e, ok := r.routines[name]
	if !ok {
		return nil, errors.Errorf("unknown routine: %s", name)
	}
	return e.routine, nil
}

func (r *Registry) SetDefault(name string) error {
	if _, ok := r.routines[name]; !ok {
		return errors.Errorf("unknown routine: %s", name)
	}
	r.defaultName = name
	return nil
}

// Default returns the selected routine's name, or "" for an empty
// registry.
func (r *Registry) Default() string { return r.defaultName }

func (r *Registry) List() []Info {
	out := make([]Info, 0, len(r.routines))
	for name, e := range r.routines {
		out = append(out, Info{Name: name, Description: e.description, Default: name == r.defaultName})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Run looks up name ("" selects the default) and runs it.
func (r *Registry) Run(ctx context.Context, name string, c *motion.Chassis) error {
	if name == "" {
		name = r.defaultName
	}
	rt, err := r.Get(name)
	if err != nil {
		return err
	}
	return errors.Wrapf(rt.Run(ctx, c), "routine %s", name)
}
