// Package container implements the singleton dependency store: at most one
// record per resolved key, kept in first-added order so the lifecycle can run
// forward on connect and backward on disconnect.
package container

import (
	"sync"
)

// BuildFunc constructs the concrete instance for a dependency record. It runs
// outside the container lock, so it may re-enter the injector.
type BuildFunc func() (any, error)

// DiscardFunc is invoked with a constructed candidate that lost the
// double-checked race in Add and will never be used.
type DiscardFunc func(name string, instance any)

// Dependency is one singleton record: a resolved key plus its instance, or a
// memoizing factory when the target is invoked lazily.
type Dependency struct {
	key  any
	name string

	mu       sync.Mutex
	build    BuildFunc
	instance any
	built    bool
}

// Name returns the readable identity of the record.
func (d *Dependency) Name() string { return d.name }

// Instance returns the materialized instance without triggering construction.
func (d *Dependency) Instance() (any, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.instance, d.built
}

// Materialize returns the singleton instance, constructing and caching it on
// first call. Repeat calls always return the first result; the record cannot
// be re-parameterized after registration.
func (d *Dependency) Materialize() (any, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.built {
		return d.instance, nil
	}

	instance, err := d.build()
	if err != nil {
		return nil, err
	}

	d.instance = instance
	d.built = true
	d.build = nil
	return instance, nil
}

// Instance is one materialized (name, value) pair yielded by Instances.
type Instance struct {
	Name  string
	Value any
}

// Container is the thread-safe singleton store. A key maps to at most one
// Dependency for the container's lifetime; Override-style substitution swaps
// the whole container instead of mutating records in place.
type Container struct {
	mu      sync.Mutex
	deps    map[any]*Dependency
	order   []*Dependency
	discard DiscardFunc
}

func New(discard DiscardFunc) *Container {
	return &Container{
		deps:    make(map[any]*Dependency),
		discard: discard,
	}
}

// Get looks a record up without any construction side effect.
func (c *Container) Get(key any) (*Dependency, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	dep, ok := c.deps[key]
	return dep, ok
}

// Add registers a record for key, constructing the instance eagerly when
// eager is true. The build runs outside the lock so that a constructor which
// re-enters the injector cannot deadlock against its own registration; the
// price is a benign race where two concurrent adders both construct and only
// the first commit wins. The loser's candidate is handed to the discard hook,
// and every caller receives the winning record.
func (c *Container) Add(key any, name string, build BuildFunc, eager bool) (*Dependency, error) {
	c.mu.Lock()
	if dep, ok := c.deps[key]; ok {
		c.mu.Unlock()
		return dep, nil
	}
	c.mu.Unlock()

	dep := &Dependency{key: key, name: name, build: build}

	if eager {
		instance, err := build()
		if err != nil {
			return nil, err
		}
		dep.instance = instance
		dep.built = true
		dep.build = nil
	}

	c.mu.Lock()
	if existing, ok := c.deps[key]; ok {
		c.mu.Unlock()
		if eager && c.discard != nil {
			c.discard(name, dep.instance)
		}
		return existing, nil
	}
	c.deps[key] = dep
	c.order = append(c.order, dep)
	c.mu.Unlock()

	return dep, nil
}

// Instances snapshots the registration order under the lock and returns the
// materialized records only; lazy records that were never invoked are skipped.
func (c *Container) Instances(reverse bool) []Instance {
	c.mu.Lock()
	snapshot := make([]*Dependency, len(c.order))
	copy(snapshot, c.order)
	c.mu.Unlock()

	if reverse {
		for i, j := 0, len(snapshot)-1; i < j; i, j = i+1, j-1 {
			snapshot[i], snapshot[j] = snapshot[j], snapshot[i]
		}
	}

	out := make([]Instance, 0, len(snapshot))
	for _, dep := range snapshot {
		if value, ok := dep.Instance(); ok {
			out = append(out, Instance{Name: dep.name, Value: value})
		}
	}
	return out
}

// Names returns the registered record names in first-added order.
func (c *Container) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	names := make([]string, len(c.order))
	for i, dep := range c.order {
		names[i] = dep.name
	}
	return names
}

// Size returns the number of registered records.
func (c *Container) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.deps)
}
