package variant

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var ErrUnknownClass = errors.New("unknown class")

// Class describes an instantiable class.  Init, if set, is called on each
// new instance, typically to declare computed properties or defaults.
type Class struct {
	Name string
	Init func(*Object)
}

type Registry struct {
	mu         sync.RWMutex
	classes    map[string]*Class
	permissive bool
}

type RegistryOption func(*Registry)

// Permissive makes the registry instantiate unregistered classes as plain
// property bags.
func Permissive() RegistryOption {
	return func(r *Registry) { r.permissive = true }
}

func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{classes: map[string]*Class{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) Register(c *Class) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classes[c.Name] = c
}

// Known reports whether class can be instantiated.
func (r *Registry) Known(class string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.classes[class]
	return ok || r.permissive
}

// Instantiate creates an empty object of class.
func (r *Registry) Instantiate(class string) (*Object, error) {
	if class == "" {
		return nil, fmt.Errorf("%w: empty class name", ErrUnknownClass)
	}
	r.mu.RLock()
	c, ok := r.classes[class]
	permissive := r.permissive
	r.mu.RUnlock()
	if !ok && !permissive {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClass, class)
	}
	o := New(class)
	if c != nil && c.Init != nil {
		c.Init(o)
	}
	return o, nil
}

// Classes returns the registered class names in sorted order.
func (r *Registry) Classes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]string, 0, len(r.classes))
	for name := range r.classes {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}
