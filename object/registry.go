package object

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/chazu/dynobj/logging"
)

// StdClass is the name of the built-in class used for objects made from
// arrays.
const StdClass = "stdClass"

// Registry holds class definitions and their statics. It is created once
// per runtime and shared by every Space; it is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	classes   map[string]*Class // keyed by lower-case name
	selectors *SelectorTable
	log       commonlog.Logger
}

// NewRegistry creates a registry holding only stdClass.
func NewRegistry() *Registry {
	r := &Registry{
		classes:   make(map[string]*Class),
		selectors: NewSelectorTable(),
		log:       logging.Get("object"),
	}
	r.install(NewClass(StdClass, nil))
	return r
}

// Selectors returns the registry-wide method index table.
func (r *Registry) Selectors() *SelectorTable {
	return r.selectors
}

// Register adds a class. Its parent must already be registered here.
func (r *Registry) Register(c *Class) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(c.Name)
	if _, ok := r.classes[key]; ok {
		return fmt.Errorf("class %s already registered", c.Name)
	}
	if err := r.checkParent(c); err != nil {
		return err
	}
	r.install(c)
	return nil
}

// MustRegister is like Register but panics on error. Useful for static
// class tables.
func (r *Registry) MustRegister(classes ...*Class) {
	for _, c := range classes {
		if err := r.Register(c); err != nil {
			panic(err)
		}
	}
}

// Redeclare replaces the definition registered under c's name and
// returns the previous one (nil if there was none). Objects already
// created keep their old class; new facades over them are made with
// Space.NewRedirected.
func (r *Registry) Redeclare(c *Class) (*Class, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkParent(c); err != nil {
		return nil, err
	}
	prev := r.classes[strings.ToLower(c.Name)]
	r.install(c)
	return prev, nil
}

func (r *Registry) checkParent(c *Class) error {
	if c.Parent != nil && c.Parent.registry != r {
		return fmt.Errorf("class %s: parent %s is not registered", c.Name, c.Parent.Name)
	}
	return nil
}

// install must be called with mu held (or before r is shared).
func (r *Registry) install(c *Class) {
	var parent *VTable
	if c.Parent != nil {
		parent = c.Parent.vtable
	}
	c.registry = r
	c.vtable = NewVTable(c, parent)
	for _, m := range c.methods {
		c.vtable.set(r.selectors.Intern(m.Name), m)
	}
	r.classes[strings.ToLower(c.Name)] = c
}

// Lookup finds a class by name, case-insensitively.
func (r *Registry) Lookup(name string) (*Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.classes[strings.ToLower(name)]
	return c, ok
}

// Classes returns the registered class names, sorted.
func (r *Registry) Classes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.classes))
	for _, c := range r.classes {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

// class resolves name or fails per the fatal flag.
func (r *Registry) class(name string, fatal bool) *Class {
	c, ok := r.Lookup(name)
	if ok {
		return c
	}
	err := NewError(KindUndefinedClass).Member(name, "").Detail("Class '%s' not found", name).Build()
	if fatal {
		raise(err)
	}
	r.log.Notice(err.Error())
	return nil
}

// ---------------------------------------------------------------------------
// Constants
// ---------------------------------------------------------------------------

// Constant resolves a class constant, walking the parent chain.
func (r *Registry) Constant(class, name string, fatal bool) Value {
	c := r.class(class, fatal)
	if c == nil {
		return Null()
	}
	for cur := c; cur != nil; cur = cur.Parent {
		if v, ok := cur.consts[name]; ok {
			return storable(v)
		}
	}
	err := NewError(KindUndefinedConstant).Member(c.Name, name).
		Detail("Undefined class constant '%s'", name).Build()
	if fatal {
		raise(err)
	}
	r.log.Notice(err.Error())
	return Null()
}
