package object

import "sort"

// ---------------------------------------------------------------------------
// Static properties
//
// Declarations live on the shared Class; values live in the Space, like
// per-request globals. A fiber's Space starts with its own, uninitialized
// statics, so nothing stored in a static crosses contexts unmarshaled.
// ---------------------------------------------------------------------------

type staticState uint8

const (
	staticPending staticState = iota
	staticInitializing
	staticReady
)

type staticCell struct {
	val   Value
	state staticState
}

// staticOwner finds the class in c's chain that declares static name.
func staticOwner(c *Class, name string) *Class {
	for cur := c; cur != nil; cur = cur.Parent {
		if _, ok := cur.statics[name]; ok {
			return cur
		}
	}
	return nil
}

// staticCells returns this space's storage for owner's statics. Every
// declared static gets a null cell up front, so a cell exists even while
// or after its initializer fails.
func (s *Space) staticCells(owner *Class) map[string]*staticCell {
	cells := s.statics[owner]
	if cells != nil {
		return cells
	}
	cells = make(map[string]*staticCell, len(owner.statics))
	for n := range owner.statics {
		cells[n] = &staticCell{val: Null()}
	}
	if s.statics == nil {
		s.statics = make(map[*Class]map[string]*staticCell)
	}
	s.statics[owner] = cells
	return cells
}

// staticCell returns the initialized cell of a declared static.
//
// An initializer reading its own static sees null. One that raises
// leaves the cell pending, so the next access runs it again.
func (s *Space) staticCell(owner *Class, name string) *staticCell {
	c := s.staticCells(owner)[name]
	if c.state != staticPending {
		return c
	}
	d := owner.statics[name]
	if d.Init == nil {
		c.state = staticReady
		return c
	}
	c.state = staticInitializing
	defer func() {
		if c.state == staticInitializing {
			c.val, c.state = Null(), staticPending
		}
	}()
	v := storable(d.Init(s))
	c.val, c.state = v, staticReady
	return c
}

func (s *Space) staticSlot(class, name string, fatal bool) *Value {
	c := s.reg.class(class, fatal)
	if c == nil {
		return nil
	}
	owner := staticOwner(c, name)
	if owner == nil {
		err := NewError(KindUndefinedProperty).Member(c.Name, "$"+name).
			Detail("Access to undeclared static property: %s::$%s", c.Name, name).Build()
		if fatal {
			raise(err)
		}
		s.notice(err.Kind, nil, "%s", err.Detail)
		return nil
	}
	return &s.staticCell(owner, name).val
}

// StaticInit runs the initializers of every static of class and its
// ancestors not yet initialized in this space.
func (s *Space) StaticInit(class string) (err error) {
	c, ok := s.reg.Lookup(class)
	if !ok {
		return NewError(KindUndefinedClass).Member(class, "").Detail("Class '%s' not found", class).Build()
	}
	defer Recover(&err)
	for cur := c; cur != nil; cur = cur.Parent {
		names := make([]string, 0, len(cur.statics))
		for n := range cur.statics {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			s.staticCell(cur, n)
		}
	}
	return nil
}

// StaticGet reads a static property. A miss is fatal, or returns null
// when fatal is false.
func (s *Space) StaticGet(class, name string, fatal bool) Value {
	p := s.staticSlot(class, name, fatal)
	if p == nil {
		return Null()
	}
	return storable(*p)
}

// StaticSet writes a static property and returns the stored value.
func (s *Space) StaticSet(class, name string, v Value, fatal bool) Value {
	p := s.staticSlot(class, name, fatal)
	if p == nil {
		return Null()
	}
	*p = storable(v)
	return *p
}

// StaticLval returns the storage of a static property. An undeclared
// static is always fatal here.
func (s *Space) StaticLval(class, name string) *Value {
	return s.staticSlot(class, name, true)
}

// ---------------------------------------------------------------------------
// Static methods
// ---------------------------------------------------------------------------

// StaticInvoke calls a static method by index, falling back to name.
// There is no magic fallback for statics.
func (s *Space) StaticInvoke(class string, idx MethodIndex, name string, args []Value, fatal bool) Value {
	c := s.reg.class(class, fatal)
	if c == nil {
		return False()
	}
	m := c.resolveMethod(idx, name)
	if m == nil || !m.IsStatic() {
		if name == "" {
			name = s.reg.selectors.Name(idx)
		}
		err := NewError(KindUndefinedMethod).Member(c.Name, name).
			Detail("Call to undefined method %s::%s()", c.Name, name).Build()
		if fatal {
			raise(err)
		}
		s.notice(err.Kind, nil, "%s", err.Detail)
		return False()
	}
	return m.Static(s, c, args)
}

// StaticInvokeByName calls a static method when only its name is known.
func (s *Space) StaticInvokeByName(class, name string, args []Value, fatal bool) Value {
	return s.StaticInvoke(class, NoIndex, name, args, fatal)
}
