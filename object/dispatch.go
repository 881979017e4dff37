package object

// ---------------------------------------------------------------------------
// Property resolution
//
// Every operation resolves the root first. A name declared by the class
// always refers to the declared slot; the Dynamic Property Store is only
// consulted for undeclared names. Magic accessors run when both miss,
// guarded by InGet/InSet so an accessor touching the same object falls
// through instead of recursing.
// ---------------------------------------------------------------------------

// lookupDeclared returns the declared slot for name and whether scope
// may see it. s is nil for undeclared names.
func (o *Object) lookupDeclared(name string, scope Scope) (s *slot, visible bool) {
	d, i := o.class.prop(name)
	if d == nil {
		return nil, false
	}
	return &o.slots[i], scope.Sees(d.Vis, d.Class)
}

func (o *Object) callMagic(flag Attr, name string, args ...Value) (Value, bool) {
	if o.attrs.Has(flag) {
		return Null(), false
	}
	m := o.class.FindMethod(name)
	if m == nil || m.Fn == nil {
		return Null(), false
	}
	defer o.acquire(flag)()
	return m.Fn(o, args), true
}

func (o *Object) accessError(name string, op string) *Error {
	d, _ := o.class.prop(name)
	return NewError(KindAccess).Member(o.class.Name, "$"+name).
		Detail("Cannot %s %s property %s::$%s", op, d.Vis, o.class.Name, name).Build()
}

// Exists reports whether name is set on the object as seen from scope.
// It never calls magic methods.
func (o *Object) Exists(name string, scope Scope) bool {
	r := o.self()
	if s, visible := r.lookupDeclared(name, scope); s != nil {
		return visible && s.state == Present
	}
	return r.props.state(name) == Present
}

// ExistsPublic is Exists from outside the class.
func (o *Object) ExistsPublic(name string) bool {
	return o.Exists(name, External)
}

// PropertyExists is the reflection predicate: true for a declared
// member visible from scope, and for a dynamic member that is set or was
// set and then unset.
func (o *Object) PropertyExists(name string, scope Scope) bool {
	r := o.self()
	if s, visible := r.lookupDeclared(name, scope); s != nil {
		return visible
	}
	return r.props.state(name) != Absent
}

// Get reads a property. On a miss with no usable __get, errorOnMiss
// records an "Undefined property" diagnostic; the result is null either
// way. Reading a declared member scope cannot see is fatal when
// errorOnMiss is set and no __get handles it.
func (o *Object) Get(name string, scope Scope, errorOnMiss bool) Value {
	r := o.self()
	s, visible := r.lookupDeclared(name, scope)
	switch {
	case s != nil && visible && s.state == Present:
		return storable(s.val)
	case s == nil:
		if ds := r.props.lookup(name); ds != nil && ds.state == Present {
			return storable(ds.val)
		}
	}
	if v, ok := r.callMagic(InGet, MagicGet, String(name)); ok {
		return v
	}
	if !errorOnMiss {
		return Null()
	}
	if s != nil && !visible {
		raise(r.accessError(name, "access"))
	}
	if r.space.warnUndefined {
		r.space.warn(KindUndefinedProperty, r, "Undefined property: %s::$%s", r.class.Name, name)
	}
	return Null()
}

// GetPublic is Get from outside the class.
func (o *Object) GetPublic(name string, errorOnMiss bool) Value {
	return o.Get(name, External, errorOnMiss)
}

// Set writes a property and returns the stored value. forInit restores
// state: it writes declared slots regardless of visibility and never
// calls __set.
func (o *Object) Set(name string, v Value, scope Scope, forInit bool) Value {
	r := o.self()
	v = storable(v)
	s, visible := r.lookupDeclared(name, scope)
	switch {
	case s != nil && (visible || forInit):
		*s = slot{val: v, state: Present}
		return v
	case s == nil:
		if ds := r.props.lookup(name); ds != nil && ds.state == Present {
			ds.val = v
			return v
		}
	}
	if !forInit {
		if _, ok := r.callMagic(InSet, MagicSet, String(name), v); ok {
			return v
		}
	}
	if s != nil {
		r.invisibleWrite(name, "access")
		return v
	}
	r.ensureProps().put(name, v)
	return v
}

// invisibleWrite handles a write to a declared member the caller cannot
// see.
func (o *Object) invisibleWrite(name, op string) {
	err := o.accessError(name, op)
	if o.space.strictVisibility {
		raise(err)
	}
	o.space.warn(KindAccess, o, "%s", err.Detail)
}

// SetPublic is Set from outside the class.
func (o *Object) SetPublic(name string, v Value, forInit bool) Value {
	return o.Set(name, v, External, forInit)
}

// Lval returns the storage for name so the caller can mutate it in
// place. Where Set would call __set, a dynamic slot is materialized
// instead; later reads and writes see that slot.
func (o *Object) Lval(name string, scope Scope) *Value {
	r := o.self()
	s, visible := r.lookupDeclared(name, scope)
	switch {
	case s != nil && visible:
		if s.state != Present {
			*s = slot{val: Null(), state: Present}
		}
		return &s.val
	case s != nil:
		r.invisibleWrite(name, "access")
		scratch := Null()
		return &scratch
	}
	ds := r.props.lookup(name)
	if ds == nil || ds.state != Present {
		ds = r.ensureProps().put(name, Null())
	}
	return &ds.val
}

// LvalPublic is Lval from outside the class.
func (o *Object) LvalPublic(name string) *Value {
	return o.Lval(name, External)
}

// Unset removes a property. A declared slot becomes Removed, a dynamic
// entry keeps a tombstone. __unset handles names that are not set.
func (o *Object) Unset(name string, scope Scope) {
	r := o.self()
	s, visible := r.lookupDeclared(name, scope)
	switch {
	case s != nil && visible:
		if s.state == Present {
			*s = slot{val: Null(), state: Removed}
		}
		return
	case s == nil:
		if r.props.remove(name) {
			return
		}
	}
	if _, ok := r.callMagic(InSet, MagicUnset, String(name)); ok {
		return
	}
	if s != nil {
		r.invisibleWrite(name, "unset")
	}
}

// UnsetPublic is Unset from outside the class.
func (o *Object) UnsetPublic(name string) {
	o.Unset(name, External)
}

// IsSet reports whether name is set to a non-null value, consulting
// __isset for names that are not.
func (o *Object) IsSet(name string, scope Scope) bool {
	r := o.self()
	s, visible := r.lookupDeclared(name, scope)
	switch {
	case s != nil && visible && s.state == Present:
		return !s.val.IsNull()
	case s == nil:
		if ds := r.props.lookup(name); ds != nil && ds.state == Present {
			return !ds.val.IsNull()
		}
	}
	v, ok := r.callMagic(InGet, MagicIsset, String(name))
	return ok && v.IsTruthy()
}

// Empty is the emptiness test: not set, or set to a falsy value.
func (o *Object) Empty(name string, scope Scope) bool {
	if !o.IsSet(name, scope) {
		return true
	}
	return !o.Get(name, scope, false).IsTruthy()
}

// ---------------------------------------------------------------------------
// Bulk access
// ---------------------------------------------------------------------------

// ToArray exports declared (in slot order) then dynamic members that
// are set.
func (o *Object) ToArray() *Array {
	return o.ToIterArray(Unrestricted, false)
}

// ToIterArray exports the members visible from scope for iteration.
// With byRef the values are references to the live slots.
func (o *Object) ToIterArray(scope Scope, byRef bool) *Array {
	r := o.self()
	out := NewArray()
	for i, d := range r.class.props {
		s := &r.slots[i]
		if s.state != Present || !scope.Sees(d.Vis, d.Class) {
			continue
		}
		if byRef {
			out.SetStr(d.Name, RefTo(&s.val))
		} else {
			out.SetStr(d.Name, storable(s.val))
		}
	}
	r.props.each(func(name string, s *slot) {
		if byRef {
			out.SetStr(name, RefTo(&s.val))
		} else {
			out.SetStr(name, storable(s.val))
		}
	})
	return out
}

// DynamicProperties returns only the dynamic members that are set.
func (o *Object) DynamicProperties() *Array {
	r := o.self()
	out := NewArray()
	r.props.each(func(name string, s *slot) {
		out.SetStr(name, storable(s.val))
	})
	return out
}

// SetArray populates the object from arr as a restoring write: magic
// setters are bypassed.
func (o *Object) SetArray(arr *Array) {
	arr.Each(func(k Key, v Value) bool {
		o.Set(k.String(), v, Unrestricted, true)
		return true
	})
}

// ---------------------------------------------------------------------------
// Conversions
// ---------------------------------------------------------------------------

// ToString converts through __toString. Objects without it cannot be
// converted; that aborts the context.
func (o *Object) ToString() string {
	r := o.self()
	m := r.class.FindMethod(MagicToString)
	if m == nil || m.Fn == nil {
		raise(NewError(KindUser).Member(r.class.Name, MagicToString).
			Detail("Object of class %s could not be converted to string", r.class.Name).Build())
	}
	v := m.Fn(r, nil).Deref()
	if v.Type != TypeString {
		raise(NewError(KindUser).Member(r.class.Name, MagicToString).
			Detail("Method %s::__toString() must return a string value", r.class.Name).Build())
	}
	return v.StrVal
}

// ToInt64 converts an object to an integer, which is always 1.
func (o *Object) ToInt64() int64 {
	r := o.self()
	r.space.notice(KindUser, r, "Object of class %s could not be converted to int", r.class.Name)
	return 1
}
