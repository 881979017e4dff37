package object

// ---------------------------------------------------------------------------
// Reference counting
// ---------------------------------------------------------------------------

// RefCount returns the root's current reference count.
func (o *Object) RefCount() int32 {
	return o.Root().refs
}

// IncRef adds a holder.
func (o *Object) IncRef() {
	r := o.self()
	r.refs++
}

// DecRef drops a holder and releases the object when the count reaches
// zero. Dropping below zero, or dropping a released object, is a
// protocol violation; the destructor is never run twice.
func (o *Object) DecRef() {
	r := o.Root()
	if r.released || r.refs <= 0 {
		r.space.log.Criticalf("double release of %s #%d", r.class.Name, r.id)
		raise(NewError(KindProtocol).Member(r.class.Name, "").
			Detail("object #%d released twice", r.id).Build())
	}
	r.refs--
	if r.refs > 0 {
		return
	}
	if r.attrs.Has(InDestructor) {
		// A destructor holding and dropping its own object.
		return
	}
	r.release()
}

// Hold takes a scoped reference. The returned function drops it exactly
// once without ever releasing the object, so a guard around
// construction cannot destroy a fresh object whose count is still zero:
//
//	defer o.Hold()()
func (o *Object) Hold() func() {
	r := o.self()
	r.refs++
	done := false
	return func() {
		if done {
			return
		}
		done = true
		if r.refs > 0 {
			r.refs--
		}
	}
}

// Release destroys an object nobody holds. It is the explicit end of
// life for objects whose count was never raised.
func (o *Object) Release() {
	r := o.Root()
	if r.released || r.attrs.Has(InDestructor) {
		raise(NewError(KindProtocol).Member(r.class.Name, "").
			Detail("object #%d released twice", r.id).Build())
	}
	if r.refs > 0 {
		raise(NewError(KindProtocol).Member(r.class.Name, "").
			Detail("object #%d released with %d holders", r.id, r.refs).Build())
	}
	r.release()
}

// release runs the destructor once and drops member storage. The object
// is marked released even when the destructor aborts with a fatal.
func (o *Object) release() {
	o.attrs |= InDestructor
	defer func() {
		o.released = true
		o.slots = nil
		o.props = nil
		o.space.live--
	}()
	if m := o.class.FindMethod(MagicDestruct); m != nil && m.Fn != nil {
		m.Fn(o, nil)
	}
}

// ---------------------------------------------------------------------------
// Construction and cloning
// ---------------------------------------------------------------------------

// Construct runs __construct with InConstructor set. Re-entering the
// constructor of an object still under construction is a protocol
// violation.
func (o *Object) Construct(args ...Value) {
	r := o.self()
	if r.attrs.Has(InConstructor) {
		raise(NewError(KindProtocol).Member(r.class.Name, MagicConstruct).
			Detail("constructor of #%d re-entered", r.id).Build())
	}
	m := r.class.FindMethod(MagicConstruct)
	if m == nil || m.Fn == nil {
		return
	}
	defer r.Hold()()
	defer r.acquire(InConstructor)()
	m.Fn(r, args)
}

// Clone copies the object: same class, copied declared slots and
// dynamic properties, fresh id and attributes. __clone then runs on the
// copy.
func (o *Object) Clone() *Object {
	r := o.self()
	c := r.space.alloc(r.class)
	for i := range r.slots {
		c.slots[i] = slot{val: storable(r.slots[i].val), state: r.slots[i].state}
	}
	c.props = r.props.copy()
	if m := c.class.FindMethod(MagicClone); m != nil && m.Fn != nil {
		defer c.Hold()()
		m.Fn(c, nil)
	}
	return c
}
