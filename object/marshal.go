package object

// ---------------------------------------------------------------------------
// Cross-context marshaling
// ---------------------------------------------------------------------------

// RefMap is the identity map for one top-level marshal call. It maps
// source objects to the objects already created for them in the
// destination space, which keeps aliasing and cycles intact. Do not
// reuse a RefMap across calls.
type RefMap struct {
	dst  *Space
	seen map[*Object]*Object
}

// NewRefMap starts a marshal into dst.
func NewRefMap(dst *Space) *RefMap {
	return &RefMap{dst: dst, seen: make(map[*Object]*Object)}
}

// Dest returns the destination space.
func (m *RefMap) Dest() *Space { return m.dst }

// Len returns the number of objects marshaled so far.
func (m *RefMap) Len() int { return len(m.seen) }

// Out copies v into the destination space. Scalars are copied, arrays
// are copied element-wise and objects go through MarshalOut.
func (m *RefMap) Out(v Value) Value {
	return m.value(v, (*Object).MarshalOut)
}

// In copies v back into the destination space, reusing the objects
// values were originally marshaled from.
func (m *RefMap) In(v Value) Value {
	return m.value(v, (*Object).MarshalIn)
}

func (m *RefMap) value(v Value, obj func(*Object, *RefMap) *Object) Value {
	v = v.Deref()
	switch v.Type {
	case TypeObject:
		return ObjectValue(obj(v.ObjVal, m))
	case TypeArray:
		out := NewArray()
		v.ArrVal.Each(func(k Key, x Value) bool {
			out.Set(k, m.value(x, obj))
			return true
		})
		return ArrayValue(out)
	default:
		return v
	}
}

// MarshalOut returns the destination-space copy of o, creating it on
// first sight.
func (o *Object) MarshalOut(m *RefMap) *Object {
	r := o.self()
	if d, ok := m.seen[r]; ok {
		return d
	}
	d := m.dst.alloc(m.destClass(r))
	d.origin = r
	m.seen[r] = d
	m.copyState(d, r, (*Object).MarshalOut)
	return d
}

// MarshalIn is the return leg. An object that was marshaled out of the
// destination space is written back into its origin, so holders there
// observe the changes; anything else is created fresh.
func (o *Object) MarshalIn(m *RefMap) *Object {
	r := o.self()
	if d, ok := m.seen[r]; ok {
		return d
	}
	var d *Object
	if orig := r.origin; orig != nil && orig.space == m.dst && !orig.released {
		d = orig
		d.slots = make([]slot, len(d.class.props))
		d.props = nil
	} else {
		d = m.dst.alloc(m.destClass(r))
		d.origin = r
	}
	m.seen[r] = d
	m.copyState(d, r, (*Object).MarshalIn)
	return d
}

// destClass resolves src's class in the destination registry.
func (m *RefMap) destClass(src *Object) *Class {
	if src.space.reg == m.dst.reg {
		return src.class
	}
	c, ok := m.dst.reg.Lookup(src.class.Name)
	if !ok {
		raise(NewError(KindMarshal).Member(src.class.Name, "").
			Detail("class %s is not defined in the destination context", src.class.Name).Build())
	}
	return c
}

// copyState copies src's members into d, matching declared properties by
// name. A member the destination class does not declare becomes
// dynamic.
func (m *RefMap) copyState(d, src *Object, obj func(*Object, *RefMap) *Object) {
	for i, decl := range src.class.props {
		s := src.slots[i]
		if _, j := d.class.prop(decl.Name); j >= 0 {
			d.slots[j] = slot{val: m.value(s.val, obj), state: s.state}
			continue
		}
		if s.state == Present {
			d.ensureProps().put(decl.Name, m.value(s.val, obj))
		}
	}
	if src.props == nil {
		return
	}
	for _, name := range src.props.order {
		s := src.props.entries[name]
		if _, j := d.class.prop(name); j >= 0 {
			if s.state == Present {
				d.slots[j] = slot{val: m.value(s.val, obj), state: Present}
			}
			continue
		}
		ds := d.ensureProps().put(name, m.value(s.val, obj))
		ds.state = s.state
	}
}

// Transplant copies the graph reachable from o into dst with a fresh
// identity map.
func Transplant(o *Object, dst *Space) *Object {
	return o.MarshalOut(NewRefMap(dst))
}
