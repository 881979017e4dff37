package object

// PropState is the tri-state existence of a member
type PropState uint8

const (
	Absent  PropState = iota // never set
	Present                  // set with a value (possibly null)
	Removed                  // explicitly unset after having existed
)

func (s PropState) String() string {
	switch s {
	case Present:
		return "present"
	case Removed:
		return "removed"
	default:
		return "absent"
	}
}

// slot is one member's storage: a value plus its existence state.
type slot struct {
	val   Value
	state PropState
}

// propStore is the Dynamic Property Store. It is ordered by first
// insertion; setting a Removed entry again moves it to the end.
type propStore struct {
	entries map[string]*slot
	order   []string
}

func newPropStore() *propStore {
	return &propStore{entries: make(map[string]*slot)}
}

func (p *propStore) lookup(name string) *slot {
	if p == nil {
		return nil
	}
	return p.entries[name]
}

func (p *propStore) state(name string) PropState {
	if s := p.lookup(name); s != nil {
		return s.state
	}
	return Absent
}

// put stores v under name and returns the slot.
func (p *propStore) put(name string, v Value) *slot {
	s := p.entries[name]
	switch {
	case s == nil:
		s = &slot{}
		p.entries[name] = s
		p.order = append(p.order, name)
	case s.state == Removed:
		p.moveToEnd(name)
	}
	s.val = v
	s.state = Present
	return s
}

// remove marks an entry Removed, keeping the tombstone so reflection can
// tell it once existed.
func (p *propStore) remove(name string) bool {
	s := p.lookup(name)
	if s == nil || s.state != Present {
		return false
	}
	s.val = Null()
	s.state = Removed
	return true
}

func (p *propStore) moveToEnd(name string) {
	for i, n := range p.order {
		if n == name {
			p.order = append(append(p.order[:i:i], p.order[i+1:]...), name)
			return
		}
	}
}

// each visits Present entries in order.
func (p *propStore) each(fn func(name string, s *slot)) {
	if p == nil {
		return
	}
	for _, n := range p.order {
		if s := p.entries[n]; s.state == Present {
			fn(n, s)
		}
	}
}

func (p *propStore) len() int {
	n := 0
	p.each(func(string, *slot) { n++ })
	return n
}

// copy duplicates the store with value semantics; the tombstones go with it.
func (p *propStore) copy() *propStore {
	if p == nil {
		return nil
	}
	c := newPropStore()
	for _, n := range p.order {
		s := p.entries[n]
		c.entries[n] = &slot{val: storable(s.val), state: s.state}
		c.order = append(c.order, n)
	}
	return c
}
