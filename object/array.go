package object

import (
	"strconv"
)

// Key is an ordered-map key: either an integer or a string.
type Key struct {
	IsInt bool
	Int   int64
	Str   string
}

// IntKey creates an integer key
func IntKey(n int64) Key { return Key{IsInt: true, Int: n} }

// StrKey creates a string key. Decimal integer strings normalize to
// integer keys, matching the language's array key rules.
func StrKey(s string) Key {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil && strconv.FormatInt(n, 10) == s {
		return IntKey(n)
	}
	return Key{Str: s}
}

// String returns the key in its display form.
func (k Key) String() string {
	if k.IsInt {
		return strconv.FormatInt(k.Int, 10)
	}
	return k.Str
}

// Value converts the key back to a runtime value.
func (k Key) Value() Value {
	if k.IsInt {
		return Int(k.Int)
	}
	return String(k.Str)
}

// Array is the ordered-map container the object model stores and
// exports through. It preserves insertion order; deleting and re-setting
// a key moves it to the end.
//
// Array is not safe for concurrent use.
type Array struct {
	entries map[Key]*Value
	order   []Key
	nextIdx int64
}

// NewArray creates an empty array.
func NewArray() *Array {
	return &Array{entries: make(map[Key]*Value)}
}

// ArrayFromList builds a list-shaped array with keys 0..n-1.
func ArrayFromList(vals []Value) *Array {
	a := NewArray()
	for _, v := range vals {
		a.Append(v)
	}
	return a
}

// Len returns the number of entries. A nil array is empty.
func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.entries)
}

// Get returns the value stored under k.
func (a *Array) Get(k Key) (Value, bool) {
	if a == nil {
		return Null(), false
	}
	if p, ok := a.entries[k]; ok {
		return *p, true
	}
	return Null(), false
}

// GetStr is Get with a string key.
func (a *Array) GetStr(name string) (Value, bool) {
	return a.Get(StrKey(name))
}

// Has reports membership.
func (a *Array) Has(k Key) bool {
	if a == nil {
		return false
	}
	_, ok := a.entries[k]
	return ok
}

// Set stores v under k, appending k to the order if it is new.
func (a *Array) Set(k Key, v Value) {
	if p, ok := a.entries[k]; ok {
		*p = v
		return
	}
	slot := new(Value)
	*slot = v
	a.entries[k] = slot
	a.order = append(a.order, k)
	if k.IsInt && k.Int >= a.nextIdx {
		a.nextIdx = k.Int + 1
	}
}

// SetStr is Set with a string key.
func (a *Array) SetStr(name string, v Value) {
	a.Set(StrKey(name), v)
}

// Append stores v under the next free integer key.
func (a *Array) Append(v Value) {
	a.Set(IntKey(a.nextIdx), v)
}

// Slot returns a pointer to the stored value for k, creating a null
// entry if needed.
func (a *Array) Slot(k Key) *Value {
	if p, ok := a.entries[k]; ok {
		return p
	}
	a.Set(k, Null())
	return a.entries[k]
}

// Delete removes k. It reports whether the key was present.
func (a *Array) Delete(k Key) bool {
	if a == nil {
		return false
	}
	if _, ok := a.entries[k]; !ok {
		return false
	}
	delete(a.entries, k)
	for i, ok := range a.order {
		if ok == k {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
	return true
}

// Each visits entries in insertion order until fn returns false.
func (a *Array) Each(fn func(k Key, v Value) bool) {
	if a == nil {
		return
	}
	for _, k := range a.order {
		if !fn(k, *a.entries[k]) {
			return
		}
	}
}

// Keys returns the keys in insertion order.
func (a *Array) Keys() []Key {
	if a == nil {
		return nil
	}
	out := make([]Key, len(a.order))
	copy(out, a.order)
	return out
}

// Values returns the values in insertion order.
func (a *Array) Values() []Value {
	if a == nil {
		return nil
	}
	out := make([]Value, 0, len(a.order))
	for _, k := range a.order {
		out = append(out, *a.entries[k])
	}
	return out
}

// Copy returns a copy with value semantics: nested arrays are copied,
// objects stay shared handles.
func (a *Array) Copy() *Array {
	c := NewArray()
	a.Each(func(k Key, v Value) bool {
		c.Set(k, storable(v))
		return true
	})
	if a != nil {
		c.nextIdx = a.nextIdx
	}
	return c
}
