package object

// Attr is the per-object bitset of transient runtime state
type Attr uint8

const (
	InConstructor Attr = 1 << iota // constructor body is running
	InDestructor                   // destructor has started; never re-run
	HasSleep                       // class defines __sleep
	InSet                          // magic setter/unsetter is running
	InGet                          // magic getter/isset is running
)

var attrNames = []struct {
	a    Attr
	name string
}{
	{InConstructor, "InConstructor"},
	{InDestructor, "InDestructor"},
	{HasSleep, "HasSleep"},
	{InSet, "InSet"},
	{InGet, "InGet"},
}

// Has checks if a flag is set
func (a Attr) Has(flag Attr) bool {
	return a&flag != 0
}

func (a Attr) String() string {
	s := ""
	for _, n := range attrNames {
		if a.Has(n.a) {
			if s != "" {
				s += "|"
			}
			s += n.name
		}
	}
	if s == "" {
		return "0"
	}
	return s
}

// Attrs returns the object's current attribute bits.
func (o *Object) Attrs() Attr {
	return o.attrs
}

// acquire sets flag and returns the function that clears it. Callers
// pair it with defer so the flag is cleared on every exit, including a
// fatal panic unwinding through the region:
//
//	defer o.acquire(InGet)()
func (o *Object) acquire(flag Attr) func() {
	o.attrs |= flag
	return func() { o.attrs &^= flag }
}
