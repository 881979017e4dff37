package object

type rootKind uint8

const (
	SelfRooted rootKind = iota
	Redirected
)

// rootLink says which object holds this handle's state.
type rootLink struct {
	kind   rootKind
	target *Object
}

// Root returns the object that owns this handle's state: the handle
// itself unless it is a facade.
func (o *Object) Root() *Object {
	r := o
	for r.root.kind == Redirected {
		r = r.root.target
	}
	return r
}

// IsRedirected reports whether o is a facade over another object.
func (o *Object) IsRedirected() bool {
	return o.root.kind == Redirected
}

// RedeclaredParent returns the root a facade forwards to, or nil when
// the object is self-rooted.
func (o *Object) RedeclaredParent() *Object {
	if o.root.kind == Redirected {
		return o.Root()
	}
	return nil
}

// SetRoot makes o a facade over target. Chains collapse to the final
// root. Repeating the call with the same root is a no-op; pointing an
// established facade at a different root is a protocol violation. A
// facade's lifetime is its root's, so it leaves the live count.
func (o *Object) SetRoot(target *Object) {
	t := target.Root()
	if t == o.Root() {
		return
	}
	if o.root.kind == Redirected {
		raise(NewError(KindProtocol).Member(o.class.Name, "").
			Detail("object #%d is already rooted at #%d", o.id, o.Root().id).Build())
	}
	o.root = rootLink{kind: Redirected, target: t}
	o.space.live--
}
