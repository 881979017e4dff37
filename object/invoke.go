package object

// ---------------------------------------------------------------------------
// Method invocation
// ---------------------------------------------------------------------------

// Invoke calls a method by name.
func (o *Object) Invoke(name string, args []Value, fatal bool) Value {
	return o.InvokeIndex(NoIndex, name, args, fatal)
}

// InvokeIndex calls a method through the index fast path, falling back
// to name lookup when the index is unknown or names a different method.
// Dispatch uses this handle's class; member state is still the root's.
// Unresolved calls go to __call, then fail per the fatal flag: a fatal
// "Call to undefined method", or false with a notice.
func (o *Object) InvokeIndex(idx MethodIndex, name string, args []Value, fatal bool) Value {
	o.self()
	return o.dispatch(o.class, idx, name, args, fatal)
}

// InvokeAs calls name starting the lookup at ancestor, as a parent::
// call does.
func (o *Object) InvokeAs(ancestor string, name string, args []Value, fatal bool) Value {
	o.self()
	start := o.class.Ancestor(ancestor)
	if start == nil {
		err := NewError(KindUndefinedClass).Member(ancestor, "").
			Detail("%s is not an ancestor of %s", ancestor, o.class.Name).Build()
		if fatal {
			raise(err)
		}
		o.space.notice(err.Kind, o, "%s", err.Detail)
		return False()
	}
	return o.dispatch(start, NoIndex, name, args, fatal)
}

// RootInvoke calls a method on the object that owns this handle's state,
// so a facade behaves like its root. Misses are soft.
func (o *Object) RootInvoke(name string, args []Value) Value {
	return o.RootInvokeIndex(NoIndex, name, args, false)
}

// RootInvokeIndex is RootInvoke with an index and an explicit fatal flag.
func (o *Object) RootInvokeIndex(idx MethodIndex, name string, args []Value, fatal bool) Value {
	r := o.self()
	return r.dispatch(r.class, idx, name, args, fatal)
}

func (o *Object) dispatch(start *Class, idx MethodIndex, name string, args []Value, fatal bool) Value {
	if m := start.resolveMethod(idx, name); m != nil {
		if m.IsStatic() {
			return m.Static(o.space, start, args)
		}
		return m.Fn(o, args)
	}
	if name == "" && start.registry != nil {
		name = start.registry.selectors.Name(idx)
	}
	if call := o.class.FindMethod(MagicCall); call != nil && call.Fn != nil {
		return call.Fn(o, []Value{String(name), ArrayValue(ArrayFromList(args))})
	}
	err := NewError(KindUndefinedMethod).Member(o.class.Name, name).
		Detail("Call to undefined method %s::%s()", o.class.Name, name).Build()
	if fatal {
		raise(err)
	}
	o.space.notice(err.Kind, o, "%s", err.Detail)
	return False()
}
