package object

import (
	"strings"
	"sync/atomic"
)

var lastObjectID atomic.Int64

// Object is a runtime instance.
//
// Declared properties live in slots laid out by the class. Members added
// at run time live in a Dynamic Property Store that is only allocated
// when the first one is written. The id is process-unique and never
// reused; it is for debugging and serialization, not equality.
type Object struct {
	id    int64
	class *Class
	space *Space

	refs  int32
	attrs Attr

	slots []slot
	props *propStore

	root     rootLink
	released bool

	// origin is the object this one was marshaled from, so that the
	// way back can write into it instead of creating a copy.
	origin *Object
}

// alloc creates an object with declared defaults and no initializer run.
func (s *Space) alloc(cls *Class) *Object {
	o := &Object{
		id:    lastObjectID.Add(1),
		class: cls,
		space: s,
		slots: make([]slot, len(cls.props)),
	}
	for i, d := range cls.props {
		o.slots[i] = slot{val: storable(d.Default), state: Present}
	}
	if cls.HasMethod(MagicSleep) {
		o.attrs |= HasSleep
	}
	s.live++
	return o
}

// ID returns the object's process-unique id.
func (o *Object) ID() int64 { return o.id }

// Class returns the class of this handle. For a facade this is the
// facade's class, not the root's.
func (o *Object) Class() *Class { return o.class }

// Space returns the context that owns the object.
func (o *Object) Space() *Space { return o.space }

// ClassName returns the name of the object's class.
func (o *Object) ClassName() string { return o.class.Name }

// IsClass reports whether the object's class is exactly name.
func (o *Object) IsClass(name string) bool {
	return strings.EqualFold(o.class.Name, name)
}

// InstanceOf reports whether the object's class is, extends or
// implements name.
func (o *Object) InstanceOf(name string) bool {
	return o.class.InstanceOf(name)
}

// Released reports whether the object's storage has been released.
func (o *Object) Released() bool { return o.Root().released }

// self resolves the root redirection and rejects use after release. Every
// member operation starts here.
func (o *Object) self() *Object {
	r := o.Root()
	if r.released {
		raise(NewError(KindProtocol).Member(r.class.Name, "").
			Detail("object #%d used after release", r.id).Build())
	}
	return r
}

func (o *Object) ensureProps() *propStore {
	if o.props == nil {
		o.props = newPropStore()
	}
	return o.props
}

// ThrowFatal aborts the current context with a user error attributed to
// this object's class.
func (o *Object) ThrowFatal(msg string) {
	raise(NewError(KindUser).Member(o.class.Name, "").Detail("%s", msg).Build())
}
