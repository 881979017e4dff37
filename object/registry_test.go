package object

import (
	"errors"
	"testing"
	"time"
)

func counterClasses(inits *int) (*Class, *Class) {
	base := NewClass("Counter", nil).
		DeclareStatic("count", Public, func(sp *Space) Value {
			*inits++
			return Int(10)
		}).
		DeclareStatic("label", Protected, nil).
		DeclareConst("MAX", Int(99))
	base.AddStaticMethod("increment", Public, func(sp *Space, c *Class, args []Value) Value {
		p := sp.StaticLval(c.Name, "count")
		*p = Int(p.AsInt() + 1)
		return *p
	})
	base.AddMethod("instanceOnly", Public, func(this *Object, args []Value) Value { return Null() })
	child := NewClass("SubCounter", base).DeclareConst("MIN", Int(1))
	return base, child
}

func TestStaticsInitializedOnce(t *testing.T) {
	inits := 0
	base, child := counterClasses(&inits)
	_, sp := newTestSpace(t, base, child)

	if inits != 0 {
		t.Fatal("Expected statics to initialize lazily")
	}
	if v := sp.StaticGet("Counter", "count", true); v.AsInt() != 10 {
		t.Errorf("Expected 10, got %d", v.AsInt())
	}
	sp.StaticGet("SubCounter", "count", true)
	sp.StaticSet("counter", "count", Int(20), true)
	if inits != 1 {
		t.Errorf("Expected one initialization, got %d", inits)
	}
	if v := sp.StaticGet("SubCounter", "count", true); v.AsInt() != 20 {
		t.Errorf("Expected inherited static to share storage, got %d", v.AsInt())
	}
	if v := sp.StaticGet("Counter", "label", true); !v.IsNull() {
		t.Errorf("Expected nil initializer to give null, got %v", v.Type)
	}
}

func TestStaticsPerSpace(t *testing.T) {
	inits := 0
	base, child := counterClasses(&inits)
	_, sp := newTestSpace(t, base, child)

	sp.StaticSet("Counter", "count", Int(42), true)
	other := sp.Spawn()
	if v := other.StaticGet("Counter", "count", true); v.AsInt() != 10 {
		t.Errorf("Expected a fresh static in the child space, got %d", v.AsInt())
	}
	other.StaticSet("Counter", "count", Int(7), true)
	if v := sp.StaticGet("Counter", "count", true); v.AsInt() != 42 {
		t.Errorf("Expected the parent's static untouched, got %d", v.AsInt())
	}
	if inits != 2 {
		t.Errorf("Expected one initialization per space, got %d", inits)
	}
}

func TestStaticInitReadsSibling(t *testing.T) {
	cfg := NewClass("Cfg", nil).
		DeclareStatic("a", Public, func(sp *Space) Value { return Int(2) }).
		DeclareStatic("b", Public, func(sp *Space) Value {
			return Int(sp.StaticGet("Cfg", "a", true).AsInt() * 10)
		}).
		DeclareStatic("self", Public, func(sp *Space) Value {
			if !sp.StaticGet("Cfg", "self", true).IsNull() {
				return String("saw a value")
			}
			return String("saw null")
		})
	_, sp := newTestSpace(t, cfg)

	done := make(chan Value, 1)
	go func() { done <- sp.StaticGet("Cfg", "b", true) }()
	select {
	case v := <-done:
		if v.AsInt() != 20 {
			t.Errorf("Expected 20, got %d", v.AsInt())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("StaticGet did not return for an initializer reading a sibling")
	}
	if v := sp.StaticGet("Cfg", "self", true); v.AsString() != "saw null" {
		t.Errorf("Expected a self-reading initializer to see null, got %q", v.AsString())
	}
	if err := sp.StaticInit("Cfg"); err != nil {
		t.Errorf("StaticInit failed: %v", err)
	}
}

func TestStaticInitFailureRetries(t *testing.T) {
	calls := 0
	cls := NewClass("Flaky", nil).
		DeclareStatic("conn", Public, func(sp *Space) Value {
			calls++
			if calls == 1 {
				raise(NewError(KindUser).Detail("boom").Build())
			}
			return String("ok")
		})
	_, sp := newTestSpace(t, cls)

	expectFatal(t, KindUser, func() { sp.StaticGet("Flaky", "conn", true) })
	p := sp.StaticLval("Flaky", "conn")
	if p == nil {
		t.Fatal("Expected storage for a declared static after a failed initializer")
	}
	if p.AsString() != "ok" || calls != 2 {
		t.Errorf("Expected the initializer to run again, got %q after %d calls", p.AsString(), calls)
	}
}

func TestStaticInitAndLval(t *testing.T) {
	inits := 0
	base, child := counterClasses(&inits)
	_, sp := newTestSpace(t, base, child)

	if err := sp.StaticInit("SubCounter"); err != nil {
		t.Fatalf("StaticInit failed: %v", err)
	}
	if inits != 1 {
		t.Errorf("Expected ancestors initialized, got %d", inits)
	}
	p := sp.StaticLval("SubCounter", "count")
	*p = Int(1)
	if v := sp.StaticGet("Counter", "count", true); v.AsInt() != 1 {
		t.Errorf("Expected write through lval, got %d", v.AsInt())
	}

	err := sp.StaticInit("Nowhere")
	if !errors.Is(err, ErrUndefinedClass) {
		t.Errorf("Expected undefined class, got %v", err)
	}
}

func TestStaticMisses(t *testing.T) {
	inits := 0
	base, child := counterClasses(&inits)
	_, sp := newTestSpace(t, base, child)

	if v := sp.StaticGet("Counter", "missing", false); !v.IsNull() {
		t.Errorf("Expected null soft miss, got %v", v.Type)
	}
	if countDiags(sp, KindUndefinedProperty) != 1 {
		t.Error("Expected a diagnostic for the soft miss")
	}
	expectFatal(t, KindUndefinedProperty, func() { sp.StaticGet("Counter", "missing", true) })
	expectFatal(t, KindUndefinedProperty, func() { sp.StaticLval("Counter", "missing") })
	expectFatal(t, KindUndefinedClass, func() { sp.StaticGet("Nowhere", "count", true) })
	if v := sp.StaticGet("Nowhere", "count", false); !v.IsNull() {
		t.Error("Expected soft miss on unknown class")
	}
}

func TestConstants(t *testing.T) {
	inits := 0
	base, child := counterClasses(&inits)
	reg, _ := newTestSpace(t, base, child)

	if v := reg.Constant("SubCounter", "MAX", true); v.AsInt() != 99 {
		t.Errorf("Expected inherited constant 99, got %d", v.AsInt())
	}
	if v := reg.Constant("SubCounter", "MIN", true); v.AsInt() != 1 {
		t.Errorf("Expected 1, got %d", v.AsInt())
	}
	if v := reg.Constant("Counter", "MIN", false); !v.IsNull() {
		t.Error("Expected soft miss for a child constant on the parent")
	}
	expectFatal(t, KindUndefinedConstant, func() { reg.Constant("Counter", "MIN", true) })
}

func TestStaticInvoke(t *testing.T) {
	inits := 0
	base, child := counterClasses(&inits)
	reg, sp := newTestSpace(t, base, child)

	idx := reg.Selectors().Lookup("increment")
	if v := sp.StaticInvoke("SubCounter", idx, "", nil, true); v.AsInt() != 11 {
		t.Errorf("Expected 11, got %d", v.AsInt())
	}
	if v := sp.StaticInvokeByName("Counter", "INCREMENT", nil, true); v.AsInt() != 12 {
		t.Errorf("Expected 12, got %d", v.AsInt())
	}

	if v := sp.StaticInvokeByName("Counter", "instanceOnly", nil, false); !v.IsFalse() {
		t.Error("Expected instance method not to resolve statically")
	}
	err := expectFatal(t, KindUndefinedMethod, func() { sp.StaticInvokeByName("Counter", "nope", nil, true) })
	if err.Detail != "Call to undefined method Counter::nope()" {
		t.Errorf("Unexpected message %q", err.Detail)
	}
}

func TestRegisterRules(t *testing.T) {
	reg := NewRegistry()
	base := NewClass("Base", nil)
	if err := reg.Register(base); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := reg.Register(NewClass("base", nil)); err == nil {
		t.Error("Expected duplicate (case-insensitive) to fail")
	}
	orphan := NewClass("Orphan", NewClass("Unregistered", nil))
	if err := reg.Register(orphan); err == nil {
		t.Error("Expected unregistered parent to fail")
	}

	names := reg.Classes()
	if len(names) != 2 || names[0] != "Base" || names[1] != StdClass {
		t.Errorf("Expected [Base stdClass], got %v", names)
	}
}

func TestRedeclare(t *testing.T) {
	reg := NewRegistry()
	v1 := NewClass("Widget", nil).DeclareProp("a", Public, Int(1))
	reg.MustRegister(v1)

	v2 := NewClass("Widget", nil).DeclareProp("a", Public, Int(2)).DeclareProp("b", Public, Int(3))
	prev, err := reg.Redeclare(v2)
	if err != nil {
		t.Fatalf("Redeclare failed: %v", err)
	}
	if prev != v1 {
		t.Error("Expected previous definition returned")
	}
	if c, _ := reg.Lookup("widget"); c != v2 {
		t.Error("Expected lookup to find the new definition")
	}
}
