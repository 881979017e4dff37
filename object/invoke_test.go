package object

import (
	"errors"
	"strings"
	"testing"
)

func greeterClasses() (*Class, *Class) {
	greeter := NewClass("Greeter", nil)
	greeter.AddMethod("hello", Public, func(this *Object, args []Value) Value {
		return String("hi " + args[0].AsString())
	})
	greeter.AddMethod("bye", Public, func(this *Object, args []Value) Value {
		return String("bye")
	})
	loud := NewClass("LoudGreeter", greeter)
	loud.AddMethod("hello", Public, func(this *Object, args []Value) Value {
		return String("HI " + strings.ToUpper(args[0].AsString()))
	})
	return greeter, loud
}

func TestInvokeByName(t *testing.T) {
	greeter, loud := greeterClasses()
	_, sp := newTestSpace(t, greeter, loud)

	if v := sp.Create(greeter).Invoke("HELLO", []Value{String("bob")}, true); v.AsString() != "hi bob" {
		t.Errorf("Expected case-insensitive dispatch, got %q", v.AsString())
	}
	if v := sp.Create(loud).Invoke("hello", []Value{String("bob")}, true); v.AsString() != "HI BOB" {
		t.Errorf("Expected override, got %q", v.AsString())
	}
	if v := sp.Create(loud).Invoke("bye", nil, true); v.AsString() != "bye" {
		t.Errorf("Expected inherited method, got %q", v.AsString())
	}
}

func TestInvokeIndexMatchesName(t *testing.T) {
	greeter, loud := greeterClasses()
	_, sp := newTestSpace(t, greeter, loud)
	o := sp.Create(loud)

	hello := loud.MethodIndex("hello")
	if hello == NoIndex {
		t.Fatal("Expected an index for hello")
	}
	if greeter.MethodIndex("hello") != hello {
		t.Error("Expected index shared across the class family")
	}

	args := []Value{String("amy")}
	byIndex := o.InvokeIndex(hello, "", args, true)
	byName := o.Invoke("hello", args, true)
	both := o.InvokeIndex(hello, "hello", args, true)
	if byIndex.AsString() != byName.AsString() || both.AsString() != byName.AsString() {
		t.Errorf("Expected both paths to agree, got %q %q %q", byIndex.AsString(), byName.AsString(), both.AsString())
	}
}

func TestInvokeIndexMismatchFallsBackToName(t *testing.T) {
	greeter, loud := greeterClasses()
	_, sp := newTestSpace(t, greeter, loud)
	o := sp.Create(greeter)

	bye := greeter.MethodIndex("bye")
	v := o.InvokeIndex(bye, "hello", []Value{String("x")}, true)
	if v.AsString() != "hi x" {
		t.Errorf("Expected name to win over a stale index, got %q", v.AsString())
	}
	if v := o.InvokeIndex(MethodIndex(1000), "bye", nil, true); v.AsString() != "bye" {
		t.Errorf("Expected unknown index to fall back, got %q", v.AsString())
	}
}

func TestMethodIndexUnregistered(t *testing.T) {
	cls := NewClass("Loose", nil)
	cls.AddMethod("m", Public, func(this *Object, args []Value) Value { return Null() })
	if cls.MethodIndex("m") != NoIndex {
		t.Error("Expected NoIndex before registration")
	}
}

func TestMethodAddedAfterRegistration(t *testing.T) {
	cls := NewClass("Late", nil)
	_, sp := newTestSpace(t, cls)
	cls.AddMethod("added", Public, func(this *Object, args []Value) Value { return Int(5) })

	o := sp.Create(cls)
	if v := o.InvokeIndex(cls.MethodIndex("added"), "", nil, true); v.AsInt() != 5 {
		t.Errorf("Expected 5, got %d", v.AsInt())
	}
}

func TestUndefinedMethod(t *testing.T) {
	greeter, loud := greeterClasses()
	_, sp := newTestSpace(t, greeter, loud)
	o := sp.Create(greeter)

	v := o.Invoke("nope", nil, false)
	if !v.IsFalse() {
		t.Errorf("Expected false sentinel, got %v", v.Type)
	}
	if countDiags(sp, KindUndefinedMethod) != 1 {
		t.Errorf("Expected one notice, got %v", sp.Diagnostics())
	}

	returned := false
	err := expectFatal(t, KindUndefinedMethod, func() {
		o.Invoke("nope", nil, true)
		returned = true
	})
	if returned {
		t.Error("Expected no value to be returned from a fatal miss")
	}
	if err.Detail != "Call to undefined method Greeter::nope()" {
		t.Errorf("Unexpected message %q", err.Detail)
	}
}

func TestRunRecoversFatal(t *testing.T) {
	greeter, loud := greeterClasses()
	_, sp := newTestSpace(t, greeter, loud)
	o := sp.Create(greeter)

	err := sp.Run(func() { o.Invoke("nope", nil, true) })
	if !errors.Is(err, ErrUndefinedMethod) {
		t.Fatalf("Expected undefined method error, got %v", err)
	}
	if errors.Is(err, ErrAccess) {
		t.Error("Expected kinds not to match each other")
	}
	if err := sp.Run(func() { o.Invoke("hello", []Value{Null()}, true) }); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestMagicCall(t *testing.T) {
	cls := NewClass("Catchall", nil)
	var gotName string
	var gotArgs *Array
	cls.AddMethod("__call", Public, func(this *Object, args []Value) Value {
		gotName = args[0].AsString()
		gotArgs = args[1].ArrVal
		return Int(7)
	})
	_, sp := newTestSpace(t, cls)
	o := sp.Create(cls)

	v := o.Invoke("doThing", []Value{Int(1), Int(2)}, true)
	if v.AsInt() != 7 {
		t.Errorf("Expected __call result 7, got %d", v.AsInt())
	}
	if gotName != "doThing" {
		t.Errorf("Expected name doThing, got %q", gotName)
	}
	if gotArgs.Len() != 2 {
		t.Errorf("Expected 2 args, got %d", gotArgs.Len())
	}
	if len(sp.Diagnostics()) != 0 {
		t.Error("Expected no diagnostics when __call handles the call")
	}
}

func TestInvokeAs(t *testing.T) {
	greeter, loud := greeterClasses()
	_, sp := newTestSpace(t, greeter, loud)
	o := sp.Create(loud)

	if v := o.InvokeAs("greeter", "hello", []Value{String("z")}, true); v.AsString() != "hi z" {
		t.Errorf("Expected parent implementation, got %q", v.AsString())
	}
	if v := o.InvokeAs("stdClass", "hello", nil, false); !v.IsFalse() {
		t.Error("Expected false for a non-ancestor")
	}
	expectFatal(t, KindUndefinedClass, func() { o.InvokeAs("stdClass", "hello", nil, true) })
}

func TestStaticMethodThroughInstance(t *testing.T) {
	cls := NewClass("Factory", nil)
	cls.AddStaticMethod("make", Public, func(sp *Space, c *Class, args []Value) Value {
		return String("made by " + c.Name)
	})
	_, sp := newTestSpace(t, cls)

	if v := sp.Create(cls).Invoke("make", nil, true); v.AsString() != "made by Factory" {
		t.Errorf("Expected static call, got %q", v.AsString())
	}
}
