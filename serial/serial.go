package serial

import (
	"fmt"

	"github.com/chazu/dynobj/object"
)

// Marshal encodes the graph reachable from v. Objects whose class
// defines __sleep contribute only the members it names.
func Marshal(v object.Value) (data []byte, err error) {
	defer object.Recover(&err)

	e := &encoder{index: make(map[*object.Object]int)}
	doc := &Document{Version: Version}
	doc.Root = e.node(v)
	doc.Objects = e.records
	return MarshalDocument(doc)
}

// MarshalObject is Marshal for an object root.
func MarshalObject(o *object.Object) ([]byte, error) {
	return Marshal(object.ObjectValue(o))
}

type encoder struct {
	index   map[*object.Object]int
	records []Record
}

func (e *encoder) node(v object.Value) Node {
	v = v.Deref()
	switch v.Type {
	case object.TypeBool:
		return Node{Kind: NodeBool, Int: v.IntVal}
	case object.TypeInt:
		return Node{Kind: NodeInt, Int: v.IntVal}
	case object.TypeFloat:
		return Node{Kind: NodeFloat, Float: v.FloatVal}
	case object.TypeString:
		return Node{Kind: NodeString, Str: v.StrVal}
	case object.TypeArray:
		n := Node{Kind: NodeArray}
		v.ArrVal.Each(func(k object.Key, x object.Value) bool {
			n.Entries = append(n.Entries, Entry{IntKey: k.IsInt, Int: k.Int, Str: k.Str, Value: e.node(x)})
			return true
		})
		return n
	case object.TypeObject:
		return Node{Kind: NodeObject, Ref: e.object(v.ObjVal)}
	default:
		return Node{Kind: NodeNull}
	}
}

// object assigns o its table index before encoding members, so a member
// leading back to o encodes as a reference.
func (e *encoder) object(o *object.Object) int {
	r := o.Root()
	if i, ok := e.index[r]; ok {
		return i
	}
	e.records = append(e.records, Record{Class: r.ClassName()})
	i := len(e.records)
	e.index[r] = i

	var members []Member
	for _, m := range sleepMembers(r) {
		members = append(members, Member{Name: m.name, Value: e.node(m.val)})
	}
	e.records[i-1].Members = members
	return i
}

type namedValue struct {
	name string
	val  object.Value
}

func sleepMembers(o *object.Object) []namedValue {
	var out []namedValue
	if !o.Attrs().Has(object.HasSleep) {
		o.ToArray().Each(func(k object.Key, v object.Value) bool {
			out = append(out, namedValue{k.String(), v})
			return true
		})
		return out
	}
	names := o.Invoke(object.MagicSleep, nil, true).Deref()
	if names.Type != object.TypeArray {
		o.ThrowFatal("__sleep should return an array only containing the names of instance-variables to serialize")
	}
	for _, n := range names.ArrVal.Values() {
		name := n.AsString()
		out = append(out, namedValue{name, o.Get(name, object.Unrestricted, true)})
	}
	return out
}

// Unmarshal decodes data into sp. Every object is created with its
// class initializers, populated without magic setters, and then sent
// __wakeup if its class defines one. Unknown classes are an error.
func Unmarshal(sp *object.Space, data []byte) (v object.Value, err error) {
	doc, err := UnmarshalDocument(data)
	if err != nil {
		return object.Null(), err
	}
	defer object.Recover(&err)

	objs := make([]*object.Object, len(doc.Objects))
	for i, r := range doc.Objects {
		cls, ok := sp.Registry().Lookup(r.Class)
		if !ok {
			return object.Null(), fmt.Errorf("serial: unknown class %s", r.Class)
		}
		objs[i] = sp.Create(cls)
	}
	d := &decoder{objs: objs}
	for i, r := range doc.Objects {
		for _, m := range r.Members {
			objs[i].Set(m.Name, d.value(m.Value), object.Unrestricted, true)
		}
	}
	for _, o := range objs {
		if o.Class().HasMethod(object.MagicWakeup) {
			o.Invoke(object.MagicWakeup, nil, true)
		}
	}
	return d.value(doc.Root), nil
}

// UnmarshalObject decodes a document whose root is an object.
func UnmarshalObject(sp *object.Space, data []byte) (*object.Object, error) {
	v, err := Unmarshal(sp, data)
	if err != nil {
		return nil, err
	}
	o := v.Object()
	if o == nil {
		return nil, fmt.Errorf("serial: root is %s, not an object", v.Type)
	}
	return o, nil
}

type decoder struct {
	objs []*object.Object
}

func (d *decoder) value(n Node) object.Value {
	switch n.Kind {
	case NodeBool:
		return object.Bool(n.Int != 0)
	case NodeInt:
		return object.Int(n.Int)
	case NodeFloat:
		return object.Float(n.Float)
	case NodeString:
		return object.String(n.Str)
	case NodeArray:
		a := object.NewArray()
		for _, e := range n.Entries {
			k := object.Key{IsInt: e.IntKey, Int: e.Int, Str: e.Str}
			a.Set(k, d.value(e.Value))
		}
		return object.ArrayValue(a)
	case NodeObject:
		return object.ObjectValue(d.objs[n.Ref-1])
	default:
		return object.Null()
	}
}
