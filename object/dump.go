package object

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dump writes a var_dump style rendering of the object graph to w.
// Objects already being printed show as *RECURSION*.
func (o *Object) Dump(w io.Writer) error {
	d := &dumper{w: w, seen: make(map[*Object]bool)}
	d.object(o, 0)
	return d.err
}

// DumpValue renders any value the same way.
func DumpValue(w io.Writer, v Value) error {
	d := &dumper{w: w, seen: make(map[*Object]bool)}
	d.value(v, 0)
	return d.err
}

type dumper struct {
	w    io.Writer
	seen map[*Object]bool
	err  error
}

func (d *dumper) printf(depth int, format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, strings.Repeat("  ", depth)+format+"\n", args...)
}

func (d *dumper) value(v Value, depth int) {
	v = v.Deref()
	switch v.Type {
	case TypeNull:
		d.printf(depth, "NULL")
	case TypeBool:
		d.printf(depth, "bool(%t)", v.IntVal != 0)
	case TypeInt:
		d.printf(depth, "int(%d)", v.IntVal)
	case TypeFloat:
		d.printf(depth, "float(%s)", strconv.FormatFloat(v.FloatVal, 'G', 14, 64))
	case TypeString:
		d.printf(depth, "string(%d) %q", len(v.StrVal), v.StrVal)
	case TypeArray:
		d.printf(depth, "array(%d) {", v.ArrVal.Len())
		v.ArrVal.Each(func(k Key, x Value) bool {
			if k.IsInt {
				d.printf(depth+1, "[%d]=>", k.Int)
			} else {
				d.printf(depth+1, "[%q]=>", k.Str)
			}
			d.value(x, depth+1)
			return d.err == nil
		})
		d.printf(depth, "}")
	case TypeObject:
		d.object(v.ObjVal, depth)
	}
}

func (d *dumper) object(o *Object, depth int) {
	r := o.Root()
	if r.released {
		d.printf(depth, "object(%s)#%d (released)", o.class.Name, r.id)
		return
	}
	if d.seen[r] {
		d.printf(depth, "*RECURSION*")
		return
	}
	d.seen[r] = true
	defer delete(d.seen, r)

	members := r.ToArray()
	d.printf(depth, "object(%s)#%d (%d) {", o.class.Name, r.id, members.Len())
	for i, decl := range r.class.props {
		if r.slots[i].state != Present {
			continue
		}
		if decl.Vis == Public {
			d.printf(depth+1, "[%q]=>", decl.Name)
		} else {
			d.printf(depth+1, "[%q:%s]=>", decl.Name, decl.Vis)
		}
		d.value(r.slots[i].val, depth+1)
	}
	r.props.each(func(name string, s *slot) {
		d.printf(depth+1, "[%q]=>", name)
		d.value(s.val, depth+1)
	})
	d.printf(depth, "}")
}
