package object

import (
	"strconv"
	"strings"
)

// ValueType represents the type of a runtime value
type ValueType int

const (
	TypeNull ValueType = iota
	TypeBool
	TypeInt
	TypeFloat
	TypeString
	TypeArray
	TypeObject
	TypeRef
)

var typeNames = [...]string{"null", "bool", "int", "float", "string", "array", "object", "reference"}

func (t ValueType) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "unknown"
	}
	return typeNames[t]
}

// Value is the Go representation of a runtime value.
//
// Scalars are held inline. Arrays have value semantics: they are copied
// when stored into object state. Objects are shared handles. A TypeRef
// value points at a live member slot and is produced by lvalue access
// and by-reference iteration.
type Value struct {
	Type     ValueType
	IntVal   int64
	FloatVal float64
	StrVal   string
	ArrVal   *Array
	ObjVal   *Object
	RefVal   *Value
}

// Null returns the null value
func Null() Value {
	return Value{Type: TypeNull}
}

// Bool creates a boolean value
func Bool(b bool) Value {
	if b {
		return Value{Type: TypeBool, IntVal: 1}
	}
	return Value{Type: TypeBool}
}

// True and False are the boolean sentinels. False doubles as the soft
// failure result of method invocation.
func True() Value  { return Bool(true) }
func False() Value { return Bool(false) }

// Int creates an integer value
func Int(n int64) Value {
	return Value{Type: TypeInt, IntVal: n}
}

// Float creates a float value
func Float(f float64) Value {
	return Value{Type: TypeFloat, FloatVal: f}
}

// String creates a string value
func String(s string) Value {
	return Value{Type: TypeString, StrVal: s}
}

// ArrayValue wraps an ordered map. A nil array becomes an empty one.
func ArrayValue(a *Array) Value {
	if a == nil {
		a = NewArray()
	}
	return Value{Type: TypeArray, ArrVal: a}
}

// ObjectValue wraps an object handle. A nil object becomes null.
func ObjectValue(o *Object) Value {
	if o == nil {
		return Null()
	}
	return Value{Type: TypeObject, ObjVal: o}
}

// RefTo creates a reference to a member slot
func RefTo(slot *Value) Value {
	return Value{Type: TypeRef, RefVal: slot}
}

// IsNull returns true if the value (after dereferencing) is null
func (v Value) IsNull() bool {
	return v.Deref().Type == TypeNull
}

// IsFalse reports whether v is exactly the boolean false sentinel.
func (v Value) IsFalse() bool {
	d := v.Deref()
	return d.Type == TypeBool && d.IntVal == 0
}

// Object returns the object handle held by v, or nil.
func (v Value) Object() *Object {
	d := v.Deref()
	if d.Type != TypeObject {
		return nil
	}
	return d.ObjVal
}

// Deref follows a reference to the current slot contents.
func (v Value) Deref() Value {
	for v.Type == TypeRef && v.RefVal != nil {
		v = *v.RefVal
	}
	return v
}

// Assign writes through a reference. It is a no-op for non-reference values.
func (v Value) Assign(x Value) {
	if v.Type == TypeRef && v.RefVal != nil {
		*v.RefVal = storable(x)
	}
}

// IsTruthy implements the language's boolean conversion
func (v Value) IsTruthy() bool {
	v = v.Deref()
	switch v.Type {
	case TypeNull:
		return false
	case TypeBool, TypeInt:
		return v.IntVal != 0
	case TypeFloat:
		return v.FloatVal != 0
	case TypeString:
		return v.StrVal != "" && v.StrVal != "0"
	case TypeArray:
		return v.ArrVal.Len() > 0
	default:
		return true
	}
}

// AsString converts the value to its string form. Objects convert through
// their __toString method.
func (v Value) AsString() string {
	v = v.Deref()
	switch v.Type {
	case TypeNull:
		return ""
	case TypeBool:
		if v.IntVal != 0 {
			return "1"
		}
		return ""
	case TypeInt:
		return strconv.FormatInt(v.IntVal, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.FloatVal, 'G', 14, 64)
	case TypeString:
		return v.StrVal
	case TypeArray:
		return "Array"
	case TypeObject:
		return v.ObjVal.ToString()
	default:
		return ""
	}
}

// AsInt converts the value to an integer
func (v Value) AsInt() int64 {
	v = v.Deref()
	switch v.Type {
	case TypeBool, TypeInt:
		return v.IntVal
	case TypeFloat:
		return int64(v.FloatVal)
	case TypeString:
		s := strings.TrimSpace(v.StrVal)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
		f, _ := strconv.ParseFloat(s, 64)
		return int64(f)
	case TypeArray:
		if v.ArrVal.Len() > 0 {
			return 1
		}
		return 0
	case TypeObject:
		return v.ObjVal.ToInt64()
	default:
		return 0
	}
}

// AsFloat converts the value to a float
func (v Value) AsFloat() float64 {
	v = v.Deref()
	switch v.Type {
	case TypeFloat:
		return v.FloatVal
	case TypeString:
		f, _ := strconv.ParseFloat(strings.TrimSpace(v.StrVal), 64)
		return f
	default:
		return float64(v.AsInt())
	}
}

// Identical reports strict equality: same type and same scalar value,
// same object handle, or element-wise identical arrays.
func Identical(a, b Value) bool {
	a, b = a.Deref(), b.Deref()
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case TypeNull:
		return true
	case TypeBool, TypeInt:
		return a.IntVal == b.IntVal
	case TypeFloat:
		return a.FloatVal == b.FloatVal
	case TypeString:
		return a.StrVal == b.StrVal
	case TypeObject:
		return a.ObjVal == b.ObjVal
	case TypeArray:
		if a.ArrVal.Len() != b.ArrVal.Len() {
			return false
		}
		same := true
		a.ArrVal.Each(func(k Key, x Value) bool {
			y, ok := b.ArrVal.Get(k)
			if !ok || !Identical(x, y) {
				same = false
			}
			return same
		})
		return same
	}
	return false
}

// storable prepares a value for storage in object state: references are
// followed and arrays are copied.
func storable(v Value) Value {
	v = v.Deref()
	if v.Type == TypeArray {
		return ArrayValue(v.ArrVal.Copy())
	}
	return v
}
