package object

import "strings"

// Visibility of a declared member
type Visibility uint8

const (
	Public Visibility = iota
	Protected
	Private
)

func (v Visibility) String() string {
	switch v {
	case Protected:
		return "protected"
	case Private:
		return "private"
	default:
		return "public"
	}
}

// Magic method names. Lookup is case-insensitive.
const (
	MagicGet       = "__get"
	MagicSet       = "__set"
	MagicIsset     = "__isset"
	MagicUnset     = "__unset"
	MagicCall      = "__call"
	MagicClone     = "__clone"
	MagicSleep     = "__sleep"
	MagicWakeup    = "__wakeup"
	MagicToString  = "__tostring"
	MagicDestruct  = "__destruct"
	MagicConstruct = "__construct"
)

// MethodFunc is an instance method body.
type MethodFunc func(this *Object, args []Value) Value

// StaticFunc is a static method body. sp is the calling context, which
// holds the static property values; cls is the class the call was made
// through.
type StaticFunc func(sp *Space, cls *Class, args []Value) Value

// Method is one declared method. Exactly one of Fn and Static is set.
type Method struct {
	Name   string
	Class  *Class
	Vis    Visibility
	Fn     MethodFunc
	Static StaticFunc
}

// IsStatic reports whether m is a static method
func (m *Method) IsStatic() bool { return m.Static != nil }

// PropDecl is a declared instance property.
type PropDecl struct {
	Name    string
	Vis     Visibility
	Default Value
	Class   *Class
}

// StaticDecl is a declared static property with its initializer.
type StaticDecl struct {
	Name  string
	Vis   Visibility
	Init  func(sp *Space) Value
	Class *Class
}

// ---------------------------------------------------------------------------
// Class
// ---------------------------------------------------------------------------

// Class is the runtime description of one source class: its declared
// members, its methods and its statics. Classes are built with NewClass
// and the Declare/Add methods, then registered with a Registry, after
// which they are shared by every Space using that registry.
type Class struct {
	Name       string
	Parent     *Class
	Interfaces []string

	// Init is the zero-argument initializer run by Space.Create, parent
	// classes first.
	Init func(*Object)

	props     []PropDecl // inherited first; index is the slot number
	propIndex map[string]int
	methods   map[string]*Method // local, keyed by lower-case name
	statics   map[string]*StaticDecl
	consts    map[string]Value

	registry *Registry
	vtable   *VTable
}

// NewClass creates a class. The parent's declared properties are
// inherited at their slot positions.
func NewClass(name string, parent *Class) *Class {
	c := &Class{
		Name:      name,
		Parent:    parent,
		propIndex: make(map[string]int),
		methods:   make(map[string]*Method),
		statics:   make(map[string]*StaticDecl),
		consts:    make(map[string]Value),
	}
	if parent != nil {
		c.props = append(c.props, parent.props...)
		for n, i := range parent.propIndex {
			c.propIndex[n] = i
		}
	}
	return c
}

// DeclareProp declares an instance property. Redeclaring an inherited
// property keeps its slot and takes the new visibility and default.
func (c *Class) DeclareProp(name string, vis Visibility, def Value) *Class {
	d := PropDecl{Name: name, Vis: vis, Default: storable(def), Class: c}
	if i, ok := c.propIndex[name]; ok {
		c.props[i] = d
		return c
	}
	c.propIndex[name] = len(c.props)
	c.props = append(c.props, d)
	return c
}

// AddMethod declares an instance method.
func (c *Class) AddMethod(name string, vis Visibility, fn MethodFunc) *Class {
	return c.addMethod(&Method{Name: name, Class: c, Vis: vis, Fn: fn})
}

// AddStaticMethod declares a static method.
func (c *Class) AddStaticMethod(name string, vis Visibility, fn StaticFunc) *Class {
	return c.addMethod(&Method{Name: name, Class: c, Vis: vis, Static: fn})
}

func (c *Class) addMethod(m *Method) *Class {
	c.methods[strings.ToLower(m.Name)] = m
	if c.vtable != nil {
		c.vtable.set(c.registry.selectors.Intern(m.Name), m)
	}
	return c
}

// DeclareStatic declares a static property. Each Space holds its own
// value; init runs in a Space the first time that Space touches the
// static. A nil init means null.
func (c *Class) DeclareStatic(name string, vis Visibility, init func(sp *Space) Value) *Class {
	c.statics[name] = &StaticDecl{Name: name, Vis: vis, Init: init, Class: c}
	return c
}

// DeclareConst declares a class constant.
func (c *Class) DeclareConst(name string, v Value) *Class {
	c.consts[name] = storable(v)
	return c
}

// Implements adds interface names checked by InstanceOf.
func (c *Class) Implements(names ...string) *Class {
	c.Interfaces = append(c.Interfaces, names...)
	return c
}

// Props returns the declared instance properties in slot order.
func (c *Class) Props() []PropDecl {
	out := make([]PropDecl, len(c.props))
	copy(out, c.props)
	return out
}

// prop returns the declaration for name and its slot index.
func (c *Class) prop(name string) (*PropDecl, int) {
	if i, ok := c.propIndex[name]; ok {
		return &c.props[i], i
	}
	return nil, -1
}

// FindMethod looks a method up by name, walking the parent chain.
func (c *Class) FindMethod(name string) *Method {
	key := strings.ToLower(name)
	for cur := c; cur != nil; cur = cur.Parent {
		if m, ok := cur.methods[key]; ok {
			return m
		}
	}
	return nil
}

// HasMethod reports whether the class or an ancestor defines name.
func (c *Class) HasMethod(name string) bool {
	return c.FindMethod(name) != nil
}

// MethodIndex returns the dense index callers may cache for name, or
// NoIndex when the class is not registered or nothing defines name.
func (c *Class) MethodIndex(name string) MethodIndex {
	if c.registry == nil || c.FindMethod(name) == nil {
		return NoIndex
	}
	return c.registry.selectors.Lookup(name)
}

// resolveMethod is the dual-mode lookup: the index path when it names
// the expected method, the name path otherwise.
func (c *Class) resolveMethod(idx MethodIndex, name string) *Method {
	if idx != NoIndex && c.vtable != nil {
		if m := c.vtable.Lookup(idx); m != nil && (name == "" || strings.EqualFold(m.Name, name)) {
			return m
		}
	}
	if name == "" {
		return nil
	}
	return c.FindMethod(name)
}

// IsSubclassOf returns true if c is other or derives from it.
func (c *Class) IsSubclassOf(other *Class) bool {
	for cur := c; cur != nil; cur = cur.Parent {
		if cur == other {
			return true
		}
	}
	return false
}

// Ancestor returns the class named name in c's chain, or nil.
func (c *Class) Ancestor(name string) *Class {
	for cur := c; cur != nil; cur = cur.Parent {
		if strings.EqualFold(cur.Name, name) {
			return cur
		}
	}
	return nil
}

// InstanceOf reports whether c is, extends or implements name.
func (c *Class) InstanceOf(name string) bool {
	for cur := c; cur != nil; cur = cur.Parent {
		if strings.EqualFold(cur.Name, name) {
			return true
		}
		for _, iface := range cur.Interfaces {
			if strings.EqualFold(iface, name) {
				return true
			}
		}
	}
	return false
}

func (c *Class) chain() []*Class {
	var out []*Class
	for cur := c; cur != nil; cur = cur.Parent {
		out = append([]*Class{cur}, out...)
	}
	return out
}

// ---------------------------------------------------------------------------
// Visibility scopes
// ---------------------------------------------------------------------------

type scopeKind uint8

const (
	scopeExternal scopeKind = iota
	scopeUnrestricted
	scopeClass
)

// Scope is the visibility context of a member access.
type Scope struct {
	kind scopeKind
	cls  *Class
}

var (
	// Unrestricted sees every member. Compiled code accessing its own
	// object uses it.
	Unrestricted = Scope{kind: scopeUnrestricted}
	// External sees public members only.
	External = Scope{kind: scopeExternal}
)

// ScopeOf is the context of code running inside cls.
func ScopeOf(cls *Class) Scope {
	if cls == nil {
		return External
	}
	return Scope{kind: scopeClass, cls: cls}
}

// Sees reports whether a member declared in declaring with vis is
// visible from s.
func (s Scope) Sees(vis Visibility, declaring *Class) bool {
	switch {
	case vis == Public, s.kind == scopeUnrestricted:
		return true
	case s.kind == scopeExternal:
		return false
	case vis == Private:
		return s.cls == declaring
	default:
		return s.cls.IsSubclassOf(declaring) || declaring.IsSubclassOf(s.cls)
	}
}

func (s Scope) String() string {
	switch s.kind {
	case scopeUnrestricted:
		return "unrestricted"
	case scopeClass:
		return "class " + s.cls.Name
	default:
		return "external"
	}
}
