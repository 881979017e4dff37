package object

// VTable holds the index-addressed method table for a class.
//
// Methods are stored by MethodIndex. Inheritance is handled by walking
// the parent chain when a slot is empty locally.
type VTable struct {
	class   *Class
	parent  *VTable
	methods []*Method
}

// NewVTable creates a vtable for class chained to parent.
func NewVTable(class *Class, parent *VTable) *VTable {
	return &VTable{class: class, parent: parent}
}

// Lookup finds a method by index, walking the inheritance chain.
// Returns nil if no class in the chain defines it.
func (vt *VTable) Lookup(idx MethodIndex) *Method {
	for v := vt; v != nil; v = v.parent {
		if idx >= 0 && int(idx) < len(v.methods) {
			if m := v.methods[idx]; m != nil {
				return m
			}
		}
	}
	return nil
}

// set adds or replaces the method at idx, growing the table as needed.
func (vt *VTable) set(idx MethodIndex, m *Method) {
	if int(idx) >= len(vt.methods) {
		grown := make([]*Method, idx+1)
		copy(grown, vt.methods)
		vt.methods = grown
	}
	vt.methods[idx] = m
}

// Class returns the class this vtable belongs to.
func (vt *VTable) Class() *Class {
	return vt.class
}
