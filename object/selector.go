package object

import (
	"strings"
	"sync"
)

// MethodIndex is a dense method number shared by every class of one
// Registry. Callers compiled against a class cache it; NoIndex means
// only the name is known.
type MethodIndex int

// NoIndex marks a call that must be resolved by name.
const NoIndex MethodIndex = -1

// SelectorTable numbers the method names seen by a Registry. Method
// names are case-insensitive, so the table stores them folded. Indexes
// are never reused or removed, which keeps vtable slots stable across
// redeclaration.
type SelectorTable struct {
	mu    sync.Mutex
	index map[string]MethodIndex
	names []string
}

// NewSelectorTable creates a new empty selector table.
func NewSelectorTable() *SelectorTable {
	return &SelectorTable{index: make(map[string]MethodIndex)}
}

// Intern returns the index for name, assigning the next one on first use.
func (st *SelectorTable) Intern(name string) MethodIndex {
	folded := strings.ToLower(name)
	st.mu.Lock()
	defer st.mu.Unlock()
	if idx, ok := st.index[folded]; ok {
		return idx
	}
	idx := MethodIndex(len(st.names))
	st.index[folded] = idx
	st.names = append(st.names, folded)
	return idx
}

// Lookup is Intern without assignment: NoIndex for unknown names.
func (st *SelectorTable) Lookup(name string) MethodIndex {
	st.mu.Lock()
	defer st.mu.Unlock()
	if idx, ok := st.index[strings.ToLower(name)]; ok {
		return idx
	}
	return NoIndex
}

// Name maps an index back to its folded name; "" when out of range.
func (st *SelectorTable) Name(idx MethodIndex) string {
	st.mu.Lock()
	defer st.mu.Unlock()
	if idx < 0 || int(idx) >= len(st.names) {
		return ""
	}
	return st.names[idx]
}

// Len returns how many names have been numbered.
func (st *SelectorTable) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.names)
}
