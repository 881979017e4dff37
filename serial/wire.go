// Package serial encodes object graphs as CBOR documents. Shared and
// cyclic references are kept as back references, and classes defining
// __sleep and __wakeup take part in the encoding the way the runtime's
// serialize()/unserialize() do.
package serial

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Version is the document format version written by Marshal.
const Version = 1

// NodeKind identifies the type of an encoded value.
type NodeKind uint8

const (
	NodeNull   NodeKind = 0
	NodeBool   NodeKind = 1
	NodeInt    NodeKind = 2
	NodeFloat  NodeKind = 3
	NodeString NodeKind = 4
	NodeArray  NodeKind = 5
	NodeObject NodeKind = 6
)

// Document is the top-level encoded form: a table of objects and the
// root value. Objects refer to each other by 1-based table index.
type Document struct {
	Version uint8    `cbor:"1,keyasint"`
	Objects []Record `cbor:"2,keyasint,omitempty"`
	Root    Node     `cbor:"3,keyasint"`
}

// Record is one object: its class and its members in order.
type Record struct {
	Class   string   `cbor:"1,keyasint"`
	Members []Member `cbor:"2,keyasint,omitempty"`
}

// Member is a named member value.
type Member struct {
	Name  string `cbor:"1,keyasint"`
	Value Node   `cbor:"2,keyasint"`
}

// Node is an encoded value.
type Node struct {
	Kind    NodeKind `cbor:"1,keyasint"`
	Int     int64    `cbor:"2,keyasint,omitempty"`
	Float   float64  `cbor:"3,keyasint,omitempty"`
	Str     string   `cbor:"4,keyasint,omitempty"`
	Entries []Entry  `cbor:"5,keyasint,omitempty"`
	Ref     int      `cbor:"6,keyasint,omitempty"` // object index, 1-based
}

// Entry is one array element.
type Entry struct {
	IntKey bool   `cbor:"1,keyasint,omitempty"`
	Int    int64  `cbor:"2,keyasint,omitempty"`
	Str    string `cbor:"3,keyasint,omitempty"`
	Value  Node   `cbor:"4,keyasint"`
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("serial: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalDocument serializes a Document to CBOR bytes.
func MarshalDocument(d *Document) ([]byte, error) {
	return cborEncMode.Marshal(d)
}

// UnmarshalDocument deserializes a Document and checks its references.
func UnmarshalDocument(data []byte) (*Document, error) {
	var d Document
	if err := cbor.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("serial: unmarshal document: %w", err)
	}
	if d.Version != Version {
		return nil, fmt.Errorf("serial: unsupported document version %d", d.Version)
	}
	if err := d.check(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (d *Document) check() error {
	var walk func(n Node) error
	walk = func(n Node) error {
		switch n.Kind {
		case NodeNull, NodeBool, NodeInt, NodeFloat, NodeString:
		case NodeObject:
			if n.Ref < 1 || n.Ref > len(d.Objects) {
				return fmt.Errorf("serial: object reference %d out of range", n.Ref)
			}
		case NodeArray:
			for _, e := range n.Entries {
				if err := walk(e.Value); err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("serial: unknown node kind %d", n.Kind)
		}
		return nil
	}
	for _, r := range d.Objects {
		for _, m := range r.Members {
			if err := walk(m.Value); err != nil {
				return err
			}
		}
	}
	return walk(d.Root)
}
