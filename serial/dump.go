package serial

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dump renders an encoded document without decoding it into a Space,
// so no class definitions are needed:
//
//	#1 Node
//	  name: "a"
//	  peer: -> #2
//	root: -> #1
func Dump(w io.Writer, data []byte) error {
	doc, err := UnmarshalDocument(data)
	if err != nil {
		return err
	}
	var b strings.Builder
	for i, r := range doc.Objects {
		fmt.Fprintf(&b, "#%d %s\n", i+1, r.Class)
		for _, m := range r.Members {
			fmt.Fprintf(&b, "  %s: ", m.Name)
			writeNode(&b, m.Value, 1)
			b.WriteByte('\n')
		}
	}
	b.WriteString("root: ")
	writeNode(&b, doc.Root, 0)
	b.WriteByte('\n')
	_, err = io.WriteString(w, b.String())
	return err
}

func writeNode(b *strings.Builder, n Node, depth int) {
	switch n.Kind {
	case NodeNull:
		b.WriteString("null")
	case NodeBool:
		b.WriteString(strconv.FormatBool(n.Int != 0))
	case NodeInt:
		b.WriteString(strconv.FormatInt(n.Int, 10))
	case NodeFloat:
		b.WriteString(strconv.FormatFloat(n.Float, 'G', 14, 64))
	case NodeString:
		b.WriteString(strconv.Quote(n.Str))
	case NodeObject:
		fmt.Fprintf(b, "-> #%d", n.Ref)
	case NodeArray:
		if len(n.Entries) == 0 {
			b.WriteString("[]")
			return
		}
		b.WriteString("[\n")
		indent := strings.Repeat("  ", depth+1)
		for _, e := range n.Entries {
			b.WriteString(indent)
			if e.IntKey {
				b.WriteString(strconv.FormatInt(e.Int, 10))
			} else {
				b.WriteString(strconv.Quote(e.Str))
			}
			b.WriteString(" => ")
			writeNode(b, e.Value, depth+1)
			b.WriteByte('\n')
		}
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteByte(']')
	}
}
