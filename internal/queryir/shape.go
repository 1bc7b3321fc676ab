package queryir

import (
	"fmt"
	"strings"
)

// NodeName returns the bare type name of a node, e.g. "Where".
func NodeName(node any) string {
	name := fmt.Sprintf("%T", node)
	name = strings.TrimPrefix(name, "*")
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// Shape renders the node structure of a query, e.g.
// "Select(Where(From(customers)))". Functions are not evaluated.
func Shape(q Query) string {
	var b strings.Builder
	writeShape(&b, q)
	return b.String()
}

func writeShape(b *strings.Builder, q Query) {
	switch n := q.(type) {
	case nil:
		b.WriteString("<nil>")
	case *From:
		fmt.Fprintf(b, "From(%s)", tableName(n.Table))
	case *FromSubquery:
		b.WriteString("FromSubquery(")
		writeShape(b, n.Query)
		b.WriteString(")")
	case *Select:
		if n.Identity {
			b.WriteString("Select*(")
		} else {
			b.WriteString("Select(")
		}
		writeShape(b, n.Source)
		b.WriteString(")")
	case *Where:
		b.WriteString("Where(")
		writeShape(b, n.Source)
		b.WriteString(")")
	case *OrderBy:
		b.WriteString("OrderBy(")
		writeShape(b, n.Source)
		fmt.Fprintf(b, ", %d)", len(n.Keys))
	case *GroupBy:
		b.WriteString("GroupBy(")
		writeShape(b, n.Source)
		if n.Having != nil {
			b.WriteString(", having")
		}
		b.WriteString(")")
	case *Having:
		b.WriteString("Having(")
		writeShape(b, n.Source)
		b.WriteString(")")
	case *Join:
		b.WriteString("Join(")
		writeShape(b, n.Outer)
		for _, leg := range n.Legs {
			fmt.Fprintf(b, ", %s", tableName(leg.Table))
		}
		b.WriteString(")")
	case *Scalar:
		fmt.Fprintf(b, "Scalar[%s](", n.Func)
		writeShape(b, n.Source)
		b.WriteString(")")
	default:
		b.WriteString(NodeName(q))
	}
}

func tableName(t *Table) string {
	if t == nil {
		return "<nil>"
	}
	return t.Name()
}
