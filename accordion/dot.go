package accordion

import (
	"bytes"
	"fmt"
)

// DOT renders the cell dependency graph in Graphviz DOT format.
// Content cells are boxes, offset cells are ellipses labelled with their
// current values.
func (c *Calculator) DOT() string {
	var buf bytes.Buffer
	buf.WriteString("digraph cells {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [fontsize=12];\n\n")

	for i, s := range c.sections {
		fmt.Fprintf(&buf, "  %q [shape=box, label=%q];\n",
			contentID(i), fmt.Sprintf("content[%d] %s\n%.1f", i, s.Title, c.ContentHeight(i)))
		fmt.Fprintf(&buf, "  %q [shape=ellipse, label=%q];\n",
			offsetID(i), fmt.Sprintf("offset[%d]\n%.1f", i, c.Offset(i)))
	}

	buf.WriteString("\n")
	for i := 1; i < len(c.sections); i++ {
		fmt.Fprintf(&buf, "  %q -> %q;\n", offsetID(i-1), offsetID(i))
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n",
			contentID(i-1), offsetID(i), fmt.Sprintf("+%.0f", c.sections[i-1].HeaderHeight+c.margin))
	}
	buf.WriteString("}\n")
	return buf.String()
}

func contentID(i int) string { return fmt.Sprintf("content%d", i) }

func offsetID(i int) string { return fmt.Sprintf("offset%d", i) }
