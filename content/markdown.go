package content

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var markdown = goldmark.New()

// Markdown renders src into lines at most width cells wide.
func Markdown(src []byte, width int) []string {
	if width <= 0 {
		return nil
	}
	doc := markdown.Parser().Parse(text.NewReader(src))
	var out []string
	renderBlocks(doc, src, width, &out, true)
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

func renderBlocks(parent ast.Node, src []byte, width int, out *[]string, spaced bool) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		before := len(*out)
		switch b := n.(type) {
		case *ast.Heading:
			title := inlineText(b, src)
			*out = append(*out, Wrap(title, width)...)
			if b.Level == 1 {
				*out = append(*out, strings.Repeat("─", min(width, runewidth.StringWidth(title))))
			}
		case *ast.Paragraph, *ast.TextBlock:
			*out = append(*out, Wrap(inlineText(b, src), width)...)
		case *ast.List:
			renderList(b, src, width, out)
		case *ast.FencedCodeBlock:
			renderCode(b.Lines(), src, width, out)
		case *ast.CodeBlock:
			renderCode(b.Lines(), src, width, out)
		case *ast.Blockquote:
			var inner []string
			renderBlocks(b, src, width-2, &inner, false)
			for _, line := range inner {
				*out = append(*out, "│ "+line)
			}
		case *ast.ThematicBreak:
			*out = append(*out, strings.Repeat("─", width))
		default:
			renderBlocks(n, src, width, out, spaced)
		}
		if spaced && len(*out) > before && n.NextSibling() != nil {
			*out = append(*out, "")
		}
	}
}

func renderList(list *ast.List, src []byte, width int, out *[]string) {
	number := list.Start
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "• "
		if list.IsOrdered() {
			marker = fmt.Sprintf("%d. ", number)
			number++
		}
		indent := runewidth.StringWidth(marker)
		var inner []string
		renderBlocks(item, src, width-indent, &inner, false)
		for i, line := range inner {
			if i == 0 {
				*out = append(*out, marker+line)
				continue
			}
			*out = append(*out, strings.Repeat(" ", indent)+line)
		}
	}
}

func renderCode(lines *text.Segments, src []byte, width int, out *[]string) {
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		line := strings.TrimRight(string(seg.Value(src)), "\r\n")
		*out = append(*out, runewidth.Truncate("  "+line, width, "…"))
	}
}

func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := node.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}
