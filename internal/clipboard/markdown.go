package clipboard

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"

	"github.com/crazyrex/sanity/internal/block"
	"github.com/crazyrex/sanity/internal/pipeline"
)

// TransferMarkdown tags a markdown payload.
const TransferMarkdown = "text/markdown"

// Markdown converts pasted markdown into blocks. Headings, paragraphs,
// quotes, lists, code blocks, decorators, and links map onto the block
// model; everything else degrades to its plain text.
type Markdown struct{}

// Convert implements Converter. A plain text payload is only treated as
// markdown when tagged text/markdown; untagged text falls through to
// the plain text converter.
func (Markdown) Convert(t pipeline.Transfer) ([]block.Block, bool, error) {
	src, ok := t.Data[TransferMarkdown]
	if !ok || src == "" {
		return nil, false, nil
	}
	blocks := FromMarkdown([]byte(src))
	if len(blocks) == 0 {
		return nil, false, nil
	}
	return blocks, true, nil
}

// FromMarkdown parses markdown source into a block sequence.
func FromMarkdown(src []byte) []block.Block {
	root := goldmark.New().Parser().Parse(gtext.NewReader(src))
	c := &mdBuilder{src: src}
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		c.topLevel(n)
	}
	return c.blocks
}

// mdBuilder accumulates blocks while walking the markdown AST.
type mdBuilder struct {
	src    []byte
	blocks []block.Block
}

func (c *mdBuilder) topLevel(n ast.Node) {
	switch v := n.(type) {
	case *ast.Heading:
		level := v.Level
		if level > 6 {
			level = 6
		}
		c.emit(fmt.Sprintf("h%d", level), "", 0, v)
	case *ast.Paragraph, *ast.TextBlock:
		c.emit("normal", "", 0, n)
	case *ast.Blockquote:
		for child := v.FirstChild(); child != nil; child = child.NextSibling() {
			c.emit("blockquote", "", 0, child)
		}
	case *ast.List:
		c.list(v, 1)
	case *ast.FencedCodeBlock:
		c.code(v.Lines())
	case *ast.CodeBlock:
		c.code(v.Lines())
	case *ast.ThematicBreak:
		// No block equivalent.
	default:
		c.emit("normal", "", 0, n)
	}
}

func (c *mdBuilder) list(l *ast.List, level int) {
	kind := "bullet"
	if l.IsOrdered() {
		kind = "number"
	}
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		for part := item.FirstChild(); part != nil; part = part.NextSibling() {
			if nested, ok := part.(*ast.List); ok {
				c.list(nested, level+1)
				continue
			}
			c.emit("normal", kind, level, part)
		}
	}
}

func (c *mdBuilder) code(lines *gtext.Segments) {
	var sb strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(c.src))
	}
	text := trimTrailingNewlines(sb.String())
	c.blocks = append(c.blocks, block.Block{
		Key:   block.NewKey(),
		Type:  block.TypeBlock,
		Style: "normal",
		Children: []block.Child{
			{Key: block.NewKey(), Type: block.TypeSpan, Text: text, Marks: []string{"code"}},
		},
	})
}

// emit builds one block from the inline content of n.
func (c *mdBuilder) emit(style, listItem string, level int, n ast.Node) {
	b := block.Block{
		Key:      block.NewKey(),
		Type:     block.TypeBlock,
		Style:    style,
		ListItem: listItem,
		Level:    level,
	}
	c.inlines(n, nil, &b)
	if len(b.Children) == 0 {
		b.Children = []block.Child{{Key: block.NewKey(), Type: block.TypeSpan}}
	}
	c.blocks = append(c.blocks, b)
}

// inlines walks inline children of n, carrying the active mark set.
func (c *mdBuilder) inlines(n ast.Node, marks []string, b *block.Block) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch v := child.(type) {
		case *ast.Text:
			text := string(v.Segment.Value(c.src))
			if v.SoftLineBreak() {
				text += " "
			} else if v.HardLineBreak() {
				text += "\n"
			}
			c.span(b, text, marks)
		case *ast.String:
			c.span(b, string(v.Value), marks)
		case *ast.Emphasis:
			mark := "em"
			if v.Level >= 2 {
				mark = "strong"
			}
			c.inlines(v, appendMark(marks, mark), b)
		case *ast.CodeSpan:
			c.inlines(v, appendMark(marks, "code"), b)
		case *ast.Link:
			def := block.MarkDef{
				Key:   block.NewKey(),
				Type:  "link",
				Attrs: map[string]any{"href": string(v.Destination)},
			}
			b.MarkDefs = append(b.MarkDefs, def)
			c.inlines(v, appendMark(marks, def.Key), b)
		case *ast.AutoLink:
			url := string(v.URL(c.src))
			def := block.MarkDef{
				Key:   block.NewKey(),
				Type:  "link",
				Attrs: map[string]any{"href": url},
			}
			b.MarkDefs = append(b.MarkDefs, def)
			c.span(b, url, appendMark(marks, def.Key))
		case *ast.Image:
			// Alt text only; image objects are a schema concern.
			c.inlines(v, marks, b)
		default:
			c.inlines(child, marks, b)
		}
	}
}

// span appends a span, merging into the previous one when the mark sets
// match.
func (c *mdBuilder) span(b *block.Block, text string, marks []string) {
	if text == "" {
		return
	}
	if n := len(b.Children); n > 0 {
		last := &b.Children[n-1]
		if last.IsSpan() && sameMarks(last.Marks, marks) {
			last.Text += text
			return
		}
	}
	b.Children = append(b.Children, block.Child{
		Key:   block.NewKey(),
		Type:  block.TypeSpan,
		Text:  text,
		Marks: append([]string(nil), marks...),
	})
}

func appendMark(marks []string, mark string) []string {
	out := make([]string, 0, len(marks)+1)
	out = append(out, marks...)
	return append(out, mark)
}

func sameMarks(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
