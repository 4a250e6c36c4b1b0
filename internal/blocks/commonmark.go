package blocks

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// commonMark is safe for concurrent use: goldmark parsers hold no per-document
// state.
var commonMark = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM, // Tables, strikethrough, autolinks, task lists
	),
)

// SegmentCommonMark parses src as CommonMark with GFM extensions and flattens
// the tree into blocks. Emphasis is written back as ** and * delimiters so the
// span scanner styles it like the line dialect. Images become their own blocks
// at the point they occur, splitting the surrounding paragraph.
func SegmentCommonMark(src string) []Block {
	source := []byte(lineEndings.Replace(src))
	doc := commonMark.Parser().Parse(text.NewReader(source))

	w := &cmWalker{source: source}
	w.blocks(doc)
	return w.out
}

type cmWalker struct {
	source []byte
	buf    strings.Builder
	level  int // heading level of the block being written, 0 for paragraphs
	out    []Block
}

func (w *cmWalker) blocks(n ast.Node) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Heading:
			w.level = v.Level
			w.inline(v)
			w.flush()
			w.level = 0
		case *ast.Paragraph, *ast.TextBlock:
			w.inline(v)
			w.flush()
		case *ast.FencedCodeBlock:
			w.codeLines(v.Lines())
		case *ast.CodeBlock:
			w.codeLines(v.Lines())
		case *ast.HTMLBlock:
			w.htmlBlock(v)
		case *ast.ThematicBreak:
			w.out = append(w.out, NewBlank())
		case *east.TableHeader, *east.TableRow:
			w.tableRow(v)
		default:
			w.blocks(c)
		}
	}
}

func (w *cmWalker) inline(n ast.Node) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			w.buf.Write(v.Segment.Value(w.source))
			switch {
			case v.HardLineBreak():
				w.flush()
			case v.SoftLineBreak():
				w.buf.WriteByte(' ')
			}
		case *ast.String:
			w.buf.Write(v.Value)
		case *ast.Emphasis:
			delim := strings.Repeat("*", v.Level)
			w.buf.WriteString(delim)
			w.inline(v)
			w.buf.WriteString(delim)
		case *ast.Image:
			w.flush()
			w.out = append(w.out, NewImage(string(v.Destination)))
		case *ast.AutoLink:
			w.buf.Write(v.URL(w.source))
		case *ast.RawHTML:
			// inline tags carry no text of their own
		default:
			w.inline(c)
		}
	}
}

// flush emits the buffered inline text as a heading or paragraph.
func (w *cmWalker) flush() {
	s := strings.TrimSpace(w.buf.String())
	w.buf.Reset()
	if s == "" {
		return
	}
	if w.level > 0 {
		w.out = append(w.out, NewHeading(w.level, s))
		return
	}
	w.out = append(w.out, NewParagraph(s))
}

func (w *cmWalker) codeLines(lines *text.Segments) {
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		line := strings.TrimRight(string(seg.Value(w.source)), "\n")
		w.out = append(w.out, classifyCode(line))
	}
}

func classifyCode(line string) Block {
	if strings.TrimSpace(line) == "" {
		return NewBlank()
	}
	return NewParagraph(line)
}

func (w *cmWalker) htmlBlock(n *ast.HTMLBlock) {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(w.source))
	}
	if n.HasClosure() {
		b.Write(n.ClosureLine.Value(w.source))
	}
	found, err := SegmentHTML(b.String())
	if err != nil {
		return
	}
	w.out = append(w.out, found...)
}

func (w *cmWalker) tableRow(row ast.Node) {
	first := true
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		if !first {
			w.buf.WriteString(" | ")
		}
		first = false
		w.inline(cell)
	}
	w.flush()
}
