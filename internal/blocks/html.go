package blocks

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrHTMLParse indicates the HTML tokenizer rejected the input.
var ErrHTMLParse = errors.New("failed to parse HTML")

var headingLevels = map[atom.Atom]int{
	atom.H1: 1,
	atom.H2: 2,
	atom.H3: 3,
	atom.H4: 4,
	atom.H5: 5,
	atom.H6: 6,
}

// SegmentHTML walks the document body in order and maps h1-h6, p, img and br
// elements to blocks. Headings and paragraphs consume their descendants.
// When no block is found, the visible text becomes a single paragraph.
func SegmentHTML(src string) ([]Block, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHTMLParse, err)
	}

	root := findElement(doc, atom.Body)
	if root == nil {
		root = doc
	}

	var out []Block
	walkHTML(root, &out)

	if len(out) == 0 {
		if text := strings.TrimSpace(singleLine(textContent(root))); text != "" {
			out = append(out, NewParagraph(text))
		}
	}
	return out, nil
}

func walkHTML(n *html.Node, out *[]Block) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if level, ok := headingLevels[c.DataAtom]; ok {
			*out = append(*out, NewHeading(level, singleLine(textContent(c))))
			continue
		}
		switch c.DataAtom {
		case atom.P:
			*out = append(*out, NewParagraph(singleLine(textContent(c))))
			continue
		case atom.Img:
			if src := attr(c, "src"); src != "" {
				*out = append(*out, NewImage(src))
			}
			continue
		case atom.Br:
			*out = append(*out, NewLineBreak())
			continue
		case atom.Script, atom.Style, atom.Template:
			continue
		}
		walkHTML(c, out)
	}
}

// findElement returns the first element with the given atom in document order.
func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// textContent concatenates descendant text nodes, skipping script and style.
// A br element contributes a newline.
func textContent(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Template:
				return
			case atom.Br:
				b.WriteByte('\n')
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

// singleLine replaces line breaks with spaces so a block inserts exactly one
// paragraph.
func singleLine(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return ' '
		}
		return r
	}, s)
}
