// Package blocks segments source markup into an ordered list of blocks.
//
// Three dialects are supported: a line-based markdown subset (SegmentLines),
// a restricted HTML subset (SegmentHTML), and CommonMark parsed by Goldmark
// whose AST is walked directly (SegmentCommonMark). Malformed input never
// fails segmentation; it falls back to paragraph text.
package blocks

import "fmt"

// Kind identifies the block variant.
type Kind int

// Block kinds.
const (
	Heading Kind = iota + 1
	Paragraph
	Blank
	Image
	LineBreak
)

func (k Kind) String() string {
	switch k {
	case Heading:
		return "heading"
	case Paragraph:
		return "paragraph"
	case Blank:
		return "blank"
	case Image:
		return "image"
	case LineBreak:
		return "linebreak"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Block is one unit of source content. Level is set for headings, Text for
// headings and paragraphs, URL for images.
type Block struct {
	Kind  Kind
	Level int
	Text  string
	URL   string
}

// NewHeading returns a heading block.
func NewHeading(level int, text string) Block {
	return Block{Kind: Heading, Level: level, Text: text}
}

// NewParagraph returns a paragraph block.
func NewParagraph(text string) Block {
	return Block{Kind: Paragraph, Text: text}
}

// NewImage returns an image block.
func NewImage(url string) Block {
	return Block{Kind: Image, URL: url}
}

// NewBlank returns a blank block.
func NewBlank() Block {
	return Block{Kind: Blank}
}

// NewLineBreak returns a line break block.
func NewLineBreak() Block {
	return Block{Kind: LineBreak}
}
