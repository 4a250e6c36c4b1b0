// Package command models the positional edit commands submitted to the
// document service and their wire encoding.
//
// Indices are measured in UTF-16 code units, the unit the service uses to
// address text. A command batch is only valid if every index it references is
// reachable given the inserts that precede it in the same batch; Check verifies
// that property without materializing the document.
package command

import (
	"errors"
	"fmt"
	"unicode/utf16"
)

// ErrOutOfRange indicates a command referencing an index past the cursor.
var ErrOutOfRange = errors.New("command references index outside the written range")

// Kind identifies the command variant.
type Kind int

// Command kinds.
const (
	InsertText Kind = iota + 1
	SetParagraphStyle
	SetTextStyle
	InsertInlineImage
	CreateHeaderSegment
)

func (k Kind) String() string {
	switch k {
	case InsertText:
		return "insertText"
	case SetParagraphStyle:
		return "updateParagraphStyle"
	case SetTextStyle:
		return "updateTextStyle"
	case InsertInlineImage:
		return "insertInlineImage"
	case CreateHeaderSegment:
		return "createHeader"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Segment identifies an independently indexed region of the document.
type Segment int

// Document segments.
const (
	Body Segment = iota
	Header
)

// Origin returns the first writable index of the segment.
// The body starts at 1 because index 0 holds the implicit section break.
func (s Segment) Origin() int {
	if s == Header {
		return 0
	}
	return 1
}

func (s Segment) String() string {
	if s == Header {
		return "header"
	}
	return "body"
}

// Range is a half-open [Start, End) index range.
type Range struct {
	Start int
	End   int
}

// Len returns the number of units covered by the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// ParagraphStyle carries a named paragraph style such as "HEADING_2".
type ParagraphStyle struct {
	NamedStyle string
}

// HeadingStyle returns the named style for a heading level, clamped to 1..6.
func HeadingStyle(level int) ParagraphStyle {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return ParagraphStyle{NamedStyle: fmt.Sprintf("HEADING_%d", level)}
}

// TextStyle carries character-level formatting. Zero fields are not applied.
type TextStyle struct {
	Bold       bool
	Italic     bool
	FontSizePt float64
}

// Command is one positional edit. Only the fields relevant to Kind are set.
type Command struct {
	Kind      Kind
	At        int    // insertion index (InsertText, InsertInlineImage)
	Text      string // InsertText
	URI       string // InsertInlineImage
	Range     Range  // SetParagraphStyle, SetTextStyle
	Paragraph ParagraphStyle
	Style     TextStyle
	SegmentID string // empty for the body
}

// Insert returns an InsertText command.
func Insert(at int, text string) Command {
	return Command{Kind: InsertText, At: at, Text: text}
}

// StyleParagraph returns a SetParagraphStyle command.
func StyleParagraph(r Range, style ParagraphStyle) Command {
	return Command{Kind: SetParagraphStyle, Range: r, Paragraph: style}
}

// StyleText returns a SetTextStyle command.
func StyleText(r Range, style TextStyle) Command {
	return Command{Kind: SetTextStyle, Range: r, Style: style}
}

// InsertImage returns an InsertInlineImage command.
func InsertImage(at int, uri string) Command {
	return Command{Kind: InsertInlineImage, At: at, URI: uri}
}

// CreateHeader returns a CreateHeaderSegment command.
func CreateHeader() Command {
	return Command{Kind: CreateHeaderSegment}
}

// Advance returns how far the command moves the insertion cursor.
func (c Command) Advance() int {
	switch c.Kind {
	case InsertText:
		return Len(c.Text)
	case InsertInlineImage:
		return 1
	}
	return 0
}

// Len returns the length of s in UTF-16 code units.
func Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// Check replays cmds from origin and reports the first command whose index
// falls outside the range written so far. Inserts must land exactly at the
// cursor; style ranges must be non-empty and lie within [origin, cursor].
func Check(origin int, cmds []Command) error {
	cursor := origin
	for i, c := range cmds {
		switch c.Kind {
		case InsertText, InsertInlineImage:
			if c.At != cursor {
				return fmt.Errorf("%w: command %d (%s) inserts at %d, cursor is %d", ErrOutOfRange, i, c.Kind, c.At, cursor)
			}
			cursor += c.Advance()
		case SetParagraphStyle, SetTextStyle:
			if c.Range.Start < origin || c.Range.End > cursor || c.Range.Len() <= 0 {
				return fmt.Errorf("%w: command %d (%s) range [%d,%d), written [%d,%d)", ErrOutOfRange, i, c.Kind, c.Range.Start, c.Range.End, origin, cursor)
			}
		}
	}
	return nil
}
