// Package span locates inline emphasis runs in a single line of text.
//
// Bold runs (**text** or __text__) are found first. Italic runs (*text* or
// _text_) are then found on the same line and discarded when they overlap a
// bold run. Delimiters are part of the reported range; the caller inserts the
// line verbatim and styles the delimited region.
package span

import (
	"regexp"

	"github.com/alnah/go-md2gdoc/internal/command"
)

// Kind is the emphasis applied to a span.
type Kind int

// Span kinds.
const (
	Bold Kind = iota + 1
	Italic
)

func (k Kind) String() string {
	switch k {
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	}
	return "unknown"
}

// Style returns the text style applied for the kind.
func (k Kind) Style() command.TextStyle {
	return command.TextStyle{Bold: k == Bold, Italic: k == Italic}
}

// Span is a half-open range of UTF-16 offsets into the scanned line.
type Span struct {
	Start int
	End   int
	Kind  Kind
}

var boldPattern = regexp.MustCompile(`\*\*(.+?)\*\*|__(.+?)__`)

// Scan returns the emphasis spans of line: bold spans left to right, then
// italic spans left to right. Spans never overlap.
func Scan(line string) []Span {
	var bold [][2]int
	for _, m := range boldPattern.FindAllStringIndex(line, -1) {
		bold = append(bold, [2]int{m[0], m[1]})
	}

	var italic [][2]int
	for _, m := range scanItalic(line) {
		if !overlapsAny(m, bold) {
			italic = append(italic, m)
		}
	}

	if len(bold) == 0 && len(italic) == 0 {
		return nil
	}

	spans := make([]Span, 0, len(bold)+len(italic))
	for _, m := range bold {
		spans = append(spans, Span{Start: units(line, m[0]), End: units(line, m[1]), Kind: Bold})
	}
	for _, m := range italic {
		spans = append(spans, Span{Start: units(line, m[0]), End: units(line, m[1]), Kind: Italic})
	}
	return spans
}

// scanItalic finds single-delimiter runs as byte ranges. A delimiter adjacent
// to the same character does not open or close a run, and the content holds
// at least one character and no delimiter of its own kind.
func scanItalic(line string) [][2]int {
	var out [][2]int
	for i := 0; i < len(line); {
		d := line[i]
		if (d != '*' && d != '_') || (i > 0 && line[i-1] == d) {
			i++
			continue
		}
		j := i + 1
		for j < len(line) && line[j] != d {
			j++
		}
		if j >= len(line) || j == i+1 || (j+1 < len(line) && line[j+1] == d) {
			i++
			continue
		}
		out = append(out, [2]int{i, j + 1})
		i = j + 1
	}
	return out
}

func overlapsAny(r [2]int, others [][2]int) bool {
	for _, o := range others {
		if r[0] < o[1] && r[1] > o[0] {
			return true
		}
	}
	return false
}

// units converts a byte index of line into a UTF-16 offset.
func units(line string, byteIdx int) int {
	return command.Len(line[:byteIdx])
}
