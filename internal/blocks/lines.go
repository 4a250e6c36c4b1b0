package blocks

import (
	"regexp"
	"strings"
)

var headingPattern = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// SegmentLines classifies each line of text as a heading, a blank or a
// paragraph. A final newline terminates the last line rather than opening an
// empty one.
func SegmentLines(text string) []Block {
	if text == "" {
		return nil
	}
	text = lineEndings.Replace(text)
	text = strings.TrimSuffix(text, "\n")

	lines := strings.Split(text, "\n")
	out := make([]Block, 0, len(lines))
	for _, line := range lines {
		out = append(out, classifyLine(line))
	}
	return out
}

func classifyLine(line string) Block {
	if strings.TrimSpace(line) == "" {
		return NewBlank()
	}
	if m := headingPattern.FindStringSubmatch(line); m != nil {
		return NewHeading(len(m[1]), m[2])
	}
	return NewParagraph(line)
}
