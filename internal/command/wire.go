package command

import (
	"encoding/json"
	"fmt"
	"strings"
)

type wireLocation struct {
	Index     int    `json:"index"`
	SegmentID string `json:"segmentId,omitempty"`
}

type wireRange struct {
	StartIndex int    `json:"startIndex"`
	EndIndex   int    `json:"endIndex"`
	SegmentID  string `json:"segmentId,omitempty"`
}

type wireDimension struct {
	Magnitude float64 `json:"magnitude"`
	Unit      string  `json:"unit"`
}

type wireTextStyle struct {
	Bold     bool           `json:"bold,omitempty"`
	Italic   bool           `json:"italic,omitempty"`
	FontSize *wireDimension `json:"fontSize,omitempty"`
}

type wireInsertText struct {
	Location wireLocation `json:"location"`
	Text     string       `json:"text"`
}

type wireParagraphStyle struct {
	Range          wireRange         `json:"range"`
	ParagraphStyle map[string]string `json:"paragraphStyle"`
	Fields         string            `json:"fields"`
}

type wireUpdateTextStyle struct {
	Range     wireRange     `json:"range"`
	TextStyle wireTextStyle `json:"textStyle"`
	Fields    string        `json:"fields"`
}

type wireInsertImage struct {
	Location wireLocation `json:"location"`
	URI      string       `json:"uri"`
}

type wireCreateHeader struct {
	Type string `json:"type"`
}

// MarshalJSON encodes the command as a single document service request.
func (c Command) MarshalJSON() ([]byte, error) {
	var body any
	switch c.Kind {
	case InsertText:
		body = wireInsertText{
			Location: wireLocation{Index: c.At, SegmentID: c.SegmentID},
			Text:     c.Text,
		}
	case SetParagraphStyle:
		body = wireParagraphStyle{
			Range:          c.wireRange(),
			ParagraphStyle: map[string]string{"namedStyleType": c.Paragraph.NamedStyle},
			Fields:         "namedStyleType",
		}
	case SetTextStyle:
		style, fields := c.Style.wire()
		body = wireUpdateTextStyle{
			Range:     c.wireRange(),
			TextStyle: style,
			Fields:    fields,
		}
	case InsertInlineImage:
		body = wireInsertImage{
			Location: wireLocation{Index: c.At, SegmentID: c.SegmentID},
			URI:      c.URI,
		}
	case CreateHeaderSegment:
		body = wireCreateHeader{Type: "DEFAULT"}
	default:
		return nil, fmt.Errorf("cannot encode command of kind %s", c.Kind)
	}
	return json.Marshal(map[string]any{c.Kind.String(): body})
}

func (c Command) wireRange() wireRange {
	return wireRange{StartIndex: c.Range.Start, EndIndex: c.Range.End, SegmentID: c.SegmentID}
}

// wire returns the encoded style and its field mask.
func (s TextStyle) wire() (wireTextStyle, string) {
	var (
		out    wireTextStyle
		fields []string
	)
	if s.Bold {
		out.Bold = true
		fields = append(fields, "bold")
	}
	if s.Italic {
		out.Italic = true
		fields = append(fields, "italic")
	}
	if s.FontSizePt > 0 {
		out.FontSize = &wireDimension{Magnitude: s.FontSizePt, Unit: "PT"}
		fields = append(fields, "fontSize")
	}
	return out, strings.Join(fields, ",")
}
