package command

import "encoding/json"

// Batch is an ordered command list addressed to one segment.
type Batch struct {
	Segment  Segment
	Commands []Command
}

// Len returns the number of commands in the batch.
func (b Batch) Len() int {
	return len(b.Commands)
}

// Cursor returns the insertion index after every command has been applied.
func (b Batch) Cursor() int {
	cursor := b.Segment.Origin()
	for _, c := range b.Commands {
		cursor += c.Advance()
	}
	return cursor
}

// Text returns the concatenation of all inserted text, in order.
// Inline images are not represented.
func (b Batch) Text() string {
	var buf []byte
	for _, c := range b.Commands {
		if c.Kind == InsertText {
			buf = append(buf, c.Text...)
		}
	}
	return string(buf)
}

// Check verifies the batch against its segment origin.
func (b Batch) Check() error {
	return Check(b.Segment.Origin(), b.Commands)
}

// Split separates a leading CreateHeaderSegment command from the rest.
// The header segment ID is only known once the service has answered the
// create request, so the two parts are submitted separately.
func (b Batch) Split() (create []Command, rest []Command) {
	if len(b.Commands) > 0 && b.Commands[0].Kind == CreateHeaderSegment {
		return b.Commands[:1], b.Commands[1:]
	}
	return nil, b.Commands
}

// Bind returns a copy of cmds addressed to the segment with the given ID.
func Bind(cmds []Command, segmentID string) []Command {
	out := make([]Command, len(cmds))
	for i, c := range cmds {
		if c.Kind != CreateHeaderSegment {
			c.SegmentID = segmentID
		}
		out[i] = c
	}
	return out
}

// MarshalJSON encodes the batch as a batchUpdate request body.
func (b Batch) MarshalJSON() ([]byte, error) {
	cmds := b.Commands
	if cmds == nil {
		cmds = []Command{}
	}
	return json.Marshal(struct {
		Segment  string    `json:"segment"`
		Requests []Command `json:"requests"`
	}{
		Segment:  b.Segment.String(),
		Requests: cmds,
	})
}
