package command

// Notes:
// - Wire encoding is asserted against literal JSON for each kind; decoding is
//   never needed by the service client so there is no round-trip test
// - Len is checked on astral-plane characters because they are the only case
//   where UTF-16 units differ from rune counts

import (
	"encoding/json"
	"errors"
	"testing"
)

// ---------------------------------------------------------------------------
// TestLen - UTF-16 length
// ---------------------------------------------------------------------------

func TestLen(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want int
	}{
		{name: "empty", in: "", want: 0},
		{name: "ascii", in: "Hello\n", want: 6},
		{name: "latin accents count once", in: "café", want: 4},
		{name: "emoji counts as surrogate pair", in: "a😀b", want: 4},
		{name: "CJK in BMP", in: "日本", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Len(tt.in); got != tt.want {
				t.Errorf("Len(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestCheck - Offset validity replay
// ---------------------------------------------------------------------------

func TestCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		origin  int
		cmds    []Command
		wantErr bool
	}{
		{
			name:   "empty batch",
			origin: 1,
		},
		{
			name:   "heading with style inside insert",
			origin: 1,
			cmds: []Command{
				Insert(1, "Title\n"),
				StyleParagraph(Range{1, 6}, HeadingStyle(1)),
			},
		},
		{
			name:   "image advances cursor by one",
			origin: 1,
			cmds: []Command{
				InsertImage(1, "https://example.com/a.png"),
				Insert(2, "\n"),
			},
		},
		{
			name:    "insert not at cursor",
			origin:  1,
			cmds:    []Command{Insert(2, "x")},
			wantErr: true,
		},
		{
			name:   "style past cursor",
			origin: 1,
			cmds: []Command{
				Insert(1, "ab\n"),
				StyleText(Range{1, 5}, TextStyle{Bold: true}),
			},
			wantErr: true,
		},
		{
			name:   "style before origin",
			origin: 1,
			cmds: []Command{
				Insert(1, "ab\n"),
				StyleText(Range{0, 2}, TextStyle{Bold: true}),
			},
			wantErr: true,
		},
		{
			name:   "empty style range",
			origin: 0,
			cmds: []Command{
				Insert(0, "ab"),
				StyleText(Range{1, 1}, TextStyle{Italic: true}),
			},
			wantErr: true,
		},
		{
			name:   "create header is ignored",
			origin: 0,
			cmds:   []Command{CreateHeader(), Insert(0, "x")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Check(tt.origin, tt.cmds)
			if tt.wantErr {
				if !errors.Is(err, ErrOutOfRange) {
					t.Fatalf("Check() error = %v, want ErrOutOfRange", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Check() unexpected error: %v", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestBatch - Cursor, text and header split
// ---------------------------------------------------------------------------

func TestBatch_CursorAndText(t *testing.T) {
	t.Parallel()

	b := Batch{Segment: Body, Commands: []Command{
		Insert(1, "Title\n"),
		StyleParagraph(Range{1, 6}, HeadingStyle(1)),
		InsertImage(7, "https://example.com/x.png"),
		Insert(8, "\n"),
	}}

	if got := b.Cursor(); got != 9 {
		t.Errorf("Cursor() = %d, want 9", got)
	}
	if got := b.Text(); got != "Title\n\n" {
		t.Errorf("Text() = %q, want %q", got, "Title\n\n")
	}
	if err := b.Check(); err != nil {
		t.Errorf("Check() = %v", err)
	}
}

func TestBatch_SplitAndBind(t *testing.T) {
	t.Parallel()

	b := Batch{Segment: Header, Commands: []Command{
		CreateHeader(),
		Insert(0, "Report"),
		StyleText(Range{0, 6}, TextStyle{FontSizePt: 10}),
	}}

	create, rest := b.Split()
	if len(create) != 1 || create[0].Kind != CreateHeaderSegment {
		t.Fatalf("Split() create = %+v", create)
	}
	if len(rest) != 2 {
		t.Fatalf("Split() rest has %d commands, want 2", len(rest))
	}

	bound := Bind(rest, "kix.hdr1")
	for i, c := range bound {
		if c.SegmentID != "kix.hdr1" {
			t.Errorf("bound[%d].SegmentID = %q", i, c.SegmentID)
		}
	}
	if rest[0].SegmentID != "" {
		t.Error("Bind mutated its input")
	}

	_, bodyRest := Batch{Segment: Body, Commands: []Command{Insert(1, "x")}}.Split()
	if len(bodyRest) != 1 {
		t.Errorf("Split() on body batch should keep all commands")
	}
}

// ---------------------------------------------------------------------------
// TestMarshalJSON - Wire encoding
// ---------------------------------------------------------------------------

func TestCommand_MarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cmd  Command
		want string
	}{
		{
			name: "insert text",
			cmd:  Insert(8, "Hello\n"),
			want: `{"insertText":{"location":{"index":8},"text":"Hello\n"}}`,
		},
		{
			name: "insert text in header segment",
			cmd:  Bind([]Command{Insert(0, "x")}, "h.1")[0],
			want: `{"insertText":{"location":{"index":0,"segmentId":"h.1"},"text":"x"}}`,
		},
		{
			name: "heading style",
			cmd:  StyleParagraph(Range{1, 6}, HeadingStyle(2)),
			want: `{"updateParagraphStyle":{"range":{"startIndex":1,"endIndex":6},"paragraphStyle":{"namedStyleType":"HEADING_2"},"fields":"namedStyleType"}}`,
		},
		{
			name: "bold",
			cmd:  StyleText(Range{14, 23}, TextStyle{Bold: true}),
			want: `{"updateTextStyle":{"range":{"startIndex":14,"endIndex":23},"textStyle":{"bold":true},"fields":"bold"}}`,
		},
		{
			name: "italic",
			cmd:  StyleText(Range{2, 5}, TextStyle{Italic: true}),
			want: `{"updateTextStyle":{"range":{"startIndex":2,"endIndex":5},"textStyle":{"italic":true},"fields":"italic"}}`,
		},
		{
			name: "font size",
			cmd:  StyleText(Range{0, 6}, TextStyle{FontSizePt: 10}),
			want: `{"updateTextStyle":{"range":{"startIndex":0,"endIndex":6},"textStyle":{"fontSize":{"magnitude":10,"unit":"PT"}},"fields":"fontSize"}}`,
		},
		{
			name: "inline image",
			cmd:  InsertImage(3, "https://drive.google.com/uc?id=abc"),
			want: `{"insertInlineImage":{"location":{"index":3},"uri":"https://drive.google.com/uc?id=abc"}}`,
		},
		{
			name: "create header",
			cmd:  CreateHeader(),
			want: `{"createHeader":{"type":"DEFAULT"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := json.Marshal(tt.cmd)
			if err != nil {
				t.Fatalf("Marshal() error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Marshal() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestCommand_MarshalJSON_UnknownKind(t *testing.T) {
	t.Parallel()

	if _, err := json.Marshal(Command{}); err == nil {
		t.Fatal("expected error for zero command")
	}
}

func TestHeadingStyle_Clamps(t *testing.T) {
	t.Parallel()

	if got := HeadingStyle(0).NamedStyle; got != "HEADING_1" {
		t.Errorf("HeadingStyle(0) = %q", got)
	}
	if got := HeadingStyle(9).NamedStyle; got != "HEADING_6" {
		t.Errorf("HeadingStyle(9) = %q", got)
	}
}
