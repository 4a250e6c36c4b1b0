package blocks

// Notes:
// - Each dialect is tested through its public entry point only
// - HTML inputs are fragments; the parser wraps them in html/head/body and the
//   walker starts at body, so wrapper tags never show up as blocks
// - CommonMark tests avoid asserting on goldmark whitespace details beyond
//   what the walker trims

import (
	"reflect"
	"testing"
)

// ---------------------------------------------------------------------------
// TestSegmentLines - Line dialect
// ---------------------------------------------------------------------------

func TestSegmentLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []Block
	}{
		{
			name: "empty input yields nothing",
			text: "",
			want: nil,
		},
		{
			name: "heading blank paragraph with trailing newline",
			text: "# Title\n\nHello **world**\n",
			want: []Block{NewHeading(1, "Title"), NewBlank(), NewParagraph("Hello **world**")},
		},
		{
			name: "no trailing newline",
			text: "one\ntwo",
			want: []Block{NewParagraph("one"), NewParagraph("two")},
		},
		{
			name: "CRLF is normalized",
			text: "## Sub\r\ntext\r\n",
			want: []Block{NewHeading(2, "Sub"), NewParagraph("text")},
		},
		{
			name: "whitespace-only line is blank",
			text: "a\n   \t\nb",
			want: []Block{NewParagraph("a"), NewBlank(), NewParagraph("b")},
		},
		{
			name: "six hashes is a heading",
			text: "###### deep",
			want: []Block{NewHeading(6, "deep")},
		},
		{
			name: "seven hashes is a paragraph",
			text: "####### too deep",
			want: []Block{NewParagraph("####### too deep")},
		},
		{
			name: "hash without space is a paragraph",
			text: "#hashtag",
			want: []Block{NewParagraph("#hashtag")},
		},
		{
			name: "bare hash is a paragraph",
			text: "#",
			want: []Block{NewParagraph("#")},
		},
		{
			name: "leading whitespace kept in paragraph",
			text: "  indented",
			want: []Block{NewParagraph("  indented")},
		},
		{
			name: "two trailing newlines keep one blank",
			text: "a\n\n",
			want: []Block{NewParagraph("a"), NewBlank()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := SegmentLines(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SegmentLines(%q) =\n%+v\nwant\n%+v", tt.text, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestSegmentHTML - HTML subset
// ---------------------------------------------------------------------------

func TestSegmentHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want []Block
	}{
		{
			name: "heading and paragraph",
			src:  "<h2>Intro</h2><p>Hello <b>there</b></p>",
			want: []Block{NewHeading(2, "Intro"), NewParagraph("Hello there")},
		},
		{
			name: "full document uses body",
			src:  "<html><head><title>T</title></head><body><h1>A</h1></body></html>",
			want: []Block{NewHeading(1, "A")},
		},
		{
			name: "image and line break",
			src:  `<div><img src="https://example.com/a.png"><br></div>`,
			want: []Block{NewImage("https://example.com/a.png"), NewLineBreak()},
		},
		{
			name: "image without src is ignored",
			src:  `<img alt="x"><p>t</p>`,
			want: []Block{NewParagraph("t")},
		},
		{
			name: "paragraph consumes nested image",
			src:  `<p>see <img src="https://example.com/a.png"> here</p>`,
			want: []Block{NewParagraph("see  here")},
		},
		{
			name: "nested containers are traversed",
			src:  "<section><article><h3>Deep</h3></article></section>",
			want: []Block{NewHeading(3, "Deep")},
		},
		{
			name: "newlines in paragraph become spaces",
			src:  "<p>line one\nline two</p>",
			want: []Block{NewParagraph("line one line two")},
		},
		{
			name: "fallback to text when no block found",
			src:  "<div><span>just text</span></div>",
			want: []Block{NewParagraph("just text")},
		},
		{
			name: "whitespace-only document yields nothing",
			src:  "<div>   \n </div>",
			want: nil,
		},
		{
			name: "script text is never content",
			src:  "<script>alert(1)</script><div>visible</div>",
			want: []Block{NewParagraph("visible")},
		},
		{
			name: "order is preserved",
			src:  "<p>a</p><h1>b</h1><br><p>c</p>",
			want: []Block{NewParagraph("a"), NewHeading(1, "b"), NewLineBreak(), NewParagraph("c")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := SegmentHTML(tt.src)
			if err != nil {
				t.Fatalf("SegmentHTML() error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SegmentHTML(%q) =\n%+v\nwant\n%+v", tt.src, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestSegmentCommonMark - Goldmark dialect
// ---------------------------------------------------------------------------

func TestSegmentCommonMark(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want []Block
	}{
		{
			name: "heading and emphasis",
			src:  "# Title\n\nHello **world** and *you*\n",
			want: []Block{NewHeading(1, "Title"), NewParagraph("Hello **world** and *you*")},
		},
		{
			name: "underscore emphasis is rewritten with stars",
			src:  "__strong__ _em_",
			want: []Block{NewParagraph("**strong** *em*")},
		},
		{
			name: "soft break joins lines",
			src:  "one\ntwo\n",
			want: []Block{NewParagraph("one two")},
		},
		{
			name: "image splits paragraph",
			src:  "before ![alt](https://example.com/i.png) after",
			want: []Block{NewParagraph("before"), NewImage("https://example.com/i.png"), NewParagraph("after")},
		},
		{
			name: "standalone image",
			src:  "![x](https://example.com/i.png)",
			want: []Block{NewImage("https://example.com/i.png")},
		},
		{
			name: "list items become paragraphs",
			src:  "- first\n- second\n",
			want: []Block{NewParagraph("first"), NewParagraph("second")},
		},
		{
			name: "link keeps its text",
			src:  "[docs](https://example.com) page",
			want: []Block{NewParagraph("docs page")},
		},
		{
			name: "fenced code lines",
			src:  "```\nx := 1\n\ny := 2\n```\n",
			want: []Block{NewParagraph("x := 1"), NewBlank(), NewParagraph("y := 2")},
		},
		{
			name: "html block goes through the html walker",
			src:  "<p>raw</p>\n",
			want: []Block{NewParagraph("raw")},
		},
		{
			name: "thematic break is blank",
			src:  "a\n\n---\n\nb\n",
			want: []Block{NewParagraph("a"), NewBlank(), NewParagraph("b")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := SegmentCommonMark(tt.src)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SegmentCommonMark(%q) =\n%+v\nwant\n%+v", tt.src, got, tt.want)
			}
		})
	}
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	want := map[Kind]string{
		Heading:   "heading",
		Paragraph: "paragraph",
		Blank:     "blank",
		Image:     "image",
		LineBreak: "linebreak",
		Kind(99):  "Kind(99)",
	}
	for k, s := range want {
		if k.String() != s {
			t.Errorf("Kind(%d).String() = %q, want %q", int(k), k.String(), s)
		}
	}
}
