package metadata

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestSanitize - Key and value cleanup
// ---------------------------------------------------------------------------

func TestSanitize(t *testing.T) {
	t.Parallel()

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   Metadata
		want Metadata
	}{
		{
			name: "script tags stripped from title",
			in:   Metadata{{Key: "title", Value: `<script>alert("xss")</script>`}},
			want: Metadata{{Key: "title", Value: `alert("xss")`}},
		},
		{
			name: "javascript scheme removed case-insensitively",
			in:   Metadata{{Key: "link", Value: "JavaScript:void(0)"}},
			want: Metadata{{Key: "link", Value: "void(0)"}},
		},
		{
			name: "unsafe key characters replaced",
			in:   Metadata{{Key: "due date!", Value: "soon"}},
			want: Metadata{{Key: "due_date_", Value: "soon"}},
		},
		{
			name: "hyphen and underscore kept in key",
			in:   Metadata{{Key: "last-modified_by", Value: "a"}},
			want: Metadata{{Key: "last-modified_by", Value: "a"}},
		},
		{
			name: "letters outside ASCII kept in key",
			in:   Metadata{{Key: "auteur_é", Value: "x"}, {Key: "naïve key", Value: "y"}},
			want: Metadata{{Key: "auteur_é", Value: "x"}, {Key: "naïve_key", Value: "y"}},
		},
		{
			name: "empty key dropped",
			in:   Metadata{{Key: "", Value: "x"}, {Key: "ok", Value: "y"}},
			want: Metadata{{Key: "ok", Value: "y"}},
		},
		{
			name: "scalars and dates kept",
			in:   Metadata{{Key: "n", Value: 3}, {Key: "b", Value: true}, {Key: "d", Value: date}},
			want: Metadata{{Key: "n", Value: 3}, {Key: "b", Value: true}, {Key: "d", Value: date}},
		},
		{
			name: "list items stringified and stripped",
			in:   Metadata{{Key: "tags", Value: []any{"<b>a</b>", 2}}},
			want: Metadata{{Key: "tags", Value: []any{"a", "2"}}},
		},
		{
			name: "nested metadata sanitized",
			in:   Metadata{{Key: "author", Value: Metadata{{Key: "name", Value: "<i>Ann</i>"}}}},
			want: Metadata{{Key: "author", Value: Metadata{{Key: "name", Value: "Ann"}}}},
		},
		{
			name: "nil value kept",
			in:   Metadata{{Key: "empty", Value: nil}},
			want: Metadata{{Key: "empty", Value: nil}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Sanitize(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Sanitize() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestSanitize_Limits(t *testing.T) {
	t.Parallel()

	items := make([]any, 15)
	for i := range items {
		items[i] = strings.Repeat("x", 150)
	}
	got := Sanitize(Metadata{
		{Key: strings.Repeat("k", 80), Value: strings.Repeat("v", 600)},
		{Key: "list", Value: items},
	})

	if len(got[0].Key) != MaxKeyLength {
		t.Errorf("key length = %d, want %d", len(got[0].Key), MaxKeyLength)
	}
	if s := got[0].Value.(string); len(s) != MaxValueLength {
		t.Errorf("value length = %d, want %d", len(s), MaxValueLength)
	}
	list := got[1].Value.([]any)
	if len(list) != MaxListItems {
		t.Errorf("list length = %d, want %d", len(list), MaxListItems)
	}
	if s := list[0].(string); len(s) != MaxListItemLength {
		t.Errorf("list item length = %d, want %d", len(s), MaxListItemLength)
	}
}

func TestTruncate_RuneBoundary(t *testing.T) {
	t.Parallel()

	if got := truncate("ééé", 2); got != "éé" {
		t.Errorf("truncate() = %q, want %q", got, "éé")
	}
}

// ---------------------------------------------------------------------------
// TestMetadata - Ordered access
// ---------------------------------------------------------------------------

func TestMetadata_SetGetTitle(t *testing.T) {
	t.Parallel()

	var m Metadata
	m = m.Set("author", "Ann")
	m = m.Set("title", "Draft")
	m = m.Set("title", "Report")

	if len(m) != 2 || m[1].Value != "Report" {
		t.Fatalf("Set() should replace in place, got %#v", m)
	}
	if title, ok := m.Title(); !ok || title != "Report" {
		t.Errorf("Title() = %q, %v", title, ok)
	}
	if _, ok := (Metadata{}).Title(); ok {
		t.Error("Title() on empty metadata should be false")
	}
}

func TestFromMap_SortsKeys(t *testing.T) {
	t.Parallel()

	got := FromMap(map[string]any{
		"zeta":  1,
		"alpha": map[string]any{"b": 2, "a": 1},
		"tags":  []string{"x"},
	})
	want := Metadata{
		{Key: "alpha", Value: Metadata{{Key: "a", Value: 1}, {Key: "b", Value: 2}}},
		{Key: "tags", Value: []any{"x"}},
		{Key: "zeta", Value: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FromMap() = %#v, want %#v", got, want)
	}
}

func TestMetadata_String(t *testing.T) {
	t.Parallel()

	m := Metadata{{Key: "name", Value: "Ann"}, {Key: "role", Value: "dev"}}
	if got := m.String(); got != "name: Ann, role: dev" {
		t.Errorf("String() = %q", got)
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	in := Metadata{
		{Key: "z", Value: []string{"a"}},
		{Key: "a", Value: Metadata{{Key: "inner", Value: map[string]any{"y": 1, "x": 2}}}},
	}
	want := Metadata{
		{Key: "z", Value: []any{"a"}},
		{Key: "a", Value: Metadata{{Key: "inner", Value: Metadata{{Key: "x", Value: 2}, {Key: "y", Value: 1}}}}},
	}
	if got := Normalize(in); !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize() = %#v, want %#v", got, want)
	}
	if _, ok := in[0].Value.([]string); !ok {
		t.Error("Normalize() modified its input")
	}
	if Normalize(nil) != nil {
		t.Error("Normalize(nil) should be nil")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	if err := (Metadata{{Key: "a", Value: Metadata{{Key: "b", Value: 1}}}}).Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
	for _, bad := range []Metadata{
		{{Key: "", Value: 1}},
		{{Key: "a", Value: Metadata{{Key: " ", Value: 1}}}},
	} {
		if err := bad.Validate(); !errors.Is(err, ErrInvalid) {
			t.Errorf("Validate(%#v) error = %v, want ErrInvalid", bad, err)
		}
	}
}

// ---------------------------------------------------------------------------
// TestUnmarshalJSON - Ordered object decoding
// ---------------------------------------------------------------------------

func TestUnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		want    Metadata
		wantErr bool
	}{
		{
			name: "keys in document order",
			data: `{"zeta":"1","title":"T","alpha":"2"}`,
			want: Metadata{{Key: "zeta", Value: "1"}, {Key: "title", Value: "T"}, {Key: "alpha", Value: "2"}},
		},
		{
			name: "scalars and nesting",
			data: `{"n":3,"f":1.5,"b":true,"none":null,"tags":["a",2],"author":{"name":"Ann","id":7}}`,
			want: Metadata{
				{Key: "n", Value: int64(3)},
				{Key: "f", Value: 1.5},
				{Key: "b", Value: true},
				{Key: "none", Value: nil},
				{Key: "tags", Value: []any{"a", int64(2)}},
				{Key: "author", Value: Metadata{{Key: "name", Value: "Ann"}, {Key: "id", Value: int64(7)}}},
			},
		},
		{
			name: "repeated key keeps first position",
			data: `{"a":"1","b":"2","a":"3"}`,
			want: Metadata{{Key: "a", Value: "3"}, {Key: "b", Value: "2"}},
		},
		{name: "empty object", data: `{}`, want: Metadata{}},
		{name: "null", data: `null`, want: nil},
		{name: "array rejected", data: `["a"]`, wantErr: true},
		{name: "string rejected", data: `"a"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var got Metadata
			err := json.Unmarshal([]byte(tt.data), &got)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalid) {
					t.Errorf("error = %v, want ErrInvalid", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal() error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestUnmarshalJSON_InStruct(t *testing.T) {
	t.Parallel()

	var req struct {
		Source   string   `json:"source"`
		Metadata Metadata `json:"metadata"`
	}
	if err := json.Unmarshal([]byte(`{"metadata":{"b":"1","a":"2"},"source":"x"}`), &req); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	want := Metadata{{Key: "b", Value: "1"}, {Key: "a", Value: "2"}}
	if req.Source != "x" || !reflect.DeepEqual(req.Metadata, want) {
		t.Errorf("got %+v", req)
	}
}
