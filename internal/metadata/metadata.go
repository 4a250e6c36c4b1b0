// Package metadata holds ordered document metadata and its sanitization.
package metadata

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Sanitization limits.
const (
	MaxKeyLength      = 50
	MaxValueLength    = 500
	MaxListItems      = 10
	MaxListItemLength = 100
)

// ErrInvalid reports metadata that cannot be used as header fields.
var ErrInvalid = errors.New("invalid metadata")

// Field is one key/value pair. Value is a string, bool, number, time.Time,
// []any, Metadata or nil.
type Field struct {
	Key   string
	Value any
}

// Metadata is an ordered list of fields; order is the order of first
// appearance in the source.
type Metadata []Field

// Get returns the value stored under key.
func (m Metadata) Get(key string) (any, bool) {
	for _, f := range m {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Set replaces the value of key in place, or appends it.
func (m Metadata) Set(key string, value any) Metadata {
	for i, f := range m {
		if f.Key == key {
			m[i].Value = value
			return m
		}
	}
	return append(m, Field{Key: key, Value: value})
}

// Title returns the title field as a string, if present.
func (m Metadata) Title() (string, bool) {
	v, ok := m.Get("title")
	if !ok || v == nil {
		return "", false
	}
	if s, isString := v.(string); isString {
		return s, true
	}
	return fmt.Sprint(v), true
}

// FromMap converts an unordered map, sorting keys for a stable order.
// Nested maps are converted recursively.
func FromMap(in map[string]any) Metadata {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(Metadata, 0, len(in))
	for _, k := range keys {
		out = append(out, Field{Key: k, Value: normalize(in[k])})
	}
	return out
}

// Normalize converts nested maps and string slices in m's values so the
// header formatter sees only Metadata and []any. Field order is kept.
func Normalize(m Metadata) Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, 0, len(m))
	for _, f := range m {
		out = out.Set(f.Key, normalize(f.Value))
	}
	return out
}

// Validate reports an ErrInvalid error for a blank key at any depth.
func (m Metadata) Validate() error {
	for i, f := range m {
		if strings.TrimSpace(f.Key) == "" {
			return fmt.Errorf("%w: field %d has an empty key", ErrInvalid, i+1)
		}
		if nested, ok := f.Value.(Metadata); ok {
			if err := nested.Validate(); err != nil {
				return fmt.Errorf("%s: %w", f.Key, err)
			}
		}
	}
	return nil
}

func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return FromMap(t)
	case Metadata:
		return Normalize(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalize(item)
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = item
		}
		return out
	}
	return v
}

var (
	unsafeKeyChars = regexp.MustCompile(`[^\p{L}\p{N}_-]`)
	tagPattern     = regexp.MustCompile(`<[^>]+>`)
	jsScheme       = regexp.MustCompile(`(?i)javascript:`)
)

// Sanitize strips markup from values and constrains keys and sizes. Keys
// that end up empty are dropped.
func Sanitize(m Metadata) Metadata {
	out := make(Metadata, 0, len(m))
	for _, f := range m {
		key := truncate(unsafeKeyChars.ReplaceAllString(f.Key, "_"), MaxKeyLength)
		if key == "" {
			continue
		}
		out = out.Set(key, sanitizeValue(f.Value))
	}
	return out
}

func sanitizeValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		s := tagPattern.ReplaceAllString(t, "")
		s = jsScheme.ReplaceAllString(s, "")
		return truncate(s, MaxValueLength)
	case bool, int, int64, uint64, float64, time.Time:
		return t
	case []any:
		n := min(len(t), MaxListItems)
		out := make([]any, 0, n)
		for _, item := range t[:n] {
			out = append(out, truncate(tagPattern.ReplaceAllString(fmt.Sprint(item), ""), MaxListItemLength))
		}
		return out
	case Metadata:
		return Sanitize(t)
	}
	if s, ok := v.(fmt.Stringer); ok {
		return truncate(tagPattern.ReplaceAllString(s.String(), ""), MaxValueLength)
	}
	return v
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// String renders the metadata as "key: value" pairs, used for nested values.
func (m Metadata) String() string {
	parts := make([]string, 0, len(m))
	for _, f := range m {
		parts = append(parts, fmt.Sprintf("%s: %v", f.Key, f.Value))
	}
	return strings.Join(parts, ", ")
}
