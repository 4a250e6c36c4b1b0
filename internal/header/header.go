// Package header renders document metadata as the text of a page header
// segment and emits the commands that create and fill it.
package header

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/alnah/go-md2gdoc/internal/command"
	"github.com/alnah/go-md2gdoc/internal/dateutil"
	"github.com/alnah/go-md2gdoc/internal/metadata"
)

// DefaultFontSize is the header text size in points.
const DefaultFontSize = 10

// Formatter renders metadata. The zero value is not usable; use New.
type Formatter struct {
	layout   string
	fontSize float64
	now      func() time.Time
}

// Option configures a Formatter.
type Option func(*Formatter) error

// WithDateFormat sets the output date format using dateutil tokens
// (for example "DD/MM/YYYY") or a preset name.
func WithDateFormat(format string) Option {
	return func(f *Formatter) error {
		layout, err := dateutil.Layout(format)
		if err != nil {
			return err
		}
		f.layout = layout
		return nil
	}
}

// WithFontSize sets the header font size in points.
func WithFontSize(pt float64) Option {
	return func(f *Formatter) error {
		if pt > 0 {
			f.fontSize = pt
		}
		return nil
	}
}

// WithNow sets the clock used to resolve "auto" dates.
func WithNow(now func() time.Time) Option {
	return func(f *Formatter) error {
		if now != nil {
			f.now = now
		}
		return nil
	}
}

// New returns a Formatter with YYYY-MM-DD dates and 10pt text.
func New(opts ...Option) (*Formatter, error) {
	f := &Formatter{
		layout:   time.DateOnly,
		fontSize: DefaultFontSize,
		now:      time.Now,
	}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Format returns the header text: the title alone on the first line, then
// one "Key: value" line per remaining field in order.
func (f *Formatter) Format(m metadata.Metadata) string {
	lines := make([]string, 0, len(m))
	if title, ok := m.Title(); ok {
		lines = append(lines, title)
	}
	for _, field := range m {
		if field.Key == "title" {
			continue
		}
		lines = append(lines, f.label(field.Key)+": "+f.value(field.Key, field.Value))
	}
	return strings.Join(lines, "\n")
}

// Emit returns the header batch for m. It reports false when there is
// nothing to write.
func (f *Formatter) Emit(m metadata.Metadata) (command.Batch, bool) {
	if len(m) == 0 {
		return command.Batch{}, false
	}
	text := f.Format(m)
	if text == "" {
		return command.Batch{}, false
	}

	origin := command.Header.Origin()
	n := command.Len(text)
	return command.Batch{
		Segment: command.Header,
		Commands: []command.Command{
			command.CreateHeader(),
			command.Insert(origin, text),
			command.StyleText(command.Range{Start: origin, End: origin + n}, command.TextStyle{FontSizePt: f.fontSize}),
		},
	}, true
}

// label turns "due_date" into "Due Date". Casers keep state, so one is
// built per call.
func (f *Formatter) label(key string) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(key, "_", " "))
}

func (f *Formatter) value(key string, v any) string {
	if s, ok := v.(string); ok && key == "date" && strings.HasPrefix(strings.ToLower(s), "auto") {
		if strings.EqualFold(s, "auto") {
			return f.now().Format(f.layout)
		}
		if resolved, err := dateutil.ResolveDate(s, f.now()); err == nil {
			return resolved
		}
	}
	return f.scalar(v)
}

func (f *Formatter) scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		if d, ok := dateutil.Detect(t); ok {
			return d.Format(f.layout)
		}
		return t
	case time.Time:
		return t.Format(f.layout)
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = f.scalar(item)
		}
		return strings.Join(parts, ", ")
	case metadata.Metadata:
		parts := make([]string, len(t))
		for i, field := range t {
			parts[i] = field.Key + ": " + f.scalar(field.Value)
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprint(v)
}
