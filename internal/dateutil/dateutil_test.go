package dateutil

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestParseDateFormat - Token conversion
// ---------------------------------------------------------------------------

func TestParseDateFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  string
		want    string
		wantErr error
	}{
		{name: "ISO date", format: "YYYY-MM-DD", want: "2006-01-02"},
		{name: "European date", format: "DD/MM/YYYY", want: "02/01/2006"},
		{name: "long month wins over short", format: "MMMM D, YYYY", want: "January 2, 2006"},
		{name: "short month", format: "MMM YY", want: "Jan 06"},
		{name: "non-padded month and day", format: "M/D", want: "1/2"},
		{name: "brackets keep tokens literal", format: "[YYYY]: YYYY", want: "YYYY: 2006"},
		{name: "empty brackets", format: "[]DD", want: "02"},
		{name: "literal text without tokens", format: "xyz", want: "xyz"},
		{name: "unclosed bracket", format: "[Date YYYY", wantErr: ErrInvalidDateFormat},
		{name: "empty format", format: "", wantErr: ErrInvalidDateFormat},
		{name: "too long", format: strings.Repeat("Y", MaxDateFormatLength+1), wantErr: ErrInvalidDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseDateFormat(tt.format)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseDateFormat(%q) error = %v, want %v", tt.format, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDateFormat(%q) unexpected error: %v", tt.format, err)
			}
			if got != tt.want {
				t.Errorf("ParseDateFormat(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestLayout_Presets(t *testing.T) {
	t.Parallel()

	got, err := Layout("European")
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	if got != "02/01/2006" {
		t.Errorf("Layout(European) = %q", got)
	}
}

// ---------------------------------------------------------------------------
// TestResolveDate - "auto" expansion
// ---------------------------------------------------------------------------

func TestResolveDate(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 7, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		value   string
		want    string
		wantErr bool
	}{
		{name: "literal passthrough", value: "2024-01-15", want: "2024-01-15"},
		{name: "empty passthrough", value: "", want: ""},
		{name: "auto", value: "auto", want: "2025-03-07"},
		{name: "auto is case insensitive", value: "AUTO", want: "2025-03-07"},
		{name: "auto with tokens", value: "auto:DD/MM/YYYY", want: "07/03/2025"},
		{name: "auto with preset", value: "auto:long", want: "March 7, 2025"},
		{name: "mixed case prefix", value: "Auto:us", want: "03/07/2025"},
		{name: "missing colon", value: "autoX", wantErr: true},
		{name: "empty format after colon", value: "auto:", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ResolveDate(tt.value, now)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDateFormat) {
					t.Fatalf("ResolveDate(%q) error = %v, want ErrInvalidDateFormat", tt.value, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveDate(%q) unexpected error: %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("ResolveDate(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestDetect - Date recognition in values
// ---------------------------------------------------------------------------

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		wantOK bool
		want   string
	}{
		{in: "2024-01-15", wantOK: true, want: "2024-01-15"},
		{in: "2024-01-15T10:30:00Z", wantOK: true, want: "2024-01-15"},
		{in: "2024-01-15T10:30:00+02:00", wantOK: true, want: "2024-01-15"},
		{in: "2024-01-15 10:30:00", wantOK: true, want: "2024-01-15"},
		{in: "2024-13-40", wantOK: false},
		{in: "January", wantOK: false},
		{in: "12345678901", wantOK: false},
		{in: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, ok := Detect(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("Detect(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if ok && got.Format(time.DateOnly) != tt.want {
				t.Errorf("Detect(%q) = %s, want %s", tt.in, got.Format(time.DateOnly), tt.want)
			}
		})
	}
}
