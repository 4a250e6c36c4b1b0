// Package frontmatter separates a leading YAML metadata block from markdown
// content.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/alnah/go-md2gdoc/internal/metadata"
	"github.com/alnah/go-md2gdoc/internal/yamlutil"
)

// ErrInvalid indicates the metadata block could not be decoded.
var ErrInvalid = errors.New("invalid front matter")

// yamlFormat recognizes a block delimited by "---" lines and decodes it with
// key order preserved.
var yamlFormat = frontmatter.NewFormat("---", "---", unmarshalOrdered)

func unmarshalOrdered(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return yamlutil.UnmarshalOrdered(data, v)
}

// Split returns the metadata and the remaining content of src. When src has
// no front matter the metadata is empty and the content is src. When the
// block cannot be decoded, the whole of src is returned as content together
// with an error wrapping ErrInvalid.
func Split(src string) (metadata.Metadata, string, error) {
	var m yamlutil.Mapping
	rest, err := frontmatter.Parse(strings.NewReader(src), &m, yamlFormat)
	if err != nil {
		return nil, src, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return fromMapping(m), string(rest), nil
}

func fromMapping(m yamlutil.Mapping) metadata.Metadata {
	if len(m) == 0 {
		return nil
	}
	out := make(metadata.Metadata, 0, len(m))
	for _, item := range m {
		out = out.Set(fmt.Sprint(item.Key), convert(item.Value))
	}
	return out
}

func convert(v any) any {
	switch t := v.(type) {
	case yamlutil.Mapping:
		return fromMapping(t)
	case map[string]any:
		return metadata.FromMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = convert(item)
		}
		return out
	}
	return v
}
