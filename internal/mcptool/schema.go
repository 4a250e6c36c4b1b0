package mcptool

import (
	"reflect"

	"github.com/google/jsonschema-go/jsonschema"

	md2gdoc "github.com/alnah/go-md2gdoc"
)

// typeSchemas describes types whose JSON form differs from their Go shape.
// Metadata is a field list in Go and an object on the wire.
var typeSchemas = map[reflect.Type]*jsonschema.Schema{
	reflect.TypeFor[md2gdoc.Metadata](): {Type: "object"},
}

// schemaFor infers a tool input schema from T's JSON tags. Tool inputs are
// fixed structs, so a failure is a programming error.
func schemaFor[T any]() *jsonschema.Schema {
	schema, err := jsonschema.ForType(reflect.TypeFor[T](), &jsonschema.ForOptions{TypeSchemas: typeSchemas})
	if err != nil {
		panic(err)
	}
	return schema
}
