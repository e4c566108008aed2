package openapi

import (
	"encoding/json"

	"github.com/go-openapi/spec"
)

// EnvelopeName is the definition name of the success envelope.
const EnvelopeName = "JSONResponse"

// EnvelopeSchema documents jsonresp.Response. An empty ref means "nothing":
// the property becomes a nullable object defaulting to null and is not required.
func EnvelopeSchema(contentRef, metaRef string) *spec.Schema {
	status := spec.Int32Property().WithExample(200)
	s := new(spec.Schema).
		Typed("object", "").
		SetProperty("status", *status).
		WithRequired("status")
	s = envelopeField(s, "content", contentRef)
	return envelopeField(s, "meta", metaRef)
}

func envelopeField(s *spec.Schema, name, ref string) *spec.Schema {
	if ref == "" {
		null := json.RawMessage("null")
		prop := new(spec.Schema).Typed("object", "").AsNullable()
		prop.Default = null
		prop.Example = null
		return s.SetProperty(name, *prop)
	}
	return s.SetProperty(name, *spec.RefSchema(ref)).WithRequired(append(s.Required, name)...)
}
