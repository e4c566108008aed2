// Package openapi holds the Swagger 2.0 documentation artifacts produced for
// error units, the combinator that merges two artifacts sharing a status, and
// the schema of the success envelope.
//
// Artifacts are plain github.com/go-openapi/spec values, so a Fragment can be
// applied onto any spec.Swagger document.
package openapi

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-openapi/spec"
)

// ErrStatusMismatch is returned by Combine for artifacts with different statuses.
var ErrStatusMismatch = errors.New("combined artifacts must share a status")

// Artifact is the documentation of one client-facing case, or of the shared
// internal error of a unit.
type Artifact struct {
	Name   string
	Status int
	// Schema is stored under #/definitions/<Name>.
	Schema *spec.Schema
	// Response is stored under #/responses/<Name>.
	Response *spec.Response
	// Responses is the status index: "<status>" -> response (a $ref for
	// plain artifacts, inline for combined ones).
	Responses spec.Responses
}

// DefinitionRef returns the JSON pointer of a schema definition.
func DefinitionRef(name string) string { return "#/definitions/" + name }

// ResponseRef returns the JSON pointer of a shared response.
func ResponseRef(name string) string { return "#/responses/" + name }

// NewArtifact wraps schema into an artifact whose response references the
// schema definition and whose status index references the response.
func NewArtifact(name string, status int, description string, schema *spec.Schema) Artifact {
	resp := spec.NewResponse().
		WithDescription(description).
		WithSchema(spec.RefSchema(DefinitionRef(name)))
	return Artifact{
		Name:      name,
		Status:    status,
		Schema:    schema,
		Response:  resp,
		Responses: statusIndex(status, *spec.ResponseRef(ResponseRef(name))),
	}
}

// StatusKey is the key of the artifact in a responses object, e.g. "404".
func (a Artifact) StatusKey() string { return strconv.Itoa(a.Status) }

// Combine merges two artifacts documenting the same status into one named
// <A>Or<B> whose schema is oneOf the two definitions.
func Combine(a, b Artifact) (Artifact, error) {
	if a.Status != b.Status {
		return Artifact{}, fmt.Errorf("%w: %s is %d, %s is %d", ErrStatusMismatch, a.Name, a.Status, b.Name, b.Status)
	}
	name := a.Name + "Or" + b.Name
	schema := &spec.Schema{SchemaProps: spec.SchemaProps{
		OneOf: []spec.Schema{
			*spec.RefSchema(DefinitionRef(a.Name)),
			*spec.RefSchema(DefinitionRef(b.Name)),
		},
	}}
	resp := spec.NewResponse().
		WithDescription(a.Name + " or " + b.Name).
		WithSchema(schema)
	return Artifact{
		Name:      name,
		Status:    a.Status,
		Schema:    schema,
		Response:  resp,
		Responses: statusIndex(a.Status, *resp),
	}, nil
}

// MustCombine is Combine that panics on a status mismatch.
func MustCombine(a, b Artifact) Artifact {
	c, err := Combine(a, b)
	if err != nil {
		panic(err)
	}
	return c
}

func statusIndex(status int, r spec.Response) spec.Responses {
	return spec.Responses{ResponsesProps: spec.ResponsesProps{
		StatusCodeResponses: map[int]spec.Response{status: r},
	}}
}
