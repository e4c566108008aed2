// Package docs lowers a unit IR into OpenAPI documentation artifacts.
package docs

import (
	"fmt"

	"github.com/go-openapi/spec"

	"jsonerr/internal/ir"
	"jsonerr/jsonresp/openapi"
)

// Lower returns one artifact per client-facing case in declaration order,
// followed by a single InternalError artifact when any case is internal.
func Lower(u *ir.Unit) []openapi.Artifact {
	arts := make([]openapi.Artifact, 0, len(u.Cases)+1)
	internal := false
	for _, c := range u.Cases {
		switch k := c.Kind.(type) {
		case ir.ClientFacing:
			arts = append(arts, clientArtifact(c, k))
		case ir.Internal:
			internal = true
		default:
			panic(fmt.Sprintf("docs: unknown case kind %T for %s::%s", c.Kind, u.Name, c.Name))
		}
	}
	if internal {
		arts = append(arts, internalArtifact(u.Config.InternalCode))
	}
	return arts
}

// Fragment lowers u and groups its artifacts.
func Fragment(u *ir.Unit) *openapi.Fragment {
	f := openapi.NewFragment()
	f.Add(Lower(u)...)
	return f
}

func clientArtifact(c ir.Case, k ir.ClientFacing) openapi.Artifact {
	s := errorSchema(k.Status.Value, k.Code)
	if k.Hint != "" {
		s.SetProperty("hint", *spec.StringProperty().WithEnum(k.Hint).WithExample(k.Hint))
		s.WithRequired(append(s.Required, "hint")...)
	}
	if !c.Naive {
		s.SetProperty("content", *new(spec.Schema).Typed("object", ""))
		s.WithRequired(append(s.Required, "content")...)
	}
	return openapi.NewArtifact(c.Name, k.Status.Value, description(k), s)
}

func internalArtifact(code string) openapi.Artifact {
	return openapi.NewArtifact(ir.InternalErrorName, ir.InternalStatus, ir.InternalErrorName,
		errorSchema(ir.InternalStatus, code))
}

func errorSchema(status int, code string) *spec.Schema {
	return new(spec.Schema).
		Typed("object", "").
		SetProperty("status", *spec.Int64Property().WithEnum(status).WithExample(status)).
		SetProperty("code", *spec.StringProperty().WithEnum(code).WithExample(code)).
		WithRequired("status", "code")
}

// description falls back from description to hint to code.
func description(k ir.ClientFacing) string {
	switch {
	case k.Description != "":
		return k.Description
	case k.Hint != "":
		return k.Hint
	default:
		return k.Code
	}
}
