package openapi

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/go-openapi/spec"
)

// Fragment is the documentation written for one source file: the
// definitions and responses of its artifacts plus their status indexes.
type Fragment struct {
	Definitions spec.Definitions          `json:"definitions"`
	Responses   map[string]spec.Response  `json:"responses"`
	Index       map[string]spec.Responses `json:"x-jsonerr-index,omitempty"`
}

// NewFragment returns an empty fragment.
func NewFragment() *Fragment {
	return &Fragment{
		Definitions: spec.Definitions{},
		Responses:   map[string]spec.Response{},
		Index:       map[string]spec.Responses{},
	}
}

// Add stores the artifacts, replacing any previous artifact of the same name.
func (f *Fragment) Add(arts ...Artifact) {
	for _, a := range arts {
		if a.Schema != nil {
			f.Definitions[a.Name] = *a.Schema
		}
		if a.Response != nil {
			f.Responses[a.Name] = *a.Response
		}
		f.Index[a.Name] = a.Responses
	}
}

// Merge adds every entry of other to f.
func (f *Fragment) Merge(other *Fragment) {
	for k, v := range other.Definitions {
		f.Definitions[k] = v
	}
	for k, v := range other.Responses {
		f.Responses[k] = v
	}
	for k, v := range other.Index {
		f.Index[k] = v
	}
}

// Names returns the artifact names of the fragment in sorted order.
func (f *Fragment) Names() []string {
	names := make([]string, 0, len(f.Index))
	for k := range f.Index {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Artifact rebuilds a stored artifact by name.
func (f *Fragment) Artifact(name string) (Artifact, bool) {
	idx, ok := f.Index[name]
	if !ok {
		return Artifact{}, false
	}
	a := Artifact{Name: name, Responses: idx}
	for status := range idx.StatusCodeResponses {
		a.Status = status
	}
	if s, ok := f.Definitions[name]; ok {
		a.Schema = &s
	}
	if r, ok := f.Responses[name]; ok {
		a.Response = &r
	}
	return a, true
}

// Apply copies definitions and responses into sw. Existing entries with the
// same name are replaced; the names of replaced entries are returned.
func (f *Fragment) Apply(sw *spec.Swagger) []string {
	if sw.Definitions == nil {
		sw.Definitions = spec.Definitions{}
	}
	if sw.Responses == nil {
		sw.Responses = map[string]spec.Response{}
	}
	seen := map[string]struct{}{}
	for k, v := range f.Definitions {
		if _, ok := sw.Definitions[k]; ok {
			seen[k] = struct{}{}
		}
		sw.Definitions[k] = v
	}
	for k, v := range f.Responses {
		if _, ok := sw.Responses[k]; ok {
			seen[k] = struct{}{}
		}
		sw.Responses[k] = v
	}
	replaced := make([]string, 0, len(seen))
	for k := range seen {
		replaced = append(replaced, k)
	}
	sort.Strings(replaced)
	return replaced
}

// ReadFragment loads a fragment written by `jsonerr gen`.
func ReadFragment(path string) (*Fragment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f := NewFragment()
	if err := json.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parse fragment %s: %w", path, err)
	}
	if f.Definitions == nil {
		f.Definitions = spec.Definitions{}
	}
	if f.Responses == nil {
		f.Responses = map[string]spec.Response{}
	}
	if f.Index == nil {
		f.Index = map[string]spec.Responses{}
	}
	return f, nil
}

// Marshal renders the fragment as indented JSON with a trailing newline.
func (f *Fragment) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
