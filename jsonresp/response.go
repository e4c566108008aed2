package jsonresp

import "net/http"

// Response is the success envelope. Meta is omitted from the JSON body when
// nil, mirroring the Nothing marker of the documentation schema.
type Response[T any] struct {
	Status  int `json:"status"`
	Content T   `json:"content"`
	Meta    any `json:"meta,omitempty"`
}

// ListMeta describes a page of a list response.
type ListMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// OK wraps content in a 200 envelope without meta.
func OK[T any](content T) Response[T] {
	return Response[T]{Status: http.StatusOK, Content: content}
}

// List wraps one page of items with its ListMeta.
func List[T any](items []T, meta ListMeta) Response[[]T] {
	return Response[[]T]{Status: http.StatusOK, Content: items, Meta: meta}
}
