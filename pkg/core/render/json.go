package render

import (
	"github.com/goccy/go-json"
)

// JSONOption configures JSON rendering via [JSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	indent bool
}

// WithIndent pretty-prints the output.
func WithIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

// JSON encodes the view. It returns an error only if marshaling fails.
func JSON(v View, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	if v.Rows == nil {
		v.Rows = []RowView{}
	}
	if r.indent {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// ParseJSON decodes a view previously written by [JSON].
func ParseJSON(data []byte) (View, error) {
	var v View
	if err := json.Unmarshal(data, &v); err != nil {
		return View{}, err
	}
	return v, nil
}
