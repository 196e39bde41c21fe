// Package exercises holds the built-in exercise routines and the helpers they
// share for decoding their data payload.
package exercises

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/tracer/pkg/registry"
)

// ErrInvalidData is returned by a routine whose data payload cannot be decoded.
var ErrInvalidData = errors.New("invalid exercise data")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Register adds the built-in exercises to r.
func Register(r *registry.Registry) {
	r.Register("linear-search", "Step through a linear search over a sequence", LinearSearch)
	r.Register("bst-insert", "Insert values into a binary search tree", BSTInsert)
	r.Register("graph-bfs", "Explore a graph breadth-first", GraphBFS)
	r.Register("running-sum", "Predict the output of a program reading numbers", RunningSum)
}

// Default returns a registry holding the built-in exercises.
func Default() *registry.Registry {
	r := registry.NewRegistry()
	Register(r)
	return r
}

// load decodes data into T. A nil payload draws one from fallback.
// Payloads restored from storage arrive as decoded JSON and go through mapstructure.
func load[T any](data any, fallback func() T) (T, error) {
	var out T
	switch v := data.(type) {
	case nil:
		out = fallback()
	case T:
		out = v
	case *T:
		if v == nil {
			out = fallback()
		} else {
			out = *v
		}
	default:
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &out,
			WeaklyTypedInput: true,
			ErrorUnused:      true,
		})
		if err != nil {
			return out, err
		}
		if err := dec.Decode(data); err != nil {
			return out, fmt.Errorf("%w: %v", ErrInvalidData, err)
		}
	}
	if err := validate.Struct(out); err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	return out, nil
}
