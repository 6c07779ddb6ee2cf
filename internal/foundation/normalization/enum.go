// Package normalization maps loosely formatted strings onto closed enum sets.
package normalization

import (
	"fmt"
	"slices"
	"strings"
)

// Enum normalizes raw strings to values of a closed set T. Keys are compared
// after trimming and lowercasing.
type Enum[T comparable] struct {
	name   string
	values map[string]T
	keys   []string
}

// NewEnum builds a normalizer for the named enum from key→value pairs.
func NewEnum[T comparable](name string, values map[string]T) *Enum[T] {
	e := &Enum[T]{name: name, values: make(map[string]T, len(values))}
	for k, v := range values {
		key := clean(k)
		e.values[key] = v
		e.keys = append(e.keys, key)
	}
	slices.Sort(e.keys)
	return e
}

// Parse returns the enum value for raw or an error naming the valid options.
func (e *Enum[T]) Parse(raw string) (T, error) {
	if v, ok := e.values[clean(raw)]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid %s %q, valid options: %v", e.name, raw, e.keys)
}

// Normalize returns the enum value for raw, or fallback when raw is unknown.
func (e *Enum[T]) Normalize(raw string, fallback T) T {
	if v, ok := e.values[clean(raw)]; ok {
		return v
	}
	return fallback
}

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
