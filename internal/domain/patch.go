package domain

import (
	"bytes"
	"encoding/json"
)

// Field is one member of a partial update. A key missing from the JSON body
// leaves Set false; an explicit null sets Set and Null.
type Field[T any] struct {
	Value T
	Set   bool
	Null  bool
}

func Some[T any](v T) Field[T] { return Field[T]{Value: v, Set: true} }

func Null[T any]() Field[T] { return Field[T]{Set: true, Null: true} }

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		var zero T
		f.Value, f.Null = zero, true
		return nil
	}
	f.Null = false
	return json.Unmarshal(b, &f.Value)
}

// Ptr returns nil for an explicit null, the value otherwise. Only meaningful when Set.
func (f Field[T]) Ptr() *T {
	if f.Null {
		return nil
	}
	v := f.Value
	return &v
}
