// Package optional - поле частичного обновления: "не передано" отличается
// от "передано пустое значение".
package optional

import (
	"bytes"
	"encoding/json"
)

type Field[T any] struct {
	Value T
	Set   bool
}

func Of[T any](v T) Field[T] {
	return Field[T]{Value: v, Set: true}
}

// Get возвращает значение, если поле передано, иначе fallback.
func (f Field[T]) Get(fallback T) T {
	if f.Set {
		return f.Value
	}
	return fallback
}

// UnmarshalJSON вызывается только для присутствующего ключа, поэтому
// Set=true даже для null (значение при этом остаётся нулевым).
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		f.Value = zero
		return nil
	}
	return json.Unmarshal(data, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}
