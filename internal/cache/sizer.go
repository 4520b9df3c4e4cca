package cache

import (
	"encoding/json"
	"fmt"
)

// Sizer estimates the byte footprint of a key/value pair.
type Sizer interface {
	Size(key string, value any) (int64, error)
}

// SizerFunc adapts a function to Sizer.
type SizerFunc func(key string, value any) (int64, error)

func (f SizerFunc) Size(key string, value any) (int64, error) { return f(key, value) }

// Sized lets a value report its own footprint and skip serialization.
type Sized interface {
	CacheSize() int64
}

// JSONSizer measures a value by its JSON encoding.
type JSONSizer struct{}

func (JSONSizer) Size(key string, value any) (int64, error) {
	n := int64(len(key))
	switch v := value.(type) {
	case nil:
		return n, nil
	case Sized:
		return n + v.CacheSize(), nil
	case []byte:
		return n + int64(len(v)), nil
	case json.RawMessage:
		return n + int64(len(v)), nil
	case string:
		return n + int64(len(v)), nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return n, fmt.Errorf("estimate size of %q: %w", key, err)
	}
	return n + int64(len(b)), nil
}
