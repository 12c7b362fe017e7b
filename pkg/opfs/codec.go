package opfs

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Codec converts a record to and from the bytes stored in its file.
type Codec[T any] interface {
	Marshal(v T) ([]byte, error)
	Unmarshal(data []byte, v *T) error
}

// JSONCodec is the default codec: the file holds the JSON encoding of the record.
type JSONCodec[T any] struct{}

// Marshal encodes v as JSON.
func (JSONCodec[T]) Marshal(v T) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes JSON into v.
func (JSONCodec[T]) Unmarshal(data []byte, v *T) error { return json.Unmarshal(data, v) }

// IsNull reports whether data is the JSON literal null, which holds no record.
func (JSONCodec[T]) IsNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

// nullCodec is implemented by codecs whose encoding has an explicit "no value".
type nullCodec interface {
	IsNull(data []byte) bool
}

// TextCodec stores a string as-is, with no JSON quoting. Surrounding whitespace is trimmed on read.
type TextCodec struct{}

// Marshal returns the raw bytes of v.
func (TextCodec) Marshal(v string) ([]byte, error) { return []byte(v), nil }

// Unmarshal copies the trimmed text into v.
func (TextCodec) Unmarshal(data []byte, v *string) error {
	*v = strings.TrimSpace(string(data))
	return nil
}

// FileAdapterOption customizes a FileAdapter at construction.
type FileAdapterOption[T any] func(*FileAdapter[T])

// WithCodec replaces the default JSON codec.
func WithCodec[T any](c Codec[T]) FileAdapterOption[T] {
	return func(a *FileAdapter[T]) {
		a.codec = c
	}
}
