// Package codec encodes the element values of a vector snapshot.
//
// The codec name is written into every snapshot header, so a snapshot can
// only be decoded by the codec that produced it. Changing the codec of a
// repository does not break existing snapshots; each is decoded with the codec
// its header names.
package codec

import "sort"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

var builtin = map[string]Codec{
	JSON{}.Name():   JSON{},
	GoJSON{}.Name(): GoJSON{},
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	c, ok := builtin[name]
	return c, ok
}

// Names returns the names of the built-in codecs in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
