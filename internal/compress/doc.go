// Package compress frames snapshot bodies as optionally compressed blocks.
//
// A block records its uncompressed size so that decoders can allocate once.
// Incompressible input is stored raw; Decompress handles both forms.
package compress
