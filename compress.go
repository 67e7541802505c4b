// Compression of the storage value.
//
// A Compressor is applied at the boundary of every public operation: input
// is decompressed before parsing and output is compressed after
// serialisation. The engine treats the compressed form as opaque.
//
// Zstd compresses with zstd and then Ascii85-encodes the result so the
// stored value remains a printable string. An empty storage value stays
// empty in both directions.
package revlog

import (
	"bytes"
	"encoding/ascii85"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// Compressor transforms a storage value to and from a compact encoding.
// Implementations must be free of shared mutable state.
type Compressor interface {
	Compress(s string) (string, error)
	Decompress(s string) (string, error)
}

// Shared encoder and decoder, both safe for concurrent use.
var (
	zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	zstdDecoder, _ = zstd.NewReader(nil)
)

// Zstd is a Compressor using zstd with Ascii85 armour.
type Zstd struct{}

// Compress implements Compressor.
func (Zstd) Compress(s string) (string, error) {
	if s == "" {
		return "", nil
	}

	compressed := zstdEncoder.EncodeAll([]byte(s), nil)

	var encoded bytes.Buffer
	enc := ascii85.NewEncoder(&encoded)
	// bytes.Buffer.Write never errors; enc.Close flushes trailing padding.
	_, _ = enc.Write(compressed)
	_ = enc.Close()

	return encoded.String(), nil
}

// Decompress implements Compressor.
func (Zstd) Decompress(s string) (string, error) {
	if s == "" {
		return "", nil
	}

	dec := ascii85.NewDecoder(bytes.NewReader([]byte(s)))
	compressed, err := io.ReadAll(dec)
	if err != nil {
		return "", fmt.Errorf("%w: ascii85: %w", ErrDecompress, err)
	}

	out, err := zstdDecoder.DecodeAll(compressed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: zstd: %w", ErrDecompress, err)
	}
	return string(out), nil
}

// identity is used when no Compressor is configured.
type identity struct{}

func (identity) Compress(s string) (string, error)   { return s, nil }
func (identity) Decompress(s string) (string, error) { return s, nil }
