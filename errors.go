// Package revlog provides a differential text-version store backed by a
// single string value. Every committed text is kept either as a complete
// snapshot or as the smallest edit script that rebuilds it from an earlier
// version, and any version can be reconstructed on demand.
//
// The storage value is line-oriented: one record per line, each prefixed
// with the length of its name so that names may contain any character
// except a newline. Payloads are escaped so that a record never spans
// lines. Records are appended by Commit, truncated from the end by Reset
// and truncated from the front by Squash, which re-materialises the new
// first record as a snapshot. Operations never modify their input; each
// returns a new storage value, optionally passed through a Compressor.
package revlog

import "errors"

// Sentinel errors for programmatic handling. Callers can use errors.Is to
// distinguish absent versions (ErrNotFound, ErrTargetMissing) from
// corruption (ErrCorruptScript, ErrCorruptRecord, ErrUnresolvable,
// ErrDecompress).
var (
	ErrNotFound      = errors.New("version not found")
	ErrTargetMissing = errors.New("target version missing")
	ErrUnresolvable  = errors.New("version cannot be resolved")
	ErrCorruptScript = errors.New("corrupt edit script")
	ErrCorruptRecord = errors.New("corrupt record")
	ErrInvalidName   = errors.New("name contains invalid characters")
	ErrDecompress    = errors.New("decompression failed")
	ErrClosed        = errors.New("file is closed")
)
