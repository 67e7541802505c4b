// Store type and configuration.
//
// A Store holds only its configuration; the storage value is passed into
// and returned from every call. Every public operation follows the same
// shape: decompress, parse, transform, serialise, compress. A Store is
// safe for concurrent use as long as its Compressor and Differ are.
package revlog

import "log/slog"

// Config holds store configuration options.
type Config struct {
	Compression   Compressor   // Storage encoding (default none)
	Differ        Differ       // Diff provider (default MatchPatch)
	HashAlgorithm int          // Name derivation: 1=Rolling, 2=xxHash3, 3=FNV1a, 4=Blake2b
	Logger        *slog.Logger // Diagnostics (default discard)
}

// Store is a differential version store operating on storage values.
type Store struct {
	config Config
}

// New returns a Store with defaults applied to unset config fields.
func New(config Config) *Store {
	if config.Compression == nil {
		config.Compression = identity{}
	}
	if config.Differ == nil {
		config.Differ = NewMatchPatch()
	}
	if config.HashAlgorithm == 0 {
		config.HashAlgorithm = AlgRolling
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Store{config: config}
}

// load decompresses and parses a storage value.
func (s *Store) load(storage string) ([]Record, error) {
	raw, err := s.config.Compression.Decompress(storage)
	if err != nil {
		return nil, err
	}
	return parse(raw, s.config.Logger), nil
}

// save serialises and compresses records.
func (s *Store) save(records []Record) (string, error) {
	return s.config.Compression.Compress(serialize(records))
}
