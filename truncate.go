// History truncation: Reset drops versions after a target, Squash drops
// versions before it.
//
// Squash rewrites only the target, as a snapshot of its resolved text.
// Later records are kept verbatim, including references whose targets
// were removed; those become unresolvable. Run Verify afterwards when that
// matters.
package revlog

import "fmt"

// Reset keeps every version up to and including target and drops the rest.
// Kept records are not re-encoded.
func (s *Store) Reset(storage, target string) (string, error) {
	records, err := s.load(storage)
	if err != nil {
		return "", fmt.Errorf("reset: %w", err)
	}
	i := position(records, target)
	if i < 0 {
		return "", fmt.Errorf("reset %q: %w", target, ErrTargetMissing)
	}

	out, err := s.save(records[:i+1])
	if err != nil {
		return "", fmt.Errorf("reset: %w", err)
	}
	return out, nil
}

// Squash makes target the first version, stored as a snapshot, and drops
// every version before it.
func (s *Store) Squash(storage, target string) (string, error) {
	records, err := s.load(storage)
	if err != nil {
		return "", fmt.Errorf("squash: %w", err)
	}
	i := position(records, target)
	if i < 0 {
		return "", fmt.Errorf("squash %q: %w", target, ErrTargetMissing)
	}
	text, err := newResolver(records).at(i)
	if err != nil {
		return "", fmt.Errorf("squash %q: %w: %w", target, ErrUnresolvable, err)
	}

	kept := make([]Record, len(records)-i)
	copy(kept, records[i:])
	kept[0] = Record{Name: target, Kind: KindSnapshot, Text: text}
	rebase(kept)

	s.config.Logger.Debug("squash", "target", target, "dropped", i, "kept", len(kept))

	out, err := s.save(kept)
	if err != nil {
		return "", fmt.Errorf("squash: %w", err)
	}
	return out, nil
}
