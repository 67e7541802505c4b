// Read operations: Show, Log and Latest.
package revlog

import "fmt"

// Entry describes one version in commit order.
type Entry struct {
	Name     string `json:"name"`
	Snapshot bool   `json:"snapshot"`
	Kind     string `json:"kind"`
}

// Show returns the full text of the named version, or ErrNotFound.
func (s *Store) Show(storage, name string) (string, error) {
	records, err := s.load(storage)
	if err != nil {
		return "", fmt.Errorf("show: %w", err)
	}
	text, err := newResolver(records).name(name)
	if err != nil {
		return "", fmt.Errorf("show %q: %w", name, err)
	}
	return text, nil
}

// Log lists every version in commit order.
func (s *Store) Log(storage string) ([]Entry, error) {
	records, err := s.load(storage)
	if err != nil {
		return nil, fmt.Errorf("log: %w", err)
	}
	out := make([]Entry, len(records))
	for i, r := range records {
		out[i] = Entry{
			Name:     r.Name,
			Snapshot: r.Kind == KindSnapshot,
			Kind:     r.Kind.String(),
		}
	}
	return out, nil
}

// Latest returns the full text of the most recent version, or an empty
// string when there are none.
func (s *Store) Latest(storage string) (string, error) {
	records, err := s.load(storage)
	if err != nil {
		return "", fmt.Errorf("latest: %w", err)
	}
	if len(records) == 0 {
		return "", nil
	}
	text, err := newResolver(records).at(len(records) - 1)
	if err != nil {
		return "", fmt.Errorf("latest: %w", err)
	}
	return text, nil
}
