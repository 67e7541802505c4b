// Commit appends a new version.
//
// Text identical to an existing version becomes a reference to the oldest
// such version. Otherwise the first record is a snapshot, and every later
// record is whichever encoding serialises smallest: a delta against the
// immediate predecessor, or a hybrid reference against any earlier
// version. The delta is considered first and hybrids follow in position
// order, so ties go to the delta and then to the oldest base.
//
// Every existing version is resolved and diffed against, so a commit costs
// roughly versions x diff.
package revlog

import (
	"fmt"
	"strings"
)

// Commit stores text as a new version and returns the new storage value
// together with the name actually assigned. An empty name is derived from
// text. A name already in use gets '#' appended until it is unique.
func (s *Store) Commit(storage, text, name string) (string, string, error) {
	if strings.Contains(name, "\n") {
		return "", "", ErrInvalidName
	}

	records, err := s.load(storage)
	if err != nil {
		return "", "", fmt.Errorf("commit: %w", err)
	}

	if name == "" {
		name = hash(text, s.config.HashAlgorithm)
	}
	name = unique(records, name)

	rec := s.encode(newResolver(records), name, text)
	records = append(records, rec)

	s.config.Logger.Debug("commit", "name", name, "kind", rec.Kind, "target", rec.Target, "versions", len(records))

	out, err := s.save(records)
	if err != nil {
		return "", "", fmt.Errorf("commit: %w", err)
	}
	return out, name, nil
}

// unique appends '#' to name until no record uses it.
func unique(records []Record, name string) string {
	taken := make(map[string]bool, len(records))
	for _, r := range records {
		taken[r.Name] = true
	}
	for taken[name] {
		name += "#"
	}
	return name
}

// encode chooses the record for text appended after rv.records.
func (s *Store) encode(rv *resolver, name, text string) Record {
	texts := s.texts(rv)

	for i, t := range texts {
		if t != nil && *t == text {
			return Record{Name: name, Kind: KindReference, Target: rv.records[i].Name}
		}
	}

	best := Record{Name: name, Kind: KindSnapshot, Text: text}
	size := -1
	for _, c := range s.candidates(rv, texts, name, text) {
		if n := len(line(c)); size < 0 || n < size {
			best, size = c, n
		}
	}
	return best
}

// candidates lists the encodings considered for text, in tie-break order:
// the delta against the predecessor, then a hybrid against each earlier
// version in ascending position. Versions that cannot be resolved are
// left out. An empty store has no candidates.
func (s *Store) candidates(rv *resolver, texts []*string, name, text string) []Record {
	n := len(rv.records)
	if n == 0 {
		return nil
	}

	var out []Record
	if prev := texts[n-1]; prev != nil {
		out = append(out, Record{
			Name: name,
			Kind: KindDelta,
			Ops:  script(s.config.Differ, *prev, text),
			Base: n - 1,
		})
	}
	for i := 0; i < n-1; i++ {
		if texts[i] == nil {
			continue
		}
		out = append(out, Record{
			Name:   name,
			Kind:   KindHybrid,
			Target: rv.records[i].Name,
			Ops:    script(s.config.Differ, *texts[i], text),
		})
	}
	return out
}

// texts resolves every record, leaving nil for those that cannot be
// resolved.
func (s *Store) texts(rv *resolver) []*string {
	out := make([]*string, len(rv.records))
	for i := range rv.records {
		t, err := rv.at(i)
		if err != nil {
			s.config.Logger.Warn("skipping unresolvable version", "name", rv.records[i].Name, "err", err)
			continue
		}
		out[i] = &t
	}
	return out
}
