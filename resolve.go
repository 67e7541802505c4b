// Version reconstruction.
//
// A snapshot resolves to its own text. A reference resolves to its
// target, and a hybrid reference applies its script to the target. A delta
// applies its script to the resolved text of the record at its base
// position; consecutive deltas are replayed forward from the nearest
// record that is not a delta, so the cost is proportional to the distance
// back to that anchor.
//
// Targets must name a record at an earlier position. Storage built through
// Commit always satisfies this, but a squash can leave a reference pointing
// at a record it removed, and hand-written storage can point forward. Both
// are reported as ErrUnresolvable instead of recursing.
//
// The resolver memoises text by position for the lifetime of one public
// call. Nothing is cached between calls.
package revlog

import "fmt"

type resolver struct {
	records []Record
	names   map[string]int
	cache   map[int]string
}

func newResolver(records []Record) *resolver {
	names := make(map[string]int, len(records))
	for i, r := range records {
		if _, dup := names[r.Name]; !dup {
			names[r.Name] = i
		}
	}
	return &resolver{
		records: records,
		names:   names,
		cache:   make(map[int]string),
	}
}

// lookup returns the position of name, or -1.
func (rv *resolver) lookup(name string) int {
	if i, ok := rv.names[name]; ok {
		return i
	}
	return -1
}

// name resolves the version called name. ErrNotFound is returned when no
// record has that name.
func (rv *resolver) name(name string) (string, error) {
	i := rv.lookup(name)
	if i < 0 {
		return "", ErrNotFound
	}
	return rv.at(i)
}

// at resolves the record at position i.
func (rv *resolver) at(i int) (string, error) {
	if text, ok := rv.cache[i]; ok {
		return text, nil
	}

	// Walk back over the delta chain to its anchor.
	anchor := i
	for anchor >= 0 && rv.records[anchor].Kind == KindDelta {
		anchor = rv.records[anchor].Base
	}
	if anchor < 0 {
		return "", fmt.Errorf("%w: %q: delta chain has no anchor", ErrUnresolvable, rv.records[i].Name)
	}

	text, err := rv.anchor(anchor)
	if err != nil {
		return "", err
	}
	rv.cache[anchor] = text

	for j := anchor + 1; j <= i; j++ {
		if cached, ok := rv.cache[j]; ok {
			text = cached
			continue
		}
		r := rv.records[j]
		if r.bad != nil {
			return "", r.bad
		}
		text, err = apply(text, r.Ops)
		if err != nil {
			return "", fmt.Errorf("%q: %w", r.Name, err)
		}
		rv.cache[j] = text
	}
	return text, nil
}

// anchor resolves a record that is not a delta.
func (rv *resolver) anchor(i int) (string, error) {
	r := rv.records[i]
	switch r.Kind {
	case KindSnapshot:
		return r.Text, nil
	case KindReference, KindHybrid:
		t := rv.lookup(r.Target)
		if t < 0 {
			return "", fmt.Errorf("%w: %q: target %q does not exist", ErrUnresolvable, r.Name, r.Target)
		}
		if t >= i {
			return "", fmt.Errorf("%w: %q: target %q is not earlier", ErrUnresolvable, r.Name, r.Target)
		}
		base, err := rv.at(t)
		if err != nil {
			return "", err
		}
		if r.Kind == KindReference {
			return base, nil
		}
		text, err := apply(base, r.Ops)
		if err != nil {
			return "", fmt.Errorf("%q: %w", r.Name, err)
		}
		return text, nil
	default:
		return "", fmt.Errorf("%w: %q: unknown kind %d", ErrCorruptRecord, r.Name, r.Kind)
	}
}
