// Diff provider integration.
//
// The engine never computes differences itself. A Differ classifies the
// two texts into equal, deleted and inserted runs, and script maps that
// classification onto edit operations. Equal, empty-old and empty-new
// inputs are answered directly without calling the provider.
package revlog

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ChangeKind classifies a run of text produced by a Differ.
type ChangeKind int

// Change kinds.
const (
	ChangeEqual ChangeKind = iota
	ChangeDelete
	ChangeInsert
)

// Change is one classified run of text.
type Change struct {
	Kind ChangeKind
	Text string
}

// Differ computes a minimal, longest-common-subsequence based difference
// between two texts. Implementations must be free of shared mutable state;
// the engine calls Diff synchronously and never reentrantly.
type Differ interface {
	Diff(old, new string) []Change
}

// MatchPatch is the default Differ, backed by diff-match-patch. The
// timeout is disabled so that output is minimal and deterministic for a
// given pair of texts regardless of machine speed.
type MatchPatch struct {
	dmp *diffmatchpatch.DiffMatchPatch
}

// NewMatchPatch returns a ready-to-use MatchPatch differ.
func NewMatchPatch() *MatchPatch {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	return &MatchPatch{dmp: dmp}
}

// Diff implements Differ.
func (m *MatchPatch) Diff(old, new string) []Change {
	diffs := m.dmp.DiffMain(old, new, false)
	out := make([]Change, 0, len(diffs))
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			out = append(out, Change{ChangeEqual, d.Text})
		case diffmatchpatch.DiffDelete:
			out = append(out, Change{ChangeDelete, d.Text})
		case diffmatchpatch.DiffInsert:
			out = append(out, Change{ChangeInsert, d.Text})
		}
	}
	return out
}

// script returns the edit script transforming old into new.
func script(d Differ, old, new string) Script {
	switch {
	case old == new:
		if n := utf8.RuneCountInString(old); n > 0 {
			return Script{Retain(n)}
		}
		return nil
	case old == "":
		return Script{Insert(new)}
	case new == "":
		return Script{Delete(utf8.RuneCountInString(old))}
	}

	var out Script
	for _, c := range d.Diff(old, new) {
		if c.Text == "" {
			continue
		}
		switch c.Kind {
		case ChangeEqual:
			out = append(out, Retain(utf8.RuneCountInString(c.Text)))
		case ChangeDelete:
			out = append(out, Delete(utf8.RuneCountInString(c.Text)))
		case ChangeInsert:
			out = append(out, Insert(c.Text))
		}
	}
	return out
}
