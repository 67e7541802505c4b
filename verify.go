// Integrity check over a storage value.
//
// Commit only ever produces resolvable records, but Squash does not
// rewrite references into the prefix it removes, and storage can be edited
// by hand. Verify resolves every version and reports the ones that fail,
// without changing anything.
package revlog

import "fmt"

// Problem describes a version that cannot be reconstructed.
type Problem struct {
	Name string `json:"name"`
	Err  error  `json:"-"`
}

func (p Problem) Error() string {
	return fmt.Sprintf("%s: %v", p.Name, p.Err)
}

// Unwrap allows errors.Is against the underlying sentinel.
func (p Problem) Unwrap() error {
	return p.Err
}

// Verify resolves every version and returns one Problem per failure. An
// error is returned only when the storage value itself cannot be loaded.
func (s *Store) Verify(storage string) ([]Problem, error) {
	records, err := s.load(storage)
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}

	var problems []Problem
	rv := newResolver(records)
	for i, r := range records {
		if i == 0 && r.Kind != KindSnapshot {
			problems = append(problems, Problem{r.Name, fmt.Errorf("%w: first version is a %s", ErrUnresolvable, r.Kind)})
			continue
		}
		if _, err := rv.at(i); err != nil {
			problems = append(problems, Problem{r.Name, err})
		}
	}
	return problems, nil
}
