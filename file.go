// File persists a storage value on disk.
//
// The storage value lives in a single file inside an os.Root. Reads take a
// shared lock, writes an exclusive one, both on a companion "<name>.lock"
// file so that separate processes never interleave a read-modify-write.
//
// A write never modifies the storage file in place. The new value is
// written to "<name>.tmp", synced, then renamed over the original. A crash
// during the write leaves the original intact and at worst orphans the
// .tmp file, which is removed on the next Open.
package revlog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"sync/atomic"
)

// File is a Store bound to a storage value on disk.
type File struct {
	root   *os.Root
	name   string
	store  *Store
	lockf  *os.File
	lock   *fileLock
	mu     sync.RWMutex
	closed atomic.Bool
}

// Open opens or creates the storage file name inside dir.
func Open(dir, name string, config Config) (*File, error) {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, err
	}

	if _, err := root.Stat(name); errors.Is(err, fs.ErrNotExist) {
		if err := root.WriteFile(name, nil, 0644); err != nil {
			root.Close()
			return nil, fmt.Errorf("open: create: %w", err)
		}
	} else if err != nil {
		root.Close()
		return nil, err
	}

	lockf, err := root.OpenFile(name+".lock", os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		root.Close()
		return nil, fmt.Errorf("open: lock file: %w", err)
	}

	f := &File{
		root:  root,
		name:  name,
		store: New(config),
		lockf: lockf,
		lock:  &fileLock{f: lockf},
	}

	// Orphaned by a crash between create and rename.
	if _, err := root.Stat(name + ".tmp"); err == nil {
		if err := f.lock.Lock(LockExclusive); err == nil {
			root.Remove(name + ".tmp")
			f.lock.Unlock()
		}
	}

	return f, nil
}

// Close releases the file handles. Further calls return ErrClosed.
func (f *File) Close() error {
	if f.closed.Swap(true) {
		return ErrClosed
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.lock.release()

	var errs []error
	if err := f.lockf.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := f.root.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// view runs fn against the current storage value under a shared lock.
func (f *File) view(fn func(storage string) error) error {
	if f.closed.Load() {
		return ErrClosed
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed.Load() {
		return ErrClosed
	}

	if err := f.lock.Lock(LockShared); err != nil {
		return err
	}
	defer f.lock.Unlock()

	data, err := f.root.ReadFile(f.name)
	if err != nil {
		return err
	}
	return fn(string(data))
}

// update replaces the storage value with the result of fn under an
// exclusive lock.
func (f *File) update(fn func(storage string) (string, error)) error {
	if f.closed.Load() {
		return ErrClosed
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed.Load() {
		return ErrClosed
	}

	if err := f.lock.Lock(LockExclusive); err != nil {
		return err
	}
	defer f.lock.Unlock()

	data, err := f.root.ReadFile(f.name)
	if err != nil {
		return err
	}
	out, err := fn(string(data))
	if err != nil {
		return err
	}
	return f.replace(out)
}

// replace writes storage to the .tmp file and renames it into place.
func (f *File) replace(storage string) error {
	tmp, err := f.root.Create(f.name + ".tmp")
	if err != nil {
		return fmt.Errorf("replace: create temp: %w", err)
	}
	if _, err := tmp.WriteString(storage); err != nil {
		tmp.Close()
		f.root.Remove(f.name + ".tmp")
		return fmt.Errorf("replace: write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		f.root.Remove(f.name + ".tmp")
		return fmt.Errorf("replace: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		f.root.Remove(f.name + ".tmp")
		return fmt.Errorf("replace: close: %w", err)
	}
	if err := f.root.Rename(f.name+".tmp", f.name); err != nil {
		return fmt.Errorf("replace: rename: %w", err)
	}
	return nil
}

// Commit stores text as a new version. See Store.Commit.
func (f *File) Commit(text, name string) (string, error) {
	var assigned string
	err := f.update(func(storage string) (string, error) {
		out, n, err := f.store.Commit(storage, text, name)
		assigned = n
		return out, err
	})
	if err != nil {
		return "", err
	}
	return assigned, nil
}

// Reset drops every version after target. See Store.Reset.
func (f *File) Reset(target string) error {
	return f.update(func(storage string) (string, error) {
		return f.store.Reset(storage, target)
	})
}

// Squash drops every version before target. See Store.Squash.
func (f *File) Squash(target string) error {
	return f.update(func(storage string) (string, error) {
		return f.store.Squash(storage, target)
	})
}

// Show returns the full text of the named version. See Store.Show.
func (f *File) Show(name string) (string, error) {
	var text string
	err := f.view(func(storage string) (err error) {
		text, err = f.store.Show(storage, name)
		return err
	})
	return text, err
}

// Log lists every version in commit order. See Store.Log.
func (f *File) Log() ([]Entry, error) {
	var entries []Entry
	err := f.view(func(storage string) (err error) {
		entries, err = f.store.Log(storage)
		return err
	})
	return entries, err
}

// Latest returns the most recent version's text. See Store.Latest.
func (f *File) Latest() (string, error) {
	var text string
	err := f.view(func(storage string) (err error) {
		text, err = f.store.Latest(storage)
		return err
	})
	return text, err
}

// Verify reports versions that cannot be reconstructed. See Store.Verify.
func (f *File) Verify() ([]Problem, error) {
	var problems []Problem
	err := f.view(func(storage string) (err error) {
		problems, err = f.store.Verify(storage)
		return err
	})
	return problems, err
}
