// Cross-process locking of a storage file.
//
// Locks are taken on a companion "<name>.lock" file. The storage file is
// replaced by rename on every write, so it cannot carry the lock itself.
// Readers share the lock; Commit, Reset and Squash hold it exclusively for
// the whole read-modify-write.
package revlog

import (
	"os"
	"sync"
)

// LockMode selects shared (read) or exclusive (write) locking.
type LockMode int

const (
	LockShared LockMode = iota
	LockExclusive
)

// fileLock holds the lock file handle. mu keeps Fd() from racing with
// File.Close.
type fileLock struct {
	mu sync.Mutex
	f  *os.File
}

// Lock blocks until the lock is held in mode. It is a no-op once the lock
// has been released by Close.
func (l *fileLock) Lock(mode LockMode) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	return l.lock(mode)
}

// Unlock drops the lock.
func (l *fileLock) Unlock() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	return l.unlock()
}

// release detaches the handle, waiting for any flock call in progress.
// The caller closes the file afterwards.
func (l *fileLock) release() {
	l.mu.Lock()
	l.f = nil
	l.mu.Unlock()
}
