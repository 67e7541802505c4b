//go:build unix

package revlog

import "golang.org/x/sys/unix"

func (l *fileLock) lock(mode LockMode) error {
	how := unix.LOCK_SH
	if mode == LockExclusive {
		how = unix.LOCK_EX
	}
	// Blocking; callers wait for the other process.
	return unix.Flock(int(l.f.Fd()), how)
}

func (l *fileLock) unlock() error {
	return unix.Flock(int(l.f.Fd()), unix.LOCK_UN)
}
