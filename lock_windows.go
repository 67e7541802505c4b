//go:build windows

package revlog

import "golang.org/x/sys/windows"

// Lock the whole file: offset 0, length 0xFFFFFFFF_FFFFFFFF.
const lockLow, lockHigh = 0xFFFFFFFF, 0xFFFFFFFF

func (l *fileLock) lock(mode LockMode) error {
	var flags uint32
	if mode == LockExclusive {
		flags |= windows.LOCKFILE_EXCLUSIVE_LOCK
	}
	ol := new(windows.Overlapped)
	return windows.LockFileEx(windows.Handle(l.f.Fd()), flags, 0, lockLow, lockHigh, ol)
}

func (l *fileLock) unlock() error {
	ol := new(windows.Overlapped)
	return windows.UnlockFileEx(windows.Handle(l.f.Fd()), 0, lockLow, lockHigh, ol)
}
