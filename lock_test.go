package revlog

import (
	"testing"
	"time"
)

func TestLocking(t *testing.T) {
	tmp := t.TempDir()

	// Two handles on the same storage simulate two processes: flock is
	// held per open file description.
	f1, err := Open(tmp, "test.rev", Config{})
	if err != nil {
		t.Fatalf("f1 open failed: %v", err)
	}
	defer f1.Close()

	f2, err := Open(tmp, "test.rev", Config{})
	if err != nil {
		t.Fatalf("f2 open failed: %v", err)
	}
	defer f2.Close()

	if err := f1.lock.Lock(LockExclusive); err != nil {
		t.Fatalf("f1 manual lock failed: %v", err)
	}

	done := make(chan bool)
	go func() {
		if _, err := f2.Commit("blocked", "v1"); err != nil {
			t.Errorf("f2 commit failed: %v", err)
		}
		done <- true
	}()

	select {
	case <-done:
		t.Fatal("f2 committed while f1 held the lock")
	case <-time.After(100 * time.Millisecond):
		// Expected: f2 is blocked
	}

	f1.lock.Unlock()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("f2 failed to commit after release")
	}

	if got, _ := f1.Show("v1"); got != "blocked" {
		t.Errorf("f1 sees %q, want the commit made through f2", got)
	}
}

func TestReadWriteLocking(t *testing.T) {
	tmp := t.TempDir()

	f1, _ := Open(tmp, "rw.rev", Config{})
	defer f1.Close()

	f2, _ := Open(tmp, "rw.rev", Config{})
	defer f2.Close()

	// f1 holds a shared lock; f2 wants exclusive and must wait.
	if err := f1.lock.Lock(LockShared); err != nil {
		t.Fatal(err)
	}

	done := make(chan bool)
	go func() {
		f2.lock.Lock(LockExclusive)
		f2.lock.Unlock()
		done <- true
	}()

	select {
	case <-done:
		t.Fatal("f2 acquired write lock while f1 held read lock")
	case <-time.After(100 * time.Millisecond):
	}

	f1.lock.Unlock()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("f2 stuck")
	}
}

func TestSharedLocksCoexist(t *testing.T) {
	tmp := t.TempDir()

	f1, _ := Open(tmp, "shared.rev", Config{})
	defer f1.Close()
	f2, _ := Open(tmp, "shared.rev", Config{})
	defer f2.Close()

	if err := f1.lock.Lock(LockShared); err != nil {
		t.Fatal(err)
	}
	defer f1.lock.Unlock()

	done := make(chan error, 1)
	go func() { _, err := f2.Latest(); done <- err }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("latest: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("reader blocked by another reader")
	}
}

func TestLockAfterClose(t *testing.T) {
	f, err := Open(t.TempDir(), "closed.rev", Config{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	l := f.lock
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := l.Lock(LockExclusive); err != nil {
		t.Errorf("Lock after close = %v, want nil", err)
	}
	if err := l.Unlock(); err != nil {
		t.Errorf("Unlock after close = %v, want nil", err)
	}
}
