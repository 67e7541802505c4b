package revlog

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func openTestFile(t *testing.T, dir string) *File {
	t.Helper()
	f, err := Open(dir, "doc.rev", Config{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return f
}

func TestFileCreate(t *testing.T) {
	dir := t.TempDir()
	f := openTestFile(t, dir)
	defer f.Close()

	info, err := os.Stat(filepath.Join(dir, "doc.rev"))
	if err != nil {
		t.Fatalf("storage file not created: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("new storage file has %d bytes, want 0", info.Size())
	}
	if _, err := os.Stat(filepath.Join(dir, "doc.rev.lock")); err != nil {
		t.Errorf("lock file not created: %v", err)
	}
}

func TestFileOperations(t *testing.T) {
	f := openTestFile(t, t.TempDir())
	defer f.Close()

	for i, text := range history {
		name, err := f.Commit(text, historyNames[i])
		if err != nil {
			t.Fatalf("commit %s: %v", historyNames[i], err)
		}
		if name != historyNames[i] {
			t.Errorf("name = %q, want %q", name, historyNames[i])
		}
	}

	got, err := f.Show("v3")
	if err != nil || got != history[2] {
		t.Errorf("show v3 = %q, %v", got, err)
	}
	latest, err := f.Latest()
	if err != nil || latest != history[4] {
		t.Errorf("latest = %q, %v", latest, err)
	}

	if err := f.Reset("v4"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := f.Squash("v2"); err != nil {
		t.Fatalf("squash: %v", err)
	}

	entries, err := f.Log()
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if len(entries) != 3 || entries[0].Name != "v2" || !entries[0].Snapshot {
		t.Errorf("log = %+v, want v2 snapshot then two more", entries)
	}

	problems, err := f.Verify()
	if err != nil || len(problems) != 0 {
		t.Errorf("verify = %v, %v", problems, err)
	}
}

func TestFileErrorsLeaveStorageUntouched(t *testing.T) {
	dir := t.TempDir()
	f := openTestFile(t, dir)
	defer f.Close()

	f.Commit("one", "v1")
	before, _ := os.ReadFile(filepath.Join(dir, "doc.rev"))

	if err := f.Reset("missing"); !errors.Is(err, ErrTargetMissing) {
		t.Errorf("reset error = %v, want ErrTargetMissing", err)
	}
	after, _ := os.ReadFile(filepath.Join(dir, "doc.rev"))
	if string(before) != string(after) {
		t.Error("failed reset modified storage")
	}
}

func TestFileReopen(t *testing.T) {
	dir := t.TempDir()

	f := openTestFile(t, dir)
	f.Commit("persisted text", "v1")
	f.Commit("persisted text, edited", "v2")
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	f = openTestFile(t, dir)
	defer f.Close()
	got, err := f.Show("v2")
	if err != nil {
		t.Fatalf("show after reopen: %v", err)
	}
	if got != "persisted text, edited" {
		t.Errorf("show v2 = %q", got)
	}
}

func TestFileCompressed(t *testing.T) {
	dir := t.TempDir()
	f, err := Open(dir, "doc.rev", Config{Compression: Zstd{}})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	f.Commit("compressed on disk", "v1")

	raw, _ := os.ReadFile(filepath.Join(dir, "doc.rev"))
	if _, err := (Zstd{}).Decompress(string(raw)); err != nil {
		t.Errorf("file is not zstd storage: %v", err)
	}
	if got, _ := f.Show("v1"); got != "compressed on disk" {
		t.Errorf("show v1 = %q", got)
	}
}

func TestFileRemovesOrphanedTemp(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "doc.rev"), []byte(":2:v1:kept"), 0644)
	os.WriteFile(filepath.Join(dir, "doc.rev.tmp"), []byte("half written"), 0644)

	f := openTestFile(t, dir)
	defer f.Close()

	if _, err := os.Stat(filepath.Join(dir, "doc.rev.tmp")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("orphaned .tmp still present: %v", err)
	}
	if got, _ := f.Show("v1"); got != "kept" {
		t.Errorf("show v1 = %q, want %q", got, "kept")
	}
}

func TestFileClosed(t *testing.T) {
	f := openTestFile(t, t.TempDir())
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if _, err := f.Commit("x", "v1"); !errors.Is(err, ErrClosed) {
		t.Errorf("commit after close = %v, want ErrClosed", err)
	}
	if _, err := f.Show("v1"); !errors.Is(err, ErrClosed) {
		t.Errorf("show after close = %v, want ErrClosed", err)
	}
	if err := f.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("second close = %v, want ErrClosed", err)
	}
}

func TestFileConcurrentCommits(t *testing.T) {
	f := openTestFile(t, t.TempDir())
	defer f.Close()

	const n = 20
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.Commit(string(rune('a'+i)), "c"); err != nil {
				t.Errorf("commit: %v", err)
			}
		}()
	}
	wg.Wait()

	entries, err := f.Log()
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if len(entries) != n {
		t.Errorf("log has %d entries, want %d", len(entries), n)
	}
}

func TestFileOpenMissingDir(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing"), "doc.rev", Config{})
	if err == nil {
		t.Error("expected error opening in a missing directory")
	}
}
