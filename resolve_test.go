package revlog

import (
	"errors"
	"testing"
)

func mustParse(t *testing.T, storage string) []Record {
	t.Helper()
	return parse(storage, discard())
}

func TestResolveKinds(t *testing.T) {
	storage := ":2:v1:Hello, World!\n" +
		"2:v2:R7D5I2:Go\n" +
		"2:v3:=v1\n" +
		"2:v4:=v2:R9I1:?\n" +
		"2:v5:I2:>>"

	tests := []struct {
		name string
		want string
	}{
		{"v1", "Hello, World!"},
		{"v2", "Hello, Go!"},
		{"v3", "Hello, World!"},
		{"v4", "Hello, Go?!"},
		{"v5", ">>Hello, Go?!"},
	}

	rv := newResolver(mustParse(t, storage))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := rv.name(tt.name)
			if err != nil {
				t.Fatalf("resolve %s: %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("resolve %s = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestResolveDeltaChain(t *testing.T) {
	storage := ":1:a:x\n1:b:I1:y\n1:c:I1:z\n1:d:D1"
	rv := newResolver(mustParse(t, storage))

	got, err := rv.name("d")
	if err != nil {
		t.Fatalf("resolve d: %v", err)
	}
	if got != "yx" {
		t.Errorf("resolve d = %q, want %q", got, "yx")
	}
	// Intermediate results are memoised for the rest of the call.
	if rv.cache[2] != "zyx" {
		t.Errorf("cache[2] = %q, want %q", rv.cache[2], "zyx")
	}
}

func TestResolveDeltaAfterReference(t *testing.T) {
	// c is a reference; d's base is c's resolved text, not b's.
	storage := ":1:a:abc\n1:b:D3I3:xyz\n1:c:=a\n1:d:R3I1:d"
	rv := newResolver(mustParse(t, storage))

	got, err := rv.name("d")
	if err != nil {
		t.Fatalf("resolve d: %v", err)
	}
	if got != "abcd" {
		t.Errorf("resolve d = %q, want %q", got, "abcd")
	}
}

func TestResolveNotFound(t *testing.T) {
	rv := newResolver(mustParse(t, ":2:v1:abc"))
	_, err := rv.name("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestResolveUnresolvable(t *testing.T) {
	tests := []struct {
		name    string
		storage string
		version string
	}{
		{"dangling reference", ":1:a:abc\n1:b:=gone", "b"},
		{"forward reference", ":1:a:abc\n1:b:=c\n1:c:=a", "b"},
		{"self reference", ":1:a:abc\n1:b:=b", "b"},
		{"delta without anchor", "1:a:I1:x\n1:b:I1:y", "b"},
		{"delta after dangling", ":1:a:abc\n1:b:=gone\n1:c:D1", "c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rv := newResolver(mustParse(t, tt.storage))
			_, err := rv.name(tt.version)
			if !errors.Is(err, ErrUnresolvable) {
				t.Errorf("error = %v, want ErrUnresolvable", err)
			}
		})
	}
}

func TestResolveScriptPastEnd(t *testing.T) {
	rv := newResolver(mustParse(t, ":1:a:abc\n1:b:R9"))
	_, err := rv.name("b")
	if !errors.Is(err, ErrCorruptScript) {
		t.Errorf("error = %v, want ErrCorruptScript", err)
	}
}
