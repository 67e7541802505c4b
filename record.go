// Record codec for the storage value.
//
// One record per line, blank lines ignored:
//
//	:<nameLen>:<name>:<escaped text>              snapshot
//	<nameLen>:<name>:<escaped script>             delta
//	<nameLen>:<name>:<escaped =target>            reference
//	<nameLen>:<name>:<escaped =target:script>     hybrid reference
//
// nameLen counts characters, and exactly that many are taken as the name
// regardless of what they contain. A line that does not fit this grammar is
// skipped with a warning. A delta whose script fails to decode is kept with
// its raw payload and reported when something tries to resolve it.
package revlog

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Kind identifies how a record stores its content.
type Kind int

// Record kinds.
const (
	KindSnapshot  Kind = iota + 1 // complete text
	KindDelta                     // script against the record at Base
	KindReference                 // identical to Target
	KindHybrid                    // script against Target
)

func (k Kind) String() string {
	switch k {
	case KindSnapshot:
		return "snapshot"
	case KindDelta:
		return "delta"
	case KindReference:
		return "reference"
	case KindHybrid:
		return "hybrid"
	default:
		return "unknown"
	}
}

// Record is one version in the storage value.
type Record struct {
	Name   string
	Kind   Kind
	Text   string // KindSnapshot
	Target string // KindReference, KindHybrid
	Ops    Script // KindDelta, KindHybrid
	Base   int    // KindDelta: position of the base record, always own position - 1

	raw string // undecodable delta payload, written back unchanged
	bad error  // why raw did not decode
}

// parse decodes a storage value into records in commit order.
// A delta whose script does not decode is kept; see Record.bad.
func parse(storage string, log *slog.Logger) []Record {
	var records []Record
	names := make(map[string]int)

	for n, ln := range strings.Split(storage, "\n") {
		if strings.TrimSpace(ln) == "" {
			continue
		}

		snapshot := ln[0] == ':'
		if snapshot {
			ln = ln[1:]
		}
		name, payload, ok := header(ln)
		if !ok {
			log.Warn("skipping malformed record", "line", n+1)
			continue
		}

		rec := Record{Name: name}
		if snapshot {
			rec.Kind = KindSnapshot
			rec.Text = unescape(payload)
		} else if err := body(&rec, unescape(payload), names); err != nil {
			log.Warn("undecodable edit script", "line", n+1, "name", name, "err", err)
			rec.Kind = KindDelta
			rec.raw = unescape(payload)
			rec.bad = fmt.Errorf("line %d: record %q: %w", n+1, name, err)
		}
		if rec.Kind == KindDelta {
			rec.Base = len(records) - 1
		}

		if _, dup := names[name]; !dup {
			names[name] = len(records)
		}
		records = append(records, rec)
	}
	return records
}

// header splits "<nameLen>:<name>:<payload>".
func header(s string) (name, payload string, ok bool) {
	colon := strings.IndexByte(s, ':')
	if colon <= 0 {
		return "", "", false
	}
	for i := range colon {
		if s[i] < '0' || s[i] > '9' {
			return "", "", false
		}
	}
	n, err := strconv.Atoi(s[:colon])
	if err != nil {
		return "", "", false
	}

	i := colon + 1
	for range n {
		if i >= len(s) {
			return "", "", false
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	if i >= len(s) || s[i] != ':' {
		return "", "", false
	}
	return s[colon+1 : i], s[i+1:], true
}

// body fills in a non-snapshot record from its unescaped payload. names
// holds every record parsed so far and disambiguates targets containing
// ':' from the script that may follow them.
func body(rec *Record, payload string, names map[string]int) error {
	if !strings.HasPrefix(payload, "=") {
		ops, err := decodeScript(payload)
		if err != nil {
			return err
		}
		rec.Kind = KindDelta
		rec.Ops = ops
		return nil
	}

	ref := payload[1:]
	if _, ok := names[ref]; ok {
		rec.Kind = KindReference
		rec.Target = ref
		return nil
	}

	for i := 0; i < len(ref); i++ {
		if ref[i] != ':' {
			continue
		}
		if _, ok := names[ref[:i]]; !ok || i+1 == len(ref) {
			continue
		}
		if ops, err := decodeScript(ref[i+1:]); err == nil {
			rec.Kind = KindHybrid
			rec.Target = ref[:i]
			rec.Ops = ops
			return nil
		}
	}

	// No prefix names an earlier record, so the target is gone. Split at
	// the first ':' that leaves a decodable script, else treat the whole
	// payload as the target.
	for i := 0; i < len(ref)-1; i++ {
		if ref[i] != ':' {
			continue
		}
		if ops, err := decodeScript(ref[i+1:]); err == nil {
			rec.Kind = KindHybrid
			rec.Target = ref[:i]
			rec.Ops = ops
			return nil
		}
	}
	rec.Kind = KindReference
	rec.Target = ref
	return nil
}

// line serialises a single record without its trailing newline.
func line(r Record) string {
	var payload string
	switch r.Kind {
	case KindSnapshot:
		payload = r.Text
	case KindDelta:
		payload = encodeScript(r.Ops)
		if r.bad != nil {
			payload = r.raw
		}
	case KindReference:
		payload = "=" + r.Target
	case KindHybrid:
		payload = "=" + r.Target + ":" + encodeScript(r.Ops)
	}

	var b strings.Builder
	if r.Kind == KindSnapshot {
		b.WriteByte(':')
	}
	b.WriteString(strconv.Itoa(utf8.RuneCountInString(r.Name)))
	b.WriteByte(':')
	b.WriteString(r.Name)
	b.WriteByte(':')
	b.WriteString(escape(payload))
	return b.String()
}

// serialize encodes records into a storage value.
func serialize(records []Record) string {
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = line(r)
	}
	return strings.Join(lines, "\n")
}

// rebase renumbers delta bases after records have been dropped from the
// front of the list.
func rebase(records []Record) {
	for i := range records {
		if records[i].Kind == KindDelta {
			records[i].Base = i - 1
		}
	}
}

// position returns the index of the first record called name, or -1.
func position(records []Record, name string) int {
	for i, r := range records {
		if r.Name == name {
			return i
		}
	}
	return -1
}
