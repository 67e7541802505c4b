// Edit scripts: encoding, decoding and application.
//
// An edit script walks a base text with a cursor. Retain copies characters
// from the cursor, Delete skips them, Insert emits literal text without
// moving the cursor. Whatever remains of the base after the last operation
// is copied through, which is why trailing retains are never encoded:
//
//	R<n>          retain n characters
//	D<n>          delete n characters
//	I<n>:<text>   insert text, n characters long
//
// Lengths count Unicode code points, not bytes. Encoded scripts are escaped
// as a whole when written to a record, so insert lengths always refer to
// the unescaped text.
package revlog

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// OpKind identifies one of the three edit operations.
type OpKind int

// Edit operation kinds.
const (
	OpRetain OpKind = iota + 1
	OpDelete
	OpInsert
)

func (k OpKind) String() string {
	switch k {
	case OpRetain:
		return "retain"
	case OpDelete:
		return "delete"
	case OpInsert:
		return "insert"
	default:
		return "unknown"
	}
}

// Op is a single edit operation. N is used by retain and delete, Text by
// insert.
type Op struct {
	Kind OpKind
	N    int
	Text string
}

// Script is an ordered sequence of edit operations.
type Script []Op

// Retain returns an operation copying n characters from the base.
func Retain(n int) Op { return Op{Kind: OpRetain, N: n} }

// Delete returns an operation skipping n characters of the base.
func Delete(n int) Op { return Op{Kind: OpDelete, N: n} }

// Insert returns an operation emitting text.
func Insert(text string) Op { return Op{Kind: OpInsert, Text: text} }

// empty reports whether the operation has no effect and must not be encoded.
func (op Op) empty() bool {
	if op.Kind == OpInsert {
		return op.Text == ""
	}
	return op.N <= 0
}

// encodeScript serialises a script, dropping empty operations and any
// trailing retains.
func encodeScript(s Script) string {
	end := len(s)
	for end > 0 && (s[end-1].Kind == OpRetain || s[end-1].empty()) {
		end--
	}

	var b strings.Builder
	for _, op := range s[:end] {
		if op.empty() {
			continue
		}
		switch op.Kind {
		case OpRetain:
			b.WriteByte('R')
			b.WriteString(strconv.Itoa(op.N))
		case OpDelete:
			b.WriteByte('D')
			b.WriteString(strconv.Itoa(op.N))
		case OpInsert:
			b.WriteByte('I')
			b.WriteString(strconv.Itoa(utf8.RuneCountInString(op.Text)))
			b.WriteByte(':')
			b.WriteString(op.Text)
		}
	}
	return b.String()
}

// decodeScript parses an unescaped script. Any deviation from the token
// grammar is reported as ErrCorruptScript. Counts are not checked against
// a base here; apply does that.
func decodeScript(s string) (Script, error) {
	var out Script
	i := 0
	for i < len(s) {
		tag := s[i]
		i++

		start := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if start == i {
			return nil, fmt.Errorf("%w: missing length after %q at offset %d", ErrCorruptScript, tag, start-1)
		}
		n, err := strconv.Atoi(s[start:i])
		if err != nil {
			return nil, fmt.Errorf("%w: length at offset %d: %w", ErrCorruptScript, start, err)
		}

		switch tag {
		case 'R':
			if n > 0 {
				out = append(out, Retain(n))
			}
		case 'D':
			if n > 0 {
				out = append(out, Delete(n))
			}
		case 'I':
			if i >= len(s) || s[i] != ':' {
				return nil, fmt.Errorf("%w: missing separator after insert length at offset %d", ErrCorruptScript, i)
			}
			i++
			textStart := i
			for range n {
				if i >= len(s) {
					return nil, fmt.Errorf("%w: insert of %d characters truncated", ErrCorruptScript, n)
				}
				_, size := utf8.DecodeRuneInString(s[i:])
				i += size
			}
			if n > 0 {
				out = append(out, Insert(s[textStart:i]))
			}
		default:
			return nil, fmt.Errorf("%w: unknown operation %q at offset %d", ErrCorruptScript, tag, start-1)
		}
	}
	return out, nil
}

// apply runs a script over base and returns the resulting text.
func apply(base string, s Script) (string, error) {
	src := []rune(base)
	cursor := 0

	var b strings.Builder
	b.Grow(len(base))
	for _, op := range s {
		switch op.Kind {
		case OpRetain:
			if op.N < 0 || op.N > len(src)-cursor {
				return "", fmt.Errorf("%w: retain %d past end of %d-character base", ErrCorruptScript, op.N, len(src))
			}
			b.WriteString(string(src[cursor : cursor+op.N]))
			cursor += op.N
		case OpDelete:
			if op.N < 0 || op.N > len(src)-cursor {
				return "", fmt.Errorf("%w: delete %d past end of %d-character base", ErrCorruptScript, op.N, len(src))
			}
			cursor += op.N
		case OpInsert:
			b.WriteString(op.Text)
		default:
			return "", fmt.Errorf("%w: unknown operation kind %d", ErrCorruptScript, op.Kind)
		}
	}
	b.WriteString(string(src[cursor:]))
	return b.String(), nil
}
