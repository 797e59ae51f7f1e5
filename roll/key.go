package roll

import (
	"cmp"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Key is a print-key code, the section-block-lot identifier that names one
// parcel within a roll.
//
// Components are kept verbatim: "0001" and "1" are different blocks.
type Key struct {
	Section string
	Block   string
	Lot     string
}

// String returns the canonical "section-block-lot" form.
func (k Key) String() string {
	return k.Section + "-" + k.Block + "-" + k.Lot
}

// IsZero reports whether k has no components.
func (k Key) IsZero() bool { return k == Key{} }

// Compare orders keys by section, then block, then lot, each compared as
// strings.
func (k Key) Compare(o Key) int {
	return cmp.Or(
		strings.Compare(k.Section, o.Section),
		strings.Compare(k.Block, o.Block),
		strings.Compare(k.Lot, o.Lot),
	)
}

// MarshalText implements encoding.TextMarshaler.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using [ParseKey].
func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := ParseKey(string(text))
	if err != nil {
		return err
	}

	*k = parsed

	return nil
}

// keyParts is the number of components in a key.
const keyParts = 3

// ParseKey parses s as "section-block-lot". Each component is one or more
// ASCII digits or '.'; components are separated by exactly one '-', and
// nothing else may appear. Whitespace is not trimmed.
//
// On failure the returned error matches [ErrMalformedKeyCode] and wraps a
// [*SyntaxError].
func ParseKey(s string) (Key, error) {
	var (
		parts [keyParts]string
		start int
		n     int
	)

	for i := 0; i <= len(s); i++ {
		if i < len(s) && isKeyByte(s[i]) {
			continue
		}

		if i == start {
			return Key{}, malformed(s, i, emptyReason(s, i))
		}

		parts[n] = s[start:i]
		n++

		if i == len(s) {
			break
		}

		if s[i] != '-' {
			return Key{}, malformed(s, i, "unexpected "+quoteAt(s, i))
		}

		if n == keyParts {
			return Key{}, malformed(s, i, "unexpected trailing input")
		}

		start = i + 1
	}

	if n < keyParts {
		return Key{}, malformed(s, len(s), "missing component")
	}

	return Key{Section: parts[0], Block: parts[1], Lot: parts[2]}, nil
}

func isKeyByte(c byte) bool {
	return ('0' <= c && c <= '9') || c == '.'
}

func emptyReason(s string, i int) string {
	switch {
	case len(s) == 0:
		return "empty input"
	case i == len(s):
		return "missing component"
	case s[i] == '-':
		return "empty component"
	default:
		return "expected digit or '.', found " + quoteAt(s, i)
	}
}

// quoteAt quotes the character starting at byte offset i of s.
func quoteAt(s string, i int) string {
	r, size := utf8.DecodeRuneInString(s[i:])
	if r == utf8.RuneError && size <= 1 {
		return "invalid UTF-8"
	}

	return strconv.QuoteRune(r)
}

func malformed(s string, offset int, reason string) *Error {
	return ErrMalformedKeyCode.
		Wrap(&SyntaxError{Input: s, Reason: reason, Offset: offset}).
		With(slog.String("marker", s), slog.String("reason", reason))
}
