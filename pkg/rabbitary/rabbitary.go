// Package rabbitary converts text to and from a binary rendering that uses
// two rabbits in place of the digits 0 and 1.
package rabbitary

import (
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

const (
	// Zero stands in for a 0 bit.
	Zero = "🐰"
	// One stands in for a 1 bit.
	One = "🐇"
)

var (
	zeroRune, _ = utf8.DecodeRuneInString(Zero)
	oneRune, _  = utf8.DecodeRuneInString(One)
)

// Encode renders every byte of text as eight symbols, most significant bit
// first.
func Encode(text string) string {
	var b strings.Builder
	b.Grow(len(text) * 8 * len(Zero))
	for i := 0; i < len(text); i++ {
		c := text[i]
		for bit := 7; bit >= 0; bit-- {
			if c&(1<<bit) != 0 {
				b.WriteString(One)
			} else {
				b.WriteString(Zero)
			}
		}
	}
	return b.String()
}

// Decode reverses Encode. Symbols are read in groups of eight and a trailing
// group shorter than that is dropped. Runes other than the two symbols are
// taken literally, so only '0' and '1' survive group parsing.
func Decode(symbolic string) (string, error) {
	out := make([]byte, 0, utf8.RuneCountInString(symbolic)/8)

	var (
		group [8]rune
		n     int
		index int
	)
	for _, r := range symbolic {
		switch r {
		case zeroRune:
			r = '0'
		case oneRune:
			r = '1'
		}
		group[n] = r
		n++
		if n < len(group) {
			continue
		}

		c, err := parseGroup(group)
		if err != nil {
			return "", &DecodeError{Kind: ErrInvalidDigitGroup, Group: index, Err: err}
		}
		out = append(out, c)
		n = 0
		index++
	}

	if !utf8.Valid(out) {
		return "", &DecodeError{Kind: ErrInvalidUTF8, Group: invalidGroup(out)}
	}
	return string(out), nil
}

func parseGroup(group [8]rune) (byte, error) {
	var c byte
	for i, r := range group {
		c <<= 1
		switch r {
		case '0':
		case '1':
			c |= 1
		default:
			return 0, errors.Errorf("position %d: %q is not a binary digit", i, r)
		}
	}
	return c, nil
}

// invalidGroup returns the index of the first byte that starts an invalid
// UTF-8 sequence.
func invalidGroup(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(b)
}

// SymbolCount returns how many rabbit symbols s contains.
func SymbolCount(s string) int {
	return strings.Count(s, Zero) + strings.Count(s, One)
}
