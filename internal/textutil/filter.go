package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// FoldWidth maps full-width letters, digits, and punctuation to their narrow
// forms. Recognizers emit both depending on the font.
func FoldWidth(s string) string {
	return width.Narrow.String(s)
}

// KeepHan drops everything except Han ideographs.
func KeepHan(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Han, r) {
			return r
		}
		return -1
	}, s)
}

// KeepNameRunes keeps Han ideographs, letters, digits, and any rune in
// extra. Everything else, including whitespace and punctuation, is dropped.
func KeepNameRunes(s string, extra ...rune) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.Is(unicode.Han, r), unicode.IsLetter(r), unicode.IsDigit(r):
			return r
		}
		for _, e := range extra {
			if r == e {
				return r
			}
		}
		return -1
	}, s)
}
