package utils

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-pinyin"
	"golang.org/x/text/unicode/norm"
)

// Slugify turns a barbershop name into the path segment of its public booking page.
// Latin accents are stripped and Han characters are spelled out in pinyin.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true

	writeWord := func(word string) {
		for _, r := range word {
			if r > unicode.MaxASCII {
				continue
			}
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(unicode.ToLower(r))
				lastDash = false
			} else if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	for _, r := range norm.NFD.String(name) {
		switch {
		case unicode.Is(unicode.Han, r):
			for _, syllable := range pinyin.LazyConvert(string(r), nil) {
				if !lastDash {
					b.WriteByte('-')
				}
				writeWord(syllable)
			}
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		case unicode.Is(unicode.Mn, r):
			// combining accent left over from decomposition
		default:
			writeWord(string(r))
		}
	}

	return strings.Trim(b.String(), "-")
}
