package usecase

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const fallbackFilename = "Resume"

// DeriveFilename builds First_Last[_Company].pdf. Only the first and last
// name tokens are used; every company token is kept.
func DeriveFilename(name, company string) string {
	parts := strings.Fields(name)
	base := fallbackFilename
	switch {
	case len(parts) >= 2:
		base = capitalize(parts[0]) + "_" + capitalize(parts[len(parts)-1])
	case len(parts) == 1:
		base = capitalize(parts[0])
	}
	if len(parts) > 0 {
		if c := capitalizeAll(company); c != "" {
			base += "_" + c
		}
	}
	return base + ".pdf"
}

func capitalizeAll(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, "_")
}

func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return word
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(word[size:])
}
