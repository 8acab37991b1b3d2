package jobs

import (
	"math/rand/v2"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	maxSlugLength  = 80
	suffixLength   = 4
	suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	fallbackSlug   = "job"
)

// Slugify turns a title into a URL slug: diacritics folded, lowercase,
// quote characters dropped, every other run of non-alphanumerics collapsed
// to one hyphen, hyphens trimmed, at most 80 characters.
func Slugify(s string) string {
	// a transform chain keeps state, so build one per call
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(fold, s); err == nil {
		s = folded
	}
	s = strings.ToLower(s)

	var b strings.Builder
	pendingHyphen := false
	for _, r := range s {
		switch {
		case isQuote(r):
			continue
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}

	slug := b.String()
	if len(slug) > maxSlugLength {
		slug = strings.TrimRight(slug[:maxSlugLength], "-")
	}
	return slug
}

func isQuote(r rune) bool {
	switch r {
	case '\'', '"', '`', '‘', '’', '“', '”':
		return true
	}
	return false
}

// withSuffix appends a hyphen and a random lowercase alphanumeric suffix
func withSuffix(slug string) string {
	suffix := make([]byte, suffixLength)
	for i := range suffix {
		suffix[i] = suffixAlphabet[rand.IntN(len(suffixAlphabet))]
	}
	return slug + "-" + string(suffix)
}
