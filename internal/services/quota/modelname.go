package quota

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	modelIDPrefix         = "claude-"
	marketingSuffixMarker = "·"
)

var (
	dateSuffixRe   = regexp.MustCompile(`-\d{8}$`)
	versionSpaceRe = regexp.MustCompile(`(\d)\s+(\d)`)
)

// NormalizeModelName turns a raw model identifier such as
// "claude-sonnet-4-5-20250929" into a display name ("Sonnet 4.5").
// It never fails and is idempotent on its own output.
func NormalizeModelName(rawID string) string {
	name := strings.TrimPrefix(rawID, modelIDPrefix)
	name = dateSuffixRe.ReplaceAllString(name, "")
	name = strings.ReplaceAll(name, "-", " ")

	// "4 5" -> "4.5"; loop until stable so "1 2 3" cannot survive a pass.
	for {
		next := versionSpaceRe.ReplaceAllString(name, "$1.$2")
		if next == name {
			break
		}
		name = next
	}

	// Drop marketing suffixes like "· Best for everyday tasks".
	if idx := strings.Index(name, marketingSuffixMarker); idx >= 0 {
		name = strings.TrimSpace(name[:idx])
	}

	words := strings.Split(name, " ")
	for i, word := range words {
		words[i] = capitalize(word)
	}
	return strings.Join(words, " ")
}

// capitalize upper-cases the first rune and keeps the rest untouched, so
// "4.5" and "GPT" pass through unchanged.
func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return word
	}
	return string(unicode.ToUpper(r)) + word[size:]
}
