package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	unsafeFilenameChars = regexp.MustCompile(`[<>:"'/\\|?*\x00-\x1f]`)
	repeatedDots        = regexp.MustCompile(`\.{2,}`)
)

const maxFilenameLength = 255

// SanitizeFilename makes a client supplied filename safe to store and echo
// back in Content-Disposition headers.
func SanitizeFilename(name string) string {
	name = strings.ToValidUTF8(name, "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = repeatedDots.ReplaceAllString(name, ".")
	name = strings.Trim(name, ". ")

	if utf8.RuneCountInString(name) > maxFilenameLength {
		runes := []rune(name)
		name = string(runes[:maxFilenameLength])
	}
	if name == "" {
		return "unnamed"
	}
	return name
}
