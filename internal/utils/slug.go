package utils

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^\w\s-]`)
	slugSeparators   = regexp.MustCompile(`[\s_]+`)
	slugDashes       = regexp.MustCompile(`-+`)
)

const maxSlugBaseLength = 60

// Slugify lowercases text and reduces it to dash separated word characters.
func Slugify(text string) string {
	slug := strings.ToLower(strings.TrimSpace(text))
	slug = slugInvalidChars.ReplaceAllString(slug, "")
	slug = slugSeparators.ReplaceAllString(slug, "-")
	slug = slugDashes.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > maxSlugBaseLength {
		slug = strings.TrimRight(slug[:maxSlugBaseLength], "-")
	}
	return slug
}

// GenerateSlug builds a public slug such as "senior-designer-ab12cd34" from
// a title and the first eight hex digits of the record id.
func GenerateSlug(title, id string) string {
	suffix := strings.ReplaceAll(id, "-", "")
	if len(suffix) < 8 {
		suffix = strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	base := Slugify(title)
	if base == "" {
		return suffix[:8]
	}
	return base + "-" + suffix[:8]
}
