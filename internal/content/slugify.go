package content

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/goliatone/go-slug"
)

var (
	controlChars  = regexp.MustCompile(`[\x{0000}-\x{001F}]`)
	specialChars  = regexp.MustCompile(`[\s~` + "`" + `!@#$%^&*()\-_+=\[\]{}|\\;:"'“”‘’<>,.?/]+`)
	repeatedDash  = regexp.MustCompile(`-{2,}`)
	edgeDashes    = regexp.MustCompile(`^-+|-+$`)
	leadingNumber = regexp.MustCompile(`^(\d)`)
)

// Slugify turns heading text into an anchor id. Letters outside ASCII are
// kept so headings in any script stay addressable.
func Slugify(s string) string {
	s = controlChars.ReplaceAllString(s, "")
	s = specialChars.ReplaceAllString(s, "-")
	s = repeatedDash.ReplaceAllString(s, "-")
	s = edgeDashes.ReplaceAllString(s, "")
	s = leadingNumber.ReplaceAllString(s, "_$1")
	return strings.ToLower(s)
}

// PostSlug returns the slug of a post file. A front matter override is
// normalized; otherwise the file name without extension is used as is.
func PostSlug(file, override string) (string, error) {
	if strings.TrimSpace(override) != "" {
		normalized, err := slug.Normalize(override)
		if err != nil {
			return "", err
		}
		if normalized != "" {
			return normalized, nil
		}
	}
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base)), nil
}
