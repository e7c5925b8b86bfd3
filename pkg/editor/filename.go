package editor

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	extensionPattern  = regexp.MustCompile(`(?i)\.[a-z0-9]+$`)
	datePrefixPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}_`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// stripDiacritics folds accented characters to their base form so slugs
// stay portable across filesystems.
var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// slugify lowercases the title and collapses whitespace to underscores.
// An empty or unusable title falls back to "lesson".
func slugify(title string) string {
	s := strings.TrimSpace(title)
	if folded, _, err := transform.String(stripDiacritics, s); err == nil {
		s = folded
	}
	s = strings.ToLower(s)
	s = whitespacePattern.ReplaceAllString(s, "_")
	if s == "" {
		return "lesson"
	}
	return s
}

// normalizeFilename applies the filename rules: a blank name is derived
// from the date and title slug; a date prefix that disagrees with the form
// date is rewritten; a missing extension gets the content document's.
func normalizeFilename(filename, date, title string) string {
	name := strings.TrimSpace(filename)
	if name == "" {
		name = fmt.Sprintf("%s_%s", date, slugify(title))
	}
	if datePrefixPattern.MatchString(name) && name[:10] != date {
		name = datePrefixPattern.ReplaceAllString(name, date+"_")
	}
	if !extensionPattern.MatchString(name) {
		name += ".html"
	}
	return name
}

// contentPath builds the manifest-relative storage path of a content item.
func contentPath(student, course, filename string) string {
	return fmt.Sprintf("materials/%s/%s/%s", student, course, filename)
}

// baseName returns the last path segment, mirroring how filenames are
// presented back in the form.
func baseName(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
