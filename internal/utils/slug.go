package utils

import "regexp"

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidSlug reports whether s is a usable team URL slug: lowercase
// alphanumerics separated by single hyphens, 2-100 characters.
func ValidSlug(s string) bool {
	if len(s) < 2 || len(s) > 100 {
		return false
	}
	return slugPattern.MatchString(s)
}
