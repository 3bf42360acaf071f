package utils

import "regexp"

var nonWordRegex = regexp.MustCompile(`\W`)

// RemoveNonWord replaces every non-word character in a provider-supplied
// string. References and event codes pass through logs and notes, so they
// must not be able to smuggle control characters.
func RemoveNonWord(raw string, replace string) string {
	return nonWordRegex.ReplaceAllString(raw, replace)
}
