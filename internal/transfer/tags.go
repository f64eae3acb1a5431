package transfer

import (
	"fmt"
	"regexp"
	"strings"
)

// Run tags are "key" or "key:value". The server enforces the same shapes;
// validating here keeps a typo from failing the whole upload.
var (
	tagKeyPattern   = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_.-]{0,49}$`)
	tagValuePattern = regexp.MustCompile(`^[a-zA-Z0-9_.\-/\s]{1,100}$`)
)

// ProcessTags normalizes raw tag arguments into "key:value" form. A bare key
// gets the value "true". Invalid tags are dropped, each with a warning the
// caller should surface; they are never fatal.
func ProcessTags(raw []string) (tags []string, warnings []string) {
	for _, s := range raw {
		key, value := s, "true"
		if i := strings.Index(s, ":"); i >= 0 {
			key, value = s[:i], s[i+1:]
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if !tagKeyPattern.MatchString(key) {
			warnings = append(warnings, fmt.Sprintf(
				"Invalid tag key %q. Must start with a letter, and be 1-50 characters long. Allowed characters: letters, numbers, '_', '-', '.'", key))
			continue
		}
		if !tagValuePattern.MatchString(value) {
			warnings = append(warnings, fmt.Sprintf(
				"Invalid tag value %q. Must be 1-100 characters long. Allowed characters: letters, numbers, spaces, '_', '-', '.', '/'", value))
			continue
		}
		tags = append(tags, key+":"+value)
	}
	return tags, warnings
}
