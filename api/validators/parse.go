package validators

import "strings"

// ParseBool accepts the checkbox spellings browsers and form builders send.
func ParseBool(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "true", "on", "yes", "1":
		return true
	}
	return false
}
