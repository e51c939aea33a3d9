package intake

import (
	"regexp"
	"strings"
	"time"
)

const (
	folderKeyMaxLen   = 200
	folderKeyFallback = "Applicant"
	applicantPrefix   = "Applicant_"
	folderTimeLayout  = "2006-01-02T15:04:05"
)

var unsafePathChars = regexp.MustCompile(`[^\w\s-]`)

// DeriveFolderKey names the folder one submission is stored under. It is deterministic:
// identical inputs within the same second produce the same key.
func DeriveFolderKey(identityHint, name string, now time.Time) string {
	hint := strings.TrimSpace(identityHint)
	if hint == "" {
		hint = applicantPrefix + strings.TrimSpace(name)
	}
	return SanitizeFolderName(hint) + "_" + unsafePathChars.ReplaceAllString(now.UTC().Format(folderTimeLayout), "")
}

// SanitizeFolderName keeps word chars, whitespace and hyphens, caps the length and never
// returns an empty string.
func SanitizeFolderName(value string) string {
	clean := strings.TrimSpace(unsafePathChars.ReplaceAllString(value, ""))
	if len(clean) > folderKeyMaxLen {
		clean = strings.TrimSpace(clean[:folderKeyMaxLen])
	}
	if clean == "" {
		return folderKeyFallback
	}
	return clean
}
