package shared

import (
	"regexp"
	"unicode/utf8"
)

// AWS tag key pattern: letters, numbers, spaces and _ . : / = + - @
var tagKeyRegex = regexp.MustCompile(`^[\p{L}\p{Z}\p{N}_.:/=+\-@]+$`)

// validate tag key from rule parameters
func IsValidTagKey(key string) bool {
	if utf8.RuneCountInString(key) > 128 {
		return false
	}
	return tagKeyRegex.MatchString(key)
}

// validate required configuration item fields
func (ci ConfigurationItem) Validate() error {
	if ci.ResourceType == "" {
		return MissingFieldError{Field: "resourceType"}
	}
	if ci.ResourceId == "" {
		return MissingFieldError{Field: "resourceId"}
	}
	return nil
}

func ValidateAnnotation(str string, maxLength int) string {
	if str != "" {
		return truncateString(str, maxLength)
	}
	return "N/A"
}

// maxLength counts characters, not bytes
func truncateString(str string, maxLength int) string {
	if utf8.RuneCountInString(str) > maxLength {
		runes := []rune(str)
		if maxLength > 3 {
			return string(runes[:maxLength-3]) + "..."
		}
		return string(runes[:maxLength])
	}
	return str
}
