package validation

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

var reservedCommunityNames = map[string]struct{}{
	"admin":         {},
	"api":           {},
	"auth":          {},
	"settings":      {},
	"communities":   {},
	"users":         {},
	"posts":         {},
	"comments":      {},
	"reports":       {},
	"notifications": {},
	"moderation":    {},
	"metrics":       {},
	"login":         {},
	"signup":        {},
}

// ValidateCommunityName validates a community display name.
func ValidateCommunityName(name string) error {
	trimmed := strings.TrimSpace(name)
	length := utf8.RuneCountInString(trimmed)
	if length < 3 || length > 120 {
		return fmt.Errorf("community name must be 3-120 characters")
	}

	hasLetter := false
	for _, r := range trimmed {
		if unicode.IsLetter(r) {
			hasLetter = true
			break
		}
	}
	if !hasLetter {
		return fmt.Errorf("community name must contain at least one letter")
	}

	if _, exists := reservedCommunityNames[strings.ToLower(trimmed)]; exists {
		return fmt.Errorf("community name is reserved")
	}

	return nil
}

// ValidateCommunityDescription validates an optional community description.
func ValidateCommunityDescription(description string) error {
	if utf8.RuneCountInString(description) > 2000 {
		return fmt.Errorf("description too long (max 2000 characters)")
	}
	return nil
}
