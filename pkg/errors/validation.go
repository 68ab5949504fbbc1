package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Length limits for user-supplied strings.
const (
	MaxFontNameLength   = 128
	MaxSampleTextLength = 512
)

// ValidateFontName validates a font name received from a user or a catalog file.
// Names are stored as JSON strings in the favorites array and copied to the
// clipboard. Front ends escape them wherever they appear in a URL.
//   - No empty or whitespace-only names
//   - No control characters
//   - Maximum length of MaxFontNameLength runes
func ValidateFontName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidName, "font name cannot be empty")
	}

	if utf8.RuneCountInString(name) > MaxFontNameLength {
		return New(ErrCodeInvalidName, "font name too long (max %d characters)", MaxFontNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "font name contains invalid control characters")
		}
	}

	return nil
}

// ValidateClassToken validates a style selector token such as "f-retro".
// Tokens must start with a letter and contain only letters, digits, '-' and '_'.
func ValidateClassToken(token string) error {
	if token == "" {
		return New(ErrCodeInvalidCatalog, "class token cannot be empty")
	}
	for i, r := range token {
		switch {
		case r < utf8.RuneSelf && unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '_' || (r >= '0' && r <= '9')):
		default:
			return New(ErrCodeInvalidCatalog, "invalid class token %q", token)
		}
	}
	return nil
}

// ValidateSampleText validates the sample text typed by the user.
// Empty text is valid; it selects the default placeholder.
func ValidateSampleText(text string) error {
	if utf8.RuneCountInString(text) > MaxSampleTextLength {
		return New(ErrCodeInvalidInput, "sample text too long (max %d characters)", MaxSampleTextLength)
	}
	for _, r := range text {
		if r != '\t' && unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "sample text contains invalid control characters")
		}
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
