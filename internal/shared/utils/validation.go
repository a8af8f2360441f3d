package utils

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Input size limits (in bytes)
const (
	MaxURLLength     = 2048
	MaxMessageLength = 16 * 1024 // 16KB - single negotiation message
	MaxQueryLength   = 512
)

// ValidateURL checks that raw is a well-formed absolute http(s) URL.
func ValidateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("url must not be empty")
	}
	if len(raw) > MaxURLLength {
		return fmt.Errorf("url exceeds maximum length of %d", MaxURLLength)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("url must include a host")
	}
	return nil
}

// ValidateMessage checks a negotiation message body.
func ValidateMessage(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("message must not be empty")
	}
	if len(text) > MaxMessageLength {
		return fmt.Errorf("message exceeds maximum length of %d", MaxMessageLength)
	}
	if !utf8.ValidString(text) {
		return fmt.Errorf("message must be valid UTF-8")
	}
	return nil
}

// ValidateQuery checks a search query.
func ValidateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("query must not be empty")
	}
	if len(query) > MaxQueryLength {
		return fmt.Errorf("query exceeds maximum length of %d", MaxQueryLength)
	}
	return nil
}
