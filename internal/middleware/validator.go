package middleware

import (
	"encoding/base64"
	"fmt"
	"strings"

	domain "github.com/RSohaily/Autonomous-industrial-safety-monitor/internal/domain/analysis"
)

// Input validation and sanitization utilities

// maxImageBytes caps decoded upload size at 20MB, the usual vision API limit.
const maxImageBytes = 20 << 20

// ValidateImagePayload decodes and validates the base64 image payload from
// the analyze request. All failures map to the client-error taxonomy.
func ValidateImagePayload(imageBase64 string) ([]byte, error) {
	s := strings.TrimSpace(imageBase64)
	if s == "" {
		return nil, fmt.Errorf("%w: image_base64 is required", domain.ErrInvalidInput)
	}

	// Accept data-URI payloads from browser FileReader output.
	if strings.HasPrefix(s, "data:") {
		if idx := strings.Index(s, ","); idx >= 0 {
			s = s[idx+1:]
		}
	}

	image, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: image_base64 is not valid base64", domain.ErrInvalidInput)
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: image payload is empty", domain.ErrInvalidInput)
	}
	if len(image) > maxImageBytes {
		return nil, fmt.Errorf("%w: image payload exceeds %d bytes", domain.ErrInvalidInput, maxImageBytes)
	}
	return image, nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}
