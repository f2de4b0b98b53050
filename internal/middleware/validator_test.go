package middleware

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/RSohaily/Autonomous-industrial-safety-monitor/internal/domain/analysis"
)

func TestValidateImagePayloadDecodes(t *testing.T) {
	image, err := ValidateImagePayload(base64.StdEncoding.EncodeToString([]byte("jpeg-bytes")))
	require.NoError(t, err)
	require.Equal(t, []byte("jpeg-bytes"), image)
}

func TestValidateImagePayloadAcceptsDataURI(t *testing.T) {
	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png-bytes"))
	image, err := ValidateImagePayload(payload)
	require.NoError(t, err)
	require.Equal(t, []byte("png-bytes"), image)
}

func TestValidateImagePayloadRejectsEmpty(t *testing.T) {
	_, err := ValidateImagePayload("   ")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestValidateImagePayloadRejectsBadBase64(t *testing.T) {
	_, err := ValidateImagePayload("!!!not base64!!!")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestValidateImagePayloadRejectsEmptyDecoded(t *testing.T) {
	payload := "data:image/png;base64,"
	_, err := ValidateImagePayload(payload)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSanitizeStringStripsControlCharacters(t *testing.T) {
	require.Equal(t, "dock.jpg", SanitizeString("dock.jpg\x00"))
	require.Equal(t, "a b", SanitizeString("  a\x07 b  "))
	require.Equal(t, "", SanitizeString(strings.Repeat("\x00", 3)))
}
