package openai

import (
	"errors"
	"net/http"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"

	"github.com/RSohaily/Autonomous-industrial-safety-monitor/internal/domain/vision"
)

func TestMapErrorStatusCodes(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   error
	}{
		{"bad request is a refusal", http.StatusBadRequest, vision.ErrRejected},
		{"unprocessable payload is a refusal", http.StatusUnprocessableEntity, vision.ErrRejected},
		{"bad api key is unavailability", http.StatusUnauthorized, vision.ErrUnavailable},
		{"forbidden is unavailability", http.StatusForbidden, vision.ErrUnavailable},
		{"not found is unavailability", http.StatusNotFound, vision.ErrUnavailable},
		{"rate limited is unavailability", http.StatusTooManyRequests, vision.ErrUnavailable},
		{"server error is unavailability", http.StatusInternalServerError, vision.ErrUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := mapError(&openai.APIError{HTTPStatusCode: tc.status, Message: "x"})
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestMapErrorNonAPIError(t *testing.T) {
	err := mapError(errors.New("dial tcp: connection refused"))
	require.ErrorIs(t, err, vision.ErrUnavailable)
}

func TestSniffImageMime(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	require.Equal(t, "image/png", sniffImageMime(png))

	// unknown bytes fall back to jpeg so the data URI stays an image type
	require.Equal(t, "image/jpeg", sniffImageMime([]byte("plain text, not an image")))
}
