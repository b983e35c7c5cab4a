package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	plain := New(KindUnexpectedHTML, "got an HTML page")
	assert.Equal(t, "unexpected_html_response: got an HTML page", plain.Error())

	wrapped := Wrap(KindGenericDownload, stderrors.New("connection reset"), "fetch failed")
	assert.Equal(t, "generic_download_error: fetch failed: connection reset", wrapped.Error())
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	err := Wrap(KindGenericDownload, cause, "fetch failed")

	assert.ErrorIs(t, err, cause)
	assert.Nil(t, New(KindUnexpectedHTML, "no cause").Unwrap())
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Kind
	}{
		{
			name:     "direct typed error",
			err:      New(KindUnexpectedHTML, "html"),
			expected: KindUnexpectedHTML,
		},
		{
			name:     "typed error behind fmt wrapping",
			err:      fmt.Errorf("outer: %w", New(KindActivationFailure, "click failed")),
			expected: KindActivationFailure,
		},
		{
			name:     "untagged error falls back to generic",
			err:      stderrors.New("something broke"),
			expected: KindGenericDownload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, KindOf(tt.err))
		})
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"network error", &Error{Kind: KindGenericDownload, Code: 0}, true},
		{"rate limited", &Error{Kind: KindGenericDownload, Code: 429}, true},
		{"server error", &Error{Kind: KindGenericDownload, Code: 503}, true},
		{"not found", &Error{Kind: KindGenericDownload, Code: 404}, false},
		{"forbidden", &Error{Kind: KindGenericDownload, Code: 403}, false},
		{"html block page never retries", &Error{Kind: KindUnexpectedHTML, Code: 0}, false},
		{"untagged error", stderrors.New("plain"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, IsRetryable(tt.err))
		})
	}
}

func TestIsRetryableStatusCode(t *testing.T) {
	require.True(t, IsRetryableStatusCode(0))
	require.True(t, IsRetryableStatusCode(429))
	require.True(t, IsRetryableStatusCode(500))
	require.True(t, IsRetryableStatusCode(599))
	require.False(t, IsRetryableStatusCode(200))
	require.False(t, IsRetryableStatusCode(404))
}
