package logger

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	l := NewLogger("test")
	require.NotNil(t, l)
}

func TestNop_DiscardsOutput(t *testing.T) {
	l := Nop()
	require.NotNil(t, l)
	// Must not panic and must be usable as a regular logger.
	l.Info().Str("k", "v").Msg("discarded")
}

func TestFromContext_NoLoggerAttached(t *testing.T) {
	l := FromContext(context.Background())
	assert.NotNil(t, l)
}

func TestFromContext_RoundTrip(t *testing.T) {
	parent := NewLogger("test")
	ctx := parent.WithContext(context.Background())

	child := FromContext(ctx)
	require.NotNil(t, child)
}

func TestFromRequest(t *testing.T) {
	parent := NewLogger("test")
	r := httptest.NewRequest("GET", "/api/entries", nil)
	r = r.WithContext(parent.WithContext(r.Context()))

	l := FromRequest(r)
	require.NotNil(t, l)
}
