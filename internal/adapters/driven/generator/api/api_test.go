package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivsinclair/intentd/internal/core/domain"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Generator) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	gen, err := NewGenerator(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)
	return srv, gen
}

func TestNewGeneratorRequiresAPIKey(t *testing.T) {
	_, err := NewGenerator(Config{})
	require.Error(t, err)
}

func TestGenerateReturnsFirstLine(t *testing.T) {
	_, gen := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var req messagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, DefaultModel, req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "the prompt", req.Messages[0].Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"feat: add retry logic\n\nExtra detail."}]}`))
	})

	intent, err := gen.Generate(context.Background(), "the prompt")

	require.NoError(t, err)
	assert.Equal(t, "feat: add retry logic", intent)
}

func TestGenerateConcatenatesTextBlocks(t *testing.T) {
	_, gen := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"fix: handle "},{"type":"text","text":"nil transcript"}]}`))
	})

	intent, err := gen.Generate(context.Background(), "prompt")

	require.NoError(t, err)
	assert.Equal(t, "fix: handle nil transcript", intent)
}

func TestGenerateAPIError(t *testing.T) {
	_, gen := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"type":"authentication_error","message":"invalid key"}}`))
	})

	_, err := gen.Generate(context.Background(), "prompt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid key")
	assert.True(t, errors.Is(err, domain.ErrGeneratorUnavailable))
}

func TestGenerateNonOKStatus(t *testing.T) {
	_, gen := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := gen.Generate(context.Background(), "prompt")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrGeneratorUnavailable))
}

func TestGenerateEmptyContent(t *testing.T) {
	_, gen := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	})

	_, err := gen.Generate(context.Background(), "prompt")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrGeneratorUnavailable))
}

func TestGenerateUnreachableServer(t *testing.T) {
	srv, gen := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := gen.Generate(context.Background(), "prompt")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrGeneratorUnavailable))
}

func TestName(t *testing.T) {
	gen, err := NewGenerator(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "anthropic-api", gen.Name())
}
