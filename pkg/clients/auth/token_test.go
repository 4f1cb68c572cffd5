package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sodiqltd/stockboard/internal/config"
)

func TestAccessTokenCachesUntilExpiry(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/token", r.URL.Path)

		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode token body: %v", err)
		}
		assert.Equal(t, "key-1", body["api_key"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "tok-1", "expires_in": 3600})
	}))
	defer srv.Close()

	provider := NewProvider(config.AuthConfig{TokenURL: srv.URL, APIKey: "key-1"})

	now := time.Now()
	provider.now = func() time.Time { return now }

	tok, err := provider.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)

	_, err = provider.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "second call served from cache")

	now = now.Add(time.Hour)
	_, err = provider.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "expired token refetched")
}

func TestAccessTokenFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "bad key"}})
	}))
	defer srv.Close()

	provider := NewProvider(config.AuthConfig{TokenURL: srv.URL, APIKey: "nope"})
	_, err := provider.AccessToken(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad key")
}

func TestAccessTokenRejectsEmptyCredential(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "", "expires_in": 60})
	}))
	defer srv.Close()

	provider := NewProvider(config.AuthConfig{TokenURL: srv.URL, APIKey: "key"})
	_, err := provider.AccessToken(context.Background())
	require.Error(t, err)
}
