// Package auth provides the bearer-token provider consumed by mutating stock
// calls.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/sodiqltd/stockboard/internal/config"
)

// expirySlack is subtracted from the reported lifetime so a token is never
// handed out moments before it lapses.
const expirySlack = 30 * time.Second

// Provider yields a current bearer credential.
type Provider interface {
	AccessToken(ctx context.Context) (string, error)
}

// APIProvider exchanges an API key for short-lived access tokens, caching the
// current one until shortly before expiry.
type APIProvider struct {
	httpClient *resty.Client
	apiKey     string

	mu        sync.Mutex
	token     string
	expiresAt time.Time
	now       func() time.Time
}

// NewProvider builds a token provider from configuration.
func NewProvider(cfg config.AuthConfig) *APIProvider {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.TokenURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)

	return &APIProvider{
		httpClient: restyClient,
		apiKey:     cfg.APIKey,
		now:        time.Now,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type tokenError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// AccessToken returns the cached token when still valid, otherwise fetches a
// fresh one.
func (p *APIProvider) AccessToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && p.now().Before(p.expiresAt) {
		return p.token, nil
	}

	result := new(tokenResponse)
	apiErr := new(tokenError)

	resp, err := p.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]string{"api_key": p.apiKey}).
		SetResult(result).
		SetError(apiErr).
		Post("/token")
	if err != nil {
		return "", fmt.Errorf("fetch access token: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return "", fmt.Errorf("token endpoint error: code=%d, message=%s", resp.StatusCode(), apiErr.Error.Message)
	}
	if result.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned empty credential")
	}

	p.token = result.AccessToken
	p.expiresAt = p.now().Add(time.Duration(result.ExpiresIn)*time.Second - expirySlack)
	return p.token, nil
}
