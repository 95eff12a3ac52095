// Package spotify exchanges and refreshes Spotify OAuth tokens on behalf of
// the web client, which must never see the client secret.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"
)

// DefaultTokenURL is Spotify's accounts token endpoint
const DefaultTokenURL = "https://accounts.spotify.com/api/token"

// ErrNotConfigured is returned when no client credentials are available
var ErrNotConfigured = errors.New("spotify integration is not configured")

// TokenResponse is the token payload handed back to the web client.
// Field names follow the Spotify token endpoint.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// AuthError reports a failed call to the token endpoint
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Client talks to the token endpoint with the server's client credentials
type Client struct {
	config     oauth2.Config
	httpClient *http.Client
}

// NewClient builds a client. An empty tokenURL uses DefaultTokenURL.
func NewClient(clientID, clientSecret, tokenURL string) *Client {
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	return &Client{
		config: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Configured reports whether both client credentials are set
func (c *Client) Configured() bool {
	return c != nil && c.config.ClientID != "" && c.config.ClientSecret != ""
}

// Exchange trades an authorization code for an access/refresh token pair
func (c *Client) Exchange(ctx context.Context, code, redirectURI string) (*TokenResponse, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	cfg := c.config
	cfg.RedirectURL = redirectURI

	tok, err := cfg.Exchange(c.withHTTPClient(ctx), code)
	if err != nil {
		return nil, &AuthError{Op: "Failed to exchange code for tokens", Err: err}
	}
	return toResponse(tok), nil
}

// Refresh obtains a new access token. Spotify may omit a new refresh token,
// in which case the one supplied is returned unchanged.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	src := c.config.TokenSource(c.withHTTPClient(ctx), &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, &AuthError{Op: "Failed to refresh token", Err: err}
	}
	return toResponse(tok), nil
}

func (c *Client) withHTTPClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

func toResponse(tok *oauth2.Token) *TokenResponse {
	resp := &TokenResponse{
		AccessToken:  tok.AccessToken,
		TokenType:    tok.TokenType,
		RefreshToken: tok.RefreshToken,
		ExpiresIn:    expiresIn(tok),
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		resp.Scope = scope
	}
	return resp
}

func expiresIn(tok *oauth2.Token) int {
	switch v := tok.Extra("expires_in").(type) {
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	if tok.Expiry.IsZero() {
		return 0
	}
	return int(time.Until(tok.Expiry).Round(time.Second).Seconds())
}
