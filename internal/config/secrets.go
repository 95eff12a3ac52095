package config

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	keyringService     = "timesheet"
	keyringSpotifyUser = "spotify-client-secret"
)

// ErrSecretNotFound is returned when the keyring holds no Spotify secret
var ErrSecretNotFound = errors.New("spotify client secret not found in keyring")

// SpotifyClientSecret returns the configured secret, falling back to the OS keyring
func (c *Config) SpotifyClientSecret() (string, error) {
	if c.Spotify.ClientSecret != "" {
		return c.Spotify.ClientSecret, nil
	}

	secret, err := keyring.Get(keyringService, keyringSpotifyUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrSecretNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read keyring: %w", err)
	}
	return secret, nil
}

// StoreSpotifySecret saves the client secret in the OS keyring
func StoreSpotifySecret(secret string) error {
	if secret == "" {
		return errors.New("client secret cannot be empty")
	}
	if err := keyring.Set(keyringService, keyringSpotifyUser, secret); err != nil {
		return fmt.Errorf("store secret in keyring: %w", err)
	}
	return nil
}

// DeleteSpotifySecret removes the client secret from the OS keyring
func DeleteSpotifySecret() error {
	err := keyring.Delete(keyringService, keyringSpotifyUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrSecretNotFound
	}
	if err != nil {
		return fmt.Errorf("delete secret from keyring: %w", err)
	}
	return nil
}
