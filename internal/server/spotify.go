package server

import (
	"errors"
	"net/http"

	"timesheet/internal/spotify"
)

type spotifyTokenRequest struct {
	Code        string `json:"code"`
	RedirectURI string `json:"redirectUri"`
}

type spotifyRefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (s *Server) handleSpotifyToken(w http.ResponseWriter, r *http.Request) {
	var req spotifyTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Code == "" {
		s.spotifyError(w, r, "code is required", nil)
		return
	}
	tok, err := s.spotify.Exchange(r.Context(), req.Code, req.RedirectURI)
	if err != nil {
		s.spotifyError(w, r, "Failed to exchange code for tokens", err)
		return
	}
	s.ok(w, tok)
}

func (s *Server) handleSpotifyRefresh(w http.ResponseWriter, r *http.Request) {
	var req spotifyRefreshRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.RefreshToken == "" {
		s.spotifyError(w, r, "refresh_token is required", nil)
		return
	}
	tok, err := s.spotify.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		s.spotifyError(w, r, "Failed to refresh token", err)
		return
	}
	s.ok(w, tok)
}

// spotifyError answers 400 with the token endpoint failure; 503 when no credentials are configured
func (s *Server) spotifyError(w http.ResponseWriter, r *http.Request, title string, err error) {
	status := http.StatusBadRequest
	body := errorBody{Error: title, Timestamp: s.now(), Path: r.URL.Path}
	if errors.Is(err, spotify.ErrNotConfigured) {
		status = http.StatusServiceUnavailable
		body.Error = "SPOTIFY_NOT_CONFIGURED"
	}
	if err != nil {
		body.Message = err.Error()
		requestLogger(r, s.logger).Warn("Spotify token request failed", "err", err)
	}
	writeJSON(w, status, body)
}
