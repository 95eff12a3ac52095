package server

import (
	"net/http"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.ok(w, map[string]interface{}{
		"status":    "UP",
		"timestamp": s.now(),
		"service":   s.info.Name,
		"version":   s.info.Version,
		"mode":      s.info.Mode,
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"appName":   s.info.Name,
		"version":   s.info.Version,
		"mode":      s.info.Mode,
		"timestamp": s.now(),
	}
	if s.health != nil {
		if status, err := s.health.SchemaStatus(r.Context()); err == nil {
			info["databaseVersion"] = status.CurrentVersion
		} else {
			requestLogger(r, s.logger).Warn("Schema status unavailable", "err", err)
		}
	}
	s.ok(w, info)
}

// handleStatus checks the database and the user bootstrap; either failing reports DEGRADED with 503
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var err error
	if s.health != nil {
		err = s.health.Ping(ctx)
	}
	var email string
	if err == nil {
		user, userErr := s.api.CurrentUser(ctx)
		if userErr == nil {
			email = user.Email
		}
		err = userErr
	}

	if err != nil {
		requestLogger(r, s.logger).Error("Health check failed", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, envelope{
			Success:   false,
			Message:   "Service degraded: " + err.Error(),
			Timestamp: s.now(),
		})
		return
	}

	s.ok(w, map[string]interface{}{
		"status":      "HEALTHY",
		"timestamp":   s.now(),
		"database":    "CONNECTED",
		"userService": "OPERATIONAL",
		"currentUser": email,
		"version":     s.info.Version,
		"mode":        s.info.Mode,
	})
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	s.ok(w, "pong")
}
