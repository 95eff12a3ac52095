package server

import (
	"net/http"

	"timesheet/internal/domain"
)

func (s *Server) handleDailyReport(w http.ResponseWriter, r *http.Request) {
	date, err := pathDate(r, "date")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	summary, err := s.api.DailySummary(r.Context(), date)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.ok(w, summary)
}

func (s *Server) handleWeeklyReport(w http.ResponseWriter, r *http.Request) {
	date, err := pathDate(r, "date")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	summary, err := s.api.WeeklySummary(r.Context(), date)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.ok(w, summary)
}

// rangeReport adapts a report over the startDate/endDate query pair
func rangeReport[T any](s *Server, fn func(*http.Request, domain.DateRange) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dr, err := queryRange(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		report, err := fn(r, dr)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.ok(w, report)
	}
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	rangeReport(s, func(r *http.Request, dr domain.DateRange) (*domain.Statistics, error) {
		return s.api.Statistics(r.Context(), dr)
	})(w, r)
}

func (s *Server) handleEnhancedStatistics(w http.ResponseWriter, r *http.Request) {
	rangeReport(s, func(r *http.Request, dr domain.DateRange) (*domain.EnhancedStatistics, error) {
		return s.api.EnhancedStatistics(r.Context(), dr)
	})(w, r)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	rangeReport(s, func(r *http.Request, dr domain.DateRange) (*domain.ProductivityInsights, error) {
		return s.api.ProductivityInsights(r.Context(), dr)
	})(w, r)
}

func (s *Server) handleDailyRange(w http.ResponseWriter, r *http.Request) {
	rangeReport(s, func(r *http.Request, dr domain.DateRange) (map[domain.Date]*domain.DailySummary, error) {
		return s.api.DailySummariesForRange(r.Context(), dr)
	})(w, r)
}

func (s *Server) handleCurrentWeek(w http.ResponseWriter, r *http.Request) {
	summary, err := s.api.CurrentWeek(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.ok(w, summary)
}

func (s *Server) handleLastDays(days int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.api.LastDays(r.Context(), days)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.ok(w, stats)
	}
}
