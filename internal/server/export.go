package server

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"timesheet/internal/domain"
	"timesheet/internal/services"
)

type exportFunc func(ctx context.Context, w io.Writer, r domain.DateRange) error

// writeCSV renders the export into memory first so a failure still yields a JSON error
func (s *Server) writeCSV(w http.ResponseWriter, r *http.Request, kind string, dr domain.DateRange, export exportFunc) {
	var buf bytes.Buffer
	if err := export(r.Context(), &buf, dr); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", services.ExportFilename(kind, dr)))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) exportRange(kind string, export exportFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dr, err := queryRange(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeCSV(w, r, kind, dr, export)
	}
}

func (s *Server) handleExportEntries(w http.ResponseWriter, r *http.Request) {
	s.exportRange(services.ExportKindTimeEntries, s.api.ExportTimeEntries)(w, r)
}

func (s *Server) handleExportDaily(w http.ResponseWriter, r *http.Request) {
	s.exportRange(services.ExportKindDailySummary, s.api.ExportDailySummary)(w, r)
}

func (s *Server) handleExportTasks(w http.ResponseWriter, r *http.Request) {
	s.exportRange(services.ExportKindTaskSummary, s.api.ExportTaskSummary)(w, r)
}

func (s *Server) handleExportCurrentWeek(w http.ResponseWriter, r *http.Request) {
	dr, err := s.api.CurrentWeekRange(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeCSV(w, r, services.ExportKindTimeEntries, dr, s.api.ExportTimeEntries)
}

func (s *Server) handleExportLast30Days(w http.ResponseWriter, r *http.Request) {
	dr, err := s.api.LastDaysRange(r.Context(), 30)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeCSV(w, r, services.ExportKindTimeEntries, dr, s.api.ExportTimeEntries)
}

func (s *Server) handleExportMonth(w http.ResponseWriter, r *http.Request) {
	year, err := pathInt(r, "year")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	month, err := pathInt(r, "month")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	dr, err := services.MonthRange(year, month)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeCSV(w, r, services.ExportKindTimeEntries, dr, s.api.ExportTimeEntries)
}
