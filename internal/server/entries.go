package server

import (
	"net/http"
	"strconv"

	"timesheet/internal/domain"
	apperrors "timesheet/internal/errors"
)

func (s *Server) handleEntriesByDate(w http.ResponseWriter, r *http.Request) {
	date, err := pathDate(r, "date")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	entries, err := s.api.ListTimeEntriesByDate(r.Context(), date)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.ok(w, entries)
}

func (s *Server) handleEntriesByRange(w http.ResponseWriter, r *http.Request) {
	dr, err := queryRange(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	entries, err := s.api.ListTimeEntriesByRange(r.Context(), dr)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.ok(w, entries)
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	entry, err := s.api.GetTimeEntry(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.ok(w, entry)
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var in domain.TimeEntryInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	entry, err := s.api.CreateTimeEntry(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, http.StatusCreated, "Time entry created successfully", entry)
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var in domain.TimeEntryInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	entry, err := s.api.UpdateTimeEntry(r.Context(), id, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, "Time entry updated successfully", entry)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.api.DeleteTimeEntry(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, "Time entry deleted successfully", nil)
}

func (s *Server) handleBulkCreate(w http.ResponseWriter, r *http.Request) {
	var in domain.BulkTimeEntryInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.api.BulkCreateTimeEntries(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, http.StatusCreated, "Bulk time entries processed", result)
}

func (s *Server) handleValidateEntry(w http.ResponseWriter, r *http.Request) {
	var in domain.TimeEntryInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.api.ValidateTimeEntry(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.ok(w, result)
}

func (s *Server) handleDailyTotal(w http.ResponseWriter, r *http.Request) {
	date, err := pathDate(r, "date")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	total, err := s.api.DailyTotalMinutes(r.Context(), date)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.ok(w, total)
}

func (s *Server) handleOverlaps(w http.ResponseWriter, r *http.Request) {
	date, err := queryDate(r, "date")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	start, err := queryClock(r, "startTime")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	end, err := queryClock(r, "endTime")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var excludeID int64
	if raw := r.URL.Query().Get("excludeId"); raw != "" {
		excludeID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.writeError(w, r, apperrors.NewInvalidInputError("excludeId", raw, "must be an integer"))
			return
		}
	}

	entries, err := s.api.FindOverlappingEntries(r.Context(), date, start, end, excludeID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.ok(w, entries)
}
