package server

import (
	"net/http"

	"timesheet/internal/domain"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.api.ListCategories(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.ok(w, categories)
}

func (s *Server) handleListActiveCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.api.ListActiveCategories(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.ok(w, categories)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	category, err := s.api.GetCategory(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.ok(w, category)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var in domain.CategoryInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	category, err := s.api.CreateCategory(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, http.StatusCreated, "Category created successfully", category)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var in domain.CategoryInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	category, err := s.api.UpdateCategory(r.Context(), id, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, "Category updated successfully", category)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	archived, err := s.api.DeleteCategory(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if archived {
		s.respond(w, http.StatusOK, "Category archived because it has time entries", nil)
		return
	}
	s.respond(w, http.StatusOK, "Category deleted successfully", nil)
}

func (s *Server) handleArchiveCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	archived, err := queryBool(r, "archived")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	category, err := s.api.ArchiveCategory(r.Context(), id, archived)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	message := "Category unarchived successfully"
	if archived {
		message = "Category archived successfully"
	}
	s.respond(w, http.StatusOK, message, category)
}

func (s *Server) handleReorderCategories(w http.ResponseWriter, r *http.Request) {
	var ids []int64
	if err := decodeJSON(r, &ids); err != nil {
		s.writeError(w, r, err)
		return
	}
	categories, err := s.api.ReorderCategories(r.Context(), ids)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, "Categories reordered successfully", categories)
}
