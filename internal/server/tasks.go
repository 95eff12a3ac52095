package server

import (
	"net/http"

	"timesheet/internal/domain"
)

func (s *Server) handleTasksByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := pathID(r, "categoryId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	tasks, err := s.api.ListTasksByCategory(r.Context(), categoryID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.ok(w, tasks)
}

func (s *Server) handleActiveTasksByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := pathID(r, "categoryId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	tasks, err := s.api.ListActiveTasksByCategory(r.Context(), categoryID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.ok(w, tasks)
}

func (s *Server) handleActiveTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.api.ListActiveTasks(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.ok(w, tasks)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	task, err := s.api.GetTask(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.ok(w, task)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var in domain.TaskInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	task, err := s.api.CreateTask(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, http.StatusCreated, "Task created successfully", task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var in domain.TaskInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	task, err := s.api.UpdateTask(r.Context(), id, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, "Task updated successfully", task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	archived, err := s.api.DeleteTask(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if archived {
		s.respond(w, http.StatusOK, "Task archived because it has time entries", nil)
		return
	}
	s.respond(w, http.StatusOK, "Task deleted successfully", nil)
}

func (s *Server) handleArchiveTask(w http.ResponseWriter, r *http.Request) {
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
	task, err := s.api.ArchiveTask(r.Context(), id, archived)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	message := "Task unarchived successfully"
	if archived {
		message = "Task archived successfully"
	}
	s.respond(w, http.StatusOK, message, task)
}

func (s *Server) handleReorderTasks(w http.ResponseWriter, r *http.Request) {
	categoryID, err := pathID(r, "categoryId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var ids []int64
	if err := decodeJSON(r, &ids); err != nil {
		s.writeError(w, r, err)
		return
	}
	tasks, err := s.api.ReorderTasks(r.Context(), categoryID, ids)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, "Tasks reordered successfully", tasks)
}

func (s *Server) handleMoveTask(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("action") != "move-to-category" {
		http.NotFound(w, r)
		return
	}
	taskID, err := pathID(r, "taskId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	categoryID, err := pathID(r, "newCategoryId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	task, err := s.api.MoveTaskToCategory(r.Context(), taskID, categoryID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, "Task moved successfully", task)
}
