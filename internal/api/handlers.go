package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nhle/projectpilot/internal/model"
	"github.com/nhle/projectpilot/internal/store"
)

// errBadRequest marks malformed input that never reached the store.
var errBadRequest = errors.New("bad request")

func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrValidation), errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrConflict):
		status = http.StatusConflict
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), errBadRequest)
}

func parseStatus(raw string) (model.Status, error) {
	st, err := model.ParseStatus(raw)
	if err != nil {
		return "", fmt.Errorf("%v: %w", err, errBadRequest)
	}
	return st, nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": s.store.Snapshot().Version,
	})
}

func (s *Server) handleListProjects(c *gin.Context) {
	var f store.Filter
	if raw := c.Query("status"); raw != "" && raw != "all" {
		st, err := parseStatus(raw)
		if err != nil {
			s.fail(c, err)
			return
		}
		f.Status = &st
	}
	f.Query = c.Query("q")

	projects := s.store.Search(f)
	c.JSON(http.StatusOK, gin.H{
		"projects": projects,
		"count":    len(projects),
	})
}

func (s *Server) handleGetProject(c *gin.Context) {
	p, ok := s.store.Get(c.Param("id"))
	if !ok {
		s.fail(c, fmt.Errorf("project %s: %w", c.Param("id"), store.ErrNotFound))
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleCreateProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, badRequest("invalid json: %v", err))
		return
	}

	in, err := req.toInput()
	if err != nil {
		s.fail(c, err)
		return
	}

	p, err := s.store.Create(in)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (s *Server) handleUpdateProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, badRequest("invalid json: %v", err))
		return
	}

	patch, err := req.toPatch()
	if err != nil {
		s.fail(c, err)
		return
	}

	p, err := s.store.Update(c.Param("id"), patch)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleDeleteProject(c *gin.Context) {
	if err := s.store.Delete(c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleAddTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, badRequest("invalid json: %v", err))
		return
	}

	in, err := req.toInput()
	if err != nil {
		s.fail(c, err)
		return
	}

	t, err := s.store.AddTask(c.Param("id"), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, badRequest("invalid json: %v", err))
		return
	}

	patch, err := req.toPatch()
	if err != nil {
		s.fail(c, err)
		return
	}

	t, err := s.store.UpdateTask(c.Param("id"), c.Param("taskId"), patch)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	if err := s.store.DeleteTask(c.Param("id"), c.Param("taskId")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleCalendar(c *gin.Context) {
	raw := c.Query("date")
	if raw == "" {
		tasks := s.store.TasksWithDueDate()
		c.JSON(http.StatusOK, gin.H{"tasks": tasks, "count": len(tasks)})
		return
	}

	day, err := model.ParseDate(raw)
	if err != nil {
		s.fail(c, badRequest("date: %v", err))
		return
	}
	tasks := s.store.TasksOn(day)
	c.JSON(http.StatusOK, gin.H{
		"date":  day.Format(model.DateKeyLayout),
		"tasks": tasks,
		"count": len(tasks),
	})
}

func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Stats())
}
