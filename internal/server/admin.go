package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mimi/internal/date"
	"mimi/internal/model"
	"mimi/internal/service"
)

func (s *Server) handleListTemplates(c *gin.Context) {
	activeOnly := false
	if raw := c.Query("active_only"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, fmt.Errorf("active_only must be a boolean"))
			return
		}
		activeOnly = v
	}

	templates, err := s.templates.ListTemplates(c.Request.Context(), activeOnly)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, templateViews(templates))
}

func (s *Server) handleCreateTemplate(c *gin.Context) {
	var input service.TemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	template, err := s.templates.CreateTemplate(c.Request.Context(), input)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newTemplateView(template))
}

func (s *Server) handleGetTemplate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	template, err := s.templates.GetTemplate(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTemplateView(template))
}

func (s *Server) handleUpdateTemplate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var patch model.TemplatePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}

	template, err := s.templates.UpdateTemplate(c.Request.Context(), id, patch)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTemplateView(template))
}

// handleDeleteTemplate removes a template; its tasks stay as ad-hoc tasks.
func (s *Server) handleDeleteTemplate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := s.templates.DeleteTemplate(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// handleGenerate materializes the instances of one date on demand.
func (s *Server) handleGenerate(c *gin.Context) {
	d, ok := s.parseDate(c, "date")
	if !ok {
		return
	}
	tasks, err := s.tasks.Generate(c.Request.Context(), d)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.respondTaskList(c, tasks)
}

func (s *Server) handleSnapshot(c *gin.Context) {
	d, ok := s.parseDate(c, "date")
	if !ok {
		return
	}
	tasks, err := s.tasks.SnapshotForDate(c.Request.Context(), d)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "snapshot_count": len(tasks)})
}

// handleCreateTask adds an ad-hoc task outside any template.
func (s *Server) handleCreateTask(c *gin.Context) {
	var input service.TaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	task, err := s.tasks.CreateTask(c.Request.Context(), input)
	s.respondTask(c, http.StatusCreated, task, err)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := s.tasks.DeleteTask(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// handleMoveTask reschedules a task to ?target_date with display ?order.
func (s *Server) handleMoveTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	target, err := date.Parse(c.Query("target_date"))
	if err != nil {
		badRequest(c, fmt.Errorf("target_date must be YYYY-MM-DD"))
		return
	}
	order := 0
	if raw := c.Query("order"); raw != "" {
		if order, err = strconv.Atoi(raw); err != nil {
			badRequest(c, fmt.Errorf("order must be a number"))
			return
		}
	}

	task, err := s.tasks.MoveTask(c.Request.Context(), id, target, order)
	s.respondTask(c, http.StatusOK, task, err)
}

func (s *Server) handleReorderTasks(c *gin.Context) {
	var updates []service.OrderUpdate
	if err := c.ShouldBindJSON(&updates); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.tasks.ReorderTasks(c.Request.Context(), updates); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
