package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mimi/internal/date"
	"mimi/internal/model"
)

// handleTodayTasks generates and lists today's tasks.
func (s *Server) handleTodayTasks(c *gin.Context) {
	ctx := c.Request.Context()
	tasks, err := s.tasks.TasksForToday(ctx)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.respondTaskList(c, tasks)
}

// handleTasksForDate generates and lists the tasks of one date.
func (s *Server) handleTasksForDate(c *gin.Context) {
	d, ok := s.parseDate(c, "date")
	if !ok {
		return
	}
	s.respondTasksForDate(c, d)
}

func (s *Server) respondTasksForDate(c *gin.Context, d date.Date) {
	tasks, err := s.tasks.TasksForDate(c.Request.Context(), d)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.respondTaskList(c, tasks)
}

func (s *Server) respondTaskList(c *gin.Context, tasks []model.Task) {
	views, err := s.taskViews(c.Request.Context(), tasks)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (s *Server) handleCompleteTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	task, err := s.tasks.CompleteTask(c.Request.Context(), id)
	s.respondTask(c, http.StatusOK, task, err)
}

func (s *Server) handleUncompleteTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	task, err := s.tasks.UncompleteTask(c.Request.Context(), id)
	s.respondTask(c, http.StatusOK, task, err)
}

// handleUpdateTask patches one task without touching its template.
func (s *Server) handleUpdateTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var patch model.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}

	task, err := s.tasks.UpdateTask(c.Request.Context(), id, patch)
	s.respondTask(c, http.StatusOK, task, err)
}

// handleHistory returns the tasks of the last days keyed by date.
func (s *Server) handleHistory(c *gin.Context) {
	days := 7
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			badRequest(c, fmt.Errorf("days must be a positive number"))
			return
		}
		days = n
	}
	if days > s.opts.HistoryMaxDays {
		badRequest(c, fmt.Errorf("days must not exceed %d", s.opts.HistoryMaxDays))
		return
	}

	ctx := c.Request.Context()
	history, err := s.tasks.History(ctx, days)
	if err != nil {
		s.respondError(c, err)
		return
	}
	infos, err := s.repeatInfos(ctx)
	if err != nil {
		s.respondError(c, err)
		return
	}
	payload := make(map[string][]taskView, len(history))
	for _, day := range history {
		payload[day.Date.String()] = attachRepeatInfo(day.Tasks, infos)
	}
	c.JSON(http.StatusOK, payload)
}

// respondTask renders a single task result or its error.
func (s *Server) respondTask(c *gin.Context, status int, task *model.Task, err error) {
	if err != nil {
		s.respondError(c, err)
		return
	}
	view, err := s.taskView(c.Request.Context(), task)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(status, view)
}
