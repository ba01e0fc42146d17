package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"mimi/internal/date"
	"mimi/internal/service"
)

// Options configures the HTTP surface.
type Options struct {
	AppName        string
	StaticDir      string
	HistoryMaxDays int
}

// Server provides HTTP handlers for the chore planner.
type Server struct {
	engine    *gin.Engine
	templates *service.TemplateService
	tasks     *service.TaskService
	logger    *slog.Logger
	opts      Options
}

// New constructs the HTTP server with routes and middleware configured.
func New(templates *service.TemplateService, tasks *service.TaskService, logger *slog.Logger, opts Options) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.HistoryMaxDays <= 0 {
		opts.HistoryMaxDays = 60
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithWriter(gin.DefaultWriter, "/health"))
	// The planner only runs on a trusted home network.
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		MaxAge:          12 * time.Hour,
	}))

	srv := &Server{
		engine:    router,
		templates: templates,
		tasks:     tasks,
		logger:    logger,
		opts:      opts,
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes() {
	s.engine.GET("/health", s.handleHealth)

	api := s.engine.Group("/api")
	{
		tasks := api.Group("/tasks")
		{
			tasks.GET("/today", s.handleTodayTasks)
			tasks.GET("/date/:date", s.handleTasksForDate)
			tasks.GET("/history", s.handleHistory)
			tasks.POST("/:id/complete", s.handleCompleteTask)
			tasks.POST("/:id/uncomplete", s.handleUncompleteTask)
			tasks.PATCH("/:id", s.handleUpdateTask)
		}

		admin := api.Group("/admin")
		{
			admin.GET("/templates", s.handleListTemplates)
			admin.POST("/templates", s.handleCreateTemplate)
			admin.GET("/templates/:id", s.handleGetTemplate)
			admin.PATCH("/templates/:id", s.handleUpdateTemplate)
			admin.DELETE("/templates/:id", s.handleDeleteTemplate)

			admin.POST("/generate/:date", s.handleGenerate)
			admin.POST("/snapshot/:date", s.handleSnapshot)

			admin.POST("/tasks", s.handleCreateTask)
			admin.POST("/tasks/reorder", s.handleReorderTasks)
			admin.POST("/tasks/:id/move", s.handleMoveTask)
			admin.DELETE("/tasks/:id", s.handleDeleteTask)
		}
	}

	s.mountStatic()
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "app": s.opts.AppName})
}

// parseID converts a path parameter to a record id with error handling.
func parseID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid identifier"})
		return 0, false
	}
	return uint(id), true
}

// parseDate reads a YYYY-MM-DD path parameter; "today" is accepted.
func (s *Server) parseDate(c *gin.Context, name string) (date.Date, bool) {
	raw := c.Param(name)
	if raw == "today" {
		return s.tasks.Today(), true
	}
	d, err := date.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date " + strconv.Quote(raw)})
		return date.Date{}, false
	}
	return d, true
}

// respondError logs the error and returns a JSON payload with the status
// that matches its kind.
func (s *Server) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var verr service.ValidationError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.As(err, &verr):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
	} else {
		s.logger.Debug("request rejected", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// badRequest answers malformed bodies and query strings.
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
