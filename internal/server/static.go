package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// mountStatic serves the two planner pages and their assets from the
// configured directory.
func (s *Server) mountStatic() {
	s.engine.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "endpoint not found"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "page not found"})
	})

	if s.opts.StaticDir == "" {
		s.logger.Warn("static directory not configured; API only mode")
		return
	}

	info, err := os.Stat(s.opts.StaticDir)
	if err != nil || !info.IsDir() {
		s.logger.Warn("static directory missing", "path", s.opts.StaticDir, "error", err)
		return
	}

	pages := map[string]string{
		"/":      "mimi.html",
		"/admin": "admin.html",
	}
	for route, name := range pages {
		page := filepath.Join(s.opts.StaticDir, name)
		if _, err := os.Stat(page); err != nil {
			s.logger.Warn("page not found", "path", page, "error", err)
			continue
		}
		s.engine.StaticFile(route, page)
	}

	s.engine.StaticFS("/static", gin.Dir(s.opts.StaticDir, false))
}
