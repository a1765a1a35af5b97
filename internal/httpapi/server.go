// Package httpapi exposes the tracking core over a JSON HTTP API. Every
// response uses the envelope {"success": bool, "data" | "message"}.
package httpapi

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mesh-intelligence/secondbrain/internal/tracking"
)

// Server wires the tracking service to a gin router.
type Server struct {
	svc    *tracking.Service
	logger *log.Logger
	router *gin.Engine
}

// NewServer builds the router. mode is a gin mode (debug, release, test);
// empty keeps gin's current mode.
func NewServer(svc *tracking.Service, logger *log.Logger, mode string) *Server {
	if mode != "" {
		gin.SetMode(mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	s := &Server{svc: svc, logger: logger, router: r}

	api := r.Group("/api")
	{
		api.GET("/health", s.health)

		api.GET("/contexts", s.listContexts)
		api.POST("/contexts", s.createContext)
		api.GET("/contexts/:id", s.getContext)
		api.DELETE("/contexts/:id", s.deleteContext)
		api.GET("/contexts/:id/overview", s.overview)
		api.GET("/contexts/:id/todos", s.listTodos)
		api.GET("/contexts/:id/events", s.listEvents)

		api.POST("/todos", s.createTodo)
		api.GET("/todos/:id", s.getTodo)
		api.PUT("/todos/:id", s.updateTodo)
		api.DELETE("/todos/:id", s.deleteTodo)
		api.PUT("/todos/:id/status", s.setTodoStatus)
		api.PUT("/todos/:id/duration", s.setTodoDuration)
		api.POST("/todos/:id/link", s.linkTodo)
		api.DELETE("/todos/:id/link/:eventId", s.unlinkTodo)

		api.POST("/events", s.createEvent)
		api.GET("/events/:id", s.getEvent)
		api.PUT("/events/:id", s.updateEvent)
		api.DELETE("/events/:id", s.deleteEvent)
	}

	return s
}

// Handler returns the router for use with net/http.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) health(c *gin.Context) {
	if err := s.svc.Ping(c.Request.Context()); err != nil {
		s.logger.Printf("health check: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "database connection failed",
		})
		return
	}
	ok(c, http.StatusOK, gin.H{"status": "healthy", "database": "connected"})
}
