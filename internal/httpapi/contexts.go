package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mesh-intelligence/secondbrain/internal/tracking"
)

type createContextReq struct {
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
	Color string `json:"color"`
}

func (s *Server) listContexts(c *gin.Context) {
	contexts, err := s.svc.ListContexts(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	list(c, contexts)
}

func (s *Server) createContext(c *gin.Context) {
	var req createContextReq
	if !s.bind(c, &req) {
		return
	}
	created, err := s.svc.CreateContext(c.Request.Context(), tracking.NewContext{
		Name:  req.Name,
		Emoji: req.Emoji,
		Color: req.Color,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusCreated, created)
}

func (s *Server) getContext(c *gin.Context) {
	got, err := s.svc.GetContext(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, got)
}

func (s *Server) deleteContext(c *gin.Context) {
	if err := s.svc.DeleteContext(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "context deleted"})
}

func (s *Server) overview(c *gin.Context) {
	ov, err := s.svc.Overview(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, ov)
}

// rangeQuery reads ?range=&from=&to= into a tracking query.
func rangeQuery(c *gin.Context) tracking.Query {
	return tracking.Query{
		Range: c.Query("range"),
		From:  c.Query("from"),
		To:    c.Query("to"),
	}
}

func (s *Server) listTodos(c *gin.Context) {
	todos, err := s.svc.ListTodos(c.Request.Context(), c.Param("id"), rangeQuery(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	list(c, todos)
}

func (s *Server) listEvents(c *gin.Context) {
	events, err := s.svc.ListEvents(c.Request.Context(), c.Param("id"), rangeQuery(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	list(c, events)
}
