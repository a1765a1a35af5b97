package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mesh-intelligence/secondbrain/internal/tracking"
)

type createTodoReq struct {
	ContextID     string   `json:"contextId"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Status        string   `json:"status"`
	Priority      string   `json:"priority"`
	DueDate       string   `json:"dueDate"`
	DueTime       string   `json:"dueTime"`
	Tags          []string `json:"tags"`
	Duration      hours    `json:"duration"`
	DurationHours hours    `json:"durationHours"`
}

type updateTodoReq struct {
	Title         *string       `json:"title"`
	Description   *string       `json:"description"`
	Status        *string       `json:"status"`
	Priority      *string       `json:"priority"`
	DueDate       *string       `json:"dueDate"`
	DueTime       *string       `json:"dueTime"`
	Tags          *[]string     `json:"tags"`
	Duration      optionalHours `json:"duration"`
	DurationHours optionalHours `json:"durationHours"`
}

type statusReq struct {
	Status string `json:"status" binding:"required"`
}

type durationReq struct {
	Duration      hours `json:"duration"`
	DurationHours hours `json:"durationHours"`
}

type linkReq struct {
	Date          string `json:"date"`
	Time          string `json:"time"`
	AllDay        bool   `json:"allDay"`
	Duration      hours  `json:"duration"`
	DurationHours hours  `json:"durationHours"`
}

func (s *Server) createTodo(c *gin.Context) {
	var req createTodoReq
	if !s.bind(c, &req) {
		return
	}
	res, err := s.svc.CreateTodo(c.Request.Context(), tracking.NewTodo{
		ContextID:     req.ContextID,
		Title:         req.Title,
		Description:   req.Description,
		Status:        req.Status,
		Priority:      req.Priority,
		DueDate:       req.DueDate,
		DueTime:       req.DueTime,
		Tags:          req.Tags,
		DurationHours: durationOf(req.DurationHours, req.Duration),
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusCreated, res)
}

func (s *Server) getTodo(c *gin.Context) {
	todo, err := s.svc.GetTodo(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, todo)
}

func (s *Server) updateTodo(c *gin.Context) {
	var req updateTodoReq
	if !s.bind(c, &req) {
		return
	}
	res, err := s.svc.UpdateTodo(c.Request.Context(), c.Param("id"), tracking.TodoUpdate{
		Title:         req.Title,
		Description:   req.Description,
		Status:        req.Status,
		Priority:      req.Priority,
		DueDate:       req.DueDate,
		DueTime:       req.DueTime,
		Tags:          req.Tags,
		DurationHours: optionalDurationOf(req.DurationHours, req.Duration),
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, res)
}

func (s *Server) setTodoStatus(c *gin.Context) {
	var req statusReq
	if !s.bind(c, &req) {
		return
	}
	res, err := s.svc.SetTodoStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, res)
}

func (s *Server) setTodoDuration(c *gin.Context) {
	var req durationReq
	if !s.bind(c, &req) {
		return
	}
	res, err := s.svc.SetTodoDuration(c.Request.Context(), c.Param("id"), durationOf(req.DurationHours, req.Duration))
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, res)
}

func (s *Server) linkTodo(c *gin.Context) {
	var req linkReq
	if !s.bind(c, &req) {
		return
	}
	res, err := s.svc.LinkTodoToEvent(c.Request.Context(), c.Param("id"), tracking.LinkParams{
		Date:          req.Date,
		Time:          req.Time,
		AllDay:        req.AllDay,
		DurationHours: durationOf(req.DurationHours, req.Duration),
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusCreated, res)
}

func (s *Server) unlinkTodo(c *gin.Context) {
	keep, valid := s.queryBool(c, "keepEvent")
	if !valid {
		return
	}
	res, err := s.svc.UnlinkTodo(c.Request.Context(), c.Param("id"), c.Param("eventId"), keep)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, res)
}

func (s *Server) deleteTodo(c *gin.Context) {
	preserve, valid := s.queryBool(c, "preserveTime")
	if !valid {
		return
	}
	res, err := s.svc.DeleteTodo(c.Request.Context(), c.Param("id"), preserve)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, res)
}
