package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mesh-intelligence/secondbrain/internal/tracking"
)

type createEventReq struct {
	ContextID         string   `json:"contextId"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Date              string   `json:"date"`
	Time              string   `json:"time"`
	End               string   `json:"endDate"`
	AllDay            bool     `json:"allDay"`
	Duration          hours    `json:"duration"`
	DurationHours     hours    `json:"durationHours"`
	Completed         bool     `json:"completed"`
	Tags              []string `json:"tags"`
	Recurring         bool     `json:"recurring"`
	RecurrenceType    string   `json:"recurrenceType"`
	RecurrenceEndDate string   `json:"recurrenceEndDate"`
}

type updateEventReq struct {
	Title             *string       `json:"title"`
	Description       *string       `json:"description"`
	Date              *string       `json:"date"`
	Time              *string       `json:"time"`
	End               *string       `json:"endDate"`
	AllDay            *bool         `json:"allDay"`
	Duration          optionalHours `json:"duration"`
	DurationHours     optionalHours `json:"durationHours"`
	Completed         *bool         `json:"completed"`
	Tags              *[]string     `json:"tags"`
	Recurring         *bool         `json:"recurring"`
	RecurrenceType    *string       `json:"recurrenceType"`
	RecurrenceEndDate *string       `json:"recurrenceEndDate"`
}

func (s *Server) createEvent(c *gin.Context) {
	var req createEventReq
	if !s.bind(c, &req) {
		return
	}
	res, err := s.svc.CreateEvent(c.Request.Context(), tracking.NewEvent{
		ContextID:         req.ContextID,
		Title:             req.Title,
		Description:       req.Description,
		Date:              req.Date,
		Time:              req.Time,
		End:               req.End,
		AllDay:            req.AllDay,
		DurationHours:     durationOf(req.DurationHours, req.Duration),
		Completed:         req.Completed,
		Tags:              req.Tags,
		Recurring:         req.Recurring,
		RecurrenceType:    req.RecurrenceType,
		RecurrenceEndDate: req.RecurrenceEndDate,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusCreated, res)
}

func (s *Server) getEvent(c *gin.Context) {
	event, err := s.svc.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, event)
}

func (s *Server) updateEvent(c *gin.Context) {
	var req updateEventReq
	if !s.bind(c, &req) {
		return
	}
	res, err := s.svc.UpdateEvent(c.Request.Context(), c.Param("id"), tracking.EventUpdate{
		Title:             req.Title,
		Description:       req.Description,
		Date:              req.Date,
		Time:              req.Time,
		End:               req.End,
		AllDay:            req.AllDay,
		DurationHours:     optionalDurationOf(req.DurationHours, req.Duration),
		Completed:         req.Completed,
		Tags:              req.Tags,
		Recurring:         req.Recurring,
		RecurrenceType:    req.RecurrenceType,
		RecurrenceEndDate: req.RecurrenceEndDate,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, res)
}

func (s *Server) deleteEvent(c *gin.Context) {
	preserve, valid := s.queryBool(c, "preserveTime")
	if !valid {
		return
	}
	res, err := s.svc.DeleteEvent(c.Request.Context(), c.Param("id"), preserve)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, res)
}
