package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mesh-intelligence/secondbrain/pkg/types"
)

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// list adds a count next to the data, as list endpoints report it.
func list[T any](c *gin.Context, items []T) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": items, "count": len(items)})
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		msg = "internal error"
	}
	c.JSON(status, gin.H{"success": false, "message": msg})
}

// statusFor maps an error kind to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// bind decodes the JSON body into req, reporting a malformed body as a
// validation error.
func (s *Server) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		s.fail(c, fmt.Errorf("%w: malformed request body: %v", types.ErrValidation, err))
		return false
	}
	return true
}

// queryBool reads an optional boolean query parameter.
func (s *Server) queryBool(c *gin.Context, name string) (bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return false, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		s.fail(c, fmt.Errorf("%w: %s must be true or false", types.ErrValidation, name))
		return false, false
	}
	return v, true
}

// hours is a duration in hours given either as a JSON number or a string.
// null and "" both decode to the empty string, which clears a duration.
type hours string

func (h *hours) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*h = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*h = hours(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("duration must be a number or string: %w", err)
	}
	*h = hours(n.String())
	return nil
}

// optionalHours is an hours field on an update that remembers whether the
// key was sent. An explicit null clears the duration; an absent key leaves
// it alone.
type optionalHours struct {
	set   bool
	value hours
}

func (o *optionalHours) UnmarshalJSON(data []byte) error {
	o.set = true
	return o.value.UnmarshalJSON(data)
}

func (o optionalHours) ptr() *string {
	if !o.set {
		return nil
	}
	s := string(o.value)
	return &s
}

// durationOf reads a duration sent as durationHours or as the shorter
// duration key. durationHours wins when both are given.
func durationOf(long, short hours) string {
	if long != "" {
		return string(long)
	}
	return string(short)
}

// optionalDurationOf is durationOf for updates.
func optionalDurationOf(long, short optionalHours) *string {
	if long.set {
		return long.ptr()
	}
	return short.ptr()
}
