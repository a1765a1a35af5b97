package types

import "time"

// Context defaults, applied on creation when the caller leaves them empty.
const (
	DefaultContextEmoji = "Briefcase"
	DefaultContextColor = "#000000"
)

// Context is a life or work area that owns todos and events and accumulates
// tracked time.
type Context struct {
	ContextID string    `json:"id"`
	Name      string    `json:"name"`
	Emoji     string    `json:"emoji"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`

	// TotalTrackedMinutes is the running aggregate of completed work. It is
	// never derived by summation; only the ledger changes it.
	TotalTrackedMinutes int `json:"totalTrackedMinutes"`
}

// Overview summarises a context for the dashboard.
type Overview struct {
	Context         *Context       `json:"context"`
	TodosByStatus   map[string]int `json:"todosByStatus"`
	EventCount      int            `json:"eventCount"`
	CompletedEvents int            `json:"completedEvents"`
	LinkedPairs     int            `json:"linkedPairs"`
	TrackedMinutes  int            `json:"trackedMinutes"`
}
