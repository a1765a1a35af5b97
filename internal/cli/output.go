package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mesh-intelligence/secondbrain/internal/tracking"
	"github.com/mesh-intelligence/secondbrain/pkg/types"
)

const displayLayout = "2006-01-02 15:04"

func formatMinutes(m int) string {
	return fmt.Sprintf("%dh%02dm", m/60, m%60)
}

func formatOptMinutes(m *int) string {
	if m == nil {
		return "-"
	}
	return formatMinutes(*m)
}

func formatOptDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printContexts(w io.Writer, contexts []*types.Context) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tEMOJI\tCOLOR\tTRACKED")
	for _, c := range contexts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.ContextID, c.Name, c.Emoji, c.Color, formatMinutes(c.TotalTrackedMinutes))
	}
	tw.Flush()
}

func printOverview(w io.Writer, ov *types.Overview) {
	fmt.Fprintf(w, "ID:        %s\n", ov.Context.ContextID)
	fmt.Fprintf(w, "Name:      %s\n", ov.Context.Name)
	fmt.Fprintf(w, "Tracked:   %s\n", formatMinutes(ov.TrackedMinutes))
	fmt.Fprintf(w, "Todos:     %d todo, %d in progress, %d done\n",
		ov.TodosByStatus[types.StatusTodo], ov.TodosByStatus[types.StatusInProgress], ov.TodosByStatus[types.StatusDone])
	fmt.Fprintf(w, "Events:    %d (%d completed)\n", ov.EventCount, ov.CompletedEvents)
	fmt.Fprintf(w, "Linked:    %d\n", ov.LinkedPairs)
}

func printTodos(w io.Writer, todos []*types.Todo) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tPRIORITY\tDUE\tDURATION\tEVENT")
	for _, t := range todos {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", t.TodoID, t.Title, t.Status, t.Priority,
			formatOptDate(t.DueDate), formatOptMinutes(t.DurationMinutes), orDash(t.LinkedEventID))
	}
	tw.Flush()
}

func printEvents(w io.Writer, events []*types.Event) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tSTART\tEND\tCOMPLETED\tTODO")
	for _, e := range events {
		end := "-"
		if e.EndDate != nil {
			end = e.EndDate.Format(displayLayout)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\t%s\n", e.EventID, e.Title, e.StartDate.Format(displayLayout), end,
			e.Completed, orDash(e.LinkedTodoID))
	}
	tw.Flush()
}

// printResult reports a mutation: the records it touched and the context
// aggregate afterwards.
func printResult(w io.Writer, verb string, res *tracking.Result) {
	var parts []string
	if res.Todo != nil {
		parts = append(parts, fmt.Sprintf("todo %s (%s)", res.Todo.TodoID, res.Todo.Status))
	}
	if res.Event != nil {
		parts = append(parts, fmt.Sprintf("event %s", res.Event.EventID))
	}
	fmt.Fprintf(w, "%s %s\n", verb, strings.Join(parts, ", "))
	if res.Context != nil {
		fmt.Fprintf(w, "%s tracked: %s\n", res.Context.Name, formatMinutes(res.Context.TotalTrackedMinutes))
	}
}
