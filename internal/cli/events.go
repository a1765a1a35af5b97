package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/secondbrain/internal/tracking"
)

func newEventCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Manage calendar events",
		Args:  exactArgs(0),
		RunE:  showHelp,
	}
	cmd.AddCommand(newEventAddCmd(a))
	cmd.AddCommand(newEventListCmd(a))
	cmd.AddCommand(newEventUpdateCmd(a))
	cmd.AddCommand(newEventDeleteCmd(a))
	return cmd
}

func newEventAddCmd(a *app) *cobra.Command {
	var in tracking.NewEvent
	cmd := &cobra.Command{
		Use:   "add <context-id> <title>",
		Short: "Create a standalone event",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.ContextID, in.Title = args[0], args[1]
			return a.mutate(cmd, "Created", func(svc *tracking.Service) (*tracking.Result, error) {
				return svc.CreateEvent(cmd.Context(), in)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Description, "description", "", "event description")
	f.StringVar(&in.Date, "date", "", "start date YYYY-MM-DD or date-time")
	f.StringVar(&in.Time, "time", "", "start time HH:MM")
	f.StringVar(&in.End, "end", "", "explicit end date-time")
	f.BoolVar(&in.AllDay, "all-day", false, "all-day event")
	f.StringVar(&in.DurationHours, "duration", "", "duration in hours")
	f.BoolVar(&in.Completed, "completed", false, "mark the event completed")
	f.StringSliceVar(&in.Tags, "tags", nil, "comma-separated tags")
	f.BoolVar(&in.Recurring, "recurring", false, "the event repeats")
	f.StringVar(&in.RecurrenceType, "recurrence", "", "daily, weekly, monthly or yearly")
	f.StringVar(&in.RecurrenceEndDate, "recurrence-end", "", "last date of the recurrence")
	return cmd
}

func newEventListCmd(a *app) *cobra.Command {
	var q tracking.Query
	cmd := &cobra.Command{
		Use:   "list <context-id>",
		Short: "List the events of a context",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd)
			if err != nil {
				return err
			}
			events, err := svc.ListEvents(cmd.Context(), args[0], q)
			if err != nil {
				return err
			}
			return a.emit(cmd, events, func(w io.Writer) { printEvents(w, events) })
		},
	}
	rangeFlags(cmd, &q)
	return cmd
}

func newEventUpdateCmd(a *app) *cobra.Command {
	var (
		title, description, date, clock, end string
		duration, recurrence, recurrenceEnd  string
		allDay, completed, recurring         bool
		tags                                 []string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update the fields of an event",
		Long:  "Update the given fields of an event. Changes to a linked event are\nmirrored onto its todo.",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := tracking.EventUpdate{
				Title:             changed(cmd, "title", title),
				Description:       changed(cmd, "description", description),
				Date:              changed(cmd, "date", date),
				Time:              changed(cmd, "time", clock),
				End:               changed(cmd, "end", end),
				AllDay:            changed(cmd, "all-day", allDay),
				DurationHours:     changed(cmd, "duration", duration),
				Completed:         changed(cmd, "completed", completed),
				Tags:              changed(cmd, "tags", tags),
				Recurring:         changed(cmd, "recurring", recurring),
				RecurrenceType:    changed(cmd, "recurrence", recurrence),
				RecurrenceEndDate: changed(cmd, "recurrence-end", recurrenceEnd),
			}
			return a.mutate(cmd, "Updated", func(svc *tracking.Service) (*tracking.Result, error) {
				return svc.UpdateEvent(cmd.Context(), args[0], in)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&title, "title", "", "event title")
	f.StringVar(&description, "description", "", "event description")
	f.StringVar(&date, "date", "", "start date YYYY-MM-DD or date-time")
	f.StringVar(&clock, "time", "", "start time HH:MM")
	f.StringVar(&end, "end", "", "explicit end date-time")
	f.BoolVar(&allDay, "all-day", false, "all-day event")
	f.StringVar(&duration, "duration", "", "duration in hours")
	f.BoolVar(&completed, "completed", false, "completion state (--completed=false to reopen)")
	f.StringSliceVar(&tags, "tags", nil, "comma-separated tags")
	f.BoolVar(&recurring, "recurring", false, "the event repeats")
	f.StringVar(&recurrence, "recurrence", "", "daily, weekly, monthly or yearly")
	f.StringVar(&recurrenceEnd, "recurrence-end", "", "last date of the recurrence")
	return cmd
}

func newEventDeleteCmd(a *app) *cobra.Command {
	var preserve bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an event",
		Long:  "Delete an event. Its tracked time is removed from the context unless\n--preserve-time is given. A linked todo stays and is unscheduled.",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, "Deleted", func(svc *tracking.Service) (*tracking.Result, error) {
				return svc.DeleteEvent(cmd.Context(), args[0], preserve)
			})
		},
	}
	cmd.Flags().BoolVar(&preserve, "preserve-time", false, "keep the tracked time in the context")
	return cmd
}
