package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/secondbrain/internal/tracking"
)

func newTodoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todo",
		Short: "Manage todos",
		Args:  exactArgs(0),
		RunE:  showHelp,
	}
	cmd.AddCommand(newTodoAddCmd(a))
	cmd.AddCommand(newTodoListCmd(a))
	cmd.AddCommand(newTodoUpdateCmd(a))
	cmd.AddCommand(newTodoStatusCmd(a))
	cmd.AddCommand(newTodoDurationCmd(a))
	cmd.AddCommand(newTodoLinkCmd(a))
	cmd.AddCommand(newTodoUnlinkCmd(a))
	cmd.AddCommand(newTodoDeleteCmd(a))
	return cmd
}

// mutate runs a service mutation and reports its result.
func (a *app) mutate(cmd *cobra.Command, verb string, fn func(svc *tracking.Service) (*tracking.Result, error)) error {
	svc, err := a.service(cmd)
	if err != nil {
		return err
	}
	res, err := fn(svc)
	if err != nil {
		return err
	}
	return a.emit(cmd, res, func(w io.Writer) { printResult(w, verb, res) })
}

// changed returns a pointer to v when the flag was given on the command line.
func changed[T any](cmd *cobra.Command, name string, v T) *T {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

func newTodoAddCmd(a *app) *cobra.Command {
	var in tracking.NewTodo
	cmd := &cobra.Command{
		Use:   "add <context-id> <title>",
		Short: "Create a todo",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.ContextID, in.Title = args[0], args[1]
			return a.mutate(cmd, "Created", func(svc *tracking.Service) (*tracking.Result, error) {
				return svc.CreateTodo(cmd.Context(), in)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Description, "description", "", "todo description")
	f.StringVar(&in.Status, "status", "", "todo, in_progress or done (default todo)")
	f.StringVar(&in.Priority, "priority", "", "low, medium or high (default medium)")
	f.StringVar(&in.DueDate, "due", "", "due date YYYY-MM-DD")
	f.StringVar(&in.DueTime, "due-time", "", "due time HH:MM")
	f.StringSliceVar(&in.Tags, "tags", nil, "comma-separated tags")
	f.StringVar(&in.DurationHours, "duration", "", "estimated duration in hours")
	return cmd
}

func newTodoListCmd(a *app) *cobra.Command {
	var q tracking.Query
	cmd := &cobra.Command{
		Use:   "list <context-id>",
		Short: "List the todos of a context",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd)
			if err != nil {
				return err
			}
			todos, err := svc.ListTodos(cmd.Context(), args[0], q)
			if err != nil {
				return err
			}
			return a.emit(cmd, todos, func(w io.Writer) { printTodos(w, todos) })
		},
	}
	rangeFlags(cmd, &q)
	return cmd
}

func newTodoUpdateCmd(a *app) *cobra.Command {
	var (
		title, description, status, priority string
		due, dueTime, duration               string
		tags                                 []string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update the fields of a todo",
		Long:  "Update the given fields of a todo. Passing an empty --due, --due-time or\n--duration clears the value.",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := tracking.TodoUpdate{
				Title:         changed(cmd, "title", title),
				Description:   changed(cmd, "description", description),
				Status:        changed(cmd, "status", status),
				Priority:      changed(cmd, "priority", priority),
				DueDate:       changed(cmd, "due", due),
				DueTime:       changed(cmd, "due-time", dueTime),
				Tags:          changed(cmd, "tags", tags),
				DurationHours: changed(cmd, "duration", duration),
			}
			return a.mutate(cmd, "Updated", func(svc *tracking.Service) (*tracking.Result, error) {
				return svc.UpdateTodo(cmd.Context(), args[0], in)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&title, "title", "", "todo title")
	f.StringVar(&description, "description", "", "todo description")
	f.StringVar(&status, "status", "", "todo, in_progress or done")
	f.StringVar(&priority, "priority", "", "low, medium or high")
	f.StringVar(&due, "due", "", "due date YYYY-MM-DD")
	f.StringVar(&dueTime, "due-time", "", "due time HH:MM")
	f.StringSliceVar(&tags, "tags", nil, "comma-separated tags")
	f.StringVar(&duration, "duration", "", "duration in hours")
	return cmd
}

func newTodoStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Set the status of a todo (todo, in_progress, done)",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, "Updated", func(svc *tracking.Service) (*tracking.Result, error) {
				return svc.SetTodoStatus(cmd.Context(), args[0], args[1])
			})
		},
	}
}

func newTodoDurationCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "duration <id> [hours]",
		Short: "Set or clear the duration of a todo",
		Long:  "Set the duration of a todo in hours. Omitting hours clears it; a linked\ntodo keeps its previous duration instead.",
		Args:  rangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var hours string
			if len(args) == 2 {
				hours = args[1]
			}
			return a.mutate(cmd, "Updated", func(svc *tracking.Service) (*tracking.Result, error) {
				return svc.SetTodoDuration(cmd.Context(), args[0], hours)
			})
		},
	}
}

func newTodoLinkCmd(a *app) *cobra.Command {
	var p tracking.LinkParams
	cmd := &cobra.Command{
		Use:   "link <id>",
		Short: "Schedule a todo on the calendar",
		Long:  "Create a calendar event for the todo and link the two. An existing linked\nevent is replaced.",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, "Linked", func(svc *tracking.Service) (*tracking.Result, error) {
				return svc.LinkTodoToEvent(cmd.Context(), args[0], p)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&p.Date, "date", "", "event date YYYY-MM-DD (required)")
	f.StringVar(&p.Time, "time", "", "start time HH:MM")
	f.BoolVar(&p.AllDay, "all-day", false, "schedule for the whole day")
	f.StringVar(&p.DurationHours, "duration", "", "event duration in hours (default: the todo's duration)")
	return cmd
}

func newTodoUnlinkCmd(a *app) *cobra.Command {
	var keep bool
	cmd := &cobra.Command{
		Use:   "unlink <id> <event-id>",
		Short: "Remove a todo from the calendar",
		Long:  "Unlink a todo from its event. The event is deleted unless --keep-event is\ngiven, in which case it keeps the tracked time.",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, "Unlinked", func(svc *tracking.Service) (*tracking.Result, error) {
				return svc.UnlinkTodo(cmd.Context(), args[0], args[1], keep)
			})
		},
	}
	cmd.Flags().BoolVar(&keep, "keep-event", false, "keep the event as a standalone entry")
	return cmd
}

func newTodoDeleteCmd(a *app) *cobra.Command {
	var preserve bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a todo",
		Long:  "Delete a todo. Its tracked time is removed from the context unless\n--preserve-time is given.",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, "Deleted", func(svc *tracking.Service) (*tracking.Result, error) {
				return svc.DeleteTodo(cmd.Context(), args[0], preserve)
			})
		},
	}
	cmd.Flags().BoolVar(&preserve, "preserve-time", false, "keep the tracked time in the context")
	return cmd
}
