package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Strob0t/followup/internal/domain/task"
	"github.com/Strob0t/followup/internal/service"
)

func classifyCmd(a *app) *cobra.Command {
	var (
		in   task.Input
		days int
	)
	cmd := &cobra.Command{
		Use:   "classify <text>...",
		Short: "Preview the priority and deadline a task would get",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Text = strings.Join(args, " ")
			if cmd.Flags().Changed("deadline-days") {
				in.DeadlineDays = &days
			}
			now := passClockNow(a).Now()
			pr := a.cfg.Policy.Rules.Classify(in)
			res := service.ClassifyResult{
				Priority: pr,
				Deadline: a.cfg.Policy.Lifecycle().Deadline(now, pr, in.DeadlineDays),
			}
			return a.emit(res, func(w io.Writer) {
				fmt.Fprintf(w, "Priority:\t%s\n", res.Priority)
				fmt.Fprintf(w, "Deadline:\t%s\n", res.Deadline.Format(time.DateOnly))
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Owner, "owner", "", "task owner or department")
	f.StringVar(&in.Subject, "subject", "", "subject of the originating mail")
	f.IntVar(&days, "deadline-days", 0, "known number of days until the deadline")
	return cmd
}

func listCmd(a *app) *cobra.Command {
	var overdue bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newCore(cmd.Context(), a.cfg, passClockNow(a), nil)
			if err != nil {
				return err
			}
			defer c.Close()

			if overdue {
				tasks, err := c.coord.Overdue(cmd.Context())
				if err != nil {
					return err
				}
				return a.emit(tasks, func(w io.Writer) { writeOverdue(w, tasks) })
			}
			tasks, err := c.coord.List(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(tasks, func(w io.Writer) { writeTasks(w, tasks) })
		},
	}
	cmd.Flags().BoolVar(&overdue, "overdue", false, "only open tasks past their deadline")
	return cmd
}

func contactCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Manage the owner directory used to address reminders",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add <name> <email>",
		Short: "Add or update a contact",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, email := strings.TrimSpace(args[0]), strings.TrimSpace(args[1])
			if name == "" || !strings.Contains(email, "@") {
				return fmt.Errorf("invalid contact %q <%s>", name, email)
			}
			pool, pg, _, err := openStore(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := pg.UpsertContact(cmd.Context(), name, email); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "contact %s <%s> saved\n", name, email)
			return nil
		},
	})
	return cmd
}
