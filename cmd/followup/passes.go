package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Strob0t/followup/internal/config"
	"github.com/Strob0t/followup/internal/port/clock"
	"github.com/Strob0t/followup/internal/service"
)

// passClock returns the wall clock, or a clock fixed at the start of date
// (YYYY-MM-DD) in the scheduler time zone.
func passClock(cfg *config.Config, date string) (clock.Clock, error) {
	loc := cfg.Location()
	if date == "" {
		return clock.System{Location: loc}, nil
	}
	d, err := time.ParseInLocation(time.DateOnly, date, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid --date %q: want YYYY-MM-DD", date)
	}
	return clock.Fixed(d), nil
}

func passClockNow(a *app) clock.Clock {
	return clock.System{Location: a.cfg.Location()}
}

type passFunc func(*service.Coordinator, context.Context) (service.PassSummary, error)

func runPassCmd(a *app, use, short string, run passFunc) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			clk, err := passClock(a.cfg, date)
			if err != nil {
				return err
			}
			c, err := newCore(cmd.Context(), a.cfg, clk, nil)
			if err != nil {
				return err
			}
			defer c.Close()

			sum, err := run(c.coord, cmd.Context())
			if err != nil {
				return err
			}
			if err := a.emit(sum, func(w io.Writer) { writeSummary(w, sum) }); err != nil {
				return err
			}
			if sum.Failed > 0 {
				return fmt.Errorf("%s pass: %d task(s) failed", sum.Pass, sum.Failed)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "run as if today were this date (YYYY-MM-DD)")
	return cmd
}

func remindCmd(a *app) *cobra.Command {
	return runPassCmd(a, "remind", "Run one reminder pass over the open tasks",
		(*service.Coordinator).RunReminders)
}

func escalateCmd(a *app) *cobra.Command {
	return runPassCmd(a, "escalate", "Run one escalation pass over the overdue tasks",
		(*service.Coordinator).RunEscalations)
}
