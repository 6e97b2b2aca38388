package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Strob0t/followup/internal/adapter/sheet"
)

func importCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Load tasks from a tracking spreadsheet into the database",
		Long: `Load tasks from a CSV tracking sheet. Legacy column names are mapped onto
the canonical ones; rows whose task id already exists replace the stored task.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := sheet.NewStore(args[0]).LoadAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			pool, _, store, err := openStore(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := store.SaveAll(cmd.Context(), tasks); err != nil {
				return err
			}
			slog.Info("tasks imported", "file", args[0], "count", len(tasks))
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d task(s)\n", len(tasks))
			return nil
		},
	}
}

func exportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.csv|->",
		Short: "Write the stored tasks to a tracking spreadsheet",
		Long: `Write every stored task in the canonical CSV layout. An existing sheet is
merged by task id; "-" writes to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, _, store, err := openStore(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			tasks, err := store.LoadAll(cmd.Context())
			if err != nil {
				return err
			}
			if args[0] == "-" {
				return sheet.Write(cmd.OutOrStdout(), tasks)
			}
			if err := sheet.NewStore(args[0]).SaveAll(cmd.Context(), tasks); err != nil {
				return fmt.Errorf("write %s: %w", args[0], err)
			}
			slog.Info("tasks exported", "file", args[0], "count", len(tasks))
			return nil
		},
	}
}
