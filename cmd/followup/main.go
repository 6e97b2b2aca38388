// Command followup runs the task follow-up service and its maintenance
// commands.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	cfhttp "github.com/Strob0t/followup/internal/adapter/http"
	"github.com/Strob0t/followup/internal/config"
	"github.com/Strob0t/followup/internal/logger"
)

// app carries what every command needs after the persistent pre-run.
type app struct {
	cfg     *config.Config
	closer  logger.Closer
	jsonOut bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("fatal", "error", err)
		stop()
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	a := &app{}
	var (
		configPath string
		envPath    string
		port       string
		dsn        string
		natsURL    string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:           "followup",
		Short:         "Task follow-up service: reminders, escalations and reply tracking",
		Version:       cfhttp.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if configPath == "" {
				configPath = config.DefaultConfigFile
				if p := os.Getenv("FOLLOWUP_CONFIG"); p != "" {
					configPath = p
				}
			}
			cfg, err := config.LoadFiles(configPath, envPath)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			var o config.Overrides
			flags := cmd.Flags()
			if flags.Changed("port") {
				o.Port = &port
			}
			if flags.Changed("dsn") {
				o.DSN = &dsn
			}
			if flags.Changed("nats-url") {
				o.NatsURL = &natsURL
			}
			if flags.Changed("log-level") {
				o.LogLevel = &logLevel
			}
			if err := o.Apply(cfg); err != nil {
				return fmt.Errorf("config: %w", err)
			}

			log, closer := logger.New(cfg.Logging)
			slog.SetDefault(log)
			a.cfg, a.closer = cfg, closer
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.closer != nil {
				a.closer.Close()
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), a)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML config file (default followup.yaml or $FOLLOWUP_CONFIG)")
	pf.StringVar(&envPath, "env-file", config.DefaultEnvFile, "dotenv file loaded before the environment")
	pf.StringVar(&port, "port", "", "HTTP port")
	pf.StringVar(&dsn, "dsn", "", "PostgreSQL connection string")
	pf.StringVar(&natsURL, "nats-url", "", "NATS server URL")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVar(&a.jsonOut, "json", false, "print JSON even on a terminal")

	cmd.AddCommand(
		serveCmd(a),
		classifyCmd(a),
		listCmd(a),
		remindCmd(a),
		escalateCmd(a),
		replyCmd(a),
		intakeCmd(a),
		contactCmd(a),
		importCmd(a),
		exportCmd(a),
		migrateCmd(a),
	)
	return cmd
}

func serveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the pass scheduler and the inbound consumers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), a)
		},
	}
}
