package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/infralens/api/internal/config"
)

var version = "0.1.0"

var debugLogging bool

func newRootCommand() *cobra.Command {
	serveCmd := newServeCommand()

	cmd := &cobra.Command{
		Use:   "infralens",
		Short: "InfraLens - ML model recommendations for your hardware",
		Long: `InfraLens recommends open ML models for a task, a GPU memory budget,
a latency target and a license policy.

Without a subcommand it runs the HTTP API, same as "infralens serve".`,
		Version:      version,
		SilenceUsage: true,
		RunE:         serveCmd.RunE,
	}

	cmd.PersistentFlags().BoolVar(&debugLogging, "debug", false, "Enable debug logging")

	cmd.AddCommand(serveCmd)
	cmd.AddCommand(newMigrateCommand())
	cmd.AddCommand(newWorkerCommand())
	cmd.AddCommand(newSyncCommand())
	cmd.AddCommand(newRecommendCommand())
	cmd.AddCommand(newEventsCommand())

	return cmd
}

func execute() error {
	return newRootCommand().Execute()
}

// newLogger builds the JSON production logger, writing to stdout.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	zapConfig.OutputPaths = []string{"stdout"}
	zapConfig.ErrorOutputPaths = []string{"stderr"}
	if debugLogging {
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("environment", cfg.Environment)), nil
}

// newCLILogger logs warnings and errors to stderr so command output on stdout
// stays machine readable.
func newCLILogger() (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	zapConfig.OutputPaths = []string{"stderr"}
	zapConfig.ErrorOutputPaths = []string{"stderr"}
	zapConfig.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if debugLogging {
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zapConfig.Build()
}
