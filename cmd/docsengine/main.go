package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"docsengine/internal/appdirs"
	"docsengine/internal/engine"
	"docsengine/internal/envfile"
	"docsengine/internal/envutil"
	"docsengine/internal/logging"
)

const envDebug = "DOCSENGINE_DEBUG"

var (
	dataDirFlag string
	rootCmd     = &cobra.Command{
		Use:   "docsengine",
		Short: "Resolve logical targets in remote documents and apply batched edits",
		Long: `docsengine turns logical targets (text occurrences, positions, table cells,
sections) into exact index ranges of a remote document and submits batched
edits against them. Run "serve" to speak JSON-RPC on stdio.`,
		Version:       engine.EngineVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// environment is what every command sets up before it builds an engine.
type environment struct {
	dataDir string
	logger  *slog.Logger
	close   func() error
}

func setup(logToFile bool, level string) (environment, error) {
	envResult := envfile.Load()
	dataDir := dataDirFlag
	if dataDir == "" {
		dir, err := appdirs.DataDir()
		if err != nil {
			return environment{}, fmt.Errorf("data dir: %w", err)
		}
		dataDir = dir
	}
	env := environment{dataDir: dataDir, close: func() error { return nil }}
	var logErr error
	if logToFile {
		logSetup, err := logging.NewFileLogger(dataDir, envutil.Bool(envDebug))
		logErr = err
		env.logger = logSetup.Logger
		if logSetup.Close != nil {
			env.close = logSetup.Close
		}
		if logSetup.Enabled {
			env.logger.Info("engine.logging_enabled", "path", logSetup.Path)
		}
	} else {
		if envutil.Bool(envDebug) {
			level = "debug"
		}
		env.logger = logging.NewConsoleLogger(os.Stderr, level)
	}
	if env.logger == nil {
		env.logger = logging.Nop()
	}
	env.logger = env.logger.With("component", "engine")
	if envResult.Loaded {
		env.logger.Debug("engine.env_loaded", "path", envResult.Path, "keys", envResult.Keys)
	}
	if envResult.Err != nil {
		env.logger.Warn("engine.env_load_failed", "path", envResult.Path, "error", envResult.Err.Error())
	}
	if logErr != nil {
		env.logger.Warn("engine.log_setup_failed", "error", logErr.Error())
	}
	return env, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "",
		"Directory holding settings.json and logs (default: $"+appdirs.DataDirVar+" or the user config dir)")
	rootCmd.AddCommand(serveCmd, resolveCmd, textCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
