package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/askiada/go-wbnm/internal/config"
	"github.com/askiada/go-wbnm/internal/logging"
)

type app struct {
	configPath string
	envFile    string
	logLevel   string
	logFormat  string
	workers    int

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "wbnm",
		Short: "Read WBNM runfiles and meta files",
		Long: `wbnm decodes the runfile of a WBNM model into a validated catchment network and
reads the peak summaries and hydrographs of its meta files.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML configuration file")
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file with WBNM_* overrides, ignored when missing")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: json, console")
	flags.IntVar(&a.workers, "workers", 0, "meta files parsed at once (0: one per CPU)")

	root.AddCommand(
		a.runfileCmd(),
		a.topologyCmd(),
		a.peaksCmd(),
		a.hydrographsCmd(),
		a.importCmd(),
	)

	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	envLoaded, err := config.LoadEnvFile(a.envFile)
	if err != nil {
		return err
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return errors.Wrap(err, "unable to load configuration")
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = a.logFormat
	}
	if flags.Changed("workers") {
		cfg.Batch.Workers = a.workers
	}

	err = cfg.Validate()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return errors.Wrap(err, "unable to initialize logger")
	}

	a.cfg = cfg
	a.logger = logger

	if envLoaded {
		logger.Debug("environment loaded", zap.String("path", a.envFile))
	}

	return nil
}
