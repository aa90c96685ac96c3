// Package commands implements the catalogctl command tree.
package commands

import (
	"os"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/yigit/courseplanner/internal/bootstrap"
	"github.com/yigit/courseplanner/internal/config"
	"github.com/yigit/courseplanner/internal/pkg/logger"
)

// env is shared by every subcommand once the root pre-run has loaded config
type env struct {
	configPath string
	verbose    bool
	cfg        *config.Config
	log        zerolog.Logger
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Course catalog maintenance tool",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := logger.WarnLevel
			if e.verbose {
				level = logger.DebugLevel
			}
			logger.Configure(logger.Config{Level: level, Pretty: true, Output: os.Stderr})
			e.log = zlog.Logger

			cfg, err := config.LoadConfig(e.configPath)
			if err != nil {
				return err
			}
			e.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&e.configPath, "config", bootstrap.ConfigPath(), "path to the YAML config file")
	root.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "debug logging on stderr")

	root.AddCommand(semesterCmd(e), feedCmd(e), catalogCmd(e))
	return root
}
