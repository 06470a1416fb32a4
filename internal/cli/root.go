package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"studydesk/internal/config"
	"studydesk/internal/logger"
)

const app = config.AppName

// Actual version can be specified in build command.
var version = "unknown"

type options struct {
	cfgFile string
	v       *viper.Viper
}

// NewRootCommand builds the command tree with its own viper instance.
func NewRootCommand() *cobra.Command {
	opts := &options{v: viper.New()}

	root := &cobra.Command{
		Use:          app,
		Short:        app + " tracks deadlines with escalating reminders, skills, timetable and attendance",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "a config file (default is studydesk.yaml in current directory)")
	root.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	root.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	opts.v.BindPFlag("debug", root.PersistentFlags().Lookup("debug"))
	opts.v.BindPFlag("json", root.PersistentFlags().Lookup("json"))

	root.AddCommand(
		newServeCommand(opts),
		newCheckCommand(opts),
		newMigrateCommand(opts),
		newExtractCommand(opts),
		newVersionCommand(),
	)
	return root
}

// Execute executes the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

func (o *options) config() (*config.Config, error) {
	cfg, err := config.Load(o.v, o.cfgFile)
	if err != nil {
		return nil, fmt.Errorf("getting a config: %w", err)
	}
	return cfg, nil
}

func (o *options) load() (*config.Config, *zap.Logger, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, nil, err
	}
	l, err := logger.New(cfg.JSON, cfg.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("creating a logger: %w", err)
	}
	return cfg, l, nil
}
