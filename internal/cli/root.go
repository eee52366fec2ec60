// Package cli wires configuration, logging and the loader into the f1grid
// commands.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jwulff/f1grid/internal/config"
	"github.com/jwulff/f1grid/internal/directory"
	"github.com/jwulff/f1grid/internal/log"
	"github.com/jwulff/f1grid/internal/openf1"
)

// Version is set at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

// runtime carries what every command needs once flags are parsed.
type runtime struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
	logger  *zap.Logger
}

// NewRootCmd builds the command tree. Without a subcommand it starts the TUI.
func NewRootCmd() *cobra.Command {
	rt := &runtime{v: viper.New()}
	config.SetDefaults(rt.v)

	root := &cobra.Command{
		Use:          "f1grid",
		Short:        "Browse the Formula 1 driver grid of a session",
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if rt.logger != nil {
				_ = rt.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(rt)
		},
	}

	d := config.Defaults
	pf := root.PersistentFlags()
	pf.StringVar(&rt.cfgFile, "config", "", "config file (default is $HOME/.f1grid.yml)")
	pf.String("api-url", d.APIURL, "OpenF1 API root")
	pf.Int("session-key", d.SessionKey, "session whose drivers are listed")
	pf.String("flag-url", d.FlagURL, "flag image template, %s is the two-letter country code")
	pf.Duration("timeout", d.Timeout, "timeout of the drivers request")
	pf.String("locale", d.Locale, "locale used to sort team names")
	pf.String("log-level", d.LogLevel, "controls the log level (debug, info, warn, error)")
	pf.String("log-format", d.LogFormat, "controls the log output format (text, json)")
	pf.String("log-file", d.LogFile, "write logs to this file (default stderr, $HOME/.f1grid.log for the TUI)")

	root.AddCommand(newListCmd(rt))
	root.AddCommand(newServeCmd(rt))
	return root
}

// Execute runs the root command. It is called by main.main.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// init resolves the configuration for cmd: flags override F1GRID_*
// environment variables, which override the config file and defaults.
func (rt *runtime) init(cmd *cobra.Command) error {
	v := rt.v
	if rt.cfgFile != "" {
		v.SetConfigFile(rt.cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".f1grid")
	}

	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if rt.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	if err := bindFlags(cmd, v); err != nil {
		return err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	// the TUI owns the terminal, keep logs off it
	if cmd == cmd.Root() && cfg.LogFile == "" {
		cfg.LogFile = defaultTUILogFile()
	}

	logger, err := log.New(log.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	if err != nil {
		return err
	}
	if used := v.ConfigFileUsed(); used != "" {
		logger.Debug("using config file", zap.String("path", used))
	}

	rt.cfg = cfg
	rt.logger = logger
	return nil
}

// bindFlags makes every flag of cmd, inherited ones included, the highest
// priority source for its viper key.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var err error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Name == "config" {
			return
		}
		if bindErr := v.BindPFlag(f.Name, f); bindErr != nil {
			err = fmt.Errorf("bind flag %s: %w", f.Name, bindErr)
		}
	})
	return err
}

func defaultTUILogFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "f1grid.log")
	}
	return filepath.Join(home, ".f1grid.log")
}

func (rt *runtime) newLoader() *directory.Loader {
	client := openf1.NewClient(rt.cfg.APIURL, openf1.WithTimeout(rt.cfg.Timeout))
	return directory.NewLoader(client, rt.cfg.SessionKey,
		directory.WithLocale(rt.cfg.Language()),
		directory.WithLogger(rt.logger.Named("loader")))
}
