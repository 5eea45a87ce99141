// Package cmd contains the CLI commands for the adsheet application.
package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/eykd/adsheet-go/internal/config"
)

var rootCmd *cobra.Command

func init() {
	rootCmd = NewRootCmd(afero.NewOsFs(), NewService)
}

// ServiceFactory builds the command service once settings are resolved.
type ServiceFactory func(fs afero.Fs, cfg config.Config, log zerolog.Logger) (Service, error)

// runtime is filled in by the root command before any subcommand runs.
type runtime struct {
	svc  Service
	cfg  config.Config
	log  zerolog.Logger
	json bool
}

// flagKeys binds flag names to config keys. Subcommand flags are bound
// only when the running command defines them.
var flagKeys = map[string]string{
	"verbose":   config.KeyVerbose,
	"rules-dir": config.KeyRulesDir,
	"addr":      config.KeyServerAddr,
}

// NewRootCmd creates a new root command instance.
// This is useful for testing to get a fresh command tree.
func NewRootCmd(fs afero.Fs, factory ServiceFactory) *cobra.Command {
	rt := &runtime{log: zerolog.Nop()}
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "adsheet",
		Short: "Validate ad spreadsheets against platform rules",
		Long: "adsheet checks CSV and Excel ad exports against per-platform rules, " +
			"suggests and applies fixes, and flags content placed in the wrong column.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			config.Setup(v, fs, cfgFile)
			if err := bindFlags(v, cmd.Flags()); err != nil {
				return err
			}
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			rt.cfg = cfg
			rt.log = newLogger(cmd.ErrOrStderr(), cfg.Verbose)

			svc, err := factory(fs, cfg, rt.log)
			if err != nil {
				return err
			}
			rt.svc = svc
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default ./adsheet.yaml)")
	pf.BoolP("verbose", "v", false, "Enable debug logging to stderr")
	pf.String("rules-dir", "", "Directory of platform rulesets searched before the built-in ones")
	pf.BoolVar(&rt.json, "json", false, "Output results as JSON")

	cmd.AddCommand(
		NewValidateCmd(rt),
		NewDetectCmd(rt),
		NewPlatformsCmd(rt),
		NewReviewCmd(rt),
		NewDoctorCmd(rt),
		NewServeCmd(rt),
	)
	return cmd
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// ExecuteContext runs the root command with the given context.
// This enables graceful shutdown via context cancellation (e.g., on SIGINT).
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
