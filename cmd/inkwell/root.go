package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/eringen/inkwell"
)

// app carries the resolved configuration from the root command to its
// subcommands.
type app struct {
	cfgFile string
	v       *viper.Viper
	cfg     inkwell.Config
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	cmd := &cobra.Command{
		Use:           "inkwell",
		Short:         "Inkwell builds and serves a markdown blog",
		Long:          "Inkwell renders markdown posts and pages through HTML templates into a static site\nand serves the result with a small development file server.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig(cmd)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is ./inkwell.yaml)")
	pf.String("source", "", "site source directory (default \".\")")
	pf.String("out", "", "output directory (default \"dist\")")
	pf.String("log-level", "", "log level: debug, info, warn, error, off")

	cmd.AddCommand(
		newBuildCmd(a),
		newServeCmd(a),
		newInitCmd(),
		newVersionCmd(),
	)
	return cmd
}

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"source":        "source",
	"out":           "output",
	"log-level":     "log_level",
	"port":          "port",
	"no-cache":      "no_cache",
	"host":          "host",
	"site-name":     "site_name",
	"front-matter":  "front_matter_dates",
	"port-attempts": "port_attempts",
	"base-url":      "base_url",
}

// loadConfig resolves the configuration: defaults, then the config file,
// then INKWELL_* environment variables (PORT also works), then flags.
func (a *app) loadConfig(cmd *cobra.Command) error {
	v := a.v
	def := inkwell.DefaultConfig()

	v.SetDefault("source", def.SourceDir)
	v.SetDefault("output", def.OutputDir)
	v.SetDefault("host", def.Host)
	v.SetDefault("port", def.Port)
	v.SetDefault("port_attempts", def.PortAttempts)
	v.SetDefault("no_cache", def.NoCache)
	v.SetDefault("front_matter_dates", def.FrontMatterDates)
	v.SetDefault("site_name", def.SiteName)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("description", def.Description)
	v.SetDefault("base_url", def.BaseURL)

	if a.cfgFile != "" {
		v.SetConfigFile(a.cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("inkwell")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("INKWELL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("port", "INKWELL_PORT", "PORT"); err != nil {
		return err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || a.cfgFile != "" {
			return fmt.Errorf("read config: %w", err)
		}
	}

	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok && bindErr == nil {
			bindErr = v.BindPFlag(key, f)
		}
	})
	if bindErr != nil {
		return bindErr
	}

	if err := v.Unmarshal(&a.cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

func (a *app) logger(prefix string) *log.Logger {
	return inkwell.NewLogger(prefix, a.cfg.LogLevel)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the inkwell version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "inkwell %s\n", version)
		},
	}
}
