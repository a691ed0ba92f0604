package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/RyanBlaney/sonido-voz/logging"
	"github.com/RyanBlaney/sonido-voz/voicemap"
	"github.com/RyanBlaney/sonido-voz/voicemap/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "VOICEMAP"

// app carries the state shared by every subcommand
type app struct {
	v      *viper.Viper
	logger logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "voicemap",
		Short: "Match recorded voices to synthetic voice identities",
		Long: `voicemap analyzes a voice recording (pitch, formants, loudness,
sharpness, roughness, jitter, shimmer and spectral shape) and selects the
closest voice from a catalog along with pitch and speed settings.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initialize(cmd)
		},
	}

	rootCmd.PersistentFlags().String("config", "", "analysis config file (yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("catalog", "", "voice catalog file (default is the bundled Kokoro catalog)")
	rootCmd.PersistentFlags().StringP("format", "f", "json", "output format (json, yaml)")

	rootCmd.AddCommand(newAnalyzeCmd(a), newCatalogCmd(a))
	return rootCmd
}

// initialize reads the config file and environment, binds flags and
// builds the logger
func (a *app) initialize(cmd *cobra.Command) error {
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	a.v.AutomaticEnv()
	setDefaults(a.v, config.DefaultAnalysisConfig())

	if err := bindFlags(cmd, a.v); err != nil {
		return err
	}

	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		a.v.SetConfigType("yaml")
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %q: %w", path, err)
		}
	}

	level, err := logging.ParseLevel(a.v.GetString("log-level"))
	if err != nil {
		return err
	}
	base := logrus.New()
	base.SetOutput(cmd.ErrOrStderr())
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	logger := logging.NewLogrusLogger(base)
	logger.SetLevel(level)
	a.logger = logger
	logging.SetGlobalLogger(logger)
	return nil
}

// bindFlags binds each cobra flag to its viper key and VOICEMAP_ variable
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var errs []error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
		if err := v.BindPFlag(f.Name, f); err != nil {
			errs = append(errs, err)
		}
		if err := v.BindEnv(f.Name, envPrefix+"_"+envVarSuffix); err != nil {
			errs = append(errs, err)
		}
	})
	return errors.Join(errs...)
}

// analysisConfig decodes the analysis sections of the merged configuration
func (a *app) analysisConfig() (*config.AnalysisConfig, error) {
	cfg := config.DefaultAnalysisConfig()
	if err := a.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}
	if rate := a.v.GetInt("target-rate"); rate > 0 {
		cfg.Resample.TargetSampleRate = rate
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *app) catalog() (*voicemap.Catalog, error) {
	path := a.v.GetString("catalog")
	if path == "" {
		return voicemap.DefaultCatalog(), nil
	}
	return voicemap.LoadCatalogFile(path)
}

func (a *app) format() (voicemap.Format, error) {
	return voicemap.ParseFormat(a.v.GetString("format"))
}
