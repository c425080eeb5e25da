// Package cli implements the citehound command set.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mkoval/citehound/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "citehound",
	Short: "Citehound - extract and verify legal case citations",
	Long: `Citehound extracts case citations and case names from text or documents,
verifies each against a case-law lookup service, and reconciles ambiguous
or partial matches into persisted records.

Each input line is resolved through a layered strategy: local pattern
extraction, direct citation lookup, server-side extraction, and a
case-name search fallback. A record that could not be verified is a
normal outcome, not an error.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("citehound v0.2.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.citehound/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(model.ConfigDir())
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match CITEHOUND_*
	viper.SetEnvPrefix("CITEHOUND")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig merges the config file and environment over the defaults.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()

	if v := viper.GetString("api.base_url"); v != "" {
		cfg.API.BaseURL = v
	}
	if viper.IsSet("api.timeout") {
		cfg.API.Timeout = viper.GetDuration("api.timeout")
	}
	if viper.IsSet("api.requests_per_second") {
		cfg.API.RequestsPerSecond = viper.GetFloat64("api.requests_per_second")
	}
	if v := viper.GetString("store.driver"); v != "" {
		cfg.Store.Driver = v
	}
	if v := viper.GetString("store.path"); v != "" {
		cfg.Store.Path = v
	}
	if v := viper.GetString("store.dsn"); v != "" {
		cfg.Store.DSN = v
	}
	if viper.IsSet("cache.enabled") {
		cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	}
	if v := viper.GetString("llm.provider"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := viper.GetString("llm.model"); v != "" {
		cfg.LLM.Model = v
	}
	if v := viper.GetString("llm.base_url"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if viper.IsSet("workers.concurrency") {
		cfg.Workers.Concurrency = viper.GetInt("workers.concurrency")
	}
	cfg.Output.Verbose = verbose

	return cfg
}

// tokenStorePath is where the API credential lives.
func tokenStorePath() string {
	return filepath.Join(model.ConfigDir(), "token")
}
