package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "botimport",
	Short: "Restore archived bot configuration bundles into a live service",
	Long: `botimport restores archived bot configuration bundles:
  - extracts the archive into an isolated workspace
  - recreates dictionaries, behavior sets and output sets
  - recreates packages and bots with all embedded references
    rewritten to the identifiers the destination service assigned
  - migrates the archived descriptors onto the new resources

The destination service assigns its own identifiers and versions, so
every reference inside every resource body is rewritten during import.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/botimport/config.toml)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "botimport")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("server.url", "http://localhost:7070")
	viper.SetDefault("serve.listen", ":8181")
	viper.SetDefault("import.tmp_dir", filepath.Join(os.TempDir(), "botimport"))
	viper.SetDefault("import.timeout_seconds", 60)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
