package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/flotilla-dev/flotilla/pkg/logger"
	"github.com/flotilla-dev/flotilla/pkg/version"
)

var (
	cfgFile      string
	manifestFile string
)

var rootCmd = &cobra.Command{
	Use:   "flotilla",
	Short: "Flotilla - manifest-driven container cluster orchestrator",
	Long: `Flotilla launches clusters of containers from a declarative manifest,
resolving dependency order, merging group overrides and binding
inter-container aliases before dependents start.`,
	SilenceUsage: true,
}

// Execute wires build info and runs the CLI.
func Execute(v, commit, date string) error {
	version.Set(v, commit, date)
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./flotilla.toml)")
	rootCmd.PersistentFlags().StringVarP(&manifestFile, "manifest", "f", "", "manifest file (default is ./flotilla.yaml)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("flotilla")
		viper.SetConfigType("toml")
		viper.AddConfigPath(".")
		if userConfigDir, err := os.UserConfigDir(); err == nil {
			viper.AddConfigPath(userConfigDir + "/flotilla")
		}
		viper.AddConfigPath("/etc/flotilla")
	}

	viper.SetEnvPrefix("FLOTILLA")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		logger.Debug("Using config file", "path", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintln(os.Stderr, "Could not read config file:", err)
		os.Exit(1)
	}

	logger.GetLogger().ConfigureFromEnv()
}
