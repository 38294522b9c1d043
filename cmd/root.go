package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"housingbridge/config"
	"housingbridge/utils"
)

// Package-level shared dependencies, initialized in cobra.OnInitialize.
var (
	cfg    *config.Config
	logger *utils.Logger
)

var rootCmd = &cobra.Command{
	Use:   "housingbridge",
	Short: "HousingBridge - rental listing audits for relocating professionals",
	Long: `housingbridge audits rental listings for scam signals and turns the
result into a printable client report. It serves the audit wizard and the
audit API, and can audit listings straight from the terminal.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if logger != nil {
		_ = logger.Sync()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.PersistentFlags().String("config", "", "Config file (yaml, optional)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	_ = viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("housingbridge")
		viper.SetConfigType("yaml")
	}

	// Read config file if it exists (optional)
	_ = viper.ReadInConfig()

	cfg = config.Load(viper.GetViper())
}

func initDeps() {
	logger = utils.NewLogger(cfg.LogLevel)
	if f := viper.ConfigFileUsed(); f != "" {
		logger.Debug("[config] Using %s", f)
	}
}
