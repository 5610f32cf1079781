// Package commands implements the CLI commands for contactscrape.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/contactscrape/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "contactscrape",
	Short: "Extract contact details from professional profile pages",
	Long: `Contactscrape renders a web page and extracts a best-guess contact
record from it: name, specialty, location, email addresses and phone numbers.

Examples:
  # Scrape a single profile page
  contactscrape scrape -u "https://example.com/therapists/jane-doe"

  # Several pages as TSV, rendered with the stealth browser
  contactscrape scrape -u https://a.example -u https://b.example \
      --format tsv --fetch-mode rod

  # Serve the HTTP API
  contactscrape serve --addr :3000`,
	SilenceUsage:      true,
	PersistentPreRunE: initLogging,
	PersistentPostRun: func(*cobra.Command, []string) { _ = logger.Close() },
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default $HOME/.contactscrape.yaml)")
	flags.Bool("debug", false, "enable debug logging")
	flags.BoolP("quiet", "q", false, "only log errors")
	flags.Bool("log-json", false, "log as JSON")
	flags.String("log-file", "", "also write logs to this file (rotated)")

	_ = viper.BindPFlag("config", flags.Lookup("config"))
	_ = viper.BindPFlag("debug", flags.Lookup("debug"))
	_ = viper.BindPFlag("quiet", flags.Lookup("quiet"))
	_ = viper.BindPFlag("log_json", flags.Lookup("log-json"))
	_ = viper.BindPFlag("log_file", flags.Lookup("log-file"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".contactscrape")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("CONTACTSCRAPE")
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

func initLogging(*cobra.Command, []string) error {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
		JSON:  viper.GetBool("log_json"),
		File:  viper.GetString("log_file"),

		MaxSizeMB:  viper.GetInt("log_max_size_mb"),
		MaxBackups: viper.GetInt("log_max_backups"),
	})
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("config loaded", "path", used)
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// logInfo prints a progress message to stderr (unless quiet mode).
func logInfo(format string, args ...any) {
	if !viper.GetBool("quiet") {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
