package cmd

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rezonia/evatr-go/internal/client"
	"github.com/rezonia/evatr-go/internal/logger"
)

var (
	version = "1.0.0"

	// Global flags
	verbose      bool
	outputFormat string
	baseURL      string
	timeout      time.Duration
	logLevel     string
	logFormat    string

	log *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "evatr",
	Short: "Confirm foreign EU VAT IDs with the German eVatR service",
	Long: `evatr is a CLI for the eVatR REST API of the Bundeszentralamt für Steuern.

Supports:
  - Simple confirmation of a foreign VAT ID
  - Qualified confirmation (company name, city, street, postal code)
  - Listing the service's status messages and member states
  - Running a small JSON gateway in front of the service

Examples:
  # Simple confirmation
  evatr verify DE123456789 ATU12345678

  # Qualified confirmation
  evatr verify DE123456789 ATU12345678 --company "Test GmbH" --city Wien

  # Own VAT ID from the environment
  EVATR_OWN_VAT_ID=DE123456789 evatr verify ATU12345678

  # List member states as a table
  evatr member-states -f table`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "table", "Output format (json, table)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "eVatR API base URL (env: EVATR_BASE_URL)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", client.DefaultTimeout, "HTTP timeout (env: EVATR_TIMEOUT)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (env: EVATR_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json (env: EVATR_LOG_FORMAT)")

	// Load from environment variables if not set via flags
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env is optional
	_ = godotenv.Load()

	if baseURL == "" {
		baseURL = os.Getenv("EVATR_BASE_URL")
	}
	if !rootCmd.PersistentFlags().Changed("timeout") {
		if v := os.Getenv("EVATR_TIMEOUT"); v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				timeout = d
			}
		}
	}
	if logLevel == "" {
		logLevel = os.Getenv("EVATR_LOG_LEVEL")
	}
	if logLevel == "" {
		logLevel = "warn"
		if verbose {
			logLevel = "debug"
		}
	}
	if logFormat == "" {
		logFormat = os.Getenv("EVATR_LOG_FORMAT")
	}

	log = logger.New(logLevel, logFormat)
}

// newClient builds the eVatR client from the global flags
func newClient() *client.Client {
	opts := []client.ClientOption{
		client.WithTimeout(timeout),
		client.WithUserAgent("evatr-cli/" + version),
	}
	if baseURL != "" {
		opts = append(opts, client.WithBaseURL(baseURL))
	}

	c := client.NewClient(opts...)
	log.WithFields(logrus.Fields{
		"base_url": c.BaseURL(),
		"timeout":  timeout.String(),
	}).Debug("client configured")
	return c
}
