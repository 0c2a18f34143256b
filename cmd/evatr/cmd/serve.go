package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rezonia/evatr-go/internal/server"
)

var (
	serverAddr      string
	serverDebug     bool
	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP gateway",
	Long: `Start a JSON gateway in front of the eVatR service.

The API provides endpoints for:
  - POST /api/v1/verify          - Confirm a foreign VAT ID
  - GET  /api/v1/status-messages - Status message catalog
  - GET  /api/v1/member-states   - EU member states and availability
  - GET  /metrics                - Prometheus metrics
  - GET  /health                 - Health check

Examples:
  # Start server on default port
  evatr serve

  # Start on custom port against a test instance
  evatr serve --address :9090 --base-url http://localhost:8081

  # Start in debug mode with JSON logs
  evatr serve --debug --log-format json`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", ":8080", "Server listen address")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 10*time.Second, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", time.Minute, "HTTP write timeout")
	serveCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 30*time.Second, "Grace period for in-flight requests on shutdown")
}

func runServe(cmd *cobra.Command, args []string) error {
	config := &server.Config{
		Address:         serverAddr,
		ReadTimeout:     readTimeout,
		WriteTimeout:    writeTimeout,
		UpstreamTimeout: timeout,
		ShutdownTimeout: shutdownTimeout,
		Debug:           serverDebug,
	}

	// the gateway logs requests at info unless a level was chosen
	if !cmd.Flags().Changed("log-level") && os.Getenv("EVATR_LOG_LEVEL") == "" && !verbose {
		log.SetLevel(logrus.InfoLevel)
	}

	srv := server.NewServer(config, newClient(), log)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.WithFields(logrus.Fields{
		"address":          serverAddr,
		"upstream_timeout": timeout.String(),
	}).Info("starting server")

	return srv.Run(ctx)
}
