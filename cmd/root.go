package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/mgctl/config"
	"github.com/s0up4200/mgctl/mailgun"
)

var (
	cfgFile  string
	cfg      *config.Config
	logger   zerolog.Logger
	client   *mailgun.Client
	registry *prometheus.Registry

	// Global flag overrides
	domainFlag string
	debug      bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "mgctl",
	Short: "Manage Mailgun mailing lists, routes and messages",
	Long: `mgctl is a CLI for the Mailgun API. It manages mailing lists and their
members, inbound routes, and sends messages from the command line.`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: shutdownApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&domainFlag, "domain", "", "override the configured sending domain")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(listsCmd)
	rootCmd.AddCommand(membersCmd)
	rootCmd.AddCommand(routesCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// initializeApp initializes the configuration and the Mailgun client
func initializeApp(cmd *cobra.Command, args []string) error {
	if !needsClient(cmd) {
		return initializeLogger(cmd, args)
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if domainFlag != "" {
		cfg.Mailgun.Domain = domainFlag
	}
	if debug {
		cfg.Logging.Level = "debug"
	}

	logger = setupLogger(cfg.Logging)

	opts := []mailgun.Option{
		mailgun.WithBaseURL(cfg.Mailgun.BaseURL),
		mailgun.WithTimeout(cfg.Mailgun.Timeout),
		mailgun.WithConnectionTTL(cfg.Mailgun.ConnectionTTL),
		mailgun.WithBatchConcurrency(cfg.Batch.Concurrency),
		mailgun.WithUserAgent("mgctl/" + appVersion),
	}

	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		opts = append(opts, mailgun.WithMetrics(registry))
	}

	client, err = mailgun.NewClient(cfg.Mailgun.Domain, cfg.Mailgun.APIKey, logger, opts...)
	if err != nil {
		return fmt.Errorf("failed to create Mailgun client: %w", err)
	}

	logger.Debug().
		Str("domain", cfg.Mailgun.Domain).
		Str("base_url", cfg.Mailgun.BaseURL).
		Msg("Mailgun client ready")

	return nil
}

// needsClient reports whether cmd talks to Mailgun. Help and shell
// completion must work without a config.
func needsClient(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

// shutdownApp releases the client and reports collected metrics
func shutdownApp(cmd *cobra.Command, args []string) error {
	if registry != nil {
		reportMetrics(registry)
	}
	if client != nil {
		client.Close()
	}
	return nil
}

// reportMetrics logs every collected sample at info level
func reportMetrics(reg *prometheus.Registry) {
	families, err := reg.Gather()
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to gather metrics")
		return
	}

	for _, family := range families {
		for _, m := range family.GetMetric() {
			event := logger.Info().Str("metric", family.GetName())
			for _, label := range m.GetLabel() {
				event = event.Str(label.GetName(), label.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				event = event.Float64("value", m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				event = event.
					Uint64("count", m.GetHistogram().GetSampleCount()).
					Float64("sum", m.GetHistogram().GetSampleSum())
			}
			event.Msg("Metric")
		}
	}
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Colors only make sense on an interactive terminal
	fd := os.Stderr.Fd()
	interactive := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !interactive,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
