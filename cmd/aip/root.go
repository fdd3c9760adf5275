package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	client "github.com/hsn0918/aip-client"
	"github.com/hsn0918/aip-client/internal/config"
	"github.com/hsn0918/aip-client/internal/metrics"
)

type cliOptions struct {
	configPath        string
	apiKey            string
	secretKey         string
	accessToken       string
	baseURL           string
	timeout           time.Duration
	processingTimeout time.Duration
	qps               float64
	failLogPath       string
	logLevel          string
	logFormat         string
	metricsAddr       string

	// resolved in PersistentPreRunE
	cfg       *config.Config
	logger    *zap.Logger
	collector *metrics.Collector
	failLog   *failureLog
	server    *http.Server
}

// execute runs the command tree and always releases what setup acquired, even when a command fails.
func execute(ctx context.Context, opts *cliOptions, args []string, stdout, stderr io.Writer) (err error) {
	cmd := newRootCmd(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	defer func() {
		err = errors.Join(err, opts.teardown())
	}()
	return cmd.ExecuteContext(ctx)
}

func newRootCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "aip",
		Short:         "AI platform recognition CLI helper",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	flags.StringVar(&opts.apiKey, "api-key", "", "API key (or set AIP_API_KEY)")
	flags.StringVar(&opts.secretKey, "secret-key", "", "Secret key (or set AIP_SECRET_KEY)")
	flags.StringVar(&opts.accessToken, "access-token", "", "Pre-issued access token; skips the token exchange")
	flags.StringVar(&opts.baseURL, "base-url", client.DefaultBaseURL, "Base URL for the API")
	flags.DurationVar(&opts.timeout, "timeout", client.DefaultTimeout, "HTTP timeout for API requests")
	flags.DurationVar(&opts.processingTimeout, "processing-timeout", client.ProcessingTimeout, "Timeout for long running jobs")
	flags.Float64Var(&opts.qps, "qps", 0, "Maximum requests per second (0 disables limiting)")
	flags.StringVar(&opts.failLogPath, "fail-log", "fail.log", "Path to write failed task logs")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	flags.StringVar(&opts.logFormat, "log-format", "console", "Log format: console|json")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while the command runs")

	cmd.AddCommand(newRecognizeCmd(opts))
	cmd.AddCommand(newTableCmd(opts))
	cmd.AddCommand(newJobCmd(opts))
	cmd.AddCommand(newEndpointsCmd(opts))
	cmd.AddCommand(newCompletionCmd())

	return cmd
}

func (o *cliOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.NewLoader().WithConfigPath(o.configPath).Load()
	if err != nil {
		return err
	}
	o.applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	o.cfg = cfg

	logger, err := newLogger(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	o.logger = logger
	o.failLog = newFailureLog(o.failLogPath)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	o.collector = metrics.NewCollector("aip", registry)

	if cfg.MetricsAddr != "" {
		o.server = &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := o.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server stopped", zap.Error(err))
			}
		}()
		logger.Info("serving metrics", zap.String("addr", cfg.MetricsAddr))
	}

	return nil
}

// applyFlags lets explicitly set flags override file and environment settings.
func (o *cliOptions) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if changed("api-key") {
		cfg.APIKey = o.apiKey
	}
	if changed("secret-key") {
		cfg.SecretKey = o.secretKey
	}
	if changed("access-token") {
		cfg.AccessToken = o.accessToken
	}
	if changed("base-url") {
		cfg.BaseURL = o.baseURL
	}
	if changed("timeout") {
		cfg.Timeout = o.timeout
	}
	if changed("processing-timeout") {
		cfg.ProcessingTimeout = o.processingTimeout
	}
	if changed("qps") {
		cfg.QPS = o.qps
	}
	if changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if changed("log-format") {
		cfg.Log.Format = o.logFormat
	}
	if changed("metrics-addr") {
		cfg.MetricsAddr = o.metricsAddr
	}
}

func (o *cliOptions) teardown() error {
	var err error
	if o.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := o.server.Shutdown(ctx); shutdownErr != nil {
			err = fmt.Errorf("shutdown metrics server: %w", shutdownErr)
		}
	}
	if o.logger != nil {
		_ = o.logger.Sync()
	}
	return err
}
