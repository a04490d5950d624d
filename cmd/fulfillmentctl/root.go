package main

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/innabox/fulfillment-console/internal/api"
	"github.com/innabox/fulfillment-console/internal/config"
	eventbus "github.com/innabox/fulfillment-console/internal/eventbus"
	"github.com/innabox/fulfillment-console/internal/grpctp"
	"github.com/innabox/fulfillment-console/internal/grpcweb"
	"github.com/innabox/fulfillment-console/internal/logging"
	"github.com/innabox/fulfillment-console/internal/metrics"
	"github.com/innabox/fulfillment-console/internal/otel"
)

// app is the state shared by all commands of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	flags      config.Config
	logLevel   string

	cfg     *config.Config
	logger  *zap.Logger
	client  *api.Client
	metrics *prometheus.Registry
	cleanup []func()
}

// run executes one invocation with args and releases everything setup
// acquired, whether or not the command failed.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{stdout: stdout, stderr: stderr}
	defer a.teardown()

	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fulfillmentctl",
		Short: "Command line client for the fulfillment API",
		Long: `fulfillmentctl talks to the fulfillment API over gRPC-Web, the same
way the console does. The API base URL is discovered from the console's
/api/config endpoint unless --api-url is given. With --grpc-address it
uses native gRPC instead.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Path to a YAML configuration file")
	pf.StringVar(&a.flags.ConsoleURL, "console-url", "", "Console URL serving /api/config")
	pf.StringVar(&a.flags.APIURL, "api-url", "", "Fulfillment API base URL, skips discovery")
	pf.StringVar(&a.flags.GRPCAddress, "grpc-address", "", "Use native gRPC against host:port instead of gRPC-Web")
	pf.BoolVar(&a.flags.Plaintext, "plaintext", false, "Disable TLS for --grpc-address")
	pf.StringVar(&a.flags.Token, "token", "", "Bearer token (or set "+config.EnvToken+")")
	pf.StringVarP(&a.flags.Output, "output", "o", "", "Output format: json or yaml")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.StringVar(&a.flags.OTelEndpoint, "otel-endpoint", "", "OTLP/gRPC collector endpoint for call traces")
	pf.BoolVar(&a.flags.Metrics, "metrics", false, "Print call metrics to stderr on exit")

	rootCmd.AddCommand(
		hubsCmd(a),
		clustersCmd(a),
		templatesCmd(a),
		hostsCmd(a),
		protoCmd(a),
		configCmd(a),
		versionCmd(a),
	)
	return rootCmd
}

// setup loads configuration and wires logging, metrics and tracing to the
// event bus. It runs before every command.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("console-url") {
		cfg.ConsoleURL = a.flags.ConsoleURL
	}
	if flags.Changed("api-url") {
		cfg.APIURL = a.flags.APIURL
	}
	if flags.Changed("grpc-address") {
		cfg.GRPCAddress = a.flags.GRPCAddress
	}
	if flags.Changed("plaintext") {
		cfg.Plaintext = a.flags.Plaintext
	}
	if flags.Changed("token") {
		cfg.Token = a.flags.Token
	}
	if flags.Changed("output") {
		cfg.Output = a.flags.Output
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("otel-endpoint") {
		cfg.OTelEndpoint = a.flags.OTelEndpoint
	}
	if flags.Changed("metrics") {
		cfg.Metrics = a.flags.Metrics
	}
	a.cfg = cfg

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	a.logger = logger

	eventbus.Use(eventbus.New())
	a.cleanup = append(a.cleanup, func() { eventbus.Use(nil) }, logging.Attach(logger))

	if cfg.Metrics {
		reg := prometheus.NewRegistry()
		m, err := metrics.Register(reg)
		if err != nil {
			return err
		}
		a.metrics = reg
		a.cleanup = append(a.cleanup, m.Attach())
	}

	shutdown, err := otel.Setup(cfg.OTelEndpoint, "fulfillmentctl")
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	a.cleanup = append(a.cleanup, func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("otel shutdown", zap.Error(err))
		}
	})
	return nil
}

func (a *app) teardown() {
	if a.metrics != nil {
		if err := metrics.WriteSummary(a.stderr, a.metrics); err != nil {
			a.logger.Warn("write metrics summary", zap.Error(err))
		}
		a.metrics = nil
	}
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		a.cleanup[i]()
	}
	a.cleanup = nil
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// api returns the API client, building it on first use. A gRPC address
// takes precedence over gRPC-Web.
func (a *app) api() (*api.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	if a.cfg.GRPCAddress != "" {
		opts := []grpctp.Option{grpctp.WithAddress(a.cfg.GRPCAddress)}
		if a.cfg.Token != "" {
			opts = append(opts, grpctp.WithStaticToken(a.cfg.Token))
		}
		if a.cfg.Plaintext {
			opts = append(opts, grpctp.WithPlaintext())
		}
		tr := grpctp.New(opts...)
		a.cleanup = append(a.cleanup, func() { _ = tr.Close() })
		a.client = api.New(tr)
		return a.client, nil
	}
	timeout, err := a.cfg.Timeout()
	if err != nil {
		return nil, err
	}
	httpClient := &http.Client{}
	opts := []grpcweb.Option{
		grpcweb.WithHTTPClient(httpClient),
		grpcweb.WithConfigTimeout(timeout),
	}
	if a.cfg.Token != "" {
		opts = append(opts, grpcweb.WithStaticToken(a.cfg.Token))
	}
	if a.cfg.APIURL != "" {
		opts = append(opts, grpcweb.WithBaseURL(a.cfg.APIURL))
	} else {
		opts = append(opts, grpcweb.WithConfigSource(grpcweb.NewHTTPConfigSource(a.cfg.ConsoleURL, httpClient)))
	}
	a.client = api.New(grpcweb.New(opts...))
	return a.client, nil
}
