// Command vecdist inspects vector sets and computes distances between their
// rows with the tiered kernels of package distance.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hupe1980/vecdist"
	"github.com/hupe1980/vecdist/distance"
	"github.com/hupe1980/vecdist/metrics/promcollector"
	"github.com/hupe1980/vecdist/resource"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// app carries the state shared by all subcommands once flags are parsed.
type app struct {
	configPath string
	cfg        *Config
	logger     *vecdist.Logger
	metrics    vecdist.MetricsCollector
	resources  *resource.Controller
	server     *http.Server
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "vecdist",
		Short: "Inspect vector sets and compare their rows",
		Long: `vecdist loads vector sets (int8, uint8, int16 or float32 rows, optionally
product-quantized) from a local directory, S3 or MinIO and computes squared
Euclidean or cosine-derived distances with the fastest kernel tier the CPU
supports.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.teardown()
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.configPath, "config", os.Getenv("VECDIST_CONFIG"), "YAML config file")
	f.String("store", "", "store URL: directory, s3://bucket/prefix or minio://host/bucket/prefix")
	f.String("tier", "", "force kernel tier: scalar, narrow, wide")
	f.String("metric", "", "distance metric: l2, cosine")
	f.String("log-level", "", "log level: debug, info, warn, error")
	f.String("log-format", "", "log format: text, json, none")
	f.String("metrics-addr", "", "serve Prometheus metrics on this address")
	f.Int("concurrency", 0, "goroutines used by pairwise and quantize (0 = GOMAXPROCS)")
	f.Int64("memory-limit", 0, "bytes of row data loaded at once (0 = unlimited)")
	f.Int64("io-limit", 0, "store read throughput in bytes per second (0 = unlimited)")

	root.AddCommand(
		newVersionCmd(),
		newInfoCmd(a),
		newListCmd(a),
		newInspectCmd(a),
		newDistanceCmd(a),
		newPairwiseCmd(a),
		newQuantizeCmd(a),
		newBenchCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "vecdist v%s (%s)\n", version, commit)
		},
	}
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.configPath, a.configPath != "")
	if err != nil {
		return err
	}
	if err := applyEnv(cfg, os.Getenv); err != nil {
		return err
	}
	applyFlags(cfg, cmd.Flags())
	a.cfg = cfg

	if a.logger, err = cfg.Log.logger(); err != nil {
		return err
	}

	if cfg.Tier != "" {
		t, err := distance.ParseTier(cfg.Tier)
		if err != nil {
			return err
		}
		distance.SetDefault(distance.New(distance.WithTier(t)))
	}

	a.resources = cfg.Resources.controller()
	a.metrics = vecdist.NoopMetricsCollector{}
	if cfg.Metrics.Addr != "" {
		return a.serveMetrics(cfg.Metrics.Addr)
	}
	return nil
}

func applyFlags(cfg *Config, flags *pflag.FlagSet) {
	str := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	str("store", &cfg.Store.URL)
	str("tier", &cfg.Tier)
	str("metric", &cfg.Metric)
	str("log-level", &cfg.Log.Level)
	str("log-format", &cfg.Log.Format)
	str("metrics-addr", &cfg.Metrics.Addr)
	if flags.Changed("concurrency") {
		cfg.Concurrency, _ = flags.GetInt("concurrency")
	}
	if flags.Changed("memory-limit") {
		cfg.Resources.MemoryLimitBytes, _ = flags.GetInt64("memory-limit")
	}
	if flags.Changed("io-limit") {
		cfg.Resources.IOLimitBytesPerSec, _ = flags.GetInt64("io-limit")
	}
}

func (a *app) serveMetrics(addr string) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	c, err := promcollector.New(reg, "vecdist")
	if err != nil {
		return err
	}
	a.metrics = c

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	a.server = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server failed", "error", err)
		}
	}()
	a.logger.Info("serving metrics", "addr", ln.Addr().String())
	return nil
}

func (a *app) teardown() error {
	if a.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.server.Shutdown(ctx)
}

// collectionOptions returns the facade options shared by every command.
func (a *app) collectionOptions(extra ...vecdist.Option) ([]vecdist.Option, error) {
	opts, err := a.cfg.collectionOptions()
	if err != nil {
		return nil, err
	}
	opts = append(opts,
		vecdist.WithLogger(a.logger),
		vecdist.WithMetricsCollector(a.metrics),
		vecdist.WithResourceController(a.resources),
	)
	return append(opts, extra...), nil
}
