package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/noah-isme/toko-pricing/internal/config"
	"github.com/noah-isme/toko-pricing/internal/obs"
	"github.com/noah-isme/toko-pricing/internal/storefront"
	"github.com/noah-isme/toko-pricing/internal/tenant"
)

type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	registry *prometheus.Registry
	metrics  *obs.PricingMetrics
	redis    *redis.Client
	shutdown func(context.Context) error
	verbose  bool
	tenantID string
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "pricepreview",
		Short: "Resolve tag-scoped packaging prices and promotion previews",
		Long: `pricepreview runs the pricing engine on a JSON document.

Examples:
  pricepreview resolve request.json
  pricepreview preview draft.json
  pricepreview tag parse categoria-di-sconto:sconto-45`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.close(cmd.Context())
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&a.tenantID, "tenant", "", "tenant slug used to namespace cache keys")

	root.AddCommand(newResolveCmd(a), newPreviewCmd(a), newTagCmd())
	return root
}

func (a *app) init(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	level := cfg.LogLevel
	if a.verbose {
		level = "debug"
	}
	a.logger = obs.NewLoggerTo(os.Stderr, cfg.LogFormat, level).With().Str("env", cfg.AppEnv).Logger()
	a.registry = prometheus.NewRegistry()
	a.metrics = obs.NewPricingMetrics(cfg.MetricsNamespace, a.registry)

	if cfg.TracingEnabled {
		shutdown, err := obs.InitTracer(ctx, obs.TracingConfig{
			ServiceName: "toko-pricing",
			Endpoint:    cfg.OTLPEndpoint,
			Exporter:    cfg.TracingExporter,
			Environment: cfg.AppEnv,
		})
		if err != nil {
			a.logger.Error().Err(err).Msg("initialise tracing")
		} else {
			a.shutdown = shutdown
		}
	}

	if cfg.CacheEnabled() {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse redis url: %w", err)
		}
		a.redis = redis.NewClient(opts)
		if err := redisotel.InstrumentTracing(a.redis); err != nil {
			a.logger.Error().Err(err).Msg("instrument redis tracing")
		}
		if err := a.redis.Ping(ctx).Err(); err != nil {
			a.logger.Warn().Err(err).Msg("redis unavailable, tag cache disabled")
			_ = a.redis.Close()
			a.redis = nil
		}
	}
	return nil
}

func (a *app) close(ctx context.Context) error {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("close redis")
		}
	}
	if a.shutdown != nil {
		if err := a.shutdown(ctx); err != nil {
			a.logger.Error().Err(err).Msg("shutdown tracer")
		}
	}
	return nil
}

func (a *app) service(src storefront.TagSource) *storefront.Service {
	var cache *storefront.Cache
	if a.redis != nil {
		cache = storefront.NewCache(a.redis, a.cfg.TagCacheTTL)
	}
	return &storefront.Service{
		Source:  src,
		Cache:   cache,
		Metrics: a.metrics,
		Logger:  obs.Component(a.logger, "storefront"),
	}
}

func (a *app) context(ctx context.Context) context.Context {
	id := a.tenantID
	if id == "" && a.cfg != nil {
		id = a.cfg.DefaultTenant
	}
	if id == "" {
		return ctx
	}
	return tenant.WithTenant(ctx, id)
}

func readDocument(args []string, stdin io.Reader, dst any) error {
	var r io.Reader = stdin
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
