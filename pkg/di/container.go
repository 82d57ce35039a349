// Package di provides dependency injection container
package di

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ssargent/niokit/pkg/channel"
	"github.com/ssargent/niokit/pkg/charset"
	"github.com/ssargent/niokit/pkg/config"
	"github.com/ssargent/niokit/pkg/metrics"
	"github.com/ssargent/niokit/pkg/transfer"
)

// Container holds all the dependencies for the application
type Container struct {
	config   *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
}

// NewContainer creates a new dependency injection container.
// A nil config uses the defaults and a nil logger discards output.
func NewContainer(cfg *config.Config, logger *zap.Logger) *Container {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	registry := prometheus.NewRegistry()
	return &Container{
		config:   cfg,
		logger:   logger,
		registry: registry,
		metrics:  metrics.NewMetrics(registry),
	}
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the logger
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Registry returns the registry the metrics are registered with
func (c *Container) Registry() *prometheus.Registry {
	return c.registry
}

// Metrics returns the metrics
func (c *Container) Metrics() *metrics.Metrics {
	return c.metrics
}

// SetLogger allows overriding the logger (for testing)
func (c *Container) SetLogger(logger *zap.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// ChannelOptions returns the options every channel opened by the application shares
func (c *Container) ChannelOptions() []channel.Option {
	return []channel.Option{
		channel.WithLogger(c.logger),
		channel.WithMetrics(c.metrics),
		channel.WithTransferChunk(c.config.TransferChunk),
	}
}

// Copier returns a copier built from the configured copy settings
func (c *Container) Copier() (*transfer.Copier, error) {
	opts, err := c.config.CopyOptions()
	if err != nil {
		return nil, err
	}
	return transfer.NewCopier(opts, c.logger, c.metrics), nil
}

// Codec returns a codec for name, or for the configured charset when name is empty
func (c *Container) Codec(name string, opts ...charset.Option) (*charset.Codec, error) {
	if name == "" {
		name = c.config.Charset
	}
	base := []charset.Option{charset.WithLogger(c.logger), charset.WithMetrics(c.metrics)}
	return charset.NewCodec(name, append(base, opts...)...)
}
