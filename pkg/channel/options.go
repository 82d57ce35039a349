package channel

import (
	"os"

	"go.uber.org/zap"

	"github.com/ssargent/niokit/pkg/metrics"
)

// DefaultTransferChunk is the staging buffer size used when a transfer cannot take the kernel fast path
const DefaultTransferChunk = 64 * 1024

// Option configures a channel
type Option func(*options)

type options struct {
	logger        *zap.Logger
	metrics       *metrics.Metrics
	transferChunk int
	perm          os.FileMode
}

func defaultOptions() options {
	return options{
		logger:        zap.NewNop(),
		transferChunk: DefaultTransferChunk,
		perm:          0600,
	}
}

// WithLogger sets the logger used for close failures and fast path fallbacks
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics records channel traffic into m
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithTransferChunk sets the staging buffer size for transfers between channels
func WithTransferChunk(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.transferChunk = size
		}
	}
}

// WithPerm sets the permission bits of files created by Open
func WithPerm(perm os.FileMode) Option {
	return func(o *options) {
		o.perm = perm
	}
}
