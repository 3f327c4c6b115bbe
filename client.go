package registry

import (
	"context"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
)

// Resolver is the capability facade (C7): a uniform query surface over
// whichever of the two repository protocols the supplied source speaks.
//
// Resolver is safe for concurrent use. Each call constructs a fresh
// session cache and discards it on return (§9 "Session cache lifetime").
type Resolver struct {
	reg  *protocolRResolver
	flat *protocolFResolver
}

// New constructs a [Resolver] for source, probing its capabilities: a
// source implementing [RegistrationSource] is resolved via protocol-R; a
// source implementing only [FlatListSource] falls back to protocol-F.
// Repository discovery itself — finding source in the first place — is a
// caller concern, out of scope here (§6).
func New(client *http.Client, source any, opts ...Option) (*Resolver, error) {
	cfg := &config{
		logger:      discardLogger(),
		concurrency: 0,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	f := newFetcher(client, cfg.logger)
	r := &Resolver{}

	if rs, ok := source.(RegistrationSource); ok {
		r.reg = &protocolRResolver{fetcher: f, source: rs, logger: cfg.logger, concurrency: cfg.concurrency}
		return r, nil
	}
	if fs, ok := source.(FlatListSource); ok {
		r.flat = &protocolFResolver{fetcher: f, source: fs, logger: cfg.logger}
		return r, nil
	}
	return nil, ErrUnsupportedSource
}

// config holds configuration gathered during Resolver construction.
type config struct {
	logger      *logrus.Logger
	concurrency int
}

// Option configures a [Resolver].
type Option func(*config)

// WithLogger sets the logger used for internal debug-level tracing of
// registration-index and flat-listing requests, session cache hits, and
// completed fetches. Page selection decisions and dropped entries are not
// logged.
//
// Default: a logger discarding all output.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithConcurrencyLimit bounds the number of registration pages fetched
// concurrently within one protocol-R resolve call. §5 imposes no ceiling
// at this layer by default; pass n > 0 to install one.
//
// Default: 0 (unbounded).
func WithConcurrencyLimit(n int) Option {
	return func(c *config) {
		c.concurrency = n
	}
}

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// ResolveOne fetches metadata for exactly one (id, version), per §4.7.
// Returns (nil, nil) if the package or version doesn't exist.
func (r *Resolver) ResolveOne(ctx context.Context, id, version string) (*DependencyInfo, error) {
	if id == "" {
		return nil, ErrInvalidArgument
	}
	v, err := ParseVersion(version)
	if err != nil {
		return nil, err
	}

	cache := newSessionCache()

	if r.reg != nil {
		infos, err := r.reg.resolve(ctx, id, NewExactRange(v), cache)
		if err != nil {
			return nil, err
		}
		if len(infos) == 0 {
			return nil, nil
		}
		return &infos[0], nil
	}
	return r.flat.resolveOne(ctx, id, v, cache)
}

// ResolveAll fetches metadata for every known version of id, including
// pre-release, per §4.7.
func (r *Resolver) ResolveAll(ctx context.Context, id string) ([]DependencyInfo, error) {
	if id == "" {
		return nil, ErrInvalidArgument
	}

	cache := newSessionCache()

	if r.reg != nil {
		return r.reg.resolve(ctx, id, NewAnyRange().WithPre(true), cache)
	}
	return r.flat.resolveAll(ctx, id, cache)
}
