// Package public adapts a filestore.Store for public-read assets.
//
// Objects are uploaded with the "public-read" ACL and their URLs are built
// locally from the bucket, the resolved endpoint host and the calling
// format. No signing happens and no request is made, so URL never checks
// whether the object exists or is actually readable: a name that was never
// uploaded still gets a well-formed URL.
package public

import (
	"context"
	"strings"
	"time"

	"github.com/koustreak/publicstore/internal/errs"
	"github.com/koustreak/publicstore/internal/filestore"
	"github.com/koustreak/publicstore/internal/filestore/callingformat"
	"github.com/koustreak/publicstore/internal/filestore/minio"
	"github.com/koustreak/publicstore/internal/filestore/region"
	"github.com/koustreak/publicstore/internal/filestore/s3"
	"github.com/koustreak/publicstore/internal/logger"
)

// Opener builds the underlying driver from a prepared config.
type Opener func(ctx context.Context, cfg *filestore.Config) (filestore.Store, error)

type options struct {
	log  *logger.Logger
	open Opener
}

// Option configures New.
type Option func(*options)

// WithLogger sets the logger used during construction.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithOpener replaces the provider switch with a custom driver factory.
func WithOpener(open Opener) Option {
	return func(o *options) { o.open = open }
}

// Storage is a filestore.Store whose URLs are public and unsigned.
// All other operations go straight to the wrapped driver.
// It is immutable after construction and safe for concurrent use.
type Storage struct {
	filestore.Store

	host   string
	format callingformat.Format
}

// Configure forces the settings every public store runs with.
func Configure(cfg *filestore.Config) {
	cfg.ACL = filestore.ACLPublicRead
	cfg.QuerystringAuth = false
	cfg.SecureURLs = false
}

// New resolves the endpoint for cfg.Region, opens the driver selected by
// cfg.Provider and wraps it. cfg itself is not modified.
//
// A region that is neither a known code nor a full S3 host fails with an
// errs.ErrKindMisconfigured error; there is no fallback.
func New(ctx context.Context, cfg *filestore.Config, opts ...Option) (*Storage, error) {
	o := options{log: logger.Nop(), open: openDriver}
	for _, opt := range opts {
		opt(&o)
	}

	c := *cfg
	Configure(&c)

	host, format, err := prepare(&c)
	if err != nil {
		return nil, err
	}
	if c.Endpoint == "" {
		c.Endpoint = host
	}

	store, err := o.open(ctx, &c)
	if err != nil {
		return nil, err
	}

	o.log.With().
		Str("provider", string(c.Provider)).
		Str("bucket", c.Bucket).
		Str("host", host).
		Str("calling_format", format.Name()).
		Bool("custom_domain", c.CustomDomain != "").
		Logger().
		Debug("public storage ready")

	return &Storage{Store: store, host: host, format: format}, nil
}

// Wrap builds the adapter around a store that is already open. The store
// is expected to have been opened with a config passed through Configure.
func Wrap(store filestore.Store, cfg *filestore.Config) (*Storage, error) {
	host, format, err := prepare(cfg)
	if err != nil {
		return nil, err
	}
	return &Storage{Store: store, host: host, format: format}, nil
}

// prepare resolves the URL host and calling format. When no region is
// set, the host part of an explicit endpoint doubles as the URL host.
func prepare(cfg *filestore.Config) (string, callingformat.Format, error) {
	host, err := region.Resolve(cfg.Region)
	if err != nil {
		return "", nil, err
	}
	if host == "" {
		host = region.HostOf(cfg.Endpoint)
	}

	format, err := callingformat.Parse(cfg.CallingFormat)
	if err != nil {
		return "", nil, err
	}
	return host, format, nil
}

func openDriver(ctx context.Context, cfg *filestore.Config) (filestore.Store, error) {
	switch cfg.Provider {
	case filestore.ProviderMinIO:
		return minio.New(ctx, cfg)
	case filestore.ProviderS3, "":
		return s3.New(ctx, cfg)
	default:
		return nil, errs.Misconfigured("unknown storage provider %q", cfg.Provider)
	}
}

// Lazy is an Opener that builds the driver without pinging the bucket.
// Use it when only URLs are needed.
func Lazy(ctx context.Context, cfg *filestore.Config) (filestore.Store, error) {
	switch cfg.Provider {
	case filestore.ProviderMinIO:
		return minio.Open(cfg)
	case filestore.ProviderS3, "":
		return s3.Open(ctx, cfg)
	default:
		return nil, errs.Misconfigured("unknown storage provider %q", cfg.Provider)
	}
}

// Host returns the endpoint host resolved at construction ("" means the
// default endpoint).
func (s *Storage) Host() string {
	return s.host
}

// Format returns the calling format URLs are laid out with.
func (s *Storage) Format() callingformat.Format {
	return s.format
}

// URL returns the public URL for name. It never errors and never touches
// the network.
func (s *Storage) URL(name string) string {
	key := s.NormalizeName(s.CleanName(name))
	return BuildURL(key, s.host, s.CustomDomain(), s.URLProtocol(), s.BucketName(), s.format)
}

// SignedURL ignores ttl and returns the public URL; nothing is signed.
func (s *Storage) SignedURL(_ context.Context, name string, _ time.Duration) (string, error) {
	return s.URL(name), nil
}

// BuildURL lays out the URL of an already normalized key. A custom domain
// takes over completely; otherwise the calling format places the bucket
// relative to host, or to region.DefaultHost when host is empty.
func BuildURL(key, host, customDomain, protocol, bucket string, format callingformat.Format) string {
	if customDomain != "" {
		return protocol + "//" + customDomain + "/" + key
	}

	server := host
	if server == "" {
		server = region.DefaultHost
	}
	return format.BuildURLBase(callingformat.Noop, strings.TrimRight(protocol, ":"), server, bucket, key)
}
