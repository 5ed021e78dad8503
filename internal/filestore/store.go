// Package filestore defines the storage contract publicstore builds on.
//
// Drivers (minio, s3) implement Store. The public adapter in
// filestore/public wraps any Store and replaces signed URLs with plain,
// unauthenticated ones.
//
// Usage:
//
//	cfg := filestore.DefaultConfig("assets")
//	cfg.Region = "us-west-1"
//	store, err := public.New(ctx, cfg)
//	if err != nil { ... }
//	defer store.Close()
//
//	link := store.URL("avatars/42.png")
package filestore

import (
	"context"
	"io"
	"time"
)

// Base is the naming capability every driver exposes. URL builders call
// these instead of re-deriving keys or hosts themselves.
type Base interface {
	// CleanName turns a user supplied name into a forward-slash path.
	CleanName(name string) string

	// NormalizeName joins a cleaned name onto the storage location and
	// returns the resulting object key.
	NormalizeName(name string) string

	// CustomDomain returns the configured CDN host, or "".
	CustomDomain() string

	// URLProtocol returns the scheme prefix including its colon ("https:").
	URLProtocol() string

	// BucketName returns the bucket all objects live in.
	BucketName() string
}

// Store is the single interface all storage drivers implement.
type Store interface {
	Base

	// Ping verifies the bucket is reachable.
	Ping(ctx context.Context) error

	// Close releases any held resources.
	Close() error

	// Save uploads r under name with the configured ACL and returns the
	// object key it was stored at.
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)

	// Open opens a streaming handle to the object stored under name.
	// The caller MUST call Object.Close() after reading.
	Open(ctx context.Context, name string) (Object, error)

	// Stat returns metadata for name without downloading its content.
	Stat(ctx context.Context, name string) (*ObjectInfo, error)

	// Exists reports whether an object is stored under name.
	Exists(ctx context.Context, name string) (bool, error)

	// Delete removes the object stored under name.
	Delete(ctx context.Context, name string) error

	// List returns the objects under the location that match opts.
	List(ctx context.Context, opts ListOptions) ([]ObjectInfo, error)

	// SignedURL returns a time-limited download URL for name. A zero ttl
	// uses the configured QuerystringExpire.
	SignedURL(ctx context.Context, name string, ttl time.Duration) (string, error)
}
