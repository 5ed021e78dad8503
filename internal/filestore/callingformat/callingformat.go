// Package callingformat lays out S3 object URLs. A Format decides where the
// bucket name goes (path, subdomain, or as the host itself); the key is
// always percent-encoded with "/" preserved.
package callingformat

import (
	"strings"

	"github.com/minio/minio-go/v7/pkg/s3utils"

	"github.com/koustreak/publicstore/internal/errs"
)

// Connection is the one capability a Format needs from a client connection:
// mapping an object path to the path actually requested.
type Connection interface {
	Path(p string) string
}

type noopConnection struct{}

func (noopConnection) Path(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

// Noop is a Connection that returns paths unchanged. Building a URL against
// it never opens a network connection.
var Noop Connection = noopConnection{}

// Format turns (protocol, server, bucket, key) into a URL.
type Format interface {
	// Name is the config value selecting this format.
	Name() string

	// BuildURLBase returns protocol://host/path for key in bucket.
	// protocol is given without its colon.
	BuildURLBase(conn Connection, protocol, server, bucket, key string) string
}

// Ordinary puts the bucket in the path: https://server/bucket/key.
type Ordinary struct{}

// Subdomain puts the bucket in the host: https://bucket.server/key.
type Subdomain struct{}

// VHost uses the bucket name as the host: https://bucket/key.
type VHost struct{}

func (Ordinary) Name() string  { return "ordinary" }
func (Subdomain) Name() string { return "subdomain" }
func (VHost) Name() string     { return "vhost" }

func (f Ordinary) BuildURLBase(conn Connection, protocol, server, bucket, key string) string {
	p := "/"
	if bucket != "" {
		p += bucket + "/"
	}
	return build(conn, protocol, server, p+s3utils.EncodePath(key))
}

func (f Subdomain) BuildURLBase(conn Connection, protocol, server, bucket, key string) string {
	host := server
	if bucket != "" {
		host = bucket + "." + server
	}
	return build(conn, protocol, host, keyPath(key))
}

func (f VHost) BuildURLBase(conn Connection, protocol, server, bucket, key string) string {
	host := server
	if bucket != "" {
		host = bucket
	}
	return build(conn, protocol, host, keyPath(key))
}

func keyPath(key string) string {
	return "/" + s3utils.EncodePath(key)
}

func build(conn Connection, protocol, host, p string) string {
	return protocol + "://" + host + conn.Path(p)
}

// Parse returns the Format registered under name. An empty name selects
// Ordinary, which works over https for any bucket name.
func Parse(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "ordinary", "path":
		return Ordinary{}, nil
	case "subdomain", "virtual":
		return Subdomain{}, nil
	case "vhost":
		return VHost{}, nil
	default:
		return nil, errs.Misconfigured("unknown calling format %q", name)
	}
}
