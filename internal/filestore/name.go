package filestore

import (
	"path"
	"strings"
)

// Naming implements Base from a Config. Drivers embed it.
type Naming struct {
	location string
	bucket   string
	domain   string
	protocol string
}

// NewNaming captures the naming-related settings of cfg.
func NewNaming(cfg *Config) Naming {
	return Naming{
		location: cfg.Location,
		bucket:   cfg.Bucket,
		domain:   cfg.CustomDomain,
		protocol: cfg.URLProtocol,
	}
}

// CleanName converts backslashes to slashes and collapses redundant
// separators and dot segments. A trailing slash is kept.
func (n Naming) CleanName(name string) string {
	if name == "" {
		return ""
	}
	name = strings.ReplaceAll(name, `\`, "/")
	cleaned := path.Clean(name)
	if strings.HasSuffix(name, "/") && !strings.HasSuffix(cleaned, "/") {
		cleaned += "/"
	}
	return cleaned
}

// NormalizeName roots name before joining it onto the location, so ".."
// segments can never climb above it. The result has no leading slash.
func (n Naming) NormalizeName(name string) string {
	joined := path.Join("/", n.location, path.Clean("/"+name))
	if strings.HasSuffix(name, "/") && joined != "/" {
		joined += "/"
	}
	return strings.TrimLeft(joined, "/")
}

func (n Naming) CustomDomain() string { return n.domain }

func (n Naming) URLProtocol() string { return n.protocol }

func (n Naming) BucketName() string { return n.bucket }

// Key cleans and normalizes name in one step.
func (n Naming) Key(name string) string {
	return n.NormalizeName(n.CleanName(name))
}

// Relative strips the location prefix from an object key.
func (n Naming) Relative(key string) string {
	loc := strings.Trim(n.location, "/")
	if loc == "" {
		return key
	}
	return strings.TrimPrefix(strings.TrimPrefix(key, loc), "/")
}
