package filestore

import "time"

// Provider identifies the object storage backend.
type Provider string

const (
	ProviderMinIO Provider = "minio"
	ProviderS3    Provider = "s3"
)

// Canned ACLs understood by both drivers.
const (
	ACLPrivate    = "private"
	ACLPublicRead = "public-read"
)

// Config holds all settings needed to reach a bucket and name its objects.
type Config struct {
	// Provider is the storage backend (e.g. ProviderS3).
	Provider Provider

	// Endpoint is the host (optionally host:port) of the storage server.
	// Leave empty to let the public adapter derive it from Region.
	Endpoint string

	// AccessKey is the access key ID. Empty means "use the ambient
	// credential chain" for the S3 driver.
	AccessKey string

	// SecretKey is the secret access key.
	SecretKey string

	// UseSSL controls whether TLS is used for the client connection.
	UseSSL bool

	// Region is a short region code ("us-west-1"), a full endpoint host
	// ("s3-us-west-1.amazonaws.com"), or empty for the default endpoint.
	Region string

	// Bucket is the bucket every object lives in.
	Bucket string

	// Location is a key prefix prepended to every object name.
	Location string

	// CustomDomain replaces endpoint-based URLs entirely when set
	// (e.g. a CDN host such as "cdn.example.com").
	CustomDomain string

	// URLProtocol is the scheme prefix used for built URLs, with its colon.
	URLProtocol string

	// CallingFormat selects how URLs are laid out: "ordinary" (path style),
	// "subdomain" (virtual host) or "vhost" (bucket is the host).
	CallingFormat string

	// ACL is the canned ACL applied on upload.
	ACL string

	// QuerystringAuth enables signed URLs. The public adapter turns it off.
	QuerystringAuth bool

	// QuerystringExpire is the lifetime of signed URLs.
	QuerystringExpire time.Duration

	// SecureURLs forces https on signed URLs.
	SecureURLs bool
}

// DefaultConfig returns the settings of a private, signed-URL bucket on AWS.
func DefaultConfig(bucket string) *Config {
	return &Config{
		Provider:          ProviderS3,
		UseSSL:            true,
		Region:            "us-east-1",
		Bucket:            bucket,
		URLProtocol:       "https:",
		CallingFormat:     "ordinary",
		ACL:               ACLPrivate,
		QuerystringAuth:   true,
		QuerystringExpire: time.Hour,
		SecureURLs:        true,
	}
}
