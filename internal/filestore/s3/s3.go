package s3

import (
	"context"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/koustreak/publicstore/internal/errs"
	"github.com/koustreak/publicstore/internal/filestore"
	"github.com/koustreak/publicstore/internal/filestore/region"
)

// Client is the subset of *s3.Client the driver uses.
type Client interface {
	manager.UploadAPIClient
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Presigner signs GET requests locally.
type Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Driver implements filestore.Store on top of the AWS SDK.
type Driver struct {
	filestore.Naming

	client    Client
	presigner Presigner
	uploader  *manager.Uploader
	cfg       filestore.Config
}

// New opens a Driver for cfg and pings the bucket.
func New(ctx context.Context, cfg *filestore.Config) (*Driver, error) {
	d, err := Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := d.Ping(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// Open loads AWS configuration for cfg and builds a client. Only the
// credential chain may do I/O; the bucket is not contacted.
func Open(ctx context.Context, cfg *filestore.Config) (*Driver, error) {
	if cfg.Bucket == "" {
		return nil, errs.Misconfigured("s3: bucket is required")
	}

	signing, base, err := endpointSettings(cfg)
	if err != nil {
		return nil, err
	}

	awsCfg, err := loadAWSConfig(ctx, cfg, signing)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "failed to load aws config", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if base != "" {
			o.BaseEndpoint = aws.String(base)
		}
		o.UsePathStyle = usePathStyle(cfg.CallingFormat)
	})

	return NewWithClient(client, s3.NewPresignClient(client), cfg), nil
}

// NewWithClient wraps an existing client. It performs no network calls.
func NewWithClient(client Client, presigner Presigner, cfg *filestore.Config) *Driver {
	return &Driver{
		Naming:    filestore.NewNaming(cfg),
		client:    client,
		presigner: presigner,
		uploader:  manager.NewUploader(client),
		cfg:       *cfg,
	}
}

func loadAWSConfig(ctx context.Context, cfg *filestore.Config, signingRegion string) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(signingRegion),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	return config.LoadDefaultConfig(ctx, opts...)
}

// endpointSettings returns the signing region and the client base endpoint.
// The base endpoint is "" for AWS hosts so the SDK resolves them itself.
func endpointSettings(cfg *filestore.Config) (string, string, error) {
	host, signing, err := region.Endpoint(cfg.Endpoint, cfg.Region)
	if err != nil {
		return "", "", err
	}

	switch {
	case isAWSHost(host):
		return signing, "", nil
	case strings.Contains(cfg.Endpoint, "://"):
		return signing, cfg.Endpoint, nil
	case cfg.UseSSL:
		return signing, "https://" + host, nil
	}
	return signing, "http://" + host, nil
}

func isAWSHost(host string) bool {
	return strings.HasSuffix(host, ".amazonaws.com")
}

func usePathStyle(callingFormat string) bool {
	switch callingFormat {
	case "", "ordinary", "path":
		return true
	}
	return false
}

// --- filestore.Store implementation ---

// Ping issues a HeadBucket for the configured bucket.
func (d *Driver) Ping(ctx context.Context) error {
	_, err := d.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(d.cfg.Bucket)})
	if err != nil {
		return mapError(err, "ping failed")
	}
	return nil
}

// Close is a no-op; the SDK's HTTP client is shared and pooled.
func (d *Driver) Close() error {
	return nil
}

// Save uploads r through the multipart-capable uploader with the configured ACL.
func (d *Driver) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	key := d.Key(name)

	input := &s3.PutObjectInput{
		Bucket: aws.String(d.cfg.Bucket),
		Key:    aws.String(key),
		Body:   r,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}
	if d.cfg.ACL != "" {
		input.ACL = types.ObjectCannedACL(d.cfg.ACL)
	}

	if _, err := d.uploader.Upload(ctx, input); err != nil {
		return "", mapError(err, "failed to upload object")
	}
	return key, nil
}

// Open opens a streaming handle to the object stored under name.
func (d *Driver) Open(ctx context.Context, name string) (filestore.Object, error) {
	key := d.Key(name)

	out, err := d.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, mapError(err, "failed to get object")
	}

	return &object{
		ReadCloser: out.Body,
		info: &filestore.ObjectInfo{
			Key:          key,
			Size:         aws.ToInt64(out.ContentLength),
			ContentType:  aws.ToString(out.ContentType),
			ETag:         aws.ToString(out.ETag),
			LastModified: aws.ToTime(out.LastModified),
		},
	}, nil
}

// Stat returns metadata for name via HeadObject.
func (d *Driver) Stat(ctx context.Context, name string) (*filestore.ObjectInfo, error) {
	key := d.Key(name)

	out, err := d.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(d.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, mapError(err, "failed to stat object")
	}

	return &filestore.ObjectInfo{
		Key:          key,
		Size:         aws.ToInt64(out.ContentLength),
		ContentType:  aws.ToString(out.ContentType),
		ETag:         aws.ToString(out.ETag),
		LastModified: aws.ToTime(out.LastModified),
	}, nil
}

// Exists reports whether an object is stored under name.
func (d *Driver) Exists(ctx context.Context, name string) (bool, error) {
	_, err := d.Stat(ctx, name)
	if errs.IsNotFound(err) {
		return false, nil
	}
	return err == nil, err
}

// Delete removes the object stored under name.
func (d *Driver) Delete(ctx context.Context, name string) error {
	_, err := d.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(d.cfg.Bucket),
		Key:    aws.String(d.Key(name)),
	})
	if err != nil {
		return mapError(err, "failed to delete object")
	}
	return nil
}

// List pages through ListObjectsV2 until opts.Limit is reached.
func (d *Driver) List(ctx context.Context, opts filestore.ListOptions) ([]filestore.ObjectInfo, error) {
	prefix := d.Key(opts.Prefix)
	if prefix != "" && opts.Prefix == "" {
		prefix += "/"
	}

	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(d.cfg.Bucket),
		Prefix: aws.String(prefix),
	}
	if !opts.Recursive {
		input.Delimiter = aws.String("/")
	}

	var results []filestore.ObjectInfo
	full := func() bool { return opts.Limit > 0 && len(results) >= opts.Limit }

	paginator := s3.NewListObjectsV2Paginator(d.client, input)
	for paginator.HasMorePages() && !full() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, mapError(err, "failed to list objects")
		}

		for _, cp := range page.CommonPrefixes {
			if full() {
				break
			}
			results = append(results, filestore.ObjectInfo{Key: aws.ToString(cp.Prefix), Size: -1, IsDir: true})
		}
		for _, obj := range page.Contents {
			if full() {
				break
			}
			results = append(results, filestore.ObjectInfo{
				Key:          aws.ToString(obj.Key),
				Size:         aws.ToInt64(obj.Size),
				ETag:         aws.ToString(obj.ETag),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
	}

	return results, nil
}

// SignedURL presigns a GET request. No request is sent.
func (d *Driver) SignedURL(ctx context.Context, name string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = d.cfg.QuerystringExpire
	}

	req, err := d.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.cfg.Bucket),
		Key:    aws.String(d.Key(name)),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", mapError(err, "failed to presign object")
	}

	if d.cfg.SecureURLs {
		return req.URL, nil
	}
	u, err := url.Parse(req.URL)
	if err != nil {
		return "", errs.Wrap(errs.ErrKindQueryFailed, "presigned URL is malformed", err)
	}
	u.Scheme = "http"
	return u.String(), nil
}

type object struct {
	io.ReadCloser
	info *filestore.ObjectInfo
}

func (o *object) Info() *filestore.ObjectInfo {
	return o.info
}
