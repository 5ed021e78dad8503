// Package minio provides a MinIO implementation of filestore.Store.
//
// It talks to MinIO or any S3-compatible endpoint, AWS included.
//
// Usage:
//
//	cfg := filestore.DefaultConfig("assets")
//	cfg.Provider = filestore.ProviderMinIO
//	cfg.Endpoint = "localhost:9000"
//	store, err := minio.New(ctx, cfg)
//	if err != nil { ... }
//	defer store.Close()
package minio

import (
	"context"
	"io"
	"strings"
	"time"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/s3utils"

	"github.com/koustreak/publicstore/internal/errs"
	"github.com/koustreak/publicstore/internal/filestore"
	"github.com/koustreak/publicstore/internal/filestore/region"
)

// Driver is a MinIO implementation of filestore.Store.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	filestore.Naming

	client *miniogo.Client
	cfg    filestore.Config
}

// New creates a Driver for cfg and calls Ping to validate the bucket is
// reachable before returning.
func New(ctx context.Context, cfg *filestore.Config) (*Driver, error) {
	d, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	if err := d.Ping(ctx); err != nil {
		return nil, err
	}

	return d, nil
}

// Open builds the client without any network round trip.
func Open(cfg *filestore.Config) (*Driver, error) {
	if cfg.Bucket == "" {
		return nil, errs.Misconfigured("minio: bucket is required")
	}

	if err := s3utils.CheckValidBucketName(cfg.Bucket); err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "minio: invalid bucket name", err)
	}

	endpoint, signingRegion, err := region.Endpoint(cfg.Endpoint, cfg.Region)
	if err != nil {
		return nil, err
	}

	client, err := miniogo.New(endpoint, &miniogo.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       cfg.UseSSL,
		Region:       signingRegion,
		BucketLookup: bucketLookup(cfg.CallingFormat),
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "failed to create minio client", err)
	}

	return &Driver{
		Naming: filestore.NewNaming(cfg),
		client: client,
		cfg:    *cfg,
	}, nil
}

// bucketLookup keeps request addressing in line with the URL layout.
func bucketLookup(callingFormat string) miniogo.BucketLookupType {
	switch callingFormat {
	case "subdomain", "virtual", "vhost":
		return miniogo.BucketLookupDNS
	case "ordinary", "path":
		return miniogo.BucketLookupPath
	default:
		return miniogo.BucketLookupAuto
	}
}

// --- filestore.Store implementation ---

// Ping checks that the configured bucket exists.
func (d *Driver) Ping(ctx context.Context) error {
	ok, err := d.client.BucketExists(ctx, d.cfg.Bucket)
	if err != nil {
		return mapError(err, "ping failed")
	}
	if !ok {
		return errs.New(errs.ErrKindNotFound, "bucket "+d.cfg.Bucket+" does not exist")
	}
	return nil
}

// Close is a no-op for MinIO: the SDK client holds no persistent connections.
func (d *Driver) Close() error {
	return nil
}

// Save uploads r with the configured canned ACL.
func (d *Driver) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	key := d.Key(name)

	opts := miniogo.PutObjectOptions{ContentType: contentType}
	if d.cfg.ACL != "" {
		opts.UserMetadata = map[string]string{"x-amz-acl": d.cfg.ACL}
	}

	if _, err := d.client.PutObject(ctx, d.cfg.Bucket, key, r, size, opts); err != nil {
		return "", mapError(err, "failed to upload object")
	}
	return key, nil
}

// Open opens a streaming handle to the object stored under name.
func (d *Driver) Open(ctx context.Context, name string) (filestore.Object, error) {
	key := d.Key(name)

	obj, err := d.client.GetObject(ctx, d.cfg.Bucket, key, miniogo.GetObjectOptions{})
	if err != nil {
		return nil, mapError(err, "failed to get object")
	}

	stat, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, mapError(err, "failed to stat object after get")
	}

	return &object{ReadCloser: obj, info: toInfo(key, stat)}, nil
}

// Stat returns metadata for name without downloading its content.
func (d *Driver) Stat(ctx context.Context, name string) (*filestore.ObjectInfo, error) {
	key := d.Key(name)

	stat, err := d.client.StatObject(ctx, d.cfg.Bucket, key, miniogo.StatObjectOptions{})
	if err != nil {
		return nil, mapError(err, "failed to stat object")
	}
	return toInfo(key, stat), nil
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
	err := d.client.RemoveObject(ctx, d.cfg.Bucket, d.Key(name), miniogo.RemoveObjectOptions{})
	if err != nil {
		return mapError(err, "failed to delete object")
	}
	return nil
}

// List returns objects under the location that match opts.
func (d *Driver) List(ctx context.Context, opts filestore.ListOptions) ([]filestore.ObjectInfo, error) {
	prefix := d.Key(opts.Prefix)
	if prefix != "" && opts.Prefix == "" {
		prefix += "/"
	}

	listCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var results []filestore.ObjectInfo
	for obj := range d.client.ListObjects(listCtx, d.cfg.Bucket, miniogo.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: opts.Recursive,
	}) {
		if obj.Err != nil {
			return nil, mapError(obj.Err, "failed to list objects")
		}

		results = append(results, filestore.ObjectInfo{
			Key:          obj.Key,
			Size:         obj.Size,
			ContentType:  obj.ContentType,
			ETag:         obj.ETag,
			LastModified: obj.LastModified,
			IsDir:        strings.HasSuffix(obj.Key, "/"),
		})

		if opts.Limit > 0 && len(results) >= opts.Limit {
			break
		}
	}

	return results, nil
}

// SignedURL returns a presigned GET URL. It is computed locally when the
// signing region is known.
func (d *Driver) SignedURL(ctx context.Context, name string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = d.cfg.QuerystringExpire
	}

	u, err := d.client.PresignedGetObject(ctx, d.cfg.Bucket, d.Key(name), ttl, nil)
	if err != nil {
		return "", mapError(err, "failed to generate presigned URL")
	}
	if !d.cfg.SecureURLs {
		u.Scheme = "http"
	}
	return u.String(), nil
}

// --- internal types ---

// object wraps a MinIO GetObject response and exposes filestore.Object.
type object struct {
	io.ReadCloser
	info *filestore.ObjectInfo
}

func (o *object) Info() *filestore.ObjectInfo {
	return o.info
}

func toInfo(key string, stat miniogo.ObjectInfo) *filestore.ObjectInfo {
	return &filestore.ObjectInfo{
		Key:          key,
		Size:         stat.Size,
		ContentType:  stat.ContentType,
		ETag:         stat.ETag,
		LastModified: stat.LastModified,
	}
}
