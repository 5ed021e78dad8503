// Package s3 provides an AWS SDK v2 implementation of filestore.Store.
//
// Credentials come from the config when an access key is set, and from the
// SDK's default chain (env, shared config, IMDS) otherwise.
//
// # Basic Usage
//
//	cfg := filestore.DefaultConfig("assets")
//	cfg.Region = "us-west-1"
//	store, err := s3.New(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # S3-compatible endpoints
//
// Non-AWS endpoints (MinIO, LocalStack) are set as the client's base
// endpoint; the "ordinary" calling format switches the client to path-style
// addressing so requests and built URLs agree.
package s3
