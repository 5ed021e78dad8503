package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/publicstore/internal/errs"
)

func TestResolve_KnownRegions(t *testing.T) {
	for _, code := range Known {
		t.Run(code, func(t *testing.T) {
			host, err := Resolve(code)
			require.NoError(t, err)

			if code == "us-east-1" {
				assert.Equal(t, "s3.amazonaws.com", host)
				return
			}
			assert.Equal(t, "s3-"+code+".amazonaws.com", host)
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		region  string
		want    string
		wantErr bool
	}{
		{name: "empty defers to library", region: "", want: ""},
		{name: "full host verbatim", region: "s3-eu-west-1.amazonaws.com", want: "s3-eu-west-1.amazonaws.com"},
		{name: "unknown full host verbatim", region: "s3-eu-central-1.amazonaws.com", want: "s3-eu-central-1.amazonaws.com"},
		{name: "us-east-1 substring wins", region: "us-east-1-but-garbage", want: "s3.amazonaws.com"},
		{name: "us-east-1 host form", region: "s3-us-east-1.amazonaws.com", want: "s3.amazonaws.com"},
		{name: "unknown code", region: "not-a-region", wantErr: true},
		{name: "unlisted short code", region: "eu-central-1", wantErr: true},
		{name: "host with trailing junk", region: "s3-eu-west-1.amazonaws.com.evil", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, err := Resolve(tt.region)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errs.IsMisconfigured(err))
				assert.Empty(t, host)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, host)
		})
	}
}

func TestFromHost(t *testing.T) {
	assert.Equal(t, "us-west-1", FromHost("s3-us-west-1.amazonaws.com"))
	assert.Equal(t, "us-east-1", FromHost("s3.amazonaws.com"))
	assert.Equal(t, "us-east-1", FromHost(""))
	assert.Equal(t, "us-east-1", FromHost("minio.internal:9000"))
}

func TestHostOf(t *testing.T) {
	assert.Equal(t, "localhost:9000", HostOf("http://localhost:9000"))
	assert.Equal(t, "localhost:9000", HostOf("https://localhost:9000/base"))
	assert.Equal(t, "minio.internal", HostOf("minio.internal"))
	assert.Equal(t, "", HostOf(""))
}

func TestEndpoint(t *testing.T) {
	tests := []struct {
		name, endpoint, region string
		wantHost, wantSigning  string
		wantErr                bool
	}{
		{name: "region only", region: "us-west-1", wantHost: "s3-us-west-1.amazonaws.com", wantSigning: "us-west-1"},
		{name: "default region", region: "us-east-1", wantHost: "s3.amazonaws.com", wantSigning: "us-east-1"},
		{name: "nothing set", wantHost: "s3.amazonaws.com", wantSigning: "us-east-1"},
		{name: "full host as region", region: "s3-eu-west-1.amazonaws.com", wantHost: "s3-eu-west-1.amazonaws.com", wantSigning: "eu-west-1"},
		{name: "bad region", region: "mars-1", wantErr: true},
		{name: "aws endpoint wins", endpoint: "s3-ap-northeast-1.amazonaws.com", region: "us-west-1", wantHost: "s3-ap-northeast-1.amazonaws.com", wantSigning: "ap-northeast-1"},
		{name: "custom endpoint with region", endpoint: "http://localhost:9000", region: "eu-west-1", wantHost: "localhost:9000", wantSigning: "eu-west-1"},
		{name: "custom endpoint", endpoint: "minio.internal", wantHost: "minio.internal", wantSigning: "us-east-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, signing, err := Endpoint(tt.endpoint, tt.region)
			if tt.wantErr {
				assert.True(t, errs.IsMisconfigured(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantSigning, signing)
		})
	}
}
