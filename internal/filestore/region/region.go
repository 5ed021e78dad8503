// Package region maps region identifiers to S3 endpoint hosts.
package region

import (
	"regexp"
	"slices"
	"strings"

	"github.com/koustreak/publicstore/internal/errs"
)

// DefaultHost is the endpoint used for us-east-1 and when no region is set.
const DefaultHost = "s3.amazonaws.com"

// DefaultRegion is the signing region behind DefaultHost.
const DefaultRegion = "us-east-1"

// Known lists the short region codes accepted by Resolve.
var Known = []string{
	"eu-west-1",
	"us-east-1",
	"us-west-1",
	"us-west-2",
	"sa-east-1",
	"ap-northeast-1",
	"ap-southeast-1",
}

var hostPattern = regexp.MustCompile(`^s3-(.+)\.amazonaws\.com$`)

// Resolve returns the endpoint host for region. Accepted forms are a short
// code from Known, a full host such as "s3-us-west-1.amazonaws.com", or ""
// for the client library default.
//
// Any identifier containing "us-east-1" resolves to DefaultHost before the
// other checks run, even if the rest of the string is garbage.
func Resolve(region string) (string, error) {
	switch {
	case strings.Contains(region, DefaultRegion):
		return DefaultHost, nil
	case slices.Contains(Known, region):
		return "s3-" + region + ".amazonaws.com", nil
	case region != "" && !hostPattern.MatchString(region):
		return "", errs.Misconfigured("region improperly configured: %q", region)
	}
	return region, nil
}

// FromHost recovers the signing region from a host produced by Resolve.
// Hosts outside the s3-<region>.amazonaws.com shape map to DefaultRegion.
func FromHost(host string) string {
	if m := hostPattern.FindStringSubmatch(host); m != nil {
		return m[1]
	}
	return DefaultRegion
}

// HostOf strips a scheme and any path from an endpoint, so
// "http://localhost:9000/" becomes "localhost:9000".
func HostOf(endpoint string) string {
	if i := strings.Index(endpoint, "://"); i >= 0 {
		endpoint = endpoint[i+3:]
	}
	if i := strings.IndexByte(endpoint, '/'); i >= 0 {
		endpoint = endpoint[:i]
	}
	return endpoint
}

// Endpoint picks the host a client talks to and the region it signs for.
// Without an explicit endpoint the host comes from Resolve(regionName),
// falling back to DefaultHost. AWS hosts carry their own signing region;
// any other host signs for regionName when it is a short code.
func Endpoint(endpoint, regionName string) (host, signing string, err error) {
	if endpoint == "" {
		if host, err = Resolve(regionName); err != nil {
			return "", "", err
		}
		if host == "" {
			host = DefaultHost
		}
		return host, FromHost(host), nil
	}

	host = HostOf(endpoint)
	if strings.HasSuffix(host, ".amazonaws.com") {
		return host, FromHost(host), nil
	}
	if regionName != "" && !strings.Contains(regionName, ".") {
		return host, regionName, nil
	}
	return host, DefaultRegion, nil
}
