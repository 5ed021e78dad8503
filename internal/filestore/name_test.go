package filestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNaming_CleanName(t *testing.T) {
	n := NewNaming(&Config{})

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"a//b.png", "a/b.png"},
		{`dir\file.txt`, "dir/file.txt"},
		{"a/./b/../c.png", "a/c.png"},
		{"thumbs/", "thumbs/"},
		{"/abs/key", "/abs/key"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, n.CleanName(tt.in))
		})
	}
}

func TestNaming_NormalizeName(t *testing.T) {
	tests := []struct {
		location, in, want string
	}{
		{"", "avatars/42.png", "avatars/42.png"},
		{"", "/avatars/42.png", "avatars/42.png"},
		{"media", "avatars/42.png", "media/avatars/42.png"},
		{"/media/", "a/b.png", "media/a/b.png"},
		{"media", "../../etc/passwd", "media/etc/passwd"},
		{"media", "", "media"},
		{"media", "thumbs/", "media/thumbs/"},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.location+"|"+tt.in, func(t *testing.T) {
			n := NewNaming(&Config{Location: tt.location})
			assert.Equal(t, tt.want, n.NormalizeName(tt.in))
		})
	}
}

func TestNaming_Accessors(t *testing.T) {
	n := NewNaming(&Config{
		Bucket:       "assets",
		CustomDomain: "cdn.example.com",
		URLProtocol:  "https:",
		Location:     "media",
	})

	assert.Equal(t, "assets", n.BucketName())
	assert.Equal(t, "cdn.example.com", n.CustomDomain())
	assert.Equal(t, "https:", n.URLProtocol())
	assert.Equal(t, "media/a/b.png", n.Key("a//b.png"))
	assert.Equal(t, "a/b.png", n.Relative("media/a/b.png"))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("assets")

	assert.Equal(t, ProviderS3, cfg.Provider)
	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, "https:", cfg.URLProtocol)
	assert.Equal(t, ACLPrivate, cfg.ACL)
	assert.True(t, cfg.QuerystringAuth)
}
