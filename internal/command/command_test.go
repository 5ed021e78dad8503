package command

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/publicstore/internal/errs"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	configPath, debug, addr = "", false, ""

	out := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestResolveCommand(t *testing.T) {
	out, err := execute(t, "resolve", "us-west-2")
	require.NoError(t, err)
	assert.Equal(t, "s3-us-west-2.amazonaws.com\n", out)

	out, err = execute(t, "resolve", "")
	require.NoError(t, err)
	assert.Equal(t, "s3.amazonaws.com\n", out)

	_, err = execute(t, "resolve", "atlantis-1")
	assert.True(t, errs.IsMisconfigured(err))
}

func TestResolveCommand_HelpNamesDefaultHost(t *testing.T) {
	out, err := execute(t, "resolve", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "An empty REGION resolves to the client library default and prints s3.amazonaws.com")
}

func TestURLCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publicstore.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  provider: minio
  region: us-west-1
  calling_format: subdomain
  bucket: mybucket
  access_key: AKIAEXAMPLE
  secret_key: secret
log:
  level: error
`), 0o600))

	out, err := execute(t, "url", "-f", path, "avatars/42.png", "a//b.png")
	require.NoError(t, err)
	assert.Equal(t,
		"https://mybucket.s3-us-west-1.amazonaws.com/avatars/42.png\n"+
			"https://mybucket.s3-us-west-1.amazonaws.com/a/b.png\n",
		out)

	out, err = execute(t, "url", "--file", path, "avatars/42.png")
	require.NoError(t, err)
	assert.Equal(t, "https://mybucket.s3-us-west-1.amazonaws.com/avatars/42.png\n", out)

	_, err = execute(t, "url", "--config", path, "avatars/42.png")
	assert.Error(t, err)
}

func TestURLCommand_RequiresName(t *testing.T) {
	_, err := execute(t, "url")
	assert.Error(t, err)
}
