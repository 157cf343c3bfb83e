package mhost

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemConfigParsesResolvConf(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resolv.conf")
	content := "nameserver 192.0.2.1\nnameserver 192.0.2.2\noptions timeout:1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := SystemConfig(path)
	require.NoError(t, err)
	require.Len(t, cfg, 2)
	assert.Equal(t, "192.0.2.1", cfg[0].Addr.String())
	assert.EqualValues(t, 53, cfg[0].Port)
}

func TestSystemConfigRejectsEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resolv.conf")
	require.NoError(t, os.WriteFile(path, []byte("# nothing here\n"), 0o644))

	_, err := SystemConfig(path)
	assert.Error(t, err, "expected an error for a resolv.conf with no usable nameserver lines")
}
