// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingDirectory(t *testing.T) {
	loaded, err := Load(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestLoadReadsKeyFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "summarizer-api-key"), []byte("sk-abc123\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other-key"), []byte("  value  "), 0o600))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "sk-abc123", loaded["summarizer-api-key"])
	assert.Equal(t, "value", loaded["other-key"])
}

func TestLoadSkipsHiddenAndEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("nope"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty"), []byte("   \n"), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "subdir"), 0o755))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestResolve(t *testing.T) {
	loaded := map[string]string{"summarizer-api-key": "from-file"}

	assert.Equal(t, "from-flag", Resolve(loaded, "summarizer-api-key", "from-flag"))
	assert.Equal(t, "from-file", Resolve(loaded, "summarizer-api-key", ""))
	assert.Equal(t, "", Resolve(loaded, "missing-key", ""))
	assert.Equal(t, "", Resolve(nil, "summarizer-api-key", ""))
}
