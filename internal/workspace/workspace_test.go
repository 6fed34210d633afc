package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_CreateAndCleanup(t *testing.T) {
	base := t.TempDir()
	mgr := NewManager(base, nil)
	require.NoError(t, mgr.Create())

	ws := mgr.GetPath()
	require.NotEmpty(t, ws)
	assert.Equal(t, base, filepath.Dir(ws))
	assert.True(t, strings.HasPrefix(filepath.Base(ws), "blogbuilder-"))

	sub, err := mgr.CreateSubdir("site")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(sub, "marker.txt"), []byte("x"), 0o600))

	require.NoError(t, mgr.Cleanup())
	_, err = os.Stat(ws)
	assert.True(t, os.IsNotExist(err))
	assert.Empty(t, mgr.GetPath())
	require.NoError(t, mgr.Cleanup())
}

func TestManager_WorkspacesAreDistinct(t *testing.T) {
	base := t.TempDir()
	a, b := NewManager(base, nil), NewManager(base, nil)
	require.NoError(t, a.Create())
	require.NoError(t, b.Create())
	assert.NotEqual(t, a.GetPath(), b.GetPath())
}

func TestManager_SubdirBeforeCreate(t *testing.T) {
	_, err := NewManager(t.TempDir(), nil).CreateSubdir("x")
	require.Error(t, err)
}
