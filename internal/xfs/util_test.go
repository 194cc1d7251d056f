package xfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, home, ExpandTilde("~"))
	assert.Equal(t, filepath.Join(home, "config.yaml"), ExpandTilde("~/config.yaml"))
	assert.Equal(t, "~other/config.yaml", ExpandTilde("~other/config.yaml"))
	assert.Equal(t, "/etc/modelstore", ExpandTilde("/etc/modelstore"))
	assert.Equal(t, "", ExpandTilde(""))
}
