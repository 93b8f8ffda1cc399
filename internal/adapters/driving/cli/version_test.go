package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd_Registered(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"version"})
	require.NoError(t, err)
	assert.Same(t, versionCmd, cmd)
}

func TestVersionCmd_PrintsVersion(t *testing.T) {
	original := version
	t.Cleanup(func() { version = original })

	SetVersion("1.4.2")
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "revlink version 1.4.2\n", out)
}

func TestVersionCmd_NeedsNoServices(t *testing.T) {
	SetServices(Services{})

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "revlink version")
}
