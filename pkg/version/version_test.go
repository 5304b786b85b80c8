package version

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionString(t *testing.T) {
	vc := VersionContext{Name: "utrfill", Version: "v0.2.0", Commit: "abc123"}
	assert.Equal(t, "utrfill: v0.2.0+abc123", vc.String())
}

func TestNewCmdVersion(t *testing.T) {
	out := &bytes.Buffer{}
	cmd := NewCmdVersion()
	cmd.SetOut(out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, Version.String()+"\n", out.String())
}
