package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	root := GetRootCommand()
	assert.Equal(t, "marlin", root.Use)
	assert.NotEmpty(t, root.Short)
	assert.NotEmpty(t, root.Long)
}

func TestRootCommand_PersistentFlags(t *testing.T) {
	flags := GetRootCommand().PersistentFlags()
	for _, name := range []string{"config", "verbose", "log-level", "models-dir", "version"} {
		assert.NotNil(t, flags.Lookup(name), "missing persistent flag %q", name)
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range GetRootCommand().Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["detect"], "missing detect command")
	assert.True(t, names["balance"], "missing balance command")
	assert.True(t, names["compare"], "missing compare command")
}

func TestRootCommand_VersionFlag(t *testing.T) {
	root := GetRootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"--version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "marlin version")

	root.SetArgs(nil)
	require.NoError(t, root.PersistentFlags().Set("version", "false"))
}

func TestDetectCommand_Flags(t *testing.T) {
	var detect *cobra.Command
	for _, c := range GetRootCommand().Commands() {
		if c.Name() == "detect" {
			detect = c
		}
	}
	require.NotNil(t, detect)

	for _, name := range []string{"model", "confidence", "max-results", "allow", "deny", "threads", "gpu", "format", "output"} {
		assert.NotNil(t, detect.Flags().Lookup(name), "missing detect flag %q", name)
	}
}
