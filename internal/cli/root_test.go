package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args, isolated from the user's config.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SIGDEMO_CONFIG", "")

	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "sigdemo", cmd.Use)
	assert.True(t, cmd.SilenceUsage)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"toggle", "controlled", "uncontrolled", "odd", "numeric", "progress", "version"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	defaults := map[string]string{
		"config":     "",
		"max-passes": "1000",
		"log-level":  "warn",
		"log-format": "text",
		"metrics":    "false",
		"trace":      "false",
		"stats":      "false",
		"format":     "text",
	}

	for name, def := range defaults {
		t.Run(name, func(t *testing.T) {
			flag := cmd.PersistentFlags().Lookup(name)
			require.NotNil(t, flag)
			assert.Equal(t, def, flag.DefValue)
		})
	}
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := execute(t, "--format", "xml", "odd", "1")
	assert.ErrorContains(t, err, `invalid format "xml"`)
}

func TestInvalidConfig(t *testing.T) {
	_, _, err := execute(t, "--max-passes", "0", "odd", "1")
	assert.ErrorContains(t, err, "runtime.max_passes")
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Regexp(t, `^sigdemo \S+\n$`, out)
}
