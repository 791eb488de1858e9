package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarioCommands(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"toggle", []string{"toggle", "2"}, "Toggled? false\nToggled? true\nToggled? false\n"},
		{"controlled", []string{"controlled", "Bob"}, "Name is: \"Controlled\"\nName is: \"Bob\"\n"},
		{"uncontrolled", []string{"uncontrolled", "B", "Bo", "Bob"}, "Name is: \"Uncontrolled\"\nName is: \"Bob\"\n"},
		{"odd", []string{"odd", "2", "5"}, "Message: \"\"\nMessage: \"Ding ding ding!\"\n"},
		{"numeric", []string{"numeric", "12"}, "You entered 0\nYou entered 12\n"},
		{"progress", []string{"progress", "1"}, "[..........]   0/100\n[#.........]  10/100\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestScenarioArgs(t *testing.T) {
	tests := map[string][]string{
		"missing values": {"controlled"},
		"not a number":   {"odd", "one"},
		"bad step count": {"progress", "-3"},
		"too many steps": {"progress", "1", "2"},
		"not a count":    {"toggle", "twice"},
		"missing count":  {"toggle"},
	}

	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := execute(t, args...)
			assert.Error(t, err)
		})
	}
}

func TestMetricsFlag(t *testing.T) {
	out, _, err := execute(t, "--metrics", "odd", "1", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "# TYPE sig_passes_total counter\nsig_passes_total 2\n")
	assert.Contains(t, out, `sig_runs_total{kind="effect"} 2`)
	assert.Contains(t, out, "sig_pass_duration_seconds_count 2")
}

func TestTraceFlag(t *testing.T) {
	out, _, err := execute(t, "--trace", "odd", "1")
	require.NoError(t, err)
	assert.Equal(t, "Message: \"\"\nMessage: \"Ding ding ding!\"\n", out)
}

func TestDebugLogging(t *testing.T) {
	_, logs, err := execute(t, "--log-level", "debug", "--log-format", "json", "controlled", "Bob")
	require.NoError(t, err)

	assert.Contains(t, logs, `"msg":"sig: pass completed"`)
}
