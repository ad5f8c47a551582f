package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestHookArgumentsAreIgnored(t *testing.T) {
	t.Setenv("RELATIVE_UDA_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	stdout, stderr, err := execute(t,
		`{"uuid":"a","status":"pending","due":"20240110T000000Z","untilrel":"2 days"}`+"\n",
		"api:2", "args:task add due:20240110 untilrel:2d", "command:add", "rc:/home/u/.taskrc", "data:/home/u/.task", "version:2.6.2")

	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, `"until":"20240112T000000Z"`)
}

func TestConfigFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relative-uda.toml")
	require.NoError(t, os.WriteFile(path, []byte("until_attribute = \"expiresin\"\n"), 0600))

	stdout, _, err := execute(t,
		`{"uuid":"a","status":"pending","due":"20240110T000000Z","expiresin":"1d","untilrel":"5d"}`+"\n",
		"--config", path)

	require.NoError(t, err)
	assert.Contains(t, stdout, `"until":"20240111T000000Z"`)
}

func TestQuietFlag(t *testing.T) {
	t.Setenv("RELATIVE_UDA_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	line := `{"uuid":"a","status":"pending","untilrel":"2 days"}`
	stdout, stderr, err := execute(t, line+"\n", "--quiet")
	require.NoError(t, err)
	assert.Equal(t, line+"\n", stdout)
	assert.Empty(t, stderr)
}

func TestBrokenConfigFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relative-uda.toml")
	require.NoError(t, os.WriteFile(path, []byte("this is not toml"), 0600))

	stdout, stderr, err := execute(t,
		`{"uuid":"a","status":"pending","due":"20240110T000000Z","waitrel":"1d"}`+"\n",
		"--config", path)

	require.NoError(t, err)
	assert.Contains(t, stderr, "Using defaults.")
	assert.Contains(t, stdout, `"wait":"20240109T000000Z"`)
}

func TestDumpConfig(t *testing.T) {
	t.Setenv("RELATIVE_UDA_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	stdout, _, err := execute(t, "", "--dump-config")
	require.NoError(t, err)
	assert.Contains(t, stdout, `until_attribute = "untilrel"`)
	assert.Contains(t, stdout, `wait_attribute = "waitrel"`)
	assert.Contains(t, stdout, "warnings = true")
}
