package cli_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/fempost/internal/cli"
)

func TestParse_PositionalResultFile(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := cli.Parse([]string{"-server", "http://localhost:50054", "/tmp/file.rst"}, &out)
	require.NoError(t, err)
	require.False(t, exit)

	assert.Equal(t, "http://localhost:50054", cfg.ServerURL)
	assert.Equal(t, "/tmp/file.rst", cfg.ResultFile)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParse_RstFlagWinsOverPositional(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := cli.Parse([]string{"-server", "http://h", "-rst", "/a.rst", "/b.rst"}, &out)
	require.NoError(t, err)
	require.False(t, exit)
	assert.Equal(t, "/a.rst", cfg.ResultFile)
}

func TestParse_MissingArgumentsShowsUsage(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := cli.Parse([]string{"-server", "http://h"}, &out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_InvalidLogFormat(t *testing.T) {
	var out bytes.Buffer
	_, _, err := cli.Parse([]string{"-server", "http://h", "-log-format", "xml", "/f.rst"}, &out)
	require.Error(t, err)

	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParse_UnknownFlag(t *testing.T) {
	var out bytes.Buffer
	_, _, err := cli.Parse([]string{"-bogus"}, &out)
	require.Error(t, err)

	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParse_HelpExitsCleanly(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := cli.Parse([]string{"-h"}, &out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
}
