package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/odegrid/internal/cli"
)

func TestRun_Check(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "decay.hcl")
	src := `
component "pool" {
  variable "x" {
    state = 1
    rhs   = -x
  }
}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))

	var stdout, stderr bytes.Buffer
	err := run(&stdout, &stderr, []string{"check", path})

	require.NoError(t, err)
	require.Equal(t, "decay: ok (1 components, 1 variables, 1 states, 0 warnings)\n", stdout.String())
}

func TestRun_Help(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	err := run(&stdout, &stderr, []string{"--help"})

	require.NoError(t, err)
	require.Contains(t, stdout.String(), "Usage:")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	err := run(&stdout, &stderr, []string{"--this-is-not-a-valid-flag"})

	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr))
	require.Equal(t, cli.ExitUsage, exitErr.Code)
	require.Contains(t, exitErr.Message, "unknown flag: --this-is-not-a-valid-flag")
}

func TestRun_InvalidModel(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.hcl")
	require.NoError(t, os.WriteFile(path, []byte("component \"c\" {\n"), 0o600))

	var stdout, stderr bytes.Buffer
	err := run(&stdout, &stderr, []string{"check", path})

	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr))
	require.Equal(t, cli.ExitFailure, exitErr.Code)
	require.Contains(t, stderr.String(), "Error:")
}
