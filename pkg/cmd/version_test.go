package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	req := require.New(t)

	stdout, _, err := execute(t, "version")
	req.NoError(err)
	req.True(strings.HasPrefix(stdout, "iord version "))
	req.Contains(stdout, "Go version: ")

	flagOut, _, err := execute(t, "--version")
	req.NoError(err)
	req.Equal(stdout, flagOut)
}
