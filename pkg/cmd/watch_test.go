package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatchCmd(t *testing.T) {
	req := require.New(t)
	dir := fixtureDir(t, "vue-imports.ts")

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	cmd := newRootCmd()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs([]string{"watch", dir, "--no-color", "--log-file", filepath.Join(t.TempDir(), "iord.log")})

	req.NoError(cmd.ExecuteContext(ctx), "watching ends cleanly when the context is done")
	req.Contains(out.String(), filepath.Join(dir, "vue-imports.ts")+":4:", "the initial check is reported")
	req.Contains(errOut.String(), "Watching "+dir+" for changes")
}

func TestWatchCmd_args(t *testing.T) {
	req := require.New(t)

	_, _, err := execute(t, "watch")
	req.Error(err, "at least one path is required")

	_, _, err = execute(t, "watch", filepath.Join(t.TempDir(), "missing"))
	req.Error(err)
}
