package version

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	req := require.New(t)
	info := Get()
	req.NotEmpty(info.Version)
	req.Equal(runtime.Version(), info.GoVersion)
	req.Equal(runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}

func TestGet_ldflagsWin(t *testing.T) {
	req := require.New(t)
	saved := Version
	t.Cleanup(func() { Version = saved })

	Version = "v1.2.3"
	req.Equal("v1.2.3", Get().Version)
}

func TestInfo_String(t *testing.T) {
	req := require.New(t)
	out := Info{Version: "v1.2.3", GitCommit: "abc123", GoVersion: "go1.24.0"}.String()
	req.True(strings.HasPrefix(out, "iord version v1.2.3\n"))
	req.Contains(out, "Git commit: abc123")
	req.Contains(out, "Go version: go1.24.0")
}
