package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(args)
	require.NoError(t, RootCmd.Execute())
	return out.String()
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "aLib v"+Version+"\n", run(t, "version"))
}

func TestHeapSortCommand(t *testing.T) {
	assert.Equal(t, "1 3 7 10\n", run(t, "heap", "sort", "--asc", "7", "3", "10", "1"))
}

func TestVlaJoinCommand(t *testing.T) {
	out := run(t, "vla", "join", "--frame-size", "2", "ab", "c", "def")
	assert.Equal(t, "abcdef\n", out)
}

func TestInvalidHashFunc(t *testing.T) {
	RootCmd.SetArgs([]string{"heap", "sort", "--hash", "md5", "1"})
	RootCmd.SetOut(&bytes.Buffer{})
	RootCmd.SetErr(&bytes.Buffer{})
	assert.Error(t, RootCmd.Execute())
}
