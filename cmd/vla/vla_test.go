package vla

import (
	"bytes"
	"testing"

	"github.com/ValentinKolb/alib/cmd/common"
	"github.com/ValentinKolb/alib/lib/array"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTest(t *testing.T) *common.ContainerConfig {
	t.Helper()
	log = common.CreateLogger(common.LoggerStore)
	return &common.ContainerConfig{HashFunc: "crc32", BlockSize: 4, FrameSize: 4, LogLevel: "warn"}
}

func TestPushAll(t *testing.T) {
	store, err := setupTest(t).NewStore()
	require.NoError(t, err)

	require.NoError(t, pushAll(store, []string{"foo", "", "barbaz"}))
	assert.Equal(t, 3, store.Count())
	assert.Equal(t, "foobarbaz", store.CString())

	// "foo\0" needs 2 frames of 4 bytes, "\0" 1 and "barbaz\0" 2
	assert.Equal(t, 5, store.Frames())
	assert.Equal(t, []byte("barbaz\x00"), store.At(2))
}

func TestRemoveAll(t *testing.T) {
	store, err := setupTest(t).NewStore()
	require.NoError(t, err)
	require.NoError(t, pushAll(store, []string{"a", "b", "c", "d", "e"}))

	require.NoError(t, removeAll(store, []int{3, 0, 3}))
	assert.Equal(t, "bce", store.CString())

	err = removeAll(store, []int{7})
	assert.ErrorIs(t, err, array.ErrIndexOutOfRange)
}

func TestDumpOutput(t *testing.T) {
	store, err := setupTest(t).NewStore()
	require.NoError(t, err)
	require.NoError(t, pushAll(store, []string{"hi"}))

	var out bytes.Buffer
	require.NoError(t, store.Dump(&out))
	assert.Contains(t, out.String(), "[0] offset=0 size=3")
}
