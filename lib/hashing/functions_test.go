package hashing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCRC32(t *testing.T) {
	// standard check values
	assert.Equal(t, uint32(0xCBF43926), CRC32([]byte("123456789")))
	assert.Equal(t, uint32(0), CRC32(nil))
	assert.Equal(t, uint32(0xE8B7BE43), CRC32([]byte("a")))
}

func TestFNV1a(t *testing.T) {
	assert.Equal(t, uint32(0x811c9dc5), FNV1a(nil))
	assert.Equal(t, uint32(0xe40c292c), FNV1a([]byte("a")))
	assert.Equal(t, uint32(0xbf9cf968), FNV1a([]byte("foobar")))
}

func TestXXHash(t *testing.T) {
	// xxHash64 of the empty input is 0xef46db3751d8e999
	assert.Equal(t, uint32(0x51d8e999), XXHash(nil))
	assert.Equal(t, XXHash([]byte("key")), XXHash([]byte("key")))
	assert.NotEqual(t, XXHash([]byte("key1")), XXHash([]byte("key2")))
}

func TestByName(t *testing.T) {
	for _, name := range Names() {
		fn, err := ByName(name)
		require.NoError(t, err, name)
		require.NotNil(t, fn)
	}

	fn, err := ByName(" CRC32 ")
	require.NoError(t, err)
	assert.Equal(t, CRC32([]byte("x")), fn([]byte("x")))

	_, err = ByName("md5")
	require.ErrorIs(t, err, ErrUnknownHashFunc)

	assert.Equal(t, []string{NameCRC32, NameFNV1a, NameXXHash}, Names())
}
