package common

import (
	"bytes"
	"testing"

	"github.com/ValentinKolb/alib/lib/hashing"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() ContainerConfig {
	return ContainerConfig{
		HashFunc:      hashing.NameCRC32,
		Capacity:      16,
		MaxLoadFactor: 0.75,
		BlockSize:     32,
		FrameSize:     0,
		LogLevel:      "info",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *ContainerConfig)
		valid  bool
	}{
		{"Valid", func(*ContainerConfig) {}, true},
		{"UnknownHash", func(c *ContainerConfig) { c.HashFunc = "sha1" }, false},
		{"NegativeCapacity", func(c *ContainerConfig) { c.Capacity = -1 }, false},
		{"NegativeLoadFactor", func(c *ContainerConfig) { c.MaxLoadFactor = -0.5 }, false},
		{"NegativeBlockSize", func(c *ContainerConfig) { c.BlockSize = -2 }, false},
		{"NegativeFrameSize", func(c *ContainerConfig) { c.FrameSize = -2 }, false},
		{"BadLogLevel", func(c *ContainerConfig) { c.LogLevel = "loud" }, false},
		{"GrowthDisabled", func(c *ContainerConfig) { c.BlockSize = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.modify(&c)
			if tt.valid {
				assert.NoError(t, c.Validate())
			} else {
				assert.Error(t, c.Validate())
			}
		})
	}
}

func TestNewContainers(t *testing.T) {
	c := validConfig()

	ht, err := c.NewHashTable()
	require.NoError(t, err)
	assert.Equal(t, 16, ht.BucketCount())
	assert.Equal(t, 0.75, ht.MaxLoadFactor())
	assert.Equal(t, 32, ht.BlockSize())
	assert.Equal(t, 64, ht.FrameSize())

	c.BlockSize = 0
	c.FrameSize = 8
	ht, err = c.NewHashTable()
	require.NoError(t, err)
	assert.Equal(t, 0, ht.BlockSize())
	assert.Equal(t, 8, ht.FrameSize())
	c = validConfig()

	store, err := c.NewStore()
	require.NoError(t, err)
	assert.Equal(t, 64, store.FrameSize())

	c.HashFunc = "nope"
	_, err = c.NewHashTable()
	assert.ErrorIs(t, err, hashing.ErrUnknownHashFunc)
}

func TestConfigString(t *testing.T) {
	c := validConfig()
	c.BlockSize = 0
	s := c.String()

	assert.Contains(t, s, "HASH TABLE")
	assert.Contains(t, s, "crc32")
	assert.Contains(t, s, "growth disabled")
	assert.Contains(t, s, "64 (default)")
}

func TestParseLogLevel(t *testing.T) {
	level, err := ParseLogLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, logger.WARNING, level)

	level, err = ParseLogLevel(" debug ")
	require.NoError(t, err)
	assert.Equal(t, logger.DEBUG, level)

	_, err = ParseLogLevel("verbose")
	assert.Error(t, err)
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	old := output
	output = &buf
	t.Cleanup(func() { output = old })

	l := CreateLogger("test")
	l.Infof("hidden")
	assert.Empty(t, buf.String())

	l.SetLevel(logger.DEBUG)
	l.Debugf("value=%d", 42)
	assert.Contains(t, buf.String(), "DEBUG | test   | value=42")
}
