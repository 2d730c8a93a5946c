package util

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapString(t *testing.T) {
	text := strings.Repeat("word ", 30)
	for _, line := range strings.Split(WrapString(text), "\n") {
		assert.LessOrEqual(t, len(line), Wrap)
	}
	assert.Equal(t, "short text", WrapString("  short   text "))
	assert.Equal(t, "", WrapString(""))
}

func TestReadPairs(t *testing.T) {
	input := "a\t1\n\nb\t2\tx\nc\n"

	var keys, values []string
	err := ReadPairs(strings.NewReader(input), "\t", func(key, value []byte) error {
		keys = append(keys, string(key))
		values = append(values, string(value))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, keys)
	assert.Equal(t, []string{"1", "2\tx", ""}, values)
}

func TestReadPairsError(t *testing.T) {
	boom := errors.New("boom")
	err := ReadPairs(strings.NewReader("a\nb\n"), "=", func(key, _ []byte) error {
		if string(key) == "b" {
			return boom
		}
		return nil
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.Contains(t, err.Error(), "line 2")
}

func TestGetContainerConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Set("hash", "fnv1a")
	viper.Set("capacity", 8)
	viper.Set("max-load-factor", 1.5)
	viper.Set("block-size", 4)
	viper.Set("log-level", "debug")

	conf, err := GetContainerConfig()
	require.NoError(t, err)
	assert.Equal(t, "fnv1a", conf.HashFunc)
	assert.Equal(t, 8, conf.Capacity)
	assert.Equal(t, 1.5, conf.MaxLoadFactor)
	assert.Equal(t, 4, conf.BlockSize)

	viper.Set("hash", "md5")
	_, err = GetContainerConfig()
	assert.Error(t, err)
}

func TestInitConfigReadsEnvironment(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("ALIB_MAX_LOAD_FACTOR", "2.5")

	InitConfig()
	assert.Equal(t, 2.5, viper.GetFloat64("max-load-factor"))
}
