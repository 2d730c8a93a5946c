package ht

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ValentinKolb/alib/cmd/common"
	"github.com/ValentinKolb/alib/lib/array"
	"github.com/ValentinKolb/alib/lib/hashtable"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTest(t *testing.T) {
	t.Helper()
	config = &common.ContainerConfig{
		HashFunc:  "crc32",
		Capacity:  4,
		BlockSize: 32,
		LogLevel:  "error",
	}
	log = common.CreateLogger(common.LoggerHashTable)
	log.SetLevel(logger.ERROR)
}

func TestLoadTable(t *testing.T) {
	setupTest(t)

	table, err := config.NewHashTable()
	require.NoError(t, err)

	input := "alpha=1\nbeta=2\nalpha=3\ngamma\n"
	require.NoError(t, loadTable(table, strings.NewReader(input), "="))

	assert.Equal(t, 4, table.Count())
	assert.Equal(t, 4, table.BucketCount())

	var out bytes.Buffer
	printLookup(&out, table, "alpha")
	printLookup(&out, table, "gamma")
	printLookup(&out, table, "delta")
	assert.Equal(t, "alpha [0]: 1\nalpha [2]: 3\ngamma [3]: \ndelta: not found\n", out.String())
}

func TestShouldSkip(t *testing.T) {
	perfSkip = []string{"grow", " map-insert "}
	t.Cleanup(func() { perfSkip = nil })

	assert.True(t, shouldSkip("grow"))
	assert.True(t, shouldSkip("map-insert"))
	assert.False(t, shouldSkip("insert"))
}

func TestPrintResultSkipped(t *testing.T) {
	var out bytes.Buffer
	printResult(&out, "lookup", testing.BenchmarkResult{})
	assert.Equal(t, "lookup              skipped\n", out.String())
}

func TestLatencyProfile(t *testing.T) {
	setupTest(t)
	perfLatencyRuns = 100
	t.Cleanup(func() { perfLatencyRuns = 100000 })

	factory := func() (*hashtable.HashTable, error) { return config.NewHashTable() }
	set, err := latencyProfile(factory)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, writeMetrics(&out, set, "-"))
	text := out.String()
	assert.Contains(t, text, `alib_ht_op_duration_seconds_count{op="insert",hash="crc32"} 100`)
	assert.Contains(t, text, `alib_ht_op_duration_seconds_count{op="lookup",hash="crc32"} 100`)
	assert.Contains(t, text, `alib_ht_grow_total{hash="crc32"}`)

	path := filepath.Join(t.TempDir(), "metrics.prom")
	out.Reset()
	require.NoError(t, writeMetrics(&out, set, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "alib_ht_buckets")
}

func TestWriteResultsToCSV(t *testing.T) {
	setupTest(t)
	path := filepath.Join(t.TempDir(), "results.csv")

	results := map[string]testing.BenchmarkResult{
		"lookup": {N: 10, T: 1000},
		"grow":   {},
	}
	require.NoError(t, writeResultsToCSV(path, results, config))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Test", rows[0][0])
	assert.Equal(t, []string{"grow", "0"}, rows[1][:2])
	assert.Equal(t, "true", rows[1][5])
	assert.Equal(t, []string{"lookup", "100"}, rows[2][:2])
	assert.Equal(t, "false", rows[2][5])
	assert.Equal(t, "crc32", rows[2][6])
	assert.Equal(t, "32", rows[2][9])
	assert.Equal(t, "64", rows[2][10])
}

func TestCheckPerfConfig(t *testing.T) {
	setupTest(t)
	require.NoError(t, checkPerfConfig(config))

	disabled := *config
	disabled.BlockSize = 0
	assert.ErrorIs(t, checkPerfConfig(&disabled), array.ErrGrowthDisabled)
}

func TestTableUsesStorageConfig(t *testing.T) {
	setupTest(t)
	config.BlockSize = 8
	config.FrameSize = 4

	table, err := config.NewHashTable()
	require.NoError(t, err)
	defer table.Release()
	assert.Equal(t, 8, table.BlockSize())
	assert.Equal(t, 4, table.FrameSize())

	require.NoError(t, table.Insert([]byte("abcdefgh"), []byte("v")))
	info := table.Info()
	// 1 + 8/4 frames for the key
	assert.Equal(t, 3, info.KeyFrames)
	assert.Equal(t, 1, info.ValueFrames)
	assert.Contains(t, info.String(), "Frame Size")
}
