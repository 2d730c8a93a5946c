package ht

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/alib/cmd/common"
	"github.com/ValentinKolb/alib/cmd/util"
	"github.com/ValentinKolb/alib/lib/array"
	"github.com/ValentinKolb/alib/lib/hashtable"
	tabletesting "github.com/ValentinKolb/alib/lib/testing"
	"github.com/ValentinKolb/alib/lib/vlarray"
	"github.com/VictoriaMetrics/metrics"
	"github.com/pkg/errors"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for the hash table",
		Long:    "Benchmarks the configured hash table and compares it to a Go map and a xsync.MapOf",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfKeyPrefix   = "__test"
	perfValueSize   = 16
	perfLargeValue  = 4096
	perfKeySpread   = 10000
	perfLatencyRuns = 100000
	perfSkip        = make([]string, 0)
)

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. grow,xsync-insert)"))
	key = "value-size"
	perfTestCmd.Flags().Int(key, 16, util.WrapString("Size of the values in bytes"))
	key = "large-value-size"
	perfTestCmd.Flags().Int(key, 4096, util.WrapString("Size of the values for the insert-large test (in bytes)"))
	key = "keys"
	perfTestCmd.Flags().Int(key, 10000, util.WrapString("How many different keys to use for the lookup tests"))
	key = "latency-ops"
	perfTestCmd.Flags().Int(key, 100000, util.WrapString("Number of operations whose latency is recorded (0 disables the latency profile)"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
	key = "prom"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to write the latency metrics in Prometheus text format ('-' for stdout)"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfValueSize = viper.GetInt("value-size")
	perfLargeValue = viper.GetInt("large-value-size")
	perfKeySpread = viper.GetInt("keys")
	perfLatencyRuns = viper.GetInt("latency-ops")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	if perfKeySpread <= 0 {
		return errors.Errorf("keys must be positive, got %d", perfKeySpread)
	}
	if perfValueSize < 0 || perfLargeValue < 0 {
		return errors.New("value sizes must not be negative")
	}
	return checkPerfConfig(config)
}

// checkPerfConfig rejects tables whose entry storage cannot grow, the
// benchmarks insert far more entries than the initial capacity
func checkPerfConfig(config *common.ContainerConfig) error {
	if config.BlockSize == array.GrowthDisabled {
		return errors.Wrap(array.ErrGrowthDisabled, "perf needs a positive block size")
	}
	return nil
}

func runPerf(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Performance testing tool for the hash table")

	// Print configuration
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Configuration:")
	fmt.Fprintln(out, config.String())
	fmt.Fprintf(out, "Keys: %d, Value Size: %d B\n", perfKeySpread, perfValueSize)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "starting tests...")

	factory := func() (*hashtable.HashTable, error) {
		return config.NewHashTable()
	}

	// benchmarks run in this order, results are keyed by name
	type benchmark struct {
		name string
		fn   func(b *testing.B)
	}
	benchmarks := []benchmark{
		{"insert", func(b *testing.B) { tabletesting.BenchmarkInsert(b, factory, perfValueSize) }},
		{"insert-large", func(b *testing.B) { tabletesting.BenchmarkInsert(b, factory, perfLargeValue) }},
		{"lookup", func(b *testing.B) { tabletesting.BenchmarkLookup(b, factory, perfKeySpread) }},
		{"lookup-missing", func(b *testing.B) { tabletesting.BenchmarkLookupMissing(b, factory, perfKeySpread) }},
		{"grow", func(b *testing.B) { tabletesting.BenchmarkGrow(b, factory, perfKeySpread) }},
		{"mixed", func(b *testing.B) { tabletesting.BenchmarkMixedUsage(b, factory, perfKeySpread) }},
		{"map-insert", benchmarkMapInsert},
		{"map-lookup", benchmarkMapLookup},
		{"xsync-insert", benchmarkXsyncInsert},
		{"xsync-lookup", benchmarkXsyncLookup},
	}

	results := make(map[string]testing.BenchmarkResult)
	for _, bm := range benchmarks {
		if shouldSkip(bm.name) {
			results[bm.name] = testing.BenchmarkResult{}
			printResult(out, bm.name, results[bm.name])
			continue
		}
		log.Debugf("running %s", bm.name)
		results[bm.name] = testing.Benchmark(bm.fn)
		printResult(out, bm.name, results[bm.name])
	}

	if perfLatencyRuns > 0 {
		set, err := latencyProfile(factory)
		if err != nil {
			return err
		}
		if err := writeMetrics(out, set, viper.GetString("prom")); err != nil {
			return err
		}
	}

	if csvPath := viper.GetString("csv"); csvPath != "" {
		if err := writeResultsToCSV(csvPath, results, config); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nresults written to %s\n", csvPath)
	}
	return nil
}

// --------------------------------------------------------------------------
// Baselines
// --------------------------------------------------------------------------

func benchmarkMapInsert(b *testing.B) {
	keys := tabletesting.BenchKeys(perfKeyPrefix, b.N)
	value := make([]byte, perfValueSize)
	m := make(map[string][]byte)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m[string(keys[i])] = slices.Clone(value)
	}
}

func benchmarkMapLookup(b *testing.B) {
	keys := tabletesting.BenchKeys(perfKeyPrefix, perfKeySpread)
	m := make(map[string][]byte, perfKeySpread)
	for _, key := range keys {
		m[string(key)] = key
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, ok := m[string(keys[i%perfKeySpread])]; !ok {
			b.Fatalf("key %s not found", keys[i%perfKeySpread])
		}
	}
}

func benchmarkXsyncInsert(b *testing.B) {
	keys := tabletesting.BenchKeys(perfKeyPrefix, b.N)
	value := make([]byte, perfValueSize)
	m := xsync.NewMapOf[string, []byte]()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Store(string(keys[i]), slices.Clone(value))
	}
}

func benchmarkXsyncLookup(b *testing.B) {
	keys := tabletesting.BenchKeys(perfKeyPrefix, perfKeySpread)
	m := xsync.NewMapOf[string, []byte](xsync.WithPresize(perfKeySpread))
	for _, key := range keys {
		m.Store(string(key), key)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, ok := m.Load(string(keys[i%perfKeySpread])); !ok {
			b.Fatalf("key %s not found", keys[i%perfKeySpread])
		}
	}
}

// --------------------------------------------------------------------------
// Latency profile
// --------------------------------------------------------------------------

// latencyProfile inserts and then looks up perfLatencyRuns keys, recording
// the latency of every operation and every growth of the table
func latencyProfile(factory tabletesting.TableFactory) (*metrics.Set, error) {
	table, err := factory()
	if err != nil {
		return nil, err
	}
	defer table.Release()

	set := metrics.NewSet()
	labels := fmt.Sprintf(`hash=%q`, config.HashFunc)
	insertHist := set.NewHistogram(fmt.Sprintf(`alib_ht_op_duration_seconds{op="insert",%s}`, labels))
	lookupHist := set.NewHistogram(fmt.Sprintf(`alib_ht_op_duration_seconds{op="lookup",%s}`, labels))
	growths := set.NewCounter(fmt.Sprintf(`alib_ht_grow_total{%s}`, labels))

	// the table is released before the metrics are written, keep its final shape
	var loadFactor, bucketCount float64
	set.NewGauge(fmt.Sprintf(`alib_ht_load_factor{%s}`, labels), func() float64 {
		return loadFactor
	})
	set.NewGauge(fmt.Sprintf(`alib_ht_buckets{%s}`, labels), func() float64 {
		return bucketCount
	})

	keys := tabletesting.BenchKeys(perfKeyPrefix+"-latency", perfLatencyRuns)
	value := make([]byte, perfValueSize)

	buckets := table.BucketCount()
	for _, key := range keys {
		start := time.Now()
		if err := table.Insert(key, value); err != nil {
			return nil, errors.Wrap(err, "latency profile")
		}
		insertHist.UpdateDuration(start)

		if table.BucketCount() != buckets {
			growths.Inc()
			buckets = table.BucketCount()
		}
	}

	for _, key := range keys {
		start := time.Now()
		table.Lookup(key)
		lookupHist.UpdateDuration(start)
	}

	loadFactor, bucketCount = table.LoadFactor(), float64(table.BucketCount())
	log.Infof("latency profile: %d entries, %d buckets, %d growths", table.Count(), table.BucketCount(), growths.Get())
	return set, nil
}

// writeMetrics writes set in Prometheus text format to path ('-' = out)
func writeMetrics(out io.Writer, set *metrics.Set, path string) error {
	switch path {
	case "":
		return nil
	case "-":
		fmt.Fprintln(out)
		set.WritePrometheus(out)
		return nil
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create metrics file")
	}
	defer file.Close()

	set.WritePrometheus(file)
	fmt.Fprintf(out, "\nmetrics written to %s\n", path)
	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// shouldSkip checks if a test should be skipped
func shouldSkip(test string) bool {
	for _, skip := range perfSkip {
		if strings.TrimSpace(skip) == test {
			return true
		}
	}
	return false
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(out io.Writer, test string, result testing.BenchmarkResult) {
	if result.NsPerOp() == 0 {
		fmt.Fprintf(out, "%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	fmt.Fprintf(out, "%-20s%.0fns/op (%s/op)\t%.0f ops/sec\t%d B/op\n",
		test, nsPerOp, time.Duration(nsPerOp), opsPerSec, result.AllocedBytesPerOp())
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]testing.BenchmarkResult, config *common.ContainerConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return errors.Wrap(err, "failed to create CSV file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "BytesPerOp", "Skipped",
		"HashFunc", "Capacity", "MaxLoadFactor", "BlockSize", "FrameSize",
		"ValueSize", "LargeValueSize", "Keys Count",
	}
	if err := writer.Write(header); err != nil {
		return errors.Wrap(err, "failed to write CSV header")
	}

	// sorted for a stable file
	tests := make([]string, 0, len(results))
	for test := range results {
		tests = append(tests, test)
	}
	slices.Sort(tests)

	for _, test := range tests {
		result := results[test]
		var nsPerOp float64
		var opsPerSec float64
		skipped := "true"

		if result.NsPerOp() != 0 {
			skipped = "false"
			nsPerOp = math.Max(float64(result.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
		}

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			strconv.FormatInt(result.AllocedBytesPerOp(), 10),
			skipped,
			config.HashFunc,
			strconv.Itoa(config.Capacity),
			strconv.FormatFloat(config.MaxLoadFactor, 'f', -1, 64),
			strconv.Itoa(config.BlockSize),
			strconv.Itoa(cmp.Or(config.FrameSize, vlarray.DefaultFrameSize)),
			strconv.Itoa(perfValueSize),
			strconv.Itoa(perfLargeValue),
			strconv.Itoa(perfKeySpread),
		}

		if err := writer.Write(row); err != nil {
			return errors.Wrapf(err, "failed to write row for test %s", test)
		}
	}

	return nil
}
