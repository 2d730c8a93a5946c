package testing

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/ValentinKolb/alib/lib/hashtable"
)

// RunHashTableBenchmarks runs all benchmarks for tables created by factory
func RunHashTableBenchmarks(b *testing.B, name string, factory TableFactory) {
	b.Run(name, func(b *testing.B) {
		b.Run("Insert", func(b *testing.B) {
			BenchmarkInsert(b, factory, 16)
		})

		b.Run("InsertLargeValue", func(b *testing.B) {
			BenchmarkInsert(b, factory, 4096)
		})

		b.Run("Lookup", func(b *testing.B) {
			BenchmarkLookup(b, factory, 10000)
		})

		b.Run("Lookup(not)", func(b *testing.B) {
			BenchmarkLookupMissing(b, factory, 10000)
		})

		b.Run("Grow", func(b *testing.B) {
			BenchmarkGrow(b, factory, 10000)
		})

		b.Run("MixedUsage", func(b *testing.B) {
			BenchmarkMixedUsage(b, factory, 10000)
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// BenchKeys returns n distinct keys with the given prefix
func BenchKeys(prefix string, n int) [][]byte {
	keys := make([][]byte, n)
	for i := range keys {
		keys[i] = []byte(fmt.Sprintf("%s-%d", prefix, i))
	}
	return keys
}

// prefill creates a table holding all keys
func prefill(b *testing.B, factory TableFactory, keys [][]byte) *hashtable.HashTable {
	table := newTable(b, factory)
	for _, key := range keys {
		mustInsert(b, table, key, key)
	}
	return table
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

// BenchmarkInsert measures Insert of b.N distinct keys with values of valueSize bytes.
func BenchmarkInsert(b *testing.B, factory TableFactory, valueSize int) {
	keys := BenchKeys("insert", b.N)
	value := make([]byte, valueSize)
	table := newTable(b, factory)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := table.Insert(keys[i], value); err != nil {
			b.Fatalf("Insert failed: %v", err)
		}
	}
}

// BenchmarkLookup measures Lookup of existing keys in a table of numKeys entries.
func BenchmarkLookup(b *testing.B, factory TableFactory, numKeys int) {
	keys := BenchKeys("lookup", numKeys)
	table := prefill(b, factory, keys)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, found := table.Lookup(keys[i%numKeys]); !found {
			b.Fatalf("Key %s not found", keys[i%numKeys])
		}
	}
}

// BenchmarkLookupMissing measures Lookup of absent keys in a table of numKeys entries.
func BenchmarkLookupMissing(b *testing.B, factory TableFactory, numKeys int) {
	table := prefill(b, factory, BenchKeys("present", numKeys))
	missing := BenchKeys("missing", numKeys)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		table.Lookup(missing[i%numKeys])
	}
}

// BenchmarkGrow measures doubling a table of numKeys entries.
func BenchmarkGrow(b *testing.B, factory TableFactory, numKeys int) {
	table := prefill(b, factory, BenchKeys("grow", numKeys))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// the bucket count doubles each round, start over before it gets out of hand
		if table.BucketCount() > 1<<20 {
			b.StopTimer()
			table = prefill(b, factory, BenchKeys("grow", numKeys))
			b.StartTimer()
		}
		if err := table.Grow(table.BucketCount()); err != nil {
			b.Fatalf("Grow failed: %v", err)
		}
	}
}

// BenchmarkMixedUsage runs 80% lookups and 20% inserts against a table that
// starts with numKeys entries.
func BenchmarkMixedUsage(b *testing.B, factory TableFactory, numKeys int) {
	keys := BenchKeys("mixed", numKeys)
	table := prefill(b, factory, keys)
	fresh := BenchKeys("mixed-new", b.N)
	rng := rand.New(rand.NewSource(42))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if rng.Intn(100) < 80 {
			table.Lookup(keys[rng.Intn(numKeys)])
			continue
		}
		if err := table.Insert(fresh[i], keys[i%numKeys]); err != nil {
			b.Fatalf("Insert failed: %v", err)
		}
	}
}
