package testing

import (
	"bytes"
	"fmt"
	"math"
	"testing"

	"github.com/ValentinKolb/alib/lib/hashtable"
)

// TableFactory creates a new, empty hash table for a single test
type TableFactory func() (*hashtable.HashTable, error)

// RunHashTableTests runs the conformance test suite against tables created by factory.
func RunHashTableTests(t *testing.T, name string, factory TableFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Insert&Get", func(t *testing.T) {
			testInsertGet(t, newTable(t, factory))
		})

		t.Run("Alphabet", func(t *testing.T) {
			testAlphabet(t, newTable(t, factory))
		})

		t.Run("NegativeLookup", func(t *testing.T) {
			testNegativeLookup(t, newTable(t, factory))
		})

		t.Run("LoadFactor", func(t *testing.T) {
			testLoadFactor(t, newTable(t, factory))
		})

		t.Run("DuplicateKeys", func(t *testing.T) {
			testDuplicateKeys(t, newTable(t, factory))
		})

		t.Run("Grow", func(t *testing.T) {
			testGrow(t, newTable(t, factory))
		})

		t.Run("EdgeCases", func(t *testing.T) {
			testEdgeCases(t, newTable(t, factory))
		})

		t.Run("Each", func(t *testing.T) {
			testEach(t, newTable(t, factory))
		})

		t.Run("RealisticUsage", func(t *testing.T) {
			testRealisticUsage(t, newTable(t, factory))
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// newTable calls factory and fails the test on error. The table is released
// when the test ends.
func newTable(t testing.TB, factory TableFactory) *hashtable.HashTable {
	t.Helper()
	table, err := factory()
	if err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	t.Cleanup(table.Release)
	return table
}

func mustInsert(t testing.TB, table *hashtable.HashTable, key, value []byte) {
	t.Helper()
	if err := table.Insert(key, value); err != nil {
		t.Fatalf("Insert(%q) failed: %v", key, err)
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testInsertGet(t *testing.T, table *hashtable.HashTable) {
	testKey := []byte("test-key")
	testValue := []byte("test-value")

	mustInsert(t, table, testKey, testValue)

	result, exists := table.Get(testKey)
	if !exists {
		t.Errorf("Expected key %s to exist after Insert", testKey)
	}
	if !bytes.Equal(result, testValue) {
		t.Errorf("Expected value %s, got %s", testValue, result)
	}

	if _, exists = table.Get([]byte("nonexistent-key")); exists {
		t.Errorf("Expected nonexistent key to return exists=false")
	}

	// the table keeps its own copy of the inserted bytes
	testValue[0] = 'X'
	result, _ = table.Get(testKey)
	if result[0] != 't' {
		t.Errorf("Table value changed after modifying the inserted slice")
	}

	if table.Count() != 1 {
		t.Errorf("Expected count 1, got %d", table.Count())
	}
	if !table.Has(testKey) {
		t.Errorf("Expected Has(%s) to be true", testKey)
	}
}

func testAlphabet(t *testing.T, table *hashtable.HashTable) {
	initialBuckets := table.BucketCount()

	for c := byte('a'); c <= 'z'; c++ {
		key := []byte{c, 0}
		value := []byte{c - 'a' + 'A', 0}
		mustInsert(t, table, key, value)
	}

	if table.Count() != 26 {
		t.Fatalf("Expected 26 entries, got %d", table.Count())
	}
	if 26.0/float64(initialBuckets) > table.MaxLoadFactor() && table.BucketCount() == initialBuckets {
		t.Errorf("Expected table to grow beyond %d buckets", initialBuckets)
	}

	for c := byte('a'); c <= 'z'; c++ {
		key := []byte{c, 0}
		kvIndex, found := table.Lookup(key)
		if !found {
			t.Errorf("Key %q not found", key)
			continue
		}
		if kvIndex != int(c-'a') {
			t.Errorf("Key %q: expected kvIndex %d, got %d", key, c-'a', kvIndex)
		}
		if !bytes.Equal(table.Key(kvIndex), key) {
			t.Errorf("Key(%d) = %q, expected %q", kvIndex, table.Key(kvIndex), key)
		}
		if !bytes.Equal(table.Value(kvIndex), []byte{c - 'a' + 'A', 0}) {
			t.Errorf("Value(%d) = %q", kvIndex, table.Value(kvIndex))
		}
	}
}

func testNegativeLookup(t *testing.T, table *hashtable.HashTable) {
	for i := 1; i <= 1000; i++ {
		mustInsert(t, table, []byte(fmt.Sprintf("%d", i)), []byte(fmt.Sprintf("value-%d", i)))
	}

	for _, key := range []string{"0", "1001", "-1", "", "abc", "10000"} {
		if kvIndex, found := table.Lookup([]byte(key)); found {
			t.Errorf("Lookup(%q) unexpectedly found kvIndex %d", key, kvIndex)
		}
	}

	for i := 1; i <= 1000; i += 37 {
		value, found := table.Get([]byte(fmt.Sprintf("%d", i)))
		if !found || string(value) != fmt.Sprintf("value-%d", i) {
			t.Errorf("Get(%d) = %q, %v", i, value, found)
		}
	}
}

func testLoadFactor(t *testing.T, table *hashtable.HashTable) {
	if table.LoadFactor() != 0 {
		t.Errorf("Expected load factor 0 for an empty table, got %f", table.LoadFactor())
	}

	for i := 0; i < 500; i++ {
		mustInsert(t, table, []byte(fmt.Sprintf("lf-%d", i)), nil)

		expected := float64(table.Count()) / float64(table.BucketCount())
		if math.Abs(table.LoadFactor()-expected) > 1e-9 {
			t.Fatalf("After %d inserts: load factor %f, expected %f", i+1, table.LoadFactor(), expected)
		}
	}

	// the check uses the load factor before each insert, so one insert may overshoot
	limit := table.MaxLoadFactor() + 1/float64(table.BucketCount())
	if table.LoadFactor() > limit {
		t.Errorf("Load factor %f exceeds %f", table.LoadFactor(), limit)
	}
}

func testDuplicateKeys(t *testing.T, table *hashtable.HashTable) {
	key := []byte("dup")
	mustInsert(t, table, key, []byte("first"))
	mustInsert(t, table, []byte("other"), []byte("x"))
	mustInsert(t, table, key, []byte("second"))

	if table.Count() != 3 {
		t.Errorf("Expected 3 entries, got %d", table.Count())
	}

	value, _ := table.Get(key)
	if string(value) != "first" {
		t.Errorf("Expected the first inserted value, got %s", value)
	}

	all := table.LookupAll(key)
	if len(all) != 2 || all[0] != 0 || all[1] != 2 {
		t.Errorf("Expected LookupAll to return [0 2], got %v", all)
	}
}

func testGrow(t *testing.T, table *hashtable.HashTable) {
	for i := 0; i < 100; i++ {
		mustInsert(t, table, []byte(fmt.Sprintf("grow-%d", i)), []byte(fmt.Sprintf("%d", i)))
	}

	buckets := table.BucketCount()
	if err := table.Grow(buckets); err != nil {
		t.Fatalf("Grow failed: %v", err)
	}
	if table.BucketCount() != 2*buckets {
		t.Errorf("Expected %d buckets, got %d", 2*buckets, table.BucketCount())
	}

	total := 0
	nonEmpty := 0
	for _, size := range table.BucketSizes() {
		total += size
		if size > 0 {
			nonEmpty++
		}
	}
	if total != 100 {
		t.Errorf("Expected 100 entries across all buckets, got %d", total)
	}
	if nonEmpty != table.NonEmptyBuckets() {
		t.Errorf("NonEmptyBuckets %d, counted %d", table.NonEmptyBuckets(), nonEmpty)
	}

	for i := 0; i < 100; i++ {
		value, found := table.Get([]byte(fmt.Sprintf("grow-%d", i)))
		if !found || string(value) != fmt.Sprintf("%d", i) {
			t.Errorf("Entry %d lost after Grow", i)
		}
	}
}

func testEdgeCases(t *testing.T, table *hashtable.HashTable) {
	emptyKeyValue := []byte("value for empty key")
	mustInsert(t, table, []byte{}, emptyKeyValue)

	result, exists := table.Get(nil)
	if !exists {
		t.Errorf("Empty key not found after Insert")
	} else if !bytes.Equal(result, emptyKeyValue) {
		t.Errorf("Value mismatch for empty key")
	}

	mustInsert(t, table, []byte("nil-value-key"), nil)
	result, exists = table.Get([]byte("nil-value-key"))
	if !exists {
		t.Errorf("Key for nil value not found after Insert")
	} else if len(result) != 0 {
		t.Errorf("Nil value resulted in non-empty value: %v", result)
	}

	if t.Failed() {
		return
	}

	largeKey := make([]byte, 1000)
	largeKeyValue := []byte("value for large key")
	mustInsert(t, table, largeKey, largeKeyValue)

	result, exists = table.Get(largeKey)
	if !exists {
		t.Errorf("Large key not found after Insert")
	} else if !bytes.Equal(result, largeKeyValue) {
		t.Errorf("Value mismatch for large key")
	}

	// same length and prefix, different last byte
	similarKey := make([]byte, 1000)
	similarKey[999] = 1
	if table.Has(similarKey) {
		t.Errorf("Key differing in the last byte was found")
	}

	largeValue := make([]byte, 1024*1024)
	for i := range largeValue {
		largeValue[i] = byte(i % 256)
	}
	mustInsert(t, table, []byte("large-value-key"), largeValue)

	result, exists = table.Get([]byte("large-value-key"))
	if !exists {
		t.Errorf("Key for large value not found after Insert")
	} else if !bytes.Equal(result, largeValue) {
		t.Errorf("Large value mismatch (got %d bytes)", len(result))
	}
}

func testEach(t *testing.T, table *hashtable.HashTable) {
	for i := 0; i < 10; i++ {
		mustInsert(t, table, []byte(fmt.Sprintf("each-%d", i)), []byte{byte(i)})
	}

	visited := 0
	table.Each(func(kvIndex int, key, value []byte) bool {
		if string(key) != fmt.Sprintf("each-%d", kvIndex) || value[0] != byte(kvIndex) {
			t.Errorf("Unexpected entry %d: %q -> %v", kvIndex, key, value)
		}
		visited++
		return true
	})
	if visited != 10 {
		t.Errorf("Expected to visit 10 entries, visited %d", visited)
	}

	visited = 0
	table.Each(func(int, []byte, []byte) bool {
		visited++
		return visited < 3
	})
	if visited != 3 {
		t.Errorf("Expected Each to stop after 3 entries, visited %d", visited)
	}
}

func testRealisticUsage(t *testing.T, table *hashtable.HashTable) {
	// a word index: word -> id, ids are dense and follow insertion order
	words := []string{
		"apple", "banana", "cherry", "date", "elderberry", "fig", "grape",
		"honeydew", "kiwi", "lemon", "mango", "nectarine", "orange", "papaya",
	}

	ids := make(map[string]int)
	for round := 0; round < 20; round++ {
		for _, word := range words {
			key := []byte(fmt.Sprintf("%s-%d", word, round))
			if table.Has(key) {
				t.Fatalf("Key %s present before insert", key)
			}
			ids[string(key)] = table.Count()
			mustInsert(t, table, key, []byte(fmt.Sprintf("%d", table.Count())))
		}
	}

	for key, id := range ids {
		kvIndex, found := table.Lookup([]byte(key))
		if !found {
			t.Errorf("Key %s not found", key)
			continue
		}
		if kvIndex != id {
			t.Errorf("Key %s: expected kvIndex %d, got %d", key, id, kvIndex)
		}
		if string(table.Value(kvIndex)) != fmt.Sprintf("%d", id) {
			t.Errorf("Key %s: unexpected value %s", key, table.Value(kvIndex))
		}
	}

	info := table.Info()
	if info.Count != len(ids) {
		t.Errorf("Info reports %d entries, expected %d", info.Count, len(ids))
	}
	if info.NonEmptyBuckets != table.NonEmptyBuckets() || info.Chains.Max < 1 {
		t.Errorf("Unexpected chain statistics: %+v", info.Chains)
	}
}
