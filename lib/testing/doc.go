// Package testing provides standardised tests and benchmarks for hash tables
// built with the hashtable package.
//
// The package contains:
//   - testing: A conformance suite covering insertion, lookup, growth, duplicate keys and edge cases
//   - benchmark: Performance tests for insert, lookup, growth and mixed workloads
//
// The suite takes a factory so the same checks run for every hash function and
// table configuration. The exported benchmark functions are also used by the
// perf command of the CLI.
//
// Example usage:
//
//	// Creating a factory function for a configuration
//	factory := func() (*hashtable.HashTable, error) {
//		return hashtable.New(hashing.FNV1a, 16, 0.75)
//	}
//
//	// Running the standard test suite
//	testing.RunHashTableTests(t, "FNV1a", factory)
//
//	// Running performance benchmarks
//	testing.RunHashTableBenchmarks(b, "FNV1a", factory)
package testing
