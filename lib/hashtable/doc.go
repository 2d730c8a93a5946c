// Package hashtable implements a separate chaining hash table for byte string
// keys and values on top of the array and vlarray packages.
//
// Keys and values are stored once, in insertion order, in two variable-length
// stores; buckets only hold indices into them. The table grows by doubling its
// bucket count once the load factor exceeds the configured maximum, reusing
// the cached hash of every entry.
//
// The table is a multi-map: duplicate keys are kept and Lookup returns the
// entry that was inserted first. LookupAll returns all of them.
//
// Example:
//
//	ht, err := hashtable.New(hashing.CRC32, 16, 0.75)
//	if err != nil {
//		return err
//	}
//	defer ht.Release()
//
//	if err := ht.Insert([]byte("alpha"), []byte("1")); err != nil {
//		return err
//	}
//	value, ok := ht.Get([]byte("alpha"))
//
// A HashTable is not safe for concurrent use.
package hashtable
