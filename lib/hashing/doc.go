// Package hashing provides the 32 bit hash functions used by the hash table.
//
// The package contains:
//   - CRC32: CRC-32 with the IEEE polynomial (the default)
//   - FNV1a: 32 bit FNV-1a
//   - XXHash: the lower half of xxHash64
//
// All functions are deterministic and safe for concurrent use. ByName resolves a
// function from its configuration name (crc32, fnv1a, xxhash).
package hashing
