package hashing

import (
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/crc32"
	"github.com/pkg/errors"
)

// HashFunc maps a byte string to a 32 bit hash. It must be deterministic.
type HashFunc func(data []byte) uint32

// Names of the built-in hash functions
const (
	NameCRC32  = "crc32"
	NameFNV1a  = "fnv1a"
	NameXXHash = "xxhash"
)

var ErrUnknownHashFunc = errors.New("hashing: unknown hash function")

// --------------------------------------------------------------------------
// Hash Functions
// --------------------------------------------------------------------------

// CRC32 computes the CRC-32 checksum (IEEE polynomial, reflected, table-driven).
// This is the default hash function of the hash table.
func CRC32(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}

// FNV1a computes the 32 bit FNV-1a hash.
// It is fast for short keys and has a good distribution.
func FNV1a(data []byte) uint32 {
	const (
		offset32 = 2166136261
		prime32  = 16777619
	)

	hash := uint32(offset32)
	for _, c := range data {
		hash ^= uint32(c)
		hash *= prime32
	}
	return hash
}

// XXHash returns the lower 32 bits of the 64 bit xxHash.
func XXHash(data []byte) uint32 {
	return uint32(xxhash.Sum64(data))
}

// --------------------------------------------------------------------------
// Registry
// --------------------------------------------------------------------------

var registry = map[string]HashFunc{
	NameCRC32:  CRC32,
	NameFNV1a:  FNV1a,
	NameXXHash: XXHash,
}

// ByName returns the built-in hash function with the given (case-insensitive) name.
func ByName(name string) (HashFunc, error) {
	fn, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownHashFunc, "%q (must be one of %s)", name, strings.Join(Names(), ", "))
	}
	return fn, nil
}

// Names returns the sorted names of all built-in hash functions.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
