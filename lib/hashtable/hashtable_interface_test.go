package hashtable_test

import (
	"testing"

	"github.com/ValentinKolb/alib/lib/hashing"
	"github.com/ValentinKolb/alib/lib/hashtable"
	tabletesting "github.com/ValentinKolb/alib/lib/testing"
)

func factoryFor(hashFunc hashing.HashFunc, capacity int) tabletesting.TableFactory {
	return func() (*hashtable.HashTable, error) {
		return hashtable.New(hashFunc, capacity, hashtable.DefaultMaxLoadFactor)
	}
}

func Test(t *testing.T) {
	for _, name := range hashing.Names() {
		hashFunc, err := hashing.ByName(name)
		if err != nil {
			t.Fatal(err)
		}
		tabletesting.RunHashTableTests(t, name, factoryFor(hashFunc, 10))
		tabletesting.RunHashTableTests(t, name+"/default-capacity", factoryFor(hashFunc, 0))
	}
}

func Benchmark(b *testing.B) {
	for _, name := range hashing.Names() {
		hashFunc, err := hashing.ByName(name)
		if err != nil {
			b.Fatal(err)
		}
		tabletesting.RunHashTableBenchmarks(b, name, factoryFor(hashFunc, 0))
	}
}
