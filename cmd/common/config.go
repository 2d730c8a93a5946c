package common

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ValentinKolb/alib/lib/array"
	"github.com/ValentinKolb/alib/lib/hashing"
	"github.com/ValentinKolb/alib/lib/hashtable"
	"github.com/ValentinKolb/alib/lib/vlarray"
	"github.com/pkg/errors"
)

// --------------------------------------------------------------------------
// Container configuration struct
// --------------------------------------------------------------------------

// ContainerConfig holds the parameters used to build the containers of the CLI
type ContainerConfig struct {
	// hash table parameters
	HashFunc      string
	Capacity      int
	MaxLoadFactor float64

	// buffer and store parameters
	BlockSize int
	FrameSize int

	// Logging configuration
	LogLevel string
}

// Validate checks the configuration for values the containers cannot work with
func (c *ContainerConfig) Validate() error {
	if _, err := hashing.ByName(c.HashFunc); err != nil {
		return err
	}
	if c.Capacity < 0 {
		return errors.Errorf("capacity must not be negative, got %d", c.Capacity)
	}
	if c.MaxLoadFactor < 0 {
		return errors.Errorf("max load factor must not be negative, got %f", c.MaxLoadFactor)
	}
	if c.BlockSize < 0 {
		return errors.Errorf("block size must not be negative, got %d", c.BlockSize)
	}
	if c.FrameSize < 0 {
		return errors.Errorf("frame size must not be negative, got %d", c.FrameSize)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// NewHashTable creates an empty hash table from the configuration
func (c *ContainerConfig) NewHashTable() (*hashtable.HashTable, error) {
	hashFunc, err := hashing.ByName(c.HashFunc)
	if err != nil {
		return nil, err
	}
	return hashtable.NewWithStorage(hashFunc, c.Capacity, c.MaxLoadFactor, c.BlockSize, c.FrameSize)
}

// NewStore creates an empty variable-length store from the configuration
func (c *ContainerConfig) NewStore() (*vlarray.Store, error) {
	return vlarray.New(c.BlockSize, vlarray.DefaultCapacity, c.FrameSize)
}

// String returns a formatted string representation of the configuration
func (c *ContainerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	orDefault := func(value, fallback int) string {
		if value <= 0 {
			return fmt.Sprintf("%d (default)", fallback)
		}
		return strconv.Itoa(value)
	}

	// Hash table settings
	addSection("Hash Table")
	addField("Hash Function", c.HashFunc)
	addField("Initial Buckets", orDefault(c.Capacity, hashtable.DefaultCapacity))
	if c.MaxLoadFactor <= 0 {
		addField("Max Load Factor", fmt.Sprintf("%.2f (default)", hashtable.DefaultMaxLoadFactor))
	} else {
		addField("Max Load Factor", fmt.Sprintf("%.2f", c.MaxLoadFactor))
	}

	// Storage settings
	addSection("Storage")
	if c.BlockSize == array.GrowthDisabled {
		addField("Block Size", "growth disabled")
	} else {
		addField("Block Size", strconv.Itoa(c.BlockSize))
	}
	addField("Frame Size", orDefault(c.FrameSize, vlarray.DefaultFrameSize))

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}
