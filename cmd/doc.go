// Package cmd implements the command-line interface of aLib. It provides a
// hierarchical command structure to build the containers of the library from
// command line input and to inspect or benchmark them.
//
// The package is organized into several subpackages:
//
//   - ht: Commands for hash tables (stats, perf)
//   - vla: Commands for variable-length stores (join)
//   - heap: Commands for max-heaps (sort)
//   - common: Container configuration and logging shared by the commands
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// All flags can also be set with ALIB_ prefixed environment variables
// (e.g. ALIB_MAX_LOAD_FACTOR=0.9) or in a .env / .env.local file.
//
// See alib -help for a list of all commands.
package cmd
