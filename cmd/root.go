package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/alib/cmd/heap"
	"github.com/ValentinKolb/alib/cmd/ht"
	"github.com/ValentinKolb/alib/cmd/util"
	"github.com/ValentinKolb/alib/cmd/vla"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "alib",
		Short: "growable arrays, variable-length stores and hash tables",
		Long: fmt.Sprintf(`aLib (v%s)

A small container library written in Go: growable byte buffers,
variable-length element stores, a chained hash table and a max-heap.
The commands load data into these containers and report on them.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of aLib",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "aLib v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(ht.HashTableCommands)
	RootCmd.AddCommand(vla.StoreCommands)
	RootCmd.AddCommand(heap.HeapCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "log-level"
	RootCmd.PersistentFlags().String(key, "warn", util.WrapString("log level (debug, info, warn, error)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
