package ht

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ValentinKolb/alib/cmd/util"
	"github.com/ValentinKolb/alib/lib/hashtable"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var statsCmd = &cobra.Command{
	Use:   "stats [file]",
	Short: "Load key/value lines into a hash table and print its statistics",
	Long: `Reads one entry per line from the file (or stdin if no file or "-" is given).
The key ends at the first separator, the rest of the line is the value.
Lines without a separator are inserted with an empty value.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStats,
}

func init() {
	statsCmd.Flags().String("sep", "\t", util.WrapString("Separator between key and value"))
	statsCmd.Flags().Bool("json", false, util.WrapString("Print the statistics as JSON"))
	statsCmd.Flags().Bool("buckets", false, util.WrapString("Also print the number of entries of every bucket"))
	statsCmd.Flags().StringSlice("get", nil, util.WrapString("Keys to look up after loading (comma separated)"))
}

func runStats(cmd *cobra.Command, args []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	in, err := util.OpenInput(path)
	if err != nil {
		return err
	}
	defer in.Close()

	table, err := config.NewHashTable()
	if err != nil {
		return err
	}
	defer table.Release()

	if err := loadTable(table, in, viper.GetString("sep")); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, key := range viper.GetStringSlice("get") {
		printLookup(out, table, key)
	}

	info := table.Info()
	if viper.GetBool("json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Fprint(out, info.String())
	if viper.GetBool("buckets") {
		fmt.Fprintln(out, "\nBUCKETS")
		for id, size := range table.BucketSizes() {
			fmt.Fprintf(out, "  %-22d: %d\n", id, size)
		}
	}
	return nil
}

// loadTable inserts every line of in and logs whenever the table grows
func loadTable(table *hashtable.HashTable, in io.Reader, sep string) error {
	buckets := table.BucketCount()
	err := util.ReadPairs(in, sep, func(key, value []byte) error {
		if err := table.Insert(key, value); err != nil {
			return errors.Wrapf(err, "insert %q", key)
		}
		if table.BucketCount() != buckets {
			log.Debugf("grew from %d to %d buckets at %d entries", buckets, table.BucketCount(), table.Count())
			buckets = table.BucketCount()
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Infof("loaded %d entries into %d buckets", table.Count(), table.BucketCount())
	return nil
}

// printLookup prints every value stored for key
func printLookup(out io.Writer, table *hashtable.HashTable, key string) {
	matches := table.LookupAll([]byte(key))
	if len(matches) == 0 {
		fmt.Fprintf(out, "%s: not found\n", key)
		return
	}
	for _, kvIndex := range matches {
		fmt.Fprintf(out, "%s [%d]: %s\n", key, kvIndex, table.Value(kvIndex))
	}
}
