package vla

import (
	"fmt"
	"slices"

	"github.com/ValentinKolb/alib/cmd/common"
	"github.com/ValentinKolb/alib/cmd/util"
	"github.com/ValentinKolb/alib/lib/vlarray"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	config *common.ContainerConfig
	log    logger.ILogger

	// StoreCommands represents the variable-length store command group
	StoreCommands = &cobra.Command{
		Use:               "vla",
		Short:             "Work with variable-length stores",
		PersistentPreRunE: setupStore,
	}

	joinCmd = &cobra.Command{
		Use:   "join <string>...",
		Short: "Store the arguments and print them concatenated",
		Long: `Pushes every argument as a NUL terminated element into a variable-length
store and prints the concatenation of all elements. With --dump the frame layout
of the store is printed as well.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runJoin,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add common container flags to the vla command
	util.SetupContainerFlags(StoreCommands)

	joinCmd.Flags().Bool("dump", false, util.WrapString("Print offsets, sizes and a hex dump of every element"))
	joinCmd.Flags().IntSlice("remove", nil, util.WrapString("Indices of elements to remove before printing (comma separated)"))

	// Add subcommands
	StoreCommands.AddCommand(joinCmd)
}

// setupStore reads the configuration shared by all vla subcommands
func setupStore(cmd *cobra.Command, _ []string) error {
	conf, err := util.SetupCommand(cmd)
	if err != nil {
		return err
	}
	config = conf
	log = logger.GetLogger(common.LoggerStore)
	return nil
}

func runJoin(cmd *cobra.Command, args []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	store, err := config.NewStore()
	if err != nil {
		return err
	}
	defer store.Release()

	if err := pushAll(store, args); err != nil {
		return err
	}
	if err := removeAll(store, viper.GetIntSlice("remove")); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, store.CString())

	if viper.GetBool("dump") {
		fmt.Fprintf(out, "\n%d elements, %d bytes in %d frames of %d bytes\n",
			store.Count(), store.TotalSize(), store.Frames(), store.FrameSize())
		return store.Dump(out)
	}
	return nil
}

// pushAll appends every string as a NUL terminated element
func pushAll(store *vlarray.Store, elems []string) error {
	for i, elem := range elems {
		if err := store.Push(append([]byte(elem), 0)); err != nil {
			return errors.Wrapf(err, "push argument %d", i)
		}
		log.Debugf("pushed %q at frame %d", elem, store.Offset(store.LastIndex()))
	}
	return nil
}

// removeAll removes the elements at indices, highest index first so the
// remaining indices stay valid
func removeAll(store *vlarray.Store, indices []int) error {
	sorted := slices.Compact(slices.Sorted(slices.Values(indices)))
	for i := len(sorted) - 1; i >= 0; i-- {
		removed, err := store.RemoveAt(sorted[i])
		if err != nil {
			return errors.Wrapf(err, "remove element %d", sorted[i])
		}
		log.Debugf("removed %q", removed)
	}
	return nil
}
