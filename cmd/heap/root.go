package heap

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ValentinKolb/alib/cmd/common"
	"github.com/ValentinKolb/alib/cmd/util"
	"github.com/ValentinKolb/alib/lib/maxheap"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	config *common.ContainerConfig
	log    logger.ILogger

	// HeapCommands represents the max-heap command group
	HeapCommands = &cobra.Command{
		Use:               "heap",
		Short:             "Work with max-heaps",
		PersistentPreRunE: setupHeap,
	}

	sortCmd = &cobra.Command{
		Use:   "sort <number>...",
		Short: "Sort unsigned integers with a max-heap",
		Long: `Pushes every argument into a max-heap and pops them again, printing the
numbers from the largest to the smallest. Use --top to stop after the k
largest numbers and --asc to print them in ascending order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSort,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add common container flags to the heap command
	util.SetupContainerFlags(HeapCommands)

	sortCmd.Flags().Int("top", 0, util.WrapString("Only print the largest k numbers (0 = all)"))
	sortCmd.Flags().Bool("asc", false, util.WrapString("Print in ascending order"))

	// Add subcommands
	HeapCommands.AddCommand(sortCmd)
}

// setupHeap reads the configuration shared by all heap subcommands
func setupHeap(cmd *cobra.Command, _ []string) error {
	conf, err := util.SetupCommand(cmd)
	if err != nil {
		return err
	}
	config = conf
	log = logger.GetLogger(common.LoggerHeap)
	return nil
}

func runSort(cmd *cobra.Command, args []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	numbers := make([]uint64, len(args))
	for i, arg := range args {
		n, err := strconv.ParseUint(strings.TrimSpace(arg), 10, 64)
		if err != nil {
			return errors.Wrapf(err, "argument %d", i)
		}
		numbers[i] = n
	}

	sorted, err := heapSort(numbers, config.BlockSize, viper.GetInt("top"))
	if err != nil {
		return err
	}
	if viper.GetBool("asc") {
		for i, j := 0, len(sorted)-1; i < j; i, j = i+1, j-1 {
			sorted[i], sorted[j] = sorted[j], sorted[i]
		}
	}
	return printNumbers(cmd.OutOrStdout(), sorted)
}

// heapSort returns the top largest numbers in descending order (top <= 0 = all)
func heapSort(numbers []uint64, blockSize, top int) ([]uint64, error) {
	// one spare slot, a heap with growth disabled never fills its capacity
	h, err := maxheap.New(blockSize, len(numbers)+1, 8, maxheap.CompareUint64)
	if err != nil {
		return nil, err
	}
	defer h.Release()

	for _, n := range numbers {
		if err := h.Push(maxheap.Uint64(n)); err != nil {
			return nil, errors.Wrapf(err, "push %d", n)
		}
	}
	log.Debugf("heap holds %d numbers", h.Len())

	if top <= 0 || top > h.Len() {
		top = h.Len()
	}
	sorted := make([]uint64, 0, top)
	for len(sorted) < top {
		elem, err := h.Pop()
		if err != nil {
			return nil, err
		}
		sorted = append(sorted, maxheap.ToUint64(elem))
	}
	return sorted, nil
}

func printNumbers(out io.Writer, numbers []uint64) error {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = strconv.FormatUint(n, 10)
	}
	_, err := fmt.Fprintln(out, strings.Join(parts, " "))
	return err
}
