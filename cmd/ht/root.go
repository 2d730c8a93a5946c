package ht

import (
	"github.com/ValentinKolb/alib/cmd/common"
	"github.com/ValentinKolb/alib/cmd/util"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
)

var (
	config *common.ContainerConfig
	log    logger.ILogger

	// HashTableCommands represents the hash table command group
	HashTableCommands = &cobra.Command{
		Use:               "ht",
		Short:             "Build and inspect hash tables",
		PersistentPreRunE: setupHashTable,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add common container flags to the ht command
	util.SetupContainerFlags(HashTableCommands)

	// Add subcommands
	HashTableCommands.AddCommand(statsCmd)
	HashTableCommands.AddCommand(perfTestCmd)
}

// setupHashTable reads the configuration shared by all ht subcommands
func setupHashTable(cmd *cobra.Command, _ []string) error {
	conf, err := util.SetupCommand(cmd)
	if err != nil {
		return err
	}
	config = conf
	log = logger.GetLogger(common.LoggerHashTable)
	log.Debugf("configuration: %+v", *config)
	return nil
}
