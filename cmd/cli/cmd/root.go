package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "gridctl",
	Short: "Gridctl is a command line tool for interacting with the gridpay platform",
	Long: `gridctl is the command-line interface for the gridpay compute-sharing backend.

gridpay lets users offer their machines as compute devices and pay each
other for remote code execution. Devices register via heartbeat and poll
for work; every submitted job writes an immutable ledger entry and moves
cents between the requester's and the device owner's budgets.

Common workflows:

  List devices ready for work:
    gridctl devices

  Submit a script to a device:
    gridctl submit --requester alice --device bob --file train.py --cost 0.42

  Check your submitted jobs:
    gridctl jobs alice

  Check a user's balance:
    gridctl budget alice

Configuration:
  Set the API endpoint via environment variables or a config file:
    GRIDPAY_URL    Controller endpoint (default: http://localhost:8090)`,
}

func Execute() error {
	return rootCmd.Execute()
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".gridctl"
		viper.AddConfigPath(home)
		viper.SetConfigName(".gridctl")
		viper.SetConfigType("yaml")
	}

	// Read environment variables that match "GRIDPAY_VARNAME"
	viper.SetEnvPrefix("GRIDPAY")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.gridctl.yaml)")

	rootCmd.PersistentFlags().String("url", "http://localhost:8090", "gridpay controller URL")
	viper.BindPFlag("url", rootCmd.PersistentFlags().Lookup("url"))
}
