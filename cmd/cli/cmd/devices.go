package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gridpay/pkg/api"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List devices available to run jobs",
	Long:  `List every registered device that reported a heartbeat recently, including its advertised address and reported hardware resources.`,
	Run: func(cmd *cobra.Command, args []string) {
		url := viper.GetString("url")

		client := NewGridClient(url)
		devices, err := client.Devices()
		if err != nil {
			if apiErr, ok := err.(*APIError); ok {
				cmd.Printf("Request failed (%d): %s\n", apiErr.StatusCode, apiErr.Message)
			} else {
				cmd.Printf("Request failed: %v\n", err)
			}
			return
		}

		if len(devices) == 0 {
			cmd.Println("No devices registered.")
			return
		}

		cmd.Printf("%sDevices%s\n", colorBold, colorReset)
		cmd.Println("──────────────────────────────")
		for _, d := range devices {
			printDevice(cmd, d)
		}
	},
}

func printDevice(cmd *cobra.Command, d api.DeviceView) {
	cmd.Printf("%s✓%s %s\n", colorGreen, colorReset, d.UserID)
	cmd.Printf("  %sAddress:%s %s\n", colorDim, colorReset, d.URL)
	cmd.Printf("  %sCPU:%s     %d cores, load %.2f\n", colorDim, colorReset, d.CPUCores, d.CPULoad)
	cmd.Printf("  %sRAM:%s     %d/%d MiB used\n", colorDim, colorReset, d.RAMUsed, d.RAMTotal)
	cmd.Printf("  %sDisk:%s    %d MiB free\n", colorDim, colorReset, d.DiskFree)
}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

func init() {
	rootCmd.AddCommand(devicesCmd)
}
