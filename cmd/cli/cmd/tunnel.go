package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var tunnelCmd = &cobra.Command{
	Use:   "tunnel [user_id]",
	Short: "Provision tunnel credentials for a device",
	Long:  `Request fresh tunnel credentials from the controller so a device behind NAT can expose its advertised address.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		userID := args[0]

		url := viper.GetString("url")

		client := NewGridClient(url)
		creds, err := client.TunnelAccess(userID)
		if err != nil {
			if apiErr, ok := err.(*APIError); ok {
				cmd.Printf("Request failed (%d): %s\n", apiErr.StatusCode, apiErr.Message)
			} else {
				cmd.Printf("Request failed: %v\n", err)
			}
			return
		}

		cmd.Printf("✓ Credentials issued\n")
		cmd.Printf("%sID:%s     %s\n", colorDim, colorReset, creds.ID)
		cmd.Printf("%sToken:%s  %s\n", colorDim, colorReset, creds.Token)
	},
}

func init() {
	rootCmd.AddCommand(tunnelCmd)
}
