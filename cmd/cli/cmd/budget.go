package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var budgetCmd = &cobra.Command{
	Use:   "budget [user_id]",
	Short: "Show a user's spend/earn totals",
	Long:  `Show the aggregate amount a user has spent on submitted jobs and earned from running jobs for others, in cents.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		userID := args[0]

		url := viper.GetString("url")

		client := NewGridClient(url)
		budget, err := client.Budget(userID)
		if err != nil {
			if apiErr, ok := err.(*APIError); ok {
				cmd.Printf("Request failed (%d): %s\n", apiErr.StatusCode, apiErr.Message)
			} else {
				cmd.Printf("Request failed: %v\n", err)
			}
			return
		}

		cmd.Printf("%sBudget for %s%s\n", colorBold, userID, colorReset)
		cmd.Println("──────────────────────────────")
		cmd.Printf("%sSpent:%s   %s$%.2f%s\n", colorDim, colorReset, colorRed, float64(budget.SpentCents)/100, colorReset)
		cmd.Printf("%sEarned:%s  %s$%.2f%s\n", colorDim, colorReset, colorGreen, float64(budget.EarnedCents)/100, colorReset)
	},
}

func init() {
	rootCmd.AddCommand(budgetCmd)
}
