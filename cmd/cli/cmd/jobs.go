package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gridpay/pkg/api"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs [user_id]",
	Short: "List jobs submitted by a user",
	Long:  `List every job the given user has submitted, with its current status (QUEUED, RUNNING or FINISHED) and any captured output.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		userID := args[0]

		url := viper.GetString("url")

		client := NewGridClient(url)
		jobs, err := client.Jobs(userID)
		if err != nil {
			if apiErr, ok := err.(*APIError); ok {
				cmd.Printf("Request failed (%d): %s\n", apiErr.StatusCode, apiErr.Message)
			} else {
				cmd.Printf("Request failed: %v\n", err)
			}
			return
		}

		if len(jobs) == 0 {
			cmd.Printf("No jobs found for %s.\n", userID)
			return
		}

		cmd.Printf("%sJobs for %s%s\n", colorBold, userID, colorReset)
		cmd.Println("──────────────────────────────")
		for _, j := range jobs {
			printJob(cmd, j)
		}
	},
}

func printJob(cmd *cobra.Command, j api.JobView) {
	cmd.Printf("%s %s\n", jobStatusIcon(j.Status), j.ID)
	cmd.Printf("  %sFile:%s    %s (%s)\n", colorDim, colorReset, j.Filename, j.Lang)
	cmd.Printf("  %sStatus:%s  %s\n", colorDim, colorReset, colorizeJobStatus(j.Status))
	if j.Stdout != "" {
		cmd.Printf("  %sStdout:%s  %s\n", colorDim, colorReset, indentOutput(j.Stdout))
	}
	if j.Stderr != "" {
		cmd.Printf("  %sStderr:%s  %s%s%s\n", colorDim, colorReset, colorRed, indentOutput(j.Stderr), colorReset)
	}
}

// indentOutput keeps multi-line program output aligned under its label.
func indentOutput(s string) string {
	return strings.ReplaceAll(strings.TrimRight(s, "\n"), "\n", "\n           ")
}

func jobStatusIcon(status string) string {
	switch status {
	case "FINISHED":
		return colorGreen + "✓" + colorReset
	case "RUNNING":
		return colorYellow + "⏳" + colorReset
	case "QUEUED":
		return colorCyan + "◯" + colorReset
	default:
		return "•"
	}
}

func colorizeJobStatus(status string) string {
	switch status {
	case "FINISHED":
		return colorGreen + status + colorReset
	case "RUNNING":
		return colorYellow + status + colorReset
	case "QUEUED":
		return colorCyan + status + colorReset
	default:
		return status
	}
}

func init() {
	rootCmd.AddCommand(jobsCmd)
}
