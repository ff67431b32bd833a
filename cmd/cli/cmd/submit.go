package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gridpay/pkg/api"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a job to a device",
	Long: `Submit a script for execution on a registered device. The cost is
debited from the requester's budget and credited to the device owner
as soon as the job is accepted.

Example:
  gridctl submit --requester alice --device bob --file hello.py --cost 0.05
  gridctl submit --requester alice --device bob --lang javascript --file script.js --cost 0.10`,
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		requester, _ := flags.GetString("requester")
		device, _ := flags.GetString("device")
		file, _ := flags.GetString("file")
		lang, _ := flags.GetString("lang")
		cost, _ := flags.GetFloat64("cost")

		url := viper.GetString("url")

		if requester == "" {
			cmd.Println("Error: --requester is required")
			return
		}

		if device == "" {
			cmd.Println("Error: --device is required")
			return
		}

		if file == "" {
			cmd.Println("Error: --file is required")
			return
		}

		code, err := os.ReadFile(file)
		if err != nil {
			cmd.Printf("Failed to read %s: %v\n", file, err)
			return
		}

		if lang == "" {
			lang = detectLang(file)
		}
		if lang == "" {
			cmd.Println("Error: could not detect language from filename, pass --lang")
			return
		}

		client := NewGridClient(url)

		req := api.SubmitJobRequest{
			Requester: requester,
			DeviceID:  device,
			Filename:  filepath.Base(file),
			Lang:      lang,
			Code:      string(code),
			CostUSD:   &cost,
		}

		result, err := client.SubmitJob(req)
		if err != nil {
			if apiErr, ok := err.(*APIError); ok {
				cmd.Printf("Submit failed (%d): %s\n", apiErr.StatusCode, apiErr.Message)
			} else {
				cmd.Printf("Submit failed: %v\n", err)
			}
			return
		}

		cmd.Printf("✓ Job submitted!\nJob ID: %s\n", result.JobID)
	},
}

func detectLang(file string) string {
	switch filepath.Ext(file) {
	case ".py":
		return "python"
	case ".js":
		return "javascript"
	}
	return ""
}

func init() {
	flags := submitCmd.Flags()
	flags.StringP("requester", "r", "", "User ID paying for the job (required)")
	flags.StringP("device", "d", "", "User ID of the device that should run the job (required)")
	flags.StringP("file", "f", "", "Path to the script to run (required)")
	flags.StringP("lang", "l", "", "Script language: python or javascript (detected from extension when omitted)")
	flags.Float64("cost", 0, "Job cost in USD")

	rootCmd.AddCommand(submitCmd)
}
