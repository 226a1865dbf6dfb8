/*
Copyright © 2023 Ekene Izukanne <ekeneizukanne@gmail.com>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/spatocode/preview/config"
	"github.com/spatocode/preview/internal/log"
)

// logsCmd represents the logs command
var logsCmd = &cobra.Command{
	Use:       "logs [hello|preview]",
	Short:     "Show function logs",
	Long:      "Show the CloudWatch logs of a deployed function, preview by default",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: config.Functions,
	Run: func(cmd *cobra.Command, args []string) {
		follow, _ := cmd.Flags().GetBool("follow")

		p, err := loadProject(cmd.Context())
		if err != nil {
			log.PrintError(err.Error())
			return
		}

		if err := p.Logs(cmd.Context(), functionArg(args, config.PreviewFunction), follow); err != nil {
			log.PrintError(err.Error())
		}
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().BoolP("follow", "f", false, "Keep polling for new log events")
}
