/*
Copyright © 2023 Ekene Izukanne <ekeneizukanne@gmail.com>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/spatocode/preview/config"
	"github.com/spatocode/preview/internal/log"
)

// metricsCmd represents the metrics command
var metricsCmd = &cobra.Command{
	Use:       "metrics [hello|preview]",
	Short:     "Show function metrics",
	Long:      "Show invocations and errors of a deployed function over the last day",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: config.Functions,
	Run: func(cmd *cobra.Command, args []string) {
		p, err := loadProject(cmd.Context())
		if err != nil {
			log.PrintError(err.Error())
			return
		}

		m, err := p.Metrics(cmd.Context(), functionArg(args, config.PreviewFunction))
		if err != nil {
			log.PrintError(err.Error())
			return
		}
		log.PrintfInfo("%s: %.0f invocations, %.0f errors (%.1f%% error rate)\n",
			m.Function, m.Invocations, m.Errors, m.ErrorRate())
	},
}

func init() {
	rootCmd.AddCommand(metricsCmd)
}
