/*
Copyright © 2023 Ekene Izukanne <ekeneizukanne@gmail.com>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spatocode/preview/config"
	"github.com/spatocode/preview/internal/log"
)

// invokeCmd represents the invoke command
var invokeCmd = &cobra.Command{
	Use:       "invoke [hello|preview]",
	Short:     "Invoke a deployed function",
	Long:      "Invoke a deployed function and print its log tail and result",
	Args:      cobra.ExactArgs(1),
	ValidArgs: config.Functions,
	Run: func(cmd *cobra.Command, args []string) {
		payload, _ := cmd.Flags().GetString("payload")

		p, err := loadProject(cmd.Context())
		if err != nil {
			log.PrintError(err.Error())
			return
		}

		inv, err := p.Invoke(cmd.Context(), args[0], []byte(payload))
		if inv != nil && inv.Log != "" {
			log.PrintInfo(inv.Log)
		}
		if err != nil {
			log.PrintError(err.Error())
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(inv.Payload))
	},
}

func init() {
	rootCmd.AddCommand(invokeCmd)

	invokeCmd.Flags().StringP("payload", "p", "", "JSON event sent to the function")
}
