/*
Copyright © 2023 Ekene Izukanne <ekeneizukanne@gmail.com>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/spatocode/preview/internal/log"
)

// undeployCmd represents the undeploy command
var undeployCmd = &cobra.Command{
	Use:   "undeploy",
	Short: "Undeploy the functions",
	Long:  "Delete the stack, the function logs and the uploaded bundles",
	Run: func(cmd *cobra.Command, args []string) {
		p, err := loadProject(cmd.Context())
		if err != nil {
			log.PrintError(err.Error())
			return
		}

		if err := p.Undeploy(cmd.Context()); err != nil {
			log.PrintError(err.Error())
		}
	},
}

func init() {
	rootCmd.AddCommand(undeployCmd)
}
