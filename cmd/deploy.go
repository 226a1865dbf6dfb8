/*
Copyright © 2023 Ekene Izukanne <ekeneizukanne@gmail.com>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/spatocode/preview/internal/log"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy the functions",
	Long:  "Package both functions, upload them and create or update the stack",
	Run: func(cmd *cobra.Command, args []string) {
		p, err := loadProject(cmd.Context())
		if err != nil {
			log.PrintError(err.Error())
			return
		}

		endpoint, err := p.Deploy(cmd.Context())
		if err != nil {
			log.PrintError(err.Error())
			return
		}
		log.PrintfInfo("Hello endpoint: %s\n", endpoint)
	},
}

func init() {
	rootCmd.AddCommand(deployCmd)
}
