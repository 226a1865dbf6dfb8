/*
Copyright © 2023 Ekene Izukanne <ekeneizukanne@gmail.com>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spatocode/preview/internal/log"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Print the deployment template",
	Long:  "Print the SAM template for the packaged bundles under dist",
	Run: func(cmd *cobra.Command, args []string) {
		p, err := loadProject(cmd.Context())
		if err != nil {
			log.PrintError(err.Error())
			return
		}

		body, err := p.Template(cmd.Context())
		if err != nil {
			log.PrintError(err.Error())
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(body))
	},
}

func init() {
	rootCmd.AddCommand(templateCmd)
}
