/*
Copyright © 2023 Ekene Izukanne <ekeneizukanne@gmail.com>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/spatocode/preview"
	"github.com/spatocode/preview/internal/log"
)

var packageCmd = &cobra.Command{
	Use:   "package",
	Short: "Build the deployment packages",
	Long:  "Build the hello and preview bundles under dist and archive them",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			log.PrintError(err.Error())
			return
		}

		p, err := preview.New(cfg)
		if err != nil {
			log.PrintError(err.Error())
			return
		}

		bundles, err := p.Package(cmd.Context())
		if err != nil {
			log.PrintError(err.Error())
			return
		}
		for _, b := range bundles {
			log.PrintfInfo("%s: %s\n", b.Function, b.Archive)
		}
	},
}

func init() {
	rootCmd.AddCommand(packageCmd)
}
