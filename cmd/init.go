/*
Copyright © 2023 Ekene Izukanne <ekeneizukanne@gmail.com>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/spatocode/preview"
	"github.com/spatocode/preview/internal/log"
	"github.com/spatocode/preview/internal/utils"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a preview.json for the current directory",
	Long:  "Write a preview.json for the current directory",
	Run: func(cmd *cobra.Command, args []string) {
		if utils.FileExists(preview.DefaultConfigFile) {
			log.PrintWarn(preview.DefaultConfigFile + " already exists")
			return
		}

		cfg, err := loadConfig()
		if err != nil {
			log.PrintError(err.Error())
			return
		}
		if err := cfg.Defaults(); err != nil {
			log.PrintError(err.Error())
			return
		}
		if err := cfg.ToJson(preview.DefaultConfigFile); err != nil {
			log.PrintError(err.Error())
			return
		}
		log.PrintInfo("Created " + preview.DefaultConfigFile)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
