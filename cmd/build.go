/*
Copyright © 2023 Ekene Izukanne <ekeneizukanne@gmail.com>
*/
package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/spatocode/preview/build"
	"github.com/spatocode/preview/config"
	"github.com/spatocode/preview/internal/log"
	"github.com/spatocode/preview/linkfs"
)

// buildCmd runs the preview build locally, with the same redirection the
// preview function applies, and leaves the output in a temp directory.
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the site locally",
	Long:  "Build the site the way the preview function does, writing .cache and public to a temp directory",
	Run: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")

		cfg, err := loadConfig()
		if err != nil {
			log.PrintError(err.Error())
			return
		}
		if err := cfg.Defaults(); err != nil {
			log.PrintError(err.Error())
			return
		}
		site := cfg.SiteDir()

		tmp, err := os.MkdirTemp("", "preview-")
		if err != nil {
			log.PrintError(err.Error())
			return
		}

		loader := build.NewLoader()
		manifest, err := loader.LoadManifest(site)
		if err != nil {
			log.PrintError(err.Error())
			return
		}

		opts := build.Options{
			Directory:    site,
			Verbose:      verbose,
			Browserslist: config.Browserslist,
			Manifest:     manifest,
			TempDir:      tmp,
		}
		log.PrintInfo("Building site...")
		if err := build.NewGatsby(loader).Build(cmd.Context(), linkfs.Rewrite(site, tmp), opts); err != nil {
			log.PrintError(err.Error())
			return
		}
		log.PrintfInfo("Output written to %s\n", filepath.Join(tmp, build.Output))
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
