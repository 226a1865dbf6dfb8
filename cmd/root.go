/*
Copyright © 2023 Ekene Izukanne <ekeneizukanne@gmail.com>
*/
package cmd

import (
	"context"
	"os"
	"os/signal"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/spf13/cobra"

	"github.com/spatocode/preview"
	"github.com/spatocode/preview/cloud/aws"
	"github.com/spatocode/preview/config"
	"github.com/spatocode/preview/internal/log"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "previewctl",
	Short:   "Package and deploy the Gatsby preview functions",
	Long:    `Package and deploy the hello and preview Lambda functions of a Gatsby site`,
	Version: preview.Version,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		log.Setup(os.Stderr, verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose mode")
}

// loadConfig reads preview.json from the working directory, generating a
// config when there is none.
func loadConfig() (*config.Config, error) {
	return preview.ReadConfig(preview.DefaultConfigFile)
}

// loadProject returns the project for preview.json backed by AWS.
func loadProject(ctx context.Context) (*preview.Project, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	p, err := preview.New(cfg)
	if err != nil {
		return nil, err
	}

	awsConfig, err := config.LoadAWS(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, err
	}
	p.SetPlatform(aws.NewPlatform(cfg, awsConfig))
	return p, nil
}

// functionArg returns the function named by args, or fallback.
func functionArg(args []string, fallback string) string {
	if len(args) > 0 {
		return args[0]
	}
	return fallback
}
