package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/spatocode/preview/build"
	"github.com/spatocode/preview/cloud/aws"
	"github.com/spatocode/preview/config"
	"github.com/spatocode/preview/handlers"
	"github.com/spatocode/preview/internal/log"
)

func main() {
	log.Setup(os.Stderr, false)

	awsConfig, err := config.LoadAWS(context.Background())
	if err != nil {
		log.Error("loading aws config", "error", err)
		os.Exit(1)
	}
	deployDir, err := config.DeployDir()
	if err != nil {
		log.Error("locating deployment", "error", err)
		os.Exit(1)
	}

	loader := build.NewLoader()
	preview := handlers.NewPreview(
		build.NewGatsby(loader),
		loader,
		aws.NewS3(config.Bucket, awsConfig),
		deployDir,
	)
	lambda.Start(preview.Handle)
}
