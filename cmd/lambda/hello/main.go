package main

import (
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/spatocode/preview/handlers"
	"github.com/spatocode/preview/internal/log"
)

func main() {
	log.Setup(os.Stderr, false)
	lambda.Start(handlers.Hello)
}
