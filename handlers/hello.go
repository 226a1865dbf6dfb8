// Package handlers holds the two Lambda handlers: a hello world responder
// and the preview build.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/spatocode/preview/internal/log"
)

const helloBody = `{"message":"Hello, World!"}`

// Hello answers every event, whatever its JSON shape, with the same
// greeting.
func Hello(ctx context.Context, event json.RawMessage) (events.APIGatewayProxyResponse, error) {
	if len(event) == 0 {
		event = json.RawMessage("{}")
	}
	log.FromContext(ctx).Info("hello", "event", string(event))

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       helloBody,
	}, nil
}
