package aws

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdaTypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"

	"github.com/spatocode/preview"
	"github.com/spatocode/preview/internal/log"
)

// Lambda calls deployed functions.
type Lambda struct {
	client *lambda.Client
}

func NewLambda(awsConfig aws.Config) *Lambda {
	return &Lambda{client: lambda.NewFromConfig(awsConfig)}
}

// Invoke calls the function synchronously and decodes the tail of its log.
func (l *Lambda) Invoke(ctx context.Context, name string, payload []byte) (*preview.Invocation, error) {
	log.Debug(fmt.Sprintf("invoking lambda function %s...", name))
	out, err := l.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(name),
		InvocationType: lambdaTypes.InvocationTypeRequestResponse,
		LogType:        lambdaTypes.LogTypeTail,
		Payload:        payload,
	})
	if err != nil {
		return nil, err
	}

	inv := &preview.Invocation{
		Function:      name,
		StatusCode:    out.StatusCode,
		Payload:       out.Payload,
		FunctionError: aws.ToString(out.FunctionError),
	}
	if out.LogResult != nil {
		rawText, err := base64.StdEncoding.DecodeString(*out.LogResult)
		if err != nil {
			return nil, err
		}
		inv.Log = string(rawText)
	}
	return inv, nil
}

// WaitActive blocks until the function can be invoked.
func (l *Lambda) WaitActive(ctx context.Context, name string, maxWait time.Duration) error {
	log.Debug(fmt.Sprintf("waiting for lambda function %s...", name))
	waiter := lambda.NewFunctionActiveV2Waiter(l.client)
	return waiter.Wait(ctx, &lambda.GetFunctionInput{
		FunctionName: aws.String(name),
	}, maxWait)
}
