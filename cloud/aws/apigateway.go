package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"

	"github.com/spatocode/preview/internal/log"
)

// ApiGatewayStage is the stage the serverless transform deploys the
// implicit API to.
const ApiGatewayStage = "Prod"

type ApiGateway struct {
	client *apigateway.Client
	region string
}

func NewApiGateway(awsConfig aws.Config) *ApiGateway {
	return &ApiGateway{
		client: apigateway.NewFromConfig(awsConfig),
		region: awsConfig.Region,
	}
}

// getRestApis lists the ids of the REST APIs called name.
func (a *ApiGateway) getRestApis(ctx context.Context, name string) ([]*string, error) {
	log.Debug("fetching rest apis...")
	apis := []*string{}
	paginator := apigateway.NewGetRestApisPaginator(a.client, &apigateway.GetRestApisInput{
		Limit: aws.Int32(500),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return apis, err
		}
		for _, item := range page.Items {
			if aws.ToString(item.Name) == name {
				apis = append(apis, item.Id)
			}
		}
	}
	return apis, nil
}

// Endpoint returns the URL path is served at by the API the stack created.
func (a *ApiGateway) Endpoint(ctx context.Context, stackName, path string) (string, error) {
	apis, err := a.getRestApis(ctx, stackName)
	if err != nil {
		return "", err
	}
	if len(apis) == 0 {
		return "", fmt.Errorf("no rest api found for stack %s", stackName)
	}
	return fmt.Sprintf("https://%s.execute-api.%s.amazonaws.com/%s%s", aws.ToString(apis[0]), a.region, ApiGatewayStage, path), nil
}
