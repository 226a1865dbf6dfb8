package aws

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/spatocode/preview"
	"github.com/spatocode/preview/config"
	"github.com/spatocode/preview/internal/log"
)

// Platform deploys and operates both functions through a CloudFormation
// stack named after the project.
type Platform struct {
	config     *config.Config
	awsConfig  aws.Config
	storage    *S3
	access     *IAM
	stack      *Stack
	apigateway *ApiGateway
	functions  *Lambda
	logs       *CloudWatch
	now        func() time.Time
}

var _ preview.CloudPlatform = (*Platform)(nil)

func NewPlatform(cfg *config.Config, awsConfig aws.Config) *Platform {
	return &Platform{
		config:     cfg,
		awsConfig:  awsConfig,
		storage:    NewS3(cfg.Bucket, awsConfig),
		access:     NewIAM(cfg, awsConfig),
		stack:      NewStack(cfg.Name, awsConfig),
		apigateway: NewApiGateway(awsConfig),
		functions:  NewLambda(awsConfig),
		logs:       NewCloudWatch(awsConfig),
		now:        time.Now,
	}
}

// Template renders the template for local archives, as consumed by sam.
func (p *Platform) Template(ctx context.Context, bundles []preview.Bundle) ([]byte, error) {
	code := map[string]string{}
	for _, b := range bundles {
		code[b.Function] = b.Archive
	}
	role := ""
	if p.config.Lambda != nil {
		role = p.config.Lambda.Role
	}
	return Template(p.config, role, code).JSON()
}

// Deploy uploads the bundles, applies the stack and returns the URL of the
// hello endpoint.
func (p *Platform) Deploy(ctx context.Context, bundles []preview.Bundle) (string, error) {
	role, err := p.access.RoleArn(ctx)
	if err != nil {
		return "", err
	}

	if err := p.storage.EnsureBucket(ctx); err != nil {
		return "", err
	}

	prefix := fmt.Sprintf("%s/%d", p.config.Name, p.now().Unix())
	code := map[string]string{}
	for _, b := range bundles {
		key, err := p.storage.Upload(ctx, b.Archive, prefix)
		if err != nil {
			return "", err
		}
		code[b.Function] = fmt.Sprintf("s3://%s/%s", p.storage.Bucket(), key)
	}

	body, err := Template(p.config, role, code).JSON()
	if err != nil {
		return "", err
	}
	if err := p.stack.Apply(ctx, body); err != nil {
		return "", err
	}

	if err := p.functions.WaitActive(ctx, p.config.FunctionName(config.PreviewFunction), DefaultWaitDuration); err != nil {
		log.Debug(err.Error())
	}

	return p.apigateway.Endpoint(ctx, p.stack.Name(), HelloPath)
}

// Undeploy deletes the stack, the functions' log groups and the uploaded
// bundles.
func (p *Platform) Undeploy(ctx context.Context) error {
	deployed, err := p.stack.Exists(ctx)
	if err != nil {
		return err
	}
	if !deployed {
		return errors.New("can't find a deployed project. Run 'previewctl deploy' to deploy instead")
	}

	log.Debug("undeploying...")
	if err := p.stack.Delete(ctx); err != nil {
		return err
	}

	for _, fn := range config.Functions {
		if err := p.logs.Clear(ctx, LogGroup(p.config.FunctionName(fn))); err != nil {
			return err
		}
	}

	return p.storage.DeletePrefix(ctx, p.config.Name+"/")
}

func (p *Platform) Invoke(ctx context.Context, function string, payload []byte) (*preview.Invocation, error) {
	return p.functions.Invoke(ctx, p.config.FunctionName(function), payload)
}

func (p *Platform) Logs(ctx context.Context, function string, follow bool) error {
	return p.logs.Watch(ctx, LogGroup(p.config.FunctionName(function)), follow)
}

func (p *Platform) Metrics(ctx context.Context, function string) (*preview.Metrics, error) {
	return p.logs.Metrics(ctx, p.config.FunctionName(function))
}
