package aws

import (
	"fmt"

	"github.com/awslabs/goformation/v7/cloudformation"
	"github.com/awslabs/goformation/v7/cloudformation/serverless"

	"github.com/spatocode/preview/config"
)

const (
	serverlessTransform = "AWS::Serverless-2016-10-31"

	HelloResource   = "HelloFunction"
	PreviewResource = "PreviewFunction"
	HelloOutput     = "HelloApi"
	HelloPath       = "/hello"
)

var resources = map[string]string{
	config.HelloFunction:   HelloResource,
	config.PreviewFunction: PreviewResource,
}

// Template describes both functions as a serverless template. code maps a
// function to its CodeUri, either a local archive or an s3:// location. An
// empty role lets the transform create one.
func Template(cfg *config.Config, role string, code map[string]string) *cloudformation.Template {
	t := cloudformation.NewTemplate()
	t.Description = fmt.Sprintf("preview %s (%s)", cfg.Name, cfg.Stage)
	t.Transform = &cloudformation.Transform{
		String: cloudformation.String(serverlessTransform),
	}

	for _, fn := range config.Functions {
		t.Resources[resources[fn]] = function(cfg, fn, role, code[fn])
	}

	hello := t.Resources[HelloResource].(*serverless.Function)
	hello.Events = map[string]serverless.Function_EventSource{
		"Hello": {
			Type: "Api",
			Properties: &serverless.Function_Properties{
				ApiEvent: &serverless.Function_ApiEvent{
					Path:   HelloPath,
					Method: "get",
				},
			},
		},
	}

	t.Outputs[HelloOutput] = cloudformation.Output{
		Value: cloudformation.Sub(fmt.Sprintf("https://${ServerlessRestApi}.execute-api.${AWS::Region}.amazonaws.com/%s%s", ApiGatewayStage, HelloPath)),
	}
	return t
}

func function(cfg *config.Config, fn, role, codeUri string) *serverless.Function {
	lambda := cfg.Lambda
	if lambda == nil {
		lambda = &config.Lambda{}
		lambda.Defaults()
	}

	f := &serverless.Function{
		FunctionName:  cloudformation.String(cfg.FunctionName(fn)),
		Handler:       cloudformation.String(config.DefaultHandler),
		Runtime:       cloudformation.String(lambda.Runtime),
		MemorySize:    cloudformation.Int(lambda.Memory),
		Timeout:       cloudformation.Int(lambda.Timeout),
		Architectures: []string{lambda.Architecture},
		CodeUri: &serverless.Function_CodeUri{
			String: cloudformation.String(codeUri),
		},
	}
	if role != "" {
		f.Role = cloudformation.String(role)
	}
	// Only the build needs the site's runtime layers.
	if fn == config.PreviewFunction && len(lambda.Layers) > 0 {
		f.Layers = lambda.Layers
	}
	return f
}
