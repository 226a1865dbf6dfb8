package aws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spatocode/preview/config"
)

func renderTemplate(t *testing.T, cfg *config.Config, role string, code map[string]string) map[string]interface{} {
	body, err := Template(cfg, role, code).JSON()
	if err != nil {
		t.Fatal(err)
	}
	doc := map[string]interface{}{}
	if err := json.Unmarshal(body, &doc); err != nil {
		t.Fatal(err)
	}
	return doc
}

func properties(doc map[string]interface{}, resource string) map[string]interface{} {
	r := doc["Resources"].(map[string]interface{})[resource].(map[string]interface{})
	return r["Properties"].(map[string]interface{})
}

func TestTemplate(t *testing.T) {
	assert := assert.New(t)
	cfg := &config.Config{
		Name:  "site-dev",
		Stage: "dev",
		Lambda: &config.Lambda{
			Runtime:      config.DefaultRuntime,
			Timeout:      300,
			Memory:       1024,
			Architecture: "arm64",
			Layers:       []string{"arn:aws:lambda:us-west-2:269360183919:layer:node18:1"},
		},
	}
	role := "arn:aws:iam::269360183919:role/site-dev-PreviewLambdaServiceExecutionRole"
	doc := renderTemplate(t, cfg, role, map[string]string{
		config.HelloFunction:   "s3://deploy/site-dev/1/hello_function.zip",
		config.PreviewFunction: "s3://deploy/site-dev/1/preview_function.zip",
	})

	assert.Equal(serverlessTransform, doc["Transform"])
	assert.Equal("preview site-dev (dev)", doc["Description"])

	hello := properties(doc, HelloResource)
	assert.Equal("site-dev-hello", hello["FunctionName"])
	assert.Equal("bootstrap", hello["Handler"])
	assert.Equal("provided.al2", hello["Runtime"])
	assert.Equal(float64(1024), hello["MemorySize"])
	assert.Equal(float64(300), hello["Timeout"])
	assert.Equal(role, hello["Role"])
	assert.Equal([]interface{}{"arm64"}, hello["Architectures"])
	assert.Equal("s3://deploy/site-dev/1/hello_function.zip", hello["CodeUri"])
	assert.Nil(hello["Layers"])

	event := hello["Events"].(map[string]interface{})["Hello"].(map[string]interface{})
	assert.Equal("Api", event["Type"])
	eventProps := event["Properties"].(map[string]interface{})
	assert.Equal("/hello", eventProps["Path"])
	assert.Equal("get", eventProps["Method"])

	p := properties(doc, PreviewResource)
	assert.Equal("site-dev-preview", p["FunctionName"])
	assert.Equal("s3://deploy/site-dev/1/preview_function.zip", p["CodeUri"])
	assert.Equal([]interface{}{"arn:aws:lambda:us-west-2:269360183919:layer:node18:1"}, p["Layers"])
	assert.Nil(p["Events"])

	output := doc["Outputs"].(map[string]interface{})[HelloOutput].(map[string]interface{})
	value := output["Value"].(map[string]interface{})
	assert.Equal("https://${ServerlessRestApi}.execute-api.${AWS::Region}.amazonaws.com/Prod/hello", value["Fn::Sub"])
}

func TestTemplateDefaultsWithoutRole(t *testing.T) {
	assert := assert.New(t)
	cfg := &config.Config{Name: "site-dev", Stage: "dev"}
	doc := renderTemplate(t, cfg, "", map[string]string{
		config.HelloFunction: "dist/hello_function.zip",
	})

	hello := properties(doc, HelloResource)
	assert.Nil(hello["Role"])
	assert.Equal(float64(config.DefaultMemory), hello["MemorySize"])
	assert.Equal([]interface{}{config.DefaultArchitecture}, hello["Architectures"])
	assert.Equal("dist/hello_function.zip", hello["CodeUri"])
}
