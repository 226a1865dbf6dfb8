package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestInfoLog(t *testing.T) {
	assert := assert.New(t)
	var buf bytes.Buffer

	Setup(&buf, false)
	Info("testing")
	assert.Contains(buf.String(), "INFO testing\n")
}

func TestDebugLog(t *testing.T) {
	assert := assert.New(t)
	var buf bytes.Buffer

	Setup(&buf, false)
	Debug("testing")
	assert.NotContains(buf.String(), "DEBUG testing\n")

	SetVerbose(true)
	defer SetVerbose(false)
	Debug("testing")
	assert.Contains(buf.String(), "DEBUG testing\n")
}

func TestVerboseFromEnv(t *testing.T) {
	assert := assert.New(t)
	var buf bytes.Buffer

	t.Setenv(VerboseEnv, "1")
	Setup(&buf, false)
	defer SetVerbose(false)
	Debug("testing")
	assert.Contains(buf.String(), "DEBUG testing\n")
}

func TestWarnLog(t *testing.T) {
	assert := assert.New(t)
	var buf bytes.Buffer

	Setup(&buf, false)
	Warn("testing")
	assert.Contains(buf.String(), "WARN testing\n")
}

func TestErrorLog(t *testing.T) {
	assert := assert.New(t)
	var buf bytes.Buffer

	Setup(&buf, false)
	Error("testing")
	assert.Contains(buf.String(), "ERROR testing\n")
}

func TestFromContextAddsRequestID(t *testing.T) {
	assert := assert.New(t)
	var buf bytes.Buffer

	Setup(&buf, false)
	ctx := lambdacontext.NewContext(context.Background(), &lambdacontext.LambdaContext{AwsRequestID: "req-1"})
	FromContext(ctx).Info("testing")
	assert.Contains(buf.String(), "INFO testing request_id=req-1\n")

	buf.Reset()
	FromContext(context.Background()).Info("testing")
	assert.Contains(buf.String(), "INFO testing\n")
}

func TestSetupInLambda(t *testing.T) {
	assert := assert.New(t)
	var buf bytes.Buffer

	noColor := color.NoColor
	defer func() { color.NoColor = noColor }()

	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "site-dev-preview")
	Setup(&buf, false)
	Info("testing")
	assert.Equal("INFO testing\n", buf.String())
	assert.True(color.NoColor)
}
