package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// Values baked into the preview handler.
const (
	Bucket     = "BUCKET"
	CacheDir   = ".cache"
	PublicDir  = "public"
	OutputRoot = "./public"

	TaskRootEnv = "LAMBDA_TASK_ROOT"
)

var Browserslist = []string{">0.25%", "not dead"}

// DeployDir is the directory the handler was deployed to.
func DeployDir() (string, error) {
	if dir := os.Getenv(TaskRootEnv); dir != "" {
		return dir, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadAWS loads the SDK configuration. Keys present in the environment are
// used as static credentials, otherwise the default chain applies.
func LoadAWS(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
	id, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id != "" && secret != "" {
		provider := credentials.NewStaticCredentialsProvider(id, secret, os.Getenv("AWS_SESSION_TOKEN"))
		optFns = append([]func(*config.LoadOptions) error{config.WithCredentialsProvider(provider)}, optFns...)
	}
	return config.LoadDefaultConfig(ctx, optFns...)
}
