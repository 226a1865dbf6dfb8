package aws

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamTypes "github.com/aws/aws-sdk-go-v2/service/iam/types"

	"github.com/spatocode/preview/config"
	"github.com/spatocode/preview/internal/log"
)

type IAM struct {
	client     *iam.Client
	config     *config.Config
	roleName   string
	policyName string
}

// NewIAM creates a new AWS IAM object
func NewIAM(cfg *config.Config, awsConfig aws.Config) *IAM {
	i := &IAM{
		config:     cfg,
		client:     iam.NewFromConfig(awsConfig),
		roleName:   fmt.Sprintf("%s-PreviewLambdaServiceExecutionRole", cfg.Name),
		policyName: "preview-permissions",
	}
	if role := i.configuredRole(); role != "" && !isArn(role) {
		i.roleName = role
	}
	return i
}

func (i *IAM) configuredRole() string {
	if i.config.Lambda == nil {
		return ""
	}
	return i.config.Lambda.Role
}

func isArn(s string) bool {
	return strings.HasPrefix(s, "arn:")
}

// RoleArn returns the execution role of the functions. A configured ARN is
// used as is; otherwise the named role and its inline policy are created
// when missing.
func (i *IAM) RoleArn(ctx context.Context) (string, error) {
	if role := i.configuredRole(); isArn(role) {
		return role, nil
	}

	role, err := i.getIAMRole(ctx)
	if err != nil {
		return "", err
	}

	if err := i.ensureIAMRolePolicy(ctx); err != nil {
		return "", err
	}
	return aws.ToString(role.Arn), nil
}

// ensureIAMRolePolicy ensures the required policy is available
// and creates one if unavailable.
func (i *IAM) ensureIAMRolePolicy(ctx context.Context) error {
	log.Debug("fetching IAM role policy...")
	_, err := i.client.GetRolePolicy(ctx, &iam.GetRolePolicyInput{
		RoleName:   &i.roleName,
		PolicyName: &i.policyName,
	})
	if err != nil {
		var nseErr *iamTypes.NoSuchEntityException
		if errors.As(err, &nseErr) {
			log.Debug("IAM role policy not found. creating new IAM role policy...")
			_, perr := i.client.PutRolePolicy(ctx, &iam.PutRolePolicyInput{
				RoleName:       &i.roleName,
				PolicyName:     &i.policyName,
				PolicyDocument: aws.String(awsAttachPolicy(config.Bucket)),
			})
			return perr
		}
		return err
	}
	return nil
}

// getIAMRole gets AWS IAM role
func (i *IAM) getIAMRole(ctx context.Context) (*iamTypes.Role, error) {
	log.Debug("fetching IAM role...")
	resp, err := i.client.GetRole(ctx, &iam.GetRoleInput{
		RoleName: &i.roleName,
	})
	if err != nil {
		var nseErr *iamTypes.NoSuchEntityException
		if errors.As(err, &nseErr) {
			log.Debug("IAM role not found. creating new IAM role ...")
			resp, err := i.createIAMRole(ctx)
			if err != nil {
				return nil, err
			}
			return resp.Role, err
		}
		return nil, err
	}

	return resp.Role, nil
}

// createIAMRole creates AWS IAM role
func (i *IAM) createIAMRole(ctx context.Context) (*iam.CreateRoleOutput, error) {
	return i.client.CreateRole(ctx, &iam.CreateRoleInput{
		AssumeRolePolicyDocument: aws.String(awsAssumePolicy),
		Path:                     aws.String("/"),
		RoleName:                 &i.roleName,
	})
}
