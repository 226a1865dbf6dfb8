package aws

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	cfTypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/aws/smithy-go"

	"github.com/spatocode/preview/internal/log"
)

const DefaultWaitDuration = 15 * time.Minute

// Stack manages the CloudFormation stack holding both functions.
type Stack struct {
	name              string
	client            *cloudformation.Client
	maxWaiterDuration time.Duration
}

func NewStack(name string, awsConfig aws.Config) *Stack {
	return &Stack{
		name:              name,
		client:            cloudformation.NewFromConfig(awsConfig),
		maxWaiterDuration: DefaultWaitDuration,
	}
}

func (s *Stack) Name() string {
	return s.name
}

func (s *Stack) describe(ctx context.Context) (*cfTypes.Stack, error) {
	resp, err := s.client.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(s.name),
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Stacks) == 0 {
		return nil, nil
	}
	return &resp.Stacks[0], nil
}

// Exists reports whether the stack is deployed.
func (s *Stack) Exists(ctx context.Context) (bool, error) {
	log.Debug(fmt.Sprintf("describing stack %s...", s.name))
	stack, err := s.describe(ctx)
	if err != nil {
		if isValidationError(err, "does not exist") {
			return false, nil
		}
		return false, err
	}
	return stack != nil && stack.StackStatus != cfTypes.StackStatusDeleteComplete, nil
}

// Apply creates the stack, or updates it when it already exists, and waits
// for the change to complete. An update without changes succeeds.
func (s *Stack) Apply(ctx context.Context, body []byte) error {
	exists, err := s.Exists(ctx)
	if err != nil {
		return err
	}

	capabilities := []cfTypes.Capability{
		cfTypes.CapabilityCapabilityIam,
		cfTypes.CapabilityCapabilityAutoExpand,
	}

	if !exists {
		log.Debug(fmt.Sprintf("creating stack %s...", s.name))
		_, err := s.client.CreateStack(ctx, &cloudformation.CreateStackInput{
			StackName:    aws.String(s.name),
			TemplateBody: aws.String(string(body)),
			Capabilities: capabilities,
		})
		if err != nil {
			return err
		}
		waiter := cloudformation.NewStackCreateCompleteWaiter(s.client)
		return waiter.Wait(ctx, &cloudformation.DescribeStacksInput{
			StackName: aws.String(s.name),
		}, s.maxWaiterDuration)
	}

	log.Debug(fmt.Sprintf("updating stack %s...", s.name))
	_, err = s.client.UpdateStack(ctx, &cloudformation.UpdateStackInput{
		StackName:    aws.String(s.name),
		TemplateBody: aws.String(string(body)),
		Capabilities: capabilities,
	})
	if err != nil {
		if isValidationError(err, "No updates are to be performed") {
			log.Debug("stack is up to date")
			return nil
		}
		return err
	}
	waiter := cloudformation.NewStackUpdateCompleteWaiter(s.client)
	return waiter.Wait(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(s.name),
	}, s.maxWaiterDuration)
}

// Delete removes the stack and waits for the deletion to complete.
func (s *Stack) Delete(ctx context.Context) error {
	log.Debug(fmt.Sprintf("deleting stack %s...", s.name))
	_, err := s.client.DeleteStack(ctx, &cloudformation.DeleteStackInput{
		StackName: aws.String(s.name),
	})
	if err != nil {
		return err
	}
	waiter := cloudformation.NewStackDeleteCompleteWaiter(s.client)
	return waiter.Wait(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(s.name),
	}, s.maxWaiterDuration)
}

// Outputs returns the stack outputs by key.
func (s *Stack) Outputs(ctx context.Context) (map[string]string, error) {
	stack, err := s.describe(ctx)
	if err != nil {
		return nil, err
	}
	outputs := map[string]string{}
	if stack == nil {
		return outputs, nil
	}
	for _, o := range stack.Outputs {
		outputs[aws.ToString(o.OutputKey)] = aws.ToString(o.OutputValue)
	}
	return outputs, nil
}

func isValidationError(err error, contains string) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.ErrorCode() == "ValidationError" && strings.Contains(apiErr.ErrorMessage(), contains)
}
