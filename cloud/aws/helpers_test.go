package aws

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsMiddleware "github.com/aws/aws-sdk-go-v2/aws/middleware"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/smithy-go/middleware"
)

type args struct {
	name               string
	withAPIOptionsFunc func(*middleware.Stack) error
}

type tcase struct {
	name    string
	args    args
	want    error
	wantErr bool
}

// response is what a mocked operation returns.
type response struct {
	result interface{}
	err    error
}

// mockOperations answers every call from responses, keyed by operation name.
// Unknown operations fail so that unexpected calls show up in assertions.
func mockOperations(responses map[string]response) func(*middleware.Stack) error {
	calls := map[string][]response{}
	for op, r := range responses {
		calls[op] = []response{r}
	}
	return mockCalls(calls)
}

// mockCalls answers the n-th call of an operation with its n-th response,
// repeating the last one once they run out.
func mockCalls(responses map[string][]response) func(*middleware.Stack) error {
	var mu sync.Mutex
	seen := map[string]int{}
	return func(s *middleware.Stack) error {
		return s.Finalize.Add(
			middleware.FinalizeMiddlewareFunc(
				"OperationsMock",
				func(ctx context.Context, fi middleware.FinalizeInput, fh middleware.FinalizeHandler) (middleware.FinalizeOutput, middleware.Metadata, error) {
					op := awsMiddleware.GetOperationName(ctx)
					mu.Lock()
					rs := responses[op]
					n := seen[op]
					seen[op]++
					mu.Unlock()
					if len(rs) == 0 {
						return middleware.FinalizeOutput{}, middleware.Metadata{}, fmt.Errorf("unexpected %s", op)
					}
					if n >= len(rs) {
						n = len(rs) - 1
					}
					return middleware.FinalizeOutput{Result: rs[n].result}, middleware.Metadata{}, rs[n].err
				},
			),
			middleware.Before,
		)
	}
}

// recorder keeps the input parameters of every call, in call order.
type recorder struct {
	mu     sync.Mutex
	ops    []string
	params []interface{}
}

func (r *recorder) record(s *middleware.Stack) error {
	return s.Initialize.Add(
		middleware.InitializeMiddlewareFunc(
			"ParamsRecorder",
			func(ctx context.Context, in middleware.InitializeInput, next middleware.InitializeHandler) (middleware.InitializeOutput, middleware.Metadata, error) {
				r.mu.Lock()
				r.ops = append(r.ops, awsMiddleware.GetOperationName(ctx))
				r.params = append(r.params, in.Parameters)
				r.mu.Unlock()
				return next.HandleInitialize(ctx, in)
			},
		),
		middleware.After,
	)
}

func (r *recorder) operations() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ops...)
}

func (r *recorder) last(op string) interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.ops) - 1; i >= 0; i-- {
		if r.ops[i] == op {
			return r.params[i]
		}
	}
	return nil
}

func loadAWSConfig(t *testing.T, fns ...func(*middleware.Stack) error) aws.Config {
	awsCfg, err := awsConfig.LoadDefaultConfig(
		context.TODO(),
		awsConfig.WithRegion("us-west-1"),
		awsConfig.WithAPIOptions(fns),
	)
	if err != nil {
		t.Fatal(err)
	}
	return awsCfg
}
