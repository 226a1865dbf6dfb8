package preview

import "context"

// Bundle is one packaged function: its staging directory and the archive
// built from it.
type Bundle struct {
	Function string
	Dir      string
	Archive  string
}

// Invocation is the outcome of a synchronous function call.
type Invocation struct {
	Function      string
	StatusCode    int32
	Log           string
	Payload       []byte
	FunctionError string
}

// Metrics sums a function's invocations and errors over the last day.
type Metrics struct {
	Function    string
	Invocations float64
	Errors      float64
}

func (m *Metrics) ErrorRate() float64 {
	if m.Invocations == 0 {
		return 0
	}
	return m.Errors / m.Invocations * 100
}

type CloudPlatform interface {
	Template(ctx context.Context, bundles []Bundle) ([]byte, error)
	Deploy(ctx context.Context, bundles []Bundle) (string, error)
	Undeploy(ctx context.Context) error
	Invoke(ctx context.Context, function string, payload []byte) (*Invocation, error)
	Logs(ctx context.Context, function string, follow bool) error
	Metrics(ctx context.Context, function string) (*Metrics, error)
}
