package config

import "fmt"

const (
	DefaultTimeout      = 300
	DefaultMemory       = 1024
	DefaultRuntime      = "provided.al2"
	DefaultArchitecture = "x86_64"
	DefaultHandler      = "bootstrap"
)

// Lambda configuration shared by both functions.
type Lambda struct {
	Runtime      string   `json:"runtime"`
	Timeout      int      `json:"timeout"`
	Role         string   `json:"role"`
	Memory       int      `json:"memory"`
	Layers       []string `json:"layers,omitempty"`
	Architecture string   `json:"architecture"`
}

func (l *Lambda) Defaults() {
	if l.Memory == 0 {
		l.Memory = DefaultMemory
	}

	if l.Timeout == 0 {
		l.Timeout = DefaultTimeout
	}

	if l.Runtime == "" {
		l.Runtime = DefaultRuntime
	}

	if l.Architecture == "" {
		l.Architecture = DefaultArchitecture
	}
}

// GOARCH maps the Lambda architecture to the Go target architecture.
func (l *Lambda) GOARCH() (string, error) {
	switch l.Architecture {
	case "", "x86_64":
		return "amd64", nil
	case "arm64":
		return "arm64", nil
	default:
		return "", fmt.Errorf("config: unsupported lambda architecture %q", l.Architecture)
	}
}
