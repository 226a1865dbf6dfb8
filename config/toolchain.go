package config

import (
	"errors"
	"strings"

	"github.com/spatocode/preview/internal/log"
	"github.com/spatocode/preview/internal/utils"
)

const (
	DefaultGoVersion   = "1.21.0"
	DefaultNodeVersion = "18.13.0"
)

// Toolchain inspects the local tools packaging relies on.
type Toolchain struct {
	utils.ShellCommand
}

func NewToolchain(cmd utils.ShellCommand) *Toolchain {
	return &Toolchain{cmd}
}

// GoVersion parses the output of `go version`.
func (t *Toolchain) GoVersion() (string, error) {
	log.Debug("getting go version...")
	out, err := t.RunCommand("go", "version")
	if err != nil {
		return "", err
	}
	s := strings.Split(strings.TrimSpace(out), " ")
	if len(s) > 2 {
		if v, ok := strings.CutPrefix(s[2], "go"); ok {
			return v, nil
		}
	}
	return "", errors.New("encountered error on go version")
}

// NodeVersion parses the output of `node -v`.
func (t *Toolchain) NodeVersion() (string, error) {
	log.Debug("getting nodejs version...")
	out, err := t.RunCommand("node", "-v")
	if err != nil {
		return "", err
	}
	v, ok := strings.CutPrefix(strings.TrimSpace(out), "v")
	if !ok || v == "" {
		return "", errors.New("encountered error on nodejs version")
	}
	return v, nil
}
