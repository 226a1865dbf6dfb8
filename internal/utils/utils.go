package utils

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ShellCommand runs external programs. Tests swap in a fake.
type ShellCommand interface {
	RunCommand(command string, args ...string) (string, error)
	RunCommandWithEnv(ctx context.Context, env []string, command string, args ...string) (string, error)
}

// Command runs programs with os/exec, inside Dir when it is set.
type Command struct {
	Dir string
}

// NewCommand returns a Command running in dir.
func NewCommand(dir string) *Command {
	return &Command{Dir: dir}
}

func (c *Command) RunCommand(command string, args ...string) (string, error) {
	return c.RunCommandWithEnv(context.Background(), nil, command, args...)
}

// RunCommandWithEnv runs command with env appended to the current
// environment and returns its combined output. The process is killed when
// ctx ends.
func (c *Command) RunCommandWithEnv(ctx context.Context, env []string, command string, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = c.Dir
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return out.String(), fmt.Errorf("%s %s: %w", command, strings.Join(args, " "), err)
	}
	return out.String(), nil
}

func FileExists(path string) bool {
	if _, err := os.Stat(path); err == nil {
		return true
	}
	return false
}

func RemoveLocalFile(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}
