// Package preview packages and deploys the hello and preview functions.
package preview

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spatocode/preview/config"
	"github.com/spatocode/preview/internal/log"
	"github.com/spatocode/preview/internal/utils"
)

const (
	Version           = "0.1.0"
	DefaultConfigFile = "preview.json"
	DistDir           = "dist"
)

var (
	ReadConfig  = config.ReadConfig
	ParseConfig = config.ParseConfig
)

// Project holds details of a preview deployment
type Project struct {
	config    *config.Config
	cloud     CloudPlatform
	cmd       func(dir string) utils.ShellCommand
	toolchain *config.Toolchain
}

// New creates a new project
func New(cfg *config.Config) (*Project, error) {
	if cfg == nil {
		return nil, fmt.Errorf("missing configuration")
	}
	if err := cfg.Defaults(); err != nil {
		return nil, err
	}
	p := &Project{
		config: cfg,
		cmd: func(dir string) utils.ShellCommand {
			return utils.NewCommand(dir)
		},
	}
	p.toolchain = config.NewToolchain(p.cmd(cfg.Dir))
	return p, nil
}

// SetPlatform sets the cloud platform
func (p *Project) SetPlatform(cloud CloudPlatform) {
	p.cloud = cloud
}

func (p *Project) platform() (CloudPlatform, error) {
	if p.cloud == nil {
		return nil, fmt.Errorf("no cloud platform set")
	}
	return p.cloud, nil
}

// Deploy packages the project and deploys it, returning the hello endpoint.
func (p *Project) Deploy(ctx context.Context) (string, error) {
	cloud, err := p.platform()
	if err != nil {
		return "", err
	}

	bundles, err := p.Package(ctx)
	if err != nil {
		return "", err
	}

	log.PrintInfo(fmt.Sprintf("Deploying project %s...", p.config.Name))
	endpoint, err := cloud.Deploy(ctx, bundles)
	if err != nil {
		return "", err
	}
	log.PrintInfo("Done!")
	return endpoint, nil
}

// Undeploy terminates a deployment
func (p *Project) Undeploy(ctx context.Context) error {
	cloud, err := p.platform()
	if err != nil {
		return err
	}

	log.PrintInfo(fmt.Sprintf("Undeploying project %s...", p.config.Name))
	if err := cloud.Undeploy(ctx); err != nil {
		return err
	}
	log.PrintInfo("Done!")
	return nil
}

// Template renders the deployment template for the bundles Package writes.
func (p *Project) Template(ctx context.Context) ([]byte, error) {
	cloud, err := p.platform()
	if err != nil {
		return nil, err
	}

	var bundles []Bundle
	for _, fn := range config.Functions {
		dir := p.bundleDir(fn)
		bundles = append(bundles, Bundle{Function: fn, Dir: dir, Archive: dir + ".zip"})
	}
	return cloud.Template(ctx, bundles)
}

// Invoke calls a deployed function with payload, an empty JSON object when
// payload is empty.
func (p *Project) Invoke(ctx context.Context, function string, payload []byte) (*Invocation, error) {
	if err := checkFunction(function); err != nil {
		return nil, err
	}
	cloud, err := p.platform()
	if err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	inv, err := cloud.Invoke(ctx, function, payload)
	if err != nil {
		return nil, err
	}
	if inv.FunctionError != "" {
		return inv, fmt.Errorf("%s - encountered an error while invoking function", inv.FunctionError)
	}
	return inv, nil
}

// Logs shows the function logs
func (p *Project) Logs(ctx context.Context, function string, follow bool) error {
	if err := checkFunction(function); err != nil {
		return err
	}
	cloud, err := p.platform()
	if err != nil {
		return err
	}
	log.PrintInfo("Fetching logs...")
	return cloud.Logs(ctx, function, follow)
}

// Metrics reports the function's invocations over the last day.
func (p *Project) Metrics(ctx context.Context, function string) (*Metrics, error) {
	if err := checkFunction(function); err != nil {
		return nil, err
	}
	cloud, err := p.platform()
	if err != nil {
		return nil, err
	}
	return cloud.Metrics(ctx, function)
}

func (p *Project) bundleDir(function string) string {
	return filepath.Join(p.config.Dir, DistDir, function+"_function")
}

func checkFunction(function string) error {
	for _, fn := range config.Functions {
		if fn == function {
			return nil
		}
	}
	return fmt.Errorf("unknown function %q. Expected one of %v", function, config.Functions)
}

func Verbose(verbose bool) {
	log.SetVerbose(verbose)
}
