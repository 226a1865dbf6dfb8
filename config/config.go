package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
)

const (
	Dev        Stage = "dev"
	Production Stage = "production"
	Staging    Stage = "staging"

	DefaultRegion = "us-west-2"
	DefaultEntry  = "cmd/lambda"

	HelloFunction   = "hello"
	PreviewFunction = "preview"
)

// Functions lists the deployed functions, one per entry point.
var Functions = []string{HelloFunction, PreviewFunction}

type Stage string

// Config is the deployment configuration read from preview.json.
type Config struct {
	Name   string  `json:"name"`
	Stage  string  `json:"stage"`
	Bucket string  `json:"s3_bucket"`
	Region string  `json:"region"`
	Lambda *Lambda `json:"lambda"`
	Dir    string  `json:"dir"`
	// Site is the Gatsby site directory, relative to Dir.
	Site string `json:"site"`
	// Entry holds one main package per function, relative to Dir.
	Entry string `json:"entry"`
}

func (c *Config) Defaults() error {
	if c.Lambda == nil {
		c.Lambda = &Lambda{}
	}
	c.Lambda.Defaults()

	if c.Stage == "" {
		c.Stage = string(Dev)
	}
	if c.Site == "" {
		c.Site = "."
	}
	if c.Entry == "" {
		c.Entry = DefaultEntry
	}
	if c.Dir == "" {
		dir, err := os.Getwd()
		if err != nil {
			return err
		}
		c.Dir = dir
	}

	if c.Region == "" {
		return c.detectRegion()
	}
	return nil
}

func (c *Config) detectRegion() error {
	ctx := context.TODO()
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return err
	}
	if r := cfg.Region; r != "" {
		slog.Debug("extracted region from aws default config", "region", r)
		c.Region = r
		return nil
	}

	slog.Debug("using default region", "region", DefaultRegion)
	c.Region = DefaultRegion
	return nil
}

// Validate reports the first field that would make a deployment fail.
func (c *Config) Validate() error {
	switch {
	case c.Name == "":
		return errors.New("config: name is required")
	case c.Bucket == "":
		return errors.New("config: s3_bucket is required")
	}
	if c.Lambda != nil {
		if _, err := c.Lambda.GOARCH(); err != nil {
			return err
		}
	}
	return nil
}

// SiteDir is the absolute path of the site sources.
func (c *Config) SiteDir() string {
	if filepath.IsAbs(c.Site) {
		return c.Site
	}
	return filepath.Join(c.Dir, c.Site)
}

// FunctionName is the deployed name of fn.
func (c *Config) FunctionName(fn string) string {
	return fmt.Sprintf("%s-%s", c.Name, fn)
}

func (c *Config) ToJson(name string) error {
	b, err := json.MarshalIndent(c, "", "\t")
	if err != nil {
		return err
	}

	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(b)
	return err
}

func (c *Config) init() error {
	workDir, err := os.Getwd()
	if err != nil {
		slog.Error(err.Error())
		return err
	}
	projectName := filepath.Base(workDir)

	c.Stage = string(Dev)
	c.Bucket = fmt.Sprintf("preview-%d", time.Now().Unix())
	c.Name = fmt.Sprintf("%s-%s", projectName, string(Dev))
	c.Dir = workDir

	if err := c.Defaults(); err != nil {
		slog.Warn(err.Error())
	}

	return nil
}

// ReadConfig reads the configuration at path. A missing file yields a
// generated configuration for the working directory.
func ReadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		cfg := &Config{}
		if err := cfg.init(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Defaults(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
