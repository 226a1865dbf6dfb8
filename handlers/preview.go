package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spatocode/preview/build"
	"github.com/spatocode/preview/config"
	"github.com/spatocode/preview/internal/log"
	"github.com/spatocode/preview/linkfs"
	"github.com/spatocode/preview/publish"
)

// Preview builds the site deployed next to the handler and publishes the
// output to object storage.
type Preview struct {
	builder   build.Builder
	loader    *build.Loader
	storage   publish.Uploader
	deployDir string
	tmpDir    func() string
	options   []publish.Option
}

// NewPreview returns a handler for the site in deployDir. Publish options
// are applied after the output root.
func NewPreview(builder build.Builder, loader *build.Loader, storage publish.Uploader, deployDir string, opts ...publish.Option) *Preview {
	return &Preview{
		builder:   builder,
		loader:    loader,
		storage:   storage,
		deployDir: deployDir,
		tmpDir:    os.TempDir,
		options:   opts,
	}
}

// Handle runs one build and publish. The event is ignored.
func (p *Preview) Handle(ctx context.Context, event json.RawMessage) (*publish.Report, error) {
	logger := log.FromContext(ctx)
	logger.Info("starting preview build", "dir", p.deployDir, "bucket", p.storage.Bucket())

	c := NewCompletion()
	go p.run(ctx, c)

	report, err := c.Wait(ctx)
	if err != nil {
		logger.Error("preview failed", "error", err)
		return nil, err
	}
	logger.Info("preview published", "bucket", report.Bucket, "files", len(report.Keys))
	return report, nil
}

func (p *Preview) run(ctx context.Context, c *Completion) {
	defer func() {
		if r := recover(); r != nil {
			c.Fail(fmt.Errorf("preview: %v", r))
		}
		c.Fail(ErrNoCompletion)
	}()

	tmp := p.tmpDir()
	fsys := linkfs.Rewrite(p.deployDir, tmp)

	manifest, err := p.loader.LoadManifest(p.deployDir)
	if err != nil {
		c.Fail(err)
		return
	}

	opts := build.Options{
		Directory:    p.deployDir,
		Verbose:      false,
		Browserslist: config.Browserslist,
		Manifest:     manifest,
		TempDir:      tmp,
	}
	if err := p.builder.Build(ctx, fsys, opts); err != nil {
		c.Fail(err)
		return
	}

	root := filepath.Join(p.deployDir, config.OutputRoot)
	opt := append([]publish.Option{publish.WithRoot(root)}, p.options...)
	report, err := publish.New(fsys, p.storage, opt...).Publish(ctx)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Succeed(report)
}
