// Package build runs the static site generator against a filesystem whose
// cache and output directories may be redirected.
package build

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spatocode/preview/internal/log"
	"github.com/spatocode/preview/internal/utils"
	"github.com/spatocode/preview/linkfs"
)

const (
	Tool     = "gatsby"
	CacheDir = ".cache"
	Output   = "public"
)

var ErrNotASite = errors.New("manifest does not depend on " + Tool)

// Options configures one build.
type Options struct {
	Directory    string
	Verbose      bool
	Browserslist []string
	Manifest     *Manifest
	// TempDir receives the staged site and serves as the tool's HOME.
	TempDir string
}

// mirrorer is implemented by filesystems that can present their view of a
// directory to a subprocess, see linkfs.Linked.Mirror.
type mirrorer interface {
	Mirror(dir, stage string) error
}

type Builder interface {
	Build(ctx context.Context, fsys linkfs.FS, opts Options) error
}

// Gatsby runs `gatsby build` as a subprocess.
type Gatsby struct {
	loader *Loader
	cmd    func(dir string) utils.ShellCommand
}

var _ Builder = (*Gatsby)(nil)

func NewGatsby(loader *Loader) *Gatsby {
	return &Gatsby{
		loader: loader,
		cmd: func(dir string) utils.ShellCommand {
			return utils.NewCommand(dir)
		},
	}
}

func (g *Gatsby) Build(ctx context.Context, fsys linkfs.FS, opts Options) error {
	if opts.Manifest == nil || !opts.Manifest.Requires(Tool) {
		return ErrNotASite
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	bin, err := g.loader.Resolve(opts.Directory, Tool)
	if err != nil {
		return err
	}

	cache := filepath.Join(opts.Directory, CacheDir)
	public := filepath.Join(opts.Directory, Output)
	for _, dir := range []string{cache, public} {
		if err := fsys.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("preparing %s: %w", dir, err)
		}
	}

	args := []string{"build"}
	if opts.Verbose {
		args = append(args, "--verbose")
	}
	env := []string{
		"NODE_ENV=production",
		"GATSBY_TELEMETRY_DISABLED=1",
		"BROWSERSLIST=" + strings.Join(opts.Browserslist, ", "),
		"PREVIEW_CACHE_DIR=" + fsys.Resolve(cache),
		"PREVIEW_PUBLIC_DIR=" + fsys.Resolve(public),
	}
	if opts.TempDir != "" {
		env = append(env, "HOME="+opts.TempDir)
	}

	workDir := opts.Directory
	if m, ok := fsys.(mirrorer); ok && opts.TempDir != "" {
		workDir = filepath.Join(opts.TempDir, "site")
		if err := m.Mirror(opts.Directory, workDir); err != nil {
			return fmt.Errorf("staging %s: %w", opts.Directory, err)
		}
	}

	log.Debug("building site", "site", opts.Manifest.Name, "tool", bin, "dir", workDir)
	out, err := g.cmd(workDir).RunCommandWithEnv(ctx, env, bin, args...)
	if err != nil {
		log.Debug(out)
		return fmt.Errorf("building %s: %w", opts.Manifest.Name, err)
	}
	log.Debug(out)
	return nil
}
