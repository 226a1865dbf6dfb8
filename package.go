package preview

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/otiai10/copy"
	"golang.org/x/sync/errgroup"

	"github.com/spatocode/preview/build"
	"github.com/spatocode/preview/config"
	"github.com/spatocode/preview/internal/log"
	"github.com/spatocode/preview/internal/utils"
)

// Package builds one bundle per function under dist and archives each of
// them next to its directory.
func (p *Project) Package(ctx context.Context) ([]Bundle, error) {
	log.PrintInfo("Packaging project...")
	goarch, err := p.config.Lambda.GOARCH()
	if err != nil {
		return nil, err
	}

	version, err := p.toolchain.GoVersion()
	if err != nil {
		return nil, fmt.Errorf("cannot find a go toolchain: %w", err)
	}
	log.Debug("using go", "version", version, "goarch", goarch)

	if version, err := p.toolchain.NodeVersion(); err != nil {
		log.PrintWarn("Node.js not found locally. The preview function needs a Node.js runtime layer to build the site.")
	} else {
		log.Debug("using nodejs", "version", version)
	}

	bundles := make([]Bundle, len(config.Functions))
	g, ctx := errgroup.WithContext(ctx)
	for i, fn := range config.Functions {
		i, fn := i, fn
		g.Go(func() error {
			b, err := p.packageFunction(ctx, fn, goarch)
			if err != nil {
				return fmt.Errorf("packaging %s: %w", fn, err)
			}
			bundles[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return bundles, nil
}

func (p *Project) packageFunction(ctx context.Context, fn, goarch string) (Bundle, error) {
	dir := p.bundleDir(fn)
	b := Bundle{Function: fn, Dir: dir, Archive: dir + ".zip"}

	if err := utils.RemoveLocalFile(dir); err != nil {
		return b, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return b, err
	}

	if err := p.buildBinary(ctx, fn, dir, goarch); err != nil {
		return b, err
	}

	if fn == config.PreviewFunction {
		if err := p.copySite(dir); err != nil {
			return b, err
		}
	}

	if err := ctx.Err(); err != nil {
		return b, err
	}
	return b, p.archivePackage(b.Archive, dir)
}

// buildBinary compiles the function's entry point into dir/bootstrap.
func (p *Project) buildBinary(ctx context.Context, fn, dir, goarch string) error {
	entry := "./" + path.Join(filepath.ToSlash(p.config.Entry), fn)
	env := []string{"GOOS=linux", "GOARCH=" + goarch, "CGO_ENABLED=0"}
	out, err := p.cmd(p.config.Dir).RunCommandWithEnv(ctx, env,
		"go", "build", "-tags", "lambda.norpc", "-o", filepath.Join(dir, config.DefaultHandler), entry)
	if err != nil {
		log.Debug(out)
		return err
	}
	return nil
}

// copySite copies the site sources into dir, leaving out ignored files, and
// replaces the manifest by one without devDependencies.
func (p *Project) copySite(dir string) error {
	log.Debug("copying site files...")
	site := p.config.SiteDir()

	globs := append([]string{}, config.DefaultIgnoredGlobs...)
	ignoreFile := filepath.Join(site, config.IgnoreFile)
	if utils.FileExists(ignoreFile) {
		extra, err := config.ReadIgnoredFiles(ignoreFile)
		if err != nil {
			return err
		}
		globs = append(globs, extra...)
	}

	opt := copy.Options{
		Skip: func(srcinfo os.FileInfo, src, dest string) (bool, error) {
			rel, err := filepath.Rel(site, src)
			if err != nil || rel == "." {
				return false, err
			}
			return config.Ignored(rel, globs), nil
		},
	}
	if err := copy.Copy(site, dir, opt); err != nil {
		return err
	}

	manifest, err := os.ReadFile(filepath.Join(site, build.ManifestFile))
	if err != nil {
		return err
	}
	stripped, err := build.StripDevDependencies(manifest)
	if err != nil {
		return fmt.Errorf("%s: %w", build.ManifestFile, err)
	}
	return os.WriteFile(filepath.Join(dir, build.ManifestFile), stripped, 0644)
}

// archivePackage creates an archive file from a bundle directory
func (p *Project) archivePackage(archivePath, dir string) error {
	log.Debug("archiving package...", "archive", archivePath)
	archive, err := os.Create(archivePath)
	if err != nil {
		return err
	}
	defer archive.Close()

	writer := zip.NewWriter(archive)

	walker := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		header.Method = zip.Deflate

		w, err := writer.CreateHeader(header)
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(w, f)
		return err
	}
	if err := filepath.WalkDir(dir, walker); err != nil {
		writer.Close()
		return err
	}

	return writer.Close()
}
