package publish

import (
	"context"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/spatocode/preview/linkfs"
)

// Walk returns the absolute path of every non-directory entry below root.
// Sibling entries are visited concurrently; each entry's result keeps the
// position of the entry in its directory listing. Any read error fails the
// whole walk.
func Walk(ctx context.Context, fsys linkfs.FS, root string) ([]string, error) {
	dir, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return walk(ctx, fsys, dir)
}

func walk(ctx context.Context, fsys linkfs.FS, dir string) ([]string, error) {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	results := make([][]string, len(entries))
	eg, ctx := errgroup.WithContext(ctx)
	for i, entry := range entries {
		i, entry := i, entry
		eg.Go(func() error {
			path := filepath.Join(dir, entry.Name())
			if !entry.IsDir() {
				results[i] = []string{path}
				return nil
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			files, err := walk(ctx, fsys, path)
			if err != nil {
				return err
			}
			results[i] = files
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var files []string
	for _, r := range results {
		files = append(files, r...)
	}
	return files, nil
}
