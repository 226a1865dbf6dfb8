// Package publish walks the site build output and uploads every file to
// object storage.
package publish

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/spatocode/preview/internal/log"
	"github.com/spatocode/preview/linkfs"
)

// DefaultRoot is the build output directory, relative to the working
// directory of the process.
const DefaultRoot = "./public"

// Uploader stores one object.
type Uploader interface {
	Put(ctx context.Context, key string, body []byte) error
	Bucket() string
}

// Report describes a finished publish.
type Report struct {
	Bucket string   `json:"bucket"`
	Keys   []string `json:"keys"`
}

// Publisher uploads the contents of a directory tree.
type Publisher struct {
	fsys     linkfs.FS
	storage  Uploader
	root     string
	key      KeyFunc
	parallel int
}

type Option func(*Publisher)

// WithRoot publishes root instead of DefaultRoot.
func WithRoot(root string) Option {
	return func(p *Publisher) { p.root = root }
}

// WithKeyFunc replaces SplitKey.
func WithKeyFunc(fn KeyFunc) Option {
	return func(p *Publisher) { p.key = fn }
}

// WithConcurrency caps the number of uploads in flight. Zero or less means
// no cap.
func WithConcurrency(n int) Option {
	return func(p *Publisher) { p.parallel = n }
}

func New(fsys linkfs.FS, storage Uploader, opts ...Option) *Publisher {
	p := &Publisher{
		fsys:    fsys,
		storage: storage,
		root:    DefaultRoot,
		key:     SplitKey,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish uploads every file below the root. Uploads run concurrently and
// the first failure fails the whole publish.
func (p *Publisher) Publish(ctx context.Context) (*Report, error) {
	files, err := Walk(ctx, p.fsys, p.root)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", p.root, err)
	}
	log.Debug("publishing files", "count", len(files), "bucket", p.storage.Bucket())

	var (
		mu   sync.Mutex
		keys = make([]string, 0, len(files))
	)
	eg, ctx := errgroup.WithContext(ctx)
	if p.parallel > 0 {
		eg.SetLimit(p.parallel)
	}
	for _, file := range files {
		file := file
		eg.Go(func() error {
			body, err := p.fsys.ReadFile(file)
			if err != nil {
				return err
			}
			key := p.key(file)
			if err := p.storage.Put(ctx, key, body); err != nil {
				return fmt.Errorf("uploading %s: %w", key, err)
			}
			mu.Lock()
			keys = append(keys, key)
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sort.Strings(keys)
	return &Report{Bucket: p.storage.Bucket(), Keys: keys}, nil
}
