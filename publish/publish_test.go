package publish

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spatocode/preview/linkfs"
)

type fakeUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	failOn  string
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{objects: map[string][]byte{}}
}

func (f *fakeUploader) Bucket() string { return "BUCKET" }

func (f *fakeUploader) Put(ctx context.Context, key string, body []byte) error {
	if key == f.failOn {
		return errors.New("PutObjectError")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = body
	return nil
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestPublishTwoFiles(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"public/a.txt":     "alpha",
		"public/sub/b.txt": "bravo",
	})

	storage := newFakeUploader()
	p := New(linkfs.OS{}, storage, WithRoot(filepath.Join(dir, "public")))
	report, err := p.Publish(context.Background())

	assert.Nil(err)
	assert.Len(storage.objects, 2)
	assert.Equal("alpha", string(storage.objects["/a.txt"]))
	assert.Equal("bravo", string(storage.objects["/sub/b.txt"]))
	assert.Equal("BUCKET", report.Bucket)
	assert.Equal([]string{"/a.txt", "/sub/b.txt"}, report.Keys)
}

func TestPublishDefaultRoot(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"public/index.html": "<html></html>"})

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	storage := newFakeUploader()
	_, err = New(linkfs.OS{}, storage).Publish(context.Background())
	assert.Nil(err)
	assert.Equal("<html></html>", string(storage.objects["/index.html"]))
}

func TestPublishThroughLinkedFS(t *testing.T) {
	assert := assert.New(t)
	deploy := t.TempDir()
	tmp := t.TempDir()
	writeFiles(t, tmp, map[string]string{"public/page-data/app.json": "{}"})

	storage := newFakeUploader()
	p := New(linkfs.Rewrite(deploy, tmp), storage, WithRoot(filepath.Join(deploy, "public")))
	report, err := p.Publish(context.Background())

	assert.Nil(err)
	assert.Equal([]string{"/page-data/app.json"}, report.Keys)
	assert.Equal("{}", string(storage.objects["/page-data/app.json"]))
}

func TestPublishSingleFailureFailsAll(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"public/a.txt":     "alpha",
		"public/sub/b.txt": "bravo",
	})

	storage := newFakeUploader()
	storage.failOn = "/sub/b.txt"
	report, err := New(linkfs.OS{}, storage, WithRoot(filepath.Join(dir, "public"))).Publish(context.Background())

	assert.Nil(report)
	assert.EqualError(err, "uploading /sub/b.txt: PutObjectError")
}

func TestPublishMissingRoot(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	storage := newFakeUploader()
	_, err := New(linkfs.OS{}, storage, WithRoot(filepath.Join(dir, "public"))).Publish(context.Background())
	assert.True(errors.Is(err, os.ErrNotExist))
	assert.Empty(storage.objects)
}

func TestPublishWithConcurrencyAndRelativeKeys(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	root := filepath.Join(dir, "public")
	writeFiles(t, dir, map[string]string{
		"public/index.html":         "index",
		"public/publications.html":  "pubs",
		"public/static/js/app.js":   "js",
		"public/static/css/app.css": "css",
	})

	storage := newFakeUploader()
	report, err := New(linkfs.OS{}, storage,
		WithRoot(root),
		WithConcurrency(1),
		WithKeyFunc(RelativeKey(root)),
	).Publish(context.Background())

	assert.Nil(err)
	expected := []string{"index.html", "publications.html", "static/css/app.css", "static/js/app.js"}
	assert.Equal(expected, report.Keys)
	assert.Equal("pubs", string(storage.objects["publications.html"]))
}

func TestSplitKey(t *testing.T) {
	assert := assert.New(t)

	cases := []struct {
		path string
		want string
	}{
		{"/var/task/public/a.txt", "/a.txt"},
		{"/var/task/public/sub/b.txt", "/sub/b.txt"},
		{"/tmp/public/index.html", "/index.html"},
		{"/var/task/public/publications.html", "ations.html"},
		{"/srv/public-site/public/a.txt", "/a.txt"},
		{"/var/task/index.html", "/var/task/index.html"},
	}
	for _, tt := range cases {
		assert.Equal(tt.want, SplitKey(tt.path), tt.path)
	}
}

func TestWalkFindsEveryFile(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	files := map[string]string{
		"index.html":              "",
		"404.html":                "",
		"static/a.js":             "",
		"static/deep/er/still.js": "",
		"page-data/x/page.json":   "",
	}
	writeFiles(t, dir, files)
	if err := os.MkdirAll(filepath.Join(dir, "empty", "dir"), 0755); err != nil {
		t.Fatal(err)
	}

	first, err := Walk(context.Background(), linkfs.OS{}, dir)
	assert.Nil(err)
	assert.Len(first, len(files))

	seen := map[string]bool{}
	for _, path := range first {
		assert.True(filepath.IsAbs(path))
		assert.False(seen[path])
		seen[path] = true
		info, err := os.Stat(path)
		assert.Nil(err)
		assert.True(info.Mode().IsRegular())
	}

	second, err := Walk(context.Background(), linkfs.OS{}, dir)
	assert.Nil(err)
	sort.Strings(first)
	sort.Strings(second)
	assert.Equal(first, second)
}

func TestWalkKeepsDirectoryOrder(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.txt":     "",
		"b/c.txt":   "",
		"b/d/e.txt": "",
		"f.txt":     "",
	})

	files, err := Walk(context.Background(), linkfs.OS{}, dir)
	assert.Nil(err)
	expected := []string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "b", "c.txt"),
		filepath.Join(dir, "b", "d", "e.txt"),
		filepath.Join(dir, "f.txt"),
	}
	assert.Equal(expected, files)
}

func TestWalkFailures(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"file.txt": "x"})

	_, err := Walk(context.Background(), linkfs.OS{}, filepath.Join(dir, "missing"))
	assert.NotNil(err)

	_, err = Walk(context.Background(), linkfs.OS{}, filepath.Join(dir, "file.txt"))
	assert.NotNil(err)
}
