package linkfs

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func setup(t *testing.T) (deploy, tmp string, fsys *Linked) {
	deploy = t.TempDir()
	tmp = t.TempDir()
	return deploy, tmp, Rewrite(deploy, tmp)
}

func TestWriteToLinkedDirectoriesLandsInTemp(t *testing.T) {
	assert := assert.New(t)
	deploy, tmp, fsys := setup(t)

	for _, dir := range []string{".cache", "public"} {
		name := filepath.Join(deploy, dir, "nested", "file.txt")
		assert.Nil(fsys.MkdirAll(filepath.Dir(name), 0755))
		assert.Nil(fsys.WriteFile(name, []byte(dir), 0644))

		data, err := os.ReadFile(filepath.Join(tmp, dir, "nested", "file.txt"))
		assert.Nil(err)
		assert.Equal(dir, string(data))
		_, err = os.Stat(filepath.Join(deploy, dir))
		assert.True(os.IsNotExist(err))

		data, err = fsys.ReadFile(name)
		assert.Nil(err)
		assert.Equal(dir, string(data))
	}
}

func TestUnrelatedPathsPassThrough(t *testing.T) {
	assert := assert.New(t)
	deploy, tmp, fsys := setup(t)

	for _, name := range []string{
		filepath.Join(deploy, "gatsby-config.js"),
		filepath.Join(deploy, "publicity", "index.html"),
		filepath.Join(deploy, "src", "public", "logo.svg"),
	} {
		assert.Nil(fsys.MkdirAll(filepath.Dir(name), 0755))
		assert.Nil(fsys.WriteFile(name, []byte("x"), 0644))
		_, err := os.Stat(name)
		assert.Nil(err, name)
		assert.Equal(name, fsys.Resolve(name))
	}

	entries, err := os.ReadDir(tmp)
	assert.Nil(err)
	assert.Empty(entries)
}

func TestStreamsAreNotRewritten(t *testing.T) {
	assert := assert.New(t)
	deploy, tmp, fsys := setup(t)
	name := filepath.Join(deploy, "public", "stream.txt")

	assert.Nil(os.MkdirAll(filepath.Dir(name), 0755))
	w, err := fsys.NewWriteStream(name)
	assert.Nil(err)
	_, err = io.WriteString(w, "streamed")
	assert.Nil(err)
	assert.Nil(w.Close())

	_, err = os.Stat(name)
	assert.Nil(err)
	_, err = os.Stat(filepath.Join(tmp, "public", "stream.txt"))
	assert.True(os.IsNotExist(err))

	r, err := fsys.NewReadStream(name)
	assert.Nil(err)
	data, err := io.ReadAll(r)
	assert.Nil(err)
	assert.Nil(r.Close())
	assert.Equal("streamed", string(data))
}

func TestResolve(t *testing.T) {
	assert := assert.New(t)
	fsys := New(OS{},
		Link{From: "/var/task/public", To: "/tmp/public"},
		Link{From: "/var/task/public/static", To: "/tmp/static"},
	)

	assert.Equal("/tmp/public", fsys.Resolve("/var/task/public"))
	assert.Equal("/tmp/public", fsys.Resolve("/var/task/public/"))
	assert.Equal("/tmp/public/a/b.txt", fsys.Resolve("/var/task/public/a/../a/b.txt"))
	assert.Equal("/tmp/static/app.js", fsys.Resolve("/var/task/public/static/app.js"))
	assert.Equal("/var/task/public.json", fsys.Resolve("/var/task/public.json"))
	assert.Equal("/var/task/index.js", fsys.Resolve("/var/task/index.js"))
	assert.Equal("/var/task/public/static", fsys.Links()[0].From)
}

func TestRewriteIsIdempotent(t *testing.T) {
	assert := assert.New(t)
	deploy, tmp, first := setup(t)
	second := Rewrite(deploy, tmp)

	name := filepath.Join(deploy, ".cache", "redux.json")
	assert.Equal(first.Resolve(name), second.Resolve(name))
	assert.Equal(first.Links(), second.Links())
}

func TestErrorsPropagate(t *testing.T) {
	assert := assert.New(t)
	deploy, _, fsys := setup(t)

	_, err := fsys.ReadDir(filepath.Join(deploy, "public"))
	assert.True(os.IsNotExist(err))
}

func TestMirror(t *testing.T) {
	assert := assert.New(t)
	deploy, tmp, fsys := setup(t)
	if err := os.WriteFile(filepath.Join(deploy, "gatsby-config.js"), []byte("module.exports = {}"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(deploy, "public"), 0755); err != nil {
		t.Fatal(err)
	}
	assert.Nil(fsys.MkdirAll(filepath.Join(deploy, "public"), 0755))
	assert.Nil(fsys.MkdirAll(filepath.Join(deploy, ".cache"), 0755))

	stage := filepath.Join(tmp, "site")
	assert.Nil(fsys.Mirror(deploy, stage))
	assert.Nil(fsys.Mirror(deploy, stage))

	data, err := os.ReadFile(filepath.Join(stage, "gatsby-config.js"))
	assert.Nil(err)
	assert.Equal("module.exports = {}", string(data))

	assert.Nil(os.WriteFile(filepath.Join(stage, "public", "index.html"), []byte("<html></html>"), 0644))
	_, err = os.Stat(filepath.Join(tmp, "public", "index.html"))
	assert.Nil(err)
	_, err = os.Stat(filepath.Join(deploy, "public", "index.html"))
	assert.True(os.IsNotExist(err))

	target, err := os.Readlink(filepath.Join(stage, ".cache"))
	assert.Nil(err)
	assert.Equal(filepath.Join(tmp, ".cache"), target)
}
