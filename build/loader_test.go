package build

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePrefersSiteModules(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	bin := filepath.Join(dir, "node_modules", ".bin", "gatsby")
	if err := os.MkdirAll(filepath.Dir(bin), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}

	l := &Loader{lookPath: foundOnPath}
	path, err := l.Resolve(dir, "gatsby")
	assert.Nil(err)
	assert.Equal(bin, path)

	path, err = l.Resolve(t.TempDir(), "gatsby")
	assert.Nil(err)
	assert.Equal("/usr/local/bin/gatsby", path)
}

func TestResolveNotFound(t *testing.T) {
	assert := assert.New(t)
	l := &Loader{lookPath: notOnPath}

	_, err := l.Resolve(t.TempDir(), "gatsby")
	assert.ErrorIs(err, ErrModuleNotFound)
	assert.EqualError(err, "module not found: gatsby")
}

func TestLoadManifestAtCallTime(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	l := NewLoader()

	_, err := l.LoadManifest(dir)
	assert.True(os.IsNotExist(err))

	manifest := `{"name": "site", "version": "1.0.0", "dependencies": {"gatsby": "^5.0.0"}}`
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), []byte(manifest), 0644); err != nil {
		t.Fatal(err)
	}
	m, err := l.LoadManifest(dir)
	assert.Nil(err)
	assert.Equal("site", m.Name)
	assert.True(m.Requires("gatsby"))
	assert.False(m.Requires("react"))
}

func TestStripDevDependencies(t *testing.T) {
	assert := assert.New(t)
	manifest := []byte(`{
		"name": "site",
		"private": true,
		"dependencies": {"gatsby": "^5.0.0"},
		"devDependencies": {"webpack": "^5.0.0"},
		"scripts": {"build": "gatsby build"}
	}`)

	stripped, err := StripDevDependencies(manifest)
	assert.Nil(err)

	m, err := ParseManifest(stripped)
	assert.Nil(err)
	assert.Equal("site", m.Name)
	assert.Nil(m.DevDependencies)
	assert.Equal("^5.0.0", m.Dependencies["gatsby"])
	assert.Equal("gatsby build", m.Scripts["build"])
	assert.Contains(string(stripped), `"private": true`)

	_, err = StripDevDependencies([]byte("not json"))
	assert.NotNil(err)
}
