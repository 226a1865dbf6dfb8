package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIgnoredFiles(t *testing.T) {
	assert := assert.New(t)
	name := filepath.Join(t.TempDir(), IgnoreFile)
	content := "# local files\nfirstfile\n\n  secondfile  \n"
	if err := os.WriteFile(name, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	files, err := ReadIgnoredFiles(name)
	expected := []string{"firstfile", "secondfile"}
	assert.Nil(err)
	assert.Equal(expected, files)

	_, err = ReadIgnoredFiles(filepath.Join(t.TempDir(), "missing"))
	assert.True(os.IsNotExist(err))
}

func TestIgnored(t *testing.T) {
	tests := []struct {
		rel     string
		ignored bool
	}{
		{".git", true},
		{"src/.DS_Store", true},
		{"public", true},
		{"public/index.html", false},
		{"node_modules/pkg/public", false},
		{".cache", true},
		{"dist", true},
		{"site.zip", true},
		{"src/pages/index.js", false},
		{"node_modules/.bin/gatsby", false},
		{IgnoreFile, true},
		{"cmd/lambda/hello/main.go", true},
		{"go.mod", true},
	}
	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.ignored, Ignored(tt.rel, DefaultIgnoredGlobs))
		})
	}

	assert.True(t, Ignored("src/secret.env", []string{"*.env"}))
	assert.True(t, Ignored("src/drafts", []string{"/src/drafts"}))
	assert.False(t, Ignored("other/src/drafts", []string{"/src/drafts"}))
}
