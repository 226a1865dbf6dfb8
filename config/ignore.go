package config

import (
	"bufio"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const IgnoreFile = ".previewignore"

var DefaultIgnoredGlobs = []string{
	".git",
	".hg",
	".vscode",
	".DS_Store",
	"/.cache",
	"/public",
	"/dist",
	".zip",
	"*.go",
	"go.mod",
	"go.sum",
	"preview.json",
	IgnoreFile,
}

// ReadIgnoredFiles reads one glob per line, skipping blanks and # comments.
func ReadIgnoredFiles(name string) ([]string, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var globs []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		globs = append(globs, line)
	}
	return globs, scanner.Err()
}

// Ignored reports whether rel, a path relative to the copied directory,
// matches one of globs. A glob starting with "/" is anchored to the copied
// directory; any other glob matches the file name or, when it starts with a
// dot, a suffix of it.
func Ignored(rel string, globs []string) bool {
	rel = filepath.ToSlash(filepath.Clean(rel))
	base := path.Base(rel)
	for _, glob := range globs {
		if anchored, ok := strings.CutPrefix(glob, "/"); ok {
			if match, _ := path.Match(anchored, rel); match {
				return true
			}
			continue
		}
		if match, _ := path.Match(glob, base); match {
			return true
		}
		if match, _ := path.Match(glob, rel); match {
			return true
		}
		if strings.HasPrefix(glob, ".") && strings.HasSuffix(base, glob) {
			return true
		}
	}
	return false
}
