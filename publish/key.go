package publish

import (
	"path/filepath"
	"strings"
)

// KeyFunc maps the absolute path of a published file to its object key.
type KeyFunc func(path string) string

// SplitKey splits path on the literal "public" and keys the object with the
// last piece, so "/var/task/public/sub/b.txt" becomes "/sub/b.txt". Any
// other "public" further down the path also splits it.
func SplitKey(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "public")
	return parts[len(parts)-1]
}

// RelativeKey keys objects by their slash separated path relative to root.
func RelativeKey(root string) KeyFunc {
	base, err := filepath.Abs(root)
	if err != nil {
		base = root
	}
	return func(path string) string {
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return filepath.ToSlash(path)
		}
		return filepath.ToSlash(rel)
	}
}
