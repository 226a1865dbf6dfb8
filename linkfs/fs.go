// Package linkfs provides the filesystem seen by the site build and the
// publisher, and a decorator that redirects selected directories elsewhere.
package linkfs

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// FS is the set of filesystem operations the build and publish steps use.
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	ReadDir(name string) ([]fs.DirEntry, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(name string, perm fs.FileMode) error
	RemoveAll(name string) error
	Open(name string) (*os.File, error)
	Create(name string) (*os.File, error)

	// NewReadStream and NewWriteStream open streaming handles. They are
	// never subject to path rewriting.
	NewReadStream(name string) (io.ReadCloser, error)
	NewWriteStream(name string) (io.WriteCloser, error)

	// Resolve returns the physical path name refers to.
	Resolve(name string) string
}

// OS is the real filesystem.
type OS struct{}

var _ FS = OS{}

func (OS) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }
func (OS) ReadDir(name string) ([]fs.DirEntry, error) { return os.ReadDir(name) }
func (OS) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }
func (OS) MkdirAll(name string, perm fs.FileMode) error {
	return os.MkdirAll(name, perm)
}
func (OS) RemoveAll(name string) error { return os.RemoveAll(name) }
func (OS) Open(name string) (*os.File, error) { return os.Open(name) }
func (OS) Create(name string) (*os.File, error) { return os.Create(name) }
func (OS) Resolve(name string) string { return filepath.Clean(name) }

func (OS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(name, data, perm)
}

func (OS) NewReadStream(name string) (io.ReadCloser, error) {
	return os.Open(name)
}

func (OS) NewWriteStream(name string) (io.WriteCloser, error) {
	return os.Create(name)
}
