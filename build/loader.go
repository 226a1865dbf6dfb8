package build

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/spatocode/preview/internal/log"
	"github.com/spatocode/preview/internal/utils"
)

var ErrModuleNotFound = errors.New("module not found")

// Loader finds the build tool when a build is requested rather than when
// the handler is packaged, so the tool never has to be bundled with it.
type Loader struct {
	lookPath func(string) (string, error)
}

func NewLoader() *Loader {
	return &Loader{lookPath: exec.LookPath}
}

// Resolve returns the executable for name, preferring the site's own
// node_modules/.bin over PATH.
func (l *Loader) Resolve(dir, name string) (string, error) {
	local := filepath.Join(dir, "node_modules", ".bin", name)
	if utils.FileExists(local) {
		log.Debug("resolved module from site", "module", name, "path", local)
		return local, nil
	}
	path, err := l.lookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrModuleNotFound, name)
	}
	log.Debug("resolved module from PATH", "module", name, "path", path)
	return path, nil
}

// LoadManifest reads the package.json found in dir.
func (l *Loader) LoadManifest(dir string) (*Manifest, error) {
	return ReadManifest(filepath.Join(dir, ManifestFile))
}
