package linkfs

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Link redirects the directory From, and everything below it, to To.
type Link struct {
	From string
	To   string
}

// Linked rewrites linked paths before handing them to the base FS.
type Linked struct {
	base  FS
	links []Link
}

var _ FS = (*Linked)(nil)

// New wraps base so that paths under any link's From are served from its To.
// When links overlap the longest From wins.
func New(base FS, links ...Link) *Linked {
	l := &Linked{base: base}
	for _, link := range links {
		l.links = append(l.links, Link{From: absolute(link.From), To: absolute(link.To)})
	}
	sort.SliceStable(l.links, func(i, j int) bool {
		return len(l.links[i].From) > len(l.links[j].From)
	})
	return l
}

// Rewrite redirects the build cache and output directories of deployDir to
// tmpDir, over the real filesystem.
func Rewrite(deployDir, tmpDir string) *Linked {
	return New(OS{},
		Link{From: filepath.Join(deployDir, ".cache"), To: filepath.Join(tmpDir, ".cache")},
		Link{From: filepath.Join(deployDir, "public"), To: filepath.Join(tmpDir, "public")},
	)
}

// Links returns the active redirections, longest source first.
func (l *Linked) Links() []Link {
	return append([]Link(nil), l.links...)
}

func (l *Linked) Resolve(name string) string {
	p := absolute(name)
	for _, link := range l.links {
		if p == link.From {
			return link.To
		}
		if rest, ok := strings.CutPrefix(p, link.From+string(filepath.Separator)); ok {
			return filepath.Join(link.To, rest)
		}
	}
	return l.base.Resolve(name)
}

func (l *Linked) Stat(name string) (fs.FileInfo, error) {
	return l.base.Stat(l.Resolve(name))
}

func (l *Linked) ReadDir(name string) ([]fs.DirEntry, error) {
	return l.base.ReadDir(l.Resolve(name))
}

func (l *Linked) ReadFile(name string) ([]byte, error) {
	return l.base.ReadFile(l.Resolve(name))
}

func (l *Linked) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return l.base.WriteFile(l.Resolve(name), data, perm)
}

func (l *Linked) MkdirAll(name string, perm fs.FileMode) error {
	return l.base.MkdirAll(l.Resolve(name), perm)
}

func (l *Linked) RemoveAll(name string) error {
	return l.base.RemoveAll(l.Resolve(name))
}

func (l *Linked) Open(name string) (*os.File, error) {
	return l.base.Open(l.Resolve(name))
}

func (l *Linked) Create(name string) (*os.File, error) {
	return l.base.Create(l.Resolve(name))
}

// NewReadStream is inherited from the base FS unchanged.
func (l *Linked) NewReadStream(name string) (io.ReadCloser, error) {
	return l.base.NewReadStream(name)
}

// NewWriteStream is inherited from the base FS unchanged.
func (l *Linked) NewWriteStream(name string) (io.WriteCloser, error) {
	return l.base.NewWriteStream(name)
}

func absolute(name string) string {
	p, err := filepath.Abs(name)
	if err != nil {
		return filepath.Clean(name)
	}
	return p
}

// Mirror fills stage with symlinks to every entry of dir, except that
// entries which are link sources point at their link targets instead. A
// subprocess started in stage then reads the deployment as is while its
// writes to linked directories end up in the targets.
func (l *Linked) Mirror(dir, stage string) error {
	dir = absolute(dir)
	if err := os.MkdirAll(stage, 0755); err != nil {
		return err
	}

	targets := map[string]string{}
	for _, link := range l.links {
		if filepath.Dir(link.From) == dir {
			targets[filepath.Base(link.From)] = link.To
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if _, ok := targets[entry.Name()]; ok {
			continue
		}
		targets[entry.Name()] = filepath.Join(dir, entry.Name())
	}

	for name, target := range targets {
		p := filepath.Join(stage, name)
		if err := os.RemoveAll(p); err != nil {
			return err
		}
		if err := os.Symlink(target, p); err != nil {
			return err
		}
	}
	return nil
}
