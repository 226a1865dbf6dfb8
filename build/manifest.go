package build

import (
	"encoding/json"
	"os"
)

const ManifestFile = "package.json"

// Manifest is the part of a site's package.json the build looks at.
type Manifest struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	Scripts         map[string]string `json:"scripts"`
}

func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseManifest(data)
}

func ParseManifest(data []byte) (*Manifest, error) {
	m := &Manifest{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Requires reports whether the manifest declares module as a runtime
// dependency.
func (m *Manifest) Requires(module string) bool {
	_, ok := m.Dependencies[module]
	return ok
}

// StripDevDependencies removes devDependencies from a package.json document
// and leaves every other field as it was.
func StripDevDependencies(data []byte) ([]byte, error) {
	doc := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	delete(doc, "devDependencies")
	return json.MarshalIndent(doc, "", "  ")
}
