package script

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/strandscript/libscript/pkg/host"
)

// ManifestModule is one declarative module entry: the script file backing
// it and the names it exports. A manifest gives a file-based embedding a
// module registry without writing Go registration code.
type ManifestModule struct {
	Path    string   `yaml:"path"`
	Exports []string `yaml:"exports"`
}

// Manifest is the YAML document shape:
//
//	modules:
//	  math.linear:
//	    path: modules/linear.lsc
//	    exports: [Vector, Matrix]
type Manifest struct {
	Modules map[string]ManifestModule `yaml:"modules"`
}

// LoadManifest parses a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseManifest(raw)
}

// ParseManifest parses manifest YAML.
func ParseManifest(raw []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("invalid module manifest: %w", err)
	}
	return &m, nil
}

// Install registers every manifest module on the engine's registry. Each
// module's load callback compiles its backing script through the same
// engine; a module whose script fails to compile fails the import that
// pulled it in.
func (m *Manifest) Install(e *Engine) {
	for name, mod := range m.Modules {
		entry := mod
		moduleName := name
		e.Modules().Register(moduleName, host.Module{
			Load: func() error {
				s, err := e.LoadScript(entry.Path)
				if err != nil {
					return fmt.Errorf("module %q: %w", moduleName, err)
				}
				if !s.Compile() {
					return fmt.Errorf("module %q failed to compile", moduleName)
				}
				return nil
			},
		})
	}
}
