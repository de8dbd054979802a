package filetypes

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// FileType describes one accepted upload format.
type FileType struct {
	Extension   string `yaml:"extension"`
	ContentType string `yaml:"content_type"`
	Description string `yaml:"description"`
}

type registryFile struct {
	FileTypes []FileType `yaml:"file_types"`
}

// Registry holds the accepted upload formats, loaded once from the embedded
// YAML file. It is read-only after construction.
type Registry struct {
	byExtension map[string]FileType
	ordered     []FileType
}

// NewRegistry creates a new file-type registry from the embedded YAML file
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/filetypes.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read file type config: %w", err)
	}

	var parsed registryFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal file type config: %w", err)
	}

	r := &Registry{
		byExtension: make(map[string]FileType, len(parsed.FileTypes)),
		ordered:     parsed.FileTypes,
	}
	for _, ft := range parsed.FileTypes {
		r.byExtension[strings.ToLower(ft.Extension)] = ft
	}

	return r, nil
}

// Allowed reports whether the extension is an accepted upload format.
func (r *Registry) Allowed(ext string) bool {
	_, ok := r.byExtension[strings.ToLower(ext)]
	return ok
}

// ContentTypeFor returns the MIME type registered for an extension, or
// "application/octet-stream" when unknown.
func (r *Registry) ContentTypeFor(ext string) string {
	if ft, ok := r.byExtension[strings.ToLower(ext)]; ok {
		return ft.ContentType
	}
	return "application/octet-stream"
}

// List returns all accepted formats in config order.
func (r *Registry) List() []FileType {
	return r.ordered
}
