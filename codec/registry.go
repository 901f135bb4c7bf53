package codec

import (
	"strings"
	"sync"

	"github.com/cocosip/go-impex/pixel"
)

// Registry manages the available file formats
type Registry struct {
	mu      sync.RWMutex
	formats map[string]Format // key can be either name or extension
}

var defaultRegistry = &Registry{
	formats: make(map[string]Format),
}

// Register registers a format using both its name and extensions
func Register(f Format) {
	defaultRegistry.Register(f)
}

// Get retrieves a format by name or extension
func Get(nameOrExt string) (Format, error) {
	return defaultRegistry.Get(nameOrExt)
}

// List returns all registered formats
func List() []Format {
	return defaultRegistry.List()
}

// IsPixelTypeSupported reports whether the named format can store samples
// of the given native type. Unknown formats support nothing.
func IsPixelTypeSupported(fileType string, t pixel.Type) bool {
	f, err := Get(fileType)
	if err != nil {
		return false
	}
	return f.SupportsPixelType(t)
}

// Register registers a format using both its name and extensions
func (r *Registry) Register(f Format) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.formats[strings.ToUpper(f.Name())] = f
	for _, ext := range f.Extensions() {
		r.formats[strings.ToUpper(ext)] = f
	}
}

// Get retrieves a format by name or extension
func (r *Registry) Get(nameOrExt string) (Format, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.formats[strings.ToUpper(nameOrExt)]
	if !ok {
		return nil, ErrFormatNotFound
	}
	return f, nil
}

// List returns all registered formats (deduplicated)
func (r *Registry) List() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[Format]bool)
	formats := make([]Format, 0)

	for _, f := range r.formats {
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}

	return formats
}
