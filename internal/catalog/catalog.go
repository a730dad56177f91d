package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/anxmeshhh/PrepIQ/internal/model"
)

// ErrUnknownDomain is returned for a domain key the catalog does not know
var ErrUnknownDomain = errors.New("unknown interview domain")

// Catalog is the static registry of interview domains. It is built once at
// startup and read-only afterwards.
type Catalog struct {
	domains   map[string]model.Domain
	resources map[string][]model.StudyResource
}

// New returns a catalog populated with the built-in domains
func New() *Catalog {
	c := &Catalog{
		domains:   make(map[string]model.Domain),
		resources: make(map[string][]model.StudyResource),
	}
	for _, d := range builtinDomains {
		c.domains[d.Key] = d
	}
	for key, res := range builtinResources {
		c.resources[key] = res
	}
	return c
}

// catalogFile is the YAML overlay format
type catalogFile struct {
	Domains   []model.Domain                   `yaml:"domains"`
	Resources map[string][]model.StudyResource `yaml:"resources"`
}

// LoadFile overlays domains and resources from a YAML file. Existing keys
// are replaced, unknown keys are added.
func (c *Catalog) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read catalog file: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse catalog file: %w", err)
	}

	for _, d := range file.Domains {
		if d.Key == "" || d.Name == "" {
			return fmt.Errorf("catalog file %s: domain entries need key and name", path)
		}
		c.domains[d.Key] = d
	}
	for key, res := range file.Resources {
		c.resources[key] = res
	}
	return nil
}

// Get looks up a domain by key
func (c *Catalog) Get(key string) (*model.Domain, error) {
	d, ok := c.domains[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDomain, key)
	}
	return &d, nil
}

// List returns all domains in stable key order
func (c *Catalog) List() []model.Domain {
	keys := make([]string, 0, len(c.domains))
	for k := range c.domains {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]model.Domain, 0, len(keys))
	for _, k := range keys {
		out = append(out, c.domains[k])
	}
	return out
}

// StudyResources returns the curated resource list for a domain,
// empty for domains without one.
func (c *Catalog) StudyResources(key string) []model.StudyResource {
	return c.resources[key]
}
