package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk catalog format. Roles declared in the file are
// merged on top of the built-in system roles; a file role may not reuse
// a system role name.
type File struct {
	Roles []Role `yaml:"roles"`
}

// Load reads a catalog file and returns the merged catalog of built-in
// plus custom roles. An empty path yields the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Builtin(), nil
	}
	roles, err := loadRoles(path)
	if err != nil {
		return nil, err
	}
	return New(roles)
}

// Reload re-reads the catalog file and swaps the role table in place.
// On any error the catalog keeps serving the previous table.
func (c *Catalog) Reload(path string) error {
	roles, err := loadRoles(path)
	if err != nil {
		return err
	}
	return c.Replace(roles)
}

func loadRoles(path string) ([]Role, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}

	builtin := BuiltinRoles()
	system := make(map[string]bool, len(builtin))
	for _, r := range builtin {
		system[r.Name] = true
	}

	merged := builtin
	for _, r := range f.Roles {
		if system[r.Name] {
			return nil, fmt.Errorf("catalog: %s: role %q shadows a system role", path, r.Name)
		}
		r.System = false
		merged = append(merged, r)
	}
	return merged, nil
}
