package catalog

import (
	"fmt"
	"sync"
)

// Catalog holds the validated set of roles. It is safe for concurrent
// readers; Replace swaps the whole role table atomically on reload.
type Catalog struct {
	mu    sync.RWMutex
	roles map[string]*Role
}

// New builds a catalog from the given roles, validating referential
// integrity. A permission referencing an unknown resource, action, or
// scope fails the whole load.
func New(roles []Role) (*Catalog, error) {
	c := &Catalog{}
	if err := c.Replace(roles); err != nil {
		return nil, err
	}
	return c, nil
}

// Replace validates and atomically swaps the role table. On validation
// failure the previous table is left untouched.
func (c *Catalog) Replace(roles []Role) error {
	table := make(map[string]*Role, len(roles))
	for i := range roles {
		role := roles[i]
		if err := validateRole(&role); err != nil {
			return err
		}
		if _, dup := table[role.Name]; dup {
			return fmt.Errorf("catalog: duplicate role %q", role.Name)
		}
		table[role.Name] = &role
	}

	c.mu.Lock()
	c.roles = table
	c.mu.Unlock()
	return nil
}

func validateRole(r *Role) error {
	if r.Name == "" {
		return fmt.Errorf("catalog: role with empty name")
	}
	if r.Level <= 0 {
		return fmt.Errorf("catalog: role %q has non-positive level %d", r.Name, r.Level)
	}
	for _, p := range r.Permissions {
		if !p.Resource.Valid() {
			return fmt.Errorf("catalog: role %q: unknown resource %q", r.Name, p.Resource)
		}
		if !p.Action.Valid() {
			return fmt.Errorf("catalog: role %q: unknown action %q", r.Name, p.Action)
		}
		if !p.Scope.Valid() {
			return fmt.Errorf("catalog: role %q: unknown scope %q", r.Name, p.Scope)
		}
	}
	return nil
}

// Role returns the named role, or false if it is not in the catalog
func (c *Catalog) Role(name string) (*Role, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.roles[name]
	return r, ok
}

// Permissions returns the permission set of the named role. Unknown
// roles yield an empty set.
func (c *Catalog) Permissions(name string) []Permission {
	r, ok := c.Role(name)
	if !ok {
		return nil
	}
	return r.Permissions
}

// Level returns the privilege level of the named role and whether the
// role exists.
func (c *Catalog) Level(name string) (int, bool) {
	r, ok := c.Role(name)
	if !ok {
		return 0, false
	}
	return r.Level, true
}

// Find looks up a permission matching (resource, action) on the named
// role. The first match in the role's declared order wins.
func (c *Catalog) Find(name string, resource Resource, action Action) (Permission, bool) {
	r, ok := c.Role(name)
	if !ok {
		return Permission{}, false
	}
	return r.Find(resource, action)
}

// Names returns the names of all roles in the catalog
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.roles))
	for name := range c.roles {
		names = append(names, name)
	}
	return names
}

// Len returns the number of roles in the catalog
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.roles)
}
