// Package catalog defines the static role and permission catalog.
//
// # Overview
//
// A Permission is a (resource, action, scope) triple. A Role carries an
// integer privilege level and an ordered set of permissions. The catalog is
// read-mostly data: it is loaded once at startup (built-in system roles,
// optionally merged with a YAML file for custom roles), validated for
// referential integrity, and then only swapped wholesale on reload.
//
// # Validation
//
// Catalog validation happens at load time. A permission referencing an
// unknown resource, action, or scope is a configuration defect and fails
// the load; it never surfaces as a runtime authorization denial.
//
// # Role Levels
//
// Levels rank privilege for "highest role" resolution and management
// eligibility: a role can manage another only if its level is strictly
// greater. Built-in levels leave gaps so custom roles can slot between.
//
// # Related Packages
//
//   - pkg/authz: consumes the catalog for authorization decisions
//   - pkg/config: selects the catalog file path
package catalog
