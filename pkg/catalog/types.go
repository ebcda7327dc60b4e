package catalog

// Resource identifies an entity kind access is checked against
type Resource string

const (
	ResourceMember      Resource = "member"
	ResourceChapter     Resource = "chapter"
	ResourceEvent       Resource = "event"
	ResourceCampaign    Resource = "campaign"
	ResourceCourse      Resource = "course"
	ResourceReport      Resource = "report"
	ResourceTransaction Resource = "transaction"
	ResourceRole        Resource = "role"
	ResourceAudit       Resource = "audit"
	ResourceSystem      Resource = "system"
)

// Action is an operation performed against a resource
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
	ActionExport Action = "export"
	ActionManage Action = "manage"
	ActionAssign Action = "assign"
)

// Scope is the breadth of a permission grant
type Scope string

const (
	ScopeOwn      Scope = "own"
	ScopeChapter  Scope = "chapter"
	ScopeState    Scope = "state"
	ScopeNational Scope = "national"
	ScopeAll      Scope = "all"
	ScopePublic   Scope = "public"
)

var knownResources = map[Resource]bool{
	ResourceMember:      true,
	ResourceChapter:     true,
	ResourceEvent:       true,
	ResourceCampaign:    true,
	ResourceCourse:      true,
	ResourceReport:      true,
	ResourceTransaction: true,
	ResourceRole:        true,
	ResourceAudit:       true,
	ResourceSystem:      true,
}

var knownActions = map[Action]bool{
	ActionView:   true,
	ActionCreate: true,
	ActionEdit:   true,
	ActionDelete: true,
	ActionExport: true,
	ActionManage: true,
	ActionAssign: true,
}

var knownScopes = map[Scope]bool{
	ScopeOwn:      true,
	ScopeChapter:  true,
	ScopeState:    true,
	ScopeNational: true,
	ScopeAll:      true,
	ScopePublic:   true,
}

// Valid reports whether the resource is a known enum value
func (r Resource) Valid() bool { return knownResources[r] }

// Valid reports whether the action is a known enum value
func (a Action) Valid() bool { return knownActions[a] }

// Valid reports whether the scope is a known enum value
func (s Scope) Valid() bool { return knownScopes[s] }

// Permission identifies a capability as (resource, action, scope).
// Immutable once defined; belongs to the catalog.
type Permission struct {
	Resource Resource `json:"resource" yaml:"resource"`
	Action   Action   `json:"action" yaml:"action"`
	Scope    Scope    `json:"scope" yaml:"scope"`
}

// String returns the permission in "resource.action@scope" form
func (p Permission) String() string {
	return string(p.Resource) + "." + string(p.Action) + "@" + string(p.Scope)
}

// Role is a named set of permissions with an integer privilege level.
// Levels strictly increase with privilege and are used for "highest role"
// resolution and management eligibility.
type Role struct {
	Name        string       `json:"name" yaml:"name"`
	DisplayName string       `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	Level       int          `json:"level" yaml:"level"`
	System      bool         `json:"system" yaml:"system"`
	Permissions []Permission `json:"permissions" yaml:"permissions"`
}

// Find returns the first permission on the role matching (resource, action)
func (r *Role) Find(resource Resource, action Action) (Permission, bool) {
	for _, p := range r.Permissions {
		if p.Resource == resource && p.Action == action {
			return p, true
		}
	}
	return Permission{}, false
}

// CanManage reports whether a role at managerLevel may manage a role at
// targetLevel. Equal levels never manage each other; that would allow
// lateral privilege escalation.
func CanManage(managerLevel, targetLevel int) bool {
	return managerLevel > targetLevel
}
