package catalog

// Built-in system role names
const (
	RoleMember        = "member"
	RoleChapterAdmin  = "chapter_admin"
	RoleStateAdmin    = "state_admin"
	RoleNationalAdmin = "national_admin"
	RoleSuperAdmin    = "super_admin"
)

// Built-in privilege levels. Gaps are intentional so custom roles can
// slot between system roles.
const (
	LevelMember        = 10
	LevelChapterAdmin  = 40
	LevelStateAdmin    = 60
	LevelNationalAdmin = 80
	LevelSuperAdmin    = 100
)

// BuiltinRoles returns the system-defined role set. Custom roles loaded
// from the catalog file are merged on top of these.
func BuiltinRoles() []Role {
	return []Role{
		{
			Name:        RoleMember,
			DisplayName: "Member",
			Level:       LevelMember,
			System:      true,
			Permissions: []Permission{
				{ResourceMember, ActionView, ScopeOwn},
				{ResourceMember, ActionEdit, ScopeOwn},
				{ResourceChapter, ActionView, ScopePublic},
				{ResourceEvent, ActionView, ScopeChapter},
				{ResourceCourse, ActionView, ScopeChapter},
				{ResourceTransaction, ActionView, ScopeOwn},
			},
		},
		{
			Name:        RoleChapterAdmin,
			DisplayName: "Chapter Administrator",
			Level:       LevelChapterAdmin,
			System:      true,
			Permissions: []Permission{
				{ResourceMember, ActionView, ScopeChapter},
				{ResourceMember, ActionCreate, ScopeChapter},
				{ResourceMember, ActionEdit, ScopeChapter},
				{ResourceMember, ActionExport, ScopeChapter},
				{ResourceChapter, ActionView, ScopeChapter},
				{ResourceChapter, ActionEdit, ScopeChapter},
				{ResourceEvent, ActionManage, ScopeChapter},
				{ResourceCampaign, ActionManage, ScopeChapter},
				{ResourceCourse, ActionManage, ScopeChapter},
				{ResourceReport, ActionView, ScopeChapter},
			},
		},
		{
			Name:        RoleStateAdmin,
			DisplayName: "State Administrator",
			Level:       LevelStateAdmin,
			System:      true,
			Permissions: []Permission{
				{ResourceMember, ActionView, ScopeState},
				{ResourceMember, ActionCreate, ScopeState},
				{ResourceMember, ActionEdit, ScopeState},
				{ResourceMember, ActionExport, ScopeState},
				{ResourceChapter, ActionView, ScopeState},
				{ResourceChapter, ActionCreate, ScopeState},
				{ResourceChapter, ActionEdit, ScopeState},
				{ResourceChapter, ActionDelete, ScopeState},
				{ResourceEvent, ActionManage, ScopeState},
				{ResourceCampaign, ActionManage, ScopeState},
				{ResourceReport, ActionView, ScopeState},
				{ResourceReport, ActionExport, ScopeState},
				{ResourceRole, ActionAssign, ScopeState},
			},
		},
		{
			Name:        RoleNationalAdmin,
			DisplayName: "National Administrator",
			Level:       LevelNationalAdmin,
			System:      true,
			Permissions: []Permission{
				{ResourceMember, ActionView, ScopeNational},
				{ResourceMember, ActionCreate, ScopeNational},
				{ResourceMember, ActionEdit, ScopeNational},
				{ResourceMember, ActionExport, ScopeNational},
				{ResourceMember, ActionManage, ScopeNational},
				{ResourceChapter, ActionView, ScopeNational},
				{ResourceChapter, ActionCreate, ScopeNational},
				{ResourceChapter, ActionEdit, ScopeNational},
				{ResourceChapter, ActionDelete, ScopeNational},
				{ResourceChapter, ActionManage, ScopeNational},
				{ResourceEvent, ActionManage, ScopeNational},
				{ResourceCampaign, ActionManage, ScopeNational},
				{ResourceCourse, ActionManage, ScopeNational},
				{ResourceReport, ActionView, ScopeNational},
				{ResourceReport, ActionExport, ScopeNational},
				{ResourceReport, ActionManage, ScopeNational},
				{ResourceTransaction, ActionView, ScopeNational},
				{ResourceRole, ActionAssign, ScopeNational},
				{ResourceAudit, ActionView, ScopeNational},
				{ResourceAudit, ActionExport, ScopeNational},
			},
		},
		{
			Name:        RoleSuperAdmin,
			DisplayName: "Super Administrator",
			Level:       LevelSuperAdmin,
			System:      true,
			Permissions: []Permission{
				{ResourceMember, ActionView, ScopeAll},
				{ResourceMember, ActionCreate, ScopeAll},
				{ResourceMember, ActionEdit, ScopeAll},
				{ResourceMember, ActionDelete, ScopeAll},
				{ResourceMember, ActionExport, ScopeAll},
				{ResourceMember, ActionManage, ScopeAll},
				{ResourceChapter, ActionView, ScopeAll},
				{ResourceChapter, ActionCreate, ScopeAll},
				{ResourceChapter, ActionEdit, ScopeAll},
				{ResourceChapter, ActionDelete, ScopeAll},
				{ResourceChapter, ActionManage, ScopeAll},
				{ResourceEvent, ActionManage, ScopeAll},
				{ResourceCampaign, ActionManage, ScopeAll},
				{ResourceCourse, ActionManage, ScopeAll},
				{ResourceReport, ActionView, ScopeAll},
				{ResourceReport, ActionExport, ScopeAll},
				{ResourceReport, ActionManage, ScopeAll},
				{ResourceTransaction, ActionView, ScopeAll},
				{ResourceTransaction, ActionManage, ScopeAll},
				{ResourceRole, ActionAssign, ScopeAll},
				{ResourceRole, ActionManage, ScopeAll},
				{ResourceAudit, ActionView, ScopeAll},
				{ResourceAudit, ActionExport, ScopeAll},
				{ResourceSystem, ActionManage, ScopeAll},
			},
		},
	}
}

// Builtin returns a catalog containing only the system roles. The
// built-in set is known good, so validation failure is a programming
// error and panics.
func Builtin() *Catalog {
	c, err := New(BuiltinRoles())
	if err != nil {
		panic("catalog: builtin roles failed validation: " + err.Error())
	}
	return c
}
