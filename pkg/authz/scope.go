package authz

import "github.com/chapterhq/ams/pkg/catalog"

// scopeCovers decides whether a permission's declared scope, granted
// under the given assignment, covers the target. Pure and O(1): no
// chapter-tree walking happens here. Ownership for "own"-scoped
// permissions is the caller's check (actor ID against resource owner)
// before authorization is invoked; this validator only sees scopes.
func scopeCovers(scope catalog.Scope, a *RoleAssignment, target TargetScope) bool {
	// Public resources are visible to anyone.
	if scope == catalog.ScopePublic {
		return true
	}

	// Global assignments bypass every scope check.
	if a.ScopeType == ScopeTypeGlobal {
		return true
	}

	switch scope {
	case catalog.ScopeOwn:
		return true

	case catalog.ScopeNational, catalog.ScopeAll:
		// Only global assignments reach national/all breadth, and those
		// were handled above.
		return false

	case catalog.ScopeChapter:
		switch a.ScopeType {
		case ScopeTypeChapter:
			id, ok := target.ChapterID()
			return !ok || id == a.ScopeChapterID
		case ScopeTypeState:
			// A state admin's chapter-scoped permission applies to any
			// chapter within their state.
			state, ok := target.State()
			return !ok || state == a.ScopeState
		}
		return false

	case catalog.ScopeState:
		if a.ScopeType != ScopeTypeState {
			return false
		}
		state, ok := target.State()
		return !ok || state == a.ScopeState
	}

	return false
}
