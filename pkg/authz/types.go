package authz

import (
	"time"

	"github.com/chapterhq/ams/pkg/catalog"
)

// ScopeType bounds a role assignment to an organizational position
type ScopeType string

const (
	// ScopeTypeGlobal bypasses all scope checks
	ScopeTypeGlobal ScopeType = "global"
	// ScopeTypeChapter bounds the assignment to a single chapter
	ScopeTypeChapter ScopeType = "chapter"
	// ScopeTypeState bounds the assignment to every chapter in a state
	ScopeTypeState ScopeType = "state"
)

// RoleAssignment is a member's grant of a catalog role. Assignments are
// never physically deleted; they become ineffective by revocation
// (IsActive=false) or expiry, and stay around for audit.
type RoleAssignment struct {
	ID             string     `json:"id"`
	MemberID       string     `json:"member_id"`
	RoleName       string     `json:"role_name"`
	ScopeType      ScopeType  `json:"scope_type"`
	ScopeChapterID string     `json:"scope_chapter_id,omitempty"` // set when ScopeType is chapter
	ScopeState     string     `json:"scope_state,omitempty"`      // set when ScopeType is state
	AssignedAt     time.Time  `json:"assigned_at"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	IsActive       bool       `json:"is_active"`
}

// EffectiveAt reports whether the assignment contributes to grants at
// the given instant: active and not expired.
func (a *RoleAssignment) EffectiveAt(now time.Time) bool {
	if !a.IsActive {
		return false
	}
	if a.ExpiresAt != nil && !a.ExpiresAt.After(now) {
		return false
	}
	return true
}

// targetKind discriminates TargetScope variants
type targetKind int

const (
	targetNone targetKind = iota
	targetChapter
	targetState
)

// TargetScope locates the entity access is being checked against. It is
// a tagged variant: no target at all, a chapter (optionally with its
// resolved state), or a bare state. Constructors keep the two fields
// from drifting into ambiguous combinations.
type TargetScope struct {
	kind      targetKind
	chapterID string
	state     string
}

// NoTarget is a check with no particular target entity
func NoTarget() TargetScope { return TargetScope{} }

// ByChapter targets a chapter whose state has not been resolved
func ByChapter(chapterID string) TargetScope {
	return TargetScope{kind: targetChapter, chapterID: chapterID}
}

// ByChapterInState targets a chapter together with its resolved state
// code. Callers populate the state via org.StateOf so that state-scoped
// assignments can cover chapters in their state.
func ByChapterInState(chapterID, state string) TargetScope {
	return TargetScope{kind: targetChapter, chapterID: chapterID, state: state}
}

// ByState targets a whole state
func ByState(state string) TargetScope {
	return TargetScope{kind: targetState, state: state}
}

// IsNone reports whether no target entity was given
func (t TargetScope) IsNone() bool { return t.kind == targetNone }

// ChapterID returns the target chapter ID, if one was given
func (t TargetScope) ChapterID() (string, bool) {
	if t.kind == targetChapter {
		return t.chapterID, true
	}
	return "", false
}

// State returns the target state code, if one was given
func (t TargetScope) State() (string, bool) {
	if t.state != "" && (t.kind == targetChapter || t.kind == targetState) {
		return t.state, true
	}
	return "", false
}

// Decision is the outcome of an authorization check. Granted decisions
// carry the assignment and permission that matched; denials carry a
// machine-readable reason.
type Decision struct {
	Granted           bool                `json:"granted"`
	Reason            string              `json:"reason,omitempty"`
	MatchedRole       string              `json:"matched_role,omitempty"`
	MatchedPermission *catalog.Permission `json:"matched_permission,omitempty"`
	MatchedAssignment *RoleAssignment     `json:"matched_assignment,omitempty"`
}

// Denial reasons
const (
	ReasonNoActiveRoles = "no active roles"
)

// HighestRole returns the effective assignment with the maximum role
// level, or nil when the actor has no effective assignments. Ties keep
// the first encountered. Assignments naming roles absent from the
// catalog cannot be ranked and are skipped.
func HighestRole(cat *catalog.Catalog, assignments []RoleAssignment, now time.Time) *RoleAssignment {
	var best *RoleAssignment
	bestLevel := -1
	for i := range assignments {
		a := &assignments[i]
		if !a.EffectiveAt(now) {
			continue
		}
		level, ok := cat.Level(a.RoleName)
		if !ok {
			continue
		}
		if level > bestLevel {
			best = a
			bestLevel = level
		}
	}
	return best
}
