package authz

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrAssignmentNotFound is returned when revoking an unknown assignment
var ErrAssignmentNotFound = fmt.Errorf("authz: assignment not found")

// MemoryStore keeps role assignments in memory, indexed by member.
// Revoked assignments stay in the store deactivated so the audit trail
// can still reference them.
type MemoryStore struct {
	mu       sync.RWMutex
	byMember map[string][]RoleAssignment
	byID     map[string]string // assignment ID -> member ID
	onChange func(memberID string)
	now      func() time.Time
}

// NewMemoryStore creates an empty assignment store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byMember: make(map[string][]RoleAssignment),
		byID:     make(map[string]string),
		now:      time.Now,
	}
}

// OnChange registers a hook invoked after every mutation with the
// affected member's ID. The resolver's Invalidate goes here so cached
// assignments never outlive a change by more than the call itself.
func (s *MemoryStore) OnChange(fn func(memberID string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

func validateAssignment(a *RoleAssignment) error {
	if a.MemberID == "" {
		return fmt.Errorf("authz: assignment needs a member ID")
	}
	if a.RoleName == "" {
		return fmt.Errorf("authz: assignment needs a role name")
	}
	switch a.ScopeType {
	case ScopeTypeGlobal:
		if a.ScopeChapterID != "" || a.ScopeState != "" {
			return fmt.Errorf("authz: global assignments carry no chapter or state")
		}
	case ScopeTypeChapter:
		if a.ScopeChapterID == "" {
			return fmt.Errorf("authz: chapter assignments need a chapter ID")
		}
	case ScopeTypeState:
		if a.ScopeState == "" {
			return fmt.Errorf("authz: state assignments need a state code")
		}
	default:
		return fmt.Errorf("authz: unknown scope type %q", a.ScopeType)
	}
	return nil
}

// Assign records a new assignment. A missing ID is generated; AssignedAt
// and IsActive are always set by the store.
func (s *MemoryStore) Assign(ctx context.Context, a RoleAssignment) (RoleAssignment, error) {
	if err := validateAssignment(&a); err != nil {
		return RoleAssignment{}, err
	}

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.AssignedAt = s.now().UTC()
	a.IsActive = true

	s.mu.Lock()
	if _, exists := s.byID[a.ID]; exists {
		s.mu.Unlock()
		return RoleAssignment{}, fmt.Errorf("authz: assignment %s already exists", a.ID)
	}
	s.byMember[a.MemberID] = append(s.byMember[a.MemberID], a)
	s.byID[a.ID] = a.MemberID
	hook := s.onChange
	s.mu.Unlock()

	if hook != nil {
		hook(a.MemberID)
	}
	return a, nil
}

// Revoke deactivates an assignment. The record stays for audit.
func (s *MemoryStore) Revoke(ctx context.Context, assignmentID string) error {
	s.mu.Lock()
	memberID, ok := s.byID[assignmentID]
	if !ok {
		s.mu.Unlock()
		return ErrAssignmentNotFound
	}
	for i := range s.byMember[memberID] {
		if s.byMember[memberID][i].ID == assignmentID {
			s.byMember[memberID][i].IsActive = false
			break
		}
	}
	hook := s.onChange
	s.mu.Unlock()

	if hook != nil {
		hook(memberID)
	}
	return nil
}

// Get returns a single assignment by ID
func (s *MemoryStore) Get(ctx context.Context, assignmentID string) (RoleAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	memberID, ok := s.byID[assignmentID]
	if !ok {
		return RoleAssignment{}, ErrAssignmentNotFound
	}
	for _, a := range s.byMember[memberID] {
		if a.ID == assignmentID {
			return a, nil
		}
	}
	return RoleAssignment{}, ErrAssignmentNotFound
}

// ForMember returns all assignments for a member, active or not, in
// assignment order. Satisfies ResolveFunc.
func (s *MemoryStore) ForMember(ctx context.Context, memberID string) ([]RoleAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]RoleAssignment, len(s.byMember[memberID]))
	copy(out, s.byMember[memberID])
	return out, nil
}
