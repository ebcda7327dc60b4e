package authz

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapterhq/ams/pkg/authz/cache"
	"github.com/chapterhq/ams/pkg/catalog"
)

func TestMemoryStoreAssign(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	a, err := store.Assign(ctx, RoleAssignment{
		MemberID:       "mem-001",
		RoleName:       catalog.RoleChapterAdmin,
		ScopeType:      ScopeTypeChapter,
		ScopeChapterID: "ca-la",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.True(t, a.IsActive)
	assert.False(t, a.AssignedAt.IsZero())

	got, err := store.ForMember(ctx, "mem-001")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].ID)
}

func TestMemoryStoreAssignValidation(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	tests := []struct {
		name       string
		assignment RoleAssignment
		wantErr    string
	}{
		{
			name:       "missing member",
			assignment: RoleAssignment{RoleName: catalog.RoleMember, ScopeType: ScopeTypeGlobal},
			wantErr:    "member ID",
		},
		{
			name:       "missing role",
			assignment: RoleAssignment{MemberID: "mem-001", ScopeType: ScopeTypeGlobal},
			wantErr:    "role name",
		},
		{
			name: "chapter scope without chapter",
			assignment: RoleAssignment{
				MemberID: "mem-001", RoleName: catalog.RoleChapterAdmin, ScopeType: ScopeTypeChapter,
			},
			wantErr: "chapter ID",
		},
		{
			name: "state scope without state",
			assignment: RoleAssignment{
				MemberID: "mem-001", RoleName: catalog.RoleStateAdmin, ScopeType: ScopeTypeState,
			},
			wantErr: "state code",
		},
		{
			name: "global scope carrying a chapter",
			assignment: RoleAssignment{
				MemberID: "mem-001", RoleName: catalog.RoleSuperAdmin,
				ScopeType: ScopeTypeGlobal, ScopeChapterID: "ca-la",
			},
			wantErr: "no chapter or state",
		},
		{
			name: "unknown scope type",
			assignment: RoleAssignment{
				MemberID: "mem-001", RoleName: catalog.RoleMember, ScopeType: "county",
			},
			wantErr: "unknown scope type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Assign(ctx, tt.assignment)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMemoryStoreRevoke(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	a, err := store.Assign(ctx, RoleAssignment{
		MemberID: "mem-001", RoleName: catalog.RoleSuperAdmin, ScopeType: ScopeTypeGlobal,
	})
	require.NoError(t, err)

	require.NoError(t, store.Revoke(ctx, a.ID))

	// the record stays, deactivated
	got, err := store.ForMember(ctx, "mem-001")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].IsActive)

	assert.ErrorIs(t, store.Revoke(ctx, "ra-nope"), ErrAssignmentNotFound)
}

func TestMemoryStoreOnChange(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var changed []string
	store.OnChange(func(memberID string) { changed = append(changed, memberID) })

	a, err := store.Assign(ctx, RoleAssignment{
		MemberID: "mem-001", RoleName: catalog.RoleMember,
		ScopeType: ScopeTypeChapter, ScopeChapterID: "ca-la",
	})
	require.NoError(t, err)
	require.NoError(t, store.Revoke(ctx, a.ID))

	assert.Equal(t, []string{"mem-001", "mem-001"}, changed)
}

func TestMemoryStoreFeedsResolver(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	resolver := NewResolver(cache.NewMemory[[]RoleAssignment](16, time.Minute), store.ForMember)
	store.OnChange(func(memberID string) { resolver.Invalidate(ctx, memberID) })

	a, err := store.Assign(ctx, RoleAssignment{
		MemberID: "mem-001", RoleName: catalog.RoleSuperAdmin, ScopeType: ScopeTypeGlobal,
	})
	require.NoError(t, err)

	got, err := resolver.Assignments(ctx, "mem-001")
	require.NoError(t, err)
	require.Len(t, got, 1)

	// revoking must be visible immediately, not after TTL expiry
	require.NoError(t, store.Revoke(ctx, a.ID))

	got, err = resolver.Assignments(ctx, "mem-001")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].IsActive)
}
