package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapterhq/ams/pkg/authz"
	"github.com/chapterhq/ams/pkg/catalog"
)

func TestCreateAssignment(t *testing.T) {
	t.Run("state admin grants chapter admin in their state", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, http.MethodPost, "/v1/assignments", "mem-state-ca", AssignRequest{
			MemberID:       "mem-new",
			RoleName:       catalog.RoleChapterAdmin,
			ScopeType:      "chapter",
			ScopeChapterID: "ca-sf",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		var created authz.RoleAssignment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.NotEmpty(t, created.ID)
		assert.True(t, created.IsActive)

		// the new admin can act immediately
		check := env.do(t, http.MethodGet, "/v1/check?resource=chapter&action=edit&chapter_id=ca-sf", "mem-new", nil)
		require.Equal(t, http.StatusOK, check.Code)
		assert.JSONEq(t, `{"granted":true}`, check.Body.String())
	})

	t.Run("state admin cannot grant outside their state", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, http.MethodPost, "/v1/assignments", "mem-state-ca", AssignRequest{
			MemberID:       "mem-new",
			RoleName:       catalog.RoleChapterAdmin,
			ScopeType:      "chapter",
			ScopeChapterID: "tx-au",
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("cannot grant a role at or above own level", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, http.MethodPost, "/v1/assignments", "mem-state-ca", AssignRequest{
			MemberID:   "mem-new",
			RoleName:   catalog.RoleStateAdmin,
			ScopeType:  "state",
			ScopeState: "CA",
		})
		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "cannot manage a role")
	})

	t.Run("unknown role is a 400", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, http.MethodPost, "/v1/assignments", "mem-super", AssignRequest{
			MemberID:  "mem-new",
			RoleName:  "archduke",
			ScopeType: "global",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("chapter admin cannot assign at all", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, http.MethodPost, "/v1/assignments", "mem-chapter", AssignRequest{
			MemberID:       "mem-new",
			RoleName:       catalog.RoleMember,
			ScopeType:      "chapter",
			ScopeChapterID: "ca-la",
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestRevokeAssignment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.store.Assign(ctx, authz.RoleAssignment{
		MemberID:       "mem-target",
		RoleName:       catalog.RoleChapterAdmin,
		ScopeType:      authz.ScopeTypeChapter,
		ScopeChapterID: "ca-la",
	})
	require.NoError(t, err)

	t.Run("grant works until revoked", func(t *testing.T) {
		check := env.do(t, http.MethodGet, "/v1/check?resource=chapter&action=edit&chapter_id=ca-la", "mem-target", nil)
		assert.JSONEq(t, `{"granted":true}`, check.Body.String())
	})

	t.Run("state admin revokes it", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/v1/assignments/"+created.ID, "mem-state-ca", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var revoked authz.RoleAssignment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &revoked))
		assert.False(t, revoked.IsActive)

		// revocation takes effect immediately, not after cache expiry
		check := env.do(t, http.MethodGet, "/v1/check?resource=chapter&action=edit&chapter_id=ca-la", "mem-target", nil)
		assert.JSONEq(t, `{"granted":false}`, check.Body.String())
	})

	t.Run("unknown assignment is a 404", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/v1/assignments/ra-ghost", "mem-super", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListMemberAssignments(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/v1/members/mem-state-ca/assignments", "mem-super", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var assignments []authz.RoleAssignment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &assignments))
	require.Len(t, assignments, 1)
	assert.Equal(t, catalog.RoleStateAdmin, assignments[0].RoleName)
}
