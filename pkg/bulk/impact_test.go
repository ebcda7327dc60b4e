package bulk

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapterhq/ams/pkg/org"
)

func TestAnalyzeDelete_NoImpact(t *testing.T) {
	chapters := []*org.Chapter{
		{ID: "nat", Type: org.ChapterNational},
		{ID: "tx", Type: org.ChapterState, ParentChapterID: "nat", State: "TX"},
		{ID: "tx-au", Type: org.ChapterLocal, ParentChapterID: "tx", State: "TX"},
	}

	impact := AnalyzeDelete(chapters, []string{"tx-au"}, nil, nil)

	assert.Equal(t, 1, impact.ChaptersToDelete)
	assert.Equal(t, 0, impact.ChildChaptersAffected)
	assert.Equal(t, 0, impact.MembersAffected)
	assert.Equal(t, 0, impact.EventsAffected)
	assert.Empty(t, impact.Warnings)
}

func TestAnalyzeDelete_CountsChildrenMembersEvents(t *testing.T) {
	chapters := []*org.Chapter{
		{ID: "nat", Type: org.ChapterNational},
		{ID: "ca", Type: org.ChapterState, ParentChapterID: "nat", State: "CA"},
		{ID: "ca-la", Type: org.ChapterLocal, ParentChapterID: "ca", State: "CA"},
		{ID: "ca-sf", Type: org.ChapterLocal, ParentChapterID: "ca", State: "CA"},
	}
	members := []*org.Member{
		{ID: "m-1", ChapterID: "ca"},
		{ID: "m-2", ChapterID: "ca-la"},
		{ID: "m-3", ChapterID: "nat"},
	}
	events := []*org.Event{
		{ID: "e-1", ChapterID: "ca-sf"},
		{ID: "e-2", ChapterID: "nat"},
	}

	impact := AnalyzeDelete(chapters, []string{"ca"}, members, events)

	assert.Equal(t, 1, impact.ChaptersToDelete)
	assert.Equal(t, 2, impact.ChildChaptersAffected)
	// Members and events in the target or its children, not elsewhere.
	assert.Equal(t, 2, impact.MembersAffected)
	assert.Equal(t, 1, impact.EventsAffected)
	require.Len(t, impact.Warnings, 3)
	assert.Contains(t, impact.Warnings[0], "2 child chapters")
	assert.Contains(t, impact.Warnings[1], "2 members")
	assert.Contains(t, impact.Warnings[2], "1 events")
}

func TestAnalyzeDelete_ChildAlsoTargetedNotDoubleCounted(t *testing.T) {
	chapters := []*org.Chapter{
		{ID: "nat", Type: org.ChapterNational},
		{ID: "ca", Type: org.ChapterState, ParentChapterID: "nat", State: "CA"},
		{ID: "ca-la", Type: org.ChapterLocal, ParentChapterID: "ca", State: "CA"},
	}

	impact := AnalyzeDelete(chapters, []string{"ca", "ca-la"}, nil, nil)

	assert.Equal(t, 2, impact.ChaptersToDelete)
	assert.Equal(t, 0, impact.ChildChaptersAffected, "a child already in the target set is not 'affected'")
}

func TestAnalyzeDelete_OneLevelOnly(t *testing.T) {
	// Impact reports direct children only; grandchildren are the
	// cascade's business.
	chapters := []*org.Chapter{
		{ID: "nat", Type: org.ChapterNational},
		{ID: "ca", Type: org.ChapterState, ParentChapterID: "nat", State: "CA"},
		{ID: "ca-la", Type: org.ChapterLocal, ParentChapterID: "ca", State: "CA"},
	}

	impact := AnalyzeDelete(chapters, []string{"nat"}, nil, nil)
	assert.Equal(t, 1, impact.ChildChaptersAffected)
}

func TestExecutor_AnalyzeDelete(t *testing.T) {
	ctx := context.Background()
	dir := seedDirectory(t)
	dir.SeedMembers(&org.Member{ID: "m-1", ChapterID: "ca-la"})
	dir.SeedEvents(&org.Event{ID: "e-1", ChapterID: "ca-sf"})

	x := NewExecutor(dir)
	impact, err := x.AnalyzeDelete(ctx, []string{"ca"})
	require.NoError(t, err)

	assert.Equal(t, 2, impact.ChildChaptersAffected)
	assert.Equal(t, 1, impact.MembersAffected)
	assert.Equal(t, 1, impact.EventsAffected)
	assert.NotEmpty(t, impact.Warnings)
}

func TestEditableFields(t *testing.T) {
	fields := EditableFields()
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "social_media.facebook")
	assert.Contains(t, fields, "address.city")
	assert.NotContains(t, fields, "id", "identity is never bulk-editable")
	assert.NotContains(t, fields, "type", "hierarchy tier is never bulk-editable")
}
