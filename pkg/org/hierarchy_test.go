package org

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func national() *Chapter {
	return &Chapter{ID: "nat", Name: "National", Type: ChapterNational}
}

func stateChapter(id, state string) *Chapter {
	return &Chapter{ID: id, Name: state + " Chapter", Type: ChapterState, ParentChapterID: "nat", State: state}
}

func localChapter(id, parent, state string) *Chapter {
	return &Chapter{ID: id, Name: id, Type: ChapterLocal, ParentChapterID: parent, State: state}
}

func TestValidateHierarchy(t *testing.T) {
	tests := []struct {
		name     string
		chapters []*Chapter
		wantErr  string
	}{
		{
			name: "valid three-tier tree",
			chapters: []*Chapter{
				national(),
				stateChapter("ca", "CA"),
				stateChapter("tx", "TX"),
				localChapter("ca-la", "ca", "CA"),
				localChapter("ca-sf", "ca", "CA"),
			},
		},
		{
			name: "two national roots",
			chapters: []*Chapter{
				national(),
				{ID: "nat2", Type: ChapterNational},
			},
			wantErr: "multiple national chapters",
		},
		{
			name: "national with parent",
			chapters: []*Chapter{
				{ID: "nat", Type: ChapterNational, ParentChapterID: "x"},
			},
			wantErr: "must not have a parent",
		},
		{
			name: "state parented to state",
			chapters: []*Chapter{
				national(),
				stateChapter("ca", "CA"),
				{ID: "tx", Type: ChapterState, ParentChapterID: "ca", State: "TX"},
			},
			wantErr: "must be parented to the national chapter",
		},
		{
			name: "local parented to national",
			chapters: []*Chapter{
				national(),
				{ID: "loc", Type: ChapterLocal, ParentChapterID: "nat", State: "CA"},
			},
			wantErr: "must be parented to a state chapter",
		},
		{
			name: "unknown parent",
			chapters: []*Chapter{
				national(),
				{ID: "ca", Type: ChapterState, ParentChapterID: "ghost", State: "CA"},
			},
			wantErr: "unknown parent",
		},
		{
			name: "missing state code",
			chapters: []*Chapter{
				national(),
				{ID: "ca", Type: ChapterState, ParentChapterID: "nat"},
			},
			wantErr: "missing state code",
		},
		{
			name: "duplicate id",
			chapters: []*Chapter{
				national(),
				stateChapter("ca", "CA"),
				stateChapter("ca", "CA"),
			},
			wantErr: "duplicate chapter id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHierarchy(tt.chapters)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestStateOf(t *testing.T) {
	chapters := []*Chapter{
		national(),
		stateChapter("ca", "CA"),
		localChapter("ca-la", "ca", ""),
	}
	byID := make(map[string]*Chapter)
	for _, c := range chapters {
		byID[c.ID] = c
	}

	assert.Equal(t, "CA", StateOf(byID["ca"], byID))
	// Local chapter without its own state code resolves through the parent.
	assert.Equal(t, "CA", StateOf(byID["ca-la"], byID))
	assert.Equal(t, "", StateOf(byID["nat"], byID))
	assert.Equal(t, "", StateOf(nil, byID))
}

func TestChildrenOfAndDescendants(t *testing.T) {
	chapters := []*Chapter{
		national(),
		stateChapter("ca", "CA"),
		stateChapter("tx", "TX"),
		localChapter("ca-la", "ca", "CA"),
		localChapter("ca-sf", "ca", "CA"),
		localChapter("tx-au", "tx", "TX"),
	}

	children := ChildrenOf(chapters, []string{"ca"})
	require.Len(t, children["ca"], 2)

	desc := Descendants(chapters, []string{"nat"})
	assert.Len(t, desc, 5)

	desc = Descendants(chapters, []string{"ca"})
	assert.Len(t, desc, 2)

	desc = Descendants(chapters, []string{"ca-la"})
	assert.Empty(t, desc)
}

func TestMemoryDirectory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.SeedChapters(national(), stateChapter("ca", "CA")))

	// Seeding an invalid addition is rejected wholesale.
	err := m.SeedChapters(&Chapter{ID: "bad", Type: ChapterLocal, ParentChapterID: "nat", State: "CA"})
	require.Error(t, err)
	_, err = m.Chapter(ctx, "bad")
	assert.ErrorIs(t, err, ErrNotFound)

	c, err := m.Chapter(ctx, "ca")
	require.NoError(t, err)
	assert.Equal(t, "CA", c.State)

	// Mutating the returned copy does not touch the store.
	c.Name = "scribbled"
	again, err := m.Chapter(ctx, "ca")
	require.NoError(t, err)
	assert.NotEqual(t, "scribbled", again.Name)

	c.ID = "ca"
	c.Name = "CAHU"
	require.NoError(t, m.UpdateChapter(ctx, c))
	again, err = m.Chapter(ctx, "ca")
	require.NoError(t, err)
	assert.Equal(t, "CAHU", again.Name)
	assert.False(t, again.UpdatedAt.IsZero())

	require.NoError(t, m.DeleteChapter(ctx, "ca"))
	assert.ErrorIs(t, m.DeleteChapter(ctx, "ca"), ErrNotFound)

	all, err := m.Chapters(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
