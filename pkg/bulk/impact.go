package bulk

import (
	"context"
	"fmt"

	"github.com/chapterhq/ams/pkg/org"
)

// Impact is the pre-flight analysis of a destructive bulk delete
type Impact struct {
	ChaptersToDelete      int      `json:"chapters_to_delete"`
	ChildChaptersAffected int      `json:"child_chapters_affected"`
	MembersAffected       int      `json:"members_affected"`
	EventsAffected        int      `json:"events_affected"`
	Warnings              []string `json:"warnings,omitempty"`
}

// AnalyzeDelete computes what deleting the target chapters would touch:
// their direct children (one level, matching the single-hop warning the
// UI shows, even though an actual cascade removes descendants
// transitively), and the members and events belonging to targets or
// those children. Pure and read-only.
func AnalyzeDelete(chapters []*org.Chapter, targetIDs []string, members []*org.Member, events []*org.Event) *Impact {
	impact := &Impact{ChaptersToDelete: len(targetIDs)}

	affected := make(map[string]bool, len(targetIDs))
	for _, id := range targetIDs {
		affected[id] = true
	}

	children := org.ChildrenOf(chapters, targetIDs)
	for _, kids := range children {
		for _, child := range kids {
			if !affected[child.ID] {
				impact.ChildChaptersAffected++
				affected[child.ID] = true
			}
		}
	}

	for _, m := range members {
		if affected[m.ChapterID] {
			impact.MembersAffected++
		}
	}
	for _, e := range events {
		if affected[e.ChapterID] {
			impact.EventsAffected++
		}
	}

	if impact.ChildChaptersAffected > 0 {
		impact.Warnings = append(impact.Warnings,
			fmt.Sprintf("%d child chapters will be affected; they are deleted when cascade is enabled", impact.ChildChaptersAffected))
	}
	if impact.MembersAffected > 0 {
		impact.Warnings = append(impact.Warnings,
			fmt.Sprintf("%d members belong to chapters being deleted", impact.MembersAffected))
	}
	if impact.EventsAffected > 0 {
		impact.Warnings = append(impact.Warnings,
			fmt.Sprintf("%d events are hosted by chapters being deleted", impact.EventsAffected))
	}
	return impact
}

// AnalyzeDelete fetches the read models from the directory and runs the
// pure analysis. Surface the warnings to the caller before a delete is
// confirmed; the executor itself does not gate on them.
func (x *Executor) AnalyzeDelete(ctx context.Context, targetIDs []string) (*Impact, error) {
	chapters, err := x.dir.Chapters(ctx)
	if err != nil {
		return nil, fmt.Errorf("bulk: list chapters: %w", err)
	}
	members, err := x.dir.Members(ctx)
	if err != nil {
		return nil, fmt.Errorf("bulk: list members: %w", err)
	}
	events, err := x.dir.Events(ctx)
	if err != nil {
		return nil, fmt.Errorf("bulk: list events: %w", err)
	}
	return AnalyzeDelete(chapters, targetIDs, members, events), nil
}
