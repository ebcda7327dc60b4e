package org

import "fmt"

// ValidateHierarchy checks the structural invariants of a chapter set:
// exactly one national root, state chapters parented to the root, local
// chapters parented to a state chapter, and no cycles (the parent rules
// make the tree depth at most three).
func ValidateHierarchy(chapters []*Chapter) error {
	byID := make(map[string]*Chapter, len(chapters))
	var national *Chapter
	for _, c := range chapters {
		if _, dup := byID[c.ID]; dup {
			return fmt.Errorf("org: duplicate chapter id %q", c.ID)
		}
		byID[c.ID] = c
		if c.Type == ChapterNational {
			if national != nil {
				return fmt.Errorf("org: multiple national chapters: %q and %q", national.ID, c.ID)
			}
			national = c
		}
	}

	for _, c := range chapters {
		switch c.Type {
		case ChapterNational:
			if c.ParentChapterID != "" {
				return fmt.Errorf("org: national chapter %q must not have a parent", c.ID)
			}
		case ChapterState:
			parent, ok := byID[c.ParentChapterID]
			if !ok {
				return fmt.Errorf("org: state chapter %q has unknown parent %q", c.ID, c.ParentChapterID)
			}
			if parent.Type != ChapterNational {
				return fmt.Errorf("org: state chapter %q must be parented to the national chapter, got %s %q", c.ID, parent.Type, parent.ID)
			}
			if c.State == "" {
				return fmt.Errorf("org: state chapter %q missing state code", c.ID)
			}
		case ChapterLocal:
			parent, ok := byID[c.ParentChapterID]
			if !ok {
				return fmt.Errorf("org: local chapter %q has unknown parent %q", c.ID, c.ParentChapterID)
			}
			if parent.Type != ChapterState {
				return fmt.Errorf("org: local chapter %q must be parented to a state chapter, got %s %q", c.ID, parent.Type, parent.ID)
			}
			if c.State == "" {
				return fmt.Errorf("org: local chapter %q missing state code", c.ID)
			}
		default:
			return fmt.Errorf("org: chapter %q has unknown type %q", c.ID, c.Type)
		}
	}
	return nil
}

// StateOf resolves a chapter's state code by walking at most one parent
// hop. This is the caller-side resolution the authorization engine
// relies on when populating a target scope.
func StateOf(c *Chapter, byID map[string]*Chapter) string {
	if c == nil {
		return ""
	}
	if c.State != "" {
		return c.State
	}
	if parent, ok := byID[c.ParentChapterID]; ok {
		return parent.State
	}
	return ""
}

// ChildrenOf returns the direct children of the given chapter IDs,
// grouped per parent. Only one level deep.
func ChildrenOf(chapters []*Chapter, parentIDs []string) map[string][]*Chapter {
	parents := make(map[string]bool, len(parentIDs))
	for _, id := range parentIDs {
		parents[id] = true
	}
	out := make(map[string][]*Chapter)
	for _, c := range chapters {
		if c.ParentChapterID != "" && parents[c.ParentChapterID] {
			out[c.ParentChapterID] = append(out[c.ParentChapterID], c)
		}
	}
	return out
}

// Descendants returns every transitive descendant of the given chapter
// IDs, in breadth-first order. Used by cascading deletes.
func Descendants(chapters []*Chapter, rootIDs []string) []*Chapter {
	children := make(map[string][]*Chapter)
	for _, c := range chapters {
		if c.ParentChapterID != "" {
			children[c.ParentChapterID] = append(children[c.ParentChapterID], c)
		}
	}

	seen := make(map[string]bool, len(rootIDs))
	queue := append([]string(nil), rootIDs...)
	var out []*Chapter
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, child := range children[id] {
			if seen[child.ID] {
				continue
			}
			seen[child.ID] = true
			out = append(out, child)
			queue = append(queue, child.ID)
		}
	}
	return out
}
