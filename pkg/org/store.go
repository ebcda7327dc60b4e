package org

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("org: not found")

// Directory is the engine's data-access contract for organizational
// entities. Persistence implementations live behind it; the engine
// itself never talks to storage directly.
type Directory interface {
	// Chapter returns the chapter with the given ID
	Chapter(ctx context.Context, id string) (*Chapter, error)

	// Chapters returns all chapters
	Chapters(ctx context.Context) ([]*Chapter, error)

	// Members returns all members
	Members(ctx context.Context) ([]*Member, error)

	// Events returns all events
	Events(ctx context.Context) ([]*Event, error)

	// UpdateChapter replaces a chapter record
	UpdateChapter(ctx context.Context, c *Chapter) error

	// DeleteChapter removes a chapter record
	DeleteChapter(ctx context.Context, id string) error
}

// Memory is an in-memory Directory used by tests and single-process
// deployments.
type Memory struct {
	mu       sync.RWMutex
	chapters map[string]*Chapter
	members  map[string]*Member
	events   map[string]*Event
}

// NewMemory creates an empty in-memory directory
func NewMemory() *Memory {
	return &Memory{
		chapters: make(map[string]*Chapter),
		members:  make(map[string]*Member),
		events:   make(map[string]*Event),
	}
}

// SeedChapters inserts chapters, validating hierarchy invariants over
// the combined set first.
func (m *Memory) SeedChapters(chapters ...*Chapter) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	combined := make([]*Chapter, 0, len(m.chapters)+len(chapters))
	for _, c := range m.chapters {
		combined = append(combined, c)
	}
	combined = append(combined, chapters...)
	if err := ValidateHierarchy(combined); err != nil {
		return err
	}

	for _, c := range chapters {
		m.chapters[c.ID] = c.Clone()
	}
	return nil
}

// SeedMembers inserts members
func (m *Memory) SeedMembers(members ...*Member) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, mem := range members {
		dup := *mem
		m.members[mem.ID] = &dup
	}
}

// SeedEvents inserts events
func (m *Memory) SeedEvents(events ...*Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range events {
		dup := *e
		m.events[e.ID] = &dup
	}
}

// Chapter returns the chapter with the given ID
func (m *Memory) Chapter(ctx context.Context, id string) (*Chapter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.chapters[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c.Clone(), nil
}

// Chapters returns all chapters sorted by ID for deterministic iteration
func (m *Memory) Chapters(ctx context.Context) ([]*Chapter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Chapter, 0, len(m.chapters))
	for _, c := range m.chapters {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Members returns all members
func (m *Memory) Members(ctx context.Context) ([]*Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Member, 0, len(m.members))
	for _, mem := range m.members {
		dup := *mem
		out = append(out, &dup)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Events returns all events
func (m *Memory) Events(ctx context.Context) ([]*Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Event, 0, len(m.events))
	for _, e := range m.events {
		dup := *e
		out = append(out, &dup)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UpdateChapter replaces a chapter record
func (m *Memory) UpdateChapter(ctx context.Context, c *Chapter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.chapters[c.ID]; !ok {
		return ErrNotFound
	}
	dup := c.Clone()
	dup.UpdatedAt = time.Now().UTC()
	m.chapters[c.ID] = dup
	return nil
}

// DeleteChapter removes a chapter record
func (m *Memory) DeleteChapter(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.chapters[id]; !ok {
		return ErrNotFound
	}
	delete(m.chapters, id)
	return nil
}
