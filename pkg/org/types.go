package org

import "time"

// ChapterType is the tier of a chapter in the organizational tree
type ChapterType string

const (
	ChapterNational ChapterType = "national"
	ChapterState    ChapterType = "state"
	ChapterLocal    ChapterType = "local"
)

// SocialMedia holds a chapter's social profile links
type SocialMedia struct {
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
}

// Address is a chapter's mailing address
type Address struct {
	Street string `json:"street,omitempty"`
	City   string `json:"city,omitempty"`
	State  string `json:"state,omitempty"`
	Zip    string `json:"zip,omitempty"`
}

// Chapter is an organizational unit at national, state, or local level.
// The single national root has no parent; a state chapter's parent is
// the national chapter; a local chapter's parent is a state chapter.
type Chapter struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Type            ChapterType `json:"type"`
	ParentChapterID string      `json:"parent_chapter_id,omitempty"`
	State           string      `json:"state,omitempty"` // two-letter code, empty for national
	Email           string      `json:"email,omitempty"`
	Phone           string      `json:"phone,omitempty"`
	Website         string      `json:"website,omitempty"`
	Description     string      `json:"description,omitempty"`
	MeetingLocation string      `json:"meeting_location,omitempty"`
	Address         Address     `json:"address,omitempty"`
	SocialMedia     SocialMedia `json:"social_media,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// Clone returns a deep copy of the chapter
func (c *Chapter) Clone() *Chapter {
	dup := *c
	return &dup
}

// Member belongs to exactly one chapter
type Member struct {
	ID        string    `json:"id"`
	ChapterID string    `json:"chapter_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email,omitempty"`
	State     string    `json:"state,omitempty"`
	JoinedAt  time.Time `json:"joined_at"`
}

// Event is a chapter-hosted event
type Event struct {
	ID        string    `json:"id"`
	ChapterID string    `json:"chapter_id"`
	Title     string    `json:"title"`
	StartsAt  time.Time `json:"starts_at"`
}
