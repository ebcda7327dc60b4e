package audit

import (
	"encoding/json"
	"time"
)

// Entry is an immutable audit record: who did what to which resource,
// with before/after snapshots for mutations. Denied authorization
// checks land here with Success=false and the denial reason.
type Entry struct {
	ID         string      `json:"id"`
	Timestamp  time.Time   `json:"timestamp"`
	ActorID    string      `json:"actor_id,omitempty"`
	Action     string      `json:"action"`
	Resource   string      `json:"resource"`
	ResourceID string      `json:"resource_id,omitempty"`
	Before     interface{} `json:"before,omitempty"`
	After      interface{} `json:"after,omitempty"`
	Success    bool        `json:"success"`
	Reason     string      `json:"reason,omitempty"`
}

// ToJSON serializes the entry
func (e *Entry) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// FromJSON parses an entry
func FromJSON(data []byte) (*Entry, error) {
	var e Entry
	err := json.Unmarshal(data, &e)
	return &e, err
}

// Filter selects entries for Query. Zero values match everything.
type Filter struct {
	ActorID  string
	Resource string
	Action   string
	Success  *bool

	// Time range, inclusive start, exclusive end
	Start *time.Time
	End   *time.Time

	// Pagination over the newest-first ordering
	Limit  int
	Offset int
}

// Matches reports whether the entry passes the filter
func (f Filter) Matches(e *Entry) bool {
	if f.ActorID != "" && e.ActorID != f.ActorID {
		return false
	}
	if f.Resource != "" && e.Resource != f.Resource {
		return false
	}
	if f.Action != "" && e.Action != f.Action {
		return false
	}
	if f.Success != nil && e.Success != *f.Success {
		return false
	}
	if f.Start != nil && e.Timestamp.Before(*f.Start) {
		return false
	}
	if f.End != nil && !e.Timestamp.Before(*f.End) {
		return false
	}
	return true
}

// RetentionPolicy defines how long entries are kept before an external
// sweep removes them. The engine itself never purges.
type RetentionPolicy struct {
	RetentionDays int
}

// DefaultRetentionPolicy keeps entries for two years, a common
// compliance floor for membership records.
func DefaultRetentionPolicy() RetentionPolicy {
	return RetentionPolicy{RetentionDays: 730}
}

// Cutoff returns the timestamp before which entries fall outside the
// retention window.
func (p RetentionPolicy) Cutoff(now time.Time) time.Time {
	return now.AddDate(0, 0, -p.RetentionDays)
}
