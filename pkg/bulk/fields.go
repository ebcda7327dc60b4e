package bulk

import (
	"fmt"
	"net/mail"
	"net/url"
	"sort"
	"strings"

	"github.com/chapterhq/ams/pkg/org"
)

// fieldAccessor reads and writes one editable chapter field addressed
// by its dotted key.
type fieldAccessor struct {
	get func(*org.Chapter) string
	set func(*org.Chapter, string)
}

// editableFields is the registry of dotted keys a bulk edit may touch.
// Nested fields use dotted addressing, e.g. "social_media.facebook".
var editableFields = map[string]fieldAccessor{
	"name": {
		get: func(c *org.Chapter) string { return c.Name },
		set: func(c *org.Chapter, v string) { c.Name = v },
	},
	"email": {
		get: func(c *org.Chapter) string { return c.Email },
		set: func(c *org.Chapter, v string) { c.Email = v },
	},
	"phone": {
		get: func(c *org.Chapter) string { return c.Phone },
		set: func(c *org.Chapter, v string) { c.Phone = v },
	},
	"website": {
		get: func(c *org.Chapter) string { return c.Website },
		set: func(c *org.Chapter, v string) { c.Website = v },
	},
	"description": {
		get: func(c *org.Chapter) string { return c.Description },
		set: func(c *org.Chapter, v string) { c.Description = v },
	},
	"meeting_location": {
		get: func(c *org.Chapter) string { return c.MeetingLocation },
		set: func(c *org.Chapter, v string) { c.MeetingLocation = v },
	},
	"address.street": {
		get: func(c *org.Chapter) string { return c.Address.Street },
		set: func(c *org.Chapter, v string) { c.Address.Street = v },
	},
	"address.city": {
		get: func(c *org.Chapter) string { return c.Address.City },
		set: func(c *org.Chapter, v string) { c.Address.City = v },
	},
	"address.state": {
		get: func(c *org.Chapter) string { return c.Address.State },
		set: func(c *org.Chapter, v string) { c.Address.State = v },
	},
	"address.zip": {
		get: func(c *org.Chapter) string { return c.Address.Zip },
		set: func(c *org.Chapter, v string) { c.Address.Zip = v },
	},
	"social_media.facebook": {
		get: func(c *org.Chapter) string { return c.SocialMedia.Facebook },
		set: func(c *org.Chapter, v string) { c.SocialMedia.Facebook = v },
	},
	"social_media.twitter": {
		get: func(c *org.Chapter) string { return c.SocialMedia.Twitter },
		set: func(c *org.Chapter, v string) { c.SocialMedia.Twitter = v },
	},
	"social_media.instagram": {
		get: func(c *org.Chapter) string { return c.SocialMedia.Instagram },
		set: func(c *org.Chapter, v string) { c.SocialMedia.Instagram = v },
	},
	"social_media.linkedin": {
		get: func(c *org.Chapter) string { return c.SocialMedia.LinkedIn },
		set: func(c *org.Chapter, v string) { c.SocialMedia.LinkedIn = v },
	},
}

// EditableFields returns the sorted list of dotted keys a bulk edit
// accepts.
func EditableFields() []string {
	keys := make([]string, 0, len(editableFields))
	for k := range editableFields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// applyChange applies one field change under the given strategy
func applyChange(c *org.Chapter, field string, value string, strategy Strategy) error {
	acc, ok := editableFields[field]
	if !ok {
		return fmt.Errorf("unknown field %q", field)
	}
	switch strategy {
	case StrategyReplace:
		acc.set(c, value)
	case StrategyAppend:
		acc.set(c, acc.get(c)+value)
	case StrategyClear:
		acc.set(c, "")
	default:
		return fmt.Errorf("unknown strategy %q", strategy)
	}
	return nil
}

// validateChanges shape-checks every field value up front. Keys hinting
// at a URL (website, social links) must parse as absolute http(s) URLs;
// keys hinting at email must parse as addresses. Clearing skips value
// checks since the value is discarded.
func validateChanges(changes map[string]string, strategy Strategy) []ItemError {
	var errs []ItemError

	// Deterministic error order for callers and tests.
	keys := make([]string, 0, len(changes))
	for k := range changes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, field := range keys {
		value := changes[field]
		if _, ok := editableFields[field]; !ok {
			errs = append(errs, ItemError{ID: field, Err: fmt.Sprintf("unknown field %q", field)})
			continue
		}
		if strategy == StrategyClear || value == "" {
			continue
		}
		if isURLField(field) {
			if err := validateURL(value); err != nil {
				errs = append(errs, ItemError{ID: field, Err: err.Error()})
			}
			continue
		}
		if isEmailField(field) {
			if err := validateEmail(value); err != nil {
				errs = append(errs, ItemError{ID: field, Err: err.Error()})
			}
		}
	}
	return errs
}

func isURLField(field string) bool {
	return field == "website" || strings.HasPrefix(field, "social_media.")
}

func isEmailField(field string) bool {
	return strings.Contains(field, "email")
}

func validateURL(value string) error {
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid URL %q", value)
	}
	return nil
}

func validateEmail(value string) error {
	if _, err := mail.ParseAddress(value); err != nil {
		return fmt.Errorf("invalid email %q", value)
	}
	return nil
}
