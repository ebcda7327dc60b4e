package bulk

import "errors"

// BatchSize is the number of targets processed between yield points
const BatchSize = 50

// ConfirmationPhrase must be supplied verbatim to run a bulk delete
const ConfirmationPhrase = "DELETE"

// ErrValidation aborts an operation before any mutation: the request
// itself is defective (bad field value, unknown field, missing
// confirmation), which is a caller bug rather than a per-item outcome.
var ErrValidation = errors.New("bulk: validation failed")

// Strategy governs how a field change is applied to a matched chapter
type Strategy string

const (
	// StrategyReplace overwrites the field with the new value
	StrategyReplace Strategy = "replace"
	// StrategyAppend concatenates the new value onto the field
	StrategyAppend Strategy = "append"
	// StrategyClear empties the field; the change's value is ignored
	StrategyClear Strategy = "clear"
)

// Valid reports whether the strategy is a known value
func (s Strategy) Valid() bool {
	switch s {
	case StrategyReplace, StrategyAppend, StrategyClear:
		return true
	}
	return false
}

// ItemError is a single target's failure inside a bulk operation
type ItemError struct {
	ID  string `json:"id"`
	Err string `json:"error"`
}

// Result aggregates a bulk operation. Produced fresh per invocation and
// never persisted by the engine; the caller decides whether to audit it.
type Result struct {
	TotalCount   int         `json:"total_count"`
	SuccessCount int         `json:"success_count"`
	FailureCount int         `json:"failure_count"`
	Errors       []ItemError `json:"errors,omitempty"`
	Message      string      `json:"message,omitempty"`
}

// ProgressFunc is invoked after every processed item with the count of
// items handled so far and the total, in item order.
type ProgressFunc func(current, total int)

// EditOptions configures a bulk edit
type EditOptions struct {
	// Strategy applies to every field in the change set
	Strategy Strategy

	// ValidateFirst checks all field values before any mutation; a
	// failure aborts the whole operation with zero chapters touched
	ValidateFirst bool
}

// DeleteOptions configures a bulk delete
type DeleteOptions struct {
	// Cascade deletes child chapters transitively. Without it, a
	// target with children fails as an item.
	Cascade bool

	// ConfirmationText must equal ConfirmationPhrase
	ConfirmationText string
}
