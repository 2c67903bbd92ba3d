package matching

import "errors"

// Sentinel kinds for aggregation errors.
var (
	// ErrInvalidScoreInput marks malformed component scores, e.g. a
	// similarity outside [-1, 1]. This indicates a caller bug, not a
	// transient condition.
	ErrInvalidScoreInput = errors.New("invalid score input")
)
