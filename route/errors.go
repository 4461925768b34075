package route

import "fmt"

// NoMatchReason names why a resolve produced no result.
type NoMatchReason string

const (
	ReasonMarketNotFound NoMatchReason = "market_not_found"
	ReasonNoCandidate    NoMatchReason = "no_candidate"
	ReasonInternal       NoMatchReason = "internal"
)

// Suggestion is one near-miss shown to callers when resolution fails.
// Suggestions may score below the official candidate floor.
type Suggestion struct {
	FieldID     string
	DisplayName string
	Similarity  float64
}

// NoMatchError is the only error Resolve returns. It is an expected
// outcome, not a failure: callers present Suggestions instead of the
// missing result.
type NoMatchError struct {
	Reason      NoMatchReason
	Market      string
	Suggestions []Suggestion
}

func (e *NoMatchError) Error() string {
	if e.Market != "" {
		return fmt.Sprintf("no match (%s, market=%s)", e.Reason, e.Market)
	}
	return fmt.Sprintf("no match (%s)", e.Reason)
}
