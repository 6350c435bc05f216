package analysis

import "fmt"

// MinSamples is the floor below which analysis fails hard instead of
// degrading: with fewer than 2 prices there is not even a single return.
const MinSamples = 2

// InsufficientDataError is returned by Analyze when the price series is
// fundamentally too short. Callers surface it to the user rather than
// rendering a degenerate result.
type InsufficientDataError struct {
	Samples  int
	Required int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient price data: got %d samples, need at least %d", e.Samples, e.Required)
}
