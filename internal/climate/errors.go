package climate

import "fmt"

// EmptyWindowError indicates that no historical records qualified for a
// day-of-year window. Callers should treat it as "insufficient history" and
// render an unknown state, not fail the whole request.
type EmptyWindowError struct {
	DayOfYear int
	HalfWidth int
	MinYear   int
}

func (e *EmptyWindowError) Error() string {
	return fmt.Sprintf(
		"no historical records within %d days of day-of-year %d (minimum year %d)",
		e.HalfWidth, e.DayOfYear, e.MinYear,
	)
}

// IsTransient returns false: a window stays empty until more history arrives.
func (e *EmptyWindowError) IsTransient() bool {
	return false
}
