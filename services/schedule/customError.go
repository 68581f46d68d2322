package schedule

import "fmt"

// InvalidScheduleParamsError signals an out-of-range hour, minute or weekday.
// Rejected before any persistence attempt.
type InvalidScheduleParamsError struct {
	Field string
	Value int
}

func (e InvalidScheduleParamsError) Error() string {
	return fmt.Sprintf("invalid schedule parameter %s=%d", e.Field, e.Value)
}

// NotFoundError signals that no reminder record with the given ID is owned by
// the requesting user.
type NotFoundError struct {
	ID string
}

func (e NotFoundError) Error() string {
	return "reminder not found: " + e.ID
}
