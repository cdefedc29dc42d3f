package service

import (
	"fmt"
	"time"
)

func validateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: startTime and endTime are required", ErrValidation)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: endTime cannot be before startTime", ErrValidation)
	}
	return nil
}
