package reports

import "errors"

// ErrNotFound is returned when no report exists for the requested keys.
var ErrNotFound = errors.New("report not found")
