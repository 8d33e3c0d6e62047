package task

import "errors"

// ErrPanicked wraps the value recovered from a task function that panicked.
var ErrPanicked = errors.New("task: function panicked")
