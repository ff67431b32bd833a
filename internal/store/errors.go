package store

import "errors"

// ErrNotFound is returned when a referenced row does not exist.
// Handlers map it to 404 instead of reporting a false success.
var ErrNotFound = errors.New("not found")
