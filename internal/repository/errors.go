package repository

import "errors"

// ErrNotFound is what a backend 404 becomes at this layer. Callers decide
// whether absence is an error or a valid result.
var ErrNotFound = errors.New("resource not found")
