package api

import "errors"

// ErrMissingObject is returned when a Get, Create or Update response
// succeeded but carried no object.
var ErrMissingObject = errors.New("api: response has no object")
