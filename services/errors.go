package services

import "errors"

// Expected outcomes are returned as sentinel errors so controllers can map
// them to status codes; anything else is a storage fault.
var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation failed")
)
