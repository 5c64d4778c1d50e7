package domain

import "errors"

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicate         = errors.New("record already exists")
	ErrConstraint        = errors.New("constraint violation")
	ErrForbidden         = errors.New("operation not permitted for role")
	ErrInvalidStatus     = errors.New("invalid inquiry status")
	ErrInvalidTransition = errors.New("invalid inquiry status transition")
	ErrStaleStatus       = errors.New("inquiry status changed concurrently")
)
