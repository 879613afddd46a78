package service

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrNotOwner        = errors.New("does not belong to professional")
	ErrInvalidDuration = errors.New("duration must be positive")
	ErrInvalidName     = errors.New("name is required")
	ErrInvalidTimezone = errors.New("unknown timezone")
	ErrInvalidPrice    = errors.New("price must not be negative")

	ErrInvitationRequired = errors.New("invitation code required")
	ErrInvalidInvitation  = errors.New("invitation code is invalid or already used")
)
