package model

import "errors"

var (
	// User related errors
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")

	// Organization related errors
	ErrOrganizationNotFound = errors.New("organization not found")
)
