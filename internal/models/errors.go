package models

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrNoFieldsToUpdate   = errors.New("no fields to update")
	ErrInvalidStatus      = errors.New("invalid post status")
	ErrEmailTaken         = errors.New("email address already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("forbidden")
	ErrPasswordMismatch   = errors.New("password confirmation does not match")
)
