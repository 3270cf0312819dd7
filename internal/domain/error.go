package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidExecContext = errors.New("invalid executor context")
	ErrReadDatabaseRow    = errors.New("failed to read database row")

	// Intake errors
	ErrNoIntakeSession  = errors.New("no intake session in progress")
	ErrIntakeFinished   = errors.New("intake session already finished")
	ErrInvalidDueDate   = errors.New("due date must be formatted as YYYY-MM-DD")
	ErrEmptyIntakeField = errors.New("field must not be empty")

	// Job errors
	ErrInvalidStatusTransition = errors.New("invalid job status transition")
	ErrRenderFailed            = errors.New("document rendering failed")
	ErrGenerationFailed        = errors.New("content generation failed")
)
