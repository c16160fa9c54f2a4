package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrBlockNotFound is returned when a content block is not found
	ErrBlockNotFound = errors.New("block not found")

	// ErrProposalNotFound is returned when a proposal is not found
	ErrProposalNotFound = errors.New("proposal not found")

	// ErrSectionNotFound is returned when a proposal section is not found
	ErrSectionNotFound = errors.New("section not found")

	// ErrProposalBlockNotFound is returned when a placed block is not found
	ErrProposalBlockNotFound = errors.New("proposal block not found")

	// ErrSectionMismatch is returned when a section does not belong to the addressed proposal
	ErrSectionMismatch = errors.New("section does not belong to proposal")

	// ErrInvalidStatusTransition is returned for lifecycle moves the pipeline does not allow
	ErrInvalidStatusTransition = errors.New("invalid status transition")

	// ErrInvalidDate is returned when a date field cannot be parsed
	ErrInvalidDate = errors.New("invalid date format, expected YYYY-MM-DD")
)
