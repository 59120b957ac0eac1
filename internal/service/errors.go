package service

import "errors"

var (
	ErrNoOwner                   = errors.New("owner id is required")
	ErrInvalidAmount             = errors.New("amount must be greater than zero")
	ErrInvalidDirection          = errors.New("direction must be income or expense")
	ErrInvalidName               = errors.New("name must not be empty")
	ErrCategoryNotVisible        = errors.New("category does not exist for this owner")
	ErrCategoryDirectionMismatch = errors.New("category direction does not match the transaction")
	ErrNoImportCategory          = errors.New("no category available for imported transaction")
)
