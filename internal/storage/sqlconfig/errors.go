package sqlconfig

import "errors"

var (
	ErrNotFound                 = errors.New("record not found")
	ErrDefaultCategoryImmutable = errors.New("default categories cannot be modified")
	ErrInvalidDirection         = errors.New("invalid direction")
)
