package handlerutil

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/mymoney-server/internal/service"
	"github.com/carson-networks/mymoney-server/internal/storage/sqlconfig"
)

// OwnerHeader is embedded in every input that acts on behalf of an owner.
type OwnerHeader struct {
	OwnerID string `header:"X-Owner-ID" doc:"Authenticated owner id; omit for default records only"`
}

// ServiceError maps a service error onto an HTTP error.
func ServiceError(message string, err error) error {
	switch {
	case errors.Is(err, service.ErrNoOwner):
		return huma.NewError(http.StatusUnauthorized, message, err)
	case errors.Is(err, sqlconfig.ErrNotFound):
		return huma.NewError(http.StatusNotFound, message, err)
	case errors.Is(err, sqlconfig.ErrDefaultCategoryImmutable):
		return huma.NewError(http.StatusConflict, message, err)
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidDirection),
		errors.Is(err, service.ErrInvalidName),
		errors.Is(err, service.ErrCategoryNotVisible),
		errors.Is(err, service.ErrCategoryDirectionMismatch),
		errors.Is(err, sqlconfig.ErrInvalidDirection):
		return huma.NewError(http.StatusBadRequest, message, err)
	default:
		return huma.NewError(http.StatusInternalServerError, message, err)
	}
}

var dateLayouts = []string{time.RFC3339, time.DateOnly}

// ParseDate accepts an RFC3339 timestamp or a YYYY-MM-DD date in UTC.
func ParseDate(field, value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, huma.NewError(http.StatusBadRequest, fmt.Sprintf("invalid %s", field))
}

// ParseOptionalDate returns nil for an empty value.
func ParseOptionalDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := ParseDate(field, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseOptionalDirection returns nil for an empty value.
func ParseOptionalDirection(value string) (*sqlconfig.Direction, error) {
	if value == "" {
		return nil, nil
	}
	direction, err := sqlconfig.ParseDirection(value)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid direction", err)
	}
	return &direction, nil
}

func FormatDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
