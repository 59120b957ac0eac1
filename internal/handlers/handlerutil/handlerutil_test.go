package handlerutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/mymoney-server/internal/service"
	"github.com/carson-networks/mymoney-server/internal/storage/sqlconfig"
)

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var statusErr huma.StatusError
	require.True(t, errors.As(err, &statusErr))
	return statusErr.GetStatus()
}

func TestServiceError_StatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{service.ErrNoOwner, http.StatusUnauthorized},
		{fmt.Errorf("lookup: %w", sqlconfig.ErrNotFound), http.StatusNotFound},
		{sqlconfig.ErrDefaultCategoryImmutable, http.StatusConflict},
		{service.ErrInvalidAmount, http.StatusBadRequest},
		{service.ErrCategoryDirectionMismatch, http.StatusBadRequest},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.status, statusOf(t, ServiceError("failed", tc.err)), tc.err.Error())
	}
}

func TestParseDate_Layouts(t *testing.T) {
	d, err := ParseDate("from", "2025-11-13")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 11, 13, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("from", "2025-11-13T20:26:00Z")
	require.NoError(t, err)
	assert.Equal(t, 20, d.Hour())

	_, err = ParseDate("from", "13/11/2025")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestParseOptional_Empty(t *testing.T) {
	date, err := ParseOptionalDate("to", "")
	assert.NoError(t, err)
	assert.Nil(t, date)

	direction, err := ParseOptionalDirection("")
	assert.NoError(t, err)
	assert.Nil(t, direction)

	direction, err = ParseOptionalDirection("Income")
	require.NoError(t, err)
	assert.Equal(t, sqlconfig.DirectionIncome, *direction)

	_, err = ParseOptionalDirection("transfer")
	assert.Error(t, err)
}
