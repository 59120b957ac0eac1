package transaction

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/mymoney-server/internal/service"
	"github.com/carson-networks/mymoney-server/internal/storage/sqlconfig"
)

// -- update tests --

func TestHTTP_UpdateTransaction_Success(t *testing.T) {
	updated := sampleTransaction(nil)
	updated.Amount = decimal.RequireFromString("40")
	updated.CategoryName = nil

	mockSvc := new(mockTransactionService)
	mockSvc.On("UpdateTransaction", mock.Anything, "user-1", updated.ID, mock.MatchedBy(func(in service.TransactionInput) bool {
		return in.Amount.Equal(decimal.RequireFromString("40")) && in.CategoryID == nil
	})).Return(updated, nil)

	resp := newTestAPI(t, mockSvc).Put("/v1/transaction/"+updated.ID.String(), ownerHeader, TransactionBody{
		Amount:    "40",
		Direction: "expense",
	})

	assert.Equal(t, http.StatusOK, resp.Code)
	var body Transaction
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "40.00", body.Amount)
	assert.Nil(t, body.CategoryID)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_UpdateTransaction_NotFound(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	mockSvc := new(mockTransactionService)
	mockSvc.On("UpdateTransaction", mock.Anything, "user-1", id, mock.Anything).
		Return(nil, fmt.Errorf("find: %w", sqlconfig.ErrNotFound))

	resp := newTestAPI(t, mockSvc).Put("/v1/transaction/"+id.String(), ownerHeader, TransactionBody{
		Amount:    "40",
		Direction: "expense",
	})

	assert.Equal(t, http.StatusNotFound, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_UpdateTransaction_CategoryDirectionMismatch(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	mockSvc := new(mockTransactionService)
	mockSvc.On("UpdateTransaction", mock.Anything, "user-1", id, mock.Anything).
		Return(nil, service.ErrCategoryDirectionMismatch)

	resp := newTestAPI(t, mockSvc).Put("/v1/transaction/"+id.String(), ownerHeader, TransactionBody{
		Amount:     "40",
		Direction:  "income",
		CategoryID: uuid.Must(uuid.NewV4()).String(),
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHTTP_UpdateTransaction_InvalidID(t *testing.T) {
	mockSvc := new(mockTransactionService)

	resp := newTestAPI(t, mockSvc).Put("/v1/transaction/not-a-uuid", ownerHeader, TransactionBody{
		Amount:    "40",
		Direction: "expense",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertNotCalled(t, "UpdateTransaction")
}

// -- get and delete tests --

func TestHTTP_GetTransaction_Success(t *testing.T) {
	tx := sampleTransaction(nil)
	mockSvc := new(mockTransactionService)
	mockSvc.On("GetTransaction", mock.Anything, "user-1", tx.ID).Return(tx, nil)

	resp := newTestAPI(t, mockSvc).Get("/v1/transaction/"+tx.ID.String(), ownerHeader)

	assert.Equal(t, http.StatusOK, resp.Code)
	var body Transaction
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, tx.ID.String(), body.ID)
}

func TestHTTP_GetTransaction_NotFound(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	mockSvc := new(mockTransactionService)
	mockSvc.On("GetTransaction", mock.Anything, "user-1", id).Return(nil, sqlconfig.ErrNotFound)

	resp := newTestAPI(t, mockSvc).Get("/v1/transaction/"+id.String(), ownerHeader)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHTTP_DeleteTransaction_Success(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	mockSvc := new(mockTransactionService)
	mockSvc.On("DeleteTransaction", mock.Anything, "user-1", id).Return(nil)

	resp := newTestAPI(t, mockSvc).Delete("/v1/transaction/"+id.String(), ownerHeader)

	assert.Equal(t, http.StatusNoContent, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_DeleteTransaction_NotFound(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	mockSvc := new(mockTransactionService)
	mockSvc.On("DeleteTransaction", mock.Anything, "user-1", id).Return(sqlconfig.ErrNotFound)

	resp := newTestAPI(t, mockSvc).Delete("/v1/transaction/"+id.String(), ownerHeader)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}
