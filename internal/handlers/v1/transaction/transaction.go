package transaction

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/mymoney-server/internal/handlers/handlerutil"
	"github.com/carson-networks/mymoney-server/internal/service"
	"github.com/carson-networks/mymoney-server/internal/storage/sqlconfig"
)

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID           string  `json:"id" doc:"Transaction UUID"`
	Amount       string  `json:"amount" doc:"Decimal amount, always positive"`
	Direction    string  `json:"direction" doc:"income or expense"`
	Date         string  `json:"date" doc:"RFC3339 transaction date"`
	CategoryID   *string `json:"categoryID,omitempty" doc:"Category UUID"`
	CategoryName *string `json:"categoryName,omitempty" doc:"Name of the linked category"`
	Note         *string `json:"note,omitempty" doc:"Free-form note"`
}

// TransactionBody is the request body shared by create and update.
type TransactionBody struct {
	Amount     string `json:"amount" required:"true" doc:"Positive decimal amount"`
	Direction  string `json:"direction" required:"true" doc:"income or expense"`
	Date       string `json:"date,omitempty" doc:"RFC3339 timestamp or YYYY-MM-DD, defaults to now"`
	CategoryID string `json:"categoryID,omitempty" format:"uuid" doc:"Category UUID"`
	Note       string `json:"note,omitempty" maxLength:"500" doc:"Free-form note"`
}

// TransactionPath identifies a single transaction.
type TransactionPath struct {
	handlerutil.OwnerHeader
	ID string `path:"id" format:"uuid" doc:"Transaction UUID"`
}

func parseTransactionBody(body TransactionBody) (service.TransactionInput, error) {
	var input service.TransactionInput

	amount, err := decimal.NewFromString(body.Amount)
	if err != nil {
		return input, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}
	input.Amount = amount

	input.Direction, err = sqlconfig.ParseDirection(body.Direction)
	if err != nil {
		return input, huma.NewError(http.StatusBadRequest, "invalid direction", err)
	}

	if body.Date != "" {
		input.Date, err = handlerutil.ParseDate("date", body.Date)
		if err != nil {
			return input, err
		}
	}

	if body.CategoryID != "" {
		categoryID, err := uuid.FromString(body.CategoryID)
		if err != nil {
			return input, huma.NewError(http.StatusBadRequest, "invalid categoryID", err)
		}
		input.CategoryID = &categoryID
	}

	if body.Note != "" {
		note := body.Note
		input.Note = &note
	}
	return input, nil
}

func parseTransactionID(value string) (uuid.UUID, error) {
	id, err := uuid.FromString(value)
	if err != nil {
		return uuid.Nil, huma.NewError(http.StatusBadRequest, "invalid id", err)
	}
	return id, nil
}

func toTransaction(tx service.Transaction) Transaction {
	out := Transaction{
		ID:           tx.ID.String(),
		Amount:       tx.Amount.StringFixed(2),
		Direction:    tx.Direction.String(),
		Date:         handlerutil.FormatDate(tx.Date),
		CategoryName: tx.CategoryName,
		Note:         tx.Note,
	}
	if tx.CategoryID != nil {
		categoryID := tx.CategoryID.String()
		out.CategoryID = &categoryID
	}
	return out
}
