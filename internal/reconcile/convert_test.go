package reconcile

import (
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/mymoney-server/internal/remote"
	"github.com/carson-networks/mymoney-server/internal/storage"
	"github.com/carson-networks/mymoney-server/internal/storage/sqlconfig"
)

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestParseDocumentID(t *testing.T) {
	id := uuid.Must(uuid.NewV4())

	parsed, err := ParseDocumentID(DocumentID(id))
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ParseDocumentID("abc")
	assert.ErrorIs(t, err, ErrInvalidDocumentID)
	_, err = ParseDocumentID(uuid.Nil.String())
	assert.ErrorIs(t, err, ErrInvalidDocumentID)
}

func TestTransactionFromDocument(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	date := time.Date(2025, 11, 13, 0, 0, 0, 0, time.UTC)

	txn, err := TransactionFromDocument("alice", remote.TransactionDocument{
		ID:         id.String(),
		Amount:     49.95,
		Type:       "Income",
		CategoryID: strPtr("garbage"),
		Date:       date,
		Note:       strPtr("zelle"),
	})
	require.NoError(t, err)
	assert.Equal(t, id, txn.ID)
	assert.Equal(t, "49.95", txn.Amount.String())
	assert.Equal(t, sqlconfig.DirectionIncome, txn.Direction)
	assert.Nil(t, txn.CategoryID)
	assert.Equal(t, "alice", txn.OwnerID)
	assert.True(t, date.Equal(txn.Date))
}

func TestTransactionFromDocument_Rejects(t *testing.T) {
	id := uuid.Must(uuid.NewV4()).String()

	_, err := TransactionFromDocument("alice", remote.TransactionDocument{ID: id, Amount: 0, Type: "expense"})
	assert.ErrorIs(t, err, ErrInvalidDocument)

	_, err = TransactionFromDocument("alice", remote.TransactionDocument{ID: id, Amount: 5, Type: "transfer"})
	assert.ErrorIs(t, err, ErrInvalidDocument)

	_, err = TransactionFromDocument("alice", remote.TransactionDocument{ID: "x", Amount: 5, Type: "expense"})
	assert.ErrorIs(t, err, ErrInvalidDocumentID)
}

func TestCategoryFromDocument_SeededDefaultHasNoOwner(t *testing.T) {
	id := storage.DefaultCategoryID(sqlconfig.DirectionIncome, "Gift")
	category, err := CategoryFromDocument("alice", remote.CategoryDocument{
		ID:        strings.ToUpper(id.String()),
		Name:      " Gifts ",
		Type:      "income",
		IsDefault: true,
	})
	require.NoError(t, err)
	assert.Equal(t, id, category.ID)
	assert.Equal(t, "Gifts", category.Name)
	assert.True(t, category.IsDefault)
	assert.Nil(t, category.OwnerID)
	assert.Equal(t, DefaultColor, *category.Color)
	assert.Equal(t, DefaultIcon, *category.Icon)
}

func TestCategoryFromDocument_UnknownDefaultIsOwned(t *testing.T) {
	category, err := CategoryFromDocument("alice", remote.CategoryDocument{
		ID:        uuid.Must(uuid.NewV4()).String(),
		Name:      "Pets",
		Type:      "expense",
		IsDefault: true,
	})
	require.NoError(t, err)
	assert.False(t, category.IsDefault)
	require.NotNil(t, category.OwnerID)
	assert.Equal(t, "alice", *category.OwnerID)
}

func TestDocumentID_UpperCase(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	assert.Equal(t, strings.ToUpper(id.String()), DocumentID(id))
	assert.Equal(t, []string{strings.ToUpper(id.String()), id.String()}, DocumentIDVariants(id))
}

func TestConvertTransactions_CollapsesCaseVariants(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	at := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	docs := []remote.TransactionDocument{
		{ID: strings.ToUpper(id.String()), Amount: 10, Type: "expense", Date: at, UpdatedAt: at},
		{ID: id.String(), Amount: 11, Type: "expense", Date: at, UpdatedAt: at},
		{ID: uuid.Must(uuid.NewV4()).String(), Amount: 12, Type: "income", Date: at, UpdatedAt: at},
	}

	txns, skipped := ConvertTransactions("alice", docs)
	assert.Empty(t, skipped)
	require.Len(t, txns, 2)
	assert.Equal(t, id, txns[0].ID)
	assert.Equal(t, "10", txns[0].Amount.String())
}

func TestToDocument_IDIsPathOnly(t *testing.T) {
	categoryID := uuid.Must(uuid.NewV4())
	txn := &sqlconfig.Transaction{
		ID:         uuid.Must(uuid.NewV4()),
		Amount:     decimalFromString(t, "1234.56"),
		Direction:  sqlconfig.DirectionExpense,
		Date:       time.Now(),
		CategoryID: &categoryID,
		OwnerID:    "alice",
	}
	now := time.Now()

	doc := TransactionToDocument(txn, strPtr("Food"), now)
	assert.Equal(t, strings.ToUpper(txn.ID.String()), doc.ID)
	assert.Equal(t, 1234.56, doc.Amount)
	assert.Equal(t, "expense", doc.Type)
	assert.Equal(t, strings.ToUpper(categoryID.String()), *doc.CategoryID)
	assert.Equal(t, "Food", *doc.CategoryName)

	back, err := TransactionFromDocument("alice", doc)
	require.NoError(t, err)
	assert.True(t, txn.Amount.Equal(back.Amount))
	assert.Equal(t, categoryID, *back.CategoryID)
}

func TestNormalizeColor(t *testing.T) {
	cases := map[string]string{
		"#ff6b6b":   "#FF6B6B",
		"abc":       "#AABBCC",
		"#80FF6B6B": "#FF6B6B",
		"red":       DefaultColor,
		"":          DefaultColor,
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeColor(strPtr(in)), in)
	}
	assert.Equal(t, DefaultColor, NormalizeColor(nil))
}
