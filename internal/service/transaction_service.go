package service

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/mymoney-server/internal/notify"
	"github.com/carson-networks/mymoney-server/internal/operator"
	"github.com/carson-networks/mymoney-server/internal/operator/actions"
	"github.com/carson-networks/mymoney-server/internal/reconcile"
	"github.com/carson-networks/mymoney-server/internal/remote"
	"github.com/carson-networks/mymoney-server/internal/storage"
	"github.com/carson-networks/mymoney-server/internal/storage/sqlconfig"
)

const defaultLimit = 20

// TransactionService handles transaction business logic. Every mutation is
// applied locally first; the remote write is queued afterwards and its
// outcome never reaches the caller.
type TransactionService struct {
	reader    *storage.Reader
	processor operator.IProcessor
	remote    IRemoteWriter
	hub       *notify.Hub
	logger    *logrus.Logger
	now       func() time.Time
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(deps Dependencies) *TransactionService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &TransactionService{
		reader:    deps.Reader,
		processor: deps.Processor,
		remote:    deps.Remote,
		hub:       deps.Hub,
		logger:    deps.Logger,
		now:       now,
	}
}

// CreateTransaction validates input and stores it as a new transaction of
// owner.
func (s *TransactionService) CreateTransaction(ctx context.Context, owner string, input TransactionInput) (*Transaction, error) {
	if owner == "" {
		return nil, ErrNoOwner
	}
	category, err := s.validate(ctx, owner, input)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	row := s.toStorage(id, owner, input)
	if err := s.processor.Process(ctx, &actions.UpsertTransaction{Transaction: row}); err != nil {
		return nil, err
	}

	return s.published(owner, row, category), nil
}

// UpdateTransaction overwrites every field of one of owner's transactions.
func (s *TransactionService) UpdateTransaction(ctx context.Context, owner string, id uuid.UUID, input TransactionInput) (*Transaction, error) {
	if owner == "" {
		return nil, ErrNoOwner
	}
	if _, err := s.find(ctx, owner, id); err != nil {
		return nil, err
	}
	category, err := s.validate(ctx, owner, input)
	if err != nil {
		return nil, err
	}

	row := s.toStorage(id, owner, input)
	if err := s.processor.Process(ctx, &actions.UpsertTransaction{Transaction: row}); err != nil {
		return nil, err
	}

	return s.published(owner, row, category), nil
}

// DeleteTransaction removes one of owner's transactions locally and then
// remotely.
func (s *TransactionService) DeleteTransaction(ctx context.Context, owner string, id uuid.UUID) error {
	if owner == "" {
		return ErrNoOwner
	}
	if err := s.processor.Process(ctx, &actions.DeleteTransaction{ID: id, OwnerID: owner}); err != nil {
		return err
	}

	s.hub.RecordsChanged(owner, notify.RecordTypeTransaction)
	for _, docID := range reconcile.DocumentIDVariants(id) {
		s.remote.Delete(owner, remote.RecordTypeTransaction, docID)
	}
	return nil
}

// GetTransaction retrieves one of owner's transactions by ID.
func (s *TransactionService) GetTransaction(ctx context.Context, owner string, id uuid.UUID) (*Transaction, error) {
	if owner == "" {
		return nil, ErrNoOwner
	}
	row, err := s.find(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	names, err := categoryNames(ctx, s.reader, owner)
	if err != nil {
		return nil, err
	}
	txn := transactionFromStorage(row, lookupName(names, row.CategoryID))
	return &txn, nil
}

// ListTransactions returns a page of owner's transactions, newest first,
// using cursor pagination.
func (s *TransactionService) ListTransactions(ctx context.Context, owner string, filter TransactionListFilter, cursor *TransactionCursor) ([]Transaction, *TransactionCursor, error) {
	if owner == "" {
		return nil, nil, ErrNoOwner
	}

	limit := defaultLimit
	offset := 0
	if cursor != nil {
		limit = cursor.Limit
		offset = cursor.Position
	}

	rows, err := s.reader.Transactions.List(ctx, &sqlconfig.TransactionFilter{
		OwnerID:    &owner,
		Direction:  filter.Direction,
		CategoryID: filter.CategoryID,
		From:       filter.From,
		To:         filter.To,
		Limit:      limit + 1,
		Offset:     offset,
	})
	if err != nil {
		return nil, nil, err
	}

	if len(rows) == 0 {
		return nil, nil, nil
	}

	var nextCursor *TransactionCursor
	if len(rows) > limit {
		rows = rows[:limit]
		nextCursor = &TransactionCursor{
			Position: offset + limit,
			Limit:    limit,
		}
	}

	names, err := categoryNames(ctx, s.reader, owner)
	if err != nil {
		return nil, nil, err
	}

	convertedTransactions := make([]Transaction, len(rows))
	for i, row := range rows {
		convertedTransactions[i] = transactionFromStorage(row, lookupName(names, row.CategoryID))
	}

	return convertedTransactions, nextCursor, nil
}

func (s *TransactionService) find(ctx context.Context, owner string, id uuid.UUID) (*sqlconfig.Transaction, error) {
	row, err := s.reader.Transactions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row.OwnerID != owner {
		return nil, sqlconfig.ErrNotFound
	}
	return row, nil
}

// validate checks input and returns the category it references, if any.
func (s *TransactionService) validate(ctx context.Context, owner string, input TransactionInput) (*sqlconfig.Category, error) {
	if !input.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if !input.Direction.Valid() {
		return nil, ErrInvalidDirection
	}
	if input.CategoryID == nil {
		return nil, nil
	}

	category, err := s.reader.Categories.FindByID(ctx, *input.CategoryID)
	if errors.Is(err, sqlconfig.ErrNotFound) {
		return nil, ErrCategoryNotVisible
	}
	if err != nil {
		return nil, err
	}
	if !visibleTo(category, owner) {
		return nil, ErrCategoryNotVisible
	}
	if category.Direction != input.Direction {
		return nil, ErrCategoryDirectionMismatch
	}
	return category, nil
}

func (s *TransactionService) toStorage(id uuid.UUID, owner string, input TransactionInput) *sqlconfig.Transaction {
	date := input.Date
	if date.IsZero() {
		date = s.now()
	}
	return &sqlconfig.Transaction{
		ID:         id,
		Amount:     input.Amount,
		Direction:  input.Direction,
		Date:       date,
		CategoryID: input.CategoryID,
		Note:       input.Note,
		OwnerID:    owner,
	}
}

// published announces a committed write locally and queues the remote copy.
func (s *TransactionService) published(owner string, row *sqlconfig.Transaction, category *sqlconfig.Category) *Transaction {
	var categoryName *string
	if category != nil {
		categoryName = &category.Name
	}

	s.hub.RecordsChanged(owner, notify.RecordTypeTransaction)
	s.remote.PutTransaction(owner, reconcile.TransactionToDocument(row, categoryName, s.now()))

	txn := transactionFromStorage(row, categoryName)
	return &txn
}

func visibleTo(category *sqlconfig.Category, owner string) bool {
	if category.IsDefault {
		return true
	}
	return category.OwnerID != nil && *category.OwnerID == owner
}

// categoryNames maps the ID of every category visible to owner to its name.
func categoryNames(ctx context.Context, reader *storage.Reader, owner string) (map[uuid.UUID]string, error) {
	categories, err := reader.Categories.List(ctx, &sqlconfig.CategoryFilter{OwnerID: &owner})
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(categories))
	for _, category := range categories {
		names[category.ID] = category.Name
	}
	return names, nil
}

// lookupName tolerates dangling references; they read as uncategorized.
func lookupName(names map[uuid.UUID]string, id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	name, ok := names[*id]
	if !ok {
		return nil
	}
	return &name
}
