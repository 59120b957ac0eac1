package service

import (
	"context"
	"strings"
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

const importCategoryName = "Other"

// CategoryService handles category business logic.
type CategoryService struct {
	reader    *storage.Reader
	processor operator.IProcessor
	remote    IRemoteWriter
	hub       *notify.Hub
	logger    *logrus.Logger
	now       func() time.Time
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(deps Dependencies) *CategoryService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &CategoryService{
		reader:    deps.Reader,
		processor: deps.Processor,
		remote:    deps.Remote,
		hub:       deps.Hub,
		logger:    deps.Logger,
		now:       now,
	}
}

// ListCategories returns the categories visible to owner: the defaults and
// the owner's own. Without an owner only the defaults are returned.
func (s *CategoryService) ListCategories(ctx context.Context, owner string, direction *sqlconfig.Direction) ([]Category, error) {
	filter := &sqlconfig.CategoryFilter{Direction: direction}
	if owner != "" {
		filter.OwnerID = &owner
	}

	rows, err := s.reader.Categories.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	categories := make([]Category, len(rows))
	for i, row := range rows {
		categories[i] = categoryFromStorage(row)
	}
	return categories, nil
}

// CreateCategory stores a custom category owned by owner.
func (s *CategoryService) CreateCategory(ctx context.Context, owner string, input CategoryInput) (*Category, error) {
	if owner == "" {
		return nil, ErrNoOwner
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if !input.Direction.Valid() {
		return nil, ErrInvalidDirection
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	color := reconcile.NormalizeColor(input.Color)
	row := &sqlconfig.Category{
		ID:        id,
		Name:      name,
		Icon:      input.Icon,
		Color:     &color,
		Direction: input.Direction,
		OwnerID:   &owner,
	}
	if err := s.processor.Process(ctx, &actions.UpsertCategory{Category: row}); err != nil {
		return nil, err
	}

	s.hub.RecordsChanged(owner, notify.RecordTypeCategory)
	s.remote.PutCategory(owner, reconcile.CategoryToDocument(row, s.now()))

	category := categoryFromStorage(row)
	return &category, nil
}

// DeleteCategory removes one of owner's custom categories. Default
// categories are refused with sqlconfig.ErrDefaultCategoryImmutable.
// Transactions that used the category become uncategorized.
func (s *CategoryService) DeleteCategory(ctx context.Context, owner string, id uuid.UUID) error {
	if owner == "" {
		return ErrNoOwner
	}
	if err := s.processor.Process(ctx, &actions.DeleteCategory{ID: id, OwnerID: owner}); err != nil {
		return err
	}

	s.hub.RecordsChanged(owner, notify.RecordTypeCategory)
	s.hub.RecordsChanged(owner, notify.RecordTypeTransaction)
	for _, docID := range reconcile.DocumentIDVariants(id) {
		s.remote.Delete(owner, remote.RecordTypeCategory, docID)
	}
	return nil
}

// ResolveImportCategory picks the category for an automatically imported
// transaction: the visible category named "Other" for direction, otherwise
// the first visible category of that direction.
func (s *CategoryService) ResolveImportCategory(ctx context.Context, owner string, direction sqlconfig.Direction) (*Category, error) {
	name := importCategoryName
	rows, err := s.reader.Categories.List(ctx, &sqlconfig.CategoryFilter{
		OwnerID:   &owner,
		Direction: &direction,
		Name:      &name,
		Limit:     1,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		rows, err = s.reader.Categories.List(ctx, &sqlconfig.CategoryFilter{
			OwnerID:   &owner,
			Direction: &direction,
			Limit:     1,
		})
		if err != nil {
			return nil, err
		}
	}
	if len(rows) == 0 {
		return nil, ErrNoImportCategory
	}

	category := categoryFromStorage(rows[0])
	return &category, nil
}
