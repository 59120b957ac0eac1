package reconcile

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/mymoney-server/internal/remote"
	"github.com/carson-networks/mymoney-server/internal/storage"
	"github.com/carson-networks/mymoney-server/internal/storage/sqlconfig"
)

const (
	DefaultColor = "#D3D3D3"
	DefaultIcon  = "folder"
)

var (
	ErrInvalidDocumentID = errors.New("invalid document id")
	ErrInvalidDocument   = errors.New("invalid document")
)

var hexColorRegex = regexp.MustCompile(`^#?([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{8})$`)

// DocumentID is the remote document ID for a local record ID. Remote IDs
// are the upper-case form written by the mobile clients.
func DocumentID(id uuid.UUID) string {
	return strings.ToUpper(id.String())
}

// DocumentIDVariants lists every spelling under which the record may be
// stored remotely, the canonical one first.
func DocumentIDVariants(id uuid.UUID) []string {
	return []string{DocumentID(id), id.String()}
}

// ParseDocumentID converts a remote document ID back into a local record ID.
func ParseDocumentID(docID string) (uuid.UUID, error) {
	id, err := uuid.FromString(docID)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidDocumentID, docID)
	}
	return id, nil
}

// TransactionFromDocument converts a remote transaction for owner. A
// category reference that is not a valid ID is dropped.
func TransactionFromDocument(owner string, doc remote.TransactionDocument) (*sqlconfig.Transaction, error) {
	id, err := ParseDocumentID(doc.ID)
	if err != nil {
		return nil, err
	}
	direction, err := sqlconfig.ParseDirection(doc.Type)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrInvalidDocument, doc.ID, err)
	}
	amount := decimal.NewFromFloat(doc.Amount)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w %s: amount %s is not positive", ErrInvalidDocument, doc.ID, amount)
	}

	txn := &sqlconfig.Transaction{
		ID:        id,
		Amount:    amount,
		Direction: direction,
		Date:      doc.Date.UTC(),
		Note:      doc.Note,
		OwnerID:   owner,
	}
	if doc.CategoryID != nil {
		if categoryID, err := ParseDocumentID(*doc.CategoryID); err == nil {
			txn.CategoryID = &categoryID
		}
	}
	return txn, nil
}

// CategoryFromDocument converts a remote category for owner. Only the seeded
// default categories may be flagged default; any other category belongs to
// owner whatever the document says.
func CategoryFromDocument(owner string, doc remote.CategoryDocument) (*sqlconfig.Category, error) {
	id, err := ParseDocumentID(doc.ID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(doc.Name)
	if name == "" {
		return nil, fmt.Errorf("%w %s: empty name", ErrInvalidDocument, doc.ID)
	}
	direction, err := sqlconfig.ParseDirection(doc.Type)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrInvalidDocument, doc.ID, err)
	}

	icon := DefaultIcon
	if doc.Icon != nil && strings.TrimSpace(*doc.Icon) != "" {
		icon = strings.TrimSpace(*doc.Icon)
	}
	color := NormalizeColor(doc.Color)

	category := &sqlconfig.Category{
		ID:        id,
		Name:      name,
		Icon:      &icon,
		Color:     &color,
		Direction: direction,
		IsDefault: doc.IsDefault && storage.IsDefaultCategoryID(id),
	}
	if !category.IsDefault {
		category.OwnerID = &owner
	}
	return category, nil
}

// TransactionToDocument builds the remote form of txn. categoryName is
// stored alongside the reference for readers that do not resolve it.
func TransactionToDocument(txn *sqlconfig.Transaction, categoryName *string, now time.Time) remote.TransactionDocument {
	doc := remote.TransactionDocument{
		ID:        DocumentID(txn.ID),
		Amount:    txn.Amount.InexactFloat64(),
		Type:      string(txn.Direction),
		Date:      txn.Date,
		Note:      txn.Note,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if txn.CategoryID != nil {
		categoryID := DocumentID(*txn.CategoryID)
		doc.CategoryID = &categoryID
		doc.CategoryName = categoryName
	}
	return doc
}

func CategoryToDocument(category *sqlconfig.Category, now time.Time) remote.CategoryDocument {
	return remote.CategoryDocument{
		ID:        DocumentID(category.ID),
		Name:      category.Name,
		Icon:      category.Icon,
		Color:     category.Color,
		Type:      string(category.Direction),
		IsDefault: category.IsDefault,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NormalizeColor returns color as #RRGGBB. Short forms are expanded, an
// alpha prefix is dropped, and anything else becomes DefaultColor.
func NormalizeColor(color *string) string {
	if color == nil {
		return DefaultColor
	}
	match := hexColorRegex.FindStringSubmatch(strings.TrimSpace(*color))
	if match == nil {
		return DefaultColor
	}

	hex := strings.ToUpper(match[1])
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 8:
		hex = hex[2:]
	}
	return "#" + hex
}

// ConvertTransactions converts every valid document. Documents that cannot
// be converted are reported in the returned errors and left out. Documents
// whose IDs differ only in case are one record; the most recently updated
// one wins.
func ConvertTransactions(owner string, docs []remote.TransactionDocument) ([]*sqlconfig.Transaction, []error) {
	var skipped []error
	txns := make([]*sqlconfig.Transaction, 0, len(docs))
	winners := make(map[uuid.UUID]winner, len(docs))
	for _, doc := range docs {
		txn, err := TransactionFromDocument(owner, doc)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		if w, ok := winners[txn.ID]; ok {
			if w.losesTo(doc.ID, doc.UpdatedAt) {
				txns[w.index] = txn
				winners[txn.ID] = winner{index: w.index, docID: doc.ID, updatedAt: doc.UpdatedAt}
			}
			continue
		}
		winners[txn.ID] = winner{index: len(txns), docID: doc.ID, updatedAt: doc.UpdatedAt}
		txns = append(txns, txn)
	}
	return txns, skipped
}

// ConvertCategories converts every valid document. Documents that cannot be
// converted are reported in the returned errors and left out. Duplicates by
// ID are resolved like ConvertTransactions.
func ConvertCategories(owner string, docs []remote.CategoryDocument) ([]*sqlconfig.Category, []error) {
	var skipped []error
	cats := make([]*sqlconfig.Category, 0, len(docs))
	winners := make(map[uuid.UUID]winner, len(docs))
	for _, doc := range docs {
		category, err := CategoryFromDocument(owner, doc)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		if w, ok := winners[category.ID]; ok {
			if w.losesTo(doc.ID, doc.UpdatedAt) {
				cats[w.index] = category
				winners[category.ID] = winner{index: w.index, docID: doc.ID, updatedAt: doc.UpdatedAt}
			}
			continue
		}
		winners[category.ID] = winner{index: len(cats), docID: doc.ID, updatedAt: doc.UpdatedAt}
		cats = append(cats, category)
	}
	return cats, skipped
}

type winner struct {
	index     int
	docID     string
	updatedAt time.Time
}

// losesTo reports whether another document for the same record should
// replace w. Ties go to the canonical document ID.
func (w winner) losesTo(docID string, updatedAt time.Time) bool {
	if !updatedAt.Equal(w.updatedAt) {
		return updatedAt.After(w.updatedAt)
	}
	return w.docID != strings.ToUpper(w.docID) && docID == strings.ToUpper(docID)
}
