package remote

import "time"

// TransactionDocument is the remote form of a transaction. The ID is the
// document path segment and is never written as a field.
type TransactionDocument struct {
	ID           string    `firestore:"-"`
	Amount       float64   `firestore:"amount"`
	Type         string    `firestore:"type"`
	CategoryID   *string   `firestore:"categoryId"`
	CategoryName *string   `firestore:"categoryName"`
	Date         time.Time `firestore:"date"`
	Note         *string   `firestore:"note"`
	CreatedAt    time.Time `firestore:"createdAt"`
	UpdatedAt    time.Time `firestore:"updatedAt"`
}

// CategoryDocument is the remote form of a category. Ownership comes from
// the collection path, so there is no owner field.
type CategoryDocument struct {
	ID        string    `firestore:"-"`
	Name      string    `firestore:"name"`
	Icon      *string   `firestore:"icon"`
	Color     *string   `firestore:"color"`
	Type      string    `firestore:"type"`
	IsDefault bool      `firestore:"isDefault"`
	CreatedAt time.Time `firestore:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}
