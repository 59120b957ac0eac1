package storage

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/mymoney-server/internal/storage/sqlconfig"
)

var defaultCategoryNamespace = uuid.NewV5(uuid.NamespaceURL, "https://mymoney.carson-networks.com/categories/default")

type defaultCategory struct {
	name      string
	icon      string
	color     string
	direction sqlconfig.Direction
}

var defaultCategories = []defaultCategory{
	{name: "Food", icon: "fork.knife", color: "#FF6B6B", direction: sqlconfig.DirectionExpense},
	{name: "Transport", icon: "car.fill", color: "#4ECDC4", direction: sqlconfig.DirectionExpense},
	{name: "Shopping", icon: "bag.fill", color: "#95E1D3", direction: sqlconfig.DirectionExpense},
	{name: "Bills", icon: "doc.text.fill", color: "#F38181", direction: sqlconfig.DirectionExpense},
	{name: "Entertainment", icon: "tv.fill", color: "#AA96DA", direction: sqlconfig.DirectionExpense},
	{name: "Health", icon: "heart.fill", color: "#FCBAD3", direction: sqlconfig.DirectionExpense},
	{name: "Education", icon: "book.fill", color: "#A8E6CF", direction: sqlconfig.DirectionExpense},
	{name: "Other", icon: "ellipsis.circle.fill", color: "#D3D3D3", direction: sqlconfig.DirectionExpense},
	{name: "Salary", icon: "dollarsign.circle.fill", color: "#51CF66", direction: sqlconfig.DirectionIncome},
	{name: "Freelance", icon: "briefcase.fill", color: "#339AF0", direction: sqlconfig.DirectionIncome},
	{name: "Investment", icon: "chart.line.uptrend.xyaxis", color: "#845EF7", direction: sqlconfig.DirectionIncome},
	{name: "Gift", icon: "gift.fill", color: "#FFD43B", direction: sqlconfig.DirectionIncome},
	{name: "Other", icon: "ellipsis.circle.fill", color: "#D3D3D3", direction: sqlconfig.DirectionIncome},
}

// DefaultCategoryID returns the stable ID of the default category with the
// given direction and name. Every installation derives the same IDs.
func DefaultCategoryID(direction sqlconfig.Direction, name string) uuid.UUID {
	return uuid.NewV5(defaultCategoryNamespace, string(direction)+"/"+name)
}

// DefaultCategories returns the system-wide categories seeded into every
// local store.
func DefaultCategories() []*sqlconfig.Category {
	result := make([]*sqlconfig.Category, 0, len(defaultCategories))
	for _, d := range defaultCategories {
		icon, color := d.icon, d.color
		result = append(result, &sqlconfig.Category{
			ID:        DefaultCategoryID(d.direction, d.name),
			Name:      d.name,
			Icon:      &icon,
			Color:     &color,
			Direction: d.direction,
			IsDefault: true,
		})
	}
	return result
}

// IsDefaultCategoryID reports whether id belongs to one of the seeded
// default categories.
func IsDefaultCategoryID(id uuid.UUID) bool {
	for _, d := range defaultCategories {
		if DefaultCategoryID(d.direction, d.name) == id {
			return true
		}
	}
	return false
}

// seedDefaultCategories inserts the missing default categories. Existing rows
// are left as they are.
func seedDefaultCategories(ctx context.Context, categories sqlconfig.ICategoryTable) (int, error) {
	inserted := 0
	for _, category := range DefaultCategories() {
		_, err := categories.FindByID(ctx, category.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, sqlconfig.ErrNotFound) {
			return inserted, err
		}
		if err := categories.Insert(ctx, category); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}
