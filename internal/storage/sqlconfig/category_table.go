package sqlconfig

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aarondl/opt/null"
	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/sqlite"
	"github.com/stephenafamo/bob/dialect/sqlite/dialect"
	"github.com/stephenafamo/bob/dialect/sqlite/dm"
	"github.com/stephenafamo/bob/dialect/sqlite/im"
	"github.com/stephenafamo/bob/dialect/sqlite/sm"
	"github.com/stephenafamo/bob/dialect/sqlite/um"
	"github.com/stephenafamo/scan"
)

const categoriesTableName = "categories"

var categoryColumns = []any{"id", "name", "icon", "color", "direction", "is_default", "owner_id"}

var _ ICategoryTable = (*CategoriesTable)(nil)

type categoryRow struct {
	ID        uuid.UUID        `db:"id"`
	Name      string           `db:"name"`
	Icon      null.Val[string] `db:"icon"`
	Color     null.Val[string] `db:"color"`
	Direction string           `db:"direction"`
	IsDefault bool             `db:"is_default"`
	OwnerID   null.Val[string] `db:"owner_id"`
}

type CategoriesTable struct {
	exec bob.Executor
}

func NewCategoriesTable(exec bob.Executor) *CategoriesTable {
	return &CategoriesTable{exec: exec}
}

// FindByID retrieves a category by primary key.
func (t *CategoriesTable) FindByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	q := sqlite.Select(
		sm.Columns(categoryColumns...),
		sm.From(categoriesTableName),
		sm.Where(sqlite.Quote("id").EQ(sqlite.Arg(id))),
	)
	row, err := bob.One(ctx, t.exec, q, scan.StructMapper[categoryRow]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rowToCategory(row), nil
}

// List returns the categories matching the filter with defaults first, then
// by name.
func (t *CategoriesTable) List(ctx context.Context, filter *CategoryFilter) ([]*Category, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(categoryColumns...),
		sm.From(categoriesTableName),
	}
	queryMods = append(queryMods, categoryWhere(filter)...)
	queryMods = append(queryMods,
		sm.OrderBy(sqlite.Quote("is_default")).Desc(),
		sm.OrderBy(sqlite.Quote("name")).Asc(),
		sm.OrderBy(sqlite.Quote("id")).Asc(),
	)
	if filter != nil && filter.Limit > 0 {
		queryMods = append(queryMods, sm.Limit(filter.Limit))
	}
	if filter != nil && filter.Offset > 0 {
		queryMods = append(queryMods, sm.Offset(filter.Offset))
	}

	rows, err := bob.All(ctx, t.exec, sqlite.Select(queryMods...), scan.StructMapper[categoryRow]())
	if err != nil {
		return nil, err
	}
	result := make([]*Category, len(rows))
	for i, row := range rows {
		result[i] = rowToCategory(row)
	}
	return result, nil
}

func (t *CategoriesTable) Count(ctx context.Context, filter *CategoryFilter) (int64, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(sqlite.Raw("count(*)")),
		sm.From(categoriesTableName),
	}
	queryMods = append(queryMods, categoryWhere(filter)...)
	return bob.One(ctx, t.exec, sqlite.Select(queryMods...), scan.SingleColumnMapper[int64])
}

func (t *CategoriesTable) Insert(ctx context.Context, category *Category) error {
	row := categoryToRow(category)
	q := sqlite.Insert(
		im.Into(categoriesTableName, "id", "name", "icon", "color", "direction", "is_default", "owner_id"),
		im.Values(
			sqlite.Arg(row.ID),
			sqlite.Arg(row.Name),
			sqlite.Arg(row.Icon),
			sqlite.Arg(row.Color),
			sqlite.Arg(row.Direction),
			sqlite.Arg(row.IsDefault),
			sqlite.Arg(row.OwnerID),
		),
	)
	_, err := bob.Exec(ctx, t.exec, q)
	return err
}

// Update overwrites a custom category. Defaults are refused.
func (t *CategoriesTable) Update(ctx context.Context, category *Category) error {
	if err := t.requireCustom(ctx, category.ID); err != nil {
		return err
	}
	row := categoryToRow(category)
	q := sqlite.Update(
		um.Table(categoriesTableName),
		um.SetCol("name").ToArg(row.Name),
		um.SetCol("icon").ToArg(row.Icon),
		um.SetCol("color").ToArg(row.Color),
		um.SetCol("direction").ToArg(row.Direction),
		um.SetCol("is_default").ToArg(row.IsDefault),
		um.SetCol("owner_id").ToArg(row.OwnerID),
		um.Where(sqlite.Quote("id").EQ(sqlite.Arg(row.ID))),
	)
	res, err := bob.Exec(ctx, t.exec, q)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Upsert updates the category in place when its ID exists and inserts it
// otherwise. An existing default is left untouched and reported with
// ErrDefaultCategoryImmutable.
func (t *CategoriesTable) Upsert(ctx context.Context, category *Category) (bool, error) {
	existing, err := t.FindByID(ctx, category.ID)
	if errors.Is(err, ErrNotFound) {
		return true, t.Insert(ctx, category)
	}
	if err != nil {
		return false, err
	}
	if existing.IsDefault {
		return false, ErrDefaultCategoryImmutable
	}
	return false, t.Update(ctx, category)
}

// Delete removes a custom category. Transactions that referenced it become
// uncategorized.
func (t *CategoriesTable) Delete(ctx context.Context, id uuid.UUID) error {
	if err := t.requireCustom(ctx, id); err != nil {
		return err
	}
	q := sqlite.Delete(
		dm.From(categoriesTableName),
		dm.Where(sqlite.Quote("id").EQ(sqlite.Arg(id))),
	)
	res, err := bob.Exec(ctx, t.exec, q)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteByOwner removes the owner's custom categories. Defaults are never
// owned and are therefore never removed.
func (t *CategoriesTable) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	q := sqlite.Delete(
		dm.From(categoriesTableName),
		dm.Where(sqlite.Quote("owner_id").EQ(sqlite.Arg(ownerID))),
		dm.Where(sqlite.Quote("is_default").EQ(sqlite.Arg(false))),
	)
	res, err := bob.Exec(ctx, t.exec, q)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (t *CategoriesTable) requireCustom(ctx context.Context, id uuid.UUID) error {
	existing, err := t.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.IsDefault {
		return ErrDefaultCategoryImmutable
	}
	return nil
}

func categoryWhere(filter *CategoryFilter) []bob.Mod[*dialect.SelectQuery] {
	if filter == nil || filter.OwnerID == nil {
		whereMods := []bob.Mod[*dialect.SelectQuery]{
			sm.Where(sqlite.Quote("is_default").EQ(sqlite.Arg(true))),
		}
		if filter != nil {
			whereMods = append(whereMods, categoryFieldWhere(filter)...)
		}
		return whereMods
	}

	var whereMods []bob.Mod[*dialect.SelectQuery]
	if filter.OwnedOnly {
		whereMods = append(whereMods,
			sm.Where(sqlite.Quote("owner_id").EQ(sqlite.Arg(*filter.OwnerID))),
			sm.Where(sqlite.Quote("is_default").EQ(sqlite.Arg(false))),
		)
	} else {
		whereMods = append(whereMods, sm.Where(sqlite.Raw("(is_default = 1 OR owner_id = ?)", *filter.OwnerID)))
	}
	return append(whereMods, categoryFieldWhere(filter)...)
}

func categoryFieldWhere(filter *CategoryFilter) []bob.Mod[*dialect.SelectQuery] {
	var whereMods []bob.Mod[*dialect.SelectQuery]
	if filter.Direction != nil {
		whereMods = append(whereMods, sm.Where(sqlite.Quote("direction").EQ(sqlite.Arg(string(*filter.Direction)))))
	}
	if filter.Name != nil {
		whereMods = append(whereMods, sm.Where(sqlite.Quote("name").EQ(sqlite.Arg(*filter.Name))))
	}
	return whereMods
}

func categoryToRow(category *Category) categoryRow {
	row := categoryRow{
		ID:        category.ID,
		Name:      category.Name,
		Icon:      null.FromPtr(category.Icon),
		Color:     null.FromPtr(category.Color),
		Direction: string(category.Direction),
		IsDefault: category.IsDefault,
		OwnerID:   null.FromPtr(category.OwnerID),
	}
	if category.IsDefault {
		row.OwnerID = null.Val[string]{}
	}
	return row
}

func rowToCategory(row categoryRow) *Category {
	return &Category{
		ID:        row.ID,
		Name:      row.Name,
		Icon:      row.Icon.Ptr(),
		Color:     row.Color.Ptr(),
		Direction: Direction(row.Direction),
		IsDefault: row.IsDefault,
		OwnerID:   row.OwnerID.Ptr(),
	}
}
