package sqlconfig

import (
	"context"
	"database/sql"
	"errors"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/sqlite"
	"github.com/stephenafamo/bob/dialect/sqlite/im"
	"github.com/stephenafamo/bob/dialect/sqlite/sm"
	"github.com/stephenafamo/scan"
)

const settingsTableName = "settings"

// ISettingsTable is a small key/value store for process-level state.
type ISettingsTable interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

var _ ISettingsTable = (*SettingsTable)(nil)

type SettingsTable struct {
	exec bob.Executor
}

func NewSettingsTable(exec bob.Executor) *SettingsTable {
	return &SettingsTable{exec: exec}
}

func (t *SettingsTable) Get(ctx context.Context, key string) (string, bool, error) {
	q := sqlite.Select(
		sm.Columns("value"),
		sm.From(settingsTableName),
		sm.Where(sqlite.Quote("key").EQ(sqlite.Arg(key))),
	)
	value, err := bob.One(ctx, t.exec, q, scan.SingleColumnMapper[string])
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (t *SettingsTable) Set(ctx context.Context, key, value string) error {
	q := sqlite.Insert(
		im.Into(settingsTableName, "key", "value"),
		im.Values(sqlite.Arg(key), sqlite.Arg(value)),
		im.OnConflict("key").DoUpdate(im.SetExcluded("value")),
	)
	_, err := bob.Exec(ctx, t.exec, q)
	return err
}
