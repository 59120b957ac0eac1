package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/stephenafamo/bob"
	_ "modernc.org/sqlite"

	"github.com/carson-networks/mymoney-server/internal/config"
)

// Storage is the local store context. All reads go through Reader; every
// mutation goes through a Writer obtained from Write.
type Storage struct {
	DB        *sql.DB
	bobDB     bob.DB
	batchSize int
	Reader    *Reader
}

func NewStorage(ctx context.Context, env *config.Config, logger *logrus.Logger) (*Storage, error) {
	s, err := open(ctx, env.StoragePath, env.StorageBatchSize)
	if err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"path":      env.StoragePath,
		"batchSize": env.StorageBatchSize,
	}).Info("Storage.NewStorage.opened")
	return s, nil
}

// Open opens the SQLite database at path, applies the embedded migrations
// and seeds the default categories.
func Open(ctx context.Context, path string) (*Storage, error) {
	return open(ctx, path, 0)
}

func open(ctx context.Context, path string, batchSize int) (*Storage, error) {
	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	// A single connection keeps every write on one SQLite writer.
	db.SetMaxOpenConns(1)

	if _, _, err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	bobDB := bob.NewDB(db)
	s := &Storage{
		DB:        db,
		bobDB:     bobDB,
		batchSize: batchSize,
		Reader:    NewReader(bobDB, batchSize),
	}

	writer, err := s.Write(ctx)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := seedDefaultCategories(ctx, writer.Categories); err != nil {
		_ = writer.Rollback(ctx)
		_ = db.Close()
		return nil, fmt.Errorf("seed default categories: %w", err)
	}
	if err := writer.Commit(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Write begins a database transaction and returns a Writer bound to it.
func (s *Storage) Write(ctx context.Context) (*Writer, error) {
	tx, err := s.bobDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return NewWriter(tx, s.batchSize), nil
}

func (s *Storage) Close() error {
	return s.DB.Close()
}
