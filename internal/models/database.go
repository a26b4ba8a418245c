package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database wraps the gorm connection and the relationship model in use
type Database struct {
	conn  *gorm.DB
	graph Graph
}

// NewDatabase opens the SQLite database at path and migrates the schema.
// path may be a plain file path or a "file:" URI. SQL errors and slow
// queries are reported through logger.
func NewDatabase(path string, mode GraphMode, logger *logrus.Logger) (*Database, error) {
	graph, err := NewGraph(mode)
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(sqlite.Open(withForeignKeys(path)), &gorm.Config{
		Logger: gormlogger.New(gormWriter{logger}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	// SQLite allows a single writer
	sqlDB.SetMaxOpenConns(1)

	db := &Database{conn: conn, graph: graph}
	if err := db.Migrate(); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates all tables
func (db *Database) Migrate() error {
	if err := db.conn.AutoMigrate(&User{}, &UserItem{}, &Follow{}, &Friend{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Rows created before search keys existed
	var stale []User
	if err := db.conn.Where("search_key = ''").Find(&stale).Error; err != nil {
		return fmt.Errorf("failed to load users for search keys: %w", err)
	}
	for _, u := range stale {
		key := searchKey(u.Name, u.Username)
		if err := db.conn.Model(&User{}).Where("id = ?", u.ID).UpdateColumn("search_key", key).Error; err != nil {
			return fmt.Errorf("failed to backfill search key for user %d: %w", u.ID, err)
		}
	}
	return nil
}

// Close closes the database connection
func (db *Database) Close() error {
	sqlDB, err := db.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the connection is usable
func (db *Database) Ping(ctx context.Context) error {
	sqlDB, err := db.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Graph returns the relationship model this database was opened with
func (db *Database) Graph() Graph {
	return db.graph
}

// gormWriter routes gorm's log lines into logrus at warn level
type gormWriter struct {
	logger *logrus.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.logger.WithField("component", "gorm").Warnf(format, args...)
}

func withForeignKeys(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}
