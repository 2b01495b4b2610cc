package fixturetest

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Component is an in-memory SQLite database for fixture tests. Each
// component gets its own shared-cache memory database, so parallel tests in
// one package never see each other's tables.
type Component struct {
	db      *gorm.DB
	models  []interface{}
	started bool
}

// NewComponent creates a stopped test database component.
func NewComponent() *Component {
	return &Component{}
}

// WithModels registers models for auto-migration on Start.
func (c *Component) WithModels(models ...interface{}) *Component {
	c.models = append(c.models, models...)
	return c
}

// New starts an in-memory database bound to the test's lifetime and
// auto-migrates the given models.
func New(t *testing.T, models ...interface{}) *Component {
	t.Helper()
	c := NewComponent().WithModels(models...)
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start test database: %v", err)
	}
	t.Cleanup(func() {
		if err := c.Stop(context.Background()); err != nil {
			t.Errorf("stop test database: %v", err)
		}
	})
	return c
}

// DB returns the underlying *gorm.DB, or nil if not started.
func (c *Component) DB() *gorm.DB {
	return c.db
}

// Name returns the component name.
func (c *Component) Name() string {
	return "fixture-test-db"
}

// Start opens the in-memory database and migrates registered models.
// The connection pool is pinned to one connection: SQLite memory databases
// live per-connection, and savepoint-based isolation needs every statement on
// the same handle anyway.
func (c *Component) Start(ctx context.Context) error {
	if c.started {
		return fmt.Errorf("component already started")
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return fmt.Errorf("open test database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping test database: %w", err)
	}

	c.db = db
	c.started = true

	if len(c.models) > 0 {
		if err := c.db.AutoMigrate(c.models...); err != nil {
			return fmt.Errorf("auto-migrate failed: %w", err)
		}
	}
	return nil
}

// Stop closes the database connection.
func (c *Component) Stop(ctx context.Context) error {
	if !c.started || c.db == nil {
		return nil
	}
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	c.started = false
	return sqlDB.Close()
}

// Reset clears all data from all tables while preserving the schema.
func (c *Component) Reset(ctx context.Context) error {
	if !c.started || c.db == nil {
		return fmt.Errorf("component not started")
	}
	tables, err := TableNames(c.db)
	if err != nil {
		return err
	}
	for _, table := range tables {
		if err := c.db.WithContext(ctx).Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return fmt.Errorf("clear table %s: %w", table, err)
		}
	}
	return nil
}
