package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"cryptovibe/internal/model"
)

// Models lists every table owned by the service, in creation order.
var Models = []interface{}{
	&model.User{},
	&model.Session{},
	&model.WhiteboardStroke{},
}

// gormConfig translates driver errors so unique violations surface as
// gorm.ErrDuplicatedKey.
func gormConfig() *gorm.Config {
	return &gorm.Config{TranslateError: true}
}

// NewMySQL returns a connected GORM DB instance.
func NewMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	return db, nil
}

// NewPostgres returns a connected GORM DB instance backed by PostgreSQL.
func NewPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

// Open connects using the named driver ("mysql" or "postgres").
func Open(driver, mysqlDSN, postgresDSN string) (*gorm.DB, error) {
	switch driver {
	case "", "mysql":
		return NewMySQL(mysqlDSN)
	case "postgres", "postgresql":
		return NewPostgres(postgresDSN)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
}

// Migrate creates or updates all tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Reset drops all tables in reverse dependency order. Missing tables are skipped.
func Reset(db *gorm.DB) error {
	for i := len(Models) - 1; i >= 0; i-- {
		if !db.Migrator().HasTable(Models[i]) {
			continue
		}
		if err := db.Migrator().DropTable(Models[i]); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return nil
}
