package mock

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var once sync.Once
var db *Db

// Db is a shared in-memory SQLite database whose tables are recreated between
// scenarios.
type Db struct {
	DbConn *gorm.DB
	models []any          // migration order
	tables map[string]any // table name -> model
	schema string
}

// NewDb opens the shared database once and migrates models in the given order.
func NewDb(schema string, models []any) *Db {
	if db == nil {
		once.Do(
			func() {
				db = open(schema, models)
			},
		)
	}

	return db
}

func open(schema string, models []any) *Db {
	dbSQL, err := sql.Open("sqlite", "file::memory:?cache=shared")
	if err != nil {
		panic(err)
	}

	dbSQL.SetMaxOpenConns(1)

	dbConn, err := gorm.Open(sqlite.Dialector{Conn: dbSQL}, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		panic("failed to connect to database. err: " + err.Error())
	}

	newDbMock := &Db{
		DbConn: dbConn,
		schema: schema,
		models: models,
		tables: make(map[string]any, len(models)),
	}

	for _, model := range models {
		table, err := newDbMock.tableName(model)
		if err != nil {
			panic(fmt.Sprintf("failed to parse model %T. err: %s", model, err.Error()))
		}
		newDbMock.tables[table] = model
	}

	err = newDbMock.ClearDB()
	if err != nil {
		panic(fmt.Sprintf("failed to clear database. err: %s", err.Error()))
	}

	return newDbMock
}

// ClearDB recreates the schema on first use and empties every table afterwards.
func (d *Db) ClearDB() (err error) {
	for attempt := 1; attempt <= 5; attempt++ {
		if err = d.DbConn.Exec("ATTACH ':memory:' AS " + d.schema).Error; err != nil {
			if !strings.Contains(err.Error(), "is already in use") {
				return err
			}
		} else {
			if err = d.init(); err != nil {
				continue
			}

			time.Sleep(200 * time.Millisecond)

			_ = d.DbConn.Exec("PRAGMA schema_version").Error

			if err = d.checkTables(); err != nil {
				continue
			}
		}

		if err = d.reset(); err != nil {
			continue
		}
		return nil
	}
	return fmt.Errorf("failed to clear database after 5 attempts: %w", err)
}

func (d *Db) init() (err error) {
	tx := d.DbConn.Exec("BEGIN EXCLUSIVE")
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
			err = fmt.Errorf("panic occurred while clearing DB: %v", rec)
		} else if err != nil {
			if errTx := tx.Exec("ROLLBACK").Error; errTx != nil {
				panic(errTx)
			}
		} else {
			if errTx := tx.Exec("COMMIT").Error; errTx != nil {
				panic(errTx)
			}
		}
	}()

	// Drop dependents first.
	for i := len(d.models) - 1; i >= 0; i-- {
		table, err := d.tableName(d.models[i])
		if err != nil {
			return err
		}
		if err := tx.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)).Error; err != nil {
			return err
		}
	}

	if err := tx.AutoMigrate(d.models...); err != nil {
		return err
	}

	for _, model := range d.models {
		if !tx.Migrator().HasTable(model) {
			return fmt.Errorf("table for model %T was not created", model)
		}
	}

	return nil
}

func (d *Db) reset() error {
	for i := len(d.models) - 1; i >= 0; i-- {
		model := d.models[i]
		err := d.DbConn.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *Db) checkTables() error {
	for _, model := range d.models {
		if !d.DbConn.Migrator().HasTable(model) {
			return fmt.Errorf("table for model %T was not created", model)
		}
	}
	return nil
}

func (d *Db) tableName(model any) (string, error) {
	stmt := &gorm.Statement{DB: d.DbConn}
	if err := stmt.Parse(model); err != nil {
		return "", err
	}
	return stmt.Schema.Table, nil
}

// GetModel returns the model registered for a table name.
func (d *Db) GetModel(table string) (any, bool) {
	model, ok := d.tables[table]
	return model, ok
}
