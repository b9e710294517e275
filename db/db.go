package db

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/jhunt/go-log"
	"github.com/jmoiron/sqlx"
)

type DB struct {
	connection *sqlx.DB
	Driver     string
	DSN        string

	exclusive sync.Mutex
	qLock     sync.Mutex
	qCache    map[string]*sqlx.Stmt
	qAlias    map[string]string
}

func (db *DB) Copy() *DB {
	return &DB{
		Driver: db.Driver,
		DSN:    db.DSN,
	}
}

// Are we connected?
func (db *DB) Connected() bool {
	if db.connection == nil {
		return false
	}
	return true
}

// Connect to the backend database
func (db *DB) Connect() error {
	connection, err := sqlx.Open(db.Driver, db.DSN)
	if err != nil {
		return err
	}

	if db.Driver == "sqlite3" {
		/* every new connection to :memory: is a new, empty database */
		connection.SetMaxOpenConns(1)
	}

	db.connection = connection
	if db.qCache == nil {
		db.qCache = make(map[string]*sqlx.Stmt)
	}
	if db.qAlias == nil {
		db.qAlias = make(map[string]string)
	}
	return nil
}

// Disconnect from the backend database
func (db *DB) Disconnect() error {
	if db.connection != nil {
		if err := db.connection.Close(); err != nil {
			return err
		}
		db.connection = nil
		db.qLock.Lock()
		db.qCache = make(map[string]*sqlx.Stmt)
		db.qLock.Unlock()
	}
	return nil
}

// Register a SQL query alias
func (db *DB) Alias(name string, sql string) error {
	db.qLock.Lock()
	defer db.qLock.Unlock()
	db.qAlias[name] = sql
	return nil
}

// Execute a named, non-data query (INSERT, UPDATE, DELETE, etc.)
func (db *DB) Exec(sql_or_name string, args ...interface{}) error {
	_, err := db.exec(sql_or_name, args...)
	return err
}

func (db *DB) exec(sql_or_name string, args ...interface{}) (sql.Result, error) {
	s, err := db.statement(sql_or_name)
	if err != nil {
		return nil, err
	}

	log.Debugf("Parameters: %v", args)
	return s.Exec(args...)
}

// Execute a named, data query (SELECT)
func (db *DB) Query(sql_or_name string, args ...interface{}) (*sql.Rows, error) {
	s, err := db.statement(sql_or_name)
	if err != nil {
		return nil, err
	}

	log.Debugf("Parameters: %v", args)
	r, err := s.Query(args...)
	if err != nil {
		return nil, err
	}

	return r, nil
}

// Execute a named, data query (SELECT) and scan every row into dest,
// which must be a pointer to a slice.
func (db *DB) Select(dest interface{}, sql_or_name string, args ...interface{}) error {
	s, err := db.statement(sql_or_name)
	if err != nil {
		return err
	}

	log.Debugf("Parameters: %v", args)
	return s.Select(dest, args...)
}

// Execute a named, data query (SELECT) and scan the single resulting row
// into dest.  Returns sql.ErrNoRows if nothing matched.
func (db *DB) Get(dest interface{}, sql_or_name string, args ...interface{}) error {
	s, err := db.statement(sql_or_name)
	if err != nil {
		return err
	}

	log.Debugf("Parameters: %v", args)
	return s.Get(dest, args...)
}

// Execute a data query (SELECT) and return how many rows were returned
func (db *DB) Count(sql_or_name string, args ...interface{}) (uint, error) {
	r, err := db.Query(sql_or_name, args...)
	if err != nil {
		return 0, err
	}

	var n uint = 0
	for r.Next() {
		n++
	}
	r.Close()
	return n, nil
}

// Transparently resolve SQL aliases to real SQL query text
func (db *DB) resolve(sql_or_name string) string {
	if sql, ok := db.qAlias[sql_or_name]; ok {
		return sql
	}
	return sql_or_name
}

// Return the prepared Statement for a given SQL query
func (db *DB) statement(sql_or_name string) (*sqlx.Stmt, error) {
	if db.connection == nil {
		return nil, fmt.Errorf("Not connected to database")
	}

	db.qLock.Lock()
	defer db.qLock.Unlock()

	sql := db.resolve(sql_or_name)
	log.Debugf("Executing SQL: %s", sql)

	q, ok := db.qCache[sql]
	if !ok {
		stmt, err := db.connection.Preparex(sql)
		if err != nil {
			return nil, err
		}
		db.qCache[sql] = stmt
		q = stmt
	}

	return q, nil
}
