// Package store persists users and contacts in a SQL database. MySQL is the production database,
// SQLite is available for local development and for the integration tests. Both drivers use '?'
// placeholders so all statements are shared.
package store

import (
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"gitlab.com/dirk.krummacker/contact-book/internal/config"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// ErrNotFound is returned when no record matches the given filter.
var ErrNotFound = errors.New("record not found")

// CreateDatabase opens the database selected by the configuration. The connection is not
// verified, the first statement will fail if the database cannot be reached.
func CreateDatabase(c config.Config) (*sqlx.DB, error) {
	switch c.DBDriver {
	case DriverSQLite:
		return OpenSQLite(c.DBPath)
	default:
		// clientFoundRows makes UPDATE report matched rather than changed rows.
		sqlDB, err := sql.Open(DriverMySQL, c.MySQLDSN()+"&clientFoundRows=true")
		if err != nil {
			return nil, errors.Wrap(err, "open mysql")
		}
		return sqlx.NewDb(sqlDB, DriverMySQL), nil
	}
}

// OpenSQLite opens a SQLite database file. The path ":memory:" gives a private in-memory
// database, which is why the pool is limited to a single connection.
func OpenSQLite(path string) (*sqlx.DB, error) {
	sqlDB, err := sql.Open(DriverSQLite, path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	sqlDB.SetMaxOpenConns(1)
	// sqlx knows the modernc driver under its cgo name only.
	return sqlx.NewDb(sqlDB, "sqlite3"), nil
}

// Dialect names the SQL dialect of a database handle.
func Dialect(db *sqlx.DB) string {
	if db.DriverName() == "sqlite3" {
		return DriverSQLite
	}
	return DriverMySQL
}

// boolToInt encodes a contact preference flag for its INTEGER column.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
