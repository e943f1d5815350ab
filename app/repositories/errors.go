// Package repositories is the store layer. Each repository wraps an injected
// *gorm.DB and translates driver errors into ErrNotFound and ErrDuplicate.
package repositories

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	mssql "github.com/microsoft/go-mssqldb"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("repositories: record not found")
	ErrDuplicate = errors.New("repositories: duplicate key")
)

const (
	mysqlDupEntry      = 1062
	mssqlDupKeyIndex   = 2601
	mssqlDupKeyPrimary = 2627
)

// translate maps driver-specific failures onto the package sentinels and
// leaves everything else alone.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case isUniqueViolation(err):
		return ErrDuplicate
	}
	return err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDupEntry
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	var msErr mssql.Error
	if errors.As(err, &msErr) {
		return msErr.Number == mssqlDupKeyIndex || msErr.Number == mssqlDupKeyPrimary
	}

	return false
}
