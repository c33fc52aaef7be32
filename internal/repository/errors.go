// Package repository holds the SQL data access for users, provider profiles
// and spaces. Missing rows are reported with package sentinels so services can
// translate them without importing database/sql.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailExists     = errors.New("email already exists")
	ErrProfileNotFound = errors.New("provider profile not found")
	ErrProfileExists   = errors.New("provider profile already exists")
	ErrSpaceNotFound   = errors.New("space not found")
)

// isDuplicate detects unique-key violations from MySQL (1062) and SQLite.
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
