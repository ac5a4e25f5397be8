package db

import (
	"strings"

	"github.com/teranos/neocad/errors"
)

// ErrDatabaseClosed is returned when an export is written through a closed handle.
var ErrDatabaseClosed = errors.New("database is closed")

// IsDatabaseClosed reports whether err came from a closed database, either
// wrapped from this package or raised directly by the sql driver.
func IsDatabaseClosed(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDatabaseClosed) {
		return true
	}
	return strings.Contains(err.Error(), "database is closed")
}
