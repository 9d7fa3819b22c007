package database

import (
	"strconv"
	"strings"
)

// Driver represents a database backend type.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

func (d Driver) String() string {
	return string(d)
}

// IsValid returns true if the driver is a known type.
func (d Driver) IsValid() bool {
	switch d {
	case DriverPostgres, DriverSQLite:
		return true
	default:
		return false
	}
}

// DetectDriver picks a driver from a connection string. An empty URL means
// local SQLite.
func DetectDriver(url string) Driver {
	switch {
	case url == "":
		return DriverSQLite
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres
	case strings.HasPrefix(url, "sqlite://"),
		strings.HasPrefix(url, "file:"),
		url == ":memory:",
		strings.HasSuffix(url, ".db"),
		strings.HasSuffix(url, ".sqlite"),
		strings.HasSuffix(url, ".sqlite3"):
		return DriverSQLite
	default:
		return DriverPostgres
	}
}

// Rebind rewrites ? placeholders into the driver's native form. SQLite
// queries are returned unchanged; PostgreSQL gets $1, $2, ...
// Question marks inside quoted literals are left alone.
func Rebind(driver Driver, query string) string {
	if driver != DriverPostgres {
		return query
	}
	var (
		b      strings.Builder
		n      int
		quoted bool
	)
	b.Grow(len(query) + 8)
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			quoted = !quoted
			b.WriteByte(c)
		case c == '?' && !quoted:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
