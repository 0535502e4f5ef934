package store

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// sqliteTimeLayout has a fixed width so stored timestamps sort as text.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000Z07:00"

// Dialect holds the SQL differences between the supported databases.
type Dialect struct {
	// Name is the config name of the dialect.
	Name string
	// Driver is the database/sql driver name.
	Driver string
	// Goose is the goose dialect name.
	Goose string
	// MigrationsDir is the directory of the embedded migrations.
	MigrationsDir string

	numbered   bool
	jsonField  func(key string) string
	nullsOrder func(desc bool) string
	timeValue  func(t time.Time) any
}

// SQLite uses modernc.org/sqlite.
var SQLite = Dialect{
	Name:          "sqlite",
	Driver:        "sqlite",
	Goose:         "sqlite",
	MigrationsDir: "migrations/sqlite",
	jsonField: func(key string) string {
		return fmt.Sprintf("json_extract(data, '$.%s')", key)
	},
	nullsOrder: func(bool) string { return "" },
	timeValue: func(t time.Time) any {
		return t.UTC().Format(sqliteTimeLayout)
	},
}

// Postgres uses the pgx database/sql driver.
var Postgres = Dialect{
	Name:          "postgres",
	Driver:        "pgx",
	Goose:         "postgres",
	MigrationsDir: "migrations/postgres",
	numbered:      true,
	jsonField: func(key string) string {
		return fmt.Sprintf("data -> '%s'", key)
	},
	// Match SQLite, where NULL sorts before every value.
	nullsOrder: func(desc bool) string {
		if desc {
			return " NULLS LAST"
		}
		return " NULLS FIRST"
	},
	timeValue: func(t time.Time) any { return t.UTC() },
}

// DialectFor returns the dialect for a configured driver name.
func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "", "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported store driver %q", driver)
	}
}

// Rebind rewrites ? placeholders into the dialect's placeholder style.
func (d Dialect) Rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
