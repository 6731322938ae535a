package db

import (
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

// NormalizeDSN forces DATETIME columns to scan as time.Time in UTC,
// whatever the configured DSN says.
func NormalizeDSN(dsn string) (string, error) {
	c, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse dsn: %w", err)
	}
	c.ParseTime = true
	c.Loc = time.UTC
	return c.FormatDSN(), nil
}
