package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/small-engineer/go-web-serv/tasks/internal/domain"
)

// emails compare byte-wise so uniqueness stays case-sensitive
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) COLLATE utf8mb4_bin NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at DATETIME(6) NOT NULL,
		UNIQUE KEY users_email_uq (email)
	) DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS tasks (
		seq BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		id VARCHAR(36) NOT NULL,
		user_id VARCHAR(36) NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		due_date DATETIME(6) NULL,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at DATETIME(6) NOT NULL,
		UNIQUE KEY tasks_id_uq (id),
		KEY tasks_user_idx (user_id)
	) DEFAULT CHARSET=utf8mb4`,
}

func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, q := range schema {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

const errDupEntry = 1062

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == errDupEntry
}

func conflictOr(err error) error {
	if isDuplicate(err) {
		return domain.Conflict("email already exists")
	}
	return err
}
