package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/princinho/urbanthreads/auth"
	"github.com/princinho/urbanthreads/models"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

var usersSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		full_name     TEXT NOT NULL DEFAULT '',
		username      TEXT NOT NULL DEFAULT '',
		is_active     INTEGER NOT NULL DEFAULT 1,
		created_at    DATETIME NOT NULL,
		updated_at    DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS password_resets (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users(id),
		token_hash TEXT NOT NULL,
		expires_at DATETIME NOT NULL,
		created_at DATETIME NOT NULL,
		used_at    DATETIME
	)`,
}

const userColumns = `id, email, password_hash, full_name, username, is_active, created_at, updated_at`

// SQLiteUsers implements auth.UserStore in the same database as the
// SQLiteStorage it was opened from.
type SQLiteUsers struct {
	db *sqlx.DB
}

// Users creates the account tables if needed and returns the user store.
func (s *SQLiteStorage) Users(ctx context.Context) (*SQLiteUsers, error) {
	for _, stmt := range usersSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("sqlite users schema: %w", err)
		}
	}
	return &SQLiteUsers{db: s.db}, nil
}

func (u *SQLiteUsers) find(ctx context.Context, where string, arg any) (*models.User, error) {
	var user models.User
	err := u.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE `+where+` = ?`, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *SQLiteUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return u.find(ctx, "email", email)
}

func (u *SQLiteUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	return u.find(ctx, "id", id)
}

func (u *SQLiteUsers) Create(ctx context.Context, user *models.User) error {
	_, err := u.db.NamedExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (:id, :email, :password_hash, :full_name, :username, :is_active, :created_at, :updated_at)`,
		user)
	if isUniqueViolation(err) {
		return auth.ErrEmailTaken
	}
	return err
}

func (u *SQLiteUsers) SavePasswordReset(ctx context.Context, reset models.PasswordReset) error {
	_, err := u.db.NamedExecContext(ctx, `
		INSERT INTO password_resets (id, user_id, token_hash, expires_at, created_at, used_at)
		VALUES (:id, :user_id, :token_hash, :expires_at, :created_at, :used_at)`,
		reset)
	return err
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}
