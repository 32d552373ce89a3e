package storage

import (
	"context"
	"database/sql"
	"errors"
)

// AdminUsers stores administrator accounts in admin_users
type AdminUsers struct {
	db *sql.DB
}

func NewAdminUsers(db *sql.DB) *AdminUsers {
	return &AdminUsers{db: db}
}

// FindByEmail returns the id and bcrypt hash for email
func (u *AdminUsers) FindByEmail(ctx context.Context, email string) (string, string, error) {
	var id, hash string
	err := u.db.QueryRowContext(ctx,
		"SELECT id, password_hash FROM admin_users WHERE email = $1", email,
	).Scan(&id, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrNotFound
	}
	if err != nil {
		return "", "", err
	}
	return id, hash, nil
}

// Create inserts an admin, replacing the password if the email already exists
func (u *AdminUsers) Create(ctx context.Context, email, passwordHash string) (string, error) {
	var id string
	err := u.db.QueryRowContext(ctx, `
		INSERT INTO admin_users (email, password_hash) VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash
		RETURNING id`,
		email, passwordHash,
	).Scan(&id)
	return id, err
}
