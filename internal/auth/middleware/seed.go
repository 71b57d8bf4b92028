package auth

import (
	"context"
	"database/sql"

	"golang.org/x/crypto/bcrypt"
)

type SeedUser struct {
	Username string
	Password string
	Role     string
}

// SeedUsers inserts bootstrap users when the users table is empty, so a fresh
// offline install has a teacher and a student to log in with. No-op once any
// user exists.
func SeedUsers(ctx context.Context, db *sql.DB, users []SeedUser) error {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx,
			`INSERT INTO users (username, pass_hash, role) VALUES ($1,$2,$3)`,
			u.Username, string(hash), u.Role); err != nil {
			return err
		}
	}
	return nil
}
