package postgres

import (
	"context"
	"database/sql"
	"strings"

	"rescue-revolution/internal/domain/users"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, username, email, password_hash, is_admin, created_at
		) VALUES ($1,$2,$3,$4,$5,$6)
	`,
		u.ID,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.IsAdmin,
		u.CreatedAt,
	)
	return err
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (users.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *UsersRepo) getBy(ctx context.Context, column, value string) (users.User, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return users.User{}, ErrNotFound
	}

	// column es uno de los tres literales de arriba, nunca input del cliente.
	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, is_admin, created_at
		FROM users
		WHERE `+column+` = $1
	`, value)

	var u users.User
	if err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.IsAdmin,
		&u.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return users.User{}, ErrNotFound
		}
		return users.User{}, err
	}

	return u, nil
}
