package postgres

import (
	"context"
	"database/sql"
	"strings"

	"rescue-revolution/internal/domain/auth"
)

type SessionsRepo struct {
	db *sql.DB
}

func NewSessionsRepo(db *sql.DB) *SessionsRepo {
	return &SessionsRepo{db: db}
}

func (r *SessionsRepo) Create(ctx context.Context, s auth.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (token, user_id, created_at)
		VALUES ($1,$2,$3)
	`,
		s.Token,
		s.UserID,
		s.CreatedAt,
	)
	return err
}

func (r *SessionsRepo) GetByToken(ctx context.Context, token string) (auth.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Session{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT token, user_id, created_at
		FROM sessions
		WHERE token = $1
	`, token)

	var s auth.Session
	if err := row.Scan(&s.Token, &s.UserID, &s.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return auth.Session{}, ErrNotFound
		}
		return auth.Session{}, err
	}

	return s, nil
}

func (r *SessionsRepo) Delete(ctx context.Context, token string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
