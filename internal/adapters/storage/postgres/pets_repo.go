package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"rescue-revolution/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pets (
			id, user_id,
			name, species, breed, age,
			description, image_url, status,
			location, contact_info, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		p.ID,
		p.UserID,
		p.Name,
		p.Species,
		p.Breed,
		toNullInt(p.Age),
		p.Description,
		p.ImageURL,
		string(p.Status),
		p.Location,
		p.ContactInfo,
		p.CreatedAt,
	)
	return err
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET
			name = $2,
			species = $3,
			breed = $4,
			age = $5,
			description = $6,
			image_url = $7,
			status = $8,
			location = $9,
			contact_info = $10
		WHERE id = $1
	`,
		p.ID,
		p.Name,
		p.Species,
		p.Breed,
		toNullInt(p.Age),
		p.Description,
		p.ImageURL,
		string(p.Status),
		p.Location,
		p.ContactInfo,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, user_id,
			name, species, breed, age,
			description, image_url, status,
			location, contact_info, created_at
		FROM pets
		WHERE id = $1
	`, id)

	p, err := scanPet(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return pets.Pet{}, ErrNotFound
		}
		return pets.Pet{}, err
	}
	return p, nil
}

func (r *PetsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PetsRepo) List(ctx context.Context) ([]pets.Pet, error) {
	return r.Search(ctx, pets.Filter{})
}

// Search arma el WHERE según los filtros presentes. LIKE sin ILIKE:
// el substring match es case-sensitive a propósito.
func (r *PetsRepo) Search(ctx context.Context, f pets.Filter) ([]pets.Pet, error) {
	query := `
		SELECT
			id, user_id,
			name, species, breed, age,
			description, image_url, status,
			location, contact_info, created_at
		FROM pets
	`

	var conds []string
	var args []any

	if f.Query != "" {
		args = append(args, "%"+escapeLike(f.Query)+"%")
		conds = append(conds, fmt.Sprintf("(name LIKE $%d OR description LIKE $%d)", len(args), len(args)))
	}
	if f.Species != "" {
		args = append(args, f.Species)
		conds = append(conds, fmt.Sprintf("species = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(row rowScanner) (pets.Pet, error) {
	var p pets.Pet
	var age sql.NullInt64
	var status string

	if err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.Species,
		&p.Breed,
		&age,
		&p.Description,
		&p.ImageURL,
		&status,
		&p.Location,
		&p.ContactInfo,
		&p.CreatedAt,
	); err != nil {
		return pets.Pet{}, err
	}

	if age.Valid {
		v := int(age.Int64)
		p.Age = &v
	}
	p.Status = pets.Status(status)

	return p, nil
}

func toNullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{Valid: false}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

// escapeLike escapa los metacaracteres de LIKE para que el query del
// usuario matchee literal.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
