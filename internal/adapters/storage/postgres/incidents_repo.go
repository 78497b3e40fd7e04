package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"rescue-revolution/internal/domain/incidents"
)

type IncidentsRepo struct {
	db *sql.DB
}

func NewIncidentsRepo(db *sql.DB) *IncidentsRepo {
	return &IncidentsRepo{db: db}
}

func (r *IncidentsRepo) Create(ctx context.Context, in incidents.Incident) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO incidents (
			id, user_id,
			title, description, location, incident_type,
			contact_info, status, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		in.ID,
		in.UserID,
		in.Title,
		in.Description,
		in.Location,
		string(in.IncidentType),
		in.ContactInfo,
		string(in.Status),
		in.CreatedAt,
	)
	return err
}

func (r *IncidentsRepo) Update(ctx context.Context, in incidents.Incident) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE incidents
		SET
			title = $2,
			description = $3,
			location = $4,
			incident_type = $5,
			contact_info = $6,
			status = $7
		WHERE id = $1
	`,
		in.ID,
		in.Title,
		in.Description,
		in.Location,
		string(in.IncidentType),
		in.ContactInfo,
		string(in.Status),
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

func (r *IncidentsRepo) GetByID(ctx context.Context, id string) (incidents.Incident, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return incidents.Incident{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, user_id,
			title, description, location, incident_type,
			contact_info, status, created_at
		FROM incidents
		WHERE id = $1
	`, id)

	in, err := scanIncident(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return incidents.Incident{}, ErrNotFound
		}
		return incidents.Incident{}, err
	}
	return in, nil
}

func (r *IncidentsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM incidents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *IncidentsRepo) List(ctx context.Context) ([]incidents.Incident, error) {
	return r.Search(ctx, incidents.Filter{})
}

func (r *IncidentsRepo) Search(ctx context.Context, f incidents.Filter) ([]incidents.Incident, error) {
	query := `
		SELECT
			id, user_id,
			title, description, location, incident_type,
			contact_info, status, created_at
		FROM incidents
	`

	var conds []string
	var args []any

	if f.Query != "" {
		args = append(args, "%"+escapeLike(f.Query)+"%")
		conds = append(conds, fmt.Sprintf("(title LIKE $%d OR description LIKE $%d)", len(args), len(args)))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		conds = append(conds, fmt.Sprintf("incident_type = $%d", len(args)))
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

	out := make([]incidents.Incident, 0)
	for rows.Next() {
		in, err := scanIncident(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}

	return out, rows.Err()
}

func scanIncident(row rowScanner) (incidents.Incident, error) {
	var in incidents.Incident
	var itype, status string

	if err := row.Scan(
		&in.ID,
		&in.UserID,
		&in.Title,
		&in.Description,
		&in.Location,
		&itype,
		&in.ContactInfo,
		&status,
		&in.CreatedAt,
	); err != nil {
		return incidents.Incident{}, err
	}

	in.IncidentType = incidents.Type(itype)
	in.Status = incidents.Status(status)

	return in, nil
}
