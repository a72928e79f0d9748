package leads

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type db interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores leads in the relational database.
type PostgresRepository struct {
	db db
}

// NewPostgresRepository initializes a repo backed by pgx.
func NewPostgresRepository(db db) *PostgresRepository {
	if db == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{db: db}
}

// Create inserts a new row. A unique violation on email maps to
// ErrDuplicateEmail so the handler can treat the insert race the same way
// as the pre-insert duplicate check.
func (r *PostgresRepository) Create(ctx context.Context, n *NewLead) (*Lead, error) {
	id := uuid.New()
	query := `
		INSERT INTO leads (id, nombre, email, telefono, source, utm_source, utm_campaign, utm_medium, utm_content, utm_term)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.db.QueryRow(ctx, query,
		id,
		n.Nombre,
		n.Email,
		n.Telefono,
		n.Source,
		n.UTMSource,
		n.UTMCampaign,
		n.UTMMedium,
		n.UTMContent,
		n.UTMTerm,
	).Scan(&createdAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("leads: insert failed: %w", err)
	}

	return &Lead{
		ID:          id.String(),
		Nombre:      n.Nombre,
		Email:       n.Email,
		Telefono:    n.Telefono,
		Source:      n.Source,
		UTMSource:   n.UTMSource,
		UTMCampaign: n.UTMCampaign,
		UTMMedium:   n.UTMMedium,
		UTMContent:  n.UTMContent,
		UTMTerm:     n.UTMTerm,
		CreatedAt:   createdAt,
	}, nil
}

// GetByEmail fetches a lead by normalized email.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*Lead, error) {
	query := `
		SELECT id, nombre, email, telefono, source, utm_source, utm_campaign, utm_medium, utm_content, utm_term, created_at
		FROM leads
		WHERE email = $1
	`
	lead, err := scanLead(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: select by email failed: %w", err)
	}
	return lead, nil
}

// List returns all leads, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*Lead, error) {
	query := `
		SELECT id, nombre, email, telefono, source, utm_source, utm_campaign, utm_medium, utm_content, utm_term, created_at
		FROM leads
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		out = append(out, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	return out, nil
}

// Delete removes a lead by id. Absent rows are not an error.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id); err != nil {
		return fmt.Errorf("leads: delete failed: %w", err)
	}
	return nil
}

func scanLead(row pgx.Row) (*Lead, error) {
	var lead Lead
	if err := row.Scan(
		&lead.ID,
		&lead.Nombre,
		&lead.Email,
		&lead.Telefono,
		&lead.Source,
		&lead.UTMSource,
		&lead.UTMCampaign,
		&lead.UTMMedium,
		&lead.UTMContent,
		&lead.UTMTerm,
		&lead.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &lead, nil
}
