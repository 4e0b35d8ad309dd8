package repositories

import (
	"cleaning-match-service/internal/domain"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQL-backed implementation of the ProviderRepository port.
type SQLProviderRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLProviderRepository(db *sql.DB, d Dialect) *SQLProviderRepository {
	return &SQLProviderRepository{DB: db, Dialect: d}
}

// Insert the provider and set its generated ID.
func (s *SQLProviderRepository) CreateProvider(ctx context.Context, p *domain.ServiceProvider) error {
	if s.DB == nil {
		return errors.New("sql provider repository: DB is nil")
	}

	row, err := newProviderRow(p)
	if err != nil {
		return fmt.Errorf("create provider: %w", err)
	}

	query := s.Dialect.Rebind(`
	INSERT INTO service_providers (
		user_id, rating, flexible_rate, country, address_line_one,
		address_line_two, city, state, zipcode, lon, lat, pet_friendly,
		background_check, bio, specialties, allergies
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	RETURNING id;
	`)

	var id int64
	if err := s.DB.QueryRowContext(ctx, query, row.args()...).Scan(&id); err != nil {
		return fmt.Errorf("create provider: insert: %w", err)
	}
	p.ID = id

	return nil
}

func (s *SQLProviderRepository) GetProvider(ctx context.Context, id int64) (*domain.ServiceProvider, error) {
	if s.DB == nil {
		return nil, errors.New("sql provider repository: DB is nil")
	}

	query := s.Dialect.Rebind(`SELECT ` + providerColumns + ` FROM service_providers WHERE id = ?;`)

	p, err := scanProvider(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get provider id=%d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get provider id=%d: %w", id, err)
	}

	return p, nil
}

// Return providers rated at least minRating. Unrated providers never match.
func (s *SQLProviderRepository) ListProvidersByMinRating(
	ctx context.Context,
	minRating float64,
) ([]*domain.ServiceProvider, error) {
	query := s.Dialect.Rebind(`
	SELECT ` + providerColumns + `
	FROM service_providers
	WHERE rating IS NOT NULL AND rating >= ?
	ORDER BY id;
	`)

	return s.list(ctx, "list providers by rating", query, minRating)
}

func (s *SQLProviderRepository) SetProviderCoordinates(ctx context.Context, id int64, c domain.Coordinates) error {
	if s.DB == nil {
		return errors.New("sql provider repository: DB is nil")
	}

	query := s.Dialect.Rebind(`UPDATE service_providers SET lon = ?, lat = ? WHERE id = ?;`)

	res, err := s.DB.ExecContext(ctx, query, c.Lon, c.Lat, id)
	if err != nil {
		return fmt.Errorf("set provider coordinates id=%d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("set provider coordinates id=%d: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (s *SQLProviderRepository) ListUngeocodedProviders(ctx context.Context) ([]*domain.ServiceProvider, error) {
	query := `
	SELECT ` + providerColumns + `
	FROM service_providers
	WHERE lon IS NULL OR lat IS NULL
	ORDER BY id;
	`

	return s.list(ctx, "list ungeocoded providers", query)
}

func (s *SQLProviderRepository) list(
	ctx context.Context,
	op string,
	query string,
	args ...any,
) ([]*domain.ServiceProvider, error) {
	if s.DB == nil {
		return nil, errors.New("sql provider repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query service_providers table: %w", op, err)
	}
	defer rows.Close()

	providers := make([]*domain.ServiceProvider, 0, 64)
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}
		providers = append(providers, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: row iteration: %w", op, err)
	}

	return providers, nil
}
