package repositories

import (
	"cleaning-match-service/internal/domain"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQL-backed implementation of the HomeRepository port.
type SQLHomeRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLHomeRepository(db *sql.DB, d Dialect) *SQLHomeRepository {
	return &SQLHomeRepository{DB: db, Dialect: d}
}

// Insert the home and set its generated ID.
func (s *SQLHomeRepository) CreateHome(ctx context.Context, home *domain.Home) error {
	if s.DB == nil {
		return errors.New("sql home repository: DB is nil")
	}

	row, err := newHomeRow(home)
	if err != nil {
		return fmt.Errorf("create home: %w", err)
	}

	query := s.Dialect.Rebind(`
	INSERT INTO homes (
		customer_id, name, country, address_line_one, address_line_two,
		city, state, zipcode, lon, lat, pets
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	RETURNING id;
	`)

	var id int64
	if err := s.DB.QueryRowContext(ctx, query, row.args()...).Scan(&id); err != nil {
		return fmt.Errorf("create home: insert: %w", err)
	}
	home.ID = id

	return nil
}

func (s *SQLHomeRepository) GetHome(ctx context.Context, id int64) (*domain.Home, error) {
	if s.DB == nil {
		return nil, errors.New("sql home repository: DB is nil")
	}

	query := s.Dialect.Rebind(`SELECT ` + homeColumns + ` FROM homes WHERE id = ?;`)

	home, err := scanHome(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get home id=%d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get home id=%d: %w", id, err)
	}

	return home, nil
}

func (s *SQLHomeRepository) SetHomeCoordinates(ctx context.Context, id int64, c domain.Coordinates) error {
	if s.DB == nil {
		return errors.New("sql home repository: DB is nil")
	}

	query := s.Dialect.Rebind(`UPDATE homes SET lon = ?, lat = ? WHERE id = ?;`)

	res, err := s.DB.ExecContext(ctx, query, c.Lon, c.Lat, id)
	if err != nil {
		return fmt.Errorf("set home coordinates id=%d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("set home coordinates id=%d: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Return homes whose address has not been geocoded yet.
func (s *SQLHomeRepository) ListUngeocodedHomes(ctx context.Context) ([]*domain.Home, error) {
	if s.DB == nil {
		return nil, errors.New("sql home repository: DB is nil")
	}

	query := `SELECT ` + homeColumns + ` FROM homes WHERE lon IS NULL OR lat IS NULL ORDER BY id;`

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list ungeocoded homes: query homes table: %w", err)
	}
	defer rows.Close()

	homes := make([]*domain.Home, 0, 16)
	for rows.Next() {
		h, err := scanHome(rows)
		if err != nil {
			return nil, fmt.Errorf("list ungeocoded homes: scan row: %w", err)
		}
		homes = append(homes, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list ungeocoded homes: row iteration: %w", err)
	}

	return homes, nil
}
