package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the homes and service_providers tables.
func InitSchema(ctx context.Context, db *sql.DB, d Dialect) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createHomesQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS homes (
		id %[1]s,
		customer_id BIGINT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		country TEXT NOT NULL DEFAULT '',
		address_line_one TEXT NOT NULL,
		address_line_two TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL,
		state TEXT NOT NULL,
		zipcode TEXT NOT NULL DEFAULT '',
		lon %[2]s,
		lat %[2]s,
		pets TEXT NOT NULL DEFAULT '{}'
	);
	`, d.idColumn(), d.floatType())

	createProvidersQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS service_providers (
		id %[1]s,
		user_id BIGINT NOT NULL,
		rating %[2]s,
		flexible_rate %[2]s,
		country TEXT NOT NULL DEFAULT '',
		address_line_one TEXT NOT NULL,
		address_line_two TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL,
		state TEXT NOT NULL,
		zipcode TEXT NOT NULL DEFAULT '',
		lon %[2]s,
		lat %[2]s,
		pet_friendly BOOLEAN NOT NULL DEFAULT FALSE,
		background_check BOOLEAN NOT NULL DEFAULT FALSE,
		bio TEXT NOT NULL DEFAULT '',
		specialties TEXT NOT NULL DEFAULT '[]',
		allergies TEXT NOT NULL DEFAULT '[]'
	);
	`, d.idColumn(), d.floatType())

	createRatingIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_service_providers_rating
	ON service_providers(rating);
	`

	statements := []string{
		createHomesQuery,
		createProvidersQuery,
		createRatingIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type AddressSeed struct {
	Country        string `json:"country"`
	AddressLineOne string `json:"address_line_one"`
	AddressLineTwo string `json:"address_line_two"`
	City           string `json:"city"`
	State          string `json:"state"`
	Zipcode        string `json:"zipcode"`
}

type HomeSeed struct {
	ID         int64           `json:"id"`
	CustomerID int64           `json:"customer_id"`
	Name       string          `json:"name"`
	Address    AddressSeed     `json:"address"`
	Lon        *float64        `json:"lon"`
	Lat        *float64        `json:"lat"`
	Pets       json.RawMessage `json:"pets"`
}

type ProviderSeed struct {
	ID              int64       `json:"id"`
	UserID          int64       `json:"user_id"`
	Rating          *float64    `json:"rating"`
	FlexibleRate    *float64    `json:"flexible_rate"`
	Address         AddressSeed `json:"address"`
	Lon             *float64    `json:"lon"`
	Lat             *float64    `json:"lat"`
	PetFriendly     bool        `json:"pet_friendly"`
	BackgroundCheck bool        `json:"background_check"`
	Bio             string      `json:"bio_work_history"`
	Specialties     []int64     `json:"specialties"`
	Allergies       []string    `json:"allergies"`
}

type SeedData struct {
	Homes     []HomeSeed     `json:"homes"`
	Providers []ProviderSeed `json:"providers"`
}

// Populate the database with demo homes and providers from a JSON file.
// Rows are upserted by id so seeding is repeatable.
func SeedFromJSON(ctx context.Context, db *sql.DB, d Dialect, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed: read %q: %w", jsonPath, err)
	}

	var data SeedData
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed: parse json: %w", err)
	}

	homes := make([]homeRow, 0, len(data.Homes))
	for i, h := range data.Homes {
		if h.ID <= 0 {
			return fmt.Errorf("seed: invalid home id at index %d: %d", i+1, h.ID)
		}
		if strings.TrimSpace(h.Address.AddressLineOne) == "" {
			return fmt.Errorf("seed: home id=%d: address_line_one cannot be empty", h.ID)
		}
		row, err := homeSeedRow(h)
		if err != nil {
			return fmt.Errorf("seed: home id=%d: %w", h.ID, err)
		}
		homes = append(homes, row)
	}

	providers := make([]providerRow, 0, len(data.Providers))
	for i, p := range data.Providers {
		if p.ID <= 0 {
			return fmt.Errorf("seed: invalid provider id at index %d: %d", i+1, p.ID)
		}
		row, err := providerSeedRow(p)
		if err != nil {
			return fmt.Errorf("seed: provider id=%d: %w", p.ID, err)
		}
		providers = append(providers, row)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed: begin tx: %w", err)
	}
	defer tx.Rollback()

	homeStmt, err := tx.PrepareContext(ctx, d.Rebind(`
	INSERT INTO homes (
		id, customer_id, name, country, address_line_one, address_line_two,
		city, state, zipcode, lon, lat, pets
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE
	SET customer_id = EXCLUDED.customer_id,
		name = EXCLUDED.name,
		country = EXCLUDED.country,
		address_line_one = EXCLUDED.address_line_one,
		address_line_two = EXCLUDED.address_line_two,
		city = EXCLUDED.city,
		state = EXCLUDED.state,
		zipcode = EXCLUDED.zipcode,
		lon = EXCLUDED.lon,
		lat = EXCLUDED.lat,
		pets = EXCLUDED.pets;
	`))
	if err != nil {
		return fmt.Errorf("seed: prepare home insert: %w", err)
	}
	defer homeStmt.Close()

	for _, h := range homes {
		if _, err := homeStmt.ExecContext(ctx, append([]any{h.id}, h.args()...)...); err != nil {
			return fmt.Errorf("seed: insert home id=%d: %w", h.id, err)
		}
	}

	providerStmt, err := tx.PrepareContext(ctx, d.Rebind(`
	INSERT INTO service_providers (
		id, user_id, rating, flexible_rate, country, address_line_one,
		address_line_two, city, state, zipcode, lon, lat, pet_friendly,
		background_check, bio, specialties, allergies
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE
	SET user_id = EXCLUDED.user_id,
		rating = EXCLUDED.rating,
		flexible_rate = EXCLUDED.flexible_rate,
		country = EXCLUDED.country,
		address_line_one = EXCLUDED.address_line_one,
		address_line_two = EXCLUDED.address_line_two,
		city = EXCLUDED.city,
		state = EXCLUDED.state,
		zipcode = EXCLUDED.zipcode,
		lon = EXCLUDED.lon,
		lat = EXCLUDED.lat,
		pet_friendly = EXCLUDED.pet_friendly,
		background_check = EXCLUDED.background_check,
		bio = EXCLUDED.bio,
		specialties = EXCLUDED.specialties,
		allergies = EXCLUDED.allergies;
	`))
	if err != nil {
		return fmt.Errorf("seed: prepare provider insert: %w", err)
	}
	defer providerStmt.Close()

	for _, p := range providers {
		if _, err := providerStmt.ExecContext(ctx, append([]any{p.id}, p.args()...)...); err != nil {
			return fmt.Errorf("seed: insert provider id=%d: %w", p.id, err)
		}
	}

	// Explicit ids bypass BIGSERIAL, so move the sequences past them.
	if d == Postgres {
		for _, table := range []string{"homes", "service_providers"} {
			q := fmt.Sprintf(
				`SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE((SELECT MAX(id) FROM %[1]s), 1));`,
				table,
			)
			if _, err := tx.ExecContext(ctx, q); err != nil {
				return fmt.Errorf("seed: reset %s sequence: %w", table, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit tx: %w", err)
	}

	return nil
}
