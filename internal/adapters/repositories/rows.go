package repositories

import (
	"cleaning-match-service/internal/domain"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

type scanner interface {
	Scan(dest ...any) error
}

// Column lists shared by every SELECT so scans stay in sync with the schema.
const (
	homeColumns = `id, customer_id, name, country, address_line_one, address_line_two,
		city, state, zipcode, lon, lat, pets`

	providerColumns = `id, user_id, rating, flexible_rate, country, address_line_one,
		address_line_two, city, state, zipcode, lon, lat, pet_friendly,
		background_check, bio, specialties, allergies`
)

type homeRow struct {
	id         int64
	customerID int64
	name       string
	addr       domain.Address
	lon, lat   sql.NullFloat64
	pets       string
}

// args returns every column value after id, in homeColumns order.
func (r homeRow) args() []any {
	return []any{
		r.customerID, r.name, r.addr.Country, r.addr.AddressLineOne, r.addr.AddressLineTwo,
		r.addr.City, r.addr.State, r.addr.Zipcode, r.lon, r.lat, r.pets,
	}
}

func newHomeRow(h *domain.Home) (homeRow, error) {
	pets := h.Pets
	if pets == nil {
		pets = domain.Pets{}
	}
	b, err := json.Marshal(pets)
	if err != nil {
		return homeRow{}, fmt.Errorf("encode pets: %w", err)
	}

	row := homeRow{
		id:         h.ID,
		customerID: h.CustomerID,
		name:       h.Name,
		addr:       h.Address,
		pets:       string(b),
	}
	row.lon, row.lat = nullCoords(h.Coordinates)
	return row, nil
}

func homeSeedRow(s HomeSeed) (homeRow, error) {
	var pets domain.Pets
	if err := pets.UnmarshalJSON(s.Pets); err != nil {
		return homeRow{}, err
	}
	if err := pets.Validate(); err != nil {
		return homeRow{}, err
	}

	coords, err := seedCoords(s.Lon, s.Lat)
	if err != nil {
		return homeRow{}, err
	}

	return newHomeRow(&domain.Home{
		ID:          s.ID,
		CustomerID:  s.CustomerID,
		Name:        s.Name,
		Address:     s.Address.toDomain(),
		Coordinates: coords,
		Pets:        pets,
	})
}

func scanHome(s scanner) (*domain.Home, error) {
	var r homeRow
	err := s.Scan(
		&r.id, &r.customerID, &r.name, &r.addr.Country, &r.addr.AddressLineOne,
		&r.addr.AddressLineTwo, &r.addr.City, &r.addr.State, &r.addr.Zipcode,
		&r.lon, &r.lat, &r.pets,
	)
	if err != nil {
		return nil, err
	}

	var pets domain.Pets
	if err := pets.UnmarshalJSON([]byte(r.pets)); err != nil {
		return nil, fmt.Errorf("home id=%d: %w", r.id, err)
	}

	return &domain.Home{
		ID:          r.id,
		CustomerID:  r.customerID,
		Name:        r.name,
		Address:     r.addr,
		Coordinates: coordsFromNull(r.lon, r.lat),
		Pets:        pets,
	}, nil
}

type providerRow struct {
	id              int64
	userID          int64
	rating          sql.NullFloat64
	flexibleRate    sql.NullFloat64
	addr            domain.Address
	lon, lat        sql.NullFloat64
	petFriendly     bool
	backgroundCheck bool
	bio             string
	specialties     string
	allergies       string
}

// args returns every column value after id, in providerColumns order.
func (r providerRow) args() []any {
	return []any{
		r.userID, r.rating, r.flexibleRate, r.addr.Country, r.addr.AddressLineOne,
		r.addr.AddressLineTwo, r.addr.City, r.addr.State, r.addr.Zipcode, r.lon, r.lat,
		r.petFriendly, r.backgroundCheck, r.bio, r.specialties, r.allergies,
	}
}

func newProviderRow(p *domain.ServiceProvider) (providerRow, error) {
	specialties := p.Specialties
	if specialties == nil {
		specialties = []int64{}
	}
	sb, err := json.Marshal(specialties)
	if err != nil {
		return providerRow{}, fmt.Errorf("encode specialties: %w", err)
	}

	allergies := p.Allergies
	if allergies == nil {
		allergies = []string{}
	}
	ab, err := json.Marshal(allergies)
	if err != nil {
		return providerRow{}, fmt.Errorf("encode allergies: %w", err)
	}

	row := providerRow{
		id:              p.ID,
		userID:          p.UserID,
		rating:          nullFloat(p.Rating),
		flexibleRate:    nullFloat(p.FlexibleRate),
		addr:            p.Address,
		petFriendly:     p.PetFriendly,
		backgroundCheck: p.BackgroundCheck,
		bio:             p.Bio,
		specialties:     string(sb),
		allergies:       string(ab),
	}
	row.lon, row.lat = nullCoords(p.Coordinates)
	return row, nil
}

func providerSeedRow(s ProviderSeed) (providerRow, error) {
	for _, a := range s.Allergies {
		if !domain.ValidAllergy(a) {
			return providerRow{}, fmt.Errorf("unknown allergy %q: %w", a, domain.ErrInvalidInput)
		}
	}

	coords, err := seedCoords(s.Lon, s.Lat)
	if err != nil {
		return providerRow{}, err
	}

	return newProviderRow(&domain.ServiceProvider{
		ID:              s.ID,
		UserID:          s.UserID,
		Rating:          s.Rating,
		FlexibleRate:    s.FlexibleRate,
		Address:         s.Address.toDomain(),
		Coordinates:     coords,
		PetFriendly:     s.PetFriendly,
		BackgroundCheck: s.BackgroundCheck,
		Bio:             s.Bio,
		Specialties:     s.Specialties,
		Allergies:       s.Allergies,
	})
}

func scanProvider(s scanner) (*domain.ServiceProvider, error) {
	var r providerRow
	err := s.Scan(
		&r.id, &r.userID, &r.rating, &r.flexibleRate, &r.addr.Country,
		&r.addr.AddressLineOne, &r.addr.AddressLineTwo, &r.addr.City, &r.addr.State,
		&r.addr.Zipcode, &r.lon, &r.lat, &r.petFriendly, &r.backgroundCheck,
		&r.bio, &r.specialties, &r.allergies,
	)
	if err != nil {
		return nil, err
	}

	var specialties []int64
	if err := json.Unmarshal([]byte(r.specialties), &specialties); err != nil {
		return nil, fmt.Errorf("provider id=%d: decode specialties: %w", r.id, err)
	}
	var allergies []string
	if err := json.Unmarshal([]byte(r.allergies), &allergies); err != nil {
		return nil, fmt.Errorf("provider id=%d: decode allergies: %w", r.id, err)
	}

	return &domain.ServiceProvider{
		ID:              r.id,
		UserID:          r.userID,
		Rating:          floatPtr(r.rating),
		FlexibleRate:    floatPtr(r.flexibleRate),
		Address:         r.addr,
		Coordinates:     coordsFromNull(r.lon, r.lat),
		PetFriendly:     r.petFriendly,
		BackgroundCheck: r.backgroundCheck,
		Bio:             r.bio,
		Specialties:     specialties,
		Allergies:       allergies,
	}, nil
}

func (a AddressSeed) toDomain() domain.Address {
	return domain.Address{
		Country:        a.Country,
		AddressLineOne: a.AddressLineOne,
		AddressLineTwo: a.AddressLineTwo,
		City:           a.City,
		State:          a.State,
		Zipcode:        a.Zipcode,
	}
}

func seedCoords(lon, lat *float64) (*domain.Coordinates, error) {
	if lon == nil && lat == nil {
		return nil, nil
	}
	if lon == nil || lat == nil {
		return nil, errors.New("lon and lat must be set together")
	}
	c := domain.Coordinates{Lon: *lon, Lat: *lat}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func nullCoords(c *domain.Coordinates) (lon, lat sql.NullFloat64) {
	if c == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: c.Lon, Valid: true}, sql.NullFloat64{Float64: c.Lat, Valid: true}
}

// A coordinate exists only when both columns are set.
func coordsFromNull(lon, lat sql.NullFloat64) *domain.Coordinates {
	if !lon.Valid || !lat.Valid {
		return nil
	}
	return &domain.Coordinates{Lon: lon.Float64, Lat: lat.Float64}
}
