package dto

import "cleaning-match-service/internal/domain"

// Address fields are flattened into home and provider payloads.
type Address struct {
	Country        string `json:"country" validate:"max=64"`
	AddressLineOne string `json:"address_line_one" validate:"required,max=255"`
	AddressLineTwo string `json:"address_line_two" validate:"max=255"`
	City           string `json:"city" validate:"required,max=128"`
	State          string `json:"state" validate:"required,max=64"`
	Zipcode        string `json:"zipcode" validate:"max=16"`
}

func (a Address) ToDomain() domain.Address {
	return domain.Address{
		Country:        a.Country,
		AddressLineOne: a.AddressLineOne,
		AddressLineTwo: a.AddressLineTwo,
		City:           a.City,
		State:          a.State,
		Zipcode:        a.Zipcode,
	}
}

func AddressFrom(a domain.Address) Address {
	return Address{
		Country:        a.Country,
		AddressLineOne: a.AddressLineOne,
		AddressLineTwo: a.AddressLineTwo,
		City:           a.City,
		State:          a.State,
		Zipcode:        a.Zipcode,
	}
}

func lonLat(c *domain.Coordinates) (lon, lat *float64) {
	if c == nil {
		return nil, nil
	}
	lo, la := c.Lon, c.Lat
	return &lo, &la
}
