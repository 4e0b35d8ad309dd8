package domain

import "strings"

// Postal address shared by homes and service providers.
type Address struct {
	Country        string
	AddressLineOne string
	AddressLineTwo string
	City           string
	State          string
	Zipcode        string
}

// GeocodeQuery builds the free-text query sent to the geocoder:
// "{address_line_one} {state}, {city}".
func (a Address) GeocodeQuery() string {
	return strings.TrimSpace(a.AddressLineOne) + " " + strings.TrimSpace(a.State) + ", " + strings.TrimSpace(a.City)
}
