package domain

import "slices"

// Allergy values a service provider can declare.
const (
	AllergyNone      = "none"
	AllergyDogs      = "dogs"
	AllergyCats      = "cats"
	AllergyDust      = "dust"
	AllergyPollen    = "pollen"
	AllergyMold      = "mold"
	AllergyFragrance = "fragrance"
	AllergySLS       = "SLS"
	AllergyAmmonia   = "ammonia"
	AllergyBleach    = "bleach"
	AllergyOther     = "other"
)

var allergyChoices = []string{
	AllergyNone, AllergyDogs, AllergyCats, AllergyDust, AllergyPollen, AllergyMold,
	AllergyFragrance, AllergySLS, AllergyAmmonia, AllergyBleach, AllergyOther,
}

func ValidAllergy(a string) bool { return slices.Contains(allergyChoices, a) }

// A cleaner offering services. Rating and Coordinates are nil until set.
type ServiceProvider struct {
	ID              int64
	UserID          int64
	Rating          *float64
	FlexibleRate    *float64
	Address         Address
	Coordinates     *Coordinates
	PetFriendly     bool
	BackgroundCheck bool
	Bio             string
	Specialties     []int64
	Allergies       []string
}

// ProviderWithDistance is a ranking result; it is never persisted.
type ProviderWithDistance struct {
	Provider *ServiceProvider
	Distance float64
}
