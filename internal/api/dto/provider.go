package dto

import "cleaning-match-service/internal/domain"

type CreateProviderRequest struct {
	UserID       int64    `json:"user" validate:"required,gt=0"`
	Rating       *float64 `json:"rating" validate:"omitempty,gte=1,lte=5"`
	FlexibleRate *float64 `json:"flexible_rate" validate:"omitempty,gte=0"`
	Address
	PetFriendly     bool     `json:"pet_friendly"`
	BackgroundCheck bool     `json:"background_check"`
	Bio             string   `json:"bio_work_history" validate:"max=4000"`
	Specialties     []int64  `json:"specialties" validate:"dive,gt=0"`
	Allergies       []string `json:"allergies" validate:"dive,oneof=none dogs cats dust pollen mold fragrance SLS ammonia bleach other"`
}

func (r CreateProviderRequest) ToDomain() *domain.ServiceProvider {
	return &domain.ServiceProvider{
		UserID:          r.UserID,
		Rating:          r.Rating,
		FlexibleRate:    r.FlexibleRate,
		Address:         r.Address.ToDomain(),
		PetFriendly:     r.PetFriendly,
		BackgroundCheck: r.BackgroundCheck,
		Bio:             r.Bio,
		Specialties:     r.Specialties,
		Allergies:       r.Allergies,
	}
}

// ProviderResponse is the public view of a provider.
type ProviderResponse struct {
	ID              int64    `json:"id"`
	User            int64    `json:"user"`
	FlexibleRate    *float64 `json:"flexible_rate"`
	PetFriendly     bool     `json:"pet_friendly"`
	Rating          *float64 `json:"rating"`
	BackgroundCheck bool     `json:"background_check"`
	Bio             string   `json:"bio_work_history"`
	Specialties     []int64  `json:"specialties"`
}

func ProviderFrom(p *domain.ServiceProvider) ProviderResponse {
	specialties := p.Specialties
	if specialties == nil {
		specialties = []int64{}
	}
	return ProviderResponse{
		ID:              p.ID,
		User:            p.UserID,
		FlexibleRate:    p.FlexibleRate,
		PetFriendly:     p.PetFriendly,
		Rating:          p.Rating,
		BackgroundCheck: p.BackgroundCheck,
		Bio:             p.Bio,
		Specialties:     specialties,
	}
}

// ProviderDetailResponse adds location and allergies for the provider's own record.
type ProviderDetailResponse struct {
	ProviderResponse
	Address
	Lon       *float64 `json:"lon"`
	Lat       *float64 `json:"lat"`
	Allergies []string `json:"allergies"`
}

func ProviderDetailFrom(p *domain.ServiceProvider) ProviderDetailResponse {
	allergies := p.Allergies
	if allergies == nil {
		allergies = []string{}
	}
	lon, lat := lonLat(p.Coordinates)
	return ProviderDetailResponse{
		ProviderResponse: ProviderFrom(p),
		Address:          AddressFrom(p.Address),
		Lon:              lon,
		Lat:              lat,
		Allergies:        allergies,
	}
}
