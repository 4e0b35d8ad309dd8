package dto

import "cleaning-match-service/internal/domain"

type CreateHomeRequest struct {
	CustomerID int64  `json:"customer_id" validate:"required,gt=0"`
	Name       string `json:"name" validate:"max=255"`
	Address
	// Accepts {"dogs": 2} or ["dogs", "cats"].
	Pets domain.Pets `json:"pets" validate:"dive,keys,oneof=dogs cats birds fish reptiles rodents other,endkeys,gte=0"`
}

func (r CreateHomeRequest) ToDomain() *domain.Home {
	pets := r.Pets
	if pets == nil {
		pets = domain.Pets{}
	}
	return &domain.Home{
		CustomerID: r.CustomerID,
		Name:       r.Name,
		Address:    r.Address.ToDomain(),
		Pets:       pets,
	}
}

type HomeResponse struct {
	ID         int64  `json:"id"`
	CustomerID int64  `json:"customer_id"`
	Name       string `json:"name"`
	Address
	Lon  *float64    `json:"lon"`
	Lat  *float64    `json:"lat"`
	Pets domain.Pets `json:"pets"`
}

func HomeFrom(h *domain.Home) HomeResponse {
	pets := h.Pets
	if pets == nil {
		pets = domain.Pets{}
	}
	lon, lat := lonLat(h.Coordinates)
	return HomeResponse{
		ID:         h.ID,
		CustomerID: h.CustomerID,
		Name:       h.Name,
		Address:    AddressFrom(h.Address),
		Lon:        lon,
		Lat:        lat,
		Pets:       pets,
	}
}
