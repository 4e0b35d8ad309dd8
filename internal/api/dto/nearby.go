package dto

import "cleaning-match-service/internal/domain"

// NearbyProviderResponse is one entry of the nearby-providers list. Distance
// is in meters as reported by the routing service.
type NearbyProviderResponse struct {
	ProviderResponse
	Distance float64 `json:"distance"`
}

func NearbyFrom(ranked []domain.ProviderWithDistance) []NearbyProviderResponse {
	out := make([]NearbyProviderResponse, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, NearbyProviderResponse{
			ProviderResponse: ProviderFrom(r.Provider),
			Distance:         r.Distance,
		})
	}
	return out
}
