package services

import (
	"cleaning-match-service/internal/domain"
	"cleaning-match-service/internal/platform/obs"
	"cleaning-match-service/internal/ports"
	"context"
	"fmt"

	"go.uber.org/zap"
)

const DefaultMinRating = 3.0

// EligibilityRule decides whether a provider may serve a home.
type EligibilityRule interface {
	Name() string
	Allows(home *domain.Home, p *domain.ServiceProvider) bool
}

// MinRatingRule admits providers rated at least Min. Unrated providers never pass.
type MinRatingRule struct {
	Min float64
}

func (MinRatingRule) Name() string { return "min_rating" }

func (r MinRatingRule) Allows(_ *domain.Home, p *domain.ServiceProvider) bool {
	return p.Rating != nil && *p.Rating >= r.Min
}

// Allergies that never conflict with a home's pets.
var ignorableAllergies = map[string]struct{}{
	domain.AllergyNone:      {},
	domain.AllergyOther:     {},
	domain.AllergyPollen:    {},
	domain.AllergyMold:      {},
	domain.AllergyDust:      {},
	domain.AllergyFragrance: {},
	domain.AllergyAmmonia:   {},
	domain.AllergyBleach:    {},
}

// AllergyRule rejects a provider allergic to a pet type the home declares.
type AllergyRule struct{}

func (AllergyRule) Name() string { return "allergy" }

func (AllergyRule) Allows(home *domain.Home, p *domain.ServiceProvider) bool {
	if home == nil || len(home.Pets) == 0 {
		return true
	}
	for _, a := range p.Allergies {
		if _, ok := ignorableAllergies[a]; ok {
			continue
		}
		if home.Pets.Has(domain.PetType(a)) {
			return false
		}
	}
	return true
}

// EligibilityFilter selects the providers allowed to serve a home.
type EligibilityFilter struct {
	providers ports.ProviderRepository
	rules     []EligibilityRule
	logger    *zap.Logger
}

// NewEligibilityFilter builds a filter. The rating rule always applies; rules
// adds optional ones such as AllergyRule.
func NewEligibilityFilter(
	providers ports.ProviderRepository,
	logger *zap.Logger,
	rules ...EligibilityRule,
) *EligibilityFilter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EligibilityFilter{providers: providers, rules: rules, logger: logger}
}

// Eligible returns the providers that satisfy every rule, in repository order.
func (f *EligibilityFilter) Eligible(
	ctx context.Context,
	home *domain.Home,
	minRating float64,
) (_ []*domain.ServiceProvider, err error) {
	defer obs.Time(ctx, f.logger, "eligibility.Eligible")(&err)

	candidates, err := f.providers.ListProvidersByMinRating(ctx, minRating)
	if err != nil {
		return nil, fmt.Errorf("eligible providers: %w", err)
	}

	rules := make([]EligibilityRule, 0, 1+len(f.rules))
	rules = append(rules, MinRatingRule{Min: minRating})
	rules = append(rules, f.rules...)

	out := make([]*domain.ServiceProvider, 0, len(candidates))
	for _, p := range candidates {
		if allowed(rules, home, p) {
			out = append(out, p)
		}
	}

	return out, nil
}

func allowed(rules []EligibilityRule, home *domain.Home, p *domain.ServiceProvider) bool {
	for _, r := range rules {
		if !r.Allows(home, p) {
			return false
		}
	}
	return true
}
