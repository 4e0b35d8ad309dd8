package services

import (
	"cleaning-match-service/internal/domain"
	"cleaning-match-service/internal/platform/obs"
	"cleaning-match-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const DefaultGeocodeTimeout = 5 * time.Second

// Registration creates homes and providers and resolves their coordinates.
//
// Geocoding runs once, right after the row is stored. A failure never fails
// the create: the coordinate stays null and a retry job is queued.
type Registration struct {
	homes          ports.HomeRepository
	providers      ports.ProviderRepository
	geocoder       ports.Geocoder
	queue          ports.GeocodeQueue
	geocodeTimeout time.Duration
	logger         *zap.Logger
}

func NewRegistration(
	homes ports.HomeRepository,
	providers ports.ProviderRepository,
	geocoder ports.Geocoder,
	queue ports.GeocodeQueue,
	geocodeTimeout time.Duration,
	logger *zap.Logger,
) *Registration {
	if geocodeTimeout <= 0 {
		geocodeTimeout = DefaultGeocodeTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registration{
		homes:          homes,
		providers:      providers,
		geocoder:       geocoder,
		queue:          queue,
		geocodeTimeout: geocodeTimeout,
		logger:         logger,
	}
}

func validateAddress(a domain.Address) error {
	if strings.TrimSpace(a.AddressLineOne) == "" ||
		strings.TrimSpace(a.City) == "" ||
		strings.TrimSpace(a.State) == "" {
		return fmt.Errorf("address_line_one, city and state are required: %w", domain.ErrInvalidInput)
	}
	return nil
}

func (r *Registration) CreateHome(ctx context.Context, home *domain.Home) (_ *domain.Home, err error) {
	defer obs.Time(ctx, r.logger, "registration.CreateHome")(&err)

	if err := validateAddress(home.Address); err != nil {
		return nil, fmt.Errorf("create home: %w", err)
	}
	if home.Pets == nil {
		home.Pets = domain.Pets{}
	}
	if err := home.Pets.Validate(); err != nil {
		return nil, fmt.Errorf("create home: %w", err)
	}

	home.Coordinates = nil
	if err := r.homes.CreateHome(ctx, home); err != nil {
		return nil, fmt.Errorf("create home: %w", err)
	}

	if c, ok := r.geocodeOnce(ctx, ports.GeocodeTargetHome, home.ID, home.Address); ok {
		if err := r.homes.SetHomeCoordinates(ctx, home.ID, c); err != nil {
			r.logger.Error("store home coordinates", zap.Int64("home_id", home.ID), zap.Error(err))
			r.enqueue(ctx, ports.GeocodeJob{Kind: ports.GeocodeTargetHome, ID: home.ID, Attempts: 1})
		} else {
			home.Coordinates = &c
		}
	}

	return home, nil
}

func (r *Registration) CreateProvider(ctx context.Context, p *domain.ServiceProvider) (_ *domain.ServiceProvider, err error) {
	defer obs.Time(ctx, r.logger, "registration.CreateProvider")(&err)

	if err := validateAddress(p.Address); err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}
	if p.Rating != nil && (*p.Rating < 1 || *p.Rating > 5) {
		return nil, fmt.Errorf("create provider: rating %v outside 1..5: %w", *p.Rating, domain.ErrInvalidInput)
	}
	for _, a := range p.Allergies {
		if !domain.ValidAllergy(a) {
			return nil, fmt.Errorf("create provider: unknown allergy %q: %w", a, domain.ErrInvalidInput)
		}
	}

	p.Coordinates = nil
	if err := r.providers.CreateProvider(ctx, p); err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}

	if c, ok := r.geocodeOnce(ctx, ports.GeocodeTargetProvider, p.ID, p.Address); ok {
		if err := r.providers.SetProviderCoordinates(ctx, p.ID, c); err != nil {
			r.logger.Error("store provider coordinates", zap.Int64("provider_id", p.ID), zap.Error(err))
			r.enqueue(ctx, ports.GeocodeJob{Kind: ports.GeocodeTargetProvider, ID: p.ID, Attempts: 1})
		} else {
			p.Coordinates = &c
		}
	}

	return p, nil
}

// geocodeOnce makes the single create-time geocode attempt. On failure it logs
// and queues a retry.
func (r *Registration) geocodeOnce(
	ctx context.Context,
	kind ports.GeocodeTargetKind,
	id int64,
	addr domain.Address,
) (domain.Coordinates, bool) {
	gctx, cancel := context.WithTimeout(ctx, r.geocodeTimeout)
	defer cancel()

	c, err := r.geocoder.Geocode(gctx, addr)
	if err != nil {
		r.logger.Warn("GeocodingFailure",
			zap.String("req_id", obs.RequestID(ctx)),
			zap.String("kind", string(kind)),
			zap.Int64("id", id),
			zap.Error(err),
		)
		r.enqueue(ctx, ports.GeocodeJob{Kind: kind, ID: id, Attempts: 1})
		return domain.Coordinates{}, false
	}
	return c, true
}

func (r *Registration) enqueue(ctx context.Context, job ports.GeocodeJob) {
	if r.queue == nil {
		return
	}
	if err := r.queue.Enqueue(ctx, job); err != nil {
		r.logger.Error("enqueue geocode retry",
			zap.String("kind", string(job.Kind)),
			zap.Int64("id", job.ID),
			zap.Error(err),
		)
	}
}

// Regeocode geocodes one stored entity if its coordinate is still null.
// It reports whether coordinates were written.
func (r *Registration) Regeocode(ctx context.Context, kind ports.GeocodeTargetKind, id int64) (bool, error) {
	var addr domain.Address

	switch kind {
	case ports.GeocodeTargetHome:
		h, err := r.homes.GetHome(ctx, id)
		if err != nil {
			return false, fmt.Errorf("regeocode home: %w", err)
		}
		if h.Coordinates != nil {
			return false, nil
		}
		addr = h.Address
	case ports.GeocodeTargetProvider:
		p, err := r.providers.GetProvider(ctx, id)
		if err != nil {
			return false, fmt.Errorf("regeocode provider: %w", err)
		}
		if p.Coordinates != nil {
			return false, nil
		}
		addr = p.Address
	default:
		return false, fmt.Errorf("regeocode: unknown kind %q: %w", kind, domain.ErrInvalidInput)
	}

	gctx, cancel := context.WithTimeout(ctx, r.geocodeTimeout)
	defer cancel()

	c, err := r.geocoder.Geocode(gctx, addr)
	if err != nil {
		return false, fmt.Errorf("regeocode %s id=%d: %w", kind, id, err)
	}

	if kind == ports.GeocodeTargetHome {
		err = r.homes.SetHomeCoordinates(ctx, id, c)
	} else {
		err = r.providers.SetProviderCoordinates(ctx, id, c)
	}
	if err != nil {
		return false, fmt.Errorf("regeocode %s id=%d: %w", kind, id, err)
	}

	return true, nil
}

type SweepResult struct {
	Geocoded int
	Failed   int
}

// GeocodePending sweeps every home and provider that still lacks
// coordinates. Individual geocoding failures are counted, not returned.
func (r *Registration) GeocodePending(ctx context.Context) (_ SweepResult, err error) {
	defer obs.Time(ctx, r.logger, "registration.GeocodePending")(&err)

	var res SweepResult

	homes, err := r.homes.ListUngeocodedHomes(ctx)
	if err != nil {
		return res, fmt.Errorf("geocode pending: %w", err)
	}
	providers, err := r.providers.ListUngeocodedProviders(ctx)
	if err != nil {
		return res, fmt.Errorf("geocode pending: %w", err)
	}

	jobs := make([]ports.GeocodeJob, 0, len(homes)+len(providers))
	for _, h := range homes {
		jobs = append(jobs, ports.GeocodeJob{Kind: ports.GeocodeTargetHome, ID: h.ID})
	}
	for _, p := range providers {
		jobs = append(jobs, ports.GeocodeJob{Kind: ports.GeocodeTargetProvider, ID: p.ID})
	}

	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		ok, err := r.Regeocode(ctx, job.Kind, job.ID)
		switch {
		case err == nil && ok:
			res.Geocoded++
		case errors.Is(err, domain.ErrGeocodingFailure):
			res.Failed++
			r.logger.Warn("GeocodingFailure",
				zap.String("kind", string(job.Kind)),
				zap.Int64("id", job.ID),
				zap.Error(err),
			)
		case err != nil:
			return res, fmt.Errorf("geocode pending: %w", err)
		}
	}

	return res, nil
}
