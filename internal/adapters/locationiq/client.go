package locationiq

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://us1.locationiq.com/v1"

type Options struct {
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
	RatePerSec  float64
	Burst       int
	MaxAttempts int
}

// Client talks to LocationIQ's forward geocoding and driving matrix APIs.
//
// It implements both ports.Geocoder and ports.DistanceMatrixProvider. One
// token bucket is shared by every call so the account's per-second quota
// holds across concurrent requests. The client is safe for concurrent use.
type Client struct {
	session     *http.Client
	apiKey      string
	baseURL     string
	limiter     *rate.Limiter
	maxAttempts int
	logger      *zap.Logger
}

func NewClient(opts Options, logger *zap.Logger) (*Client, error) {
	if opts.APIKey == "" {
		return nil, errors.New("locationiq api key is empty")
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	limit := rate.Inf
	burst := opts.Burst
	if opts.RatePerSec > 0 {
		limit = rate.Limit(opts.RatePerSec)
		if burst <= 0 {
			burst = 1
		}
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		session:     &http.Client{Timeout: timeout},
		apiKey:      opts.APIKey,
		baseURL:     baseURL,
		limiter:     rate.NewLimiter(limit, burst),
		maxAttempts: maxAttempts,
		logger:      logger,
	}, nil
}
