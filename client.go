package client

import (
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/hsn0918/aip-client/internal/metrics"
)

type client struct {
	restyClient    *resty.Client
	transferClient *resty.Client
	transport      Transport
	catalog        *Catalog
	families       map[string]Family
	logger         *zap.Logger
	metrics        *metrics.Collector

	apiKey            string
	secretKey         string
	accessToken       string
	retryCount        int
	rateLimit         rate.Limit
	rateBurst         int
	pollInterval      time.Duration
	processingTimeout time.Duration
}

var _ Client = (*client)(nil)

type Option func(*client)

func WithBaseURL(baseURL string) Option {
	return func(c *client) {
		if baseURL != "" {
			c.restyClient.SetBaseURL(baseURL)
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *client) {
		if timeout > 0 {
			c.restyClient.SetTimeout(timeout)
		}
	}
}

// WithCredentials sets the API key and secret key used to obtain access tokens.
func WithCredentials(apiKey, secretKey string) Option {
	return func(c *client) {
		c.apiKey = apiKey
		c.secretKey = secretKey
	}
}

// WithAccessToken pins a pre-issued access token and disables token refresh.
func WithAccessToken(token string) Option {
	return func(c *client) {
		c.accessToken = token
	}
}

// WithRestyClient allows callers to provide a preconfigured API client.
func WithRestyClient(restyClient *resty.Client) Option {
	return func(c *client) {
		if restyClient != nil {
			c.restyClient = restyClient
		}
	}
}

// WithTransferClient overrides the client used to download result files.
func WithTransferClient(transfer *resty.Client) Option {
	return func(c *client) {
		if transfer != nil {
			c.transferClient = transfer
		}
	}
}

// WithTransport replaces the HTTP transport entirely.
func WithTransport(t Transport) Option {
	return func(c *client) {
		if t != nil {
			c.transport = t
		}
	}
}

// WithRetry enables transport-level retries of failed HTTP exchanges.
// Submits are not idempotent, so this is off by default.
func WithRetry(count int) Option {
	return func(c *client) {
		if count >= 0 {
			c.retryCount = count
		}
	}
}

// WithRateLimit caps outbound calls to qps with the given burst.
func WithRateLimit(qps float64, burst int) Option {
	return func(c *client) {
		if qps > 0 {
			c.rateLimit = rate.Limit(qps)
			c.rateBurst = max(burst, 1)
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithMetrics(collector *metrics.Collector) Option {
	return func(c *client) {
		c.metrics = collector
	}
}

// WithCatalog replaces the built-in endpoint table.
func WithCatalog(catalog *Catalog) Option {
	return func(c *client) {
		if catalog != nil {
			c.catalog = catalog
		}
	}
}

// WithFamily registers an additional job family or overrides a built-in one.
func WithFamily(family Family) Option {
	return func(c *client) {
		if family.Name != "" {
			c.families[family.Name] = family
		}
	}
}

// WithPollInterval sets the default spacing between polls.
func WithPollInterval(interval time.Duration) Option {
	return func(c *client) {
		if interval > 0 {
			c.pollInterval = interval
		}
	}
}

// WithProcessingTimeout customizes the default maximum wait time for long-running jobs.
func WithProcessingTimeout(timeout time.Duration) Option {
	return func(c *client) {
		if timeout > 0 {
			c.processingTimeout = timeout
			if c.transferClient != nil {
				c.transferClient.SetTimeout(timeout)
			}
		}
	}
}

func NewClient(opts ...Option) Client {
	c := &client{
		restyClient:       newDefaultAPIClient(),
		catalog:           DefaultCatalog(),
		families:          defaultFamilies(),
		logger:            zap.NewNop(),
		pollInterval:      DefaultPollInterval,
		processingTimeout: ProcessingTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.transferClient == nil {
		c.transferClient = newTransferClient(c.processingTimeout)
	}

	if c.transport == nil {
		c.restyClient.SetRetryCount(c.retryCount)
		t := &httpTransport{
			rest: c.restyClient,
			tokens: &tokenSource{
				http:      c.restyClient,
				apiKey:    c.apiKey,
				secretKey: c.secretKey,
				static:    c.accessToken,
				metrics:   c.metrics,
				now:       time.Now,
			},
			logger:  c.logger.Named("transport"),
			metrics: c.metrics,
		}
		if c.rateLimit > 0 {
			t.limiter = rate.NewLimiter(c.rateLimit, c.rateBurst)
		}
		c.transport = t
	}

	return c
}

// Name returns the service name.
func (c *client) Name() string {
	return ServiceName
}

// Version returns the API version.
func (c *client) Version() string {
	return APIVersion
}
