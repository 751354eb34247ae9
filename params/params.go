package params

import "time"

const (
	ServerBodyLimit    = 1048576 // 1 MiB
	ServerIdleTimeout  = 30 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 10 * time.Second

	SessionLifetime    = 24 * time.Hour // signed token and DB record share this expiry
	MaxSessionsPerUser = 3              // oldest-by-activity session is evicted beyond this
	SessionCookieName  = "sid"

	BcryptCost        = 12
	MaxFailedLogins   = 5 // account locks when the counter reaches this
	MinPasswordLength = 8

	LoginRateLimitWindow   = 15 * time.Minute
	LoginRateLimitMax      = 5
	APIRateLimitWindow     = 15 * time.Minute
	APIRateLimitMax        = 300
	ContactRateLimitWindow = time.Hour
	ContactRateLimitMax    = 3
	RateLimitSweepInterval = time.Hour

	AuditRetentionDays    = 90              // default retention for audit/security rows
	ContentCacheTTL       = 5 * time.Minute // upstream content proxy cache
	ContentCacheKeyPrefix = "content:"

	HealthCheckServerAddr = ":3001"
)
