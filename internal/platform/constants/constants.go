// Copyright (c) 2026 Choice Properties. All rights reserved.

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: JWT issuers and authorization cache tuning.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "choice-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication & Authorization

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "choiceproperties.app"

	// AccessTokenTTL is the duration a JWT access token remains valid.
	// Kept short to minimize the impact of a leaked token.
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL is the lifetime of a refresh-token session. Sessions
	// are rotated on every refresh, so this bounds total inactivity.
	RefreshTokenTTL = 30 * 24 * time.Hour

	// RoleCacheTTL is how long a resolved user role stays in the in-process
	// cache before the next request re-reads it from persistence.
	RoleCacheTTL = 15 * time.Minute

	// RoleCacheCapacity bounds the in-process role cache. Past this size the
	// least-recently-used entry is evicted.
	RoleCacheCapacity = 100

	// RoleCacheKeyPrefix namespaces role entries inside the shared cache.
	RoleCacheKeyPrefix = "user_role:"

	// TwoFactorStateTTL is how long a completed two-factor verification is
	// honored before the client must step up again.
	TwoFactorStateTTL = 12 * time.Hour

	// TwoFactorChallengeTTL is how long an issued one-time challenge code
	// stays redeemable.
	TwoFactorChallengeTTL = 10 * time.Minute
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderOrigin        = "Origin"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderAuthorization = "Authorization"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixTwoFactor          = "authz:twofactor:"
	RedisPrefixTwoFactorChallenge = "authz:twofactor:challenge:"
)
