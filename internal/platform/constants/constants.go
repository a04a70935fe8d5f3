// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: Admin session cookie configuration.
  - Import: Upload size caps for the ingestion endpoints.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "lectoria-api"
	AppVersion = "0.3.0"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	// Import uploads (ZIP/PDF) can be tens of megabytes, so this is generous.
	DefaultReadTimeout = 60 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 30 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for a standard request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ImportRequestTimeout is the deadline for import requests, which may run
	// OCR over a whole document before responding.
	ImportRequestTimeout = 10 * time.Minute

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Upload Limits

const (
	// MaxArchiveUploadBytes caps ZIP uploads on the import endpoints.
	MaxArchiveUploadBytes = 64 << 20

	// MaxPDFUploadBytes caps PDF uploads on the import endpoints.
	MaxPDFUploadBytes = 128 << 20

	// MaxCoverUploadBytes caps cover image uploads.
	MaxCoverUploadBytes = 8 << 20
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

// # Admin Authentication

const (
	// AuthIssuer is the standard 'iss' claim in admin session tokens.
	AuthIssuer = "lectoria.app"

	// AdminSessionCookieName is the cookie that carries the admin session token.
	AdminSessionCookieName = "lectoria_admin"

	// AdminSessionTTL is the validity window of an admin session.
	AdminSessionTTL = 12 * time.Hour
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Database Schemas

const (
	SchemaCore = "core"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixStory      = "catalog:story:"
	RedisPrefixStoryViews = "catalog:views:"
)

// # Background Workers

const (
	// ViewFlushInterval is how often accumulated Redis view counters are
	// flushed into PostgreSQL.
	ViewFlushInterval = 1 * time.Minute
)
