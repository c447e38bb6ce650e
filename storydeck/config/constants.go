package config

import "time"

// Application-wide constants organized by domain

// Database and Performance Constants
const (
	// Timeouts
	DefaultQueryTimeout = 30 * time.Second
	HealthCheckTimeout  = 2 * time.Second
	NetworkDialTimeout  = 5 * time.Second

	// Serialization conflict retries
	TxRetryInitialBackoff = 20 * time.Millisecond
	TxRetryMaxBackoff     = 500 * time.Millisecond
	TxRetryBackoffFactor  = 2.0

	// Notification channel carrying listing card ids
	ListingChangesChannel = "listing_changes"
	ListenReconnectDelay  = 2 * time.Second
)

// Catalog Constants
const (
	SearchCacheSize      = 1024
	DefaultSearchResults = 10
	MaxSearchResults     = 100
)

// API and Rate Limiting Constants
const (
	// Rate limiting
	MutationRateLimit = 30
	RateLimitWindow   = 1 * time.Minute

	// Request limits
	MaxRequestSize = 64 * 1024
	RequestTimeout = 30 * time.Second

	// Live feed
	FeedKeepAliveInterval = 25 * time.Second
)

// Security Constants
const (
	SessionCookieName = "storydeck_session"
	DefaultTokenTTL   = 24 * time.Hour
	MaxTokenTTL       = 30 * 24 * time.Hour
)
