package utils

import (
	"time"
)

// Request-scoped context keys
type ContextKey string

const (
	RequestIDKey  ContextKey = "request_id"
	UserAgentKey  ContextKey = "user_agent"
	IPAddressKey  ContextKey = "ip_address"
	EndpointKey   ContextKey = "endpoint"
	TimeoutKey    ContextKey = "timeout"
	CancelFuncKey ContextKey = "cancel_func"
	AdminIDKey    ContextKey = "admin_id"
)

// Campaign statistics constants
const (
	// BusinessTimezone is the zone whose calendar days campaign timelines are bucketed by
	BusinessTimezone = "Australia/Sydney"

	// TimelineMaxDays is the longest daily timeline a report carries
	TimelineMaxDays = 30

	// TopPickupLocations is how many rows the top-N pickup location lists hold
	TopPickupLocations = 10

	// FailureReasonSamples is how many message ids are kept per SMS failure reason
	FailureReasonSamples = 3

	// NotAvailable is reported when a headline figure has no data behind it
	NotAvailable = "N/A"

	// StatsRequestTimeout bounds a single stats or comparison computation
	StatsRequestTimeout = 30 * time.Second
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)
