package models

import "time"

// CacheItem is the request body for storing a key-value pair.
// Keys are limited to 255 characters and values to 10000 characters;
// TTL is optional and, when present, must be at least one second.
type CacheItem struct {
	Key   string `json:"key" binding:"required,min=1,max=255"`
	Value string `json:"value" binding:"max=10000"`
	TTL   *int   `json:"ttl,omitempty" binding:"omitnil,gte=1"` // seconds
}

// TTLDuration converts the optional TTL into a duration.
// A nil TTL means the entry never expires and maps to zero.
func (i *CacheItem) TTLDuration() time.Duration {
	if i.TTL == nil {
		return 0
	}
	return time.Duration(*i.TTL) * time.Second
}

// CacheResponse is the response body for all cache operations.
// Value is a pointer so a stored empty string is distinguishable
// from a missing key.
type CacheResponse struct {
	Key     string  `json:"key"`
	Value   *string `json:"value,omitempty"`
	Found   bool    `json:"found"`
	Message string  `json:"message"`
}

// HealthResponse is the response body for the health endpoint.
type HealthResponse struct {
	Status     string                 `json:"status"`
	Timestamp  string                 `json:"timestamp"`
	Version    string                 `json:"version"`
	Components map[string]interface{} `json:"components"`
}

// ErrorResponse is the structured body rendered for every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Detail    string `json:"detail"`
	Timestamp string `json:"timestamp"`
}

// NewErrorResponse creates an ErrorResponse stamped with the current time.
func NewErrorResponse(err, detail string) ErrorResponse {
	return ErrorResponse{
		Error:     err,
		Detail:    detail,
		Timestamp: Timestamp(),
	}
}

// Timestamp returns the current UTC time in RFC 3339 format, the format
// used by every timestamp field in API responses.
func Timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
