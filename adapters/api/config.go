package api

import (
	"time"
)

// Options holds the HTTP tuning of the evaluation API
type Options struct {
	// Server timeouts
	ReadHeaderTimeout time.Duration `json:"read_header_timeout"`
	RequestTimeout    time.Duration `json:"request_timeout"`
	ShutdownTimeout   time.Duration `json:"shutdown_timeout"`

	// Request limits
	MaxRequestBytes  int64 `json:"max_request_bytes"`
	MaxConcurrent    int   `json:"max_concurrent"` // 0 disables throttling
	CompressionLevel int   `json:"compression_level"`
}

// DefaultOptions returns the API defaults
func DefaultOptions() Options {
	return Options{
		ReadHeaderTimeout: 10 * time.Second,
		RequestTimeout:    60 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		MaxRequestBytes:   MaxRequestBytes,
		MaxConcurrent:     0,
		CompressionLevel:  5,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.ReadHeaderTimeout <= 0 {
		o.ReadHeaderTimeout = d.ReadHeaderTimeout
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = d.RequestTimeout
	}
	if o.ShutdownTimeout <= 0 {
		o.ShutdownTimeout = d.ShutdownTimeout
	}
	if o.MaxRequestBytes <= 0 {
		o.MaxRequestBytes = d.MaxRequestBytes
	}
	if o.CompressionLevel <= 0 {
		o.CompressionLevel = d.CompressionLevel
	}
	return o
}
