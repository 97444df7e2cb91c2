package utils

import (
	"context"
	"time"
)

const (
	// DefaultTimeout bounds a single database call
	DefaultTimeout = 10 * time.Second

	// LongTimeout is for calls to the asset store, which move image bytes
	LongTimeout = 30 * time.Second
)

// WithTimeout creates a context with default timeout
func WithTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, DefaultTimeout)
}

// WithLongTimeout creates a context with long timeout for asset store calls
func WithLongTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, LongTimeout)
}
