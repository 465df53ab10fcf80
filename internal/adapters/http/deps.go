package http

import (
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/hulltrace/internal/adapters/valkey"
	"github.com/samirrijal/hulltrace/internal/core/usecases"
)

// DefaultRequestTimeout bounds a single hull computation when none is configured.
const DefaultRequestTimeout = 20 * time.Second

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Hull           *usecases.HullService
	NATS           *nats.Conn
	Cache          *valkey.Cache
	RequestTimeout time.Duration
	Version        string
}

func (d *Dependencies) timeout() time.Duration {
	if d.RequestTimeout > 0 {
		return d.RequestTimeout
	}
	return DefaultRequestTimeout
}

func (d *Dependencies) version() string {
	if d.Version != "" {
		return d.Version
	}
	return "dev"
}
