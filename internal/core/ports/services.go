package ports

import (
	"context"

	"github.com/samirrijal/hulltrace/internal/core/domain"
)

// RunPublisher announces finished runs to a message broker.
type RunPublisher interface {
	PublishRun(ctx context.Context, ev *domain.RunEvent) error
}

// RunSubscriber receives run events published by any instance.
type RunSubscriber interface {
	SubscribeRuns(ctx context.Context, handler func(ctx context.Context, ev *domain.RunEvent) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
