package interfaces

import (
	"context"

	"github.com/internbridge/trustguard/internal/enum"
)

type EventPublisher interface {
	PublishEvent(ctx context.Context, entityId string, eventType enum.EventType, message interface{}) error
	Close() error
}
