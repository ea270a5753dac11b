package redis

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/finbook/finbook/internal/domain"
)

// EventBus implements usecase.EventBus over Redis pub/sub, one channel per
// budget. Publication is fire-and-forget; nobody listening is fine.
type EventBus struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewEventBus creates a new EventBus.
func NewEventBus(client *redis.Client, logger zerolog.Logger) *EventBus {
	return &EventBus{client: client, logger: logger}
}

func channelFor(budgetID string) string {
	return "finbook:changes:" + budgetID
}

// Publish sends a change event to the budget's channel.
func (b *EventBus) Publish(ctx context.Context, event domain.ChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return b.client.Publish(ctx, channelFor(event.BudgetID), payload).Err()
}

// Subscribe returns a channel of change events for one budget. The channel
// closes when ctx is cancelled. Undecodable messages are dropped with a log
// line rather than killing the subscription.
func (b *EventBus) Subscribe(ctx context.Context, budgetID string) (<-chan domain.ChangeEvent, error) {
	sub := b.client.Subscribe(ctx, channelFor(budgetID))

	// Force the subscription to be established before returning.
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, err
	}

	out := make(chan domain.ChangeEvent)
	go func() {
		defer close(out)
		defer sub.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}

				var event domain.ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					b.logger.Warn().Err(err).Str("channel", msg.Channel).Msg("dropping undecodable change event")
					continue
				}

				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
