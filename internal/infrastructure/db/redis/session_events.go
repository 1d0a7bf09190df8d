package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/onestopshop/storefront/internal/core/ports"
)

const DefaultSessionChannel = "session-events"

// SessionEvents broadcasts session changes to every API instance over Redis
// Pub/Sub.
type SessionEvents struct {
	client  redis.UniversalClient
	channel string
	log     zerolog.Logger
}

var (
	_ ports.SessionEventPublisher = (*SessionEvents)(nil)
	_ ports.SessionEventSource    = (*SessionEvents)(nil)
)

func NewSessionEvents(client redis.UniversalClient, channel string, log zerolog.Logger) *SessionEvents {
	if channel == "" {
		channel = DefaultSessionChannel
	}
	return &SessionEvents{client: client, channel: channel, log: log}
}

func (s *SessionEvents) Publish(ctx context.Context, ev ports.SessionEvent) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("session event encode: %w", err)
	}
	if err := s.client.Publish(ctx, s.channel, raw).Err(); err != nil {
		return fmt.Errorf("session event publish: %w", err)
	}
	return nil
}

// Subscribe delivers decoded events until ctx is cancelled. Malformed
// payloads are logged and skipped.
func (s *SessionEvents) Subscribe(ctx context.Context) (<-chan ports.SessionEvent, error) {
	sub := s.client.Subscribe(ctx, s.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("session event subscribe: %w", err)
	}

	out := make(chan ports.SessionEvent)
	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				ev, err := decodeSessionEvent(msg.Payload)
				if err != nil {
					s.log.Warn().Err(err).Str("channel", msg.Channel).Msg("dropping malformed session event")
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func decodeSessionEvent(payload string) (ports.SessionEvent, error) {
	var ev ports.SessionEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return ev, fmt.Errorf("session event decode: %w", err)
	}
	if ev.UID == "" || ev.Kind == "" {
		return ev, fmt.Errorf("session event decode: missing uid or kind")
	}
	return ev, nil
}
