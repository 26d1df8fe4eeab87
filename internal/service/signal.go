package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zeebo/xxh3"

	"github.com/carebridge/carebridge"
)

// SignalService publishes domain events to the bus and relays them to
// realtime subscribers. Delivery is at-least-once intent: the publish
// result is surfaced to the caller for logging only.
type SignalService struct {
	rdb     *redis.Client
	channel string
}

func NewSignalService(redisClient *redis.Client, channel string) *SignalService {
	return &SignalService{
		rdb:     redisClient,
		channel: channel,
	}
}

func (s *SignalService) Publish(ctx context.Context, event carebridge.Event) error {

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.ID == "" {
		event.ID = eventID(event)
	}

	jsonstr, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = s.rdb.Publish(ctx, s.channel, jsonstr).Err()
	if err != nil {
		return err
	}

	return nil
}

// Relay subscribes to the event channel and forwards decoded events to
// output until the context is cancelled.
func (s *SignalService) Relay(ctx context.Context, output chan<- carebridge.Event) {
	pubsub := s.rdb.Subscribe(ctx, s.channel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event carebridge.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				slog.ErrorContext(
					ctx, "failed to decode event",
					slog.String("error", err.Error()),
					slog.String("module", "signal"),
				)
				continue
			}
			select {
			case output <- event:
			case <-ctx.Done():
				return
			}
		}
	}
}

// eventID derives a stable identifier from the snapshot and timestamp so
// duplicate deliveries are recognizable downstream.
func eventID(event carebridge.Event) string {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		payload = nil
	}
	seed := append(payload, []byte(event.Timestamp.Format(time.RFC3339Nano))...)
	return fmt.Sprintf("%016x", xxh3.Hash(seed))
}
