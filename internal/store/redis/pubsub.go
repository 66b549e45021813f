package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/gosuda/aicrm/internal/domain"
)

type PubSub struct {
	client *redis.Client
}

// New connects to Redis and verifies the connection with a ping.
func New(ctx context.Context, addr, password string, db int) (*PubSub, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.New: ping: %w", err)
	}

	return &PubSub{client: client}, nil
}

func (ps *PubSub) Close() error {
	if err := ps.client.Close(); err != nil {
		return fmt.Errorf("redis.PubSub.Close: %w", err)
	}
	return nil
}

func (ps *PubSub) Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error) {
	sub := ps.client.Subscribe(ctx, channel)

	// Wait for subscription confirmation.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("redis.PubSub.Subscribe: receive confirmation: %w", err)
	}

	out := make(chan []byte, 64)
	redisCh := sub.Channel()

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-redisCh:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	cleanup := func() {
		_ = sub.Close()
	}

	return out, cleanup, nil
}

// InteractionsChannel is the channel carrying every interaction event.
func InteractionsChannel() string {
	return "interactions"
}

// InteractionChannel returns the channel for events about a single interaction.
func InteractionChannel(id int64) string {
	return "interaction:" + strconv.FormatInt(id, 10)
}

// PublishInteraction fans the event out to the global feed and to the
// per-interaction channel.
func (ps *PubSub) PublishInteraction(ctx context.Context, ev *domain.InteractionEvent) error {
	payload, err := EncodeEvent(ev)
	if err != nil {
		return fmt.Errorf("redis.PubSub.PublishInteraction: %w", err)
	}

	pipe := ps.client.Pipeline()
	pipe.Publish(ctx, InteractionsChannel(), payload)
	if ev.Interaction != nil {
		pipe.Publish(ctx, InteractionChannel(ev.Interaction.ID), payload)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis.PubSub.PublishInteraction: %w", err)
	}
	return nil
}

// EncodeEvent is the wire form of an interaction event.
func EncodeEvent(ev *domain.InteractionEvent) ([]byte, error) {
	if ev == nil {
		return nil, errors.New("nil event")
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return b, nil
}

func DecodeEvent(payload []byte) (*domain.InteractionEvent, error) {
	var ev domain.InteractionEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	return &ev, nil
}
