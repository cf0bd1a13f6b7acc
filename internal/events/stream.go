// Package events publishes roster events to Redis Streams for downstream
// consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"squadup-app/internal/model"

	"github.com/redis/go-redis/v9"
)

// DefaultMaxLen caps each stream; trimming is approximate.
const DefaultMaxLen = 10000

// StreamPublisher writes each event to roster.events.{sport}.
type StreamPublisher struct {
	redis  *redis.Client
	maxLen int64
}

func NewStreamPublisher(client *redis.Client) *StreamPublisher {
	return &StreamPublisher{redis: client, maxLen: DefaultMaxLen}
}

// Connect parses a redis:// URL and checks the server answers.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// StreamKey is the stream a sport's events go to.
func StreamKey(sport string) string {
	sport = strings.ToLower(strings.TrimSpace(sport))
	if sport == "" {
		sport = model.DefaultSport
	}
	return "roster.events." + sport
}

func streamValues(ev model.RosterEvent) (map[string]any, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal %s event: %w", ev.Kind, err)
	}
	return map[string]any{
		"data":     string(data),
		"match_id": ev.MatchID,
		"kind":     string(ev.Kind),
		"status":   string(ev.Status),
	}, nil
}

func (p *StreamPublisher) Notify(ctx context.Context, ev model.RosterEvent) error {
	values, err := streamValues(ev)
	if err != nil {
		return err
	}
	key := StreamKey(ev.Sport)
	err = p.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: key,
		MaxLen: p.maxLen,
		Approx: true,
		Values: values,
	}).Err()
	if err != nil {
		return fmt.Errorf("publish to stream %s: %w", key, err)
	}
	return nil
}
