package ws

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"log/slog"

	"github.com/Nkwor-Jane/pomodoro-study-app/internal/app"
)

// Room lifecycle event types published to the mirror
const (
	EventJoined = "joined"
	EventLeft   = "left"
)

// RoomEvent is what external consumers (dashboards, presence feeds)
// see on the redis channel for a room. Publishing is outbound only:
// nothing flows back into the hub, so in-memory room state stays the
// single authority.
type RoomEvent struct {
	Room    string `json:"room"`
	Type    string `json:"type"`
	PeerID  string `json:"peerId,omitempty"`
	Members int    `json:"members"`
}

// Events mirrors room lifecycle events to redis pub/sub. A nil
// *Events is valid and publishes nothing (redis not configured).
type Events struct {
	rdb *redis.Client
	log *slog.Logger
}

// NewEvents connects to redis and verifies connectivity. Returns
// (nil, nil) when no redis address is configured.
func NewEvents(ctx context.Context, cfg app.Config, log *slog.Logger) (*Events, error) {
	if cfg.RedisAddr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Events{rdb: rdb, log: log}, nil
}

// Publish sends the event to the room's channel, best-effort
func (e *Events) Publish(ctx context.Context, ev RoomEvent) {
	if e == nil {
		return
	}
	raw, _ := json.Marshal(ev)
	if err := e.rdb.Publish(ctx, channel(ev.Room), raw).Err(); err != nil {
		e.log.Warn("events.publish", "room", ev.Room, "err", err)
	}
}

// Close shuts down the redis connection
func (e *Events) Close() {
	if e == nil {
		return
	}
	_ = e.rdb.Close()
}

// channel namespacing for room pub/sub
func channel(room string) string { return "room:" + room }
