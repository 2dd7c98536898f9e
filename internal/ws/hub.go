package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"log/slog"

	"github.com/Nkwor-Jane/pomodoro-study-app/pkg/metrics"
)

// joinTimeout bounds the wait for the initial join message so a
// silent client cannot hold a connection open forever
const joinTimeout = 30 * time.Second

// Hub is the fanout engine plus the per-connection session handler.
// All room state lives in the registry; the hub only moves messages.
type Hub struct {
	log      *slog.Logger
	registry *Registry
	events   *Events
}

// NewHub wires the fanout engine to its registry and optional event
// mirror (events may be nil).
func NewHub(logger *slog.Logger, registry *Registry, events *Events) *Hub {
	return &Hub{log: logger, registry: registry, events: events}
}

// Broadcast sends msg to every member of the room. Delivery is
// best-effort and independent per recipient; members whose send fails
// are removed after the sweep completes.
func (h *Hub) Broadcast(room string, msg any) {
	h.fanout(room, nil, msg)
}

// BroadcastExcept sends msg to every member of the room but one
func (h *Hub) BroadcastExcept(room string, except Peer, msg any) {
	h.fanout(room, except, msg)
}

func (h *Hub) fanout(room string, except Peer, msg any) {
	var dead []Peer
	for _, p := range h.registry.Snapshot(room) {
		if p == except {
			continue
		}
		if err := p.Send(msg); err != nil {
			h.log.Warn("ws.send_failed", "room", room, "peer", p.ID(), "err", err)
			dead = append(dead, p)
		}
	}
	// Deferred removal: never mutate the member list mid-sweep. The
	// dead peer's own session loop announces its departure later.
	for _, p := range dead {
		h.registry.Remove(room, p)
		_ = p.Close()
	}
}

// SendToPeer delivers msg to the first member claiming peerID. A
// missing target is a silent no-op (it may have just disconnected);
// a send failure is handled like any other dead connection.
func (h *Hub) SendToPeer(room, peerID string, msg any) {
	for _, p := range h.registry.Snapshot(room) {
		if p.ID() != peerID {
			continue
		}
		if err := p.Send(msg); err != nil {
			h.log.Warn("ws.send_failed", "room", room, "peer", peerID, "err", err)
			h.registry.Remove(room, p)
			_ = p.Close()
		}
		return
	}
}

// ServeWS runs one connection's session: handshake, dispatch loop,
// cleanup. Mounted at /ws/{room}.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	room := r.PathValue("room")
	if room == "" {
		http.Error(w, "room required", http.StatusBadRequest)
		return
	}

	wsConn, err := Accept(w, r)
	if err != nil {
		h.log.Error("ws.accept", "err", err)
		return
	}
	c := NewConn(wsConn)
	go c.WriteLoop(ctx)

	if !h.handshake(ctx, room, c) {
		_ = c.Close()
		return
	}
	h.join(ctx, room, c)

	for {
		raw, ok := c.Read(ctx)
		if !ok {
			break
		}
		if err := h.dispatch(room, c, raw); err != nil {
			h.log.Warn("ws.session_error", "room", room, "peer", c.ID(), "conn", c.connID, "err", err)
			break
		}
	}

	h.leave(ctx, room, c)
	_ = c.Close()
}

// handshake waits for the join message that carries the peer id. Any
// other first message (or none within the deadline) rejects the
// connection before it is ever registered, so no cleanup is needed.
func (h *Hub) handshake(ctx context.Context, room string, c *Conn) bool {
	hsCtx, cancel := context.WithTimeout(ctx, joinTimeout)
	defer cancel()

	raw, ok := c.Read(hsCtx)
	if !ok {
		return false
	}
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Type != TypeJoin {
		h.log.Debug("ws.handshake_rejected", "room", room, "conn", c.connID)
		return false
	}
	c.peer = env.ID
	return true
}

// join registers the connection and announces it: timer snapshot to
// the joiner, member count to everyone, new-peer to everyone else.
func (h *Hub) join(ctx context.Context, room string, p Peer) {
	timer, count := h.registry.Join(room, p)

	_ = p.Send(timerSyncMessage{Type: TypeTimerSync, Data: timer})
	h.Broadcast(room, membersMessage{Type: TypeMembers, Count: count})
	h.BroadcastExcept(room, p, peerMessage{Type: TypeNewPeer, ID: p.ID()})

	h.events.Publish(ctx, RoomEvent{Room: room, Type: EventJoined, PeerID: p.ID(), Members: count})
	h.log.Info("ws.join", "room", room, "peer", p.ID(), "members", count)
}

// leave removes the connection and announces the departure. Removal
// is idempotent: a fanout sweep may already have dropped the peer,
// but the departure is still announced to whoever remains. When the
// room died with this member there is nobody left to notify and both
// broadcasts no-op.
func (h *Hub) leave(ctx context.Context, room string, p Peer) {
	h.registry.Remove(room, p)

	h.Broadcast(room, peerMessage{Type: TypePeerLeft, ID: p.ID()})
	count, ok := h.registry.MemberCount(room)
	if ok {
		h.Broadcast(room, membersMessage{Type: TypeMembers, Count: count})
	}

	h.events.Publish(ctx, RoomEvent{Room: room, Type: EventLeft, PeerID: p.ID(), Members: count})
	h.log.Info("ws.leave", "room", room, "peer", p.ID(), "members", count)
}

// dispatch routes one inbound message. A payload that does not parse
// as JSON is an unrecoverable session error; everything that parses
// is relayed best-effort.
func (h *Hub) dispatch(room string, from Peer, raw []byte) error {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	metrics.RelayMessages.WithLabelValues(metricType(env.Type)).Inc()

	switch env.Type {
	case TypeChat:
		sender := env.Sender
		if sender == "" {
			sender = "Anonymous"
		}
		// Chat echoes back to the sender as well
		h.Broadcast(room, chatMessage{Type: TypeChat, Text: env.Text, Sender: sender, From: env.From})

	case TypeTimer:
		var d TimerData
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &d); err != nil {
				return fmt.Errorf("decode timer data: %w", err)
			}
		}
		h.registry.ApplyTimer(room, env.Action, d)
		data := env.Data
		if len(data) == 0 {
			data = json.RawMessage(`{}`)
		}
		h.Broadcast(room, timerMessage{Type: TypeTimer, Action: env.Action, Data: data, From: env.From})

	case TypeOffer, TypeAnswer, TypeCandidate:
		// Signaling payloads are opaque; relay them verbatim
		if env.To != "" {
			h.SendToPeer(room, env.To, json.RawMessage(raw))
		} else {
			h.Broadcast(room, json.RawMessage(raw))
		}

	default:
		h.Broadcast(room, json.RawMessage(raw))
	}
	return nil
}

// metricType caps label cardinality at the known message types
func metricType(t string) string {
	switch t {
	case TypeJoin, TypeChat, TypeTimer, TypeOffer, TypeAnswer, TypeCandidate:
		return t
	}
	return "other"
}
