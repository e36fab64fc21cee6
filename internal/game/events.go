// internal/game/events.go
package game

import (
	"context"
	"time"
)

// EventType tags the change notifications fanned out after each committed
// mutation.
type EventType string

const (
	EventPlayerJoin    EventType = "player-join"
	EventPlayerLeave   EventType = "player-leave"
	EventRoundStart    EventType = "round-start"
	EventRoundEnd      EventType = "round-end"
	EventRoundNext     EventType = "round-next"
	EventNextTurn      EventType = "next-turn"
	EventImpostorFound EventType = "impostor-found"
	EventGameClose     EventType = "game-close"
)

// Event is the payload delivered to room subscribers. It carries only ids;
// clients re-fetch their masked state in response, so an event can never leak
// a secret word or role.
type Event struct {
	Type      EventType `json:"type"`
	Code      string    `json:"code"`
	Timestamp int64     `json:"timestamp"`
	PlayerID  string    `json:"playerId,omitempty"`
	RoundID   string    `json:"roundId,omitempty"`
	AllFound  *bool     `json:"allFound,omitempty"`
}

// Notifier broadcasts an event to everyone subscribed to a room. Delivery is
// fire-and-forget: the engine calls it after the state change has committed
// and ignores delivery failures entirely.
type Notifier interface {
	Notify(ctx context.Context, code string, ev Event)
}

// NotifierFunc adapts a plain function to the Notifier interface.
type NotifierFunc func(ctx context.Context, code string, ev Event)

func (f NotifierFunc) Notify(ctx context.Context, code string, ev Event) {
	f(ctx, code, ev)
}

func (e *Engine) notify(ctx context.Context, code string, ev Event) {
	if e.notifier == nil {
		return
	}
	ev.Code = code
	ev.Timestamp = time.Now().UnixMilli()
	e.notifier.Notify(ctx, code, ev)
}
