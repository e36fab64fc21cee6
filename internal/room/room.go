// internal/room/room.go
package room

import (
	"strings"
	"time"
)

// Player is one seat in a room. The id is client-persisted and opaque; it is
// the player's identity, not the name. Names are mutable and not unique.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Round is one word-assignment cycle. ImpostorIDs is never empty for a round
// produced by the engine, and is always a subset of the room's players at
// draw time. A round with EndedAt set is kept only as a soft marker while a
// successor is installed.
type Round struct {
	ID                 string     `json:"id"`
	ImpostorIDs        []string   `json:"impostorIds"`
	Word               string     `json:"word"`
	Category           string     `json:"category"`
	StartedAt          time.Time  `json:"startedAt"`
	EndedAt            *time.Time `json:"endedAt,omitempty"`
	FoundImpostorCount int        `json:"foundImpostorCount"`
}

// IsImpostor reports whether playerID is part of this round's impostor set.
func (r *Round) IsImpostor(playerID string) bool {
	for _, id := range r.ImpostorIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

// Room is the single mutable record per game. Each engine operation loads it,
// mutates it, and writes it back whole; the repository is the only owner of
// stored state.
//
// TurnOrder, when non-nil, holds exactly the current player ids; the first
// round establishes it and join/leave keep it in sync. CurrentTurnIndex is
// meaningful only while TurnOrder is non-empty.
type Room struct {
	Code             string    `json:"code"`
	HostID           string    `json:"hostId"`
	Players          []*Player `json:"players"`
	Words            []string  `json:"words"`
	ImpostorCountMin int       `json:"impostorCountMin"`
	ImpostorCountMax int       `json:"impostorCountMax"`
	ShareCategories  bool      `json:"shareCategories"`
	AllowAllKick     bool      `json:"allowAllKick"`
	IsPublic         bool      `json:"isPublic"`
	CurrentRound     *Round    `json:"currentRound,omitempty"`
	TurnOrder        []string  `json:"turnOrder,omitempty"`
	CurrentTurnIndex int       `json:"currentTurnIndex"`

	// Version stamps the record for compare-and-swap writes. The repository
	// increments it on every successful Put and rejects stale writes with
	// ErrConflict.
	Version int64 `json:"version"`
}

// Player returns the seated player with the given id, or nil.
func (rm *Room) Player(id string) *Player {
	for _, p := range rm.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PlayerByName returns the first seated player whose name matches
// case-insensitively, or nil. Used only for rejoin-by-name recovery.
func (rm *Room) PlayerByName(name string) *Player {
	for _, p := range rm.Players {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

// HostPlayer returns the host's player record, or nil mid-transfer.
func (rm *Room) HostPlayer() *Player {
	return rm.Player(rm.HostID)
}

// MinPlayersToStart is the smallest roster that can run a round: every
// impostor at the configured maximum plus two crew members.
func (rm *Room) MinPlayersToStart() int {
	return rm.ImpostorCountMax + 2
}

// HasActiveRound reports whether the room is in its RoundActive state.
func (rm *Room) HasActiveRound() bool {
	return rm.CurrentRound != nil && rm.CurrentRound.EndedAt == nil
}

// PlayerIDs returns the seated player ids in join order.
func (rm *Room) PlayerIDs() []string {
	ids := make([]string, len(rm.Players))
	for i, p := range rm.Players {
		ids[i] = p.ID
	}
	return ids
}

// Clone deep-copies the room so repository callers never alias stored state.
func (rm *Room) Clone() *Room {
	cp := *rm
	cp.Players = make([]*Player, len(rm.Players))
	for i, p := range rm.Players {
		pc := *p
		cp.Players[i] = &pc
	}
	cp.Words = append([]string(nil), rm.Words...)
	cp.TurnOrder = append([]string(nil), rm.TurnOrder...)
	if rm.CurrentRound != nil {
		rc := *rm.CurrentRound
		rc.ImpostorIDs = append([]string(nil), rm.CurrentRound.ImpostorIDs...)
		if rm.CurrentRound.EndedAt != nil {
			t := *rm.CurrentRound.EndedAt
			rc.EndedAt = &t
		}
		cp.CurrentRound = &rc
	}
	return &cp
}

