// internal/game/masked.go
package game

import (
	"encoding/json"
	"time"

	"impostor/internal/room"
)

// MaskedWord is the role-dependent word slot in a player's view. Three cases
// must stay distinguishable on the wire: the field is absent while no round
// is active (or the requester is unknown), null for an impostor, and the
// secret word for everyone else.
type MaskedWord struct {
	Present bool
	Word    *string
}

// IsZero makes `omitzero` drop the field entirely in the absent case.
func (w MaskedWord) IsZero() bool { return !w.Present }

func (w MaskedWord) MarshalJSON() ([]byte, error) {
	if w.Word == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*w.Word)
}

// RoundView is the current round with its secrets stripped: no word, no
// impostor ids, just enough for clients to render progress.
type RoundView struct {
	ID                 string     `json:"id"`
	StartedAt          time.Time  `json:"startedAt"`
	EndedAt            *time.Time `json:"endedAt,omitempty"`
	ImpostorCount      int        `json:"impostorCount"`
	FoundImpostorCount int        `json:"foundImpostorCount"`
}

// RoomView is the shared slice of room state. The word pool itself is
// withheld; only its size is reported.
type RoomView struct {
	Code             string         `json:"code"`
	HostID           string         `json:"hostId"`
	Players          []*room.Player `json:"players"`
	WordCount        int            `json:"wordCount"`
	ImpostorCountMin int            `json:"impostorCountMin"`
	ImpostorCountMax int            `json:"impostorCountMax"`
	ShareCategories  bool           `json:"shareCategories"`
	AllowAllKick     bool           `json:"allowAllKick"`
	IsPublic         bool           `json:"isPublic"`
	TurnOrder        []string       `json:"turnOrder,omitempty"`
	CurrentTurnIndex int            `json:"currentTurnIndex"`
}

// PlayerState is the per-player projection of a room. This is the only read
// path exposed to clients, and the only place masking happens.
type PlayerState struct {
	IsHost            bool         `json:"isHost"`
	Room              RoomView     `json:"room"`
	Player            *room.Player `json:"player,omitempty"`
	Round             *RoundView   `json:"round,omitempty"`
	WordForPlayer     MaskedWord   `json:"wordForPlayer,omitzero"`
	CategoryForPlayer *string      `json:"categoryForPlayer,omitempty"`
	CurrentTurnPlayer *room.Player `json:"currentTurnPlayer,omitempty"`
	IsMyTurn          bool         `json:"isMyTurn"`
}

// buildPlayerState projects rm for the requesting player. An empty or
// unrecognized playerID yields a spectator view: the word slot stays absent,
// never revealed. Fail closed.
func buildPlayerState(rm *room.Room, playerID string) *PlayerState {
	st := &PlayerState{
		Room: RoomView{
			Code:             rm.Code,
			HostID:           rm.HostID,
			Players:          rm.Players,
			WordCount:        len(rm.Words),
			ImpostorCountMin: rm.ImpostorCountMin,
			ImpostorCountMax: rm.ImpostorCountMax,
			ShareCategories:  rm.ShareCategories,
			AllowAllKick:     rm.AllowAllKick,
			IsPublic:         rm.IsPublic,
			TurnOrder:        rm.TurnOrder,
			CurrentTurnIndex: rm.CurrentTurnIndex,
		},
	}

	var player *room.Player
	if playerID != "" {
		player = rm.Player(playerID)
	}
	st.Player = player
	st.IsHost = player != nil && player.ID == rm.HostID

	rd := rm.CurrentRound
	if rd == nil {
		return st
	}

	st.Round = &RoundView{
		ID:                 rd.ID,
		StartedAt:          rd.StartedAt,
		EndedAt:            rd.EndedAt,
		ImpostorCount:      len(rd.ImpostorIDs),
		FoundImpostorCount: rd.FoundImpostorCount,
	}

	if player != nil {
		if rd.IsImpostor(player.ID) {
			st.WordForPlayer = MaskedWord{Present: true} // null on the wire
			if rm.ShareCategories {
				cat := rd.Category
				st.CategoryForPlayer = &cat
			}
		} else {
			word := rd.Word
			cat := rd.Category
			st.WordForPlayer = MaskedWord{Present: true, Word: &word}
			st.CategoryForPlayer = &cat
		}
	}

	if len(rm.TurnOrder) > 0 && rm.CurrentTurnIndex < len(rm.TurnOrder) {
		turnID := rm.TurnOrder[rm.CurrentTurnIndex]
		st.CurrentTurnPlayer = rm.Player(turnID)
		st.IsMyTurn = player != nil && player.ID == turnID
	}

	return st
}
