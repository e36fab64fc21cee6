// internal/game/engine.go
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"impostor/internal/room"
	"impostor/internal/words"
)

// Room codes use a fixed-length upper-case alphabet with the visually
// ambiguous characters (I, O, 0, 1) removed.
const (
	codeAlphabet    = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength      = 5
	maxCodeAttempts = 50
)

// publicListLimit caps the discovery listing.
const publicListLimit = 5

// Engine holds no game state of its own. Every operation is one atomic
// read-mutate-write cycle against a single room record; concurrent cycles on
// the same code are serialized by the repository's version stamp, and a loser
// surfaces room.ErrConflict to its caller rather than silently dropping the
// other write.
type Engine struct {
	repo     room.Repository
	notifier Notifier
	log      *logrus.Logger
}

// New wires an engine. notifier may be nil, in which case no notifications
// are sent (useful in tests).
func New(repo room.Repository, notifier Notifier, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{repo: repo, notifier: notifier, log: logger}
}

// CreateOptions configures a new room. Zero values select the defaults: a
// generated host id, the built-in word pool, one impostor, kicks restricted
// to the host unless AllowAllKick is set.
type CreateOptions struct {
	HostPlayerID     string
	HostName         string
	Words            []string
	Categories       []string
	ImpostorCountMin int
	ImpostorCountMax int
	ShareCategories  bool
	AllowAllKick     bool
	IsPublic         bool
}

// PublicRoom is one discovery listing entry.
type PublicRoom struct {
	Code     string `json:"code"`
	HostName string `json:"hostName"`
}

// PlayerStatus reports whether a player id is currently seated somewhere.
type PlayerStatus struct {
	InRoom bool   `json:"inRoom"`
	Code   string `json:"code,omitempty"`
}

// CreateRoom generates a unique code, seats the host as the sole player and
// stores the room in its lobby state. Returns the code and the host's
// resolved player id.
func (e *Engine) CreateRoom(ctx context.Context, opts CreateOptions) (string, string, error) {
	hostName := strings.TrimSpace(opts.HostName)
	if hostName == "" {
		return "", "", fmt.Errorf("%w: host name must not be empty", ErrValidation)
	}
	hostID := opts.HostPlayerID
	if hostID == "" {
		hostID = uuid.NewString()
	}

	minCount := opts.ImpostorCountMin
	if minCount < 1 {
		minCount = 1
	}
	maxCount := opts.ImpostorCountMax
	if maxCount < minCount {
		maxCount = minCount
	}

	pool := buildWordPool(opts.Words, opts.Categories)

	rm := &room.Room{
		HostID:           hostID,
		Players:          []*room.Player{{ID: hostID, Name: hostName}},
		Words:            pool,
		ImpostorCountMin: minCount,
		ImpostorCountMax: maxCount,
		ShareCategories:  opts.ShareCategories,
		AllowAllKick:     opts.AllowAllKick,
		IsPublic:         opts.IsPublic,
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		rm.Code = randomCode()
		err := e.repo.Create(ctx, rm)
		if errors.Is(err, room.ErrDuplicateCode) {
			continue
		}
		if err != nil {
			return "", "", err
		}
		if err := e.repo.BindPlayer(ctx, hostID, rm.Code); err != nil {
			e.log.WithError(err).Warn("failed to bind host to room")
		}
		e.log.WithFields(logrus.Fields{
			"code": rm.Code, "host": hostName, "words": len(pool),
		}).Info("room created")
		return rm.Code, hostID, nil
	}
	return "", "", fmt.Errorf("%w: could not allocate a room code", room.ErrUnavailable)
}

// JoinRoom seats a player, or recovers an existing seat. An id match is a
// plain rejoin (name refreshed). A case-insensitive name match re-binds that
// seat to the new id, so clients that lost their persisted id after a reload
// get their identity back. Otherwise a new seat is appended, and slotted at
// the end of the turn order if a round is already running.
func (e *Engine) JoinRoom(ctx context.Context, code, playerID, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: player name must not be empty", ErrValidation)
	}
	if playerID == "" {
		playerID = uuid.NewString()
	}

	rm, err := e.loadRoom(ctx, code)
	if err != nil {
		return "", err
	}

	existing := rm.Player(playerID)
	if existing == nil {
		if byName := rm.PlayerByName(name); byName != nil {
			rebindPlayerID(rm, byName.ID, playerID)
			existing = byName
		}
	}

	if existing != nil {
		existing.Name = name
	} else {
		rm.Players = append(rm.Players, &room.Player{ID: playerID, Name: name})
		if rm.CurrentRound != nil && rm.TurnOrder != nil {
			rm.TurnOrder = append(rm.TurnOrder, playerID)
		}
	}

	if err := e.repo.Put(ctx, rm); err != nil {
		return "", err
	}
	if err := e.repo.BindPlayer(ctx, playerID, rm.Code); err != nil {
		e.log.WithError(err).Warn("failed to bind player to room")
	}
	e.notify(ctx, rm.Code, Event{Type: EventPlayerJoin, PlayerID: playerID})
	return playerID, nil
}

// rebindPlayerID swaps oldID for newID everywhere it appears so the turn
// order and impostor set stay consistent with the roster.
func rebindPlayerID(rm *room.Room, oldID, newID string) {
	if p := rm.Player(oldID); p != nil {
		p.ID = newID
	}
	for i, id := range rm.TurnOrder {
		if id == oldID {
			rm.TurnOrder[i] = newID
		}
	}
	if rm.CurrentRound != nil {
		for i, id := range rm.CurrentRound.ImpostorIDs {
			if id == oldID {
				rm.CurrentRound.ImpostorIDs[i] = newID
			}
		}
	}
	if rm.HostID == oldID {
		rm.HostID = newID
	}
}

// LeaveRoom removes the player. The last player leaving closes the room.
func (e *Engine) LeaveRoom(ctx context.Context, code, playerID string) error {
	rm, err := e.loadRoom(ctx, code)
	if err != nil {
		return err
	}
	return e.removePlayer(ctx, rm, playerID)
}

// KickPlayer removes target on acting's behalf. With AllowAllKick disabled
// only the host may kick and the host itself is never a valid target.
// Kicking yourself is rejected outright; use LeaveRoom.
func (e *Engine) KickPlayer(ctx context.Context, code, actingID, targetID string) error {
	if actingID == targetID {
		return fmt.Errorf("%w: cannot kick yourself", ErrValidation)
	}
	rm, err := e.loadRoom(ctx, code)
	if err != nil {
		return err
	}
	if rm.Player(actingID) == nil || rm.Player(targetID) == nil {
		return ErrPlayerNotFound
	}
	if !rm.AllowAllKick {
		if actingID != rm.HostID {
			return fmt.Errorf("%w: only the host may kick", ErrNotAuthorized)
		}
		if targetID == rm.HostID {
			return fmt.Errorf("%w: the host cannot be kicked", ErrNotAuthorized)
		}
	}
	return e.removePlayer(ctx, rm, targetID)
}

// removePlayer carries the shared leave/kick transition: roster and turn
// order upkeep, forced round end below the viable minimum, automatic round
// advance when an impostor walks out, host transfer, room closure.
func (e *Engine) removePlayer(ctx context.Context, rm *room.Room, playerID string) error {
	idx := -1
	for i, p := range rm.Players {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrPlayerNotFound
	}
	wasImpostor := rm.CurrentRound != nil && rm.CurrentRound.IsImpostor(playerID)

	rm.Players = append(rm.Players[:idx], rm.Players[idx+1:]...)
	dropFromTurnOrder(rm, playerID)

	if err := e.repo.UnbindPlayer(ctx, playerID); err != nil {
		e.log.WithError(err).Warn("failed to unbind player")
	}

	if len(rm.Players) == 0 {
		if err := e.repo.Delete(ctx, rm.Code); err != nil {
			return err
		}
		e.log.WithField("code", rm.Code).Info("room closed, last player left")
		e.notify(ctx, rm.Code, Event{Type: EventGameClose})
		return nil
	}

	autoAdvanced := false
	if len(rm.Players) < rm.MinPlayersToStart() {
		if rm.CurrentRound != nil {
			now := time.Now()
			rm.CurrentRound.EndedAt = &now
			rm.CurrentRound = nil
			e.log.WithField("code", rm.Code).Info("round cancelled, too few players")
		}
		rm.TurnOrder = nil
		rm.CurrentTurnIndex = 0
	} else if wasImpostor && rm.HasActiveRound() {
		// The round is unplayable without its impostor; deal a fresh one.
		advanceRound(rm)
		autoAdvanced = true
	}

	if rm.HostID == playerID {
		rm.HostID = rm.Players[0].ID
		e.log.WithFields(logrus.Fields{
			"code": rm.Code, "host": rm.HostID,
		}).Info("host transferred")
	}

	if err := e.repo.Put(ctx, rm); err != nil {
		return err
	}
	e.notify(ctx, rm.Code, Event{Type: EventPlayerLeave, PlayerID: playerID})
	if autoAdvanced {
		e.notify(ctx, rm.Code, Event{Type: EventRoundNext, RoundID: rm.CurrentRound.ID})
	}
	return nil
}

// dropFromTurnOrder removes playerID and keeps the cursor on the same
// logical seat: removals at or before the cursor pull it back one, and a
// cursor that falls off the end wraps to the front.
func dropFromTurnOrder(rm *room.Room, playerID string) {
	idx := -1
	for i, id := range rm.TurnOrder {
		if id == playerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	rm.TurnOrder = append(rm.TurnOrder[:idx], rm.TurnOrder[idx+1:]...)
	if idx <= rm.CurrentTurnIndex && rm.CurrentTurnIndex > 0 {
		rm.CurrentTurnIndex--
	}
	if rm.CurrentTurnIndex >= len(rm.TurnOrder) {
		rm.CurrentTurnIndex = 0
	}
}

// StartRound transitions Lobby -> RoundActive. The first round fixes the
// turn order as a random permutation of the roster.
func (e *Engine) StartRound(ctx context.Context, code string) error {
	rm, err := e.loadRoom(ctx, code)
	if err != nil {
		return err
	}
	if rm.HasActiveRound() {
		return fmt.Errorf("%w: a round is already active", ErrInvalidState)
	}
	if len(rm.Players) < rm.MinPlayersToStart() {
		return fmt.Errorf("%w: need at least %d players", ErrInvalidState, rm.MinPlayersToStart())
	}

	if len(rm.TurnOrder) != len(rm.Players) {
		order := rm.PlayerIDs()
		rand.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
		rm.TurnOrder = order
		rm.CurrentTurnIndex = 0
	}
	installRound(rm)

	if err := e.repo.Put(ctx, rm); err != nil {
		return err
	}
	e.logRound(rm, "round started")
	e.notify(ctx, rm.Code, Event{Type: EventRoundStart, RoundID: rm.CurrentRound.ID})
	return nil
}

// NextRound soft-ends the active round, rotates the opener and deals a fresh
// word and impostor set. It is state-gated: calling it from the lobby is
// ErrInvalidState, not an implicit StartRound.
func (e *Engine) NextRound(ctx context.Context, code string) error {
	rm, err := e.loadRoom(ctx, code)
	if err != nil {
		return err
	}
	if !rm.HasActiveRound() {
		return fmt.Errorf("%w: no active round", ErrInvalidState)
	}
	if len(rm.Players) < rm.MinPlayersToStart() {
		return fmt.Errorf("%w: need at least %d players", ErrInvalidState, rm.MinPlayersToStart())
	}

	advanceRound(rm)

	if err := e.repo.Put(ctx, rm); err != nil {
		return err
	}
	e.logRound(rm, "round advanced")
	e.notify(ctx, rm.Code, Event{Type: EventRoundNext, RoundID: rm.CurrentRound.ID})
	return nil
}

// advanceRound is the shared next-round transition: soft-end, turn-order
// resync (existing members keep their relative order, newcomers append),
// rotation of position 0 to the end, fresh draw.
func advanceRound(rm *room.Room) {
	if rm.CurrentRound != nil {
		now := time.Now()
		rm.CurrentRound.EndedAt = &now
	}

	current := rm.PlayerIDs()
	if rm.TurnOrder == nil {
		rm.TurnOrder = current
	} else {
		seated := make(map[string]bool, len(current))
		for _, id := range current {
			seated[id] = true
		}
		var order []string
		inOrder := make(map[string]bool, len(rm.TurnOrder))
		for _, id := range rm.TurnOrder {
			if seated[id] {
				order = append(order, id)
				inOrder[id] = true
			}
		}
		for _, id := range current {
			if !inOrder[id] {
				order = append(order, id)
			}
		}
		rm.TurnOrder = order
	}

	if len(rm.TurnOrder) > 1 {
		first := rm.TurnOrder[0]
		rm.TurnOrder = append(rm.TurnOrder[1:], first)
	}
	rm.CurrentTurnIndex = 0

	installRound(rm)
}

// installRound draws the impostor set and word for a new round. The impostor
// count k is uniform on [min .. min(max, players)], clamped so the set is
// never empty; the impostors are the first k of a shuffled roster.
func installRound(rm *room.Room) {
	ids := rm.PlayerIDs()
	rand.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})

	hi := rm.ImpostorCountMax
	if hi > len(ids) {
		hi = len(ids)
	}
	if hi < 1 {
		hi = 1
	}
	lo := rm.ImpostorCountMin
	if lo > hi {
		lo = hi
	}
	if lo < 1 {
		lo = 1
	}
	k := lo + rand.Intn(hi-lo+1)

	word := rm.Words[rand.Intn(len(rm.Words))]
	rm.CurrentRound = &room.Round{
		ID:          uuid.NewString(),
		ImpostorIDs: ids[:k],
		Word:        word,
		Category:    words.CategoryOf(word),
		StartedAt:   time.Now(),
	}
}

// NextTurn advances the turn cursor circularly. Host only.
func (e *Engine) NextTurn(ctx context.Context, code, actingID string) error {
	rm, err := e.loadRoom(ctx, code)
	if err != nil {
		return err
	}
	if actingID != rm.HostID {
		return fmt.Errorf("%w: only the host may advance turns", ErrNotAuthorized)
	}
	if !rm.HasActiveRound() || len(rm.TurnOrder) == 0 {
		return fmt.Errorf("%w: no active round", ErrInvalidState)
	}

	rm.CurrentTurnIndex = (rm.CurrentTurnIndex + 1) % len(rm.TurnOrder)

	if err := e.repo.Put(ctx, rm); err != nil {
		return err
	}
	e.notify(ctx, rm.Code, Event{Type: EventNextTurn})
	return nil
}

// ReportImpostorFound bumps the round's found counter. Host only. Once every
// impostor is found the round has reached its natural end and the engine
// advances to the next one; the returned flag reports that.
func (e *Engine) ReportImpostorFound(ctx context.Context, code, actingID string) (bool, error) {
	rm, err := e.loadRoom(ctx, code)
	if err != nil {
		return false, err
	}
	if actingID != rm.HostID {
		return false, fmt.Errorf("%w: only the host may report", ErrNotAuthorized)
	}
	if !rm.HasActiveRound() {
		return false, fmt.Errorf("%w: no active round", ErrInvalidState)
	}
	rd := rm.CurrentRound
	if len(rd.ImpostorIDs) == 0 {
		return false, fmt.Errorf("%w: round has no impostors", ErrInvalidState)
	}

	if rd.FoundImpostorCount < len(rd.ImpostorIDs) {
		rd.FoundImpostorCount++
	}
	allFound := rd.FoundImpostorCount == len(rd.ImpostorIDs)
	if allFound {
		advanceRound(rm)
	}

	if err := e.repo.Put(ctx, rm); err != nil {
		return false, err
	}
	e.notify(ctx, rm.Code, Event{Type: EventImpostorFound, AllFound: &allFound})
	return allFound, nil
}

// EndRound marks the active round as ended and returns the room to its
// lobby state. The established turn order is kept for the next start.
func (e *Engine) EndRound(ctx context.Context, code string) error {
	rm, err := e.loadRoom(ctx, code)
	if err != nil {
		return err
	}
	if rm.CurrentRound == nil {
		return fmt.Errorf("%w: no active round", ErrInvalidState)
	}

	now := time.Now()
	rm.CurrentRound.EndedAt = &now
	rm.CurrentRound = nil

	if err := e.repo.Put(ctx, rm); err != nil {
		return err
	}
	e.notify(ctx, rm.Code, Event{Type: EventRoundEnd})
	return nil
}

// CloseRoom deletes the room outright, whatever its state.
func (e *Engine) CloseRoom(ctx context.Context, code string) error {
	rm, err := e.loadRoom(ctx, code)
	if err != nil {
		return err
	}
	for _, p := range rm.Players {
		if err := e.repo.UnbindPlayer(ctx, p.ID); err != nil {
			e.log.WithError(err).Warn("failed to unbind player")
		}
	}
	if err := e.repo.Delete(ctx, rm.Code); err != nil {
		return err
	}
	e.log.WithField("code", rm.Code).Info("room closed")
	e.notify(ctx, rm.Code, Event{Type: EventGameClose})
	return nil
}

// MaskedState builds the per-player projection described by PlayerState.
func (e *Engine) MaskedState(ctx context.Context, code, playerID string) (*PlayerState, error) {
	rm, err := e.loadRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	return buildPlayerState(rm, playerID), nil
}

// Status resolves whether a player id is currently seated in a live room,
// clearing stale mappings as a side effect.
func (e *Engine) Status(ctx context.Context, playerID string) (PlayerStatus, error) {
	code, err := e.repo.PlayerRoom(ctx, playerID)
	if errors.Is(err, room.ErrNotFound) {
		return PlayerStatus{}, nil
	}
	if err != nil {
		return PlayerStatus{}, err
	}

	rm, err := e.repo.Get(ctx, code)
	if errors.Is(err, room.ErrNotFound) || (err == nil && rm.Player(playerID) == nil) {
		if uerr := e.repo.UnbindPlayer(ctx, playerID); uerr != nil {
			e.log.WithError(uerr).Warn("failed to clear stale player mapping")
		}
		return PlayerStatus{}, nil
	}
	if err != nil {
		return PlayerStatus{}, err
	}
	return PlayerStatus{InRoom: true, Code: rm.Code}, nil
}

// ListPublicRooms returns up to five public rooms still in their lobby,
// dropping index entries whose room has expired.
func (e *Engine) ListPublicRooms(ctx context.Context) ([]PublicRoom, error) {
	codes, err := e.repo.ListPublicCodes(ctx)
	if err != nil {
		return nil, err
	}

	var listing []PublicRoom
	for _, code := range codes {
		rm, err := e.repo.Get(ctx, code)
		if errors.Is(err, room.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if rm.CurrentRound != nil {
			continue
		}
		hostName := "Host"
		if host := rm.HostPlayer(); host != nil {
			hostName = host.Name
		}
		listing = append(listing, PublicRoom{Code: rm.Code, HostName: hostName})
		if len(listing) >= publicListLimit {
			break
		}
	}
	return listing, nil
}

func (e *Engine) loadRoom(ctx context.Context, code string) (*room.Room, error) {
	rm, err := e.repo.Get(ctx, code)
	if errors.Is(err, room.ErrNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return rm, nil
}

func (e *Engine) logRound(rm *room.Room, msg string) {
	e.log.WithFields(logrus.Fields{
		"code":      rm.Code,
		"round":     rm.CurrentRound.ID,
		"category":  rm.CurrentRound.Category,
		"impostors": len(rm.CurrentRound.ImpostorIDs),
	}).Info(msg)
}

// buildWordPool resolves the room's word list: custom words win, then
// selected categories, then the default pool. The result is never empty and
// is scrambled so word order carries no information.
func buildWordPool(custom, categories []string) []string {
	var pool []string
	for _, w := range custom {
		if w = strings.TrimSpace(w); w != "" {
			pool = append(pool, w)
		}
	}
	if len(pool) == 0 && len(categories) > 0 {
		pool = words.FromCategories(categories...)
	}
	if len(pool) == 0 {
		pool = words.DefaultPool()
	}
	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	return pool
}

func randomCode() string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(b)
}
