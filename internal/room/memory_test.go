// internal/room/memory_test.go
package room

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *MemoryRepository {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	s := NewMemoryRepository(time.Hour, logger)
	t.Cleanup(s.Close)
	return s
}

func testRoom(code string) *Room {
	return &Room{
		Code:             code,
		HostID:           "host-1",
		Players:          []*Player{{ID: "host-1", Name: "Ana"}},
		Words:            []string{"pizza", "taco"},
		ImpostorCountMin: 1,
		ImpostorCountMax: 1,
		AllowAllKick:     true,
	}
}

func TestCreateAndGetCaseInsensitive(t *testing.T) {
	s := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, testRoom("AB2CD")))

	got, err := s.Get(ctx, "ab2cd")
	require.NoError(t, err)
	assert.Equal(t, "AB2CD", got.Code)
	assert.Equal(t, "Ana", got.Players[0].Name)
}

func TestCreateDuplicateCode(t *testing.T) {
	s := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, testRoom("AB2CD")))
	err := s.Create(ctx, testRoom("ab2cd"))
	assert.ErrorIs(t, err, ErrDuplicateCode)
}

func TestGetMissing(t *testing.T) {
	s := newTestRepo(t)
	_, err := s.Get(context.Background(), "ZZZZZ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetReturnsCopy(t *testing.T) {
	s := newTestRepo(t)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, testRoom("AB2CD")))

	a, err := s.Get(ctx, "AB2CD")
	require.NoError(t, err)
	a.Players[0].Name = "mutated"
	a.Words[0] = "mutated"

	b, err := s.Get(ctx, "AB2CD")
	require.NoError(t, err)
	assert.Equal(t, "Ana", b.Players[0].Name)
	assert.Equal(t, "pizza", b.Words[0])
}

func TestPutBumpsVersion(t *testing.T) {
	s := newTestRepo(t)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, testRoom("AB2CD")))

	rm, err := s.Get(ctx, "AB2CD")
	require.NoError(t, err)
	require.EqualValues(t, 1, rm.Version)

	rm.Players = append(rm.Players, &Player{ID: "p2", Name: "Beto"})
	require.NoError(t, s.Put(ctx, rm))
	assert.EqualValues(t, 2, rm.Version)

	got, err := s.Get(ctx, "AB2CD")
	require.NoError(t, err)
	assert.Len(t, got.Players, 2)
	assert.EqualValues(t, 2, got.Version)
}

func TestPutStaleVersionConflicts(t *testing.T) {
	s := newTestRepo(t)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, testRoom("AB2CD")))

	a, err := s.Get(ctx, "AB2CD")
	require.NoError(t, err)
	b, err := s.Get(ctx, "AB2CD")
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, a))
	assert.ErrorIs(t, s.Put(ctx, b), ErrConflict)
}

func TestPutMissingRoom(t *testing.T) {
	s := newTestRepo(t)
	err := s.Put(context.Background(), testRoom("GONE2"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteIdempotent(t *testing.T) {
	s := newTestRepo(t)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, testRoom("AB2CD")))

	require.NoError(t, s.Delete(ctx, "ab2cd"))
	require.NoError(t, s.Delete(ctx, "AB2CD"))

	_, err := s.Get(ctx, "AB2CD")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPublicCodes(t *testing.T) {
	s := newTestRepo(t)
	ctx := context.Background()

	private := testRoom("PRIV2")
	public := testRoom("PUB22")
	public.IsPublic = true
	playing := testRoom("PLAY2")
	playing.IsPublic = true
	playing.CurrentRound = &Round{ID: "r1", ImpostorIDs: []string{"host-1"}, Word: "pizza", StartedAt: time.Now()}

	require.NoError(t, s.Create(ctx, private))
	require.NoError(t, s.Create(ctx, public))
	require.NoError(t, s.Create(ctx, playing))

	codes, err := s.ListPublicCodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"PUB22"}, codes)
}

func TestPlayerBinding(t *testing.T) {
	s := newTestRepo(t)
	ctx := context.Background()

	_, err := s.PlayerRoom(ctx, "p1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.BindPlayer(ctx, "p1", "ab2cd"))
	code, err := s.PlayerRoom(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "AB2CD", code)

	require.NoError(t, s.UnbindPlayer(ctx, "p1"))
	_, err = s.PlayerRoom(ctx, "p1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEvictIdle(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	s := NewMemoryRepository(50*time.Millisecond, logger)
	t.Cleanup(s.Close)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, testRoom("OLD22")))

	time.Sleep(80 * time.Millisecond)
	require.NoError(t, s.Create(ctx, testRoom("NEW22")))
	s.evictIdle()

	_, err := s.Get(ctx, "OLD22")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(ctx, "NEW22")
	assert.NoError(t, err)
}

func TestAccessRefreshesIdleWindow(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	s := NewMemoryRepository(100*time.Millisecond, logger)
	t.Cleanup(s.Close)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, testRoom("KEEP2")))
	time.Sleep(70 * time.Millisecond)
	_, err := s.Get(ctx, "KEEP2") // touch
	require.NoError(t, err)
	time.Sleep(70 * time.Millisecond)
	s.evictIdle()

	_, err = s.Get(ctx, "KEEP2")
	assert.NoError(t, err, "accessed room inside the window must survive")
}
