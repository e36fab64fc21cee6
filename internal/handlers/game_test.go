// internal/handlers/game_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"impostor/internal/game"
	"impostor/internal/notify"
	"impostor/internal/room"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	repo := room.NewMemoryRepository(time.Hour, logger)
	t.Cleanup(repo.Close)
	hub := notify.NewHub(logger)
	return NewServer(game.New(repo, hub, logger), hub, logger)
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	s.Routes().ServeHTTP(w, req)
	return w
}

func createGame(t *testing.T, s *Server, body string) createGameResponse {
	t.Helper()
	w := doJSON(t, s, "POST", "/api/game", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp createGameResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Code)
	require.NotEmpty(t, resp.PlayerID)
	return resp
}

func joinGame(t *testing.T, s *Server, code, name string) string {
	t.Helper()
	w := doJSON(t, s, "POST", "/api/game/"+code+"/join", `{"name":"`+name+`"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp["playerId"]
}

func TestCreateGameEndpoint(t *testing.T) {
	s := newTestServer(t)
	resp := createGame(t, s, `{"hostName":"Ana","isPublic":true}`)
	assert.Len(t, resp.Code, 5)
}

func TestCreateGameRejectsBlankHost(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s, "POST", "/api/game", `{"hostName":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateGameRejectsMalformedBody(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s, "POST", "/api/game", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestJoinUnknownRoom(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s, "POST", "/api/game/ZZZZZ/join", `{"name":"Beto"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStateEndpointMasksPerPlayer(t *testing.T) {
	s := newTestServer(t)
	g := createGame(t, s, `{"hostName":"Ana"}`)
	beto := joinGame(t, s, g.Code, "Beto")
	caro := joinGame(t, s, g.Code, "Caro")

	w := doJSON(t, s, "POST", "/api/game/"+g.Code+"/start-round", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	nulls, words := 0, 0
	for _, id := range []string{g.PlayerID, beto, caro} {
		w := doJSON(t, s, "GET", "/api/game/"+g.Code+"/state?playerId="+id, "")
		require.Equal(t, http.StatusOK, w.Code)

		var payload map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
		raw, present := payload["wordForPlayer"]
		require.True(t, present, "active round: word slot always on the wire")
		if string(raw) == "null" {
			nulls++
		} else {
			words++
		}
		assert.NotContains(t, w.Body.String(), `"impostorIds"`)
	}
	assert.Equal(t, 1, nulls)
	assert.Equal(t, 2, words)

	// Spectator request: no word slot at all.
	w = doJSON(t, s, "GET", "/api/game/"+g.Code+"/state?playerId=ghost", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "wordForPlayer")
}

func TestStartRoundGatingStatus(t *testing.T) {
	s := newTestServer(t)
	g := createGame(t, s, `{"hostName":"Ana"}`)
	joinGame(t, s, g.Code, "Beto")

	w := doJSON(t, s, "POST", "/api/game/"+g.Code+"/start-round", "")
	assert.Equal(t, http.StatusBadRequest, w.Code, "below the player threshold")
}

func TestKickStatusMapping(t *testing.T) {
	s := newTestServer(t)
	g := createGame(t, s, `{"hostName":"Ana"}`)
	beto := joinGame(t, s, g.Code, "Beto")
	caro := joinGame(t, s, g.Code, "Caro")

	// Non-host actor.
	w := doJSON(t, s, "POST", "/api/game/"+g.Code+"/kick",
		`{"playerId":"`+beto+`","targetPlayerId":"`+caro+`"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Unknown target.
	w = doJSON(t, s, "POST", "/api/game/"+g.Code+"/kick",
		`{"playerId":"`+g.PlayerID+`","targetPlayerId":"ghost"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Self kick.
	w = doJSON(t, s, "POST", "/api/game/"+g.Code+"/kick",
		`{"playerId":"`+g.PlayerID+`","targetPlayerId":"`+g.PlayerID+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Host kicks a member.
	w = doJSON(t, s, "POST", "/api/game/"+g.Code+"/kick",
		`{"playerId":"`+g.PlayerID+`","targetPlayerId":"`+caro+`"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNextTurnForbiddenForNonHost(t *testing.T) {
	s := newTestServer(t)
	g := createGame(t, s, `{"hostName":"Ana"}`)
	beto := joinGame(t, s, g.Code, "Beto")
	joinGame(t, s, g.Code, "Caro")
	w := doJSON(t, s, "POST", "/api/game/"+g.Code+"/start-round", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s, "POST", "/api/game/"+g.Code+"/next-turn", `{"playerId":"`+beto+`"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, s, "POST", "/api/game/"+g.Code+"/next-turn", `{"playerId":"`+g.PlayerID+`"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestImpostorFoundEndpoint(t *testing.T) {
	s := newTestServer(t)
	g := createGame(t, s, `{"hostName":"Ana"}`)
	joinGame(t, s, g.Code, "Beto")
	joinGame(t, s, g.Code, "Caro")
	w := doJSON(t, s, "POST", "/api/game/"+g.Code+"/start-round", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s, "POST", "/api/game/"+g.Code+"/impostor-found", `{"playerId":"`+g.PlayerID+`"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]bool
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp["allImpostorsFound"], "single impostor found on first report")
}

func TestCloseAndStatusLifecycle(t *testing.T) {
	s := newTestServer(t)
	g := createGame(t, s, `{"hostName":"Ana"}`)

	w := doJSON(t, s, "GET", "/api/player/"+g.PlayerID+"/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	var st game.PlayerStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.True(t, st.InRoom)
	assert.Equal(t, g.Code, st.Code)

	w = doJSON(t, s, "POST", "/api/game/"+g.Code+"/close", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s, "GET", "/api/player/"+g.PlayerID+"/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.False(t, st.InRoom)

	w = doJSON(t, s, "POST", "/api/game/"+g.Code+"/close", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListPublicEndpoint(t *testing.T) {
	s := newTestServer(t)
	createGame(t, s, `{"hostName":"Ana"}`)
	g := createGame(t, s, `{"hostName":"Beto","isPublic":true}`)

	w := doJSON(t, s, "GET", "/api/game/public", "")
	require.Equal(t, http.StatusOK, w.Code)
	var listing []game.PublicRoom
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	require.Len(t, listing, 1)
	assert.Equal(t, g.Code, listing[0].Code)
	assert.Equal(t, "Beto", listing[0].HostName)
}

func TestQREndpoint(t *testing.T) {
	s := newTestServer(t)
	g := createGame(t, s, `{"hostName":"Ana"}`)

	w := doJSON(t, s, "GET", "/api/game/"+g.Code+"/qr", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.Bytes())

	w = doJSON(t, s, "GET", "/api/game/ZZZZZ/qr", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
