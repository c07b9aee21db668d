package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/sweeper/internal/mines"
)

func dial(t *testing.T, s *testServer, id string) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(s.mux)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/v1/game/" + id + "/connect"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func exchange(t *testing.T, conn *websocket.Conn, batch string) gameReply {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(batch)))
	return receive(t, conn)
}

func receive(t *testing.T, conn *websocket.Conn) gameReply {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var reply gameReply
	require.NoError(t, conn.ReadJSON(&reply))
	return reply
}

func TestConnectCommands(t *testing.T) {
	s := newTestServer(t, 0)
	id := s.newGame(chordLayout)
	conn := dial(t, s, id)

	reply := exchange(t, conn, "g")
	assert.Equal(t, id, reply.ID)
	assert.Equal(t, "--:--", reply.Clock)

	reply = exchange(t, conn, "o 4 4\nf 3 3\nf 4 3\n")
	assert.Empty(t, reply.Error)
	assert.Equal(t, 2, reply.Grid[4][4])
	assert.Equal(t, 2, reply.Flags)

	reply = exchange(t, conn, "c 4 4")
	assert.GreaterOrEqual(t, reply.Grid[5][5], 0)

	reply = exchange(t, conn, "p 0 0 1")
	assert.Equal(t, "shocked", reply.Face)
	reply = exchange(t, conn, "u")
	assert.Equal(t, "happy", reply.Face)
}

func TestConnectReportsFailedLine(t *testing.T) {
	s := newTestServer(t, 0)
	id := s.newGame(chordLayout)
	conn := dial(t, s, id)

	reply := exchange(t, conn, "f 0 0\nzap\nf 1 0")
	assert.Contains(t, reply.Error, "unknown command")
	require.NotNil(t, reply.Line)
	assert.Equal(t, 1, *reply.Line)

	reply = exchange(t, conn, "g")
	assert.Equal(t, 1, reply.Flags, "commands before the failure stay applied")

	reply = exchange(t, conn, "o 9 9")
	assert.Contains(t, reply.Error, "out of bounds")
	assert.Equal(t, 0, *reply.Line)
}

func TestConnectStopsAtGameOver(t *testing.T) {
	s := newTestServer(t, 0)
	id := s.newGame(chordLayout)
	conn := dial(t, s, id)

	reply := exchange(t, conn, "o 3 3\no 0 0")
	assert.Empty(t, reply.Error, "moves after the end are skipped")
	assert.Equal(t, "lost", reply.Status)

	reply = exchange(t, conn, "r\ng")
	assert.Equal(t, "in_progress", reply.Status)


	conn = dial(t, s, s.newGame(chordLayout))
	reply = exchange(t, conn, "o 3 3\no 0 0\nr")
	assert.Empty(t, reply.Error)
	assert.Equal(t, "in_progress", reply.Status, "restart in the same batch as the loss")
	assert.Equal(t, int(mines.Hidden), reply.Grid[3][3])
}

func TestConnectPushesRunningGame(t *testing.T) {
	s := newTestServer(t, 10*time.Millisecond)
	id := s.newGame(chordLayout)
	conn := dial(t, s, id)

	reply := exchange(t, conn, "o 4 4")
	assert.Equal(t, "in_progress", reply.Status)

	pushed := receive(t, conn)
	assert.Equal(t, id, pushed.ID)
	assert.Empty(t, pushed.Error)
	assert.Equal(t, 2, pushed.Grid[4][4])
}

func TestConnectUnknownRoom(t *testing.T) {
	s := newTestServer(t, 0)
	server := httptest.NewServer(s.mux)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/v1/game/" +
		"3f1b6a2e-8f0c-4a3e-9d57-1c2b3a4d5e6f/connect"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 404, resp.StatusCode)
}
