package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"mateswap/internal/domain/entity"
	apperrors "mateswap/pkg/errors"
)

type fakeChats struct {
	mu       sync.Mutex
	messages map[string][]*entity.Message
}

func (f *fakeChats) add(chatID string, m *entity.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages[chatID] = append(f.messages[chatID], m)
}

func (f *fakeChats) snapshot(_ context.Context, chatID string) ([]*entity.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.Message, len(f.messages[chatID]))
	copy(out, f.messages[chatID])
	return out, nil
}

func authorizeParticipants(_ context.Context, identity *entity.Identity, chatID string) error {
	if identity.UID == "stranger" {
		return apperrors.Forbidden("You are not a participant of this chat", nil)
	}
	return nil
}

var upgrader = websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

func startServer(t *testing.T, m *Manager) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		m.Serve(&entity.Identity{UID: r.URL.Query().Get("uid")}, conn)
	}))
}

func dial(t *testing.T, srv *httptest.Server, uid string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?uid=" + uid
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func readOutbound(t *testing.T, conn *websocket.Conn) OutboundMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg OutboundMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func messageIDs(t *testing.T, msg OutboundMessage) []string {
	t.Helper()
	raw, err := json.Marshal(msg.Data)
	require.NoError(t, err)
	var messages []entity.Message
	require.NoError(t, json.Unmarshal(raw, &messages))
	ids := make([]string, 0, len(messages))
	for _, m := range messages {
		ids = append(ids, m.ID)
	}
	return ids
}

func TestManagerPushesSortedSnapshots(t *testing.T) {
	defer goleak.VerifyNone(t)

	chats := &fakeChats{messages: map[string][]*entity.Message{
		"chat-1": {
			{ID: "m2", Timestamp: 200, Text: "second"},
			{ID: "m1", Timestamp: 100, Text: "first"},
		},
	}}
	m := NewManager(chats.snapshot, authorizeParticipants)
	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)

	srv := startServer(t, m)
	defer srv.Close()

	conn := dial(t, srv, "buyer")
	require.NoError(t, conn.WriteJSON(InboundMessage{Type: MessageTypeJoinChatRoom, ChatID: "chat-1"}))

	first := readOutbound(t, conn)
	assert.Equal(t, MessageTypeMessages, first.Type)
	assert.Equal(t, "chat-1", first.ChatID)
	assert.Equal(t, []string{"m1", "m2"}, messageIDs(t, first))

	chats.add("chat-1", &entity.Message{ID: "m0", Timestamp: 50, Text: "late arrival"})
	m.NotifyChatUpdated("chat-1")

	second := readOutbound(t, conn)
	assert.Equal(t, []string{"m0", "m1", "m2"}, messageIDs(t, second))

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return m.RoomSize("chat-1") == 0 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-m.Done()
}

func TestManagerRejectsNonParticipants(t *testing.T) {
	defer goleak.VerifyNone(t)

	chats := &fakeChats{messages: map[string][]*entity.Message{}}
	m := NewManager(chats.snapshot, authorizeParticipants)
	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)

	srv := startServer(t, m)
	defer srv.Close()

	conn := dial(t, srv, "stranger")
	defer conn.Close()
	require.NoError(t, conn.WriteJSON(InboundMessage{Type: MessageTypeJoinRoom, ChatID: "chat-1"}))

	msg := readOutbound(t, conn)
	assert.Equal(t, MessageTypeError, msg.Type)
	assert.Equal(t, "chat-1", msg.ChatID)
	assert.Equal(t, 0, m.RoomSize("chat-1"))

	cancel()
	<-m.Done()
}

func TestManagerLeaveAndPing(t *testing.T) {
	defer goleak.VerifyNone(t)

	chats := &fakeChats{messages: map[string][]*entity.Message{"chat-1": {}}}
	m := NewManager(chats.snapshot, authorizeParticipants)
	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)

	srv := startServer(t, m)
	defer srv.Close()

	conn := dial(t, srv, "seller")
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(InboundMessage{Type: MessageTypeJoinRoom, ChatID: "chat-1"}))
	assert.Equal(t, MessageTypeMessages, readOutbound(t, conn).Type)
	assert.Equal(t, 1, m.RoomSize("chat-1"))

	require.NoError(t, conn.WriteJSON(InboundMessage{Type: MessageTypeLeaveRoom, ChatID: "chat-1"}))
	require.NoError(t, conn.WriteJSON(InboundMessage{Type: MessageTypePing}))
	assert.Equal(t, MessageTypePong, readOutbound(t, conn).Type)
	assert.Equal(t, 0, m.RoomSize("chat-1"))

	cancel()
	<-m.Done()

	// the manager closes the connection on shutdown
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

// gatedChats holds the first snapshot read after arm() until release().
type gatedChats struct {
	*fakeChats
	mu      sync.Mutex
	armed   bool
	entered chan struct{}
	gate    chan struct{}
}

func (g *gatedChats) arm() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.armed = true
}

func (g *gatedChats) snapshot(ctx context.Context, chatID string) ([]*entity.Message, error) {
	out, err := g.fakeChats.snapshot(ctx, chatID)

	g.mu.Lock()
	hold := g.armed
	g.armed = false
	g.mu.Unlock()

	if hold {
		close(g.entered)
		<-g.gate
	}
	return out, err
}

func (m *Manager) isDirty(chatID string) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.dirty[chatID]
}

func TestManagerDeliversNewestSnapshotLast(t *testing.T) {
	defer goleak.VerifyNone(t)

	chats := &gatedChats{
		fakeChats: &fakeChats{messages: map[string][]*entity.Message{
			"chat-1": {{ID: "m1", Timestamp: 100}},
		}},
		entered: make(chan struct{}),
		gate:    make(chan struct{}),
	}
	m := NewManager(chats.snapshot, authorizeParticipants)
	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)

	srv := startServer(t, m)
	defer srv.Close()

	conn := dial(t, srv, "buyer")
	defer conn.Close()
	require.NoError(t, conn.WriteJSON(InboundMessage{Type: MessageTypeJoinChatRoom, ChatID: "chat-1"}))
	assert.Equal(t, []string{"m1"}, messageIDs(t, readOutbound(t, conn)))

	chats.arm()
	chats.add("chat-1", &entity.Message{ID: "m2", Timestamp: 200})
	m.NotifyChatUpdated("chat-1")
	<-chats.entered

	chats.add("chat-1", &entity.Message{ID: "m3", Timestamp: 300})
	m.NotifyChatUpdated("chat-1")
	require.Eventually(t, func() bool { return m.isDirty("chat-1") }, 2*time.Second, 5*time.Millisecond)
	close(chats.gate)

	assert.Equal(t, []string{"m1", "m2"}, messageIDs(t, readOutbound(t, conn)))
	assert.Equal(t, []string{"m1", "m2", "m3"}, messageIDs(t, readOutbound(t, conn)))

	cancel()
	<-m.Done()
}

func TestManagerJoinRightAfterConnect(t *testing.T) {
	defer goleak.VerifyNone(t)

	chats := &fakeChats{messages: map[string][]*entity.Message{
		"chat-1": {{ID: "m1", Timestamp: 100}},
	}}
	m := NewManager(chats.snapshot, authorizeParticipants)
	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)

	srv := startServer(t, m)
	defer srv.Close()

	for i := 0; i < 20; i++ {
		conn := dial(t, srv, "buyer")
		require.NoError(t, conn.WriteJSON(InboundMessage{Type: MessageTypeJoinChatRoom, ChatID: "chat-1"}))
		msg := readOutbound(t, conn)
		assert.Equal(t, MessageTypeMessages, msg.Type)
		assert.Equal(t, []string{"m1"}, messageIDs(t, msg))
		require.NoError(t, conn.Close())
	}

	cancel()
	<-m.Done()
}

func TestManagerJoinUnknownClient(t *testing.T) {
	chats := &fakeChats{messages: map[string][]*entity.Message{}}
	m := NewManager(chats.snapshot, authorizeParticipants)
	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)

	client := NewClient(&entity.Identity{UID: "buyer"}, nil)
	err := m.Join(ctx, client, "chat-1")
	assert.ErrorIs(t, err, ErrConnectionClosed)
	assert.Equal(t, 0, m.RoomSize("chat-1"))

	cancel()
	<-m.Done()
	assert.False(t, m.register(NewClient(&entity.Identity{UID: "late"}, nil)))
}
