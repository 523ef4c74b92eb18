package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"mateswap/internal/domain/entity"
	"mateswap/internal/infrastructure/metrics"
	apperrors "mateswap/pkg/errors"
	"mateswap/pkg/logger"
)

// ErrConnectionClosed is returned by Join for a client that is no longer
// registered.
var ErrConnectionClosed = apperrors.New("CONNECTION_CLOSED", "Connection is closed", http.StatusGone, nil)

// SnapshotFunc loads the full, sorted message list of a chat.
type SnapshotFunc func(ctx context.Context, chatID string) ([]*entity.Message, error)

// AuthorizeFunc decides whether identity may watch chatID.
type AuthorizeFunc func(ctx context.Context, identity *entity.Identity, chatID string) error

// Client represents a WebSocket connection client
type Client struct {
	Identity *entity.Identity
	Conn     *websocket.Conn
	Send     chan []byte

	rooms map[string]bool
}

func NewClient(identity *entity.Identity, conn *websocket.Conn) *Client {
	return &Client{
		Identity: identity,
		Conn:     conn,
		Send:     make(chan []byte, 64),
		rooms:    make(map[string]bool),
	}
}

// Manager keeps clients grouped by the chat rooms they watch and pushes the
// whole message list of a chat to its room whenever the chat changes.
// Pushes for one chat run one at a time; updates arriving mid-push mark the
// chat dirty and trigger one more read, so the last snapshot sent is never
// older than the last update.
type Manager struct {
	Unregister chan *Client
	updates    chan string

	clients map[*Client]bool
	rooms   map[string]map[*Client]bool
	closed  bool
	mutex   sync.RWMutex

	pushing map[string]bool
	dirty   map[string]bool

	snapshot  SnapshotFunc
	authorize AuthorizeFunc

	ctx  context.Context
	done chan struct{}
	wg   sync.WaitGroup
}

func NewManager(snapshot SnapshotFunc, authorize AuthorizeFunc) *Manager {
	return &Manager{
		Unregister: make(chan *Client),
		updates:    make(chan string, 256),
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		pushing:    make(map[string]bool),
		dirty:      make(map[string]bool),
		snapshot:   snapshot,
		authorize:  authorize,
		ctx:        context.Background(),
		done:       make(chan struct{}),
	}
}

// Start runs the manager's main loop in a goroutine. Cancelling ctx closes
// every client.
func (m *Manager) Start(ctx context.Context) {
	m.ctx = ctx
	go func() {
		defer close(m.done)
		for {
			select {
			case client := <-m.Unregister:
				m.remove(client)
				logger.Debug("Client unregistered: %s", client.Identity.UID)

			case chatID := <-m.updates:
				m.schedulePush(ctx, chatID)

			case <-ctx.Done():
				m.wg.Wait()
				m.mutex.Lock()
				m.closed = true
				for client := range m.clients {
					m.removeLocked(client)
				}
				m.mutex.Unlock()
				return
			}
		}
	}()
}

// Done is closed once the main loop has stopped.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// register adds the client before its pumps start, so a join sent right
// after the upgrade always finds it.
func (m *Manager) register(client *Client) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.closed {
		return false
	}
	m.clients[client] = true
	metrics.WebSocketConnections.Inc()
	logger.Debug("Client registered: %s", client.Identity.UID)
	return true
}

func (m *Manager) remove(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.removeLocked(client)
}

func (m *Manager) removeLocked(client *Client) {
	if _, ok := m.clients[client]; !ok {
		return
	}
	for chatID := range client.rooms {
		delete(m.rooms[chatID], client)
		if len(m.rooms[chatID]) == 0 {
			delete(m.rooms, chatID)
		}
	}
	delete(m.clients, client)
	close(client.Send)
	metrics.WebSocketConnections.Dec()
}

// Join subscribes the client to a chat room and sends it the current snapshot.
func (m *Manager) Join(ctx context.Context, client *Client, chatID string) error {
	if err := m.authorize(ctx, client.Identity, chatID); err != nil {
		return err
	}

	m.mutex.Lock()
	if _, ok := m.clients[client]; !ok {
		m.mutex.Unlock()
		return ErrConnectionClosed
	}
	if m.rooms[chatID] == nil {
		m.rooms[chatID] = make(map[*Client]bool)
	}
	m.rooms[chatID][client] = true
	client.rooms[chatID] = true
	m.mutex.Unlock()

	payload, err := m.snapshotPayload(ctx, chatID)
	if err != nil {
		return err
	}
	m.mutex.RLock()
	m.trySend(client, payload)
	m.mutex.RUnlock()
	return nil
}

func (m *Manager) Leave(client *Client, chatID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	delete(client.rooms, chatID)
	if room, ok := m.rooms[chatID]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(m.rooms, chatID)
		}
	}
}

// NotifyChatUpdated schedules a snapshot push for chatID. It never blocks;
// when the queue is full the update is dropped, the next one carries the
// same full list anyway.
func (m *Manager) NotifyChatUpdated(chatID string) {
	select {
	case m.updates <- chatID:
	default:
		logger.Warn("websocket: update queue full, dropping update for chat %s", chatID)
	}
}

func (m *Manager) RoomSize(chatID string) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.rooms[chatID])
}

// schedulePush starts a push worker for chatID, or marks the chat dirty
// when one is already running.
func (m *Manager) schedulePush(ctx context.Context, chatID string) {
	m.mutex.Lock()
	if m.pushing[chatID] {
		m.dirty[chatID] = true
		m.mutex.Unlock()
		return
	}
	m.pushing[chatID] = true
	m.mutex.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.pushLoop(ctx, chatID)
	}()
}

func (m *Manager) pushLoop(ctx context.Context, chatID string) {
	for {
		m.broadcastSnapshot(ctx, chatID)

		m.mutex.Lock()
		if m.dirty[chatID] && ctx.Err() == nil {
			delete(m.dirty, chatID)
			m.mutex.Unlock()
			continue
		}
		delete(m.dirty, chatID)
		delete(m.pushing, chatID)
		m.mutex.Unlock()
		return
	}
}

func (m *Manager) broadcastSnapshot(ctx context.Context, chatID string) {
	if m.RoomSize(chatID) == 0 {
		return
	}

	payload, err := m.snapshotPayload(ctx, chatID)
	if err != nil {
		logger.Warn("websocket: snapshot for chat %s failed: %v", chatID, err)
		payload = encode(OutboundMessage{Type: MessageTypeError, ChatID: chatID, Data: map[string]string{"message": "Failed to load messages"}})
	}

	m.mutex.RLock()
	defer m.mutex.RUnlock()
	for client := range m.rooms[chatID] {
		m.trySend(client, payload)
	}
}

func (m *Manager) snapshotPayload(ctx context.Context, chatID string) ([]byte, error) {
	messages, err := m.snapshot(ctx, chatID)
	if err != nil {
		return nil, err
	}
	entity.SortMessages(messages)
	return encode(OutboundMessage{Type: MessageTypeMessages, ChatID: chatID, Data: messages}), nil
}

// trySend must be called with the mutex held so Send cannot be closed underneath.
func (m *Manager) trySend(client *Client, payload []byte) {
	if _, ok := m.clients[client]; !ok {
		return
	}
	select {
	case client.Send <- payload:
	default:
		logger.Warn("websocket: send buffer full for %s, dropping snapshot", client.Identity.UID)
	}
}

func (m *Manager) unregister(client *Client) {
	select {
	case m.Unregister <- client:
	case <-m.done:
	}
}

func encode(msg OutboundMessage) []byte {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("websocket: encode %s: %v", msg.Type, err)
		return nil
	}
	return data
}
