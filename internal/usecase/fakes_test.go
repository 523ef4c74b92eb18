package usecase

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"mateswap/internal/domain/entity"
	"mateswap/pkg/errors"
)

// In-memory doubles for the repository interfaces. They are safe for
// concurrent use; EnsureConversation is atomic under the mutex like the
// Firestore transaction it stands in for.

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]*entity.Product
	views    map[string]int
	patches  []string
	patchErr error
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: map[string]*entity.Product{}, views: map[string]int{}}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, errors.NotFound("Product", nil)
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) List(_ context.Context, filter entity.ProductFilter, limit, offset int) ([]*entity.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.UserID != "" && p.UserID != filter.UserID {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := int64(len(out))
	if offset > len(out) {
		offset = len(out)
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) PatchChannelLogo(_ context.Context, id, channelID, logoURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.patchErr != nil {
		return r.patchErr
	}
	r.patches = append(r.patches, id)
	if p, ok := r.products[id]; ok {
		p.ChannelLogo = logoURL
		if channelID != "" {
			p.ChannelID = channelID
		}
	}
	return nil
}

func (r *fakeProductRepo) IncrementViews(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views[id]++
	return nil
}

func (r *fakeProductRepo) patchCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.patches)
}

func (r *fakeProductRepo) viewCount(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.views[id]
}

type fakeLogoRepo struct {
	logos map[string]string
	err   error
}

func (r *fakeLogoRepo) Get(_ context.Context, channelID string) (*entity.ChannelLogo, error) {
	if r.err != nil {
		return nil, r.err
	}
	url, ok := r.logos[channelID]
	if !ok {
		return nil, errors.NotFound("Channel logo", nil)
	}
	return &entity.ChannelLogo{ChannelID: channelID, LogoURL: url}, nil
}

type fakeFavoriteRepo struct {
	mu   sync.Mutex
	favs map[string]*entity.Favorite
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{favs: map[string]*entity.Favorite{}}
}

func favKey(userID, productID string) string { return userID + "/" + productID }

func (r *fakeFavoriteRepo) Exists(_ context.Context, userID, productID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.favs[favKey(userID, productID)]
	return ok, nil
}

func (r *fakeFavoriteRepo) Add(_ context.Context, f *entity.Favorite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.favs[favKey(f.UserID, f.ProductID)] = f
	return nil
}

func (r *fakeFavoriteRepo) Remove(_ context.Context, userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.favs, favKey(userID, productID))
	return nil
}

func (r *fakeFavoriteRepo) ListByUser(_ context.Context, userID string) ([]*entity.Favorite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Favorite
	for _, f := range r.favs {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

type fakeChatRepo struct {
	mu            sync.Mutex
	chats         map[string]*entity.Chat
	entries       map[string]map[string]*entity.ChatListEntry
	mirrors       map[string][]*entity.Message
	lastMsgErr    error
	touchErr      error
	ensureCalls   int
	lastMsgWrites int
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		chats:   map[string]*entity.Chat{},
		entries: map[string]map[string]*entity.ChatListEntry{},
		mirrors: map[string][]*entity.Message{},
	}
}

func (r *fakeChatRepo) GetByID(_ context.Context, id string) (*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.chats[id]
	if !ok {
		return nil, errors.NotFound("Chat", nil)
	}
	cp := *c
	return &cp, nil
}

func (r *fakeChatRepo) FindLegacyByProductAndParticipant(_ context.Context, productID, userID string) (*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.chats {
		if c.ProductID == productID && c.HasParticipant(userID) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, errors.NotFound("Chat", nil)
}

func (r *fakeChatRepo) EnsureConversation(_ context.Context, conv *entity.Conversation) (*entity.EnsureResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureCalls++

	result := &entity.EnsureResult{}
	stored, exists := r.chats[conv.Chat.ID]
	if !exists {
		cp := *conv.Chat
		stored = &cp
		r.chats[cp.ID] = stored
		if conv.InitialMessage != nil {
			msg := *conv.InitialMessage
			r.mirrors[cp.ID] = append(r.mirrors[cp.ID], &msg)
		}
		result.Created = true
	}

	for uid, entry := range conv.Entries {
		if _, ok := r.entries[uid][conv.Chat.ID]; ok {
			continue
		}
		if r.entries[uid] == nil {
			r.entries[uid] = map[string]*entity.ChatListEntry{}
		}
		cp := *entry
		if exists {
			if stored.LastMessage != nil {
				cp.LastMessage = stored.LastMessage.Text
				cp.LastMessageTimestamp = stored.LastMessage.Timestamp
			}
			cp.UnreadCount = stored.UnreadCount[uid]
			result.RepairedEntries = append(result.RepairedEntries, uid)
		}
		r.entries[uid][conv.Chat.ID] = &cp
	}

	chat := *stored
	result.Chat = &chat
	return result, nil
}

func (r *fakeChatRepo) GetStoredMessage(_ context.Context, chatID, messageID string) (*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.mirrors[chatID] {
		if m.ID == messageID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, errors.NotFound("Message", nil)
}

func (r *fakeChatRepo) UpdateLastMessage(_ context.Context, chatID string, last *entity.LastMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastMsgErr != nil {
		return r.lastMsgErr
	}
	c, ok := r.chats[chatID]
	if !ok {
		return errors.NotFound("Chat", nil)
	}
	cp := *last
	c.LastMessage = &cp
	r.lastMsgWrites++
	return nil
}

func (r *fakeChatRepo) SetAdminJoined(_ context.Context, chatID string, joined bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.chats[chatID]; ok {
		c.AdminJoined = joined
	}
	return nil
}

func (r *fakeChatRepo) IncrementUnread(_ context.Context, chatID string, userIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.chats[chatID]
	if !ok {
		return errors.NotFound("Chat", nil)
	}
	if c.UnreadCount == nil {
		c.UnreadCount = map[string]int{}
	}
	for _, uid := range userIDs {
		c.UnreadCount[uid]++
	}
	return nil
}

func (r *fakeChatRepo) ListEntries(_ context.Context, userID string, limit, offset int) ([]*entity.ChatListEntry, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.ChatListEntry
	for _, e := range r.entries[userID] {
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastMessageTimestamp > out[j].LastMessageTimestamp })
	total := int64(len(out))
	if offset > len(out) {
		offset = len(out)
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

func (r *fakeChatRepo) TouchEntry(_ context.Context, userID, chatID, text string, timestamp int64, incrementUnread bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.touchErr != nil {
		return r.touchErr
	}
	e, ok := r.entries[userID][chatID]
	if !ok {
		return errors.NotFound("Chat list entry", nil)
	}
	e.LastMessage = text
	e.LastMessageTimestamp = timestamp
	if incrementUnread {
		e.UnreadCount++
	}
	return nil
}

func (r *fakeChatRepo) MarkRead(_ context.Context, chatID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.chats[chatID]
	if !ok {
		return errors.NotFound("Chat", nil)
	}
	if c.UnreadCount == nil {
		c.UnreadCount = map[string]int{}
	}
	c.UnreadCount[userID] = 0
	if e, ok := r.entries[userID][chatID]; ok {
		e.UnreadCount = 0
	}
	return nil
}

func (r *fakeChatRepo) chatCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.chats)
}

func (r *fakeChatRepo) entry(userID, chatID string) *entity.ChatListEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[userID][chatID]
	if !ok {
		return nil
	}
	cp := *e
	return &cp
}

func (r *fakeChatRepo) dropEntry(userID, chatID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries[userID], chatID)
}

func (r *fakeChatRepo) put(chat *entity.Chat) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chats[chat.ID] = chat
}

func (r *fakeChatRepo) stored(chatID string) *entity.Chat {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *r.chats[chatID]
	return &cp
}

type fakeMessageStore struct {
	mu       sync.Mutex
	messages map[string]map[string]*entity.Message
	listErr  error
	putErr   error
	puts     int
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{messages: map[string]map[string]*entity.Message{}}
}

func (s *fakeMessageStore) List(_ context.Context, chatID string) ([]*entity.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := []*entity.Message{}
	for _, m := range s.messages[chatID] {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (s *fakeMessageStore) Get(_ context.Context, chatID, messageID string) (*entity.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.messages[chatID][messageID]
	if !ok {
		return nil, errors.NotFound("Message", nil)
	}
	cp := *m
	return &cp, nil
}

func (s *fakeMessageStore) Put(_ context.Context, m *entity.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if s.messages[m.ChatID] == nil {
		s.messages[m.ChatID] = map[string]*entity.Message{}
	}
	cp := *m
	s.messages[m.ChatID][m.ID] = &cp
	s.puts++
	return nil
}

func (s *fakeMessageStore) wipe(chatID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.messages, chatID)
}

func (s *fakeMessageStore) count(chatID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages[chatID])
}

type fakeAdminRequests struct {
	mu       sync.Mutex
	requests []*entity.AdminRequest
}

func (s *fakeAdminRequests) Create(_ context.Context, r *entity.AdminRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = fmt.Sprintf("req-%d", len(s.requests)+1)
	s.requests = append(s.requests, r)
	return nil
}

func (s *fakeAdminRequests) List(_ context.Context, limit int) ([]*entity.AdminRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit > len(s.requests) {
		limit = len(s.requests)
	}
	return s.requests[:limit], nil
}

type fakeWalletRepo struct {
	mu      sync.Mutex
	wallets []*entity.WalletAddress
}

func (r *fakeWalletRepo) Create(_ context.Context, w *entity.WalletAddress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w.ID = fmt.Sprintf("wallet-%d", len(r.wallets)+1)
	r.wallets = append(r.wallets, w)
	return nil
}

func (r *fakeWalletRepo) FindByUserAndTransaction(_ context.Context, userID, txID string) (*entity.WalletAddress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.wallets {
		if w.UserID == userID && w.TransactionID == txID {
			return w, nil
		}
	}
	return nil, errors.NotFound("Wallet address", nil)
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []*entity.AdminNotification
	createErr     error
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *entity.AdminNotification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	n.ID = fmt.Sprintf("notification-%d", len(r.notifications)+1)
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *fakeNotificationRepo) List(_ context.Context, unreadOnly bool, limit int) ([]*entity.AdminNotification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.AdminNotification
	for _, n := range r.notifications {
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return errors.NotFound("Notification", nil)
}

type fakeNotifier struct {
	mu      sync.Mutex
	updates []string
}

func (n *fakeNotifier) PublishChatUpdated(_ context.Context, chatID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.updates = append(n.updates, chatID)
	return nil
}

type fakeImageStore struct {
	mu      sync.Mutex
	deleted []string
}

func (s *fakeImageStore) UploadFile(_ context.Context, _ io.Reader, _ string, folder string) (string, error) {
	return "https://storage.googleapis.com/bucket/public/" + folder + "/image.png", nil
}

func (s *fakeImageStore) DeleteFile(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, url)
	return nil
}

type fakePlaceholderWriter struct {
	written []string
	data    map[string]map[string]interface{}
	failOn  string
}

func (w *fakePlaceholderWriter) Put(_ context.Context, collection, docID string, data map[string]interface{}) error {
	if collection == w.failOn {
		return fmt.Errorf("permission denied")
	}
	w.written = append(w.written, collection+"/"+docID)
	if w.data == nil {
		w.data = map[string]map[string]interface{}{}
	}
	w.data[collection] = data
	return nil
}

func fakeProduct(ownerID string) *entity.Product {
	subscribers := int64(gofakeit.Number(100, 100000))
	return &entity.Product{
		ID:          uuid.New().String(),
		DisplayName: gofakeit.AppName(),
		Platform:    entity.PlatformYouTube,
		Price:       12,
		Category:    "Gaming",
		AccountLink: "https://www.youtube.com/channel/UC" + gofakeit.LetterN(22),
		Subscribers: &subscribers,
		ImageURLs:   []string{gofakeit.URL()},
		UserID:      ownerID,
		UserEmail:   gofakeit.Username() + "@example.com",
	}
}

func fakeIdentity(uid string) *entity.Identity {
	return &entity.Identity{
		UID:      uid,
		Name:     gofakeit.Name(),
		Email:    gofakeit.Email(),
		PhotoURL: gofakeit.URL(),
	}
}
