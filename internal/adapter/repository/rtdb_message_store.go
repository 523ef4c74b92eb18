package repository

import (
	"context"
	"sort"

	"firebase.google.com/go/v4/db"

	"mateswap/internal/domain/entity"
	"mateswap/internal/domain/repository"
	"mateswap/pkg/errors"
)

type rtdbMessageStore struct {
	client *db.Client
}

func NewRTDBMessageStore(client *db.Client) repository.MessageStore {
	return &rtdbMessageStore{client: client}
}

// rtdbMessage is the record layout under messages/{chatId}/{messageId}.
type rtdbMessage struct {
	Kind           string       `json:"kind"`
	SenderID       string       `json:"senderId"`
	SenderName     string       `json:"senderName"`
	SenderPhotoURL *string      `json:"senderPhotoURL"`
	Text           string       `json:"text"`
	Timestamp      int64        `json:"timestamp"`
	IsAdmin        bool         `json:"isAdmin"`
	Transaction    *rtdbPayload `json:"transaction,omitempty"`
}

type rtdbPayload struct {
	Version        int     `json:"version"`
	TransactionID  string  `json:"transactionId"`
	Amount         float64 `json:"amount"`
	PaymentMethod  string  `json:"paymentMethod"`
	ProductID      string  `json:"productId,omitempty"`
	ProductName    string  `json:"productName"`
	NeedsPayment   bool    `json:"needsPayment"`
	TermsConfirmed bool    `json:"termsConfirmed"`
	EscrowAgent    bool    `json:"escrowAgent"`
	ShowPayButton  bool    `json:"showPayButton"`
	UseEscrow      bool    `json:"useEscrow"`
	TransferTo     string  `json:"transferTo,omitempty"`
}

func toRTDBMessage(m *entity.Message) *rtdbMessage {
	rec := &rtdbMessage{
		Kind:       string(m.Kind),
		SenderID:   m.SenderID,
		SenderName: m.SenderName,
		Text:       m.Text,
		Timestamp:  m.Timestamp,
		IsAdmin:    m.IsAdmin,
	}
	if m.SenderPhotoURL != "" {
		rec.SenderPhotoURL = &m.SenderPhotoURL
	}
	if p := m.Transaction; p != nil {
		rec.Transaction = &rtdbPayload{
			Version:        p.Version,
			TransactionID:  p.TransactionID,
			Amount:         p.Amount,
			PaymentMethod:  p.PaymentMethod,
			ProductID:      p.ProductID,
			ProductName:    p.ProductName,
			NeedsPayment:   p.NeedsPayment,
			TermsConfirmed: p.TermsConfirmed,
			EscrowAgent:    p.EscrowAgent,
			ShowPayButton:  p.ShowPayButton,
			UseEscrow:      p.UseEscrow,
			TransferTo:     p.TransferTo,
		}
	}
	return rec
}

func (s *rtdbMessageStore) List(ctx context.Context, chatID string) ([]*entity.Message, error) {
	var raw map[string]map[string]interface{}
	if err := s.client.NewRef("messages/"+chatID).Get(ctx, &raw); err != nil {
		return nil, errors.Internal("Failed to load messages", err)
	}

	messages := make([]*entity.Message, 0, len(raw))
	for id, record := range raw {
		if record == nil {
			continue
		}
		messages = append(messages, entity.DecodeMessage(id, chatID, record))
	}
	entity.SortMessages(messages)
	return messages, nil
}

func (s *rtdbMessageStore) Get(ctx context.Context, chatID, messageID string) (*entity.Message, error) {
	var raw map[string]interface{}
	if err := s.client.NewRef("messages/"+chatID).Child(messageID).Get(ctx, &raw); err != nil {
		return nil, errors.Internal("Failed to load message", err)
	}
	if len(raw) == 0 {
		return nil, errors.NotFound("Message", nil)
	}
	return entity.DecodeMessage(messageID, chatID, raw), nil
}

func (s *rtdbMessageStore) Put(ctx context.Context, message *entity.Message) error {
	ref := s.client.NewRef("messages/" + message.ChatID)
	rec := toRTDBMessage(message)

	if message.ID != "" {
		if err := ref.Child(message.ID).Set(ctx, rec); err != nil {
			return errors.Internal("Failed to save message", err)
		}
		return nil
	}

	pushed, err := ref.Push(ctx, rec)
	if err != nil {
		return errors.Internal("Failed to save message", err)
	}
	message.ID = pushed.Key
	return nil
}

type rtdbAdminRequestStore struct {
	client *db.Client
}

func NewRTDBAdminRequestStore(client *db.Client) repository.AdminRequestStore {
	return &rtdbAdminRequestStore{client: client}
}

type rtdbAdminRequest struct {
	ChatID          string `json:"chatId"`
	ProductID       string `json:"productId"`
	ProductName     string `json:"productName"`
	RequestedBy     string `json:"requestedBy"`
	RequestedByName string `json:"requestedByName"`
	Timestamp       int64  `json:"timestamp"`
}

func (s *rtdbAdminRequestStore) Create(ctx context.Context, request *entity.AdminRequest) error {
	pushed, err := s.client.NewRef("adminRequests").Push(ctx, &rtdbAdminRequest{
		ChatID:          request.ChatID,
		ProductID:       request.ProductID,
		ProductName:     request.ProductName,
		RequestedBy:     request.RequestedBy,
		RequestedByName: request.RequestedByName,
		Timestamp:       request.Timestamp,
	})
	if err != nil {
		return errors.Internal("Failed to create admin request", err)
	}
	request.ID = pushed.Key
	return nil
}

// List returns the newest requests first.
func (s *rtdbAdminRequestStore) List(ctx context.Context, limit int) ([]*entity.AdminRequest, error) {
	query := s.client.NewRef("adminRequests").OrderByChild("timestamp")
	if limit > 0 {
		query = query.LimitToLast(limit)
	}

	var raw map[string]rtdbAdminRequest
	if err := query.Get(ctx, &raw); err != nil {
		return nil, errors.Internal("Failed to load admin requests", err)
	}

	requests := make([]*entity.AdminRequest, 0, len(raw))
	for id, rec := range raw {
		requests = append(requests, &entity.AdminRequest{
			ID:              id,
			ChatID:          rec.ChatID,
			ProductID:       rec.ProductID,
			ProductName:     rec.ProductName,
			RequestedBy:     rec.RequestedBy,
			RequestedByName: rec.RequestedByName,
			Timestamp:       rec.Timestamp,
		})
	}
	sort.Slice(requests, func(i, j int) bool {
		return requests[i].Timestamp > requests[j].Timestamp
	})
	return requests, nil
}
