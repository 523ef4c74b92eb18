package entity

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
)

type MessageKind string

const (
	KindText              MessageKind = "text"
	KindSystem            MessageKind = "system"
	KindTransactionStatus MessageKind = "transaction_status"
	KindEscrowRequest     MessageKind = "escrow_request"
	KindAgentRequest      MessageKind = "agent_request"
)

const (
	TransactionPayloadVersion = 1

	PaymentMethodCard = "Visa/MasterCard"
	SystemSenderID    = "system"

	escrowRequestMarker = "🔒 Request to Purchase"
)

type Message struct {
	ID             string              `json:"id"`
	ChatID         string              `json:"chat_id"`
	Kind           MessageKind         `json:"kind"`
	SenderID       string              `json:"sender_id"`
	SenderName     string              `json:"sender_name"`
	SenderPhotoURL string              `json:"sender_photo_url,omitempty"`
	Text           string              `json:"text"`
	Timestamp      int64               `json:"timestamp"`
	IsAdmin        bool                `json:"is_admin"`
	Transaction    *TransactionPayload `json:"transaction,omitempty"`
}

// IsTransaction reports whether the message carries payment details a seller
// can act on.
func (m *Message) IsTransaction() bool {
	if m.Transaction == nil {
		return false
	}
	return m.Kind == KindTransactionStatus || m.Kind == KindEscrowRequest
}

type TransactionPayload struct {
	Version        int     `json:"version" firestore:"version"`
	TransactionID  string  `json:"transaction_id" firestore:"transactionId"`
	Amount         float64 `json:"amount" firestore:"amount"`
	PaymentMethod  string  `json:"payment_method" firestore:"paymentMethod"`
	ProductID      string  `json:"product_id" firestore:"productId"`
	ProductName    string  `json:"product_name" firestore:"productName"`
	NeedsPayment   bool    `json:"needs_payment" firestore:"needsPayment"`
	TermsConfirmed bool    `json:"terms_confirmed" firestore:"termsConfirmed"`
	EscrowAgent    bool    `json:"escrow_agent" firestore:"escrowAgent"`
	ShowPayButton  bool    `json:"show_pay_button" firestore:"showPayButton"`
	UseEscrow      bool    `json:"use_escrow" firestore:"useEscrow"`
	TransferTo     string  `json:"transfer_to,omitempty" firestore:"transferTo,omitempty"`
}

// NewTransactionID returns a seven digit identifier in [1000000, 9999999].
func NewTransactionID() string {
	return strconv.Itoa(1000000 + rand.Intn(9000000))
}

// FormatAmount renders a price the way it appears in chat: $12, $12.5.
func FormatAmount(amount float64) string {
	return "$" + strconv.FormatFloat(amount, 'f', -1, 64)
}

// TransactionStatusText is the body of the first message of every conversation.
func TransactionStatusText(transactionID string, amount float64, paymentMethod string) string {
	return fmt.Sprintf(`Transaction status:
The terms of the transaction were confirmed. When you send your payment, the seller will be notified, and will need to transfer the account login details based on the agreed upon terms. If the seller does not respond, or breaks the rules, you can call upon the escrow agent (button below).

Transaction ID: %s
Transaction Amount: %s
Payment Method: %s`, transactionID, FormatAmount(amount), paymentMethod)
}

func PaymentRequiredSummary(productName string) string {
	return "Transaction status: Payment required for " + productName
}

func EscrowRequestText(p *TransactionPayload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", escrowRequestMarker, p.ProductName)
	fmt.Fprintf(&b, "Transaction ID: %s\n", p.TransactionID)
	fmt.Fprintf(&b, "Transaction Amount: %s\n", FormatAmount(p.Amount))
	fmt.Fprintf(&b, "Payment Method: %s", p.PaymentMethod)
	if p.TransferTo != "" {
		fmt.Fprintf(&b, "\nTransfer to: %s", p.TransferTo)
	}
	if p.UseEscrow {
		b.WriteString("\nThe buyer pays the cost of the channel + 8% ($3 minimum) service fee.")
	}
	return b.String()
}

const AgentRequestedText = "An admin (escrow agent) has been requested for this chat. They will join shortly."

// SortMessages orders messages by timestamp ascending. Equal timestamps fall
// back to the id so every reader sees the same order.
func SortMessages(messages []*Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		if messages[i].Timestamp != messages[j].Timestamp {
			return messages[i].Timestamp < messages[j].Timestamp
		}
		return messages[i].ID < messages[j].ID
	})
}

// DecodeMessage turns a raw realtime record into a Message. Records written
// with a kind tag are decoded directly; older records are upgraded by
// DecodeLegacyMessage.
func DecodeMessage(id, chatID string, raw map[string]interface{}) *Message {
	kind := stringField(raw, "kind")
	if kind == "" {
		return DecodeLegacyMessage(id, chatID, raw)
	}

	m := baseMessage(id, chatID, raw)
	m.Kind = MessageKind(kind)
	if tx, ok := raw["transaction"].(map[string]interface{}); ok {
		m.Transaction = &TransactionPayload{
			Version:        int(numberField(tx, "version")),
			TransactionID:  idField(tx, "transactionId"),
			Amount:         numberField(tx, "amount"),
			PaymentMethod:  stringField(tx, "paymentMethod"),
			ProductID:      stringField(tx, "productId"),
			ProductName:    stringField(tx, "productName"),
			NeedsPayment:   boolField(tx, "needsPayment"),
			TermsConfirmed: boolField(tx, "termsConfirmed"),
			EscrowAgent:    boolField(tx, "escrowAgent"),
			ShowPayButton:  boolField(tx, "showPayButton"),
			UseEscrow:      boolField(tx, "useEscrow"),
			TransferTo:     stringField(tx, "transferTo"),
		}
	}
	return m
}

// DecodeLegacyMessage upgrades the untagged shapes: the isRequest +
// transactionData payload, the purchaseDetails payload, and the free-text
// escrow request / transaction status bodies.
func DecodeLegacyMessage(id, chatID string, raw map[string]interface{}) *Message {
	m := baseMessage(id, chatID, raw)
	m.Kind = KindText

	if td, ok := raw["transactionData"].(map[string]interface{}); ok && boolField(raw, "isRequest") {
		m.Kind = KindEscrowRequest
		m.Transaction = &TransactionPayload{
			TransactionID: idField(td, "transactionId"),
			Amount:        numberField(td, "price"),
			PaymentMethod: stringField(td, "paymentMethod"),
			ProductID:     stringField(td, "productId"),
			ProductName:   stringField(td, "productName"),
			UseEscrow:     boolField(td, "useEscrow"),
			TransferTo:    lineValue(m.Text, "Transfer to:"),
		}
		return m
	}

	if pd, ok := raw["purchaseDetails"].(map[string]interface{}); ok {
		m.Kind = KindTransactionStatus
		m.Transaction = &TransactionPayload{
			TransactionID:  idField(pd, "transactionId"),
			Amount:         numberField(pd, "amount"),
			PaymentMethod:  stringField(pd, "paymentMethod"),
			ProductID:      stringField(pd, "productId"),
			ProductName:    stringField(pd, "productName"),
			NeedsPayment:   boolField(pd, "needsPayment"),
			TermsConfirmed: boolField(pd, "termsConfirmed"),
			EscrowAgent:    boolField(pd, "escrowAgent"),
			ShowPayButton:  boolField(pd, "showPayButton"),
		}
		return m
	}

	if boolField(raw, "isEscrowRequest") || strings.Contains(m.Text, escrowRequestMarker) {
		m.Kind = KindEscrowRequest
		m.Transaction = parseTransactionText(m.Text)
		return m
	}

	if strings.Contains(m.Text, "Transaction status:") && strings.Contains(m.Text, "Transaction ID:") {
		m.Kind = KindTransactionStatus
		m.Transaction = parseTransactionText(m.Text)
		return m
	}

	if boolField(raw, "isSystem") || m.SenderID == SystemSenderID {
		m.Kind = KindSystem
	}
	return m
}

func parseTransactionText(text string) *TransactionPayload {
	p := &TransactionPayload{
		TransactionID: lineValue(text, "Transaction ID:"),
		PaymentMethod: lineValue(text, "Payment Method:"),
		ProductName:   lineValue(text, escrowRequestMarker),
		TransferTo:    lineValue(text, "Transfer to:"),
	}
	amount := strings.TrimPrefix(lineValue(text, "Transaction Amount:"), "$")
	if v, err := strconv.ParseFloat(strings.TrimSpace(amount), 64); err == nil {
		p.Amount = v
	}
	return p
}

// lineValue returns the rest of the first line containing label.
func lineValue(text, label string) string {
	for _, line := range strings.Split(text, "\n") {
		if idx := strings.Index(line, label); idx >= 0 {
			return strings.TrimSpace(line[idx+len(label):])
		}
	}
	return ""
}

func baseMessage(id, chatID string, raw map[string]interface{}) *Message {
	return &Message{
		ID:             id,
		ChatID:         chatID,
		SenderID:       stringField(raw, "senderId"),
		SenderName:     stringField(raw, "senderName"),
		SenderPhotoURL: stringField(raw, "senderPhotoURL"),
		Text:           strings.TrimSpace(stringField(raw, "text")),
		Timestamp:      int64(numberField(raw, "timestamp")),
		IsAdmin:        boolField(raw, "isAdmin"),
	}
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func boolField(m map[string]interface{}, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func numberField(m map[string]interface{}, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case string:
		f, _ := strconv.ParseFloat(strings.TrimPrefix(v, "$"), 64)
		return f
	}
	return 0
}

// idField accepts transaction ids stored either as strings or as numbers.
func idField(m map[string]interface{}, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	}
	return ""
}
