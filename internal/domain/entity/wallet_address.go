package entity

import "time"

// WalletAddress is the payout destination a seller submits for one
// transaction. Append only.
type WalletAddress struct {
	ID            string    `json:"id" firestore:"-"`
	UserID        string    `json:"user_id" firestore:"userId"`
	ProductID     string    `json:"product_id" firestore:"productId"`
	ChatID        string    `json:"chat_id" firestore:"chatId"`
	TransactionID string    `json:"transaction_id" firestore:"transactionId"`
	PaymentMethod string    `json:"payment_method" firestore:"paymentMethod"`
	Address       string    `json:"address" firestore:"address"`
	CreatedAt     time.Time `json:"created_at" firestore:"createdAt"`
}
