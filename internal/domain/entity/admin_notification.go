package entity

import "time"

const NotificationWalletAdded = "wallet_added"

type AdminNotification struct {
	ID            string    `json:"id" firestore:"-"`
	Type          string    `json:"type" firestore:"type"`
	ChatID        string    `json:"chat_id" firestore:"chatId"`
	ProductID     string    `json:"product_id" firestore:"productId"`
	ProductName   string    `json:"product_name" firestore:"productName"`
	TransactionID string    `json:"transaction_id" firestore:"transactionId"`
	BuyerName     string    `json:"buyer_name" firestore:"buyerName"`
	BuyerID       string    `json:"buyer_id" firestore:"buyerId"`
	SellerName    string    `json:"seller_name" firestore:"sellerName"`
	SellerID      string    `json:"seller_id" firestore:"sellerId"`
	PaymentMethod string    `json:"payment_method" firestore:"paymentMethod"`
	Amount        float64   `json:"amount" firestore:"amount"`
	WalletAddress string    `json:"wallet_address" firestore:"walletAddress"`
	CreatedAt     time.Time `json:"created_at" firestore:"createdAt"`
	Read          bool      `json:"read" firestore:"read"`
}
