package entity

import "time"

// Favorite is stored at users/{uid}/favorites/{productId}; its existence is
// the favorite flag.
type Favorite struct {
	UserID       string    `json:"user_id" firestore:"userId"`
	ProductID    string    `json:"product_id" firestore:"productId"`
	ProductName  string    `json:"product_name" firestore:"productName"`
	ProductPrice float64   `json:"product_price" firestore:"productPrice"`
	ProductImage string    `json:"product_image" firestore:"productImage"`
	AddedAt      time.Time `json:"added_at" firestore:"addedAt"`
}
