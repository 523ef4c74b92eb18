package entity

// AdminRequest is a call for the escrow agent, kept in the realtime store
// under adminRequests/{id}.
type AdminRequest struct {
	ID              string `json:"id"`
	ChatID          string `json:"chat_id"`
	ProductID       string `json:"product_id"`
	ProductName     string `json:"product_name"`
	RequestedBy     string `json:"requested_by"`
	RequestedByName string `json:"requested_by_name"`
	Timestamp       int64  `json:"timestamp"`
}
