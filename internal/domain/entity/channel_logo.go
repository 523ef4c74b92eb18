package entity

import "time"

type ChannelLogo struct {
	ChannelID string    `json:"channel_id" firestore:"-"`
	LogoURL   string    `json:"logo_url" firestore:"logoUrl"`
	UpdatedAt time.Time `json:"updated_at,omitempty" firestore:"updatedAt,omitempty"`
}
