package repository

import (
	"context"

	"mateswap/internal/domain/entity"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}

// PlaceholderWriter creates a single document so that an empty collection
// shows up in the console.
type PlaceholderWriter interface {
	Put(ctx context.Context, collection, docID string, data map[string]interface{}) error
}
