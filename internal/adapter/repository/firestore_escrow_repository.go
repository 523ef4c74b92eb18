package repository

import (
	"context"
	"strconv"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"mateswap/internal/domain/entity"
	"mateswap/internal/domain/repository"
	"mateswap/pkg/errors"
)

type firestoreWalletAddressRepository struct {
	client *firestore.Client
}

func NewFirestoreWalletAddressRepository(client *firestore.Client) repository.WalletAddressRepository {
	return &firestoreWalletAddressRepository{client: client}
}

func (r *firestoreWalletAddressRepository) Create(ctx context.Context, wallet *entity.WalletAddress) error {
	if wallet.CreatedAt.IsZero() {
		wallet.CreatedAt = time.Now()
	}

	ref, _, err := r.client.Collection("wallet_addresses").Add(ctx, wallet)
	if err != nil {
		return errors.Internal("Failed to save wallet address", err)
	}
	wallet.ID = ref.ID
	return nil
}

func (r *firestoreWalletAddressRepository) FindByUserAndTransaction(ctx context.Context, userID, transactionID string) (*entity.WalletAddress, error) {
	iter := r.client.Collection("wallet_addresses").
		Where("userId", "==", userID).
		Where("transactionId", "in", transactionIDValues(transactionID)).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.NotFound("Wallet address", nil)
	}
	if err != nil {
		return nil, errors.Internal("Failed to query wallet addresses", err)
	}

	return entity.DecodeWalletAddress(doc.Ref.ID, doc.Data()), nil
}

// transactionIDValues lists the stored forms of a transaction id. Older
// clients wrote numeric ids as Firestore integers.
func transactionIDValues(transactionID string) []interface{} {
	values := []interface{}{transactionID}
	if n, err := strconv.ParseInt(transactionID, 10, 64); err == nil {
		values = append(values, n)
	}
	return values
}

type firestoreAdminNotificationRepository struct {
	client *firestore.Client
}

func NewFirestoreAdminNotificationRepository(client *firestore.Client) repository.AdminNotificationRepository {
	return &firestoreAdminNotificationRepository{client: client}
}

func (r *firestoreAdminNotificationRepository) Create(ctx context.Context, notification *entity.AdminNotification) error {
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}

	ref, _, err := r.client.Collection("admin_notifications").Add(ctx, notification)
	if err != nil {
		return errors.Internal("Failed to create admin notification", err)
	}
	notification.ID = ref.ID
	return nil
}

func (r *firestoreAdminNotificationRepository) List(ctx context.Context, unreadOnly bool, limit int) ([]*entity.AdminNotification, error) {
	query := r.client.Collection("admin_notifications").Query
	if unreadOnly {
		query = query.Where("read", "==", false)
	}
	query = query.OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to list admin notifications", err)
	}

	notifications := make([]*entity.AdminNotification, 0, len(docs))
	for _, doc := range docs {
		notifications = append(notifications, entity.DecodeAdminNotification(doc.Ref.ID, doc.Data()))
	}
	return notifications, nil
}

func (r *firestoreAdminNotificationRepository) MarkRead(ctx context.Context, id string) error {
	_, err := r.client.Collection("admin_notifications").Doc(id).Update(ctx, []firestore.Update{
		{Path: "read", Value: true},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Notification", err)
		}
		return errors.Internal("Failed to update notification", err)
	}
	return nil
}
