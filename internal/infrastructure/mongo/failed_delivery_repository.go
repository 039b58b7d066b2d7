package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/growth-iq/api/internal/assessment/domain"
)

var errFailedDeliveryNotFound = errors.New("failed delivery not found")

// FailedDeliveryRepository persists report emails and staff notifications that could not be sent.
type FailedDeliveryRepository struct {
	deliveries *mongo.Collection
}

func NewFailedDeliveryRepository(db *mongo.Database, collection string) *FailedDeliveryRepository {
	return &FailedDeliveryRepository{deliveries: db.Collection(collection)}
}

func (r *FailedDeliveryRepository) Record(ctx context.Context, delivery *domain.FailedDelivery) error {
	if delivery == nil {
		return errors.New("delivery payload is nil")
	}
	doc := FailedDeliveryDocument{
		ID:           primitive.NewObjectID(),
		Kind:         string(delivery.Kind),
		SubmissionID: delivery.SubmissionID,
		Recipient:    delivery.Recipient,
		Error:        delivery.Error,
		Attempts:     delivery.Attempts,
		Status:       string(delivery.Status),
		CreatedAt:    delivery.CreatedAt,
		LastTriedAt:  delivery.LastTriedAt,
		ResolvedAt:   delivery.ResolvedAt,
	}
	if _, err := r.deliveries.InsertOne(ctx, doc); err != nil {
		return err
	}
	delivery.ID = doc.ID.Hex()
	return nil
}

// ListPending は古いものから limit 件返す。
func (r *FailedDeliveryRepository) ListPending(ctx context.Context, limit int) ([]domain.FailedDelivery, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.deliveries.Find(ctx, bson.M{"status": string(domain.DeliveryPending)}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	deliveries := make([]domain.FailedDelivery, 0)
	for cursor.Next(ctx) {
		var doc FailedDeliveryDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		deliveries = append(deliveries, mapFailedDeliveryDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return deliveries, nil
}

func (r *FailedDeliveryRepository) MarkResolved(ctx context.Context, id string, at time.Time) error {
	return r.update(ctx, id, bson.M{
		"$set": bson.M{"status": string(domain.DeliveryResolved), "resolvedAt": at, "lastTriedAt": at},
		"$inc": bson.M{"attempts": 1},
	})
}

func (r *FailedDeliveryRepository) MarkAttempted(ctx context.Context, id string, lastErr string, at time.Time) error {
	return r.update(ctx, id, bson.M{
		"$set": bson.M{"error": lastErr, "lastTriedAt": at},
		"$inc": bson.M{"attempts": 1},
	})
}

func (r *FailedDeliveryRepository) update(ctx context.Context, id string, update bson.M) error {
	objectID, err := parseObjectID(id, errFailedDeliveryNotFound)
	if err != nil {
		return err
	}
	result, err := r.deliveries.UpdateByID(ctx, objectID, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errFailedDeliveryNotFound
	}
	return nil
}
