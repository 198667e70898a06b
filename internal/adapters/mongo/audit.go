package mongo

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/robertarktes/arenalink/internal/domain"
	"github.com/robertarktes/arenalink/internal/observability"
)

type AuditLogger struct {
	coll   *mongo.Collection
	logger observability.Logger
}

func NewAuditLogger(db *mongo.Database, logger observability.Logger) *AuditLogger {
	return &AuditLogger{
		coll:   db.Collection("audit_logs"),
		logger: logger,
	}
}

type AuditLog struct {
	ID        string    `bson:"_id" json:"id"`
	Action    string    `bson:"action" json:"action"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Data      bson.M    `bson:"data" json:"data"`
}

// LogEvent writes one audit entry. Entries are keyed by id, so replaying
// the same id is a no-op.
func (a *AuditLogger) LogEvent(ctx context.Context, id, action, userID string, at time.Time, data map[string]interface{}) error {
	entry := AuditLog{
		ID:        id,
		Action:    action,
		UserID:    userID,
		Timestamp: at,
		Data:      bson.M(data),
	}
	_, err := a.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$setOnInsert": entry},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		a.logger.WithError(err).WithField("action", action).Error("failed to insert audit log")
		return errors.Wrap(err, "insert audit log")
	}
	return nil
}

func (a *AuditLogger) LogBookingEvent(ctx context.Context, ev domain.BookingEvent) error {
	data := map[string]interface{}{
		"booking_id": ev.BookingID,
		"slot_id":    ev.SlotID,
		"status":     string(ev.Status),
	}
	return a.LogEvent(ctx, ev.EventID.String(), ev.Type, ev.PlayerID, ev.OccurredAt, data)
}

func (a *AuditLogger) ForUser(ctx context.Context, userID string, limit int64) ([]AuditLog, error) {
	cur, err := a.coll.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(limit))
	if err != nil {
		return nil, errors.Wrap(err, "find audit logs")
	}
	var out []AuditLog
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode audit logs")
	}
	return out, nil
}
