package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ir-gateway/models"
)

type AuditLogRepository struct {
	col *mongo.Collection
}

func NewAuditLogRepository(db *mongo.Database) *AuditLogRepository {
	return &AuditLogRepository{col: db.Collection("audit_logs")}
}

func (r *AuditLogRepository) Insert(ctx context.Context, log models.AuditLog) (*mongo.InsertOneResult, error) {
	if log.RecordedAt.IsZero() {
		log.RecordedAt = time.Now()
	}
	return r.col.InsertOne(ctx, log)
}

// ListRecent는 최근 감사 기록을 recorded_at 내림차순으로 조회한다.
func (r *AuditLogRepository) ListRecent(ctx context.Context, limit int64) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "recorded_at", Value: -1}}).
		SetLimit(limit)

	cur, err := r.col.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.AuditLog
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByTarget은 특정 대상(그룹)의 변경 이력을 조회한다.
func (r *AuditLogRepository) ListByTarget(ctx context.Context, targetID string, limit int64) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "recorded_at", Value: -1}}).
		SetLimit(limit)

	cur, err := r.col.Find(ctx, bson.D{{Key: "target_id", Value: targetID}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.AuditLog
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
