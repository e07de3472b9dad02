// Package database - Index bổ sung cho planning (nested fields, compound) không thể định nghĩa qua model tags.
package database

import (
	"context"
	"strings"

	"planning_api/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreatePlanningAdditionalIndexes tạo các index bổ sung cho planning (nested fields, compound phức tạp).
// Gọi sau CreateIndexes cho từng collection.
func CreatePlanningAdditionalIndexes(ctx context.Context, db *mongo.Database) error {
	// events: (recurrence_id, dates.start) sparse: truy vấn timeline của chuỗi lặp
	events := db.Collection(global.MongoDB_ColNames.Events)
	if _, err := events.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "recurrence_id", Value: 1},
			{Key: "dates.start", Value: 1},
		},
		Options: options.Index().SetName("event_recurrence_start").SetSparse(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// events: (lock_session) sparse: quét unlock_session khi logout
	if _, err := events.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "lock_session", Value: 1},
		},
		Options: options.Index().SetName("event_lock_session").SetSparse(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// planning: (event_item) sparse: liệt kê planning của một event khi cascade
	planning := db.Collection(global.MongoDB_ColNames.Planning)
	if _, err := planning.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "event_item", Value: 1},
		},
		Options: options.Index().SetName("planning_event_item").SetSparse(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// planning: (lock_session) sparse: quét unlock_session
	if _, err := planning.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "lock_session", Value: 1},
		},
		Options: options.Index().SetName("planning_lock_session").SetSparse(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// planning: (coverages.coverage_id) multikey: tra coverage khi assignment cascade ngược
	if _, err := planning.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "coverages.coverage_id", Value: 1},
		},
		Options: options.Index().SetName("planning_coverage_id").SetSparse(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// assignments: (planning_item, coverage_item): tìm assignment của một coverage
	assignments := db.Collection(global.MongoDB_ColNames.Assignments)
	if _, err := assignments.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "planning_item", Value: 1},
			{Key: "coverage_item", Value: 1},
		},
		Options: options.Index().SetName("assignment_planning_coverage"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// assignments: (lock_session) sparse: quét unlock_session
	if _, err := assignments.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "lock_session", Value: 1},
		},
		Options: options.Index().SetName("assignment_lock_session").SetSparse(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// item_locks: expire_at TTL: Mongo tự dọn lease hết hạn
	itemLocks := db.Collection(global.MongoDB_ColNames.ItemLocks)
	if _, err := itemLocks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "expire_at", Value: 1},
		},
		Options: options.Index().SetName("item_lock_expire").SetExpireAfterSeconds(0),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// delivery_queue: (status, next_attempt_at): worker lấy message đến hạn
	deliveryQueue := db.Collection(global.MongoDB_ColNames.DeliveryQueue)
	if _, err := deliveryQueue.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "next_attempt_at", Value: 1},
		},
		Options: options.Index().SetName("delivery_queue_status_due"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	return nil
}

func isIndexExistsError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "already exists") || strings.Contains(s, "duplicate")
}
