// Package deliverysvc chứa service data access cho domain Delivery (queue,
// subscriber, history). Nằm trong folder service/ để đối xứng với dto/, handler/.
// File: service.delivery.queue.go - giữ tên cấu trúc cũ (service.<domain>.<entity>.go).
package deliverysvc

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	basesvc "planning_api/internal/api/base/service"
	deliverymodels "planning_api/internal/api/delivery/models"
	"planning_api/internal/common"
	"planning_api/internal/global"
)

// processingStaleAfter là ngưỡng coi item "processing" là bị kẹt (worker chết
// giữa chừng) và cho phép worker khác nhặt lại.
const processingStaleAfter = 5 * time.Minute

// retryBackoff tính khoảng chờ trước lần gửi tiếp theo: 30s, 2m, 8m...
func retryBackoff(attempt int) time.Duration {
	d := 30 * time.Second
	for i := 1; i < attempt; i++ {
		d *= 4
	}
	return d
}

// DeliveryQueueService là service quản lý Delivery Queue (enqueue, dequeue, retry).
type DeliveryQueueService struct {
	*basesvc.BaseServiceMongoImpl[deliverymodels.DeliveryQueueItem]
}

// NewDeliveryQueueService tạo mới DeliveryQueueService
func NewDeliveryQueueService() (*DeliveryQueueService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.DeliveryQueue)
	if !exist {
		return nil, fmt.Errorf("failed to get delivery_queue collection: %v", common.ErrNotFound)
	}

	return &DeliveryQueueService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[deliverymodels.DeliveryQueueItem](collection),
	}, nil
}

// maxAttempts đọc số lần gửi tối đa từ config.
func maxAttempts() int {
	if global.MongoDB_ServerConfig != nil && global.MongoDB_ServerConfig.DeliveryMaxAttempts > 0 {
		return global.MongoDB_ServerConfig.DeliveryMaxAttempts
	}
	return 3
}

// Enqueue tạo queue item pending cho một notification và một subscriber.
func (s *DeliveryQueueService) Enqueue(ctx context.Context, name string, payload map[string]interface{}, sub *deliverymodels.Subscriber) (deliverymodels.DeliveryQueueItem, error) {
	now := time.Now().UnixMilli()
	item := deliverymodels.DeliveryQueueItem{
		NotificationName: name,
		Payload:          payload,
		SubscriberID:     sub.ID,
		ChannelType:      sub.ChannelType,
		Recipient:        sub.Target,
		Status:           deliverymodels.QueueStatusPending,
		MaxAttempts:      maxAttempts(),
		NextAttemptAt:    now,
	}
	return s.InsertOne(ctx, item)
}

// FindDue tìm các item đến hạn gửi: pending đã qua next_attempt_at, hoặc
// processing bị kẹt quá lâu.
func (s *DeliveryQueueService) FindDue(ctx context.Context, limit int) ([]deliverymodels.DeliveryQueueItem, error) {
	now := time.Now().UnixMilli()
	staleThreshold := now - processingStaleAfter.Milliseconds()

	filter := bson.M{
		"$or": []bson.M{
			{
				"status":          deliverymodels.QueueStatusPending,
				"next_attempt_at": bson.M{"$lte": now},
			},
			{
				"status":    deliverymodels.QueueStatusProcessing,
				"updatedAt": bson.M{"$lt": staleThreshold},
			},
		},
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "next_attempt_at", Value: 1}}).
		SetLimit(int64(limit))
	return s.Find(ctx, filter, opts)
}

// MarkProcessing chuyển một lô item sang processing trước khi gửi.
func (s *DeliveryQueueService) MarkProcessing(ctx context.Context, items []deliverymodels.DeliveryQueueItem) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]interface{}, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	_, err := s.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, bson.M{
		"$set": bson.M{
			"status":    deliverymodels.QueueStatusProcessing,
			"updatedAt": time.Now().UnixMilli(),
		},
	}, nil)
	return err
}

// MarkSent đánh dấu item đã gửi thành công.
func (s *DeliveryQueueService) MarkSent(ctx context.Context, item *deliverymodels.DeliveryQueueItem) error {
	_, err := s.UpdateOne(ctx, bson.M{"_id": item.ID}, bson.M{
		"$set": bson.M{
			"status":        deliverymodels.QueueStatusSent,
			"attempt_count": item.AttemptCount,
			"updatedAt":     time.Now().UnixMilli(),
		},
	}, nil)
	return err
}

// MarkFailed ghi nhận một lần gửi lỗi. Còn lượt thì lùi về pending với
// next_attempt_at theo backoff; hết lượt thì chốt failed. Trả về true nếu
// item đã bỏ cuộc hẳn.
func (s *DeliveryQueueService) MarkFailed(ctx context.Context, item *deliverymodels.DeliveryQueueItem, sendErr error) (bool, error) {
	now := time.Now().UnixMilli()
	exhausted := item.AttemptCount >= item.MaxAttempts

	set := bson.M{
		"attempt_count": item.AttemptCount,
		"last_error":    sendErr.Error(),
		"updatedAt":     now,
	}
	if exhausted {
		set["status"] = deliverymodels.QueueStatusFailed
	} else {
		set["status"] = deliverymodels.QueueStatusPending
		set["next_attempt_at"] = now + retryBackoff(item.AttemptCount).Milliseconds()
	}

	_, err := s.UpdateOne(ctx, bson.M{"_id": item.ID}, bson.M{"$set": set}, nil)
	return exhausted, err
}

// CleanupFinishedItems xóa item sent/failed đã quá N ngày.
func (s *DeliveryQueueService) CleanupFinishedItems(ctx context.Context, daysOld int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -daysOld).UnixMilli()
	filter := bson.M{
		"status":    bson.M{"$in": bson.A{deliverymodels.QueueStatusSent, deliverymodels.QueueStatusFailed}},
		"updatedAt": bson.M{"$lt": cutoff},
	}
	return s.DeleteMany(ctx, filter)
}
