// Package deliverysvc - DeliveryHistoryService (xem service.delivery.queue.go cho package doc).
// File: service.delivery.history.go - giữ tên cấu trúc cũ (service.<domain>.<entity>.go).
package deliverysvc

import (
	"context"
	"fmt"
	"time"

	basesvc "planning_api/internal/api/base/service"
	deliverymodels "planning_api/internal/api/delivery/models"
	"planning_api/internal/common"
	"planning_api/internal/global"
)

// DeliveryHistoryService là service quản lý Delivery History (lịch sử gửi notification).
type DeliveryHistoryService struct {
	*basesvc.BaseServiceMongoImpl[deliverymodels.DeliveryHistory]
}

// NewDeliveryHistoryService tạo mới DeliveryHistoryService
func NewDeliveryHistoryService() (*DeliveryHistoryService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.DeliveryHistory)
	if !exist {
		return nil, fmt.Errorf("failed to get delivery_history collection: %v", common.ErrNotFound)
	}

	return &DeliveryHistoryService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[deliverymodels.DeliveryHistory](collection),
	}, nil
}

// RecordResult ghi kết quả một lần gửi từ queue item. sendErr=nil nghĩa là
// gửi thành công.
func (s *DeliveryHistoryService) RecordResult(ctx context.Context, item *deliverymodels.DeliveryQueueItem, sendErr error) error {
	now := time.Now().UnixMilli()
	record := deliverymodels.DeliveryHistory{
		QueueItemID:      item.ID,
		NotificationName: item.NotificationName,
		SubscriberID:     item.SubscriberID,
		ChannelType:      item.ChannelType,
		Recipient:        item.Recipient,
		AttemptCount:     item.AttemptCount,
	}
	if sendErr != nil {
		record.Status = deliverymodels.QueueStatusFailed
		record.Error = sendErr.Error()
	} else {
		record.Status = deliverymodels.QueueStatusSent
		record.SentAt = &now
	}
	_, err := s.InsertOne(ctx, record)
	return err
}
