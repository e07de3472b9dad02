// Package deliverysvc - SubscriberService (xem service.delivery.queue.go cho package doc).
package deliverysvc

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	basesvc "planning_api/internal/api/base/service"
	deliverymodels "planning_api/internal/api/delivery/models"
	"planning_api/internal/common"
	"planning_api/internal/global"
)

// SubscriberService là service quản lý Subscriber (đích nhận thông báo).
type SubscriberService struct {
	*basesvc.BaseServiceMongoImpl[deliverymodels.Subscriber]
}

// NewSubscriberService tạo mới SubscriberService
func NewSubscriberService() (*SubscriberService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.DeliverySubscribers)
	if !exist {
		return nil, fmt.Errorf("failed to get delivery_subscribers collection: %v", common.ErrNotFound)
	}

	return &SubscriberService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[deliverymodels.Subscriber](collection),
	}, nil
}

// FindMatching trả về các subscriber active nhận notification với tên đã cho.
// Lọc topic cụ thể làm ở memory vì luật match có prefix theo resource.
func (s *SubscriberService) FindMatching(ctx context.Context, notificationName string) ([]deliverymodels.Subscriber, error) {
	subs, err := s.Find(ctx, bson.M{"active": true}, nil)
	if err != nil {
		return nil, err
	}
	matched := make([]deliverymodels.Subscriber, 0, len(subs))
	for _, sub := range subs {
		if sub.Matches(notificationName) {
			matched = append(matched, sub)
		}
	}
	return matched, nil
}
