package deliveryhdl

import (
	"fmt"

	basehdl "planning_api/internal/api/base/handler"
	deliverymodels "planning_api/internal/api/delivery/models"
	deliverysvc "planning_api/internal/api/delivery/service"
)

// DeliveryQueueHandler đọc delivery queue (theo dõi vận hành; ghi chỉ từ Dispatcher).
type DeliveryQueueHandler struct {
	*basehdl.BaseHandler[deliverymodels.DeliveryQueueItem, deliverymodels.DeliveryQueueItem, deliverymodels.DeliveryQueueItem]
}

// NewDeliveryQueueHandler tạo mới DeliveryQueueHandler
func NewDeliveryQueueHandler() (*DeliveryQueueHandler, error) {
	queueService, err := deliverysvc.NewDeliveryQueueService()
	if err != nil {
		return nil, fmt.Errorf("failed to create queue service: %w", err)
	}
	return &DeliveryQueueHandler{
		BaseHandler: basehdl.NewBaseHandler[deliverymodels.DeliveryQueueItem, deliverymodels.DeliveryQueueItem, deliverymodels.DeliveryQueueItem](queueService.BaseServiceMongoImpl),
	}, nil
}

// DeliveryHistoryHandler đọc delivery history (ghi chỉ từ Processor).
type DeliveryHistoryHandler struct {
	*basehdl.BaseHandler[deliverymodels.DeliveryHistory, deliverymodels.DeliveryHistory, deliverymodels.DeliveryHistory]
}

// NewDeliveryHistoryHandler tạo mới DeliveryHistoryHandler
func NewDeliveryHistoryHandler() (*DeliveryHistoryHandler, error) {
	historyService, err := deliverysvc.NewDeliveryHistoryService()
	if err != nil {
		return nil, fmt.Errorf("failed to create history service: %w", err)
	}
	return &DeliveryHistoryHandler{
		BaseHandler: basehdl.NewBaseHandler[deliverymodels.DeliveryHistory, deliverymodels.DeliveryHistory, deliverymodels.DeliveryHistory](historyService.BaseServiceMongoImpl),
	}, nil
}
