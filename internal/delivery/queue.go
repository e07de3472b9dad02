// Package delivery bắc cầu từ notification bus trong process ra các kênh
// ngoài (email, webhook). Dispatcher nghe bus và enqueue; Processor (chạy từ
// worker) dequeue và gửi, retry theo backoff.
package delivery

import (
	"context"
	"fmt"

	deliverysvc "planning_api/internal/api/delivery/service"
	"planning_api/internal/logger"
	"planning_api/internal/notification"
)

// Dispatcher nghe notification bus và tạo queue item cho từng subscriber khớp.
type Dispatcher struct {
	queueService      *deliverysvc.DeliveryQueueService
	subscriberService *deliverysvc.SubscriberService
}

// NewDispatcher tạo mới Dispatcher
func NewDispatcher() (*Dispatcher, error) {
	queueService, err := deliverysvc.NewDeliveryQueueService()
	if err != nil {
		return nil, fmt.Errorf("failed to create queue service: %w", err)
	}
	subscriberService, err := deliverysvc.NewSubscriberService()
	if err != nil {
		return nil, fmt.Errorf("failed to create subscriber service: %w", err)
	}

	return &Dispatcher{
		queueService:      queueService,
		subscriberService: subscriberService,
	}, nil
}

// Register đăng ký Dispatcher vào notification bus. Gọi một lần khi khởi động.
func (d *Dispatcher) Register() {
	notification.OnNotification(d.handleNotification)
}

// handleNotification enqueue notification cho mọi subscriber khớp topic.
// Chạy trong goroutine của bus nên lỗi chỉ log.
func (d *Dispatcher) handleNotification(ctx context.Context, n notification.Notification) {
	log := logger.GetAppLogger()

	subs, err := d.subscriberService.FindMatching(ctx, n.Name)
	if err != nil {
		log.WithError(err).WithFields(map[string]interface{}{
			"notification": n.Name,
		}).Error("📦 [DELIVERY] Lỗi khi tìm subscriber cho notification")
		return
	}
	if len(subs) == 0 {
		return
	}

	enqueued := 0
	for i := range subs {
		if _, err := d.queueService.Enqueue(ctx, n.Name, n.Payload, &subs[i]); err != nil {
			log.WithError(err).WithFields(map[string]interface{}{
				"notification": n.Name,
				"subscriber":   subs[i].ID.Hex(),
			}).Error("📦 [DELIVERY] Lỗi khi enqueue queue item")
			continue
		}
		enqueued++
	}

	log.WithFields(map[string]interface{}{
		"notification": n.Name,
		"subscribers":  len(subs),
		"enqueued":     enqueued,
	}).Info("📦 [DELIVERY] Đã enqueue notification cho các subscriber")
}
