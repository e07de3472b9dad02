package delivery

import (
	"context"
	"fmt"

	deliverymodels "planning_api/internal/api/delivery/models"
	deliverysvc "planning_api/internal/api/delivery/service"
	"planning_api/internal/delivery/channels"
	"planning_api/internal/logger"
)

// Processor dequeue các item đến hạn và gửi qua kênh tương ứng.
// Chạy định kỳ từ DeliveryProcessorWorker.
type Processor struct {
	queueService      *deliverysvc.DeliveryQueueService
	historyService    *deliverysvc.DeliveryHistoryService
	subscriberService *deliverysvc.SubscriberService
}

// NewProcessor tạo mới Processor
func NewProcessor() (*Processor, error) {
	queueService, err := deliverysvc.NewDeliveryQueueService()
	if err != nil {
		return nil, fmt.Errorf("failed to create queue service: %w", err)
	}
	historyService, err := deliverysvc.NewDeliveryHistoryService()
	if err != nil {
		return nil, fmt.Errorf("failed to create history service: %w", err)
	}
	subscriberService, err := deliverysvc.NewSubscriberService()
	if err != nil {
		return nil, fmt.Errorf("failed to create subscriber service: %w", err)
	}

	return &Processor{
		queueService:      queueService,
		historyService:    historyService,
		subscriberService: subscriberService,
	}, nil
}

// ProcessBatch xử lý tối đa limit item đến hạn. Trả về số item đã gửi thành công.
func (p *Processor) ProcessBatch(ctx context.Context, limit int) (int, error) {
	log := logger.GetAppLogger()

	items, err := p.queueService.FindDue(ctx, limit)
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, nil
	}
	if err := p.queueService.MarkProcessing(ctx, items); err != nil {
		return 0, err
	}

	sent := 0
	for i := range items {
		item := &items[i]
		item.AttemptCount++

		sendErr := p.send(ctx, item)
		if sendErr == nil {
			sent++
			if err := p.queueService.MarkSent(ctx, item); err != nil {
				log.WithError(err).Error("📦 [DELIVERY] Lỗi khi đánh dấu item sent")
			}
			if err := p.historyService.RecordResult(ctx, item, nil); err != nil {
				log.WithError(err).Error("📦 [DELIVERY] Lỗi khi ghi delivery history")
			}
			continue
		}

		exhausted, err := p.queueService.MarkFailed(ctx, item, sendErr)
		if err != nil {
			log.WithError(err).Error("📦 [DELIVERY] Lỗi khi đánh dấu item failed")
		}
		log.WithError(sendErr).WithFields(map[string]interface{}{
			"item":      item.ID.Hex(),
			"channel":   item.ChannelType,
			"recipient": item.Recipient,
			"attempt":   item.AttemptCount,
			"exhausted": exhausted,
		}).Warn("📦 [DELIVERY] Gửi thất bại")

		// History chỉ ghi khi bỏ cuộc hẳn; lần retry kế tiếp đã lên lịch
		if exhausted {
			if err := p.historyService.RecordResult(ctx, item, sendErr); err != nil {
				log.WithError(err).Error("📦 [DELIVERY] Lỗi khi ghi delivery history")
			}
		}
	}
	return sent, nil
}

// send chuyển item sang kênh tương ứng.
func (p *Processor) send(ctx context.Context, item *deliverymodels.DeliveryQueueItem) error {
	switch item.ChannelType {
	case deliverymodels.ChannelEmail:
		return channels.SendEmail(item.Recipient, item.NotificationName, item.Payload)
	case deliverymodels.ChannelWebhook:
		secret, err := p.webhookSecret(ctx, item)
		if err != nil {
			return err
		}
		return channels.SendWebhook(ctx, item.Recipient, item.NotificationName, item.Payload, secret)
	default:
		return fmt.Errorf("channel type không hỗ trợ: %s", item.ChannelType)
	}
}

// webhookSecret giải mã secret ký HMAC của subscriber (rỗng nếu không có).
func (p *Processor) webhookSecret(ctx context.Context, item *deliverymodels.DeliveryQueueItem) (string, error) {
	sub, err := p.subscriberService.FindOneById(ctx, item.SubscriberID)
	if err != nil {
		// Subscriber đã bị xóa: vẫn gửi, không ký
		return "", nil
	}
	if sub.EncryptedSecret == "" {
		return "", nil
	}
	plain, err := DecryptSubscriberSecret(sub.EncryptedSecret)
	if err != nil {
		return "", fmt.Errorf("giải mã webhook secret: %w", err)
	}
	return string(plain), nil
}
