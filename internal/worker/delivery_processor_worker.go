// Package worker - các background worker chạy định kỳ: gửi delivery queue,
// nhả lock quá hạn, dọn item đã spike hết hạn.
package worker

import (
	"context"
	"time"

	"planning_api/internal/delivery"
	"planning_api/internal/global"
	"planning_api/internal/logger"
)

// DeliveryProcessorWorker gửi các item đến hạn trong delivery queue.
type DeliveryProcessorWorker struct {
	processor *delivery.Processor
	interval  time.Duration // Khoảng thời gian giữa các lần chạy
	batchSize int           // Số item tối đa mỗi lần
}

// NewDeliveryProcessorWorker tạo mới DeliveryProcessorWorker.
// interval <= 0 lấy từ config DELIVERY_INTERVAL_SECONDS (mặc định 10s).
func NewDeliveryProcessorWorker(interval time.Duration, batchSize int) (*DeliveryProcessorWorker, error) {
	processor, err := delivery.NewProcessor()
	if err != nil {
		return nil, err
	}

	if interval <= 0 {
		seconds := 10
		if global.MongoDB_ServerConfig != nil && global.MongoDB_ServerConfig.DeliveryIntervalSeconds > 0 {
			seconds = global.MongoDB_ServerConfig.DeliveryIntervalSeconds
		}
		interval = time.Duration(seconds) * time.Second
	}
	if batchSize <= 0 {
		batchSize = 50
	}

	return &DeliveryProcessorWorker{
		processor: processor,
		interval:  interval,
		batchSize: batchSize,
	}, nil
}

// Start chạy worker trong vòng lặp.
func (w *DeliveryProcessorWorker) Start(ctx context.Context) {
	log := logger.GetAppLogger()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithFields(map[string]interface{}{
		"interval":  w.interval.String(),
		"batchSize": w.batchSize,
	}).Info("📦 [DELIVERY_PROCESSOR] Starting Delivery Processor Worker...")

	for {
		select {
		case <-ctx.Done():
			log.Info("📦 [DELIVERY_PROCESSOR] Delivery Processor Worker stopped")
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.WithFields(map[string]interface{}{
							"panic": r,
						}).Error("📦 [DELIVERY_PROCESSOR] Panic khi xử lý delivery queue, sẽ tiếp tục ở lần chạy tiếp theo")
					}
				}()

				sent, err := w.processor.ProcessBatch(ctx, w.batchSize)
				if err != nil {
					log.WithError(err).Error("📦 [DELIVERY_PROCESSOR] Failed to process delivery queue")
					return
				}
				if sent > 0 {
					log.WithFields(map[string]interface{}{
						"sentCount": sent,
					}).Info("📦 [DELIVERY_PROCESSOR] Đã gửi queue items")
				}
			}()
		}
	}
}
