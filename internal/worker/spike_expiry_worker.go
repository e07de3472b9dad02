package worker

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	planningmodels "planning_api/internal/api/planning/models"
	"planning_api/internal/global"
	"planning_api/internal/logger"
)

// SpikeExpiryWorker xóa hẳn các item đã spike quá thời gian lưu giữ
// (expiry_at). Spike là soft-delete có hạn: hết hạn thì dọn thật.
type SpikeExpiryWorker struct {
	interval time.Duration // Khoảng thời gian giữa các lần chạy
}

// NewSpikeExpiryWorker tạo mới SpikeExpiryWorker.
func NewSpikeExpiryWorker(interval time.Duration) *SpikeExpiryWorker {
	if interval < time.Hour {
		interval = 24 * time.Hour
	}
	return &SpikeExpiryWorker{interval: interval}
}

// Start chạy worker trong vòng lặp.
func (w *SpikeExpiryWorker) Start(ctx context.Context) {
	log := logger.GetAppLogger()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithFields(map[string]interface{}{
		"interval": w.interval.String(),
	}).Info("🗑️ [SPIKE_EXPIRY] Starting Spike Expiry Worker...")

	for {
		select {
		case <-ctx.Done():
			log.Info("🗑️ [SPIKE_EXPIRY] Spike Expiry Worker stopped")
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.WithFields(map[string]interface{}{
							"panic": r,
						}).Error("🗑️ [SPIKE_EXPIRY] Panic khi dọn item spike hết hạn, sẽ tiếp tục ở lần chạy tiếp theo")
					}
				}()

				total := w.purgeExpired(ctx)
				if total > 0 {
					log.WithFields(map[string]interface{}{
						"purgedCount": total,
					}).Info("🗑️ [SPIKE_EXPIRY] Đã xóa item spike hết hạn")
				}
			}()
		}
	}
}

// purgeExpired xóa item spiked có expiry_at đã qua trên events, planning,
// assignments. Trả về tổng số item đã xóa.
func (w *SpikeExpiryWorker) purgeExpired(ctx context.Context) int64 {
	log := logger.GetAppLogger()
	now := time.Now().UnixMilli()

	filter := bson.M{
		"state":     planningmodels.StateSpiked,
		"expiry_at": bson.M{"$gt": 0, "$lt": now},
	}

	names := []string{
		global.MongoDB_ColNames.Planning,
		global.MongoDB_ColNames.Events,
	}
	var total int64
	for _, name := range names {
		col, exist := global.RegistryCollections.Get(name)
		if !exist {
			continue
		}
		result, err := col.DeleteMany(ctx, filter)
		if err != nil {
			log.WithError(err).WithFields(map[string]interface{}{
				"collection": name,
			}).Error("🗑️ [SPIKE_EXPIRY] Failed to purge expired spiked items")
			continue
		}
		total += result.DeletedCount
	}
	return total
}
