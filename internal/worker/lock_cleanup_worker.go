package worker

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"planning_api/internal/global"
	"planning_api/internal/itemlock"
	"planning_api/internal/logger"
)

// LockCleanupWorker nhả lock bị giữ quá thời gian edit tối đa (client crash,
// mất mạng giữa phiên edit).
type LockCleanupWorker struct {
	locker   *itemlock.Locker
	interval time.Duration // Khoảng thời gian giữa các lần chạy
	maxAge   time.Duration // Lock cũ hơn ngưỡng này bị nhả
}

// NewLockCleanupWorker tạo mới LockCleanupWorker.
// maxAge <= 0 lấy từ config LOCK_MAX_EDIT_MINUTES (mặc định 90 phút).
func NewLockCleanupWorker(interval, maxAge time.Duration) (*LockCleanupWorker, error) {
	locker, err := itemlock.NewLocker()
	if err != nil {
		return nil, err
	}

	if interval < time.Minute {
		interval = 5 * time.Minute
	}
	if maxAge <= 0 {
		minutes := 90
		if global.MongoDB_ServerConfig != nil && global.MongoDB_ServerConfig.LockMaxEditMinutes > 0 {
			minutes = global.MongoDB_ServerConfig.LockMaxEditMinutes
		}
		maxAge = time.Duration(minutes) * time.Minute
	}

	return &LockCleanupWorker{
		locker:   locker,
		interval: interval,
		maxAge:   maxAge,
	}, nil
}

// lockedCollections trả về các collection có lock fields inline.
func lockedCollections() []*mongo.Collection {
	names := []string{
		global.MongoDB_ColNames.Events,
		global.MongoDB_ColNames.Planning,
		global.MongoDB_ColNames.Assignments,
	}
	cols := make([]*mongo.Collection, 0, len(names))
	for _, name := range names {
		if col, exist := global.RegistryCollections.Get(name); exist {
			cols = append(cols, col)
		}
	}
	return cols
}

// Start chạy worker trong vòng lặp.
func (w *LockCleanupWorker) Start(ctx context.Context) {
	log := logger.GetAppLogger()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithFields(map[string]interface{}{
		"interval": w.interval.String(),
		"maxAge":   w.maxAge.String(),
	}).Info("🔒 [LOCK_CLEANUP] Starting Lock Cleanup Worker...")

	for {
		select {
		case <-ctx.Done():
			log.Info("🔒 [LOCK_CLEANUP] Lock Cleanup Worker stopped")
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.WithFields(map[string]interface{}{
							"panic": r,
						}).Error("🔒 [LOCK_CLEANUP] Panic khi nhả lock quá hạn, sẽ tiếp tục ở lần chạy tiếp theo")
					}
				}()

				var total int64
				for _, col := range lockedCollections() {
					released, err := w.locker.UnlockStale(ctx, col, w.maxAge)
					if err != nil {
						log.WithError(err).WithFields(map[string]interface{}{
							"collection": col.Name(),
						}).Error("🔒 [LOCK_CLEANUP] Failed to release stale locks")
						continue
					}
					total += released
				}
				if total > 0 {
					log.WithFields(map[string]interface{}{
						"releasedCount": total,
						"maxAge":        w.maxAge.String(),
					}).Info("🔒 [LOCK_CLEANUP] Released stale locks")
				}
			}()
		}
	}
}
