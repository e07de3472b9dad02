package logger

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// FilterHook đánh dấu các entry cần bỏ qua dựa trên cấu hình.
// Hook này phải được add trước AsyncHook: entry bị filter sẽ được đánh dấu
// bằng field "_filtered" và AsyncHook sẽ không ghi nó ra writer.
type FilterHook struct {
	excludeMessages []string
}

// NewFilterHook tạo filter hook từ cấu hình logging
func NewFilterHook(cfg *LogConfig) *FilterHook {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &FilterHook{
		excludeMessages: cfg.ExcludeMessages,
	}
}

// Levels trả về các log levels mà hook này xử lý
func (h *FilterHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire đánh dấu entry bị filter thay vì chặn trực tiếp,
// vì logrus không cho phép hook huỷ một entry
func (h *FilterHook) Fire(entry *logrus.Entry) error {
	for _, msg := range h.excludeMessages {
		if msg != "" && strings.Contains(entry.Message, msg) {
			entry.Data["_filtered"] = true
			return nil
		}
	}
	return nil
}
