// Package historyhdl chứa HTTP handler cho domain History (chỉ đọc).
package historyhdl

import (
	"fmt"

	basehdl "planning_api/internal/api/base/handler"
	historymodels "planning_api/internal/api/history/models"
	historysvc "planning_api/internal/api/history/service"
)

// HistoryHandler xử lý các route đọc history. Các route ghi không được đăng
// ký (ReadOnlyConfig): bản ghi chỉ sinh từ recorder trên event bus.
type HistoryHandler struct {
	*basehdl.BaseHandler[historymodels.HistoryRecord, historymodels.HistoryRecord, historymodels.HistoryRecord]
}

// NewHistoryHandler tạo HistoryHandler cho một collection history theo tên.
func NewHistoryHandler(collectionName string) (*HistoryHandler, error) {
	historyService, err := historysvc.NewHistoryService(collectionName)
	if err != nil {
		return nil, fmt.Errorf("failed to create history service: %w", err)
	}

	return &HistoryHandler{
		BaseHandler: basehdl.NewBaseHandler[historymodels.HistoryRecord, historymodels.HistoryRecord, historymodels.HistoryRecord](historyService.BaseServiceMongoImpl),
	}, nil
}
