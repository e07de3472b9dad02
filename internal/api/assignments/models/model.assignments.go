// Package models - Model cho domain Assignments.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	planningmodels "planning_api/internal/api/planning/models"
	"planning_api/internal/itemlock"
)

// Trạng thái workflow của Assignment. Luồng chính:
// draft → assigned → in_progress → completed, nhánh phụ submitted / cancelled.
const (
	StateDraft      = "draft"       // chưa có desk
	StateAssigned   = "assigned"    // đã giao desk/user, chưa bắt đầu
	StateInProgress = "in_progress" // đã link content, đang làm
	StateSubmitted  = "submitted"   // content đã nộp chờ duyệt
	StateCompleted  = "completed"   // hoàn thành
	StateCancelled  = "cancelled"   // bị hủy (thường do cascade từ planning)
)

// AssignedTo mô tả desk/user đang nhận việc và trạng thái workflow.
type AssignedTo struct {
	Desk         primitive.ObjectID `json:"desk,omitempty" bson:"desk,omitempty"`
	User         primitive.ObjectID `json:"user,omitempty" bson:"user,omitempty"`
	State        string             `json:"state" bson:"state" default:"draft"`
	AssignedDate int64              `json:"assignedDate,omitempty" bson:"assigned_date,omitempty"`
}

// Assignment là bản ghi giao việc cho một Coverage của Planning item.
// Trường planning là snapshot chi tiết coverage tại thời điểm giao việc để
// desk đọc được ngay không cần join; nguồn sự thật vẫn là planning item.
type Assignment struct {
	ID primitive.ObjectID `json:"id" bson:"_id,omitempty"`

	PlanningItem primitive.ObjectID `json:"planningItem" bson:"planning_item" validate:"required" index:"single:1"`
	CoverageItem primitive.ObjectID `json:"coverageItem" bson:"coverage_item" validate:"required"`

	AssignedTo AssignedTo                    `json:"assignedTo" bson:"assigned_to"`
	Planning   planningmodels.CoverageDetail `json:"planning" bson:"planning"`

	Priority    int    `json:"priority,omitempty" bson:"priority,omitempty"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`

	// RevertState lưu trạng thái trước khi complete sớm (coverage không phải
	// text được phép complete từ assigned/submitted) để revert khôi phục đúng.
	RevertState string `json:"revertState,omitempty" bson:"revert_state,omitempty"`

	itemlock.LockFields `bson:",inline"`

	CreatedBy primitive.ObjectID `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}

// IsTerminal báo assignment đã kết thúc vòng đời (không nhận transition nữa).
func (a *Assignment) IsTerminal() bool {
	return a.AssignedTo.State == StateCompleted || a.AssignedTo.State == StateCancelled
}

// LinkedToContent báo assignment đã gắn với content đang sản xuất.
// Từ thời điểm này không được đổi desk.
func (a *Assignment) LinkedToContent() bool {
	return a.AssignedTo.State == StateInProgress || a.AssignedTo.State == StateSubmitted
}
