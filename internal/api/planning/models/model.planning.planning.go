// Package models - Planning thuộc domain Planning (planning).
// Một Planning item là ý định đưa tin, có thể gắn với một Event, chứa danh
// sách Coverage nhúng. Mỗi Coverage mô tả một sản phẩm nội dung dự kiến
// (bài text, ảnh, video...) và có thể được giao cho một Assignment.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"planning_api/internal/itemlock"
)

// CoverageAssignedTo là thông tin giao việc của một Coverage.
// State phản chiếu trạng thái của Assignment tương ứng.
type CoverageAssignedTo struct {
	AssignmentID primitive.ObjectID `json:"assignmentId,omitempty" bson:"assignment_id,omitempty"`
	Desk         primitive.ObjectID `json:"desk,omitempty" bson:"desk,omitempty"`
	User         primitive.ObjectID `json:"user,omitempty" bson:"user,omitempty"`
	State        string             `json:"state,omitempty" bson:"state,omitempty"`
}

// CoverageDetail là phần kế hoạch nội dung của một Coverage.
type CoverageDetail struct {
	Slugline      string `json:"slugline,omitempty" bson:"slugline,omitempty" validate:"omitempty,no_xss"`
	G2ContentType string `json:"g2ContentType" bson:"g2_content_type" validate:"required"`
	Description   string `json:"description,omitempty" bson:"description,omitempty"`
	ScheduledAt   int64  `json:"scheduledAt,omitempty" bson:"scheduled,omitempty"` // UnixMilli hạn nộp
	Language      string `json:"language,omitempty" bson:"language,omitempty"`
	InternalNote  string `json:"internalNote,omitempty" bson:"internal_note,omitempty"`
}

// Coverage là sub-document nhúng trong Planning.
type Coverage struct {
	CoverageID     primitive.ObjectID  `json:"coverageId" bson:"coverage_id"`
	Planning       CoverageDetail      `json:"planning" bson:"planning"`
	AssignedTo     *CoverageAssignedTo `json:"assignedTo,omitempty" bson:"assigned_to,omitempty"`
	WorkflowStatus string              `json:"workflowStatus" bson:"workflow_status"`
}

// Planning lưu planning item (planning).
type Planning struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	_Relationships struct{} `json:"-" bson:"-" relationship:"collection:assignments,field:planning_item,optional:true,message:Khong the xoa planning vi co %d assignment dang lien ket."`

	// Nội dung
	Slugline    string `json:"slugline" bson:"slugline" validate:"required,no_xss" index:"single:1"`
	Headline    string `json:"headline,omitempty" bson:"headline,omitempty" validate:"omitempty,no_xss"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	Note        string `json:"note,omitempty" bson:"note,omitempty"`

	// Liên kết Event. Invariant: RecurrenceID phải bằng recurrence_id của
	// Event cha nếu có liên kết.
	EventItem    primitive.ObjectID `json:"eventItem,omitempty" bson:"event_item,omitempty"`
	RecurrenceID primitive.ObjectID `json:"recurrenceId,omitempty" bson:"recurrence_id,omitempty"`

	// Thời gian và trạng thái
	PlanningDate int64  `json:"planningDate" bson:"planning_date" validate:"required"` // UnixMilli
	State        string `json:"state" bson:"state" default:"draft" index:"single:1"`
	RevertState  string `json:"revertState,omitempty" bson:"revert_state,omitempty"` // State trước khi spike, dùng cho unspike

	// Coverage nhúng
	Coverages []Coverage `json:"coverages,omitempty" bson:"coverages,omitempty"`

	// Lock protocol
	itemlock.LockFields `bson:",inline"`

	// Dọn dẹp
	ExpiryAt int64 `json:"expiryAt,omitempty" bson:"expiry_at,omitempty"` // UnixMilli, set khi spike

	// Audit
	CreatedBy primitive.ObjectID `json:"createdBy,omitempty" bson:"created_by,omitempty"`
	CreatedAt int64              `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt int64              `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// FindCoverage trả về con trỏ tới Coverage theo coverage_id, nil nếu không có.
func (p *Planning) FindCoverage(coverageID primitive.ObjectID) *Coverage {
	for i := range p.Coverages {
		if p.Coverages[i].CoverageID == coverageID {
			return &p.Coverages[i]
		}
	}
	return nil
}
