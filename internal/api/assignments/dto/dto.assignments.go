// Package dto - DTO cho domain Assignments.
package dto

// AssignmentCreateInput dữ liệu tạo Assignment mới cho một Coverage.
// Desk/User là hex ObjectID; user không được đứng một mình không có desk.
type AssignmentCreateInput struct {
	PlanningItem string `json:"planningItem" validate:"required" transform:"str_objectid"`
	CoverageItem string `json:"coverageItem" validate:"required" transform:"str_objectid"`
	Desk         string `json:"desk,omitempty" transform:"str_objectid,optional"`
	User         string `json:"user,omitempty" transform:"str_objectid,optional"`
	Priority     int    `json:"priority,omitempty"`
	Description  string `json:"description,omitempty"`
}

// AssignmentUpdateInput dữ liệu cập nhật Assignment (mô tả, độ ưu tiên).
// Desk/user đổi qua reassign, trạng thái đổi qua các action riêng.
type AssignmentUpdateInput struct {
	Priority    int    `json:"priority,omitempty"`
	Description string `json:"description,omitempty"`
}

// AssignmentReassignInput dữ liệu giao lại desk/user cho Assignment.
type AssignmentReassignInput struct {
	Desk string `json:"desk,omitempty" transform:"str_objectid,optional"`
	User string `json:"user,omitempty" transform:"str_objectid,optional"`
}

// AssignmentLockInput dữ liệu chiếm lock trên Assignment.
type AssignmentLockInput struct {
	LockAction string `json:"lockAction,omitempty"` // edit | complete | revert | remove
}
