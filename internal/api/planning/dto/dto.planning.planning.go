// Package dto - DTO cho domain Planning (planning item).
package dto

import (
	planningmodels "planning_api/internal/api/planning/models"
)

// PlanningCreateInput dữ liệu tạo Planning item mới.
// EventItem là hex ObjectID của Event cha (nếu có); recurrence_id được service
// chép từ Event, không nhận từ client.
type PlanningCreateInput struct {
	Slugline     string                    `json:"slugline" validate:"required,no_xss"`
	Headline     string                    `json:"headline,omitempty" validate:"omitempty,no_xss"`
	Description  string                    `json:"description,omitempty"`
	Note         string                    `json:"note,omitempty"`
	EventItem    string                    `json:"eventItem,omitempty" transform:"str_objectid,optional"`
	PlanningDate int64                     `json:"planningDate" validate:"required"`
	Coverages    []planningmodels.Coverage `json:"coverages,omitempty"`
}

// PlanningUpdateInput dữ liệu cập nhật Planning item. State đổi qua các action
// riêng (spike, cancel); coverage giao việc qua domain assignments.
type PlanningUpdateInput struct {
	Slugline     string                    `json:"slugline,omitempty" validate:"omitempty,no_xss"`
	Headline     string                    `json:"headline,omitempty" validate:"omitempty,no_xss"`
	Description  string                    `json:"description,omitempty"`
	Note         string                    `json:"note,omitempty"`
	PlanningDate int64                     `json:"planningDate,omitempty"`
	Coverages    []planningmodels.Coverage `json:"coverages,omitempty"`
}

// PlanningCancelInput dữ liệu hủy Planning item.
type PlanningCancelInput struct {
	Reason string `json:"reason,omitempty"`
}

// CoverageCancelInput dữ liệu hủy một Coverage trong Planning item.
type CoverageCancelInput struct {
	CoverageID string `json:"coverageId" validate:"required" transform:"str_objectid,optional"`
	Reason     string `json:"reason,omitempty"`
}
