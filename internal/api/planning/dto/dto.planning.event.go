// Package dto - DTO cho domain Planning (event).
package dto

import (
	planningmodels "planning_api/internal/api/planning/models"
)

// EventCreateInput dữ liệu tạo Event mới. Nếu dates.recurringRule có mặt,
// service sinh cả chuỗi occurrence cùng recurrence_id.
type EventCreateInput struct {
	Name           string                    `json:"name" validate:"required,no_xss"`
	Slugline       string                    `json:"slugline,omitempty" validate:"omitempty,no_xss"`
	Definition     string                    `json:"definition,omitempty"`
	DefinitionLong string                    `json:"definitionLong,omitempty"`
	Location       string                    `json:"location,omitempty"`
	Dates          planningmodels.EventDates `json:"dates" validate:"required"`
	OccurStatus    string                    `json:"occurStatus,omitempty"`
}

// EventUpdateInput dữ liệu cập nhật Event. Thời gian và quy tắc lặp không sửa
// qua update thường: dùng các action reschedule / update-repetitions.
type EventUpdateInput struct {
	Name           string `json:"name,omitempty" validate:"omitempty,no_xss"`
	Slugline       string `json:"slugline,omitempty" validate:"omitempty,no_xss"`
	Definition     string `json:"definition,omitempty"`
	DefinitionLong string `json:"definitionLong,omitempty"`
	Location       string `json:"location,omitempty"`
	OccurStatus    string `json:"occurStatus,omitempty"`
}

// LockInput dữ liệu chiếm lock trên một item.
type LockInput struct {
	LockAction string `json:"lockAction,omitempty"` // edit | cancel | reschedule | postpone | update_repetitions | spike
}

// EventSpikeInput dữ liệu spike Event.
type EventSpikeInput struct {
	Scope string `json:"scope,omitempty" validate:"omitempty,oneof=single series"` // mặc định single
}

// EventCancelInput dữ liệu hủy Event.
type EventCancelInput struct {
	Reason string `json:"reason,omitempty"`
	Scope  string `json:"scope,omitempty" validate:"omitempty,oneof=single future all"` // mặc định single
}

// EventPostponeInput dữ liệu hoãn Event.
type EventPostponeInput struct {
	Reason string `json:"reason,omitempty"`
}

// EventRescheduleInput dữ liệu dời lịch Event.
type EventRescheduleInput struct {
	Start  int64  `json:"start" validate:"required"`
	End    int64  `json:"end" validate:"required"`
	Tz     string `json:"tz,omitempty" validate:"omitempty,iana_tz"`
	Reason string `json:"reason,omitempty"`
}

// EventUpdateRepetitionsInput dữ liệu sửa quy tắc lặp của chuỗi.
type EventUpdateRepetitionsInput struct {
	RecurringRule planningmodels.RecurringRule `json:"recurringRule" validate:"required"`
}
