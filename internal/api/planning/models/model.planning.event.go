// Package models - Event thuộc domain Planning (events).
// Một Event là một sự kiện thực tế (họp báo, trận đấu, phiên tòa) mà tòa soạn
// có thể lên kế hoạch đưa tin. Event lặp được nhân bản thành nhiều occurrence
// cùng recurrence_id.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"planning_api/internal/itemlock"
)

// RecurringRule mô tả quy tắc lặp của một chuỗi Event (RFC5545-like).
type RecurringRule struct {
	Frequency     string   `json:"frequency" bson:"frequency" validate:"required,recurrence_freq"`           // DAILY | WEEKLY | MONTHLY | YEARLY
	Interval      int      `json:"interval,omitempty" bson:"interval,omitempty" validate:"omitempty,min=1"`  // Bước nhảy, mặc định 1
	EndRepeatMode string   `json:"endRepeatMode" bson:"end_repeat_mode" validate:"required,oneof=count until"`
	Count         int      `json:"count,omitempty" bson:"count,omitempty" validate:"omitempty,min=1"`
	Until         int64    `json:"until,omitempty" bson:"until,omitempty"` // UnixMilli, tính trọn ngày kết thúc
	ByDay         []string `json:"byDay,omitempty" bson:"by_day,omitempty"`
	ByMonth       []int    `json:"byMonth,omitempty" bson:"by_month,omitempty"`
	ByHour        []int    `json:"byHour,omitempty" bson:"by_hour,omitempty"`
	ByMinute      []int    `json:"byMinute,omitempty" bson:"by_minute,omitempty"`
}

// EventDates là khối thời gian của Event.
type EventDates struct {
	Start         int64          `json:"start" bson:"start" validate:"required"` // UnixMilli
	End           int64          `json:"end" bson:"end" validate:"required"`     // UnixMilli
	Tz            string         `json:"tz,omitempty" bson:"tz,omitempty" validate:"omitempty,iana_tz"`
	RecurringRule *RecurringRule `json:"recurringRule,omitempty" bson:"recurring_rule,omitempty"`
}

// Event lưu sự kiện (events).
type Event struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	// Event không bao giờ bị xóa vật lý khi còn Planning item liên kết
	// spike thay vì xóa
	_Relationships struct{} `json:"-" bson:"-" relationship:"collection:planning,field:event_item,message:Khong the xoa event vi co %d planning item dang lien ket. Vui long spike thay vi xoa."`

	// Nội dung
	Name           string `json:"name" bson:"name" validate:"required,no_xss" index:"single:1"`
	Slugline       string `json:"slugline,omitempty" bson:"slugline,omitempty" validate:"omitempty,no_xss"`
	Definition     string `json:"definition,omitempty" bson:"definition_short,omitempty"`
	DefinitionLong string `json:"definitionLong,omitempty" bson:"definition_long,omitempty"`
	Location       string `json:"location,omitempty" bson:"location,omitempty"`

	// Thời gian và chuỗi lặp
	Dates        EventDates         `json:"dates" bson:"dates"`
	RecurrenceID primitive.ObjectID `json:"recurrenceId,omitempty" bson:"recurrence_id,omitempty"` // Chung cho mọi occurrence của một chuỗi

	// Trạng thái
	State       string `json:"state" bson:"state" default:"draft" index:"single:1"`
	OccurStatus string `json:"occurStatus,omitempty" bson:"occur_status,omitempty" default:"eocstat:eos5"`
	RevertState string `json:"revertState,omitempty" bson:"revert_state,omitempty"` // State trước khi spike, dùng cho unspike
	Pubstatus   string `json:"pubstatus,omitempty" bson:"pubstatus,omitempty"`      // usable | cancelled, rỗng khi chưa post

	// Nguồn gốc
	Source         string             `json:"source,omitempty" bson:"source,omitempty" default:"manual"` // manual | ingest
	IngestProvider string             `json:"ingestProvider,omitempty" bson:"ingest_provider,omitempty"` // ics | newsml | onclusive
	IngestRef      string             `json:"ingestRef,omitempty" bson:"ingest_ref,omitempty"`           // ID bên nguồn, chống ingest trùng
	DuplicateFrom  primitive.ObjectID `json:"duplicateFrom,omitempty" bson:"duplicate_from,omitempty"`   // Event gốc khi reschedule tạo bản sao

	// Lock protocol
	itemlock.LockFields `bson:",inline"`

	// Dọn dẹp
	ExpiryAt int64 `json:"expiryAt,omitempty" bson:"expiry_at,omitempty"` // UnixMilli, set khi spike

	// Audit
	CreatedBy primitive.ObjectID `json:"createdBy,omitempty" bson:"created_by,omitempty"`
	CreatedAt int64              `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt int64              `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// IsRecurring cho biết Event có thuộc một chuỗi lặp không.
func (e *Event) IsRecurring() bool {
	return !e.RecurrenceID.IsZero()
}

// IsPosted cho biết Event đã post ra ngoài chưa (kể cả post hủy).
// Event đã post không bị spike kèm theo chuỗi, và reschedule phải giữ
// nguyên bản gốc (đi nhánh nhân bản).
func (e *Event) IsPosted() bool {
	return e.Pubstatus != ""
}
