// Package models - Model cho domain Planning (events, planning).
package models

// Trạng thái vòng đời của Event và Planning
const (
	StateDraft       = "draft"
	StateScheduled   = "scheduled"
	StatePostponed   = "postponed"
	StateCancelled   = "cancelled"
	StateRescheduled = "rescheduled"
	StateSpiked      = "spiked"
	StateIngested    = "ingested"
	StateKilled      = "killed"
)

// Occurrence status theo vocabulary NewsML (eocstat)
const (
	OccurStatusUnplanned = "eocstat:eos0" // Chưa lên kế hoạch
	OccurStatusPlanned   = "eocstat:eos5" // Đã lên kế hoạch, chắc chắn diễn ra
	OccurStatusCancelled = "eocstat:eos6" // Đã lên kế hoạch nhưng bị hủy
)

// Trạng thái xuất bản (pubstatus). Rỗng nghĩa là chưa post.
const (
	PubstatusUsable    = "usable"
	PubstatusCancelled = "cancelled"
)

// Workflow status của Coverage
const (
	CoverageStatusDraft     = "draft"
	CoverageStatusActive    = "active"
	CoverageStatusCancelled = "cancelled"
)

// Loại nội dung của Coverage (g2_content_type)
const (
	ContentTypeText      = "text"
	ContentTypePicture   = "picture"
	ContentTypeVideo     = "video"
	ContentTypeAudio     = "audio"
	ContentTypeLiveVideo = "live_video"
	ContentTypeLiveBlog  = "live_blog"
	ContentTypeGraphic   = "graphic"
)

// Phạm vi tác động khi thao tác trên một occurrence của chuỗi lặp
const (
	ScopeSingle = "single" // Chỉ occurrence được chọn
	ScopeFuture = "future" // Occurrence được chọn và các occurrence sau nó
	ScopeAll    = "all"    // Toàn bộ chuỗi
)

// Nguồn tạo item
const (
	SourceManual = "manual"
	SourceIngest = "ingest"
)

// IsTerminalState cho biết state có phải trạng thái kết thúc không: item ở
// trạng thái này không tham gia cascade nữa.
func IsTerminalState(state string) bool {
	switch state {
	case StateCancelled, StateSpiked, StateKilled:
		return true
	}
	return false
}
