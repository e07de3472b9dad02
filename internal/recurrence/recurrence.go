// Package recurrence tính toán các ngày diễn ra của một chuỗi sự kiện lặp
// (recurring Event series) và đối chiếu chuỗi hiện có với rule mới khi
// người dùng sửa quy tắc lặp.
package recurrence

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"planning_api/internal/common"
)

// DefaultMaxRecurrentEvents là trần mặc định cho số occurrence của một chuỗi.
// Giá trị runtime lấy từ config MAX_RECURRENT_EVENTS.
const DefaultMaxRecurrentEvents = 200

// Các giá trị frequency hợp lệ của recurring_rule
const (
	FreqDaily   = "DAILY"
	FreqWeekly  = "WEEKLY"
	FreqMonthly = "MONTHLY"
	FreqYearly  = "YEARLY"
)

// Các giá trị endRepeatMode hợp lệ
const (
	EndRepeatCount = "count"
	EndRepeatUntil = "until"
)

// RuleConfig mô tả recurring_rule của một Event
type RuleConfig struct {
	Frequency     string   // DAILY | WEEKLY | MONTHLY | YEARLY
	Interval      int      // Bước nhảy giữa các occurrence (mặc định 1)
	EndRepeatMode string   // count | until
	Count         int      // Số occurrence khi endRepeatMode=count
	Until         int64    // UnixMilli, ngày kết thúc (inclusive) khi endRepeatMode=until
	ByDay         []string // MO TU WE TH FR SA SU
	ByMonth       []int    // 1-12
	ByHour        []int    // 0-23
	ByMinute      []int    // 0-59
}

var weekdayByCode = map[string]rrule.Weekday{
	"MO": rrule.MO,
	"TU": rrule.TU,
	"WE": rrule.WE,
	"TH": rrule.TH,
	"FR": rrule.FR,
	"SA": rrule.SA,
	"SU": rrule.SU,
}

var frequencyByName = map[string]rrule.Frequency{
	FreqDaily:   rrule.DAILY,
	FreqWeekly:  rrule.WEEKLY,
	FreqMonthly: rrule.MONTHLY,
	FreqYearly:  rrule.YEARLY,
}

// GenerateRecurringDates sinh danh sách thời điểm bắt đầu của các occurrence
// trong chuỗi, bắt đầu từ start (đã ở đúng timezone của Event).
// Kết quả luôn bị chặn bởi max để giới hạn kích thước chuỗi; max <= 0 dùng
// DefaultMaxRecurrentEvents.
func GenerateRecurringDates(start time.Time, cfg RuleConfig, max int) ([]time.Time, error) {
	if max <= 0 {
		max = DefaultMaxRecurrentEvents
	}

	freq, ok := frequencyByName[strings.ToUpper(cfg.Frequency)]
	if !ok {
		return nil, common.NewError(common.ErrCodeValidationInput,
			fmt.Sprintf("Frequency không hợp lệ: '%s'", cfg.Frequency),
			common.StatusBadRequest, nil)
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = 1
	}

	opt := rrule.ROption{
		Freq:     freq,
		Interval: interval,
		Dtstart:  start,
	}

	switch cfg.EndRepeatMode {
	case EndRepeatCount:
		if cfg.Count <= 0 {
			return nil, common.NewError(common.ErrCodeValidationInput,
				"Count phải lớn hơn 0 khi endRepeatMode=count",
				common.StatusBadRequest, nil)
		}
		opt.Count = cfg.Count
	case EndRepeatUntil:
		if cfg.Until <= 0 {
			return nil, common.NewError(common.ErrCodeValidationInput,
				"Thiếu ngày kết thúc khi endRepeatMode=until",
				common.StatusBadRequest, nil)
		}
		// Until tính trọn ngày kết thúc: đẩy tới cuối ngày theo timezone của start
		opt.Until = endOfDay(time.UnixMilli(cfg.Until).In(start.Location()))
	default:
		return nil, common.NewError(common.ErrCodeValidationInput,
			fmt.Sprintf("endRepeatMode không hợp lệ: '%s'", cfg.EndRepeatMode),
			common.StatusBadRequest, nil)
	}

	for _, code := range cfg.ByDay {
		wd, ok := weekdayByCode[strings.ToUpper(strings.TrimSpace(code))]
		if !ok {
			return nil, common.NewError(common.ErrCodeValidationInput,
				fmt.Sprintf("ByDay không hợp lệ: '%s'", code),
				common.StatusBadRequest, nil)
		}
		opt.Byweekday = append(opt.Byweekday, wd)
	}
	opt.Bymonth = append(opt.Bymonth, cfg.ByMonth...)
	opt.Byhour = append(opt.Byhour, cfg.ByHour...)
	opt.Byminute = append(opt.Byminute, cfg.ByMinute...)

	r, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, common.NewError(common.ErrCodeValidationInput,
			fmt.Sprintf("Recurring rule không hợp lệ: %v", err),
			common.StatusBadRequest, nil)
	}

	dates := r.All()
	if len(dates) > max {
		dates = dates[:max]
	}
	return dates, nil
}

// RemainingCount trả về count còn lại khi regenerate một rule count-based:
// trừ đi số occurrence đã trôi qua (historic + past) để chuỗi mới không
// kéo dài quá ý định ban đầu của người dùng. Kết quả tối thiểu là 1.
func RemainingCount(cfg RuleConfig, elapsed int) int {
	if cfg.EndRepeatMode != EndRepeatCount {
		return cfg.Count
	}
	remaining := cfg.Count - elapsed
	if remaining < 1 {
		remaining = 1
	}
	return remaining
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
