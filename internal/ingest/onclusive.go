package ingest

import (
	"encoding/json"
	"fmt"
	"time"

	planningmodels "planning_api/internal/api/planning/models"
	"planning_api/internal/common"
)

// onclusiveEvent là một event trong feed JSON của Onclusive.
type onclusiveEvent struct {
	ItemID    int    `json:"itemId"`
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	StartDate string `json:"startDate"` // RFC 3339
	EndDate   string `json:"endDate"`
	Timezone  string `json:"timezone"` // IANA, optional
	Venue     string `json:"venue"`
	Deleted   bool   `json:"deleted"`
}

// ParseOnclusive chuẩn hóa một feed Onclusive (mảng JSON) thành danh sách
// Event. Item deleted hoặc thiếu dữ liệu bắt buộc bị bỏ qua.
func ParseOnclusive(body []byte) ([]planningmodels.Event, error) {
	var items []onclusiveEvent
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, common.NewBadRequest("Payload Onclusive không hợp lệ: " + err.Error())
	}

	events := make([]planningmodels.Event, 0, len(items))
	for _, item := range items {
		if item.Deleted || item.ItemID == 0 || item.Title == "" {
			continue
		}
		start, err := time.Parse(time.RFC3339, item.StartDate)
		if err != nil {
			continue
		}
		end := start
		if item.EndDate != "" {
			if parsed, err := time.Parse(time.RFC3339, item.EndDate); err == nil {
				end = parsed
			}
		}

		ev := planningmodels.Event{
			Name:       item.Title,
			Definition: item.Summary,
			Location:   item.Venue,
			IngestRef:  fmt.Sprintf("onclusive-%d", item.ItemID),
		}
		ev.Dates.Start = start.UnixMilli()
		ev.Dates.End = end.UnixMilli()
		if item.Timezone != "" {
			if _, err := time.LoadLocation(item.Timezone); err == nil {
				ev.Dates.Tz = item.Timezone
			}
		}
		events = append(events, ev)
	}
	return events, nil
}
