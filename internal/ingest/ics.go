// Package ingest nhận event từ nguồn ngoài (iCalendar, NewsML-G2, Onclusive)
// và đưa vào collection events với state=ingested. Mỗi parser chuẩn hóa
// payload của nguồn về planningmodels.Event; Service.Apply dedup theo
// ingest_ref và ghi xuống database.
package ingest

import (
	"bytes"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	planningmodels "planning_api/internal/api/planning/models"
	"planning_api/internal/common"
	"planning_api/internal/recurrence"
)

// ProviderICS, ProviderNewsML, ProviderOnclusive là tên các nguồn ingest.
const (
	ProviderICS       = "ics"
	ProviderNewsML    = "newsml"
	ProviderOnclusive = "onclusive"
)

// ParseICS chuẩn hóa một payload iCalendar thành danh sách Event.
// VEVENT thiếu UID hoặc thiếu thời gian bị bỏ qua.
func ParseICS(body []byte) ([]planningmodels.Event, error) {
	if len(body) == 0 {
		return nil, common.NewBadRequest("Payload iCalendar rỗng")
	}
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, common.NewBadRequest("Payload iCalendar không hợp lệ: " + err.Error())
	}

	events := make([]planningmodels.Event, 0)
	for _, ve := range cal.Events() {
		ev, ok := parseVEvent(ve)
		if !ok {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

func parseVEvent(ve *ical.VEvent) (planningmodels.Event, bool) {
	var out planningmodels.Event

	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return out, false
	}
	out.IngestRef = uidProp.Value

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Name = p.Value
	}
	if out.Name == "" {
		return out, false
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		out.Definition = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		out.Location = p.Value
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return out, false
	}
	end, err := ve.GetEndAt()
	if err != nil || end.Before(start) {
		end = start
	}
	out.Dates.Start = start.UnixMilli()
	out.Dates.End = end.UnixMilli()

	// TZID của DTSTART nếu là IANA timezone hợp lệ
	if dtStartProp := ve.GetProperty(ical.ComponentPropertyDtStart); dtStartProp != nil {
		if tzs, ok := dtStartProp.ICalParameters["TZID"]; ok && len(tzs) > 0 {
			if _, err := time.LoadLocation(tzs[0]); err == nil {
				out.Dates.Tz = tzs[0]
			}
		}
	}

	if rruleProp := ve.GetProperty(ical.ComponentPropertyRrule); rruleProp != nil {
		if rule, err := parseRRule(rruleProp.Value); err == nil {
			out.Dates.RecurringRule = rule
		}
	}
	return out, true
}

// parseRRule chuyển chuỗi RRULE RFC 5545 sang RecurringRule của model.
func parseRRule(raw string) (*planningmodels.RecurringRule, error) {
	opt, err := rrule.StrToROption(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}

	rule := &planningmodels.RecurringRule{
		Frequency: frequencyName(opt.Freq),
		Interval:  opt.Interval,
	}
	if rule.Interval == 0 {
		rule.Interval = 1
	}
	if opt.Count > 0 {
		rule.EndRepeatMode = "count"
		rule.Count = opt.Count
	} else if !opt.Until.IsZero() {
		rule.EndRepeatMode = "until"
		rule.Until = opt.Until.UnixMilli()
	} else {
		// RRULE vô hạn: chặn bằng trần chuỗi lặp
		rule.EndRepeatMode = "count"
		rule.Count = recurrence.DefaultMaxRecurrentEvents
	}
	for _, wd := range opt.Byweekday {
		rule.ByDay = append(rule.ByDay, wd.String())
	}
	rule.ByMonth = append(rule.ByMonth, opt.Bymonth...)
	rule.ByHour = append(rule.ByHour, opt.Byhour...)
	rule.ByMinute = append(rule.ByMinute, opt.Byminute...)
	return rule, nil
}

func frequencyName(f rrule.Frequency) string {
	switch f {
	case rrule.DAILY:
		return "DAILY"
	case rrule.WEEKLY:
		return "WEEKLY"
	case rrule.MONTHLY:
		return "MONTHLY"
	case rrule.YEARLY:
		return "YEARLY"
	default:
		return "DAILY"
	}
}
