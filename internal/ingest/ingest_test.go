package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	planningmodels "planning_api/internal/api/planning/models"
)

const sampleICS = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//Example//Agenda//EN
BEGIN:VEVENT
UID:press-conf-2026@example.com
SUMMARY:Họp báo công bố kết quả quý
DESCRIPTION:Công bố kết quả kinh doanh quý 3
LOCATION:Trung tâm hội nghị quốc gia
DTSTART:20260915T090000Z
DTEND:20260915T110000Z
END:VEVENT
BEGIN:VEVENT
UID:weekly-briefing@example.com
SUMMARY:Giao ban tuần
DTSTART:20260901T020000Z
DTEND:20260901T030000Z
RRULE:FREQ=WEEKLY;COUNT=10;BYDAY=MO
END:VEVENT
END:VCALENDAR
`

func TestParseICS(t *testing.T) {
	events, err := ParseICS([]byte(sampleICS))
	require.NoError(t, err)
	require.Len(t, events, 2)

	first := events[0]
	assert.Equal(t, "press-conf-2026@example.com", first.IngestRef)
	assert.Equal(t, "Họp báo công bố kết quả quý", first.Name)
	assert.Equal(t, "Trung tâm hội nghị quốc gia", first.Location)
	assert.Equal(t,
		time.Date(2026, 9, 15, 9, 0, 0, 0, time.UTC).UnixMilli(),
		first.Dates.Start)
	assert.Nil(t, first.Dates.RecurringRule)

	second := events[1]
	require.NotNil(t, second.Dates.RecurringRule)
	assert.Equal(t, "WEEKLY", second.Dates.RecurringRule.Frequency)
	assert.Equal(t, "count", second.Dates.RecurringRule.EndRepeatMode)
	assert.Equal(t, 10, second.Dates.RecurringRule.Count)
	assert.Equal(t, []string{"MO"}, second.Dates.RecurringRule.ByDay)
}

func TestParseICSInvalid(t *testing.T) {
	_, err := ParseICS(nil)
	assert.Error(t, err)

	_, err = ParseICS([]byte("không phải ics"))
	assert.Error(t, err)
}

func TestParseRRuleUntil(t *testing.T) {
	rule, err := parseRRule("FREQ=DAILY;UNTIL=20261231T235959Z")
	require.NoError(t, err)
	assert.Equal(t, "DAILY", rule.Frequency)
	assert.Equal(t, "until", rule.EndRepeatMode)
	assert.Equal(t,
		time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC).UnixMilli(),
		rule.Until)
}

func TestParseRRuleInfiniteCapped(t *testing.T) {
	rule, err := parseRRule("FREQ=DAILY")
	require.NoError(t, err)
	assert.Equal(t, "count", rule.EndRepeatMode)
	assert.Greater(t, rule.Count, 0)
}

const sampleNewsML = `<?xml version="1.0" encoding="UTF-8"?>
<eventItem guid="urn:newsml:example.com:20260915:E123" standard="NewsML-G2">
  <concept>
    <name>Hội nghị thượng đỉnh khí hậu</name>
    <definition>Phiên khai mạc hội nghị thường niên</definition>
    <eventDetails>
      <dates>
        <start>2026-09-20T08:00:00Z</start>
        <end>2026-09-20T17:00:00Z</end>
      </dates>
      <occurStatus qcode="eocstat:eos5"/>
      <location>
        <name>Hà Nội</name>
      </location>
    </eventDetails>
  </concept>
</eventItem>
`

func TestParseNewsML(t *testing.T) {
	events, err := ParseNewsML([]byte(sampleNewsML))
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, "urn:newsml:example.com:20260915:E123", ev.IngestRef)
	assert.Equal(t, "Hội nghị thượng đỉnh khí hậu", ev.Name)
	assert.Equal(t, planningmodels.OccurStatusPlanned, ev.OccurStatus)
	assert.Equal(t, "Hà Nội", ev.Location)
	assert.Equal(t,
		time.Date(2026, 9, 20, 8, 0, 0, 0, time.UTC).UnixMilli(),
		ev.Dates.Start)
}

func TestParseNewsMLMissingGuid(t *testing.T) {
	_, err := ParseNewsML([]byte(`<eventItem><concept><name>x</name></concept></eventItem>`))
	assert.Error(t, err)
}

const sampleOnclusive = `[
  {
    "itemId": 88421,
    "title": "Lễ trao giải báo chí quốc gia",
    "summary": "Lễ trao giải thường niên",
    "startDate": "2026-06-21T12:00:00Z",
    "endDate": "2026-06-21T15:00:00Z",
    "timezone": "Asia/Ho_Chi_Minh",
    "venue": "Nhà hát lớn"
  },
  {"itemId": 88422, "title": "Đã xóa", "startDate": "2026-06-22T12:00:00Z", "deleted": true},
  {"itemId": 0, "title": "Thiếu id", "startDate": "2026-06-23T12:00:00Z"}
]`

func TestParseOnclusive(t *testing.T) {
	events, err := ParseOnclusive([]byte(sampleOnclusive))
	require.NoError(t, err)

	// Item deleted và item thiếu id bị bỏ qua
	require.Len(t, events, 1)
	ev := events[0]
	assert.Equal(t, "onclusive-88421", ev.IngestRef)
	assert.Equal(t, "Lễ trao giải báo chí quốc gia", ev.Name)
	assert.Equal(t, "Asia/Ho_Chi_Minh", ev.Dates.Tz)
	assert.Equal(t, "Nhà hát lớn", ev.Location)
}
