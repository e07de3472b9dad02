package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRecurringDates_DailyCount(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	dates, err := GenerateRecurringDates(start, RuleConfig{
		Frequency:     FreqDaily,
		Interval:      1,
		EndRepeatMode: EndRepeatCount,
		Count:         5,
	}, 0)
	require.NoError(t, err)

	// Rule count=N phải sinh đúng N ngày
	require.Len(t, dates, 5)
	assert.Equal(t, start, dates[0], "ngày đầu tiên phải là start")
	for i := 1; i < len(dates); i++ {
		assert.Equal(t, 24*time.Hour, dates[i].Sub(dates[i-1]), "các ngày phải cách nhau đúng 1 ngày")
	}
}

func TestGenerateRecurringDates_CappedByMax(t *testing.T) {
	start := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	dates, err := GenerateRecurringDates(start, RuleConfig{
		Frequency:     FreqDaily,
		Interval:      1,
		EndRepeatMode: EndRepeatCount,
		Count:         500,
	}, 10)
	require.NoError(t, err)
	assert.Len(t, dates, 10, "kết quả phải bị chặn bởi max")
}

func TestGenerateRecurringDates_UntilInclusive(t *testing.T) {
	// Chuỗi hàng tuần từ thứ Hai 2026-03-02, until đúng ngày 2026-03-16:
	// ngày until phải được tính (3 occurrence: 02, 09, 16)
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	until := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC).UnixMilli()
	dates, err := GenerateRecurringDates(start, RuleConfig{
		Frequency:     FreqWeekly,
		EndRepeatMode: EndRepeatUntil,
		Until:         until,
	}, 0)
	require.NoError(t, err)
	require.Len(t, dates, 3)
	assert.Equal(t, 16, dates[2].Day(), "occurrence rơi đúng ngày until phải được giữ")
}

func TestGenerateRecurringDates_WeeklyByDay(t *testing.T) {
	// Thứ Hai và thứ Tư trong 2 tuần
	start := time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC) // thứ Hai
	dates, err := GenerateRecurringDates(start, RuleConfig{
		Frequency:     FreqWeekly,
		EndRepeatMode: EndRepeatCount,
		Count:         4,
		ByDay:         []string{"MO", "WE"},
	}, 0)
	require.NoError(t, err)
	require.Len(t, dates, 4)
	for _, d := range dates {
		assert.Contains(t, []time.Weekday{time.Monday, time.Wednesday}, d.Weekday())
	}
}

func TestGenerateRecurringDates_MonthlyInterval(t *testing.T) {
	start := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	dates, err := GenerateRecurringDates(start, RuleConfig{
		Frequency:     FreqMonthly,
		Interval:      2,
		EndRepeatMode: EndRepeatCount,
		Count:         3,
	}, 0)
	require.NoError(t, err)
	require.Len(t, dates, 3)
	assert.Equal(t, time.January, dates[0].Month())
	assert.Equal(t, time.March, dates[1].Month())
	assert.Equal(t, time.May, dates[2].Month())
}

func TestGenerateRecurringDates_InvalidInput(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	_, err := GenerateRecurringDates(start, RuleConfig{
		Frequency:     "HOURLY",
		EndRepeatMode: EndRepeatCount,
		Count:         3,
	}, 0)
	assert.Error(t, err, "frequency ngoài DAILY/WEEKLY/MONTHLY/YEARLY phải bị từ chối")

	_, err = GenerateRecurringDates(start, RuleConfig{
		Frequency:     FreqDaily,
		EndRepeatMode: EndRepeatCount,
		Count:         0,
	}, 0)
	assert.Error(t, err, "count=0 phải bị từ chối")

	_, err = GenerateRecurringDates(start, RuleConfig{
		Frequency:     FreqDaily,
		EndRepeatMode: "forever",
	}, 0)
	assert.Error(t, err, "endRepeatMode lạ phải bị từ chối")

	_, err = GenerateRecurringDates(start, RuleConfig{
		Frequency:     FreqWeekly,
		EndRepeatMode: EndRepeatCount,
		Count:         2,
		ByDay:         []string{"XX"},
	}, 0)
	assert.Error(t, err, "byday không hợp lệ phải bị từ chối")
}

func TestRemainingCount(t *testing.T) {
	cfg := RuleConfig{EndRepeatMode: EndRepeatCount, Count: 10}

	assert.Equal(t, 7, RemainingCount(cfg, 3), "count phải trừ số occurrence đã trôi qua")
	assert.Equal(t, 1, RemainingCount(cfg, 15), "count còn lại tối thiểu là 1")

	untilCfg := RuleConfig{EndRepeatMode: EndRepeatUntil, Count: 0}
	assert.Equal(t, 0, RemainingCount(untilCfg, 3), "rule until không bị điều chỉnh count")
}
