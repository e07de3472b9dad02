package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func occAt(start time.Time, dur time.Duration) Occurrence {
	return Occurrence{
		ID:    primitive.NewObjectID(),
		Start: start.UnixMilli(),
		End:   start.Add(dur).UnixMilli(),
	}
}

func TestGetRecurringTimeline_Partition(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	hour := time.Hour

	historic1 := occAt(now.AddDate(0, 0, -7), hour) // đã kết thúc từ tuần trước
	historic2 := occAt(now.AddDate(0, 0, -3), hour)
	past1 := occAt(now.AddDate(0, 0, 1), hour) // sắp tới nhưng trước selected
	past2 := occAt(now.AddDate(0, 0, 2), hour)
	selected := occAt(now.AddDate(0, 0, 5), hour)
	future1 := occAt(now.AddDate(0, 0, 7), hour)
	future2 := occAt(now.AddDate(0, 0, 14), hour)

	series := []Occurrence{future2, historic1, past2, selected, future1, historic2, past1}
	tl := GetRecurringTimeline(selected, series, now.UnixMilli())

	// Ba nhóm rời nhau, selected không nằm trong nhóm nào,
	// historic ∪ past ∪ future ∪ {selected} = toàn bộ chuỗi
	require.Len(t, tl.Historic, 2)
	require.Len(t, tl.Past, 2)
	require.Len(t, tl.Future, 2)

	assert.Equal(t, historic1.ID, tl.Historic[0].ID)
	assert.Equal(t, historic2.ID, tl.Historic[1].ID)
	assert.Equal(t, past1.ID, tl.Past[0].ID)
	assert.Equal(t, past2.ID, tl.Past[1].ID)
	assert.Equal(t, future1.ID, tl.Future[0].ID)
	assert.Equal(t, future2.ID, tl.Future[1].ID)

	seen := map[primitive.ObjectID]bool{selected.ID: true}
	for _, bucket := range [][]Occurrence{tl.Historic, tl.Past, tl.Future} {
		for _, occ := range bucket {
			assert.False(t, seen[occ.ID], "các nhóm phải rời nhau")
			seen[occ.ID] = true
		}
	}
	assert.Len(t, seen, len(series), "phân hoạch phải phủ toàn bộ chuỗi")
}

func TestGetRecurringTimeline_OngoingOccurrenceIsPast(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// Occurrence đang diễn ra (start < now < end) trước selected: thuộc Past
	ongoing := occAt(now.Add(-30*time.Minute), 2*time.Hour)
	selected := occAt(now.AddDate(0, 0, 3), time.Hour)

	tl := GetRecurringTimeline(selected, []Occurrence{ongoing, selected}, now.UnixMilli())
	require.Len(t, tl.Past, 1)
	assert.Equal(t, ongoing.ID, tl.Past[0].ID)
	assert.Empty(t, tl.Historic)
	assert.Empty(t, tl.Future)
}

func TestGetRecurringTimeline_SingleOccurrenceSeries(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	selected := occAt(now.AddDate(0, 0, 1), time.Hour)

	// Chuỗi chỉ có một occurrence: cả ba nhóm rỗng,
	// "update future" vì vậy tương đương "update all"
	tl := GetRecurringTimeline(selected, []Occurrence{selected}, now.UnixMilli())
	assert.Empty(t, tl.Historic)
	assert.Empty(t, tl.Past)
	assert.Empty(t, tl.Future)
	assert.Equal(t, 0, tl.Elapsed())
}

func TestTimeline_Elapsed(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	selected := occAt(now.AddDate(0, 0, 10), time.Hour)
	series := []Occurrence{
		selected,
		occAt(now.AddDate(0, 0, -5), time.Hour),
		occAt(now.AddDate(0, 0, -2), time.Hour),
		occAt(now.AddDate(0, 0, 3), time.Hour),
		occAt(now.AddDate(0, 0, 20), time.Hour),
	}
	tl := GetRecurringTimeline(selected, series, now.UnixMilli())
	assert.Equal(t, 3, tl.Elapsed(), "elapsed = historic + past")
}
