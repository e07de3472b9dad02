package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestReconcile_NoChange(t *testing.T) {
	day1 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	existing := []Occurrence{occAt(day1, time.Hour), occAt(day2, time.Hour)}
	plan := Reconcile(existing, []time.Time{day1, day2}, time.UTC, nil)

	assert.Empty(t, plan.ToCreate)
	assert.Empty(t, plan.ToDelete)
	assert.Empty(t, plan.ToCancel)
}

func TestReconcile_CreateAndDelete(t *testing.T) {
	day1 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	day3 := day1.AddDate(0, 0, 2)

	kept := occAt(day1, time.Hour)
	orphan := occAt(day2, time.Hour)

	// Rule mới bỏ day2, thêm day3
	plan := Reconcile([]Occurrence{kept, orphan}, []time.Time{day1, day3}, time.UTC, nil)

	require.Len(t, plan.ToDelete, 1)
	assert.Equal(t, orphan.ID, plan.ToDelete[0])
	require.Len(t, plan.ToCreate, 1)
	assert.Equal(t, day3.UnixMilli(), plan.ToCreate[0])
	assert.Empty(t, plan.ToCancel)
}

func TestReconcile_OrphanInUseIsCancelled(t *testing.T) {
	day1 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	orphan := occAt(day2, time.Hour)
	inUse := map[primitive.ObjectID]bool{orphan.ID: true}

	// Occurrence mồ côi nhưng đã có Planning gắn vào: cancel thay vì xoá
	plan := Reconcile([]Occurrence{occAt(day1, time.Hour), orphan}, []time.Time{day1}, time.UTC, inUse)

	require.Len(t, plan.ToCancel, 1)
	assert.Equal(t, orphan.ID, plan.ToCancel[0])
	assert.Empty(t, plan.ToDelete)
}

func TestReconcile_DuplicateSameDay_LaterDeleted(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	earlier := occAt(day.Add(9*time.Hour), time.Hour)
	later := occAt(day.Add(15*time.Hour), time.Hour)

	// Hai occurrence rơi vào cùng một ngày: giữ bản sớm hơn, xoá bản muộn hơn
	plan := Reconcile([]Occurrence{later, earlier}, []time.Time{earlier.startTime()}, time.UTC, nil)

	require.Len(t, plan.ToDelete, 1)
	assert.Equal(t, later.ID, plan.ToDelete[0])
	assert.Empty(t, plan.ToCreate)
	assert.Empty(t, plan.ToCancel)
}

func TestReconcile_OrphanDayDuplicateInUse_Cancelled(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	earlier := occAt(day.Add(9*time.Hour), time.Hour)
	later := occAt(day.Add(15*time.Hour), time.Hour)
	inUse := map[primitive.ObjectID]bool{later.ID: true}

	// Cả ngày bị rule mới bỏ: bản muộn hơn tuy trùng ngày nhưng đang có
	// Planning gắn vào nên phải cancel, chỉ bản chưa dùng mới bị xoá
	plan := Reconcile([]Occurrence{earlier, later}, nil, time.UTC, inUse)

	require.Len(t, plan.ToCancel, 1)
	assert.Equal(t, later.ID, plan.ToCancel[0])
	require.Len(t, plan.ToDelete, 1)
	assert.Equal(t, earlier.ID, plan.ToDelete[0])
}

func TestReconcile_EmptyExisting_AllCreated(t *testing.T) {
	day1 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 7)

	plan := Reconcile(nil, []time.Time{day2, day1}, time.UTC, nil)

	require.Len(t, plan.ToCreate, 2)
	assert.Equal(t, day1.UnixMilli(), plan.ToCreate[0], "ToCreate phải được sắp tăng dần")
	assert.Equal(t, day2.UnixMilli(), plan.ToCreate[1])
}

func (o Occurrence) startTime() time.Time {
	return time.UnixMilli(o.Start).UTC()
}
